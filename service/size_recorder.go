package service

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"traydock/model"
)

// ResizeSettleDelay is how long a resize burst must be quiet before the
// size is written
const ResizeSettleDelay = 500 * time.Millisecond

// GeometryWriter persists a window size
type GeometryWriter interface {
	SaveGeometry(g model.WindowGeometry) bool
}

// SizeRecorder coalesces resize events into one trailing write.
// Every event schedules its own deferred check; only the check belonging to
// the latest event, firing after a quiet period, writes.
type SizeRecorder struct {
	mu        sync.Mutex
	lastEvent time.Time
	seq       uint64
	pending   model.WindowGeometry
	dirty     bool

	delay  time.Duration
	writer GeometryWriter
	events EventLogger
}

// NewSizeRecorder creates a recorder writing through w
func NewSizeRecorder(w GeometryWriter) *SizeRecorder {
	return &SizeRecorder{
		delay:  ResizeSettleDelay,
		writer: w,
		events: nopEvents{},
	}
}

// SetEventLogger sets the event logger for geometry writes
func (r *SizeRecorder) SetEventLogger(el EventLogger) {
	r.events = eventsOrNop(el)
}

// OnResize records a resize event and schedules its deferred check
func (r *SizeRecorder) OnResize(g model.WindowGeometry) {
	if !g.Valid() {
		return
	}

	r.mu.Lock()
	r.lastEvent = time.Now()
	r.seq++
	seq := r.seq
	r.pending = g
	r.dirty = true
	r.mu.Unlock()

	time.AfterFunc(r.delay, func() { r.settle(seq) })
}

// settle writes the pending size if no newer event arrived in the meantime
func (r *SizeRecorder) settle(seq uint64) {
	r.mu.Lock()
	if seq != r.seq || time.Since(r.lastEvent) < r.delay || !r.dirty {
		r.mu.Unlock()
		r.events.LogResizeSuppressed()
		return
	}
	g := r.pending
	r.dirty = false
	r.mu.Unlock()

	if r.writer.SaveGeometry(g) {
		r.events.LogGeometrySaved(g, "resize")
		log.Debug().Uint32("width", g.Width).Uint32("height", g.Height).Msg("Window size saved after resize")
	}
}

// SaveNow writes g immediately, independent of any pending check
func (r *SizeRecorder) SaveNow(g model.WindowGeometry, trigger string) bool {
	if !r.writer.SaveGeometry(g) {
		return false
	}
	r.events.LogGeometrySaved(g, trigger)
	return true
}

// Flush writes a size still waiting on its quiet period. Used at shutdown.
func (r *SizeRecorder) Flush() bool {
	r.mu.Lock()
	if !r.dirty {
		r.mu.Unlock()
		return false
	}
	g := r.pending
	r.dirty = false
	r.mu.Unlock()

	return r.SaveNow(g, "shutdown")
}

// Pending reports whether a resize is waiting for its quiet period
func (r *SizeRecorder) Pending() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dirty
}
