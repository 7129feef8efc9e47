package logger

import (
	"sync"
	"sync/atomic"
	"time"

	"traydock/model"
)

// EventLogger logs controller events and collects per-minute counters
type EventLogger struct {
	fileManager *LogFileManager
	writeFiles  atomic.Bool

	// Recent events buffer for debugging (circular buffer)
	recentEvents   []model.ControllerEvent
	recentEventIdx int
	recentEventMu  sync.RWMutex

	// Metrics counters (reset every minute)
	toggles           atomic.Int64
	geometryWrites    atomic.Int64
	resizesSuppressed atomic.Int64
	platformFailures  atomic.Int64
	shortcutFallbacks atomic.Int64
	totalRequests     atomic.Int64
	failedRequests    atomic.Int64
}

const recentEventsBufferSize = 100

// NewEventLogger creates a new event logger. fm may be nil, in which case
// events only go to the in-memory buffer.
func NewEventLogger(fm *LogFileManager) *EventLogger {
	el := &EventLogger{
		fileManager:  fm,
		recentEvents: make([]model.ControllerEvent, recentEventsBufferSize),
	}
	el.writeFiles.Store(fm != nil)
	return el
}

// SetWriteFiles enables/disables the events JSONL file
func (el *EventLogger) SetWriteFiles(enabled bool) {
	el.writeFiles.Store(enabled && el.fileManager != nil)
}

// record stamps, buffers and persists an event
func (el *EventLogger) record(event model.ControllerEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	el.recentEventMu.Lock()
	el.recentEvents[el.recentEventIdx] = event
	el.recentEventIdx = (el.recentEventIdx + 1) % recentEventsBufferSize
	el.recentEventMu.Unlock()

	if el.writeFiles.Load() {
		go el.fileManager.WriteJSON(LogEvents, event)
	}
}

// GetRecentEvents returns the most recent events, newest first
func (el *EventLogger) GetRecentEvents(limit int) []model.ControllerEvent {
	el.recentEventMu.RLock()
	defer el.recentEventMu.RUnlock()

	if limit > recentEventsBufferSize {
		limit = recentEventsBufferSize
	}

	result := make([]model.ControllerEvent, 0, limit)

	// Start from most recent and go backwards
	idx := (el.recentEventIdx - 1 + recentEventsBufferSize) % recentEventsBufferSize
	for i := 0; i < limit; i++ {
		event := el.recentEvents[idx]
		if event.Timestamp.IsZero() {
			break // Empty slot, buffer not full yet
		}
		result = append(result, event)
		idx = (idx - 1 + recentEventsBufferSize) % recentEventsBufferSize
	}

	return result
}

// LogToggle logs a toggle request and where it came from
func (el *EventLogger) LogToggle(trigger string) {
	el.toggles.Add(1)
	el.record(model.ControllerEvent{EventType: model.EventToggle, Trigger: trigger})
}

// LogShown logs a completed show transition
func (el *EventLogger) LogShown(trigger string) {
	el.record(model.ControllerEvent{EventType: model.EventShown, Trigger: trigger})
}

// LogHidden logs a completed hide transition
func (el *EventLogger) LogHidden(trigger string) {
	el.record(model.ControllerEvent{EventType: model.EventHidden, Trigger: trigger})
}

// LogPlatformFailure logs an abandoned window or tray call
func (el *EventLogger) LogPlatformFailure(op string, err error) {
	el.platformFailures.Add(1)
	event := model.ControllerEvent{EventType: model.EventPlatformFailure, Trigger: op}
	if err != nil {
		event.Reason = err.Error()
	}
	el.record(event)
}

// LogGeometrySaved logs a geometry write
func (el *EventLogger) LogGeometrySaved(g model.WindowGeometry, trigger string) {
	el.geometryWrites.Add(1)
	el.record(model.ControllerEvent{
		EventType: model.EventGeometrySaved,
		Trigger:   trigger,
		Width:     g.Width,
		Height:    g.Height,
	})
}

// LogResizeSuppressed counts a debounce check superseded by a newer event.
// Not buffered: a drag produces one per frame.
func (el *EventLogger) LogResizeSuppressed() {
	el.resizesSuppressed.Add(1)
}

// LogShortcutBound logs a successful registration
func (el *EventLogger) LogShortcutBound(shortcut string) {
	el.record(model.ControllerEvent{EventType: model.EventShortcutBound, Shortcut: shortcut})
}

// LogShortcutFallback logs a registration failure and the binding re-armed instead
func (el *EventLogger) LogShortcutFallback(requested, active string, err error) {
	el.shortcutFallbacks.Add(1)
	event := model.ControllerEvent{
		EventType: model.EventShortcutFallback,
		Trigger:   requested,
		Shortcut:  active,
	}
	if err != nil {
		event.Reason = err.Error()
	}
	el.record(event)
}

// LogBadgeChanged logs a tray badge swap
func (el *EventLogger) LogBadgeChanged(hasUnread bool) {
	reason := "cleared"
	if hasUnread {
		reason = "unread"
	}
	el.record(model.ControllerEvent{EventType: model.EventBadgeChanged, Reason: reason})
}

// LogOpacityChanged logs an applied opacity
func (el *EventLogger) LogOpacityChanged(opacity float64) {
	el.record(model.ControllerEvent{EventType: model.EventOpacityChanged, Opacity: opacity})
}

// LogSettingsReloaded logs an external edit of the preferences file
func (el *EventLogger) LogSettingsReloaded(path string) {
	el.record(model.ControllerEvent{EventType: model.EventSettingsReloaded, Reason: path})
}

// IncrementRequests counts a handled command request
func (el *EventLogger) IncrementRequests() {
	el.totalRequests.Add(1)
}

// IncrementErrors counts a failed command request
func (el *EventLogger) IncrementErrors() {
	el.failedRequests.Add(1)
}

// GetMinuteMetrics returns and resets the per-minute counters
func (el *EventLogger) GetMinuteMetrics() model.MetricsLog {
	return model.MetricsLog{
		Timestamp:         time.Now(),
		Toggles:           el.toggles.Swap(0),
		GeometryWrites:    el.geometryWrites.Swap(0),
		ResizesSuppressed: el.resizesSuppressed.Swap(0),
		PlatformFailures:  el.platformFailures.Swap(0),
		ShortcutFallbacks: el.shortcutFallbacks.Swap(0),
		TotalRequests:     el.totalRequests.Swap(0),
		FailedRequests:    el.failedRequests.Swap(0),
	}
}
