// Package window implements the host window for a frontend attached over
// the command surface. The frontend renders the window; this side owns its
// reported state and forwards directives to it.
package window

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"traydock/model"
)

var (
	// ErrDetached is returned for directives issued with no frontend attached
	ErrDetached = errors.New("no frontend attached")
	// ErrBackpressure is returned when every frontend queue is full
	ErrBackpressure = errors.New("frontend not keeping up")
	// ErrSizeUnknown is returned before the frontend has reported a size
	ErrSizeUnknown = errors.New("window size not reported yet")
)

const subscriberBuffer = 32

// Subscriber is one attached frontend's directive stream
type Subscriber struct {
	ID   string
	ch   chan model.Directive
	done chan struct{}
	once sync.Once
}

// Directives returns the stream of directives for this frontend
func (s *Subscriber) Directives() <-chan model.Directive {
	return s.ch
}

// Done is closed when the subscriber is detached
func (s *Subscriber) Done() <-chan struct{} {
	return s.done
}

// Remote is the main window as seen through its frontend
type Remote struct {
	mu       sync.RWMutex
	subs     map[string]*Subscriber
	visible  bool
	focused  bool
	inner    model.WindowGeometry
	outer    model.Size
	position model.Position
	opacity  float64
}

// NewRemote creates a hidden window with no frontend attached
func NewRemote() *Remote {
	return &Remote{
		subs:    make(map[string]*Subscriber),
		opacity: model.MaxOpacity,
	}
}

// Attach registers a frontend and returns its directive stream
func (r *Remote) Attach() *Subscriber {
	sub := &Subscriber{
		ID:   uuid.New().String(),
		ch:   make(chan model.Directive, subscriberBuffer),
		done: make(chan struct{}),
	}

	r.mu.Lock()
	r.subs[sub.ID] = sub
	count := len(r.subs)
	r.mu.Unlock()

	log.Info().Str("session_id", sub.ID).Int("frontends", count).Msg("Frontend attached")
	return sub
}

// Detach removes a frontend. The window is considered hidden once the last
// frontend goes away.
func (r *Remote) Detach(sub *Subscriber) {
	r.mu.Lock()
	delete(r.subs, sub.ID)
	count := len(r.subs)
	if count == 0 {
		r.visible = false
		r.focused = false
	}
	r.mu.Unlock()

	sub.once.Do(func() { close(sub.done) })
	log.Info().Str("session_id", sub.ID).Int("frontends", count).Msg("Frontend detached")
}

// DetachAll ends every directive stream
func (r *Remote) DetachAll() {
	r.mu.RLock()
	subs := make([]*Subscriber, 0, len(r.subs))
	for _, sub := range r.subs {
		subs = append(subs, sub)
	}
	r.mu.RUnlock()

	for _, sub := range subs {
		r.Detach(sub)
	}
}

// Attached returns the number of attached frontends
func (r *Remote) Attached() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subs)
}

// send broadcasts a directive. Caller holds r.mu.
func (r *Remote) send(d model.Directive) error {
	if len(r.subs) == 0 {
		return ErrDetached
	}
	d.ID = uuid.New().String()

	delivered := 0
	for _, sub := range r.subs {
		select {
		case sub.ch <- d:
			delivered++
		default:
			log.Warn().Str("session_id", sub.ID).Str("action", d.Action).Msg("Frontend queue full, directive dropped")
		}
	}
	if delivered == 0 {
		return ErrBackpressure
	}
	return nil
}

// IsVisible reports the window's visibility
func (r *Remote) IsVisible() (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.visible, nil
}

// Show asks the frontend to show the window
func (r *Remote) Show() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.send(model.Directive{Action: model.ActionShow}); err != nil {
		return err
	}
	r.visible = true
	return nil
}

// Hide asks the frontend to hide the window
func (r *Remote) Hide() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.send(model.Directive{Action: model.ActionHide}); err != nil {
		return err
	}
	r.visible = false
	r.focused = false
	return nil
}

// SetFocus asks the frontend to focus the window
func (r *Remote) SetFocus() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.send(model.Directive{Action: model.ActionFocus}); err != nil {
		return err
	}
	r.focused = true
	return nil
}

// InnerSize returns the last reported content size
func (r *Remote) InnerSize() (model.WindowGeometry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.inner.Valid() {
		return model.WindowGeometry{}, ErrSizeUnknown
	}
	return r.inner, nil
}

// OuterSize returns the last reported frame size, falling back to the
// content size when the frontend does not report decorations
func (r *Remote) OuterSize() (model.Size, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.outer.Width > 0 && r.outer.Height > 0 {
		return r.outer, nil
	}
	if r.inner.Valid() {
		return model.Size{Width: r.inner.Width, Height: r.inner.Height}, nil
	}
	return model.Size{}, ErrSizeUnknown
}

// SetSize asks the frontend to resize the content area
func (r *Remote) SetSize(g model.WindowGeometry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	size := model.Size{Width: g.Width, Height: g.Height}
	if err := r.send(model.Directive{Action: model.ActionSetSize, Size: &size}); err != nil {
		return err
	}
	r.inner = g
	return nil
}

// SetPosition asks the frontend to move the window
func (r *Remote) SetPosition(p model.Position) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.send(model.Directive{Action: model.ActionSetPosition, Position: &p}); err != nil {
		return err
	}
	r.position = p
	return nil
}

// SetOpacity asks the frontend to apply an opacity
func (r *Remote) SetOpacity(v float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.send(model.Directive{Action: model.ActionSetOpacity, Opacity: &v}); err != nil {
		return err
	}
	r.opacity = v
	return nil
}

// ShowNamed asks the frontend to open a secondary window by label
func (r *Remote) ShowNamed(label string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.send(model.Directive{Action: model.ActionShowWindow, Label: label})
}

// Emit sends a UI event to the frontend
func (r *Remote) Emit(event string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.send(model.Directive{Action: model.ActionEmit, Event: event})
}

// Observe records state reported by the frontend
func (r *Remote) Observe(ev model.WindowEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch ev.Type {
	case model.WindowEventResized:
		if ev.Width > 0 && ev.Height > 0 {
			r.inner = model.WindowGeometry{Width: ev.Width, Height: ev.Height}
		}
		if ev.Outer != nil {
			r.outer = *ev.Outer
		}
	case model.WindowEventMoved:
		r.position = model.Position{X: ev.X, Y: ev.Y}
	case model.WindowEventFocus:
		r.focused = ev.Focused
	case model.WindowEventVisibility:
		r.visible = ev.Visible
		if !ev.Visible {
			r.focused = false
		}
	}
}

// Snapshot is the window state for diagnostics
type Snapshot struct {
	Visible   bool                 `json:"visible"`
	Focused   bool                 `json:"focused"`
	Inner     model.WindowGeometry `json:"inner"`
	Outer     model.Size           `json:"outer"`
	Position  model.Position       `json:"position"`
	Opacity   float64              `json:"opacity"`
	Frontends int                  `json:"frontends"`
}

// Snapshot returns a copy of the current window state
func (r *Remote) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return Snapshot{
		Visible:   r.visible,
		Focused:   r.focused,
		Inner:     r.inner,
		Outer:     r.outer,
		Position:  r.position,
		Opacity:   r.opacity,
		Frontends: len(r.subs),
	}
}
