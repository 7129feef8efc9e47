package service

import (
	"math"
	"strconv"

	"github.com/rs/zerolog/log"

	"traydock/model"
	"traydock/shortcut"
)

// Persisted preference keys
const (
	KeyWindowWidth    = "window_width"
	KeyWindowHeight   = "window_height"
	KeyWindowOpacity  = "window_opacity"
	KeyToggleShortcut = "shortcuts.toggle_window"
)

// PreferenceStore is the durable key/value document
type PreferenceStore interface {
	Get(key string) (any, bool)
	Set(key string, value any) error
	Save() error
	All() map[string]any
	Path() string
}

// Preferences is the typed view of the store used by the controller.
// Write failures are logged and swallowed.
type Preferences struct {
	store PreferenceStore
}

// NewPreferences wraps a store
func NewPreferences(s PreferenceStore) *Preferences {
	return &Preferences{store: s}
}

// Store returns the underlying document
func (p *Preferences) Store() PreferenceStore {
	return p.store
}

// Geometry returns the stored window size, or the default when absent or invalid
func (p *Preferences) Geometry() model.WindowGeometry {
	w, okW := p.dimension(KeyWindowWidth)
	h, okH := p.dimension(KeyWindowHeight)
	g := model.WindowGeometry{Width: w, Height: h}
	if !okW || !okH || !g.Valid() {
		return model.DefaultGeometry
	}
	return g
}

// SaveGeometry persists a window size. Invalid sizes are dropped.
func (p *Preferences) SaveGeometry(g model.WindowGeometry) bool {
	if !g.Valid() {
		return false
	}
	p.set(KeyWindowWidth, g.Width)
	p.set(KeyWindowHeight, g.Height)
	p.save()
	return true
}

// Opacity returns the stored opacity clamped to the supported range
func (p *Preferences) Opacity() float64 {
	v, ok := p.store.Get(KeyWindowOpacity)
	if !ok {
		return model.MaxOpacity
	}
	f, ok := toFloat(v)
	if !ok {
		return model.MaxOpacity
	}
	return model.ClampOpacity(f)
}

// SaveOpacity clamps and persists an opacity, returning the stored value
func (p *Preferences) SaveOpacity(v float64) float64 {
	v = model.ClampOpacity(v)
	p.set(KeyWindowOpacity, v)
	p.save()
	return v
}

// ToggleShortcut returns the stored toggle binding or the default
func (p *Preferences) ToggleShortcut() string {
	v, ok := p.store.Get(KeyToggleShortcut)
	if !ok {
		return shortcut.DefaultToggle
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return shortcut.DefaultToggle
	}
	return s
}

// SaveToggleShortcut persists the toggle binding
func (p *Preferences) SaveToggleShortcut(s string) {
	p.set(KeyToggleShortcut, s)
	p.save()
}

// Set writes an arbitrary key and flushes
func (p *Preferences) Set(key string, value any) error {
	if err := p.store.Set(key, value); err != nil {
		return err
	}
	p.save()
	return nil
}

func (p *Preferences) set(key string, value any) {
	if err := p.store.Set(key, value); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to set preference")
	}
}

func (p *Preferences) save() {
	if err := p.store.Save(); err != nil {
		log.Warn().Err(err).Str("path", p.store.Path()).Msg("Failed to save preferences")
	}
}

func (p *Preferences) dimension(key string) (uint32, bool) {
	v, ok := p.store.Get(key)
	if !ok {
		return 0, false
	}
	f, ok := toFloat(v)
	if !ok || f < 1 || f > math.MaxUint32 {
		return 0, false
	}
	return uint32(f), true
}

// toFloat accepts the numeric shapes a value can take in the document:
// float64 after a JSON load, Go integers before the first save
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	}
	return 0, false
}
