package service

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog/log"

	"traydock/model"
)

var (
	ErrInvalidSetting = errors.New("invalid setting value")
	ErrNoOpener       = errors.New("no opener configured")
)

// Window is the host window. It owns the visibility state; the controller
// asks it every time instead of keeping a copy.
type Window interface {
	IsVisible() (bool, error)
	Show() error
	Hide() error
	SetFocus() error
	InnerSize() (model.WindowGeometry, error)
	OuterSize() (model.Size, error)
	SetSize(g model.WindowGeometry) error
	SetPosition(p model.Position) error
	SetOpacity(v float64) error
	ShowNamed(label string) error
	Emit(event string) error
}

// TrayLocator reports the tray icon's screen rectangle, when the platform
// exposes it
type TrayLocator interface {
	Bounds() (model.Rect, bool)
}

// BlurPolicy decides whether losing focus hides the window
type BlurPolicy interface {
	HidesOnBlur() bool
}

// Named windows and UI events
const (
	AboutWindow       = "about"
	EventOpenSettings = "open-settings"
)

// Controller drives the window's show/hide state machine. All operations
// run one at a time, whichever source triggered them.
type Controller struct {
	mu       sync.Mutex
	window   Window
	tray     TrayLocator
	prefs    *Preferences
	recorder *SizeRecorder
	badge    *BadgeCoordinator
	policy   BlurPolicy
	shortcut *ShortcutRegistrar
	opener   func(path string) error
	events   EventLogger
}

// NewController wires the controller to its collaborators
func NewController(w Window, tray TrayLocator, prefs *Preferences, recorder *SizeRecorder, badge *BadgeCoordinator, policy BlurPolicy) *Controller {
	return &Controller{
		window:   w,
		tray:     tray,
		prefs:    prefs,
		recorder: recorder,
		badge:    badge,
		policy:   policy,
		events:   nopEvents{},
	}
}

// SetEventLogger sets the event logger for visibility events
func (c *Controller) SetEventLogger(el EventLogger) {
	c.events = eventsOrNop(el)
}

// SetShortcutRegistrar routes shortcut settings through the registrar
func (c *Controller) SetShortcutRegistrar(r *ShortcutRegistrar) {
	c.shortcut = r
}

// SetOpener sets the function used to open the preferences file
func (c *Controller) SetOpener(open func(path string) error) {
	c.opener = open
}

// Toggle hides a visible window or shows a hidden one below the tray icon
func (c *Controller) Toggle(trigger string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.events.LogToggle(trigger)

	visible, err := c.window.IsVisible()
	if err != nil {
		c.platformFailure("is_visible", err)
		return
	}

	if visible {
		c.hideLocked(trigger)
		return
	}

	c.positionBelowTray()
	if !c.showLocked(trigger) {
		return
	}
	if c.badge != nil {
		c.badge.Clear()
	}
}

// Show shows and focuses the window where it last was
func (c *Controller) Show(trigger string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.showLocked(trigger)
}

// Hide persists the window size, then hides the window
func (c *Controller) Hide(trigger string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hideLocked(trigger)
}

// IsVisible reports the window's visibility; failures read as hidden
func (c *Controller) IsVisible() bool {
	visible, err := c.window.IsVisible()
	if err != nil {
		return false
	}
	return visible
}

// SaveSize persists the current window size immediately
func (c *Controller) SaveSize() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.persistGeometry("save_size")
}

// OnResized feeds a frontend resize into the debounced recorder
func (c *Controller) OnResized(g model.WindowGeometry) {
	c.recorder.OnResize(g)
}

// OnFocusLost hides the window when the blur policy says so
func (c *Controller) OnFocusLost() {
	if c.policy == nil || !c.policy.HidesOnBlur() {
		return
	}
	c.Hide("focus_lost")
}

// Restore applies the stored size and opacity to the window
func (c *Controller) Restore() {
	c.mu.Lock()
	defer c.mu.Unlock()

	g := c.prefs.Geometry()
	if err := c.window.SetSize(g); err != nil {
		c.platformFailure("set_size", err)
	}

	opacity := c.prefs.Opacity()
	if err := c.window.SetOpacity(opacity); err != nil {
		c.platformFailure("set_opacity", err)
	}

	log.Debug().
		Uint32("width", g.Width).
		Uint32("height", g.Height).
		Float64("opacity", opacity).
		Msg("Window preferences restored")
}

// SetOpacity clamps, persists and applies an opacity, returning the value used
func (c *Controller) SetOpacity(v float64) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	v = c.prefs.SaveOpacity(v)
	if err := c.window.SetOpacity(v); err != nil {
		c.platformFailure("set_opacity", err)
	}
	c.events.LogOpacityChanged(v)
	return v
}

// ShowAbout opens the about window
func (c *Controller) ShowAbout() {
	if err := c.window.ShowNamed(AboutWindow); err != nil {
		c.platformFailure("show_about", err)
	}
}

// ShowSettings brings the window up and tells the frontend to open settings
func (c *Controller) ShowSettings() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.showLocked("settings") {
		return
	}
	if err := c.window.Emit(EventOpenSettings); err != nil {
		c.platformFailure("emit", err)
	}
}

// Settings returns the whole preferences document
func (c *Controller) Settings() map[string]any {
	return c.prefs.Store().All()
}

// Setting returns a single preference
func (c *Controller) Setting(key string) (any, bool) {
	return c.prefs.Store().Get(key)
}

// SetSetting writes a preference. Opacity is clamped; the toggle shortcut
// goes through the registrar so the stored and armed bindings agree.
func (c *Controller) SetSetting(key string, value any) error {
	switch key {
	case KeyWindowOpacity:
		f, ok := toFloat(value)
		if !ok {
			return fmt.Errorf("%w: %s must be a number", ErrInvalidSetting, key)
		}
		c.mu.Lock()
		c.prefs.SaveOpacity(f)
		c.mu.Unlock()
		return nil
	case KeyToggleShortcut:
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("%w: %s must be a string", ErrInvalidSetting, key)
		}
		if c.shortcut == nil {
			return c.prefs.Set(key, s)
		}
		return c.shortcut.SetBinding(s)
	case KeyWindowWidth, KeyWindowHeight:
		f, ok := toFloat(value)
		if !ok || f < 1 {
			return fmt.Errorf("%w: %s must be a positive number", ErrInvalidSetting, key)
		}
	}
	return c.prefs.Set(key, value)
}

// ConfigPath returns the preferences file location
func (c *Controller) ConfigPath() string {
	return c.prefs.Store().Path()
}

// OpenConfig opens the preferences file with the OS opener, creating it first
// so there is something to edit
func (c *Controller) OpenConfig() (string, error) {
	path := c.ConfigPath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := c.prefs.Store().Save(); err != nil {
			return path, fmt.Errorf("failed to create %s: %w", path, err)
		}
	}

	if c.opener == nil {
		return path, ErrNoOpener
	}
	if err := c.opener(path); err != nil {
		return path, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return path, nil
}

// ApplyExternalChanges re-applies preferences after the file was edited
// outside the app
func (c *Controller) ApplyExternalChanges() {
	c.mu.Lock()
	opacity := c.prefs.Opacity()
	if err := c.window.SetOpacity(opacity); err != nil {
		c.platformFailure("set_opacity", err)
	}
	c.mu.Unlock()

	if c.shortcut != nil {
		c.shortcut.Reconcile()
	}
	c.events.LogSettingsReloaded(c.ConfigPath())
}

// FlushPending writes a resize still waiting for its quiet period
func (c *Controller) FlushPending() {
	c.recorder.Flush()
}

func (c *Controller) showLocked(trigger string) bool {
	if err := c.window.Show(); err != nil {
		c.platformFailure("show", err)
		return false
	}
	if err := c.window.SetFocus(); err != nil {
		c.platformFailure("focus", err)
	}
	c.events.LogShown(trigger)
	return true
}

// hideLocked persists before hiding so an exit mid-hide keeps the latest size
func (c *Controller) hideLocked(trigger string) {
	c.persistGeometry(trigger)
	if err := c.window.Hide(); err != nil {
		c.platformFailure("hide", err)
		return
	}
	c.events.LogHidden(trigger)
}

func (c *Controller) persistGeometry(trigger string) bool {
	g, err := c.window.InnerSize()
	if err != nil {
		log.Debug().Err(err).Str("trigger", trigger).Msg("Window size unavailable, not saved")
		return false
	}
	return c.recorder.SaveNow(g, trigger)
}

// positionBelowTray moves the window under the tray icon when the platform
// reports where the icon is
func (c *Controller) positionBelowTray() {
	if c.tray == nil {
		return
	}
	rect, ok := c.tray.Bounds()
	if !ok {
		return
	}

	size, err := c.window.OuterSize()
	if err != nil {
		size = model.Size{Width: model.DefaultGeometry.Width, Height: model.DefaultGeometry.Height}
	}

	pos := model.PositionBelowTray(rect, size)
	if err := c.window.SetPosition(pos); err != nil {
		c.platformFailure("set_position", err)
	}
}

func (c *Controller) platformFailure(op string, err error) {
	c.events.LogPlatformFailure(op, err)
	log.Debug().Err(err).Str("op", op).Msg("Window call failed, abandoned")
}
