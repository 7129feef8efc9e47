package service

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"traydock/model"
	"traydock/shortcut"
)

// ErrInvalidShortcut is returned when a requested binding cannot be used
var ErrInvalidShortcut = errors.New("invalid shortcut")

// ShortcutRegistrar keeps exactly one global toggle binding armed
type ShortcutRegistrar struct {
	mu      sync.Mutex
	backend shortcut.Backend
	prefs   *Preferences
	onPress func()
	current string
	events  EventLogger
}

// NewShortcutRegistrar creates a registrar. onPress runs on the backend's
// goroutine for every press of the active binding.
func NewShortcutRegistrar(backend shortcut.Backend, prefs *Preferences, onPress func()) *ShortcutRegistrar {
	return &ShortcutRegistrar{
		backend: backend,
		prefs:   prefs,
		onPress: onPress,
		events:  nopEvents{},
	}
}

// SetEventLogger sets the event logger for shortcut events
func (r *ShortcutRegistrar) SetEventLogger(el EventLogger) {
	r.events = eventsOrNop(el)
}

// Start arms the stored binding, or the default when it is absent or unusable.
// Failures are logged, never returned.
func (r *ShortcutRegistrar) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()

	requested := r.prefs.ToggleShortcut()
	r.unregisterAll()

	active, err := r.registerOrFallback(requested)
	r.current = active
	if err != nil {
		r.events.LogShortcutFallback(requested, active, err)
		log.Warn().Err(err).Str("requested", requested).Str("active", active).Msg("Stored toggle shortcut unusable")
		return
	}

	r.events.LogShortcutBound(active)
	log.Info().Str("shortcut", active).Msg("Toggle shortcut registered")
}

// SetBinding replaces the toggle binding. On failure the previous binding
// (or the default) is re-armed and the error describes the rejected input.
func (r *ShortcutRegistrar) SetBinding(s string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	previous := r.current
	r.unregisterAll()

	active, err := r.register(s)
	if err == nil {
		r.current = active
		r.prefs.SaveToggleShortcut(active)
		r.events.LogShortcutBound(active)
		log.Info().Str("shortcut", active).Str("previous", previous).Msg("Toggle shortcut changed")
		return nil
	}

	if previous == "" {
		previous = shortcut.DefaultToggle
	}
	restored, ferr := r.registerOrFallback(previous)
	r.current = restored
	r.events.LogShortcutFallback(s, restored, err)

	log.Warn().
		Err(err).
		Str("requested", s).
		Str("active", restored).
		Msg("Toggle shortcut rejected, previous binding restored")
	if ferr != nil {
		log.Error().Err(ferr).Str("previous", previous).Msg("Previous shortcut could not be restored")
	}

	return fmt.Errorf("%w %q: %w", ErrInvalidShortcut, s, err)
}

// Current returns the active binding, or "" when nothing could be armed
func (r *ShortcutRegistrar) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Reconcile rebinds when the stored binding no longer matches the active one,
// as after an external edit of the preferences file
func (r *ShortcutRegistrar) Reconcile() {
	stored := r.prefs.ToggleShortcut()
	if r.matchesCurrent(stored) {
		return
	}
	if err := r.SetBinding(stored); err != nil {
		log.Warn().Err(err).Msg("Edited toggle shortcut rejected")
	}
}

func (r *ShortcutRegistrar) matchesCurrent(stored string) bool {
	want, err := shortcut.Parse(stored)
	if err != nil {
		return false
	}
	have, err := shortcut.Parse(r.Current())
	return err == nil && want.Equal(have)
}

// Stop releases the binding
func (r *ShortcutRegistrar) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.unregisterAll()
	r.current = ""
}

// registerOrFallback arms primary, or the default when primary fails.
// It returns the armed binding and primary's error, if any.
func (r *ShortcutRegistrar) registerOrFallback(primary string) (string, error) {
	active, err := r.register(primary)
	if err == nil {
		return active, nil
	}

	if primary == shortcut.DefaultToggle {
		return "", err
	}

	r.unregisterAll()
	active, derr := r.register(shortcut.DefaultToggle)
	if derr != nil {
		return "", errors.Join(err, fmt.Errorf("default %q: %w", shortcut.DefaultToggle, derr))
	}
	return active, err
}

// register parses and arms s, returning its canonical form
func (r *ShortcutRegistrar) register(s string) (string, error) {
	combo, err := shortcut.Parse(s)
	if err != nil {
		return "", err
	}
	if err := r.backend.Register(combo, r.handle); err != nil {
		return "", err
	}
	return combo.String(), nil
}

func (r *ShortcutRegistrar) unregisterAll() {
	if err := r.backend.UnregisterAll(); err != nil {
		log.Warn().Err(err).Msg("Failed to unregister global shortcuts")
	}
}

// handle fires the toggle on key press; releases are ignored
func (r *ShortcutRegistrar) handle(phase model.KeyPhase) {
	if phase != model.PhasePressed {
		return
	}
	if r.onPress != nil {
		r.onPress()
	}
}
