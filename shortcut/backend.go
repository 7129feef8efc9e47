package shortcut

import (
	"errors"
	"fmt"

	"traydock/model"
)

// ErrUnavailable is returned when the OS refuses a combo, usually because
// another application already holds it
var ErrUnavailable = errors.New("shortcut unavailable")

// Handler receives every phase of a bound combo
type Handler func(phase model.KeyPhase)

// Backend binds combos as global hotkeys
type Backend interface {
	Register(c Combo, h Handler) error
	UnregisterAll() error
}

// Unavailable is the backend for hosts that cannot bind global hotkeys
type Unavailable struct{}

// Register always fails with ErrUnavailable
func (Unavailable) Register(c Combo, _ Handler) error {
	return fmt.Errorf("%w: no hotkey support on this host: %s", ErrUnavailable, c)
}

// UnregisterAll has nothing to release
func (Unavailable) UnregisterAll() error {
	return nil
}
