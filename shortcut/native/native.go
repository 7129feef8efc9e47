//go:build !nohotkey && (linux || darwin || windows)

// Package native binds global hotkeys through golang.design/x/hotkey.
package native

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.design/x/hotkey"
	"golang.design/x/hotkey/mainthread"

	"traydock/model"
	"traydock/shortcut"
)

// Hotkeys binds combos through the OS hotkey facility
type Hotkeys struct {
	mu     sync.Mutex
	active []*nativeBinding
}

type nativeBinding struct {
	combo shortcut.Combo
	hk    *hotkey.Hotkey
	done  chan struct{}
}

// New creates a backend with nothing bound
func New() shortcut.Backend {
	return &Hotkeys{}
}

// Register binds c and relays its key events to h on a dedicated goroutine
func (n *Hotkeys) Register(c shortcut.Combo, h shortcut.Handler) error {
	mods, key, err := nativeCombo(c)
	if err != nil {
		return err
	}

	hk := hotkey.New(mods, key)
	if err := hk.Register(); err != nil {
		return fmt.Errorf("%w: %s: %v", shortcut.ErrUnavailable, c, err)
	}

	b := &nativeBinding{combo: c, hk: hk, done: make(chan struct{})}

	n.mu.Lock()
	n.active = append(n.active, b)
	n.mu.Unlock()

	go b.relay(h)

	log.Debug().Str("shortcut", c.String()).Msg("Global hotkey registered")
	return nil
}

// UnregisterAll releases every combo bound by this backend
func (n *Hotkeys) UnregisterAll() error {
	n.mu.Lock()
	active := n.active
	n.active = nil
	n.mu.Unlock()

	var lastErr error
	for _, b := range active {
		close(b.done)
		if err := b.hk.Unregister(); err != nil {
			lastErr = fmt.Errorf("failed to unregister %s: %w", b.combo, err)
		}
	}
	return lastErr
}

func (b *nativeBinding) relay(h shortcut.Handler) {
	keydown := b.hk.Keydown()
	keyup := b.hk.Keyup()
	for {
		select {
		case <-b.done:
			return
		case _, ok := <-keydown:
			if !ok {
				return
			}
			h(model.PhasePressed)
		case _, ok := <-keyup:
			if !ok {
				return
			}
			h(model.PhaseReleased)
		}
	}
}

func nativeCombo(c shortcut.Combo) ([]hotkey.Modifier, hotkey.Key, error) {
	var mods []hotkey.Modifier
	for _, m := range c.Modifiers() {
		mods = append(mods, nativeModifier(m))
	}

	key, ok := nativeKeys[c.Key]
	if !ok {
		return nil, 0, fmt.Errorf("%w: no native key for %s", shortcut.ErrUnavailable, c.Key)
	}
	return mods, key, nil
}

var nativeKeys = map[shortcut.Key]hotkey.Key{
	shortcut.KeySpace:     hotkey.KeySpace,
	shortcut.KeyReturn:    hotkey.KeyReturn,
	shortcut.KeyEscape:    hotkey.KeyEscape,
	shortcut.KeyTab:       hotkey.KeyTab,
	shortcut.KeyBackspace: nativeBackspace,
	shortcut.KeyDelete:    hotkey.KeyDelete,
	shortcut.KeyUp:        hotkey.KeyUp,
	shortcut.KeyDown:      hotkey.KeyDown,
	shortcut.KeyLeft:      hotkey.KeyLeft,
	shortcut.KeyRight:     hotkey.KeyRight,
	shortcut.KeyA:         hotkey.KeyA,
	shortcut.KeyB:         hotkey.KeyB,
	shortcut.KeyC:         hotkey.KeyC,
	shortcut.KeyD:         hotkey.KeyD,
	shortcut.KeyE:         hotkey.KeyE,
	shortcut.KeyF:         hotkey.KeyF,
	shortcut.KeyG:         hotkey.KeyG,
	shortcut.KeyH:         hotkey.KeyH,
	shortcut.KeyI:         hotkey.KeyI,
	shortcut.KeyJ:         hotkey.KeyJ,
	shortcut.KeyK:         hotkey.KeyK,
	shortcut.KeyL:         hotkey.KeyL,
	shortcut.KeyM:         hotkey.KeyM,
	shortcut.KeyN:         hotkey.KeyN,
	shortcut.KeyO:         hotkey.KeyO,
	shortcut.KeyP:         hotkey.KeyP,
	shortcut.KeyQ:         hotkey.KeyQ,
	shortcut.KeyR:         hotkey.KeyR,
	shortcut.KeyS:         hotkey.KeyS,
	shortcut.KeyT:         hotkey.KeyT,
	shortcut.KeyU:         hotkey.KeyU,
	shortcut.KeyV:         hotkey.KeyV,
	shortcut.KeyW:         hotkey.KeyW,
	shortcut.KeyX:         hotkey.KeyX,
	shortcut.KeyY:         hotkey.KeyY,
	shortcut.KeyZ:         hotkey.KeyZ,
	shortcut.Key0:         hotkey.Key0,
	shortcut.Key1:         hotkey.Key1,
	shortcut.Key2:         hotkey.Key2,
	shortcut.Key3:         hotkey.Key3,
	shortcut.Key4:         hotkey.Key4,
	shortcut.Key5:         hotkey.Key5,
	shortcut.Key6:         hotkey.Key6,
	shortcut.Key7:         hotkey.Key7,
	shortcut.Key8:         hotkey.Key8,
	shortcut.Key9:         hotkey.Key9,
	shortcut.KeyF1:        hotkey.KeyF1,
	shortcut.KeyF2:        hotkey.KeyF2,
	shortcut.KeyF3:        hotkey.KeyF3,
	shortcut.KeyF4:        hotkey.KeyF4,
	shortcut.KeyF5:        hotkey.KeyF5,
	shortcut.KeyF6:        hotkey.KeyF6,
	shortcut.KeyF7:        hotkey.KeyF7,
	shortcut.KeyF8:        hotkey.KeyF8,
	shortcut.KeyF9:        hotkey.KeyF9,
	shortcut.KeyF10:       hotkey.KeyF10,
	shortcut.KeyF11:       hotkey.KeyF11,
	shortcut.KeyF12:       hotkey.KeyF12,
	shortcut.KeyF13:       hotkey.KeyF13,
	shortcut.KeyF14:       hotkey.KeyF14,
	shortcut.KeyF15:       hotkey.KeyF15,
	shortcut.KeyF16:       hotkey.KeyF16,
	shortcut.KeyF17:       hotkey.KeyF17,
	shortcut.KeyF18:       hotkey.KeyF18,
	shortcut.KeyF19:       hotkey.KeyF19,
	shortcut.KeyF20:       hotkey.KeyF20,
}

// RunMain runs fn while the calling goroutine, which must be the main one,
// serves the OS main thread. Hotkeys on macOS need it when no other run
// loop, such as the tray's, owns the main thread.
func RunMain(fn func()) {
	mainthread.Init(fn)
}
