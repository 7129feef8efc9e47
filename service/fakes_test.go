package service

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"traydock/model"
	"traydock/shortcut"
	"traydock/store"
)

var errPlatform = errors.New("platform call failed")

func newTestPrefs(t *testing.T) *Preferences {
	t.Helper()
	return NewPreferences(store.New(filepath.Join(t.TempDir(), "settings.json")))
}

// fakeWindow records every call in order and can fail selected operations
type fakeWindow struct {
	mu       sync.Mutex
	visible  bool
	inner    model.WindowGeometry
	outer    model.Size
	noOuter  bool
	opacity  float64
	position *model.Position
	calls    []string
	named    []string
	emitted  []string
	fail     map[string]bool
}

func newFakeWindow() *fakeWindow {
	return &fakeWindow{
		inner: model.WindowGeometry{Width: 800, Height: 500},
		outer: model.Size{Width: 810, Height: 530},
		fail:  make(map[string]bool),
	}
}

func (w *fakeWindow) record(op string) error {
	w.calls = append(w.calls, op)
	if w.fail[op] {
		return errPlatform
	}
	return nil
}

func (w *fakeWindow) IsVisible() (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fail["is_visible"] {
		return false, errPlatform
	}
	return w.visible, nil
}

func (w *fakeWindow) Show() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.record("show"); err != nil {
		return err
	}
	w.visible = true
	return nil
}

func (w *fakeWindow) Hide() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.record("hide"); err != nil {
		return err
	}
	w.visible = false
	return nil
}

func (w *fakeWindow) SetFocus() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.record("focus")
}

func (w *fakeWindow) InnerSize() (model.WindowGeometry, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.record("inner_size"); err != nil {
		return model.WindowGeometry{}, err
	}
	return w.inner, nil
}

func (w *fakeWindow) OuterSize() (model.Size, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.noOuter {
		return model.Size{}, errPlatform
	}
	return w.outer, nil
}

func (w *fakeWindow) SetSize(g model.WindowGeometry) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.record("set_size"); err != nil {
		return err
	}
	w.inner = g
	return nil
}

func (w *fakeWindow) SetPosition(p model.Position) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.record("set_position"); err != nil {
		return err
	}
	w.position = &p
	return nil
}

func (w *fakeWindow) SetOpacity(v float64) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.record("set_opacity"); err != nil {
		return err
	}
	w.opacity = v
	return nil
}

func (w *fakeWindow) ShowNamed(label string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.record("show_named"); err != nil {
		return err
	}
	w.named = append(w.named, label)
	return nil
}

func (w *fakeWindow) Emit(event string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.record("emit"); err != nil {
		return err
	}
	w.emitted = append(w.emitted, event)
	return nil
}

func (w *fakeWindow) callLog() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.calls...)
}

// fakeTray reports fixed bounds and records icon swaps
type fakeTray struct {
	mu     sync.Mutex
	bounds model.Rect
	known  bool
	icons  [][]byte
	fail   bool
}

func (t *fakeTray) Bounds() (model.Rect, bool) {
	return t.bounds, t.known
}

func (t *fakeTray) SetIcon(icon []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.fail {
		return errPlatform
	}
	t.icons = append(t.icons, icon)
	return nil
}

func (t *fakeTray) iconCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.icons)
}

// fakeBackend accepts combos unless they are claimed by another application
type fakeBackend struct {
	mu      sync.Mutex
	claimed   map[string]bool
	bound     map[string]shortcut.Handler
	registers int
}

func newFakeBackend(claimed ...string) *fakeBackend {
	b := &fakeBackend{claimed: make(map[string]bool), bound: make(map[string]shortcut.Handler)}
	for _, c := range claimed {
		b.claimed[c] = true
	}
	return b
}

func (b *fakeBackend) Register(c shortcut.Combo, h shortcut.Handler) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.registers++
	if b.claimed[c.String()] {
		return shortcut.ErrUnavailable
	}
	b.bound[c.String()] = h
	return nil
}

func (b *fakeBackend) UnregisterAll() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.bound = make(map[string]shortcut.Handler)
	return nil
}

func (b *fakeBackend) boundCombos() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []string
	for c := range b.bound {
		out = append(out, c)
	}
	return out
}

func (b *fakeBackend) registerCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.registers
}

func (b *fakeBackend) fire(combo string, phase model.KeyPhase) bool {
	b.mu.Lock()
	h, ok := b.bound[combo]
	b.mu.Unlock()
	if !ok {
		return false
	}
	h(phase)
	return true
}

// fakeWriter counts geometry writes
type fakeWriter struct {
	mu     sync.Mutex
	writes []model.WindowGeometry
}

func (w *fakeWriter) SaveGeometry(g model.WindowGeometry) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.writes = append(w.writes, g)
	return true
}

func (w *fakeWriter) snapshot() []model.WindowGeometry {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]model.WindowGeometry(nil), w.writes...)
}

type fixedPolicy bool

func (p fixedPolicy) HidesOnBlur() bool { return bool(p) }

func newPrefsAt(t *testing.T, path string) *Preferences {
	t.Helper()
	return NewPreferences(store.New(path))
}
