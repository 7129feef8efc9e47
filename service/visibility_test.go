package service

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"traydock/model"
)

type controllerFixture struct {
	ctrl     *Controller
	window   *fakeWindow
	tray     *fakeTray
	prefs    *Preferences
	badge    *BadgeCoordinator
	resource string
}

func newControllerFixture(t *testing.T, policy BlurPolicy) *controllerFixture {
	t.Helper()
	f := &controllerFixture{
		window:   newFakeWindow(),
		tray:     &fakeTray{},
		prefs:    newTestPrefs(t),
		resource: t.TempDir(),
	}
	f.badge = NewBadgeCoordinator(f.tray, f.resource, []byte("default-icon"))
	f.ctrl = NewController(f.window, f.tray, f.prefs, NewSizeRecorder(f.prefs), f.badge, policy)
	return f
}

func indexOf(calls []string, op string) int {
	for i, c := range calls {
		if c == op {
			return i
		}
	}
	return -1
}

func TestToggleAlternates(t *testing.T) {
	f := newControllerFixture(t, nil)

	want := []bool{true, false, true, false}
	for i, visible := range want {
		f.ctrl.Toggle("test")
		if got := f.ctrl.IsVisible(); got != visible {
			t.Fatalf("after toggle %d: visible = %v, want %v", i+1, got, visible)
		}
	}
}

func TestTogglePersistsBeforeHide(t *testing.T) {
	f := newControllerFixture(t, nil)
	f.window.visible = true
	f.window.inner = model.WindowGeometry{Width: 1024, Height: 640}

	f.ctrl.Toggle("test")

	calls := f.window.callLog()
	sizeAt, hideAt := indexOf(calls, "inner_size"), indexOf(calls, "hide")
	if sizeAt < 0 || hideAt < 0 || sizeAt > hideAt {
		t.Fatalf("calls = %v, want inner_size before hide", calls)
	}
	if g := f.prefs.Geometry(); g != f.window.inner {
		t.Errorf("stored geometry = %+v, want %+v", g, f.window.inner)
	}
}

func TestTogglePositionsBelowTray(t *testing.T) {
	tray := model.Rect{
		Position: model.Position{X: 1000, Y: 0},
		Size:     model.Size{Width: 24, Height: 24},
	}

	tests := []struct {
		name    string
		known   bool
		noOuter bool
		want    *model.Position
	}{
		{"outer size known", true, false, &model.Position{X: 1000 + 12 - 405, Y: 29}},
		{"outer size unavailable", true, true, &model.Position{X: 1000 + 12 - 300, Y: 29}},
		{"tray bounds unavailable", false, false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newControllerFixture(t, nil)
			f.tray.bounds = tray
			f.tray.known = tt.known
			f.window.noOuter = tt.noOuter

			f.ctrl.Toggle("test")

			got := f.window.position
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("position set to %+v, want untouched", *got)
			case tt.want != nil && got == nil:
				t.Errorf("position not set, want %+v", *tt.want)
			case tt.want != nil && *got != *tt.want:
				t.Errorf("position = %+v, want %+v", *got, *tt.want)
			}

			calls := f.window.callLog()
			if tt.want != nil && indexOf(calls, "set_position") > indexOf(calls, "show") {
				t.Errorf("calls = %v, want set_position before show", calls)
			}
		})
	}
}

func TestToggleShowFocuses(t *testing.T) {
	f := newControllerFixture(t, nil)

	f.ctrl.Toggle("test")

	calls := f.window.callLog()
	if indexOf(calls, "focus") < indexOf(calls, "show") {
		t.Errorf("calls = %v, want focus after show", calls)
	}
}

func TestPlatformFailuresAreNotFatal(t *testing.T) {
	tests := []struct {
		name        string
		fail        string
		visible     bool
		wantVisible bool
	}{
		{"visibility query", "is_visible", false, false},
		{"show", "show", false, false},
		{"focus", "focus", false, true},
		{"set position", "set_position", false, true},
		{"hide", "hide", true, true},
		{"size query", "inner_size", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newControllerFixture(t, nil)
			f.tray.known = true
			f.window.visible = tt.visible
			f.window.fail[tt.fail] = true

			f.ctrl.Toggle("test")

			if f.window.visible != tt.wantVisible {
				t.Errorf("visible = %v, want %v", f.window.visible, tt.wantVisible)
			}
		})
	}
}

func TestToggleShowClearsBadge(t *testing.T) {
	f := newControllerFixture(t, nil)
	if err := os.WriteFile(filepath.Join(f.resource, BadgeIconName()), []byte("badge-icon"), 0644); err != nil {
		t.Fatal(err)
	}
	f.badge.SetBadge(true)

	f.ctrl.Show("command")
	if !f.badge.HasUnread() {
		t.Fatal("Show should not clear the badge")
	}

	f.ctrl.Hide("command")
	f.ctrl.Toggle("test")
	if f.badge.HasUnread() {
		t.Error("toggle to visible should clear the badge")
	}
	last := f.tray.icons[len(f.tray.icons)-1]
	if string(last) != "default-icon" {
		t.Errorf("tray icon = %q, want default icon", last)
	}
}

func TestFailedShowKeepsBadge(t *testing.T) {
	f := newControllerFixture(t, nil)
	if err := os.WriteFile(filepath.Join(f.resource, BadgeIconName()), []byte("badge-icon"), 0644); err != nil {
		t.Fatal(err)
	}
	f.badge.SetBadge(true)
	f.window.fail["show"] = true

	f.ctrl.Toggle("test")

	if !f.badge.HasUnread() {
		t.Error("badge cleared although the window never showed")
	}
}

func TestOnFocusLost(t *testing.T) {
	tests := []struct {
		name        string
		policy      BlurPolicy
		wantVisible bool
	}{
		{"no policy", nil, true},
		{"policy off", fixedPolicy(false), true},
		{"policy on", fixedPolicy(true), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newControllerFixture(t, tt.policy)
			f.window.visible = true

			f.ctrl.OnFocusLost()

			if f.window.visible != tt.wantVisible {
				t.Errorf("visible = %v, want %v", f.window.visible, tt.wantVisible)
			}
		})
	}
}

func TestRestoreEmptyStoreUsesDefaults(t *testing.T) {
	f := newControllerFixture(t, nil)
	f.window.inner = model.WindowGeometry{}

	f.ctrl.Restore()

	if f.window.inner != model.DefaultGeometry {
		t.Errorf("restored size = %+v, want %+v", f.window.inner, model.DefaultGeometry)
	}
	if f.window.opacity != model.MaxOpacity {
		t.Errorf("restored opacity = %v, want %v", f.window.opacity, model.MaxOpacity)
	}
}

func TestRestoreStoredPreferences(t *testing.T) {
	f := newControllerFixture(t, nil)
	f.prefs.SaveGeometry(model.WindowGeometry{Width: 900, Height: 700})
	f.prefs.SaveOpacity(0.6)

	f.ctrl.Restore()

	if want := (model.WindowGeometry{Width: 900, Height: 700}); f.window.inner != want {
		t.Errorf("restored size = %+v, want %+v", f.window.inner, want)
	}
	if f.window.opacity != 0.6 {
		t.Errorf("restored opacity = %v, want 0.6", f.window.opacity)
	}
}

func TestSetOpacityClamps(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0.5, 0.5},
		{0.01, model.MinOpacity},
		{-1, model.MinOpacity},
		{7, model.MaxOpacity},
	}

	for _, tt := range tests {
		f := newControllerFixture(t, nil)

		got := f.ctrl.SetOpacity(tt.in)

		if got != tt.want {
			t.Errorf("SetOpacity(%v) = %v, want %v", tt.in, got, tt.want)
		}
		if f.window.opacity != tt.want {
			t.Errorf("SetOpacity(%v) applied %v, want %v", tt.in, f.window.opacity, tt.want)
		}
		if stored := f.prefs.Opacity(); stored != tt.want {
			t.Errorf("SetOpacity(%v) stored %v, want %v", tt.in, stored, tt.want)
		}
	}
}

func TestSaveSize(t *testing.T) {
	f := newControllerFixture(t, nil)
	f.window.inner = model.WindowGeometry{Width: 1200, Height: 300}

	if !f.ctrl.SaveSize() {
		t.Fatal("SaveSize reported nothing written")
	}
	if g := f.prefs.Geometry(); g != f.window.inner {
		t.Errorf("stored geometry = %+v, want %+v", g, f.window.inner)
	}

	f.window.fail["inner_size"] = true
	if f.ctrl.SaveSize() {
		t.Error("SaveSize with no readable size should report false")
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	f := newControllerFixture(t, nil)

	if err := f.ctrl.SetSetting("theme", "dark"); err != nil {
		t.Fatalf("SetSetting: %v", err)
	}
	if v, ok := f.ctrl.Setting("theme"); !ok || v != "dark" {
		t.Errorf("Setting(theme) = %v, %v; want dark, true", v, ok)
	}
	if v, ok := f.ctrl.Setting("missing"); ok {
		t.Errorf("Setting(missing) = %v, want absent", v)
	}
	if all := f.ctrl.Settings(); all["theme"] != "dark" {
		t.Errorf("Settings() = %v, want theme=dark", all)
	}
}

func TestSetSettingOpacityClamps(t *testing.T) {
	f := newControllerFixture(t, nil)

	if err := f.ctrl.SetSetting(KeyWindowOpacity, 3.0); err != nil {
		t.Fatalf("SetSetting: %v", err)
	}
	if v, _ := f.ctrl.Setting(KeyWindowOpacity); v != model.MaxOpacity {
		t.Errorf("stored opacity = %v, want %v", v, model.MaxOpacity)
	}

	err := f.ctrl.SetSetting(KeyWindowOpacity, "opaque")
	if !errors.Is(err, ErrInvalidSetting) {
		t.Errorf("SetSetting(non-number) error = %v, want ErrInvalidSetting", err)
	}
}

func TestSetSettingRejectsBadDimensions(t *testing.T) {
	f := newControllerFixture(t, nil)

	for _, v := range []any{0, -5, "wide", true} {
		if err := f.ctrl.SetSetting(KeyWindowWidth, v); !errors.Is(err, ErrInvalidSetting) {
			t.Errorf("SetSetting(window_width, %v) error = %v, want ErrInvalidSetting", v, err)
		}
	}
}

func TestSetSettingShortcutGoesThroughRegistrar(t *testing.T) {
	f := newControllerFixture(t, nil)
	backend := newFakeBackend()
	reg := NewShortcutRegistrar(backend, f.prefs, nil)
	reg.Start()
	f.ctrl.SetShortcutRegistrar(reg)

	if err := f.ctrl.SetSetting(KeyToggleShortcut, "ctrl+alt+k"); err != nil {
		t.Fatalf("SetSetting: %v", err)
	}
	if reg.Current() != "Ctrl+Alt+K" {
		t.Errorf("active binding = %q, want Ctrl+Alt+K", reg.Current())
	}

	err := f.ctrl.SetSetting(KeyToggleShortcut, "not a shortcut")
	if !errors.Is(err, ErrInvalidShortcut) {
		t.Errorf("SetSetting(bad shortcut) error = %v, want ErrInvalidShortcut", err)
	}
	if reg.Current() != "Ctrl+Alt+K" {
		t.Errorf("active binding after rejection = %q, want Ctrl+Alt+K", reg.Current())
	}
}

func TestShowSettingsAndAbout(t *testing.T) {
	f := newControllerFixture(t, nil)

	f.ctrl.ShowSettings()
	if !f.window.visible {
		t.Error("ShowSettings should show the window")
	}
	if len(f.window.emitted) != 1 || f.window.emitted[0] != EventOpenSettings {
		t.Errorf("emitted = %v, want [%s]", f.window.emitted, EventOpenSettings)
	}

	f.ctrl.ShowAbout()
	if len(f.window.named) != 1 || f.window.named[0] != AboutWindow {
		t.Errorf("named windows = %v, want [%s]", f.window.named, AboutWindow)
	}
}

func TestOpenConfig(t *testing.T) {
	f := newControllerFixture(t, nil)

	if _, err := f.ctrl.OpenConfig(); !errors.Is(err, ErrNoOpener) {
		t.Errorf("OpenConfig without opener error = %v, want ErrNoOpener", err)
	}

	var opened string
	f.ctrl.SetOpener(func(path string) error {
		opened = path
		return nil
	})

	path, err := f.ctrl.OpenConfig()
	if err != nil {
		t.Fatalf("OpenConfig: %v", err)
	}
	if path != f.ctrl.ConfigPath() || opened != path {
		t.Errorf("opened %q, returned %q, want %q", opened, path, f.ctrl.ConfigPath())
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("preferences file not created: %v", err)
	}

	f.ctrl.SetOpener(func(string) error { return errPlatform })
	if _, err := f.ctrl.OpenConfig(); !errors.Is(err, errPlatform) {
		t.Errorf("OpenConfig error = %v, want wrapped opener error", err)
	}
}

func TestApplyExternalChanges(t *testing.T) {
	f := newControllerFixture(t, nil)
	backend := newFakeBackend()
	reg := NewShortcutRegistrar(backend, f.prefs, nil)
	reg.Start()
	f.ctrl.SetShortcutRegistrar(reg)

	// simulate an edit of the file on disk
	if err := f.prefs.Store().Set(KeyWindowOpacity, 0.4); err != nil {
		t.Fatal(err)
	}
	if err := f.prefs.Store().Set(KeyToggleShortcut, "Ctrl+Shift+Space"); err != nil {
		t.Fatal(err)
	}

	f.ctrl.ApplyExternalChanges()

	if f.window.opacity != 0.4 {
		t.Errorf("opacity = %v, want 0.4", f.window.opacity)
	}
	if reg.Current() != "Ctrl+Shift+Space" {
		t.Errorf("active binding = %q, want Ctrl+Shift+Space", reg.Current())
	}
}
