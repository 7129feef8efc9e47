package tray

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

func TestGeneratedIconIsValidICO(t *testing.T) {
	icon := getIcon()

	wantLen := 6 + 16 + 40 + iconSize*iconSize*4 + 4*iconSize
	if len(icon) != wantLen {
		t.Fatalf("icon length = %d, want %d", len(icon), wantLen)
	}

	le := binary.LittleEndian
	if typ := le.Uint16(icon[2:4]); typ != 1 {
		t.Errorf("ICO type = %d, want 1", typ)
	}
	if count := le.Uint16(icon[4:6]); count != 1 {
		t.Errorf("image count = %d, want 1", count)
	}
	if icon[6] != iconSize || icon[7] != iconSize {
		t.Errorf("entry size = %dx%d, want %dx%d", icon[6], icon[7], iconSize, iconSize)
	}
	if offset := le.Uint32(icon[18:22]); offset != 22 {
		t.Errorf("image offset = %d, want 22", offset)
	}
}

func TestDefaultIconPrefersResource(t *testing.T) {
	dir := t.TempDir()

	if got := DefaultIcon(dir); !bytes.Equal(got, getIcon()) {
		t.Error("missing resource should fall back to the generated icon")
	}

	custom := []byte("custom icon")
	if err := os.WriteFile(filepath.Join(dir, IconName()), custom, 0644); err != nil {
		t.Fatal(err)
	}
	if got := DefaultIcon(dir); !bytes.Equal(got, custom) {
		t.Errorf("DefaultIcon() = %q, want resource contents", got)
	}
}

func TestSetIconBeforeRun(t *testing.T) {
	app := New(Options{}, nil, nil)

	if err := app.SetIcon(nil); err != ErrEmptyIcon {
		t.Errorf("SetIcon(nil) error = %v, want ErrEmptyIcon", err)
	}
	if err := app.SetIcon([]byte("badge")); err != nil {
		t.Fatalf("SetIcon: %v", err)
	}
	if got := string(app.Icon()); got != "badge" {
		t.Errorf("Icon() = %q, want badge", got)
	}
	if _, ok := app.Bounds(); ok {
		t.Error("Bounds() should report unavailable")
	}
}

func TestFormatStatus(t *testing.T) {
	tests := []struct {
		visible   bool
		frontends int
		want      string
	}{
		{false, 0, "Window: hidden | no frontend"},
		{true, 1, "Window: visible | frontends: 1"},
		{false, 2, "Window: hidden | frontends: 2"},
	}

	for _, tt := range tests {
		if got := formatStatus(tt.visible, tt.frontends); got != tt.want {
			t.Errorf("formatStatus(%v, %d) = %q, want %q", tt.visible, tt.frontends, got, tt.want)
		}
	}
}

func TestOpenPathEmpty(t *testing.T) {
	if err := OpenPath(""); err != ErrNoPath {
		t.Errorf("OpenPath(\"\") error = %v, want ErrNoPath", err)
	}
}
