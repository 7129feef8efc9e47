package service

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSetBadge(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, BadgeIconName()), []byte("badge"), 0644); err != nil {
		t.Fatal(err)
	}
	tray := &fakeTray{}
	b := NewBadgeCoordinator(tray, dir, []byte("default"))

	b.SetBadge(true)
	if !b.HasUnread() {
		t.Error("HasUnread() = false after SetBadge(true)")
	}
	if got := string(tray.icons[len(tray.icons)-1]); got != "badge" {
		t.Errorf("icon = %q, want badge", got)
	}

	b.SetBadge(false)
	if b.HasUnread() {
		t.Error("HasUnread() = true after SetBadge(false)")
	}
	if got := string(tray.icons[len(tray.icons)-1]); got != "default" {
		t.Errorf("icon = %q, want default", got)
	}
}

func TestSetBadgeMissingAssetKeepsIcon(t *testing.T) {
	tray := &fakeTray{}
	b := NewBadgeCoordinator(tray, t.TempDir(), []byte("default"))

	b.SetBadge(true)

	if n := tray.iconCount(); n != 0 {
		t.Errorf("icon set %d times, want untouched", n)
	}
}

func TestSetBadgeTrayFailureIgnored(t *testing.T) {
	tray := &fakeTray{fail: true}
	b := NewBadgeCoordinator(tray, t.TempDir(), []byte("default"))

	b.SetBadge(false)

	if b.HasUnread() {
		t.Error("HasUnread() = true after SetBadge(false)")
	}
}

func TestClearOnlyWhenUnread(t *testing.T) {
	tray := &fakeTray{}
	b := NewBadgeCoordinator(tray, t.TempDir(), []byte("default"))

	b.Clear()
	if n := tray.iconCount(); n != 0 {
		t.Errorf("Clear with no badge set the icon %d times", n)
	}
}

func TestSetResourcesRedrawsBadge(t *testing.T) {
	first, second := t.TempDir(), t.TempDir()
	for dir, data := range map[string]string{first: "badge-one", second: "badge-two"} {
		if err := os.WriteFile(filepath.Join(dir, BadgeIconName()), []byte(data), 0644); err != nil {
			t.Fatal(err)
		}
	}
	tray := &fakeTray{}
	b := NewBadgeCoordinator(tray, first, []byte("default"))
	b.SetBadge(true)

	b.SetResources(second, []byte("default"))
	if got := string(tray.icons[len(tray.icons)-1]); got != "badge-two" {
		t.Errorf("icon after resource change = %q, want badge-two", got)
	}

	n := tray.iconCount()
	b.SetResources(second, []byte("default"))
	if tray.iconCount() != n {
		t.Error("unchanged resources redrew the icon")
	}

	b.SetBadge(false)
	b.SetResources(first, []byte("other-default"))
	if got := string(tray.icons[len(tray.icons)-1]); got != "other-default" {
		t.Errorf("icon = %q, want the new default", got)
	}
}
