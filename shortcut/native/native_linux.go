//go:build !nohotkey

package native

import (
	"golang.design/x/hotkey"

	"traydock/shortcut"
)

// X11 keysym
const nativeBackspace hotkey.Key = 0xff08

func nativeModifier(m shortcut.Modifier) hotkey.Modifier {
	switch m {
	case shortcut.ModCtrl:
		return hotkey.ModCtrl
	case shortcut.ModAlt:
		return hotkey.Mod1
	case shortcut.ModShift:
		return hotkey.ModShift
	default:
		return hotkey.Mod4
	}
}
