//go:build !nohotkey

package native

import (
	"golang.design/x/hotkey"

	"traydock/shortcut"
)

// VK_BACK
const nativeBackspace hotkey.Key = 0x08

func nativeModifier(m shortcut.Modifier) hotkey.Modifier {
	switch m {
	case shortcut.ModCtrl:
		return hotkey.ModCtrl
	case shortcut.ModAlt:
		return hotkey.ModAlt
	case shortcut.ModShift:
		return hotkey.ModShift
	default:
		return hotkey.ModWin
	}
}
