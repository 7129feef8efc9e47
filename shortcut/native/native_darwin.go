//go:build !nohotkey

package native

import (
	"golang.design/x/hotkey"

	"traydock/shortcut"
)

// kVK_Delete
const nativeBackspace hotkey.Key = 0x33

func nativeModifier(m shortcut.Modifier) hotkey.Modifier {
	switch m {
	case shortcut.ModCtrl:
		return hotkey.ModCtrl
	case shortcut.ModAlt:
		return hotkey.ModOption
	case shortcut.ModShift:
		return hotkey.ModShift
	default:
		return hotkey.ModCmd
	}
}
