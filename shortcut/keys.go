package shortcut

import (
	"strconv"
	"strings"
)

// Key is a platform-neutral key identifier
type Key uint16

const (
	KeyNone Key = iota
	KeySpace
	KeyReturn
	KeyEscape
	KeyTab
	KeyBackspace
	KeyDelete
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
	Key0
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyF13
	KeyF14
	KeyF15
	KeyF16
	KeyF17
	KeyF18
	KeyF19
	KeyF20
)

var namedKeys = map[string]Key{
	"space":     KeySpace,
	"enter":     KeyReturn,
	"return":    KeyReturn,
	"escape":    KeyEscape,
	"esc":       KeyEscape,
	"tab":       KeyTab,
	"backspace": KeyBackspace,
	"delete":    KeyDelete,
	"del":       KeyDelete,
	"up":        KeyUp,
	"down":      KeyDown,
	"left":      KeyLeft,
	"right":     KeyRight,
}

var keyNames = map[Key]string{
	KeySpace:     "Space",
	KeyReturn:    "Enter",
	KeyEscape:    "Escape",
	KeyTab:       "Tab",
	KeyBackspace: "Backspace",
	KeyDelete:    "Delete",
	KeyUp:        "Up",
	KeyDown:      "Down",
	KeyLeft:      "Left",
	KeyRight:     "Right",
}

// lookupKey resolves a lowercased token
func lookupKey(token string) (Key, bool) {
	if k, ok := namedKeys[token]; ok {
		return k, true
	}
	if len(token) == 1 {
		c := token[0]
		switch {
		case c >= 'a' && c <= 'z':
			return KeyA + Key(c-'a'), true
		case c >= '0' && c <= '9':
			return Key0 + Key(c-'0'), true
		}
		return KeyNone, false
	}
	if strings.HasPrefix(token, "f") {
		n, err := strconv.Atoi(token[1:])
		if err == nil && n >= 1 && n <= 20 {
			return KeyF1 + Key(n-1), true
		}
	}
	return KeyNone, false
}

// IsFunction reports whether k is one of F1-F20
func (k Key) IsFunction() bool {
	return k >= KeyF1 && k <= KeyF20
}

func (k Key) String() string {
	switch {
	case k >= KeyA && k <= KeyZ:
		return string(rune('A' + (k - KeyA)))
	case k >= Key0 && k <= Key9:
		return string(rune('0' + (k - Key0)))
	case k.IsFunction():
		return "F" + strconv.Itoa(int(k-KeyF1)+1)
	}
	if name, ok := keyNames[k]; ok {
		return name
	}
	return "None"
}
