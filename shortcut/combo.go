// Package shortcut parses platform-neutral key combos ("Shift+Super+T") and
// binds them as global hotkeys.
package shortcut

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultToggle is the toggle binding used when none is stored or the stored
// one cannot be registered
const DefaultToggle = "Shift+Super+T"

var (
	ErrEmpty          = errors.New("shortcut is empty")
	ErrUnknownToken   = errors.New("unknown key or modifier")
	ErrNoKey          = errors.New("shortcut has no key")
	ErrMultipleKeys   = errors.New("shortcut has more than one key")
	ErrNeedsModifier  = errors.New("shortcut needs at least one modifier")
	ErrDuplicateToken = errors.New("modifier repeated")
)

// Modifier is a bit set of modifier keys
type Modifier uint8

const (
	ModCtrl Modifier = 1 << iota
	ModAlt
	ModShift
	ModSuper
)

var modifierOrder = []struct {
	mod  Modifier
	name string
}{
	{ModCtrl, "Ctrl"},
	{ModAlt, "Alt"},
	{ModShift, "Shift"},
	{ModSuper, "Super"},
}

var modifierAliases = map[string]Modifier{
	"ctrl":             ModCtrl,
	"control":          ModCtrl,
	"alt":              ModAlt,
	"option":           ModAlt,
	"shift":            ModShift,
	"super":            ModSuper,
	"cmd":              ModSuper,
	"command":          ModSuper,
	"meta":             ModSuper,
	"win":              ModSuper,
	"commandorcontrol": commandOrControl,
	"cmdorctrl":        commandOrControl,
}

// Combo is a parsed shortcut: a modifier set plus exactly one key
type Combo struct {
	Mods Modifier
	Key  Key
}

// Parse parses a "+"-separated combo. Tokens are case-insensitive.
func Parse(s string) (Combo, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Combo{}, ErrEmpty
	}

	var c Combo
	haveKey := false
	for _, raw := range strings.Split(s, "+") {
		token := strings.ToLower(strings.TrimSpace(raw))
		if token == "" {
			return Combo{}, fmt.Errorf("%w: empty token in %q", ErrUnknownToken, s)
		}

		if mod, ok := modifierAliases[token]; ok {
			if c.Mods&mod != 0 {
				return Combo{}, fmt.Errorf("%w: %q", ErrDuplicateToken, raw)
			}
			c.Mods |= mod
			continue
		}

		key, ok := lookupKey(token)
		if !ok {
			return Combo{}, fmt.Errorf("%w: %q", ErrUnknownToken, strings.TrimSpace(raw))
		}
		if haveKey {
			return Combo{}, fmt.Errorf("%w: %q", ErrMultipleKeys, s)
		}
		c.Key = key
		haveKey = true
	}

	if !haveKey {
		return Combo{}, fmt.Errorf("%w: %q", ErrNoKey, s)
	}
	if c.Mods == 0 && !c.Key.IsFunction() {
		return Combo{}, fmt.Errorf("%w: %q", ErrNeedsModifier, s)
	}
	return c, nil
}

// String renders the canonical form, modifiers in Ctrl, Alt, Shift, Super order
func (c Combo) String() string {
	var b strings.Builder
	for _, m := range modifierOrder {
		if c.Mods&m.mod != 0 {
			b.WriteString(m.name)
			b.WriteByte('+')
		}
	}
	b.WriteString(c.Key.String())
	return b.String()
}

// Modifiers lists the held modifiers in Ctrl, Alt, Shift, Super order
func (c Combo) Modifiers() []Modifier {
	var mods []Modifier
	for _, m := range modifierOrder {
		if c.Mods&m.mod != 0 {
			mods = append(mods, m.mod)
		}
	}
	return mods
}

// Equal reports whether two combos bind the same keys
func (c Combo) Equal(o Combo) bool {
	return c.Mods == o.Mods && c.Key == o.Key
}
