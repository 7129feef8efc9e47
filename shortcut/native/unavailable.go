//go:build nohotkey || !(linux || darwin || windows)

package native

import "traydock/shortcut"

// New returns a backend that refuses every combo. Builds tagged nohotkey
// run on hosts without a display server and skip the global shortcut.
func New() shortcut.Backend {
	return shortcut.Unavailable{}
}

// RunMain runs fn. Without hotkeys nothing needs the main thread.
func RunMain(fn func()) {
	fn()
}
