package tray

import (
	"errors"
	"os/exec"
	"runtime"
)

// ErrNoPath is returned when OpenPath is called with an empty path
var ErrNoPath = errors.New("no path to open")

// openerCommand returns the OS command that opens a file or folder with its
// default application
func openerCommand(path string) *exec.Cmd {
	switch runtime.GOOS {
	case "windows":
		return exec.Command("explorer", path)
	case "darwin":
		return exec.Command("open", path)
	default: // Linux and others
		return exec.Command("xdg-open", path)
	}
}

// OpenPath hands path to the OS opener without waiting for it
func OpenPath(path string) error {
	if path == "" {
		return ErrNoPath
	}
	return openerCommand(path).Start()
}
