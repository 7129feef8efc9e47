//go:build !darwin

package shortcut

// CommandOrControl resolves to Ctrl outside macOS
const commandOrControl = ModCtrl
