package shortcut

// CommandOrControl resolves to Cmd on macOS
const commandOrControl = ModSuper
