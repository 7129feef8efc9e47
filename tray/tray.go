package tray

import (
	"errors"
	"fmt"
	"sync"

	"github.com/getlantern/systray"
	"github.com/rs/zerolog/log"

	"traydock/model"
	"traydock/service"
)

// ErrEmptyIcon is returned when SetIcon is called without image data
var ErrEmptyIcon = errors.New("empty tray icon")

// Dispatcher receives tray input
type Dispatcher interface {
	Dispatch(t service.Trigger) bool
	HandleTray(ev model.TrayEvent) bool
}

// Options configures the tray icon
type Options struct {
	Title   string
	Port    int
	Icon    []byte
	LogDir  string
	Version string
}

// TrayApp manages the system tray functionality
type TrayApp struct {
	opts       Options
	dispatcher Dispatcher
	onExit     func()
	ready      chan struct{}
	menuStatus *systray.MenuItem
	icon       []byte
	isRunning  bool
	mu         sync.Mutex
}

// New creates a new TrayApp
func New(opts Options, d Dispatcher, onExit func()) *TrayApp {
	if opts.Title == "" {
		opts.Title = "traydock"
	}
	icon := opts.Icon
	if len(icon) == 0 {
		icon = getIcon()
	}
	return &TrayApp{
		opts:       opts,
		dispatcher: d,
		onExit:     onExit,
		ready:      make(chan struct{}),
		icon:       icon,
	}
}

// SetDispatcher sets where menu clicks go. Call before Run.
func (t *TrayApp) SetDispatcher(d Dispatcher) {
	t.dispatcher = d
}

// Run starts the system tray (blocking)
func (t *TrayApp) Run() {
	t.mu.Lock()
	t.isRunning = true
	t.mu.Unlock()

	systray.Run(t.onReady, t.onQuit)
}

// Ready closes once the tray's run loop is up. Work that needs the OS main
// thread serving requests, such as binding global hotkeys, waits on it.
func (t *TrayApp) Ready() <-chan struct{} {
	return t.ready
}

// Icon returns the icon currently shown, or to be shown once the tray runs
func (t *TrayApp) Icon() []byte {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.icon
}

// SetIcon swaps the tray icon. Before the tray is running the icon is kept
// and applied on start.
func (t *TrayApp) SetIcon(icon []byte) error {
	if len(icon) == 0 {
		return ErrEmptyIcon
	}

	t.mu.Lock()
	t.icon = icon
	running := t.isRunning
	t.mu.Unlock()

	if running {
		systray.SetIcon(icon)
	}
	return nil
}

// Bounds reports the icon's screen rectangle. systray does not expose it, so
// the window opens wherever it was last.
func (t *TrayApp) Bounds() (model.Rect, bool) {
	return model.Rect{}, false
}

// UpdateStatus updates the status display in menu
func (t *TrayApp) UpdateStatus(visible bool, frontends int) {
	t.mu.Lock()
	item := t.menuStatus
	t.mu.Unlock()

	if item != nil {
		item.SetTitle(formatStatus(visible, frontends))
	}
}

func (t *TrayApp) setStatusItem(item *systray.MenuItem) {
	t.mu.Lock()
	t.menuStatus = item
	t.mu.Unlock()
}

func (t *TrayApp) onReady() {
	systray.SetIcon(t.Icon())
	systray.SetTooltip(fmt.Sprintf("%s %s - port %d", t.opts.Title, t.opts.Version, t.opts.Port))

	status := systray.AddMenuItem(formatStatus(false, 0), "Current status")
	status.Disable()
	t.setStatusItem(status)

	systray.AddSeparator()

	menuToggle := systray.AddMenuItem("Toggle Window", "Show or hide the window")
	menuSettings := systray.AddMenuItem("Settings", "Open settings")
	menuAbout := systray.AddMenuItem("About", "About "+t.opts.Title)

	systray.AddSeparator()

	menuConfig := systray.AddMenuItem("Open Config", "Open the preferences file")
	menuLogs := systray.AddMenuItem("Open Logs Folder", "Open logs folder")
	if t.opts.LogDir == "" {
		menuLogs.Disable()
	}

	systray.AddSeparator()

	menuExit := systray.AddMenuItem("Exit", "Quit the application completely")

	close(t.ready)

	log.Debug().Int("port", t.opts.Port).Msg("System tray initialized")

	go func() {
		for {
			select {
			case <-menuToggle.ClickedCh:
				// systray has no icon click; the menu entry stands in for one
				t.dispatcher.HandleTray(model.TrayEvent{Button: model.ButtonLeft, Phase: model.PhaseReleased})
			case <-menuSettings.ClickedCh:
				t.dispatcher.Dispatch(service.TriggerMenuSettings)
			case <-menuAbout.ClickedCh:
				t.dispatcher.Dispatch(service.TriggerMenuAbout)
			case <-menuConfig.ClickedCh:
				t.dispatcher.Dispatch(service.TriggerMenuOpenConfig)
			case <-menuLogs.ClickedCh:
				if err := OpenPath(t.opts.LogDir); err != nil {
					log.Error().Err(err).Msg("Failed to open logs folder")
				}
			case <-menuExit.ClickedCh:
				log.Info().Msg("Exit requested from tray")
				t.requestExit()
				return
			}
		}
	}()
}

func (t *TrayApp) onQuit() {
	t.mu.Lock()
	t.isRunning = false
	t.mu.Unlock()

	log.Info().Msg("System tray quitting")
	if t.onExit != nil {
		t.onExit()
	}
}

// requestExit hands the exit to the owner, which releases what it holds
// while the run loop still serves and then calls Quit
func (t *TrayApp) requestExit() {
	if t.onExit != nil {
		t.onExit()
		return
	}
	systray.Quit()
}

// Quit exits the systray
func (t *TrayApp) Quit() {
	systray.Quit()
}

func formatStatus(visible bool, frontends int) string {
	state := "hidden"
	if visible {
		state = "visible"
	}
	if frontends == 0 {
		return "Window: " + state + " | no frontend"
	}
	return fmt.Sprintf("Window: %s | frontends: %d", state, frontends)
}
