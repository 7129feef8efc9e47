package service

import (
	"github.com/rs/zerolog/log"

	"traydock/model"
)

// Trigger tags an input that can drive the controller
type Trigger string

const (
	TriggerTrayClick      Trigger = "tray_click"
	TriggerHotkey         Trigger = "hotkey"
	TriggerMenuToggle     Trigger = "menu_toggle"
	TriggerMenuSettings   Trigger = "menu_settings"
	TriggerMenuAbout      Trigger = "menu_about"
	TriggerMenuOpenConfig Trigger = "menu_open_config"
	TriggerFocusLost      Trigger = "focus_lost"
)

// Dispatcher maps input tags to controller transitions, keeping tray,
// hotkey and window glue out of the controller
type Dispatcher struct {
	table map[Trigger]func()
}

// NewDispatcher builds the dispatch table for c
func NewDispatcher(c *Controller) *Dispatcher {
	return &Dispatcher{
		table: map[Trigger]func(){
			TriggerTrayClick:    func() { c.Toggle(string(TriggerTrayClick)) },
			TriggerHotkey:       func() { c.Toggle(string(TriggerHotkey)) },
			TriggerMenuToggle:   func() { c.Toggle(string(TriggerMenuToggle)) },
			TriggerMenuSettings: c.ShowSettings,
			TriggerMenuAbout:    c.ShowAbout,
			TriggerMenuOpenConfig: func() {
				if path, err := c.OpenConfig(); err != nil {
					log.Warn().Err(err).Str("path", path).Msg("Failed to open preferences file")
				}
			},
			TriggerFocusLost: c.OnFocusLost,
		},
	}
}

// Dispatch runs the handler for t. Unknown tags are ignored.
func (d *Dispatcher) Dispatch(t Trigger) bool {
	fn, ok := d.table[t]
	if !ok {
		log.Debug().Str("trigger", string(t)).Msg("No handler for trigger")
		return false
	}
	fn()
	return true
}

// HandleTray toggles on a left-button release; other clicks are ignored
func (d *Dispatcher) HandleTray(ev model.TrayEvent) bool {
	if ev.Button != model.ButtonLeft || ev.Phase != model.PhaseReleased {
		return false
	}
	return d.Dispatch(TriggerTrayClick)
}

// HandleHotkey toggles on the Pressed phase of the global shortcut
func (d *Dispatcher) HandleHotkey(phase model.KeyPhase) bool {
	if phase != model.PhasePressed {
		return false
	}
	return d.Dispatch(TriggerHotkey)
}
