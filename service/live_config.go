package service

import "traydock/config"

// EventFileSwitch turns the daily event log on and off
type EventFileSwitch interface {
	SetWriteFiles(enabled bool)
}

// FollowConfig applies the current runtime config to the event log and the
// tray icon resources, and again after every accepted update. iconFor loads
// the default tray icon from a resource directory.
func FollowConfig(cfg *config.Config, events EventFileSwitch, badge *BadgeCoordinator, iconFor func(dir string) []byte) {
	apply := func(c *config.Config) {
		if events != nil {
			events.SetWriteFiles(c.LogsEvents())
		}
		if badge != nil && iconFor != nil {
			dir := c.ResourceDirectory()
			badge.SetResources(dir, iconFor(dir))
		}
	}
	apply(cfg)
	cfg.OnUpdate(apply)
}
