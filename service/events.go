package service

import "traydock/model"

// EventLogger receives controller events for the debug buffer and event log
type EventLogger interface {
	LogToggle(trigger string)
	LogShown(trigger string)
	LogHidden(trigger string)
	LogPlatformFailure(op string, err error)
	LogGeometrySaved(g model.WindowGeometry, trigger string)
	LogResizeSuppressed()
	LogShortcutBound(shortcut string)
	LogShortcutFallback(requested, active string, err error)
	LogBadgeChanged(hasUnread bool)
	LogOpacityChanged(opacity float64)
	LogSettingsReloaded(path string)
}

type nopEvents struct{}

func (nopEvents) LogToggle(string) {}
func (nopEvents) LogShown(string) {}
func (nopEvents) LogHidden(string) {}
func (nopEvents) LogPlatformFailure(string, error) {}
func (nopEvents) LogGeometrySaved(model.WindowGeometry, string) {}
func (nopEvents) LogResizeSuppressed() {}
func (nopEvents) LogShortcutBound(string) {}
func (nopEvents) LogShortcutFallback(string, string, error) {}
func (nopEvents) LogBadgeChanged(bool) {}
func (nopEvents) LogOpacityChanged(float64) {}
func (nopEvents) LogSettingsReloaded(string) {}

func eventsOrNop(el EventLogger) EventLogger {
	if el == nil {
		return nopEvents{}
	}
	return el
}
