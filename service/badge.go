package service

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/rs/zerolog/log"
)

// IconSetter swaps the tray icon image
type IconSetter interface {
	SetIcon(icon []byte) error
}

// BadgeIconName returns the file name of the unread variant of the tray icon
func BadgeIconName() string {
	if runtime.GOOS == "windows" {
		return "icon-badge.ico"
	}
	return "icon-badge.png"
}

// BadgeCoordinator reflects the unread flag on the tray icon
type BadgeCoordinator struct {
	mu          sync.Mutex
	tray        IconSetter
	resourceDir string
	defaultIcon []byte
	hasUnread   bool
	events      EventLogger
}

// NewBadgeCoordinator creates a coordinator. The badge icon is read from
// resourceDir each time it is shown.
func NewBadgeCoordinator(tray IconSetter, resourceDir string, defaultIcon []byte) *BadgeCoordinator {
	return &BadgeCoordinator{
		tray:        tray,
		resourceDir: resourceDir,
		defaultIcon: defaultIcon,
		events:      nopEvents{},
	}
}

// SetEventLogger sets the event logger for badge changes
func (b *BadgeCoordinator) SetEventLogger(el EventLogger) {
	b.events = eventsOrNop(el)
}

// SetBadge swaps between the default and badge icons. A missing badge asset
// or a failing tray leaves the icon as it was.
func (b *BadgeCoordinator) SetBadge(hasUnread bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.hasUnread = hasUnread
	b.events.LogBadgeChanged(hasUnread)
	b.apply(hasUnread)
}

// SetResources points the coordinator at a new asset directory and default
// icon, and redraws the current state from them
func (b *BadgeCoordinator) SetResources(resourceDir string, defaultIcon []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if resourceDir == b.resourceDir && bytes.Equal(defaultIcon, b.defaultIcon) {
		return
	}
	b.resourceDir = resourceDir
	if len(defaultIcon) > 0 {
		b.defaultIcon = defaultIcon
	}
	log.Debug().Str("resource_dir", resourceDir).Msg("Tray icon resources changed")
	b.apply(b.hasUnread)
}

// apply shows the icon for hasUnread. Caller holds b.mu.
func (b *BadgeCoordinator) apply(hasUnread bool) {
	icon := b.defaultIcon
	if hasUnread {
		path := filepath.Join(b.resourceDir, BadgeIconName())
		data, err := os.ReadFile(path)
		if err != nil {
			log.Debug().Err(err).Str("path", path).Msg("Badge icon unavailable, keeping current icon")
			return
		}
		icon = data
	}
	if len(icon) == 0 {
		return
	}

	if err := b.tray.SetIcon(icon); err != nil {
		log.Debug().Err(err).Bool("has_unread", hasUnread).Msg("Failed to set tray icon")
	}
}

// Clear drops the badge if one is shown
func (b *BadgeCoordinator) Clear() {
	b.mu.Lock()
	unread := b.hasUnread
	b.mu.Unlock()

	if unread {
		b.SetBadge(false)
	}
}

// HasUnread reports the current badge state
func (b *BadgeCoordinator) HasUnread() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hasUnread
}
