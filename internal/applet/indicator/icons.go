// Package indicator turns visual states into icon requests for the status
// area and the menu.
package indicator

import (
	"github.com/location-sb/location-status/internal/applet/status"
	"github.com/location-sb/location-status/internal/models"
)

// IconID is a symbolic icon identifier, independent of the theme asset.
type IconID string

const (
	IconNotConnected IconID = "not_connected"
	IconSearching    IconID = "searching"
	IconLocation     IconID = "location"
)

// Site is one of the two places an icon is rendered.
type Site int

const (
	SiteStatusArea Site = iota
	SiteMenu
)

func (s Site) String() string {
	if s == SiteMenu {
		return "menu"
	}
	return "status-area"
}

// StatusAreaIcon maps a state and blink phase to the small icon.
func StatusAreaIcon(state status.VisualState, phase status.BlinkPhase) IconID {
	switch state {
	case status.Searching:
		if phase == status.SearchingB {
			return IconLocation
		}
		return IconSearching
	case status.Found:
		return IconLocation
	default:
		return IconNotConnected
	}
}

// MenuIcon maps a state to the large icon. The menu never blinks.
func MenuIcon(state status.VisualState) IconID {
	if state == status.Found {
		return IconLocation
	}
	return IconNotConnected
}

// Theme resolves symbolic icons to asset names and pixel sizes.
type Theme struct {
	Names     map[IconID]string
	SmallSize int
	LargeSize int
}

// ThemeFromSettings builds a Theme from the icons section of the settings.
func ThemeFromSettings(cfg models.IconsConfig) Theme {
	return Theme{
		Names: map[IconID]string{
			IconNotConnected: cfg.NotConnected,
			IconSearching:    cfg.Searching,
			IconLocation:     cfg.Location,
		},
		SmallSize: cfg.SmallSize,
		LargeSize: cfg.LargeSize,
	}
}

// Asset returns the asset name for id, falling back to the identifier.
func (t Theme) Asset(id IconID) string {
	if name, ok := t.Names[id]; ok && name != "" {
		return name
	}
	return string(id)
}

// Size returns the pixel size used at site.
func (t Theme) Size(site Site) int {
	if site == SiteMenu {
		return t.LargeSize
	}
	return t.SmallSize
}
