package applet

import (
	"log"

	"github.com/location-sb/location-status/internal/applet/indicator"
	"github.com/location-sb/location-status/internal/applet/status"
)

// Host is the shell the component is mounted in. It provides the two render
// sites and the component's overall visibility.
type Host interface {
	indicator.StatusArea
	indicator.Menu
	status.Visibility
}

// LogHost is a headless host that only logs what would be rendered.
type LogHost struct{}

// SetStatusAreaIcon implements Host.
func (LogHost) SetStatusAreaIcon(icon *indicator.Icon) {
	if icon == nil {
		log.Printf("[host] status area: cleared")
		return
	}
	log.Printf("[host] status area: %s (%dpx)", icon.Name, icon.Size)
}

// SetMenuIcon implements Host.
func (LogHost) SetMenuIcon(icon *indicator.Icon) {
	log.Printf("[host] menu: %s (%dpx)", icon.Name, icon.Size)
}

// SetMenuLabel implements Host.
func (LogHost) SetMenuLabel(label string) {
	log.Printf("[host] menu label: %q", label)
}

// ShowComponent implements Host.
func (LogHost) ShowComponent() { log.Printf("[host] component shown") }

// HideComponent implements Host.
func (LogHost) HideComponent() { log.Printf("[host] component hidden") }

// NameLoader resolves icons by name only. Hosts that draw glyphs instead of
// images use it in place of a theme loader.
type NameLoader struct{}

// LoadIcon implements indicator.IconLoader.
func (NameLoader) LoadIcon(name string, size int) (*indicator.Icon, error) {
	return &indicator.Icon{Name: name, Size: size}, nil
}
