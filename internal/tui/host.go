package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/location-sb/location-status/internal/applet/indicator"
)

// Host forwards render calls to the program as messages.
type Host struct {
	send func(tea.Msg)
}

// SetStatusAreaIcon implements applet.Host.
func (h *Host) SetStatusAreaIcon(icon *indicator.Icon) {
	if icon == nil {
		h.send(StatusAreaMsg{})
		return
	}
	h.send(StatusAreaMsg{Name: icon.Name, Shown: true})
}

// SetMenuIcon implements applet.Host.
func (h *Host) SetMenuIcon(icon *indicator.Icon) {
	if icon == nil {
		return
	}
	h.send(MenuIconMsg{Name: icon.Name})
}

// SetMenuLabel implements applet.Host.
func (h *Host) SetMenuLabel(label string) {
	h.send(MenuLabelMsg{Label: label})
}

// ShowComponent implements applet.Host.
func (h *Host) ShowComponent() { h.send(VisibilityMsg{Visible: true}) }

// HideComponent implements applet.Host.
func (h *Host) HideComponent() { h.send(VisibilityMsg{Visible: false}) }
