package tui

import "github.com/location-sb/location-status/internal/applet/status"

// StatusAreaMsg sets or clears the status-area icon.
type StatusAreaMsg struct {
	Name  string
	Shown bool
}

// MenuIconMsg sets the menu icon.
type MenuIconMsg struct {
	Name string
}

// MenuLabelMsg sets the menu label.
type MenuLabelMsg struct {
	Label string
}

// VisibilityMsg shows or hides the component.
type VisibilityMsg struct {
	Visible bool
}

// SnapshotMsg carries the component state after an event.
type SnapshotMsg struct {
	Snapshot status.Snapshot
}

// ErrorMsg carries an error to display.
type ErrorMsg struct {
	Err error
}
