package tui

import "github.com/charmbracelet/bubbles/key"

// MonitorKeys are always active.
type MonitorKeys struct {
	Activate key.Binding
	Clear    key.Binding
	Quit     key.Binding
}

var monitorKeys = MonitorKeys{
	Activate: key.NewBinding(
		key.WithKeys("enter", " "),
		key.WithHelp("Enter", "open settings"),
	),
	Clear: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "clear log"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}
