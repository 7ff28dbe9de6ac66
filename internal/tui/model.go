package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/location-sb/location-status/internal/applet/indicator"
	"github.com/location-sb/location-status/internal/applet/status"
)

const maxLogLines = 200

// Activator opens the location settings.
type Activator interface {
	Activate()
}

// Model is the root Bubbletea model for the monitor.
type Model struct {
	activator Activator
	theme     indicator.Theme
	busKind   string

	// Render sites
	area      string
	areaShown bool
	menu      string
	label     string
	visible   bool

	snap     status.Snapshot
	haveSnap bool
	err      error

	log           []string
	width, height int
	now           func() time.Time
}

// NewModel creates the initial monitor model.
func NewModel(a Activator, theme indicator.Theme, busKind string) Model {
	return Model{
		activator: a,
		theme:     theme,
		busKind:   busKind,
		width:     80,
		height:    24,
		now:       time.Now,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, monitorKeys.Quit):
			return m, tea.Quit
		case key.Matches(msg, monitorKeys.Activate):
			m.activator.Activate()
			m.addLog("activate: opening location settings")
		case key.Matches(msg, monitorKeys.Clear):
			m.log = nil
		}

	case StatusAreaMsg:
		m.area, m.areaShown = msg.Name, msg.Shown
		if msg.Shown {
			m.addLog("status area: %s", msg.Name)
		} else {
			m.addLog("status area: cleared")
		}

	case MenuIconMsg:
		m.menu = msg.Name
		m.addLog("menu: %s", msg.Name)

	case MenuLabelMsg:
		m.label = msg.Label

	case VisibilityMsg:
		m.visible = msg.Visible
		if msg.Visible {
			m.addLog("component shown")
		} else {
			m.addLog("component hidden")
		}

	case SnapshotMsg:
		m.snap = msg.Snapshot
		m.haveSnap = true

	case ErrorMsg:
		m.err = msg.Err
		m.addLog("error: %v", msg.Err)
	}

	return m, nil
}

func (m *Model) addLog(format string, args ...interface{}) {
	line := m.now().Format("15:04:05") + "  " + fmt.Sprintf(format, args...)
	m.log = append(m.log, line)
	if len(m.log) > maxLogLines {
		m.log = m.log[len(m.log)-maxLogLines:]
	}
}

// View implements tea.Model.
func (m Model) View() string {
	header := m.renderHeader()
	sites := m.renderSites()
	state := m.renderState()
	bar := m.renderStatusBar()

	used := lipgloss.Height(header) + lipgloss.Height(sites) + lipgloss.Height(state) + lipgloss.Height(bar)
	logView := m.renderLog(m.height - used)

	return lipgloss.JoinVertical(lipgloss.Left, header, sites, state, logView, bar)
}

func (m Model) renderHeader() string {
	dot := glyphStyle(m.theme, m.area).Render("●")
	left := fmt.Sprintf(" %s %s", dot, headerStyle.Render("Location status monitor"))
	right := labelStyle.Render(fmt.Sprintf("%s bus ", m.busKind))

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m Model) renderSites() string {
	areaBody := labelStyle.Render("cleared")
	if m.areaShown {
		areaBody = glyphStyle(m.theme, m.area).Render(glyph(m.theme, m.area)) + " " + m.area
	}
	area := panelStyle.Render(labelStyle.Render("Status area") + "\n" + areaBody)

	menuBody := glyphStyle(m.theme, m.menu).Render(glyph(m.theme, m.menu)) + " " + m.label + "\n" + labelStyle.Render(m.menu)
	style := panelStyle
	title := "Menu"
	if !m.visible {
		style = hiddenPanelStyle
		title = "Menu (hidden)"
	}
	menu := style.Render(labelStyle.Render(title) + "\n" + menuBody)

	return lipgloss.JoinHorizontal(lipgloss.Top, area, " ", menu)
}

func (m Model) renderState() string {
	if !m.haveSnap {
		return labelStyle.Render(" waiting for state...")
	}
	s := m.snap
	blinking := "off"
	if s.Blinking {
		blinking = "on (" + s.BlinkPhase.String() + ")"
	}
	bus := "connected"
	if !s.BusConnected {
		bus = "disconnected"
	}
	return fmt.Sprintf(" %s %t  %s %s  %s %s  %s %s  %s %s  %s %d",
		labelStyle.Render("daemon:"), s.DaemonRunning,
		labelStyle.Render("fix:"), s.FixMode,
		labelStyle.Render("state:"), s.VisualState,
		labelStyle.Render("blink:"), blinking,
		labelStyle.Render("bus:"), bus,
		labelStyle.Render("events:"), s.Events,
	)
}

func (m Model) renderLog(rows int) string {
	if rows < 1 {
		return ""
	}
	lines := m.log
	if len(lines) > rows {
		lines = lines[len(lines)-rows:]
	}
	out := make([]string, rows)
	for i := range out {
		if i < len(lines) {
			out[i] = logStyle.Render(" " + ansi.Truncate(lines[i], m.width-2, "…"))
		}
	}
	return strings.Join(out, "\n")
}

func (m Model) renderStatusBar() string {
	hints := []string{}
	for _, b := range []key.Binding{monitorKeys.Activate, monitorKeys.Clear, monitorKeys.Quit} {
		h := b.Help()
		hints = append(hints, h.Key+" "+h.Desc)
	}
	left := " " + strings.Join(hints, "  ")
	if m.err != nil {
		left = " " + lipgloss.NewStyle().Foreground(colorRed).Bold(true).Render("⚠ "+m.err.Error())
	}
	left = ansi.Truncate(left, m.width, "…")
	return statusBarStyle.Width(m.width).Render(left)
}

func glyph(theme indicator.Theme, name string) string {
	switch name {
	case theme.Asset(indicator.IconLocation):
		return "●"
	case theme.Asset(indicator.IconSearching):
		return "◌"
	case theme.Asset(indicator.IconNotConnected):
		return "○"
	}
	return "?"
}

func glyphStyle(theme indicator.Theme, name string) lipgloss.Style {
	switch name {
	case theme.Asset(indicator.IconLocation):
		return glyphLocationStyle
	case theme.Asset(indicator.IconSearching):
		return glyphSearchingStyle
	case theme.Asset(indicator.IconNotConnected):
		return glyphNotConnectedStyle
	}
	return glyphUnknownStyle
}
