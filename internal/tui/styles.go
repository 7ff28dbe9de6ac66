package tui

import "github.com/charmbracelet/lipgloss"

// Colors using AdaptiveColor for light/dark terminal support.
var (
	colorWhite  = lipgloss.AdaptiveColor{Light: "0", Dark: "15"}
	colorDim    = lipgloss.AdaptiveColor{Light: "242", Dark: "240"}
	colorGreen  = lipgloss.AdaptiveColor{Light: "28", Dark: "40"}
	colorRed    = lipgloss.AdaptiveColor{Light: "160", Dark: "196"}
	colorYellow = lipgloss.AdaptiveColor{Light: "136", Dark: "220"}
	colorCyan   = lipgloss.AdaptiveColor{Light: "30", Dark: "45"}
)

// Layout styles.
var (
	headerStyle = lipgloss.NewStyle().
			Bold(true)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorWhite).
			Background(lipgloss.AdaptiveColor{Light: "235", Dark: "236"})

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 1)

	hiddenPanelStyle = panelStyle.
				BorderForeground(colorDim).
				Foreground(colorDim)

	labelStyle = lipgloss.NewStyle().Foreground(colorDim)
	logStyle   = lipgloss.NewStyle().Foreground(colorDim)
)

// Glyph styles per icon.
var (
	glyphNotConnectedStyle = lipgloss.NewStyle().Foreground(colorRed)
	glyphSearchingStyle    = lipgloss.NewStyle().Foreground(colorYellow).Bold(true)
	glyphLocationStyle     = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	glyphUnknownStyle      = lipgloss.NewStyle().Foreground(colorCyan)
)
