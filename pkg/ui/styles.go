package ui

import "github.com/charmbracelet/lipgloss"

// Colors
var (
	ColorPrimary   = lipgloss.Color("#7C3AED")
	ColorSecondary = lipgloss.Color("#10B981")
	ColorDanger    = lipgloss.Color("#EF4444")
	ColorWarning   = lipgloss.Color("#F59E0B")
	ColorMuted     = lipgloss.Color("#6B7280")
	ColorBorder    = lipgloss.Color("#374151")
	ColorInfo      = lipgloss.Color("#60A5FA")
)

// Styles
var (
	BoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(ColorBorder).Padding(0, 1)

	HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)

	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(ColorPrimary).Padding(0, 2)

	StatusConnected    = lipgloss.NewStyle().Foreground(ColorSecondary).Bold(true)
	StatusDisconnected = lipgloss.NewStyle().Foreground(ColorDanger).Bold(true)

	PositiveValue = lipgloss.NewStyle().Foreground(ColorSecondary)
	NegativeValue = lipgloss.NewStyle().Foreground(ColorDanger)
	WarningValue  = lipgloss.NewStyle().Foreground(ColorWarning)
	MutedValue    = lipgloss.NewStyle().Foreground(ColorMuted)
	InfoValue     = lipgloss.NewStyle().Foreground(ColorInfo)

	// ErrorTag renders the per-code tag in the error panel.
	ErrorTag = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(ColorDanger).Padding(0, 1)

	HelpStyle = lipgloss.NewStyle().Foreground(ColorMuted).Padding(0, 1)
)
