package tui

import "github.com/charmbracelet/lipgloss"

var (
	primaryColor = lipgloss.Color("#F26B1D")
	accentColor  = lipgloss.Color("#2F7BD9")
	successColor = lipgloss.Color("#04B575")
	subtleColor  = lipgloss.Color("#888888")

	// Title styling
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	// Header styling for table columns
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentColor)

	// Current build marker
	CurrentStyle = lipgloss.NewStyle().
			Foreground(successColor).
			Bold(true)

	// Error styling
	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	// Subtle text styling
	SubtleStyle = lipgloss.NewStyle().
			Foreground(subtleColor)

	// Description styling
	DescStyle = lipgloss.NewStyle().
			Foreground(subtleColor).
			Italic(true)
)
