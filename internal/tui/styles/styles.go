// Package styles provides consistent styling for the TUI
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	Primary    = lipgloss.Color("#7C3AED")
	Secondary  = lipgloss.Color("#10B981")
	Warning    = lipgloss.Color("#F59E0B")
	Error      = lipgloss.Color("#EF4444")
	MutedColor = lipgloss.Color("#6B7280")
	White      = lipgloss.Color("#FFFFFF")

	// Muted text style
	Muted = lipgloss.NewStyle().Foreground(MutedColor)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		MarginBottom(1)

	Box = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Primary).
		Padding(1, 2)

	StatusOK = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	StatusError = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	PhaseActive = lipgloss.NewStyle().
			Foreground(White).
			Bold(true)

	PhaseDone = lipgloss.NewStyle().
			Foreground(Secondary)

	PhasePending = lipgloss.NewStyle().
			Foreground(MutedColor)

	ProgressFilled = lipgloss.NewStyle().Foreground(Primary)
	ProgressEmpty  = lipgloss.NewStyle().Foreground(MutedColor)

	// Help text
	Help = lipgloss.NewStyle().
		Foreground(MutedColor).
		Italic(true)
)
