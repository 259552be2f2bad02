// Package tui provides Bubble Tea TUI components for the htmlview CLI.
//
// TUI mode is used only by the watch command; every other command renders
// through cli/render. The watch TUI shows the same session data the
// non-TUI output would.
package tui

import "github.com/charmbracelet/lipgloss"

// Color palette.
var (
	primaryColor   = lipgloss.Color("#7C3AED") // Purple
	successColor   = lipgloss.Color("#10B981") // Green
	warningColor   = lipgloss.Color("#F59E0B") // Amber
	errorColor     = lipgloss.Color("#EF4444") // Red
	mutedColor     = lipgloss.Color("#6B7280") // Gray
	highlightColor = lipgloss.Color("#3B82F6") // Blue
)

// Styles for TUI components.
var (
	// TitleStyle for headers and titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	// LabelStyle for field labels.
	LabelStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Width(14)

	// ValueStyle for field values.
	ValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	// SuccessStyle for clean session outcomes.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(successColor)

	// WarningStyle for timed-out sessions.
	WarningStyle = lipgloss.NewStyle().
			Foreground(warningColor)

	// ErrorStyle for failed sessions.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	// RunningStyle for live sessions.
	RunningStyle = lipgloss.NewStyle().
			Foreground(highlightColor)

	// BoxStyle for bordered containers.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor).
			Padding(1, 2)

	// HelpStyle for help text.
	HelpStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			MarginTop(1)
)

// ReasonStyle returns a style for a session state or exit reason.
func ReasonStyle(state string) lipgloss.Style {
	switch state {
	case "closed_by_user":
		return SuccessStyle
	case "timed_out":
		return WarningStyle
	case "error":
		return ErrorStyle
	case "running", "watching":
		return RunningStyle
	default:
		return ValueStyle
	}
}
