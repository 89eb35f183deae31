package tui

import "github.com/charmbracelet/lipgloss"

// Colors
var (
	colorPrimary = lipgloss.Color("39")  // Blue
	colorSuccess = lipgloss.Color("42")  // Green
	colorWarning = lipgloss.Color("214") // Orange
	colorError   = lipgloss.Color("196") // Red
	colorMuted   = lipgloss.Color("240") // Dark gray
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			MarginBottom(1)

	statusDone = lipgloss.NewStyle().
			Foreground(colorSuccess).
			SetString("✓")

	statusRunning = lipgloss.NewStyle().
			Foreground(colorWarning).
			SetString("●")

	statusError = lipgloss.NewStyle().
			Foreground(colorError).
			SetString("✗")

	statusCanceled = lipgloss.NewStyle().
			Foreground(colorMuted).
			SetString("⊘")

	statusQueued = lipgloss.NewStyle().
			Foreground(colorMuted).
			SetString("○")

	selectedItemStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorPrimary)

	normalItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	mutedItemStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			MarginTop(1)

	errStyle = lipgloss.NewStyle().
			Foreground(colorError)
)

// statusIcon returns the icon for a job status string.
func statusIcon(status string) string {
	switch status {
	case "done":
		return statusDone.String()
	case "running":
		return statusRunning.String()
	case "error":
		return statusError.String()
	case "canceled":
		return statusCanceled.String()
	default:
		return statusQueued.String()
	}
}
