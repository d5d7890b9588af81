package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorBrand  = lipgloss.Color("#8b5cf6")
	colorMuted  = lipgloss.Color("#6b7280")
	colorText   = lipgloss.Color("#e5e7eb")
	colorBorder = lipgloss.Color("#374151")

	tabStyle       = lipgloss.NewStyle().Foreground(colorMuted)
	activeTabStyle = lipgloss.NewStyle().Foreground(colorText).Background(colorBrand).Bold(true)

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorText)
	heroStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorBrand)
	dimStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444"))

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)

	planStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1).
			Width(28)

	toastStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Background(lipgloss.Color("#1f2937")).
			Padding(0, 1)
)

// regionLabel styles a region label by its interaction state.
func regionLabel(color string, hovered, rippling bool) lipgloss.Style {
	s := lipgloss.NewStyle().Foreground(lipgloss.Color(color))
	if hovered {
		s = s.Bold(true).Underline(true)
	}
	if rippling {
		s = s.Reverse(true).Bold(true)
	}
	return s
}
