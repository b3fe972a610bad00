// Package style holds the lipgloss styles shared by the terminal screens.
package style

import (
	"github.com/charmbracelet/lipgloss"

	"example.com/notesin/internal/notify"
)

var (
	Accent = lipgloss.Color("#780000")
	Muted  = lipgloss.Color("245")
	Faint  = lipgloss.Color("238")
	Good   = lipgloss.Color("#25b067")
	Bad    = lipgloss.Color("#d7263d")
)

var (
	Title     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	Highlight = lipgloss.NewStyle().Bold(true).Foreground(Accent)
	Dim       = lipgloss.NewStyle().Foreground(Muted)
	Hint      = lipgloss.NewStyle().Foreground(Faint)
	FieldErr  = lipgloss.NewStyle().Foreground(Bad)

	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(1, 3)

	Modal = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Accent).
		Padding(1, 2)

	successLine = lipgloss.NewStyle().Foreground(Good)
	failureLine = lipgloss.NewStyle().Foreground(Bad)
	invalidLine = lipgloss.NewStyle().Foreground(lipgloss.Color("#e3a008"))
)

// Notice renders a notification as a single status line.
func Notice(n notify.Notice) string {
	if n.Message == "" {
		return ""
	}
	switch n.Kind {
	case notify.Success:
		return successLine.Render("✓ " + n.String())
	case notify.Invalid:
		return invalidLine.Render("! " + n.String())
	default:
		return failureLine.Render("✗ " + n.String())
	}
}
