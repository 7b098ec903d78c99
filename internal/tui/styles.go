package tui

import "github.com/charmbracelet/lipgloss"

var (
	accent = lipgloss.AdaptiveColor{Light: "#5A4FCF", Dark: "#A89CFF"}
	subtle = lipgloss.AdaptiveColor{Light: "#8A8A8A", Dark: "#6C6C6C"}

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent)

	rowStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	cursorRowStyle = lipgloss.NewStyle().
			PaddingLeft(1).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(accent).
			Bold(true)

	scoreStyle = lipgloss.NewStyle().
			Foreground(accent)

	mutedStyle = lipgloss.NewStyle().
			Foreground(subtle)

	footerStyle = lipgloss.NewStyle().
			Foreground(subtle).
			PaddingTop(1)

	detailFrame = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Bold(true)
)
