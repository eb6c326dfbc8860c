package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	clinicianTag  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")).Render("you")
	agentTag      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13")).Render("guardian")
	noticeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Italic(true)
	degradedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	statusStyle   = lipgloss.NewStyle().Faint(true)
)
