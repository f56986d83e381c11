package view

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	creditStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	debitStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)
