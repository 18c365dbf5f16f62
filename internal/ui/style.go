package ui

import (
	"github.com/charmbracelet/lipgloss"

	"taskpad/internal/task"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	statNumStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7c6cff"))
	tabStyle     = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("245"))
	activeTab    = lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(lipgloss.Color("255")).Background(lipgloss.Color("#7c6cff"))
	cursorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7c6cff"))
	doneStyle    = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("243"))
	overdueStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff4d4d"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4d4d"))
	labelStyle   = lipgloss.NewStyle().Width(12)
	focusedLabel = labelStyle.Bold(true).Foreground(lipgloss.Color("#7c6cff"))
	modalStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#7c6cff")).Padding(1, 2)
	dangerModal  = modalStyle.BorderForeground(lipgloss.Color("#ff4d4d"))
	emptyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Padding(1, 2)
	statusStyle  = lipgloss.NewStyle().Italic(true)
	helpStyle    = lipgloss.NewStyle().Faint(true)
)

func priorityStyle(p task.Priority) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(p.Color()))
}

func priorityBar(p task.Priority) string {
	return priorityStyle(p).Render("▌")
}

func priorityBadge(p task.Priority) string {
	return priorityStyle(p).Render("[" + p.Label() + "]")
}
