package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var priorityColors = map[string]lipgloss.Color{
	"high":   lipgloss.Color("9"),
	"medium": lipgloss.Color("11"),
	"low":    lipgloss.Color("10"),
}

var categoryColors = map[string]lipgloss.Color{
	"work":     lipgloss.Color("33"),
	"personal": lipgloss.Color("135"),
	"study":    lipgloss.Color("39"),
	"health":   lipgloss.Color("42"),
	"errands":  lipgloss.Color("214"),
	"finance":  lipgloss.Color("178"),
	"other":    lipgloss.Color("245"),
}

// PriorityBadge renders "[HIGH]" and friends in the priority color.
func PriorityBadge(priority string) string {
	if priority == "" {
		return ""
	}
	style := lipgloss.NewStyle().Bold(true)
	if c, ok := priorityColors[priority]; ok {
		style = style.Foreground(c)
	}
	return style.Render("[" + strings.ToUpper(priority) + "]")
}

func CategoryBadge(category string) string {
	if category == "" {
		return ""
	}
	style := lipgloss.NewStyle()
	if c, ok := categoryColors[category]; ok {
		style = style.Foreground(c)
	}
	return style.Render("#" + category)
}
