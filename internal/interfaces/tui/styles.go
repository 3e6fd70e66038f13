package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jhoicas/taller-dashboard/internal/domain/entity"
)

var (
	primaryColor = lipgloss.Color("#7D56F4")
	successColor = lipgloss.Color("#04B575")
	warningColor = lipgloss.Color("#FFB86C")
	errorColor   = lipgloss.Color("#FF5F87")
	mutedColor   = lipgloss.Color("#626262")

	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(primaryColor)
	subtitleStyle = lipgloss.NewStyle().Foreground(mutedColor)
	helpStyle     = lipgloss.NewStyle().Foreground(mutedColor).Italic(true)
	errorStyle    = lipgloss.NewStyle().Foreground(errorColor)
	successStyle  = lipgloss.NewStyle().Foreground(successColor)
	warningStyle  = lipgloss.NewStyle().Foreground(warningColor)

	tabStyle       = lipgloss.NewStyle().Padding(0, 2).Foreground(mutedColor)
	activeTabStyle = lipgloss.NewStyle().Padding(0, 2).Bold(true).Foreground(primaryColor).Underline(true)

	cardStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(mutedColor).Padding(0, 1)
	modalStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(primaryColor).Padding(1, 2)
)

// statusBadge pinta el estado de pago con su color.
func statusBadge(status string) string {
	switch status {
	case entity.InvoiceStatusPaid:
		return successStyle.Render(status)
	case entity.InvoiceStatusPartial:
		return warningStyle.Render(status)
	case entity.InvoiceStatusUnpaid:
		return errorStyle.Render(status)
	default:
		return status
	}
}
