package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/opsdash/internal/domain"
)

// Colors
var (
	ColorPrimary = lipgloss.Color("#7D56F4")
	ColorAccent  = lipgloss.Color("#F25D94")
	ColorSuccess = lipgloss.Color("#04B575")
	ColorWarning = lipgloss.Color("#FFB347")
	ColorDanger  = lipgloss.Color("#FF4672")
	ColorInfo    = lipgloss.Color("#3C9DF0")
	ColorMuted   = lipgloss.Color("#7A7A7A")
	ColorBorder  = lipgloss.Color("#3F3F46")
)

// Base styles
var (
	AppStyle = lipgloss.NewStyle().Padding(1, 2)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(ColorPrimary).
			Padding(0, 1)

	SubtitleStyle = lipgloss.NewStyle().Foreground(ColorMuted)

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	ActivePanelStyle = PanelStyle.BorderForeground(ColorPrimary)

	LabelStyle        = lipgloss.NewStyle().Foreground(ColorMuted)
	ValueStyle        = lipgloss.NewStyle().Bold(true)
	TotalStyle        = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	CurrentQuarterTag = lipgloss.NewStyle().Bold(true).Foreground(ColorSuccess)
	FutureQuarterTag  = lipgloss.NewStyle().Foreground(ColorMuted)

	HelpKeyStyle  = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	HelpDescStyle = lipgloss.NewStyle().Foreground(ColorMuted)
	ErrorStyle    = lipgloss.NewStyle().Foreground(ColorDanger).Bold(true)
)

// AlertStyle colors an alert by level
func AlertStyle(level domain.AlertLevel) lipgloss.Style {
	switch level {
	case domain.AlertCritical:
		return lipgloss.NewStyle().Foreground(ColorDanger).Bold(true)
	case domain.AlertWarning:
		return lipgloss.NewStyle().Foreground(ColorWarning)
	default:
		return lipgloss.NewStyle().Foreground(ColorInfo)
	}
}
