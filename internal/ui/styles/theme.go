package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/fenilsonani/reclaim/pkg/utils"
)

// Palette. Each color has a variant for light and dark terminals.
var (
	Primary   = lipgloss.AdaptiveColor{Light: "#5B21B6", Dark: "#8B5CF6"}
	Secondary = lipgloss.AdaptiveColor{Light: "#7C3AED", Dark: "#C4B5FD"}
	Success   = lipgloss.AdaptiveColor{Light: "#047857", Dark: "#34D399"}
	Warning   = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#FBBF24"}
	Danger    = lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#F87171"}
	Info      = lipgloss.AdaptiveColor{Light: "#1D4ED8", Dark: "#60A5FA"}
	Muted     = lipgloss.AdaptiveColor{Light: "#4B5563", Dark: "#6B7280"}
	TextDim   = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
	Border    = lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: "#4B5563"}
)

// Common styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary)

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(0, 1)

	DangerPanelStyle = PanelStyle.
				BorderForeground(Danger)

	FilePathStyle = lipgloss.NewStyle().
			Foreground(Info)

	FileSizeStyle = lipgloss.NewStyle().
			Foreground(Warning)

	CategoryStyle = lipgloss.NewStyle().
			Foreground(Secondary).
			Italic(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Danger).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Success).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true)

	HelpStyle = lipgloss.NewStyle().
			Foreground(TextDim).
			Italic(true)

	DimStyle = lipgloss.NewStyle().
			Foreground(Muted)

	BoldStyle = lipgloss.NewStyle().
			Bold(true)

	HighlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F9FAFB")).
			Background(Primary).
			Bold(true)
)

// Size renders a byte count in the size color
func Size(bytes int64) string {
	return FileSizeStyle.Render(utils.FormatBytes(bytes))
}

// ReportOnlyBadge marks entries that select-all leaves alone
func ReportOnlyBadge() string {
	return DimStyle.Render("[review]")
}
