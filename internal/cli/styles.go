// Package cli provides styled terminal output using lipgloss.
package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nivke/invoiceflow/internal/model"
)

var (
	// PrimaryColor is the main theme color.
	PrimaryColor = lipgloss.Color("#5B8DEF")
	// SuccessColor indicates successful operations.
	SuccessColor = lipgloss.Color("#4ECDC4")
	// WarningColor indicates warnings or caution messages.
	WarningColor = lipgloss.Color("#FFE66D")
	// ErrorColor indicates errors or failure messages.
	ErrorColor = lipgloss.Color("#FF6B6B")
	// InfoColor indicates informational messages.
	InfoColor = lipgloss.Color("#95E1D3")
	// SubtleColor indicates less prominent UI elements.
	SubtleColor = lipgloss.Color("#666666")

	// TitleStyle is used for section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			MarginBottom(1)

	// SuccessStyle formats success messages.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor)

	// WarningStyle formats warning messages.
	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor)

	// ErrorStyle formats error messages.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor)

	// InfoStyle formats informational messages.
	InfoStyle = lipgloss.NewStyle().
			Foreground(InfoColor)

	// SubtleStyle formats less prominent text.
	SubtleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	// BoldStyle makes text bold.
	BoldStyle = lipgloss.NewStyle().
			Bold(true)

	// TableHeaderStyle is used for table headers.
	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				BorderStyle(lipgloss.NormalBorder()).
				BorderBottom(true).
				BorderForeground(lipgloss.Color("#333"))
)

// statusColors maps each invoice status to its display color.
var statusColors = map[model.Status]lipgloss.Color{
	model.StatusPending:   lipgloss.Color("#F59E0B"), // amber
	model.StatusWarning:   lipgloss.Color("#F97316"), // orange
	model.StatusProcessed: lipgloss.Color("#22C55E"), // green
	model.StatusCancelled: lipgloss.Color("#EF4444"), // red
}

// StatusStyle returns the style for an invoice status badge.
func StatusStyle(status model.Status) lipgloss.Style {
	color, ok := statusColors[status]
	if !ok {
		color = SubtleColor
	}
	return lipgloss.NewStyle().Foreground(color)
}

// labelPalette is the fixed palette labels hash into. Sixteen entries, so a
// given label name maps to the same color everywhere.
var labelPalette = []lipgloss.Color{
	lipgloss.Color("#3B82F6"), // blue
	lipgloss.Color("#22C55E"), // green
	lipgloss.Color("#F59E0B"), // amber
	lipgloss.Color("#EF4444"), // red
	lipgloss.Color("#A855F7"), // purple
	lipgloss.Color("#EC4899"), // pink
	lipgloss.Color("#6366F1"), // indigo
	lipgloss.Color("#14B8A6"), // teal
	lipgloss.Color("#F97316"), // orange
	lipgloss.Color("#06B6D4"), // cyan
	lipgloss.Color("#84CC16"), // lime
	lipgloss.Color("#8B5CF6"), // violet
	lipgloss.Color("#D946EF"), // fuchsia
	lipgloss.Color("#F43F5E"), // rose
	lipgloss.Color("#0EA5E9"), // sky
	lipgloss.Color("#10B981"), // emerald
}

// LabelColor returns the stable display color for a label name: the name is
// hashed (h = ch + (h<<5) - h per character) into the fixed palette, so the
// same label renders the same color everywhere without persistence.
func LabelColor(label string) lipgloss.Color {
	if label == "" {
		return labelPalette[0]
	}
	var hash int32
	for _, ch := range label {
		hash = ch + (hash << 5) - hash
	}
	if hash < 0 {
		hash = -hash
	}
	return labelPalette[int(hash)%len(labelPalette)]
}

// LabelStyle returns the badge style for a label name.
func LabelStyle(label string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(LabelColor(label))
}

// Icons.
const (
	SuccessIcon = "✓"
	ErrorIcon   = "✗"
	WarningIcon = "⚠"
	InfoIcon    = "ℹ"
)

// FormatSuccess formats a success message with icon.
func FormatSuccess(message string) string {
	return SuccessStyle.Render(SuccessIcon + " " + message)
}

// FormatError formats an error message with icon.
func FormatError(message string) string {
	return ErrorStyle.Render(ErrorIcon + " " + message)
}

// FormatWarning formats a warning message with icon.
func FormatWarning(message string) string {
	return WarningStyle.Render(WarningIcon + " " + message)
}

// FormatInfo formats an info message with icon.
func FormatInfo(message string) string {
	return InfoStyle.Render(InfoIcon + " " + message)
}

// FormatTitle formats a title.
func FormatTitle(title string) string {
	return TitleStyle.Render(title)
}
