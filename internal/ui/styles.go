// Package ui renders wallet output and collects user input: styled text,
// tables, spinners and prompts.
package ui

import "github.com/charmbracelet/lipgloss"

// Palette.
var (
	colorSuccess = lipgloss.Color("#8BC34A")
	colorWarning = lipgloss.Color("#FFC107")
	colorInfo    = lipgloss.Color("#00BCD4")
	colorError   = lipgloss.Color("#E53935")
	colorMuted   = lipgloss.Color("#6C7A89")
	colorAccent  = lipgloss.Color("#9945FF")
)

// Styles holds the text styles used for console output.
type Styles struct {
	Success  lipgloss.Style
	Warning  lipgloss.Style
	Info     lipgloss.Style
	Error    lipgloss.Style
	Heading  lipgloss.Style
	Muted    lipgloss.Style
	Selected lipgloss.Style
	Border   lipgloss.Style
	Header   lipgloss.Style
	Cell     lipgloss.Style
}

// NewStyles returns the color styles, or plain styles when color is false.
func NewStyles(color bool) Styles {
	if !color {
		plain := lipgloss.NewStyle()
		return Styles{
			Success:  plain,
			Warning:  plain,
			Info:     plain,
			Error:    plain,
			Heading:  plain,
			Muted:    plain,
			Selected: plain,
			Border:   plain,
			Header:   plain.Padding(0, 1),
			Cell:     plain.Padding(0, 1),
		}
	}
	return Styles{
		Success:  lipgloss.NewStyle().Foreground(colorSuccess).Bold(true),
		Warning:  lipgloss.NewStyle().Foreground(colorWarning),
		Info:     lipgloss.NewStyle().Foreground(colorInfo),
		Error:    lipgloss.NewStyle().Foreground(colorError).Bold(true),
		Heading:  lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Underline(true),
		Muted:    lipgloss.NewStyle().Foreground(colorMuted),
		Selected: lipgloss.NewStyle().Foreground(colorAccent).Bold(true),
		Border:   lipgloss.NewStyle().Foreground(colorMuted),
		Header:   lipgloss.NewStyle().Bold(true).Padding(0, 1),
		Cell:     lipgloss.NewStyle().Padding(0, 1),
	}
}
