// SPDX-License-Identifier: MPL-2.0

package render

import "github.com/charmbracelet/lipgloss"

// Color palette shared by every styled report.
const (
	// ColorPrimary is purple, used for titles and module names.
	ColorPrimary = lipgloss.Color("#7C3AED")
	// ColorMuted is gray, used for labels and secondary text.
	ColorMuted = lipgloss.Color("#6B7280")
	// ColorSuccess is green.
	ColorSuccess = lipgloss.Color("#10B981")
	// ColorError is red.
	ColorError = lipgloss.Color("#EF4444")
	// ColorWarning is amber.
	ColorWarning = lipgloss.Color("#F59E0B")
	// ColorHighlight is blue, used for paths and commands.
	ColorHighlight = lipgloss.Color("#3B82F6")
)

var (
	// TitleStyle is for report titles.
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	// SubtitleStyle is for labels and summaries.
	SubtitleStyle = lipgloss.NewStyle().Foreground(ColorMuted)
	// SuccessStyle marks a clean result.
	SuccessStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	// ErrorStyle marks error diagnostics.
	ErrorStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorError)
	// WarningStyle marks warning diagnostics and cyclic modules.
	WarningStyle = lipgloss.NewStyle().Foreground(ColorWarning)
	// PathStyle is for filesystem paths.
	PathStyle = lipgloss.NewStyle().Foreground(ColorHighlight)

	moduleStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorMuted).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// severityStyle returns the style for a severity name.
func severityStyle(severity string) lipgloss.Style {
	if severity == "error" {
		return ErrorStyle
	}
	return WarningStyle
}
