// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/modgraph/modgraph/internal/render"
)

// CLI styles share the report palette.
var (
	// TitleStyle is for primary headers and section titles.
	TitleStyle = render.TitleStyle
	// SubtitleStyle is for secondary headers and descriptions.
	SubtitleStyle = render.SubtitleStyle
	// SuccessStyle is for success messages.
	SuccessStyle = render.SuccessStyle
	// ErrorStyle is for error messages.
	ErrorStyle = render.ErrorStyle
	// WarningStyle is for warnings.
	WarningStyle = render.WarningStyle
	// CmdStyle is for command names and slugs.
	CmdStyle = lipgloss.NewStyle().Foreground(render.ColorHighlight)
)
