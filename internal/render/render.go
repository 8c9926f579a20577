// SPDX-License-Identifier: MPL-2.0

package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
	"mvdan.cc/sh/v3/syntax"

	"github.com/modgraph/modgraph/pkg/resolve"
)

// Render writes plan to w in the given format.
func Render(w io.Writer, plan *resolve.Plan, format Format) error {
	if ok, errs := format.IsValid(); !ok {
		return errs[0]
	}
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(NewDocument(plan))
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(NewDocument(plan)); err != nil {
			return err
		}
		return enc.Close()
	case FormatTOML:
		return toml.NewEncoder(w).SetIndentTables(true).Encode(NewDocument(plan))
	case FormatFlags:
		return renderFlags(w, plan)
	default:
		_, err := io.WriteString(w, Text(plan))
		return err
	}
}

// Text returns the styled report: a module table followed by diagnostics.
func Text(plan *resolve.Plan) string {
	var sb strings.Builder
	doc := NewDocument(plan)

	sb.WriteString(TitleStyle.Render("Resolution plan for " + doc.Platform))
	sb.WriteString("\n")
	sb.WriteString(SubtitleStyle.Render(summaryLine(doc.Summary)))
	sb.WriteString("\n\n")

	if len(doc.Modules) > 0 {
		sb.WriteString(moduleTable(doc.Modules))
		sb.WriteString("\n")
	}

	if len(doc.BuildOrder) > 0 {
		sb.WriteString("\n")
		sb.WriteString(SubtitleStyle.Render("Build order: "))
		sb.WriteString(strings.Join(doc.BuildOrder, " → "))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(Diagnostics(plan.Diagnostics))
	return sb.String()
}

// Diagnostics returns the styled diagnostic list of a report.
func Diagnostics(report *resolve.Report) string {
	if report.Len() == 0 {
		return SuccessStyle.Render("✓ No problems found") + "\n"
	}
	var sb strings.Builder
	for _, d := range report.All() {
		sev := string(d.Severity)
		fmt.Fprintf(&sb, "%s %s %s: %s\n",
			severityStyle(sev).Render(severityMark(sev)),
			moduleStyle.Render(string(d.Module)),
			severityStyle(sev).Render(string(d.Kind)),
			d.Detail,
		)
		if d.Path != "" {
			fmt.Fprintf(&sb, "    %s %s\n", SubtitleStyle.Render("path:"), PathStyle.Render(d.Path))
		}
	}
	fmt.Fprintf(&sb, "\n%s\n", SubtitleStyle.Render("Run 'modgraph explain <kind>' for help on a diagnostic."))
	return sb.String()
}

func moduleTable(mods []ModuleDoc) string {
	rows := make([][]string, 0, len(mods))
	for _, m := range mods {
		name := m.Name
		if m.Cyclic {
			name += " (cyclic)"
		}
		rows = append(rows, []string{
			name,
			strings.Join(m.IncludePaths, "\n"),
			strings.Join(m.LinkModules, ", "),
			m.PCHUsage,
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(SubtitleStyle).
		Headers("MODULE", "INCLUDE PATHS", "LINKS", "PCH").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0 && mods[row].Cyclic:
				return cellStyle.Foreground(ColorWarning)
			case col == 0:
				return cellStyle.Bold(true).Foreground(ColorPrimary)
			case col == 1:
				return cellStyle.Foreground(ColorHighlight)
			default:
				return cellStyle
			}
		})
	return t.String()
}

func summaryLine(s Summary) string {
	return fmt.Sprintf("%d modules, %d cyclic, %d errors, %d warnings", s.Modules, s.Cyclic, s.Errors, s.Warnings)
}

func severityMark(severity string) string {
	if severity == "error" {
		return "✗"
	}
	return "!"
}

// renderFlags writes one include and one link variable per module:
//
//	Player_INCLUDES := -IPlayer/Public -IPlayer/Private -ICore/Public
//	Player_LINK := Core
//
// Paths are shell-quoted when they need it.
func renderFlags(w io.Writer, plan *resolve.Plan) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# modgraph plan for %s\n", plan.Platform)
	for _, m := range plan.Modules {
		incs := make([]string, 0, len(m.IncludePaths))
		for _, p := range m.IncludePaths {
			q, err := quote("-I" + p)
			if err != nil {
				return fmt.Errorf("module %s: %w", m.Name, err)
			}
			incs = append(incs, q)
		}
		fmt.Fprintf(&sb, "%s_INCLUDES := %s\n", m.Name, strings.Join(incs, " "))
		fmt.Fprintf(&sb, "%s_LINK := %s\n", m.Name, strings.Join(names(m.LinkModules), " "))
		if m.PCHUsage != "" {
			fmt.Fprintf(&sb, "%s_PCH := %s\n", m.Name, m.PCHUsage)
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func quote(s string) (string, error) {
	q, err := syntax.Quote(s, syntax.LangPOSIX)
	if err != nil {
		return "", fmt.Errorf("cannot quote %q: %w", s, err)
	}
	return q, nil
}
