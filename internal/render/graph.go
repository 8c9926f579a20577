// SPDX-License-Identifier: MPL-2.0

package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/modgraph/modgraph/pkg/resolve"
)

// RenderGraph writes the dependency edges of every module, the cycles, and
// the build order.
func RenderGraph(w io.Writer, plan *resolve.Plan) error {
	var sb strings.Builder
	sb.WriteString(TitleStyle.Render("Dependency graph"))
	sb.WriteString("\n\n")

	for _, m := range plan.Modules {
		name := moduleStyle.Render(string(m.Name))
		if m.Cyclic {
			name += " " + WarningStyle.Render("(cyclic)")
		}
		sb.WriteString(name)
		sb.WriteString("\n")
		edges := plan.Graph.Edges(m.Name)
		for i, e := range edges {
			branch := "├──"
			if i == len(edges)-1 {
				branch = "└──"
			}
			fmt.Fprintf(&sb, "  %s %s %s\n", SubtitleStyle.Render(branch), e.To, SubtitleStyle.Render("("+e.Visibility.String()+")"))
		}
	}

	if cycles := plan.Graph.Cycles(); len(cycles) > 0 {
		sb.WriteString("\n")
		sb.WriteString(WarningStyle.Render("Cycles:"))
		sb.WriteString("\n")
		for _, c := range cycles {
			fmt.Fprintf(&sb, "  %s\n", strings.Join(names(c), " -> "))
		}
	}

	sb.WriteString("\n")
	sb.WriteString(SubtitleStyle.Render("Build order:"))
	sb.WriteString("\n")
	for i, n := range plan.BuildOrder {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, n)
	}

	_, err := io.WriteString(w, sb.String())
	return err
}
