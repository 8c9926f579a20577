// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/modgraph/modgraph/internal/issue"
)

func newExplainCommand() *cobra.Command {
	var style string
	cmd := &cobra.Command{
		Use:   "explain [kind]",
		Short: "Explain a diagnostic kind or error",
		Long: `Explain a diagnostic kind or error.

Without an argument, lists every topic. Kinds are accepted in any spelling:
cyclic_dependency, CyclicDependency and cyclic-dependency are the same.`,
		Args: cobra.MaximumNArgs(1),
		ValidArgsFunction: func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return issue.Slugs(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				fmt.Fprintln(out, TitleStyle.Render("Topics"))
				for _, i := range issue.Values() {
					fmt.Fprintf(out, "  %-24s %s\n", CmdStyle.Render(i.Slug()), SubtitleStyle.Render(i.Title()))
				}
				return nil
			}

			i, ok := issue.Lookup(args[0])
			if !ok {
				return issue.NewErrorContext().
					WithOperation("explain").
					WithResource(args[0]).
					WithSuggestion("Known topics: " + strings.Join(issue.Slugs(), ", ")).
					Wrap(fmt.Errorf("unknown topic %q", args[0])).
					BuildError()
			}
			text, err := i.Render(style)
			if err != nil {
				return fmt.Errorf("failed to render help: %w", err)
			}
			fmt.Fprint(out, text)
			return nil
		},
	}
	cmd.Flags().StringVar(&style, "style", "auto", "glamour style: auto, dark, light, notty, ascii")
	return cmd
}
