// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/modgraph/modgraph/internal/render"
	"github.com/modgraph/modgraph/pkg/resolve"
)

func newCheckCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	var (
		platformName string
		strict       bool
	)
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Resolve and report diagnostics; exit 1 on errors",
		Long: `Resolve the project and print only the diagnostics.

Exits with status 1 when any error is reported (missing directory, unknown
module, dependency cycle). Path conflicts are warnings; --strict makes them
fail the check too.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := app.session(cmd.Context(), rootFlags, platformName)
			if err != nil {
				return err
			}
			plan, err := app.resolve(cmd.Context(), s)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			report := plan.Diagnostics
			fmt.Fprintf(out, "%s\n\n", TitleStyle.Render(fmt.Sprintf("Checked %d modules for %s", len(plan.Modules), plan.Platform)))
			fmt.Fprint(out, render.Diagnostics(report))

			if report.HasErrors() || (strict && report.Count(resolve.SeverityWarning) > 0) {
				return &ExitError{Code: ExitProblems}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&platformName, "platform", "p", "", "target platform (default from config, then the host)")
	cmd.Flags().BoolVar(&strict, "strict", false, "treat warnings as errors")
	return cmd
}
