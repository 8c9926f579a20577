// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/modgraph/modgraph/internal/render"
)

func newGraphCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	var platformName string
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Print dependency edges, cycles and build order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := app.session(cmd.Context(), rootFlags, platformName)
			if err != nil {
				return err
			}
			plan, err := app.resolve(cmd.Context(), s)
			if err != nil {
				return err
			}
			return render.RenderGraph(cmd.OutOrStdout(), plan)
		},
	}
	cmd.Flags().StringVarP(&platformName, "platform", "p", "", "target platform (default from config, then the host)")
	return cmd
}
