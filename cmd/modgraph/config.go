// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/modgraph/modgraph/internal/config"
)

// newConfigCommand creates the `modgraph config` command tree.
func newConfigCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect modgraph configuration",
		Long: `Inspect modgraph configuration.

Configuration is read from the first of:
  - the --config file
  - <project>/modgraph.cue
  - the user config file (~/.config/modgraph/config.cue on Linux)

MODGRAPH_* environment variables override file values.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := app.session(cmd.Context(), rootFlags, "")
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if s.cfg.Source != "" {
				fmt.Fprintf(out, "// source: %s\n", s.cfg.Source)
			} else {
				fmt.Fprintln(out, "// source: defaults")
			}
			fmt.Fprint(out, config.GenerateCUE(s.cfg))
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the user configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, err := config.ConfigDir()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), filepath.Join(dir, config.ConfigFileName+"."+config.ConfigFileExt))
			return nil
		},
	})
	return cfgCmd
}
