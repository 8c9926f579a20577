// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/thediveo/enumflag/v2"

	"github.com/modgraph/modgraph/internal/issue"
	"github.com/modgraph/modgraph/internal/loader"
	"github.com/modgraph/modgraph/internal/render"
	"github.com/modgraph/modgraph/internal/watch"
)

// formatFlag is the enumflag form of render.Format.
type formatFlag enumflag.Flag

const (
	formatFromConfig formatFlag = iota
	formatText
	formatJSON
	formatYAML
	formatTOML
	formatFlags
)

var formatFlagIDs = map[formatFlag][]string{
	formatFromConfig: {""},
	formatText:       {string(render.FormatText)},
	formatJSON:       {string(render.FormatJSON)},
	formatYAML:       {string(render.FormatYAML), "yml"},
	formatTOML:       {string(render.FormatTOML)},
	formatFlags:      {string(render.FormatFlags), "make"},
}

type planFlagValues struct {
	platform    string
	format      formatFlag
	watch       bool
	clearScreen bool
}

func newPlanCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	flags := &planFlagValues{}
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Resolve include paths and link modules for every module",
		Long: `Resolve include paths and link modules for every module.

The plan lists, per module, its own public and private include directories
followed by the public directories of every dependency it can reach, nearest
first, and the modules it must link. Diagnostics are printed after the plan;
use 'modgraph check' to turn errors into a failing exit code.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPlan(cmd, app, rootFlags, flags)
		},
	}
	cmd.Flags().StringVarP(&flags.platform, "platform", "p", "", "target platform (default from config, then the host)")
	cmd.Flags().VarP(
		enumflag.New(&flags.format, "format", formatFlagIDs, enumflag.EnumCaseInsensitive),
		"format", "f", "output format: text, json, yaml, toml, flags")
	cmd.Flags().BoolVarP(&flags.watch, "watch", "w", false, "re-resolve whenever a descriptor or override file changes")
	cmd.Flags().BoolVar(&flags.clearScreen, "clear", false, "clear the screen before each pass in watch mode")
	return cmd
}

// outputFormat returns the flag value, or the configured default.
func outputFormat(f formatFlag, configured string) (render.Format, error) {
	if f == formatFromConfig {
		return render.ParseFormat(configured)
	}
	return render.ParseFormat(formatFlagIDs[f][0])
}

func runPlan(cmd *cobra.Command, app *App, rootFlags *rootFlagValues, flags *planFlagValues) error {
	ctx := cmd.Context()
	s, err := app.session(ctx, rootFlags, flags.platform)
	if err != nil {
		return err
	}
	format, err := outputFormat(flags.format, s.cfg.Output.Format)
	if err != nil {
		return err
	}

	pass := func(ctx context.Context) error {
		plan, err := app.resolve(ctx, s)
		if err != nil {
			return err
		}
		return render.Render(cmd.OutOrStdout(), plan, format)
	}

	if !flags.watch {
		return pass(ctx)
	}

	// A broken descriptor should not end a watch session.
	if err := pass(ctx); err != nil {
		kv := []any{"err", formatErrorForDisplay(err, rootFlags.verbose)}
		if is, ok := issue.TopicOf(err); ok {
			kv = append(kv, "topic", is.Slug())
		}
		app.logger.Error("resolution pass failed", kv...)
	}
	return watchProject(ctx, app, s, flags.clearScreen, func(ctx context.Context, changed []string) error {
		app.logger.Info("re-resolving", "changed", changed)
		return pass(ctx)
	})
}

// watchProject blocks until ctx is cancelled, calling onChange after every
// batch of relevant file changes.
func watchProject(ctx context.Context, app *App, s *session, clearScreen bool, onChange func(context.Context, []string) error) error {
	m, err := loader.NewMatcher(s.cfg.DescriptorGlobs, s.cfg.Exclude)
	if err != nil {
		return err
	}
	files := []string{s.cfg.OverridesFile, s.cfg.EnvFile}
	if s.cfg.Source != "" {
		files = append(files, s.cfg.Source)
	}

	w, err := watch.New(watch.Config{
		ProjectDir:  s.projectDir,
		Matcher:     m,
		Files:       files,
		ClearScreen: clearScreen,
		OnChange:    onChange,
		Out:         app.stdout,
		Logger:      app.logger,
	})
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	app.logger.Info("watching for changes", "dir", filepath.Base(s.projectDir))
	return w.Run(ctx)
}
