// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/modgraph/modgraph/internal/issue"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// newRootCommand builds the command tree for app.
func newRootCommand(app *App) *cobra.Command {
	flags := &rootFlagValues{}

	root := &cobra.Command{
		Use:   "modgraph",
		Short: "Resolve include paths and link sets of modular C++ projects",
		Long: TitleStyle.Render("modgraph") + SubtitleStyle.Render(" - module descriptor resolution") + `

modgraph reads module descriptors (*.module.cue, *.module.toml,
*.module.yaml), builds the dependency graph, and computes for every module
the include directories it may see and the modules it must link, for one
target platform.

` + SubtitleStyle.Render("Examples:") + `
  modgraph plan                       Resolve for the host platform
  modgraph plan --platform Win64      Resolve for Windows
  modgraph plan --format flags        Emit Makefile variables
  modgraph check                      Fail when the plan has errors
  modgraph explain cyclic_dependency  Explain a diagnostic`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default <project>/modgraph.cue, then the user config dir)")
	root.PersistentFlags().StringVarP(&flags.projectDir, "project", "C", "", "project root (default is the working directory)")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging and verbose errors")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(
		newPlanCommand(app, flags),
		newCheckCommand(app, flags),
		newGraphCommand(app, flags),
		newExplainCommand(),
		newConfigCommand(app, flags),
	)
	return root
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Run executes the CLI with args and returns the process exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	root := newRootCommand(a)
	root.SetArgs(args)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	verbose := func() bool {
		v, _ := root.PersistentFlags().GetBool("verbose")
		return v
	}

	err := fang.Execute(ctx, root,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(func(w io.Writer, styles fang.Styles, err error) {
			handleError(w, styles, err, verbose())
		}),
	)
	if err == nil {
		return ExitOK
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// handleError prints actionable errors with their suggestions and leaves
// everything else to fang. Silent exit errors print nothing.
func handleError(w io.Writer, styles fang.Styles, err error, verbose bool) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err == nil {
		return
	}
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		fmt.Fprintln(w, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose))
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}

// formatErrorForDisplay renders every ActionableError in err with its
// suggestions. Joined errors are listed one per paragraph.
func formatErrorForDisplay(err error, verbose bool) string {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out string
		for i, e := range joined.Unwrap() {
			if i > 0 {
				out += "\n\n"
			}
			out += formatErrorForDisplay(e, verbose)
		}
		return out
	}
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}

// Main runs the CLI with the process arguments and returns the exit code.
func Main() int {
	app, err := NewApp(Dependencies{})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return ExitFailure
	}
	return app.Run(context.Background(), os.Args[1:])
}

// Execute runs the CLI and exits the process.
func Execute() {
	os.Exit(Main())
}
