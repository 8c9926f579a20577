// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/modgraph/modgraph/internal/config"
	"github.com/modgraph/modgraph/internal/issue"
	"github.com/modgraph/modgraph/internal/loader"
	"github.com/modgraph/modgraph/pkg/platform"
	"github.com/modgraph/modgraph/pkg/resolve"
)

type (
	// App wires CLI services. Every command handler receives the App and
	// goes through it for configuration, loading and resolution.
	App struct {
		Config config.Provider
		Loader *loader.Loader
		logger *log.Logger
		stdout io.Writer
		stderr io.Writer
	}

	// Dependencies are the injection points of NewApp. Nil fields get
	// production defaults.
	Dependencies struct {
		Config config.Provider
		Stdout io.Writer
		Stderr io.Writer
	}

	// rootFlagValues holds the global flags.
	rootFlagValues struct {
		configPath string
		projectDir string
		verbose    bool
		logLevel   string
	}

	// session is the per-invocation state derived from flags and config.
	session struct {
		cfg        *config.Config
		projectDir string
		platform   platform.ID
	}
)

// NewApp creates an App with the given dependencies.
func NewApp(deps Dependencies) (*App, error) {
	a := &App{
		Config: deps.Config,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
	}
	if a.Config == nil {
		a.Config = config.NewProvider()
	}
	if a.stdout == nil {
		a.stdout = os.Stdout
	}
	if a.stderr == nil {
		a.stderr = os.Stderr
	}
	a.logger = log.NewWithOptions(a.stderr, log.Options{Prefix: config.AppName, Level: log.WarnLevel})

	l, err := loader.New(loader.WithLogger(a.logger))
	if err != nil {
		return nil, err
	}
	a.Loader = l
	return a, nil
}

// session loads configuration and settles the project directory, log level
// and target platform. platformFlag overrides the configured platform; both
// empty select the host.
func (a *App) session(ctx context.Context, flags *rootFlagValues, platformFlag string) (*session, error) {
	projectDir := flags.projectDir
	if projectDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to determine working directory: %w", err)
		}
		projectDir = wd
	}
	projectDir, err := filepath.Abs(projectDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project directory: %w", err)
	}

	cfg, err := a.Config.Load(ctx, config.LoadOptions{
		ConfigFilePath: flags.configPath,
		ProjectDir:     projectDir,
	})
	if err != nil {
		return nil, err
	}

	level := cfg.LogLevel
	if flags.logLevel != "" {
		level = flags.logLevel
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if flags.verbose {
		lvl = log.DebugLevel
	}
	a.logger.SetLevel(lvl)
	if cfg.Source != "" {
		a.logger.Debug("loaded configuration", "file", cfg.Source)
	}

	p := platform.Host()
	if raw := firstNonEmpty(platformFlag, cfg.Platform); raw != "" {
		p, err = platform.Parse(raw)
		if err != nil {
			return nil, issue.NewErrorContext().
				WithOperation("select target platform").
				WithResource(raw).
				WithTopic(issue.InvalidPlatformId).
				Wrap(err).
				BuildError()
		}
	}

	return &session{cfg: cfg, projectDir: projectDir, platform: p}, nil
}

// resolve loads the project and runs one resolution pass.
func (a *App) resolve(ctx context.Context, s *session) (*resolve.Plan, error) {
	res, err := a.Loader.Load(ctx, s.projectDir, s.cfg)
	if err != nil {
		return nil, err
	}
	r := resolve.New(
		resolve.WithProjectRoot(res.ProjectDir),
		resolve.WithWorkers(s.cfg.Workers),
		resolve.WithLogger(a.logger),
	)
	plan, err := r.Resolve(resolve.Input{
		Store:     res.Store,
		Overrides: res.Overrides,
		Platform:  s.platform,
	})
	if err != nil {
		return nil, fmt.Errorf("resolution failed: %w", err)
	}
	return plan, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
