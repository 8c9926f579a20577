// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"

	"github.com/modgraph/modgraph/internal/render"
	"github.com/modgraph/modgraph/pkg/platform"
)

const (
	// DefaultOverridesFile is the override table looked up in the project root.
	DefaultOverridesFile = "modgraph.overrides.cue"
	// DefaultEnvFile supplies variables for override path expansion.
	DefaultEnvFile = ".env"
)

var (
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrInvalidGlob is returned for a malformed descriptor or exclude pattern.
	ErrInvalidGlob = errors.New("invalid glob pattern")
)

type (
	// Config is the effective modgraph configuration.
	Config struct {
		// Platform is the default target; empty selects the host platform.
		Platform string `json:"platform" mapstructure:"platform"`
		// DescriptorGlobs select descriptor files relative to the project root.
		DescriptorGlobs []string `json:"descriptor_globs" mapstructure:"descriptor_globs"`
		// Exclude lists patterns of paths skipped during discovery.
		Exclude []string `json:"exclude" mapstructure:"exclude"`
		// OverridesFile is the platform override table, relative to the project root.
		OverridesFile string `json:"overrides_file" mapstructure:"overrides_file"`
		// EnvFile supplies variables for override path expansion.
		EnvFile string `json:"env_file" mapstructure:"env_file"`
		// Workers bounds parallel path resolution; 0 means one per CPU.
		Workers int `json:"workers" mapstructure:"workers"`
		// LogLevel is one of debug, info, warn, error.
		LogLevel string `json:"log_level" mapstructure:"log_level"`
		// Output holds presentation settings.
		Output OutputConfig `json:"output" mapstructure:"output"`

		// Source is the file the configuration was read from, empty when
		// only defaults and environment apply.
		Source string `json:"-" mapstructure:"-"`
	}

	// OutputConfig holds presentation settings.
	OutputConfig struct {
		// Format is the default plan format.
		Format string `json:"format" mapstructure:"format"`
	}

	// InvalidConfigError collects every invalid field of a Config.
	// It wraps ErrInvalidConfig for errors.Is() compatibility.
	InvalidConfigError struct {
		FieldErrors []error
	}
)

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Platform: "",
		DescriptorGlobs: []string{
			"**/*.module.cue",
			"**/*.module.toml",
			"**/*.module.yaml",
			"**/*.module.yml",
		},
		Exclude:       []string{".git/**", "**/node_modules/**"},
		OverridesFile: DefaultOverridesFile,
		EnvFile:       DefaultEnvFile,
		Workers:       0,
		LogLevel:      "warn",
		Output:        OutputConfig{Format: string(render.FormatText)},
	}
}

// IsValid checks the fields CUE cannot check once environment variables
// have been merged in.
func (c *Config) IsValid() (bool, []error) {
	var errs []error
	if c.Platform != "" {
		if _, err := platform.Parse(c.Platform); err != nil {
			errs = append(errs, fmt.Errorf("platform: %w", err))
		}
	}
	if len(c.DescriptorGlobs) == 0 {
		errs = append(errs, errors.New("descriptor_globs: at least one pattern is required"))
	}
	for i, g := range c.DescriptorGlobs {
		if !doublestar.ValidatePattern(g) {
			errs = append(errs, fmt.Errorf("descriptor_globs[%d]: %w: %q", i, ErrInvalidGlob, g))
		}
	}
	for i, g := range c.Exclude {
		if !doublestar.ValidatePattern(g) {
			errs = append(errs, fmt.Errorf("exclude[%d]: %w: %q", i, ErrInvalidGlob, g))
		}
	}
	if strings.TrimSpace(c.OverridesFile) == "" {
		errs = append(errs, errors.New("overrides_file: must be non-empty"))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers: must be >= 0, got %d", c.Workers))
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	if _, err := render.ParseFormat(c.Output.Format); err != nil {
		errs = append(errs, fmt.Errorf("output.format: %w", err))
	}

	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, fe := range e.FieldErrors {
		msgs[i] = fe.Error()
	}
	return "invalid config: " + strings.Join(msgs, "; ")
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }
