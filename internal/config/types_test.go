// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"testing"
)

func TestConfigIsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"defaults", func(*Config) {}, nil},
		{"custom platform", func(c *Config) { c.Platform = "Switch" }, nil},
		{"bad platform", func(c *Config) { c.Platform = "9x" }, ErrInvalidConfig},
		{"bad glob", func(c *Config) { c.DescriptorGlobs = []string{"[unclosed"} }, ErrInvalidGlob},
		{"no globs", func(c *Config) { c.DescriptorGlobs = nil }, ErrInvalidConfig},
		{"bad exclude", func(c *Config) { c.Exclude = []string{"{a,b"} }, ErrInvalidGlob},
		{"negative workers", func(c *Config) { c.Workers = -2 }, ErrInvalidConfig},
		{"bad log level", func(c *Config) { c.LogLevel = "chatty" }, ErrInvalidConfig},
		{"bad format", func(c *Config) { c.Output.Format = "xml" }, ErrInvalidConfig},
		{"empty overrides file", func(c *Config) { c.OverridesFile = " " }, ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.mutate(cfg)
			ok, errs := cfg.IsValid()
			if tt.wantErr == nil {
				if !ok {
					t.Fatalf("IsValid() = false: %v", errs)
				}
				return
			}
			if ok {
				t.Fatal("IsValid() = true, want false")
			}
			if !errors.Is(errs[0], ErrInvalidConfig) {
				t.Errorf("error %v does not wrap ErrInvalidConfig", errs[0])
			}
			var ce *InvalidConfigError
			if !errors.As(errs[0], &ce) {
				t.Fatal("expected *InvalidConfigError")
			}
			found := false
			for _, fe := range ce.FieldErrors {
				if errors.Is(fe, tt.wantErr) || tt.wantErr == ErrInvalidConfig {
					found = true
				}
			}
			if !found {
				t.Errorf("field errors %v do not include %v", ce.FieldErrors, tt.wantErr)
			}
		})
	}
}
