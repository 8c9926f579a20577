// SPDX-License-Identifier: MPL-2.0

package render

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

const (
	// FormatText is the styled human-readable report.
	FormatText Format = "text"
	// FormatJSON is the plan document as indented JSON.
	FormatJSON Format = "json"
	// FormatYAML is the plan document as YAML.
	FormatYAML Format = "yaml"
	// FormatTOML is the plan document as TOML.
	FormatTOML Format = "toml"
	// FormatFlags is Makefile-style include and link variables per module.
	FormatFlags Format = "flags"
)

// ErrInvalidFormat is the sentinel error wrapped by InvalidFormatError.
var ErrInvalidFormat = errors.New("invalid output format")

type (
	// Format selects a plan encoding.
	Format string

	// InvalidFormatError is returned when a Format value is not recognized.
	InvalidFormatError struct {
		Value Format
	}
)

// Formats returns every supported format.
func Formats() []Format {
	return []Format{FormatText, FormatJSON, FormatYAML, FormatTOML, FormatFlags}
}

// ParseFormat converts user input to a Format, case-insensitively.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if ok, errs := f.IsValid(); !ok {
		return "", errs[0]
	}
	return f, nil
}

// String returns the format name.
func (f Format) String() string { return string(f) }

// IsValid returns whether f is a supported format.
func (f Format) IsValid() (bool, []error) {
	if slices.Contains(Formats(), f) {
		return true, nil
	}
	return false, []error{&InvalidFormatError{Value: f}}
}

// Error implements the error interface for InvalidFormatError.
func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid output format %q (valid: text, json, yaml, toml, flags)", e.Value)
}

// Unwrap returns ErrInvalidFormat for errors.Is() compatibility.
func (e *InvalidFormatError) Unwrap() error { return ErrInvalidFormat }
