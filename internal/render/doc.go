// SPDX-License-Identifier: MPL-2.0

// Package render writes resolution plans for people and for build tools:
// a styled text report, JSON, YAML, TOML, and Makefile-style compiler flags.
// Every format is a pure function of the plan, so two renders of the same
// plan are byte-identical.
package render
