// SPDX-License-Identifier: MPL-2.0

// Package config loads modgraph settings with Viper, using CUE as the file
// format.
//
// Sources, lowest precedence first: built-in defaults, one CUE file validated
// against the embedded #Config schema, then MODGRAPH_* environment variables
// (MODGRAPH_OUTPUT_FORMAT sets output.format). The file is the first that
// exists of: the explicit --config path, <project>/modgraph.cue, and
// config.cue in the user configuration directory.
package config
