// SPDX-License-Identifier: MPL-2.0

// Package cmd implements the modgraph command line: plan, check, graph,
// explain and config.
package cmd
