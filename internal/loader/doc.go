// SPDX-License-Identifier: MPL-2.0

// Package loader turns a project checkout into resolver input. It discovers
// descriptor files with doublestar globs, decodes them through an LRU cache
// keyed by file identity, builds the descriptor Store, and loads the platform
// override table with environment expansion in override paths.
package loader
