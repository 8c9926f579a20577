// SPDX-License-Identifier: MPL-2.0

// Package watch re-runs resolution when a project changes.
//
// A Watcher monitors the project tree for descriptor files selected by the
// loader's Matcher, plus any extra files such as the override table, the
// .env file or modgraph.cue. Events within the debounce window are coalesced
// so the callback fires once with the full set of changed paths.
package watch
