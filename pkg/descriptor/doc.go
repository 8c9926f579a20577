// SPDX-License-Identifier: MPL-2.0

// Package descriptor defines module descriptors and the immutable store that
// holds every descriptor of one project.
//
// A descriptor declares, for one module, the include scopes it exposes to
// dependents (public), the scopes only it may use (private), and the modules
// it depends on publicly or privately. Scopes and dependencies are tagged
// with a Visibility rather than split across parallel string lists, so code
// that consumes them can switch over both cases exhaustively.
//
// Descriptors are read from CUE, TOML, or YAML files:
//
//	name:           "Goombanics"
//	pch_usage:      "explicit_or_shared"
//	public_scopes:  ["Public", ".", "Core", "Player"]
//	private_scopes: ["Private"]
//	public_deps:    ["Core", "Engine"]
//	private_deps:   ["NavigationSystem"]
//
// The scope "." designates the module root directory itself.
package descriptor
