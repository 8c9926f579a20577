// SPDX-License-Identifier: MPL-2.0

// Package platform identifies build target platforms and holds the override
// table that remaps (module, scope) pairs to explicit include directories for
// one platform.
//
// The default convention treats a scope identifier as a subdirectory of the
// module root. A project whose physical layout diverges from that convention
// on some platform (for example feature folders that were never relocated
// into Public/Private) declares overrides instead of moving files:
//
//	overrides: {
//		Win64: [
//			{module: "Goombanics", scope: "Player", path: "Source/Goombanics/Player"},
//		]
//	}
//
// Lookups are exact on (platform, module, scope); there is no wildcarding.
package platform
