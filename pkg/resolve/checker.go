// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"os"
	"path/filepath"
)

type (
	// PathChecker reports whether a directory exists. It is the only I/O
	// boundary of a resolution pass and must be safe for concurrent use.
	PathChecker interface {
		Exists(path string) bool
	}

	// OSPathChecker checks the local filesystem.
	OSPathChecker struct{}

	// DirSet is an in-memory PathChecker holding the set of existing
	// directories. Keys are compared after filepath.Clean.
	DirSet map[string]bool

	// PathCheckerFunc adapts a function to the PathChecker interface.
	PathCheckerFunc func(path string) bool
)

// Exists returns true when path names an existing directory.
func (OSPathChecker) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// NewDirSet returns a DirSet containing the given directories.
func NewDirSet(dirs ...string) DirSet {
	s := make(DirSet, len(dirs))
	for _, d := range dirs {
		s[filepath.Clean(d)] = true
	}
	return s
}

// Exists reports whether path is in the set.
func (s DirSet) Exists(path string) bool { return s[filepath.Clean(path)] }

// Exists calls f(path).
func (f PathCheckerFunc) Exists(path string) bool { return f(path) }
