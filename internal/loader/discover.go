// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/modgraph/modgraph/pkg/descriptor"
)

// Matcher decides which project paths are descriptor candidates. Paths are
// slash-separated and relative to the project root.
type Matcher struct {
	globs   []string
	exclude []string
}

// NewMatcher validates the patterns and returns a Matcher.
func NewMatcher(globs, exclude []string) (*Matcher, error) {
	for _, p := range slices.Concat(globs, exclude) {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid glob pattern %q", p)
		}
	}
	return &Matcher{globs: slices.Clone(globs), exclude: slices.Clone(exclude)}, nil
}

// Excluded reports whether rel is excluded. A directory is also excluded
// when a "<dir>/**" pattern covers it, so its subtree is never walked.
func (m *Matcher) Excluded(rel string, isDir bool) bool {
	for _, p := range m.exclude {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
		if isDir && strings.HasSuffix(p, "/**") {
			if ok, _ := doublestar.Match(strings.TrimSuffix(p, "/**"), rel); ok {
				return true
			}
		}
	}
	return false
}

// Matches reports whether rel is a descriptor file selected by the globs and
// not excluded.
func (m *Matcher) Matches(rel string) bool {
	if m.Excluded(rel, false) {
		return false
	}
	if _, ok := descriptor.FormatFromPath(rel); !ok {
		return false
	}
	return slices.ContainsFunc(m.globs, func(p string) bool {
		ok, _ := doublestar.Match(p, rel)
		return ok
	})
}

// Discover walks root and returns every matching descriptor file as a
// slash-separated path relative to root, sorted.
func Discover(ctx context.Context, root string, m *Matcher) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if m.Excluded(rel, true) {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() && m.Matches(rel) {
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}
	slices.Sort(files)
	return files, nil
}
