// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// MustMkdirAll creates a directory along with any necessary parents.
// The test fails immediately if the operation fails.
func MustMkdirAll(t testing.TB, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("failed to create directory %s: %v", path, err)
	}
}

// MustWriteFile writes content to rel below root, creating parents, and
// returns the absolute path.
func MustWriteFile(t testing.TB, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	MustMkdirAll(t, filepath.Dir(path))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

// WriteProject writes files, keyed by slash path, into a fresh temporary
// directory and returns it. A key ending in "/" creates an empty directory.
func WriteProject(t testing.TB, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		if strings.HasSuffix(rel, "/") {
			MustMkdirAll(t, filepath.Join(root, filepath.FromSlash(rel)))
			continue
		}
		MustWriteFile(t, root, rel, content)
	}
	return root
}

// GenerateProject writes a layered project of layers*width modules. Module
// L<i>M<j> has Public and Private scope directories and depends publicly on
// L<i-1>M<j> and privately on L<i-1>M<(j+1)%width>. It returns the project
// root and the module count.
func GenerateProject(t testing.TB, layers, width int) (string, int) {
	t.Helper()
	root := t.TempDir()
	for i := range layers {
		for j := range width {
			name := ModuleName(i, j)
			var sb strings.Builder
			fmt.Fprintf(&sb, "name: %q\n", name)
			sb.WriteString("public_scopes: [\"Public\"]\n")
			sb.WriteString("private_scopes: [\"Private\"]\n")
			if i > 0 {
				fmt.Fprintf(&sb, "public_deps: [%q]\n", ModuleName(i-1, j))
				fmt.Fprintf(&sb, "private_deps: [%q]\n", ModuleName(i-1, (j+1)%width))
			}
			dir := fmt.Sprintf("Layer%d/%s", i, name)
			MustWriteFile(t, root, dir+"/"+name+".module.cue", sb.String())
			MustMkdirAll(t, filepath.Join(root, filepath.FromSlash(dir), "Public"))
			MustMkdirAll(t, filepath.Join(root, filepath.FromSlash(dir), "Private"))
		}
	}
	return root, layers * width
}

// ModuleName returns the name GenerateProject gives the module at (layer, index).
func ModuleName(layer, index int) string {
	return fmt.Sprintf("L%dM%d", layer, index)
}
