// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/modgraph/modgraph/internal/testutil"
)

func TestMatcher(t *testing.T) {
	t.Parallel()

	m, err := NewMatcher(
		[]string{"**/*.module.cue", "Game/**/*.module.yaml"},
		[]string{"ThirdParty/**", "**/*.generated.module.cue"},
	)
	if err != nil {
		t.Fatalf("NewMatcher() error = %v", err)
	}

	tests := []struct {
		rel  string
		want bool
	}{
		{"Core/Core.module.cue", true},
		{"Core.module.cue", true},
		{"Game/UI/UI.module.yaml", true},
		{"Engine/UI.module.yaml", false},
		{"ThirdParty/zlib/zlib.module.cue", false},
		{"Core/Core.generated.module.cue", false},
		{"Core/notes.cue", false},
	}
	for _, tt := range tests {
		if got := m.Matches(tt.rel); got != tt.want {
			t.Errorf("Matches(%q) = %v, want %v", tt.rel, got, tt.want)
		}
	}

	if !m.Excluded("ThirdParty", true) {
		t.Error("directory ThirdParty should be excluded")
	}
	if m.Excluded("ThirdParty", false) {
		t.Error("file ThirdParty should not be excluded")
	}
}

func TestNewMatcher_InvalidPattern(t *testing.T) {
	t.Parallel()

	if _, err := NewMatcher([]string{"[abc"}, nil); err == nil {
		t.Error("NewMatcher() expected error for unclosed bracket")
	}
}

func TestDiscover(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	testutil.MustWriteFile(t, root, "b/B.module.cue", `name: "B"`)
	testutil.MustWriteFile(t, root, "a/A.module.toml", `name = "A"`)
	testutil.MustWriteFile(t, root, ".git/x/X.module.cue", `name: "X"`)
	testutil.MustWriteFile(t, root, "a/deep/er/C.module.yml", `name: C`)

	m, err := NewMatcher([]string{"**/*.module.*"}, []string{".git/**"})
	if err != nil {
		t.Fatal(err)
	}
	got, err := Discover(context.Background(), root, m)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	want := []string{"a/A.module.toml", "a/deep/er/C.module.yml", "b/B.module.cue"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Discover() mismatch (-want +got):\n%s", diff)
	}
}
