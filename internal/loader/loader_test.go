// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/modgraph/modgraph/internal/config"
	"github.com/modgraph/modgraph/internal/issue"
	"github.com/modgraph/modgraph/internal/testutil"
	"github.com/modgraph/modgraph/pkg/descriptor"
	"github.com/modgraph/modgraph/pkg/platform"
)

func newLoader(t *testing.T, env ...string) *Loader {
	t.Helper()
	l, err := New(WithEnviron(func() []string { return env }))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return l
}

// sampleProject writes a CUE, a TOML and a YAML descriptor plus an excluded one.
func sampleProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	testutil.MustWriteFile(t, root, "Engine/Core/Core.module.cue", `
name:          "Core"
public_scopes: ["Public"]
`)
	testutil.MustWriteFile(t, root, "Engine/Player/Player.module.toml", `
name = "Player"
public_scopes = ["Public"]
private_scopes = ["Private"]
public_deps = ["Core"]
pch_usage = "shared"
`)
	testutil.MustWriteFile(t, root, "Game/UI.module.yaml", `
name: UI
root: Source
private_scopes: [Private]
private_deps: [Player]
`)
	testutil.MustWriteFile(t, root, "node_modules/x/Ignored.module.cue", `name: "Ignored"`)
	testutil.MustWriteFile(t, root, "Engine/README.md", "not a descriptor")
	return root
}

func TestLoad(t *testing.T) {
	t.Parallel()

	root := sampleProject(t)
	res, err := newLoader(t).Load(context.Background(), root, config.DefaultConfig())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	wantFiles := []string{
		"Engine/Core/Core.module.cue",
		"Engine/Player/Player.module.toml",
		"Game/UI.module.yaml",
	}
	if diff := cmp.Diff(wantFiles, res.Files); diff != "" {
		t.Errorf("Files mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]descriptor.ModuleName{"Core", "Player", "UI"}, res.Store.Names()); diff != "" {
		t.Errorf("Names mismatch (-want +got):\n%s", diff)
	}

	ui, _ := res.Store.Lookup("UI")
	if ui.Root != filepath.Join("Game", "Source") {
		t.Errorf("UI root = %q", ui.Root)
	}
	if ui.Source != "Game/UI.module.yaml" {
		t.Errorf("UI source = %q", ui.Source)
	}
	player, _ := res.Store.Lookup("Player")
	if player.PCHUsage != descriptor.PCHShared {
		t.Errorf("Player PCH = %q", player.PCHUsage)
	}
	if res.Overrides != nil || res.OverridesFile != "" {
		t.Errorf("expected no overrides, got %q", res.OverridesFile)
	}
}

func TestLoad_Cache(t *testing.T) {
	t.Parallel()

	root := sampleProject(t)
	l := newLoader(t)
	cfg := config.DefaultConfig()

	first, err := l.Load(context.Background(), root, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if first.Cached != 0 {
		t.Errorf("first load Cached = %d, want 0", first.Cached)
	}

	second, err := l.Load(context.Background(), root, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if second.Cached != 3 {
		t.Errorf("second load Cached = %d, want 3", second.Cached)
	}

	// A changed file is decoded again.
	path := testutil.MustWriteFile(t, root, "Engine/Core/Core.module.cue", `
name:          "Core"
public_scopes: ["Public", "Inc"]
`)
	later := time.Now().Add(time.Minute)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatal(err)
	}
	third, err := l.Load(context.Background(), root, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if third.Cached != 2 {
		t.Errorf("third load Cached = %d, want 2", third.Cached)
	}
	core, _ := third.Store.Lookup("Core")
	if got := core.PublicScopes(); len(got) != 2 {
		t.Errorf("Core public scopes = %v, want 2 entries", got)
	}
}

func TestLoad_ParseErrors(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	testutil.MustWriteFile(t, root, "A/A.module.cue", `name: "A", bogus: 1`)
	testutil.MustWriteFile(t, root, "B/B.module.toml", `name = `)
	testutil.MustWriteFile(t, root, "C/C.module.yaml", `name: C`)

	_, err := newLoader(t).Load(context.Background(), root, config.DefaultConfig())
	if err == nil {
		t.Fatal("Load() expected error")
	}
	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		t.Fatalf("error %T is not an ActionableError", err)
	}
	if ae.Resource != "A/A.module.cue" {
		t.Errorf("first failing resource = %q", ae.Resource)
	}
	if ae.Topic != issue.DescriptorParseErrorId {
		t.Errorf("Topic = %d, want DescriptorParseErrorId", ae.Topic)
	}
	msg := err.Error()
	for _, want := range []string{"A/A.module.cue", "B/B.module.toml"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q does not mention %s", msg, want)
		}
	}
}

func TestLoad_DuplicateModule(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	testutil.MustWriteFile(t, root, "A/Core.module.cue", `name: "Core"`)
	testutil.MustWriteFile(t, root, "B/Core.module.yaml", `name: Core`)

	_, err := newLoader(t).Load(context.Background(), root, config.DefaultConfig())
	if !errors.Is(err, descriptor.ErrDuplicateModule) {
		t.Errorf("Load() error = %v, want ErrDuplicateModule", err)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Parallel()

	root := sampleProject(t)
	testutil.MustWriteFile(t, root, ".env", "SDK_ROOT=/from-dotenv\nAUDIO=/audio-dotenv\n")
	testutil.MustWriteFile(t, root, config.DefaultOverridesFile, `
overrides: {
	Win64: [
		{module: "Core", scope: "Public", path: "${SDK_ROOT}/core"},
		{module: "Player", scope: "Public", path: "$AUDIO/player"},
	]
	Linux: [
		{module: "Core", scope: "Public", path: "${LINUX_SDK:-/opt/sdk}/core"},
	]
}
`)
	res, err := newLoader(t, "SDK_ROOT=/from-process").Load(context.Background(), root, config.DefaultConfig())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if res.Overrides.Len() != 3 {
		t.Fatalf("Overrides.Len() = %d, want 3", res.Overrides.Len())
	}

	tests := []struct {
		platform platform.ID
		module   descriptor.ModuleName
		want     string
	}{
		{platform.Win64, "Core", "/from-process/core"},
		{platform.Win64, "Player", "/audio-dotenv/player"},
		{platform.LinuxX64, "Core", "/opt/sdk/core"},
	}
	for _, tt := range tests {
		rule, ok := res.Overrides.Lookup(tt.platform, tt.module, "Public")
		if !ok {
			t.Errorf("no rule for %s/%s", tt.platform, tt.module)
			continue
		}
		if rule.Path != tt.want {
			t.Errorf("%s/%s path = %q, want %q", tt.platform, tt.module, rule.Path, tt.want)
		}
	}
}

func TestLoad_OverridesPlatformKeyCase(t *testing.T) {
	t.Parallel()

	root := sampleProject(t)
	testutil.MustWriteFile(t, root, config.DefaultOverridesFile, `
overrides: win64: [{module: "Player", scope: "Private", path: "/custom/player"}]
`)
	res, err := newLoader(t).Load(context.Background(), root, config.DefaultConfig())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if diff := cmp.Diff([]platform.ID{platform.Win64}, res.Overrides.Platforms()); diff != "" {
		t.Errorf("Platforms() mismatch (-want +got):\n%s", diff)
	}

	p, err := platform.Parse("WIN64")
	if err != nil {
		t.Fatal(err)
	}
	rule, ok := res.Overrides.Lookup(p, "Player", "Private")
	if !ok || rule.Path != "/custom/player" {
		t.Errorf("Lookup(%s, Player, Private) = %+v, %v", p, rule, ok)
	}
}

func TestLoad_OverridesUndefinedVariable(t *testing.T) {
	t.Parallel()

	root := sampleProject(t)
	testutil.MustWriteFile(t, root, config.DefaultOverridesFile, `
overrides: Win64: [{module: "Core", scope: "Public", path: "$NOPE/core"}]
`)
	_, err := newLoader(t).Load(context.Background(), root, config.DefaultConfig())
	var ae *issue.ActionableError
	if !errors.As(err, &ae) || ae.Operation != "load platform overrides" {
		t.Fatalf("Load() error = %v, want override ActionableError", err)
	}
}

func TestLoad_MissingConfiguredOverrides(t *testing.T) {
	t.Parallel()

	root := sampleProject(t)
	cfg := config.DefaultConfig()
	cfg.OverridesFile = "custom.cue"
	if _, err := newLoader(t).Load(context.Background(), root, cfg); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load() error = %v, want not-exist", err)
	}
}

func TestLoad_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := newLoader(t).Load(ctx, sampleProject(t), config.DefaultConfig()); !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
}

func TestLoad_GeneratedProject(t *testing.T) {
	t.Parallel()

	root, n := testutil.GenerateProject(t, 4, 5)
	res, err := newLoader(t).Load(context.Background(), root, config.DefaultConfig())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if res.Store.Len() != n {
		t.Fatalf("Store.Len() = %d, want %d", res.Store.Len(), n)
	}
	d, _ := res.Store.Lookup(descriptor.ModuleName(testutil.ModuleName(3, 4)))
	want := []descriptor.ModuleName{descriptor.ModuleName(testutil.ModuleName(2, 0))}
	if diff := cmp.Diff(want, d.PrivateDependencies()); diff != "" {
		t.Errorf("private deps mismatch (-want +got):\n%s", diff)
	}
}
