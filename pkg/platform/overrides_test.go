// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestOverrideTableLookup(t *testing.T) {
	t.Parallel()

	table, err := NewOverrideTable(
		OverrideRule{Platform: Win64, Module: "Audio", Scope: "Public", Path: "Audio/Win/Public"},
		OverrideRule{Platform: Mac, Module: "Audio", Scope: "Public", Path: "/opt/audio/include"},
		OverrideRule{Platform: Win64, Module: "Audio", Scope: "Private", Path: "Audio/Win/Private"},
	)
	if err != nil {
		t.Fatalf("NewOverrideTable() error = %v", err)
	}

	r, ok := table.Lookup(Win64, "Audio", "Public")
	if !ok || r.Path != "Audio/Win/Public" {
		t.Errorf("Lookup(Win64, Audio, Public) = %+v, %v", r, ok)
	}
	if _, ok := table.Lookup(LinuxX64, "Audio", "Public"); ok {
		t.Error("Lookup matched a platform without rules")
	}
	if _, ok := table.Lookup(Win64, "audio", "Public"); ok {
		t.Error("Lookup must match module names exactly")
	}

	if table.Len() != 3 {
		t.Errorf("Len() = %d, want 3", table.Len())
	}
	if diff := cmp.Diff([]ID{Mac, Win64}, table.Platforms()); diff != "" {
		t.Errorf("Platforms() mismatch (-want +got):\n%s", diff)
	}
	win := table.Rules(Win64)
	if len(win) != 2 || win[0].Scope != "Public" || win[1].Scope != "Private" {
		t.Errorf("Rules(Win64) = %+v, want registration order", win)
	}
}

func TestNilOverrideTable(t *testing.T) {
	t.Parallel()

	var table *OverrideTable
	if _, ok := table.Lookup(Win64, "Core", "Public"); ok {
		t.Error("nil table returned a rule")
	}
	if table.Len() != 0 || table.Rules(Win64) != nil || table.Platforms() != nil {
		t.Error("nil table is not empty")
	}
}

func TestNewOverrideTableErrors(t *testing.T) {
	t.Parallel()

	_, err := NewOverrideTable(
		OverrideRule{Platform: Win64, Module: "Core", Scope: "Public", Path: "a"},
		OverrideRule{Platform: Win64, Module: "Core", Scope: "Public", Path: "b"},
		OverrideRule{Platform: "9bad", Module: "Core", Scope: "Public", Path: "c"},
		OverrideRule{Platform: Mac, Module: "Core", Scope: "../up", Path: ""},
	)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, ErrDuplicateOverride) {
		t.Errorf("error %v does not include ErrDuplicateOverride", err)
	}
	if !errors.Is(err, ErrInvalidOverride) {
		t.Errorf("error %v does not include ErrInvalidOverride", err)
	}
	if !errors.Is(err, ErrInvalidID) {
		t.Errorf("error %v does not include ErrInvalidID", err)
	}
}

func TestParseOverrides(t *testing.T) {
	t.Parallel()

	data := []byte(`
overrides: {
	Win64: [
		{module: "Audio", scope: "Public", path: "Audio/Platform/Win64/Public"},
		{module: "Audio", scope: "Private", path: "${SDK_ROOT}/audio"},
	]
	Android: [
		{module: "Input", scope: "Public", path: "/opt/ndk/input"},
	]
}
`)

	rules, err := ParseOverrides(data, "modgraph.overrides.cue")
	if err != nil {
		t.Fatalf("ParseOverrides() error = %v", err)
	}

	want := []OverrideRule{
		{Platform: Android, Module: "Input", Scope: "Public", Path: "/opt/ndk/input"},
		{Platform: Win64, Module: "Audio", Scope: "Public", Path: "Audio/Platform/Win64/Public"},
		{Platform: Win64, Module: "Audio", Scope: "Private", Path: "${SDK_ROOT}/audio"},
	}
	if diff := cmp.Diff(want, rules); diff != "" {
		t.Errorf("ParseOverrides() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseOverridesErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		wantMsg string
	}{
		{"bad platform key", `overrides: "1x": []`, "overrides"},
		{"missing path", `overrides: Win64: [{module: "A", scope: "B"}]`, "path"},
		{"unknown rule field", `overrides: Win64: [{module: "A", scope: "B", path: "c", when: true}]`, "when"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ParseOverrides([]byte(tt.data), "o.cue")
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not contain %q", err, tt.wantMsg)
			}
		})
	}
}

func TestParseOverridesEmpty(t *testing.T) {
	t.Parallel()

	rules, err := ParseOverrides([]byte(""), "o.cue")
	if err != nil {
		t.Fatalf("ParseOverrides() error = %v", err)
	}
	if len(rules) != 0 {
		t.Errorf("rules = %v, want none", rules)
	}
}

func TestParseOverridesCanonicalPlatform(t *testing.T) {
	t.Parallel()

	data := []byte(`
overrides: {
	win64: [{module: "Game", scope: "UI", path: "/custom/ui"}]
	MAC: [{module: "Game", scope: "UI", path: "/mac/ui"}]
	Console: [{module: "Game", scope: "UI", path: "/console/ui"}]
}
`)
	rules, err := ParseOverrides(data, "o.cue")
	if err != nil {
		t.Fatalf("ParseOverrides() error = %v", err)
	}
	want := []OverrideRule{
		{Platform: "Console", Module: "Game", Scope: "UI", Path: "/console/ui"},
		{Platform: Mac, Module: "Game", Scope: "UI", Path: "/mac/ui"},
		{Platform: Win64, Module: "Game", Scope: "UI", Path: "/custom/ui"},
	}
	if diff := cmp.Diff(want, rules); diff != "" {
		t.Errorf("ParseOverrides() mismatch (-want +got):\n%s", diff)
	}

	table, err := NewOverrideTable(rules...)
	if err != nil {
		t.Fatalf("NewOverrideTable() error = %v", err)
	}
	for _, p := range []ID{Win64, "win64", "WIN64"} {
		r, ok := table.Lookup(p, "Game", "UI")
		if !ok || r.Path != "/custom/ui" {
			t.Errorf("Lookup(%s, Game, UI) = %+v, %v", p, r, ok)
		}
	}
}

func TestParseOverridesCaseVariantsCollide(t *testing.T) {
	t.Parallel()

	data := []byte(`
overrides: {
	Win64: [{module: "Game", scope: "UI", path: "/a"}]
	win64: [{module: "Game", scope: "UI", path: "/b"}]
}
`)
	rules, err := ParseOverrides(data, "o.cue")
	if err != nil {
		t.Fatalf("ParseOverrides() error = %v", err)
	}
	if _, err := NewOverrideTable(rules...); !errors.Is(err, ErrDuplicateOverride) {
		t.Errorf("NewOverrideTable() error = %v, want ErrDuplicateOverride", err)
	}
}

func TestNewOverrideTableCanonicalizesPlatform(t *testing.T) {
	t.Parallel()

	table, err := NewOverrideTable(OverrideRule{Platform: "android", Module: "Input", Scope: "Public", Path: "p"})
	if err != nil {
		t.Fatalf("NewOverrideTable() error = %v", err)
	}
	if diff := cmp.Diff([]ID{Android}, table.Platforms()); diff != "" {
		t.Errorf("Platforms() mismatch (-want +got):\n%s", diff)
	}
	if len(table.Rules(Android)) != 1 {
		t.Errorf("Rules(Android) = %v, want one rule", table.Rules(Android))
	}
}
