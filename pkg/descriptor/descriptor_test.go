// SPDX-License-Identifier: MPL-2.0

package descriptor

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDescriptorAccessorsKeepDeclarationOrder(t *testing.T) {
	t.Parallel()

	d := New("UI", "/src/UI").
		WithPublicScopes("Public", "Widgets").
		WithPrivateScopes("Private").
		WithPublicScopes("Extra").
		WithPrivateDependencies("Player", "Audio").
		WithPublicDependencies("Core")

	if diff := cmp.Diff([]ScopeID{"Public", "Widgets", "Extra"}, d.PublicScopes()); diff != "" {
		t.Errorf("PublicScopes() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]ScopeID{"Private"}, d.PrivateScopes()); diff != "" {
		t.Errorf("PrivateScopes() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]ModuleName{"Core"}, d.PublicDependencies()); diff != "" {
		t.Errorf("PublicDependencies() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]ModuleName{"Player", "Audio"}, d.PrivateDependencies()); diff != "" {
		t.Errorf("PrivateDependencies() mismatch (-want +got):\n%s", diff)
	}
}

func TestDescriptorBuildersDoNotAlias(t *testing.T) {
	t.Parallel()

	base := New("Core", "/src/Core").WithPublicScopes("Public")
	a := base.WithPublicScopes("A")
	b := base.WithPublicScopes("B")

	if len(base.Scopes) != 1 {
		t.Fatalf("base mutated: %v", base.Scopes)
	}
	if a.Scopes[1].ID != "A" || b.Scopes[1].ID != "B" {
		t.Errorf("copies share backing storage: a=%v b=%v", a.Scopes, b.Scopes)
	}
}

func TestDescriptorIsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		desc    Descriptor
		wantErr error
	}{
		{"minimal", New("Core", "/src/Core"), nil},
		{"root scope", New("Core", "/src/Core").WithPublicScopes(RootScope), nil},
		{"nested scope", New("Core", "/src/Core").WithPrivateScopes("Internal/Detail"), nil},
		{"self dependency allowed here", New("Core", "/src/Core").WithPublicDependencies("Core"), nil},
		{"pch usage", New("Core", "/src/Core").WithPCHUsage(PCHShared), nil},
		{"empty name", New("", "/src"), ErrInvalidModuleName},
		{"name with space", New("Bad Name", "/src"), ErrInvalidModuleName},
		{"duplicate scope across visibilities", New("Core", "/src").WithPublicScopes("Public").WithPrivateScopes("Public"), ErrDuplicateScope},
		{"empty scope", New("Core", "/src").WithPublicScopes(""), ErrInvalidScopeID},
		{"absolute scope", New("Core", "/src").WithPublicScopes("/usr/include"), ErrInvalidScopeID},
		{"escaping scope", New("Core", "/src").WithPublicScopes("../Other"), ErrInvalidScopeID},
		{"bad dependency name", New("Core", "/src").WithPrivateDependencies("no way"), ErrInvalidModuleName},
		{"bad pch usage", New("Core", "/src").WithPCHUsage("sometimes"), ErrInvalidPCHUsage},
		{"bad visibility", Descriptor{Name: "Core", Scopes: []Scope{{ID: "Public"}}}, ErrInvalidVisibility},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ok, errs := tt.desc.IsValid()
			if tt.wantErr == nil {
				if !ok {
					t.Fatalf("IsValid() = false, errors: %v", errs)
				}
				return
			}
			if ok {
				t.Fatalf("IsValid() = true, want error %v", tt.wantErr)
			}
			if len(errs) != 1 {
				t.Fatalf("IsValid() returned %d errors, want 1 aggregate", len(errs))
			}
			if !errors.Is(errs[0], ErrInvalidDescriptor) {
				t.Errorf("error %v does not wrap ErrInvalidDescriptor", errs[0])
			}
			var descErr *InvalidDescriptorError
			if !errors.As(errs[0], &descErr) {
				t.Fatalf("error %T is not *InvalidDescriptorError", errs[0])
			}
			found := false
			for _, fe := range descErr.FieldErrors {
				if errors.Is(fe, tt.wantErr) {
					found = true
				}
			}
			if !found {
				t.Errorf("field errors %v do not include %v", descErr.FieldErrors, tt.wantErr)
			}
		})
	}
}

func TestScopeIDIsRoot(t *testing.T) {
	t.Parallel()

	for _, s := range []ScopeID{".", "./", "Public/.."} {
		if !s.IsRoot() {
			t.Errorf("ScopeID(%q).IsRoot() = false", s)
		}
	}
	if ScopeID("Public").IsRoot() {
		t.Error(`ScopeID("Public").IsRoot() = true`)
	}
}

func TestVisibilityString(t *testing.T) {
	t.Parallel()

	if Public.String() != "public" || Private.String() != "private" {
		t.Errorf("unexpected names %q %q", Public, Private)
	}
	if got := Visibility(0).String(); got != "visibility(0)" {
		t.Errorf("Visibility(0).String() = %q", got)
	}
}
