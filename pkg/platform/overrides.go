// SPDX-License-Identifier: MPL-2.0

package platform

import (
	_ "embed"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/modgraph/modgraph/pkg/cueutil"
	"github.com/modgraph/modgraph/pkg/descriptor"
)

var (
	//go:embed overrides_schema.cue
	overridesSchema string

	// ErrDuplicateOverride is the sentinel error wrapped by DuplicateOverrideError.
	ErrDuplicateOverride = errors.New("duplicate platform override")
	// ErrInvalidOverride is the sentinel error wrapped by InvalidOverrideError.
	ErrInvalidOverride = errors.New("invalid platform override")
)

type (
	// OverrideRule remaps one (module, scope) pair to an explicit directory
	// on one platform. Path is absolute or relative to the project root.
	OverrideRule struct {
		Platform ID
		Module   descriptor.ModuleName
		Scope    descriptor.ScopeID
		Path     string
	}

	// OverrideTable is the immutable set of override rules keyed by
	// (platform, module, scope). Known platforms are stored in their
	// canonical spelling. A nil table has no rules.
	OverrideTable struct {
		byKey      map[overrideKey]OverrideRule
		byPlatform map[ID][]OverrideRule
	}

	overrideKey struct {
		platform ID
		module   descriptor.ModuleName
		scope    descriptor.ScopeID
	}

	// DuplicateOverrideError is returned when two rules share a key.
	DuplicateOverrideError struct {
		Rule OverrideRule
	}

	// InvalidOverrideError is returned when a rule has a malformed field.
	InvalidOverrideError struct {
		Rule        OverrideRule
		FieldErrors []error
	}

	overridesFile struct {
		Overrides map[string][]overrideEntry `json:"overrides"`
	}

	overrideEntry struct {
		Module string `json:"module"`
		Scope  string `json:"scope"`
		Path   string `json:"path"`
	}
)

// Error implements the error interface for DuplicateOverrideError.
func (e *DuplicateOverrideError) Error() string {
	return fmt.Sprintf("duplicate override for module %q scope %q on platform %s", e.Rule.Module, e.Rule.Scope, e.Rule.Platform)
}

// Unwrap returns ErrDuplicateOverride for errors.Is() compatibility.
func (e *DuplicateOverrideError) Unwrap() error { return ErrDuplicateOverride }

// Error implements the error interface for InvalidOverrideError.
func (e *InvalidOverrideError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, fe := range e.FieldErrors {
		msgs[i] = fe.Error()
	}
	return fmt.Sprintf("invalid override for module %q scope %q on platform %s: %s",
		e.Rule.Module, e.Rule.Scope, e.Rule.Platform, strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidOverride for errors.Is() compatibility.
func (e *InvalidOverrideError) Unwrap() error { return ErrInvalidOverride }

// IsValid checks every field of the rule.
func (r OverrideRule) IsValid() (bool, []error) {
	var errs []error
	if ok, fieldErrs := r.Platform.IsValid(); !ok {
		errs = append(errs, fieldErrs...)
	}
	if ok, fieldErrs := r.Module.IsValid(); !ok {
		errs = append(errs, fieldErrs...)
	}
	if ok, fieldErrs := r.Scope.IsValid(); !ok {
		errs = append(errs, fieldErrs...)
	}
	if strings.TrimSpace(r.Path) == "" {
		errs = append(errs, errors.New("path must be non-empty"))
	}
	if len(errs) > 0 {
		return false, []error{&InvalidOverrideError{Rule: r, FieldErrors: errs}}
	}
	return true, nil
}

// NewOverrideTable validates the rules and indexes them. All invalid and
// duplicate rules are reported together.
func NewOverrideTable(rules ...OverrideRule) (*OverrideTable, error) {
	t := &OverrideTable{
		byKey:      make(map[overrideKey]OverrideRule, len(rules)),
		byPlatform: make(map[ID][]OverrideRule),
	}

	var errs []error
	for _, r := range rules {
		r.Platform = r.Platform.Canonical()
		if ok, ruleErrs := r.IsValid(); !ok {
			errs = append(errs, ruleErrs...)
			continue
		}
		key := overrideKey{platform: r.Platform, module: r.Module, scope: r.Scope}
		if _, exists := t.byKey[key]; exists {
			errs = append(errs, &DuplicateOverrideError{Rule: r})
			continue
		}
		t.byKey[key] = r
		t.byPlatform[r.Platform] = append(t.byPlatform[r.Platform], r)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return t, nil
}

// Lookup returns the rule for an exact (platform, module, scope) match.
func (t *OverrideTable) Lookup(p ID, module descriptor.ModuleName, scope descriptor.ScopeID) (OverrideRule, bool) {
	if t == nil {
		return OverrideRule{}, false
	}
	r, ok := t.byKey[overrideKey{platform: p.Canonical(), module: module, scope: scope}]
	return r, ok
}

// Rules returns the rules of one platform in registration order.
func (t *OverrideTable) Rules(p ID) []OverrideRule {
	if t == nil {
		return nil
	}
	return slices.Clone(t.byPlatform[p.Canonical()])
}

// Platforms returns every platform with at least one rule, sorted.
func (t *OverrideTable) Platforms() []ID {
	if t == nil {
		return nil
	}
	out := make([]ID, 0, len(t.byPlatform))
	for p := range t.byPlatform {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

// Len returns the total number of rules.
func (t *OverrideTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.byKey)
}

// ParseOverrides validates an override file against #Overrides and returns
// its rules, platforms in sorted order and rules in file order within each
// platform. Platform keys name known platforms in any case ("win64") and
// come back canonical. Paths are returned unexpanded.
func ParseOverrides(data []byte, path string) ([]OverrideRule, error) {
	result, err := cueutil.ParseAndDecodeString[overridesFile](overridesSchema, data, "#Overrides", cueutil.WithFilename(path))
	if err != nil {
		return nil, err
	}

	platforms := make([]string, 0, len(result.Value.Overrides))
	for p := range result.Value.Overrides {
		platforms = append(platforms, p)
	}
	slices.Sort(platforms)

	var (
		rules []OverrideRule
		errs  []error
	)
	for _, p := range platforms {
		id, err := Parse(p)
		for _, e := range result.Value.Overrides[p] {
			r := OverrideRule{
				Platform: id,
				Module:   descriptor.ModuleName(e.Module),
				Scope:    descriptor.ScopeID(e.Scope),
				Path:     e.Path,
			}
			if err != nil {
				r.Platform = ID(p)
				errs = append(errs, &InvalidOverrideError{Rule: r, FieldErrors: []error{err}})
				continue
			}
			rules = append(rules, r)
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	slices.SortStableFunc(rules, func(a, b OverrideRule) int {
		return strings.Compare(string(a.Platform), string(b.Platform))
	})
	return rules, nil
}
