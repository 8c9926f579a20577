// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/modgraph/modgraph/pkg/descriptor"
)

const (
	// KindMissingDirectory reports a resolved include directory that does not exist.
	KindMissingDirectory Kind = "missing_directory"
	// KindUnknownModule reports a dependency on a module absent from the Store.
	KindUnknownModule Kind = "unknown_module"
	// KindCyclicDependency reports a dependency cycle, or a dependency on a
	// module invalidated by one.
	KindCyclicDependency Kind = "cyclic_dependency"
	// KindPathConflict reports an include directory claimed by more than one module.
	KindPathConflict Kind = "path_conflict"

	// SeverityError diagnostics mean the plan must not be built as is.
	SeverityError Severity = "error"
	// SeverityWarning diagnostics are informational.
	SeverityWarning Severity = "warning"
)

const (
	// StagePaths is the path resolution stage.
	StagePaths Stage = iota
	// StageGraph is the dependency graph stage.
	StageGraph
	// StageVisibility is the visibility resolution stage.
	StageVisibility
)

// ErrInvalidKind is the sentinel error wrapped by InvalidKindError.
var ErrInvalidKind = errors.New("invalid diagnostic kind")

type (
	// Kind classifies a diagnostic.
	Kind string

	// Severity is the level of a diagnostic.
	Severity string

	// Stage is the resolution stage that emitted a diagnostic.
	Stage uint8

	// InvalidKindError is returned when a Kind value is not recognized.
	InvalidKindError struct {
		Value Kind
	}

	// Diagnostic is one problem found during a resolution pass. It is always
	// attached to a module registered in the Store.
	Diagnostic struct {
		Module   descriptor.ModuleName
		Kind     Kind
		Severity Severity
		Stage    Stage
		// Detail is the human-readable description.
		Detail string
		// Scope and Path locate directory problems.
		Scope descriptor.ScopeID
		Path  string
		// Related names the other module involved: the missing or cyclic
		// dependency, or the first claimant of a conflicting path.
		Related descriptor.ModuleName
		// Cycle is the closed dependency path for cycle diagnostics, e.g.
		// [A B A].
		Cycle []descriptor.ModuleName
	}

	// Report is the ordered, module-grouped set of diagnostics of one pass.
	Report struct {
		all      []Diagnostic
		byModule map[descriptor.ModuleName][]Diagnostic
		modules  []descriptor.ModuleName
	}
)

// Kinds returns every diagnostic kind in a stable order.
func Kinds() []Kind {
	return []Kind{KindMissingDirectory, KindUnknownModule, KindCyclicDependency, KindPathConflict}
}

// String returns the kind identifier.
func (k Kind) String() string { return string(k) }

// IsValid returns whether k is a recognized kind.
func (k Kind) IsValid() (bool, []error) {
	if slices.Contains(Kinds(), k) {
		return true, nil
	}
	return false, []error{&InvalidKindError{Value: k}}
}

// Title returns a short human-readable name, e.g. "Missing directory".
func (k Kind) Title() string {
	switch k {
	case KindMissingDirectory:
		return "Missing directory"
	case KindUnknownModule:
		return "Unknown module"
	case KindCyclicDependency:
		return "Cyclic dependency"
	case KindPathConflict:
		return "Path conflict"
	default:
		return string(k)
	}
}

// ParseKind accepts a kind identifier in either snake_case or the
// CamelCase spelling used in diagnostics tables (e.g. "UnknownModule").
func ParseKind(s string) (Kind, error) {
	norm := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "-", "_"))
	for _, k := range Kinds() {
		if norm == string(k) || norm == strings.ReplaceAll(string(k), "_", "") {
			return k, nil
		}
	}
	return "", &InvalidKindError{Value: Kind(s)}
}

// Error implements the error interface for InvalidKindError.
func (e *InvalidKindError) Error() string {
	return fmt.Sprintf("invalid diagnostic kind %q (valid: missing_directory, unknown_module, cyclic_dependency, path_conflict)", e.Value)
}

// Unwrap returns ErrInvalidKind for errors.Is() compatibility.
func (e *InvalidKindError) Unwrap() error { return ErrInvalidKind }

// String returns the stage name.
func (s Stage) String() string {
	switch s {
	case StagePaths:
		return "paths"
	case StageGraph:
		return "graph"
	case StageVisibility:
		return "visibility"
	default:
		return fmt.Sprintf("stage(%d)", uint8(s))
	}
}

// String formats the diagnostic as "<module>: <severity> <kind>: <detail>".
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s %s: %s", d.Module, d.Severity, d.Kind, d.Detail)
}

// IsError reports whether the diagnostic has error severity.
func (d Diagnostic) IsError() bool { return d.Severity == SeverityError }

// newReport orders diags by the store index of their module, then stage,
// then emission order.
func newReport(store *descriptor.Store, diags []Diagnostic) *Report {
	all := slices.Clone(diags)
	slices.SortStableFunc(all, func(a, b Diagnostic) int {
		if c := store.Index(a.Module) - store.Index(b.Module); c != 0 {
			return c
		}
		return int(a.Stage) - int(b.Stage)
	})

	r := &Report{all: all, byModule: make(map[descriptor.ModuleName][]Diagnostic)}
	for _, d := range all {
		if _, ok := r.byModule[d.Module]; !ok {
			r.modules = append(r.modules, d.Module)
		}
		r.byModule[d.Module] = append(r.byModule[d.Module], d)
	}
	return r
}

// All returns every diagnostic in report order.
func (r *Report) All() []Diagnostic { return slices.Clone(r.all) }

// Len returns the number of diagnostics.
func (r *Report) Len() int { return len(r.all) }

// Modules returns the modules with at least one diagnostic, in store order.
func (r *Report) Modules() []descriptor.ModuleName { return slices.Clone(r.modules) }

// ForModule returns the diagnostics attached to one module.
func (r *Report) ForModule(name descriptor.ModuleName) []Diagnostic {
	return slices.Clone(r.byModule[name])
}

// OfKind returns the diagnostics of one kind in report order.
func (r *Report) OfKind(k Kind) []Diagnostic {
	var out []Diagnostic
	for _, d := range r.all {
		if d.Kind == k {
			out = append(out, d)
		}
	}
	return out
}

// Count returns the number of diagnostics with the given severity.
func (r *Report) Count(s Severity) int {
	n := 0
	for _, d := range r.all {
		if d.Severity == s {
			n++
		}
	}
	return n
}

// HasErrors reports whether any diagnostic has error severity. The caller
// decides whether that blocks the build.
func (r *Report) HasErrors() bool {
	return slices.ContainsFunc(r.all, Diagnostic.IsError)
}
