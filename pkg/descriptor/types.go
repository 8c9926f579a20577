// SPDX-License-Identifier: MPL-2.0

package descriptor

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

const (
	// Public marks a scope or dependency as visible to dependents.
	Public Visibility = iota + 1
	// Private marks a scope or dependency as visible only to the declaring module.
	Private

	// PCHDefault leaves the precompiled header policy to the compilation sink.
	PCHDefault PCHUsage = "default"
	// PCHExplicitOrShared uses the module's own PCH when declared, a shared one otherwise.
	PCHExplicitOrShared PCHUsage = "explicit_or_shared"
	// PCHShared always uses a shared PCH.
	PCHShared PCHUsage = "shared"
	// PCHNoShared never uses a shared PCH.
	PCHNoShared PCHUsage = "no_shared"
	// PCHNone disables precompiled headers.
	PCHNone PCHUsage = "none"

	// RootScope is the scope identifier for the module root directory.
	RootScope ScopeID = "."

	// maxScopeLength bounds scope identifiers, which become path segments.
	maxScopeLength = 4096
)

var (
	// ErrInvalidModuleName is the sentinel error wrapped by InvalidModuleNameError.
	ErrInvalidModuleName = errors.New("invalid module name")
	// ErrInvalidScopeID is the sentinel error wrapped by InvalidScopeIDError.
	ErrInvalidScopeID = errors.New("invalid scope identifier")
	// ErrDuplicateScope is the sentinel error wrapped by DuplicateScopeError.
	ErrDuplicateScope = errors.New("duplicate scope")
	// ErrInvalidVisibility is returned when a Visibility value is not Public or Private.
	ErrInvalidVisibility = errors.New("invalid visibility")
	// ErrInvalidPCHUsage is the sentinel error wrapped by InvalidPCHUsageError.
	ErrInvalidPCHUsage = errors.New("invalid pch usage")
	// ErrInvalidDescriptor is the sentinel error wrapped by InvalidDescriptorError.
	ErrInvalidDescriptor = errors.New("invalid module descriptor")
	// ErrDuplicateModule is the sentinel error wrapped by DuplicateModuleError.
	ErrDuplicateModule = errors.New("duplicate module")

	moduleNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.-]*$`)
)

type (
	// ModuleName identifies a module. Names are case-sensitive.
	ModuleName string

	// ScopeID identifies an include scope of a module. By convention it is
	// the name of a subdirectory of the module root.
	ScopeID string

	// Visibility tags a scope or dependency as public or private.
	Visibility uint8

	// PCHUsage is the precompiled header policy passed through to the
	// compilation sink.
	PCHUsage string

	// Scope is one declared include scope.
	Scope struct {
		ID         ScopeID
		Visibility Visibility
	}

	// Dependency is one declared dependency edge target.
	Dependency struct {
		Name       ModuleName
		Visibility Visibility
	}

	// InvalidModuleNameError is returned when a ModuleName is empty or malformed.
	InvalidModuleNameError struct {
		Value ModuleName
	}

	// InvalidScopeIDError is returned when a ScopeID cannot be used as a
	// path below the module root.
	InvalidScopeIDError struct {
		Value  ScopeID
		Reason string
	}

	// DuplicateScopeError is returned when a module declares the same scope twice.
	DuplicateScopeError struct {
		Module ModuleName
		Scope  ScopeID
	}

	// InvalidPCHUsageError is returned when a PCHUsage value is not recognized.
	InvalidPCHUsageError struct {
		Value PCHUsage
	}

	// InvalidDescriptorError collects every field-level problem of one descriptor.
	// It wraps ErrInvalidDescriptor for errors.Is() compatibility.
	InvalidDescriptorError struct {
		Name        ModuleName
		Source      string
		FieldErrors []error
	}

	// DuplicateModuleError is returned when two descriptors share a name.
	DuplicateModuleError struct {
		Name         ModuleName
		FirstSource  string
		SecondSource string
	}
)

// String returns the module name.
func (n ModuleName) String() string { return string(n) }

// IsValid returns whether the name starts with a letter or underscore and
// contains only letters, digits, '_', '.', or '-'.
func (n ModuleName) IsValid() (bool, []error) {
	if !moduleNamePattern.MatchString(string(n)) {
		return false, []error{&InvalidModuleNameError{Value: n}}
	}
	return true, nil
}

// String returns the scope identifier.
func (s ScopeID) String() string { return string(s) }

// IsValid returns whether the scope is a non-empty relative path that stays
// inside the module root.
func (s ScopeID) IsValid() (bool, []error) {
	raw := string(s)
	switch {
	case strings.TrimSpace(raw) == "":
		return false, []error{&InvalidScopeIDError{Value: s, Reason: "must be non-empty"}}
	case len(raw) > maxScopeLength:
		return false, []error{&InvalidScopeIDError{Value: s, Reason: fmt.Sprintf("too long (%d chars, max %d)", len(raw), maxScopeLength)}}
	case strings.ContainsRune(raw, '\x00'):
		return false, []error{&InvalidScopeIDError{Value: s, Reason: "contains null byte"}}
	}
	clean := filepath.Clean(filepath.FromSlash(raw))
	if filepath.IsAbs(clean) || strings.HasPrefix(raw, "/") {
		return false, []error{&InvalidScopeIDError{Value: s, Reason: "absolute paths are not allowed, use a platform override"}}
	}
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return false, []error{&InvalidScopeIDError{Value: s, Reason: "must not escape the module root"}}
	}
	return true, nil
}

// IsRoot reports whether the scope designates the module root itself.
func (s ScopeID) IsRoot() bool {
	return filepath.Clean(filepath.FromSlash(string(s))) == "."
}

// String returns "public" or "private".
func (v Visibility) String() string {
	switch v {
	case Public:
		return "public"
	case Private:
		return "private"
	default:
		return fmt.Sprintf("visibility(%d)", uint8(v))
	}
}

// IsValid returns whether v is Public or Private.
func (v Visibility) IsValid() (bool, []error) {
	switch v {
	case Public, Private:
		return true, nil
	default:
		return false, []error{fmt.Errorf("%w: %d", ErrInvalidVisibility, uint8(v))}
	}
}

// String returns the policy name.
func (p PCHUsage) String() string { return string(p) }

// IsValid returns whether p is a recognized policy. The zero value is valid
// and means PCHDefault.
func (p PCHUsage) IsValid() (bool, []error) {
	switch p {
	case "", PCHDefault, PCHExplicitOrShared, PCHShared, PCHNoShared, PCHNone:
		return true, nil
	default:
		return false, []error{&InvalidPCHUsageError{Value: p}}
	}
}

// Error implements the error interface for InvalidModuleNameError.
func (e *InvalidModuleNameError) Error() string {
	return fmt.Sprintf("invalid module name %q: must start with a letter or '_' and contain only letters, digits, '_', '.', or '-'", e.Value)
}

// Unwrap returns ErrInvalidModuleName for errors.Is() compatibility.
func (e *InvalidModuleNameError) Unwrap() error { return ErrInvalidModuleName }

// Error implements the error interface for InvalidScopeIDError.
func (e *InvalidScopeIDError) Error() string {
	return fmt.Sprintf("invalid scope %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidScopeID for errors.Is() compatibility.
func (e *InvalidScopeIDError) Unwrap() error { return ErrInvalidScopeID }

// Error implements the error interface for DuplicateScopeError.
func (e *DuplicateScopeError) Error() string {
	return fmt.Sprintf("module %q declares scope %q more than once", e.Module, e.Scope)
}

// Unwrap returns ErrDuplicateScope for errors.Is() compatibility.
func (e *DuplicateScopeError) Unwrap() error { return ErrDuplicateScope }

// Error implements the error interface for InvalidPCHUsageError.
func (e *InvalidPCHUsageError) Error() string {
	return fmt.Sprintf("invalid pch_usage %q (valid: default, explicit_or_shared, shared, no_shared, none)", e.Value)
}

// Unwrap returns ErrInvalidPCHUsage for errors.Is() compatibility.
func (e *InvalidPCHUsageError) Unwrap() error { return ErrInvalidPCHUsage }

// Error implements the error interface for InvalidDescriptorError.
func (e *InvalidDescriptorError) Error() string {
	var sb strings.Builder
	sb.WriteString("invalid module descriptor")
	if e.Name != "" {
		fmt.Fprintf(&sb, " %q", e.Name)
	}
	if e.Source != "" {
		fmt.Fprintf(&sb, " (%s)", e.Source)
	}
	switch len(e.FieldErrors) {
	case 0:
	case 1:
		sb.WriteString(": ")
		sb.WriteString(e.FieldErrors[0].Error())
	default:
		fmt.Fprintf(&sb, ": %d problems:", len(e.FieldErrors))
		for _, fe := range e.FieldErrors {
			sb.WriteString("\n  - ")
			sb.WriteString(fe.Error())
		}
	}
	return sb.String()
}

// Unwrap returns ErrInvalidDescriptor for errors.Is() compatibility.
func (e *InvalidDescriptorError) Unwrap() error { return ErrInvalidDescriptor }

// Error implements the error interface for DuplicateModuleError.
func (e *DuplicateModuleError) Error() string {
	if e.FirstSource == "" && e.SecondSource == "" {
		return fmt.Sprintf("module %q is declared more than once", e.Name)
	}
	return fmt.Sprintf("module %q is declared more than once (%s and %s)", e.Name, e.FirstSource, e.SecondSource)
}

// Unwrap returns ErrDuplicateModule for errors.Is() compatibility.
func (e *DuplicateModuleError) Unwrap() error { return ErrDuplicateModule }
