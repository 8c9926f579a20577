// SPDX-License-Identifier: MPL-2.0

package descriptor

import "slices"

// Descriptor declares one module's include scopes and dependency edges.
// Scopes and Dependencies keep declaration order. A Descriptor registered in
// a Store is never mutated; the With* helpers return modified copies.
type Descriptor struct {
	// Name uniquely identifies the module.
	Name ModuleName
	// Root is the module directory. Scope paths are synthesized below it.
	Root string
	// Scopes lists every declared include scope, public and private.
	Scopes []Scope
	// Dependencies lists every declared dependency, public and private.
	Dependencies []Dependency
	// PCHUsage is passed through to the compilation sink untouched.
	PCHUsage PCHUsage
	// Source is the file the descriptor was read from, if any.
	Source string
}

// New returns a descriptor with no scopes and no dependencies.
func New(name ModuleName, root string) Descriptor {
	return Descriptor{Name: name, Root: root}
}

// WithPublicScopes returns a copy of d with the scopes appended as public.
func (d Descriptor) WithPublicScopes(ids ...ScopeID) Descriptor {
	return d.withScopes(Public, ids)
}

// WithPrivateScopes returns a copy of d with the scopes appended as private.
func (d Descriptor) WithPrivateScopes(ids ...ScopeID) Descriptor {
	return d.withScopes(Private, ids)
}

// WithPublicDependencies returns a copy of d with the dependencies appended as public.
func (d Descriptor) WithPublicDependencies(names ...ModuleName) Descriptor {
	return d.withDependencies(Public, names)
}

// WithPrivateDependencies returns a copy of d with the dependencies appended as private.
func (d Descriptor) WithPrivateDependencies(names ...ModuleName) Descriptor {
	return d.withDependencies(Private, names)
}

// WithPCHUsage returns a copy of d with the precompiled header policy set.
func (d Descriptor) WithPCHUsage(p PCHUsage) Descriptor {
	c := d.Clone()
	c.PCHUsage = p
	return c
}

func (d Descriptor) withScopes(v Visibility, ids []ScopeID) Descriptor {
	c := d.Clone()
	for _, id := range ids {
		c.Scopes = append(c.Scopes, Scope{ID: id, Visibility: v})
	}
	return c
}

func (d Descriptor) withDependencies(v Visibility, names []ModuleName) Descriptor {
	c := d.Clone()
	for _, n := range names {
		c.Dependencies = append(c.Dependencies, Dependency{Name: n, Visibility: v})
	}
	return c
}

// Clone returns a deep copy of d.
func (d Descriptor) Clone() Descriptor {
	c := d
	c.Scopes = slices.Clone(d.Scopes)
	c.Dependencies = slices.Clone(d.Dependencies)
	return c
}

// PublicScopes returns the public scope identifiers in declaration order.
func (d Descriptor) PublicScopes() []ScopeID { return d.scopes(Public) }

// PrivateScopes returns the private scope identifiers in declaration order.
func (d Descriptor) PrivateScopes() []ScopeID { return d.scopes(Private) }

// PublicDependencies returns the public dependency names in declaration order.
func (d Descriptor) PublicDependencies() []ModuleName { return d.dependencies(Public) }

// PrivateDependencies returns the private dependency names in declaration order.
func (d Descriptor) PrivateDependencies() []ModuleName { return d.dependencies(Private) }

func (d Descriptor) scopes(v Visibility) []ScopeID {
	var out []ScopeID
	for _, s := range d.Scopes {
		if s.Visibility == v {
			out = append(out, s.ID)
		}
	}
	return out
}

func (d Descriptor) dependencies(v Visibility) []ModuleName {
	var out []ModuleName
	for _, dep := range d.Dependencies {
		if dep.Visibility == v {
			out = append(out, dep.Name)
		}
	}
	return out
}

// IsValid checks the descriptor's own invariants: a well-formed name, valid
// and unique scope identifiers, well-formed dependency names, and a known
// PCH policy. A module listing itself as a dependency is not rejected here;
// the graph builder reports it as a dependency cycle.
func (d Descriptor) IsValid() (bool, []error) {
	var errs []error
	if ok, fieldErrs := d.Name.IsValid(); !ok {
		errs = append(errs, fieldErrs...)
	}

	seen := make(map[ScopeID]bool, len(d.Scopes))
	for _, s := range d.Scopes {
		if ok, fieldErrs := s.ID.IsValid(); !ok {
			errs = append(errs, fieldErrs...)
			continue
		}
		if ok, fieldErrs := s.Visibility.IsValid(); !ok {
			errs = append(errs, fieldErrs...)
		}
		if seen[s.ID] {
			errs = append(errs, &DuplicateScopeError{Module: d.Name, Scope: s.ID})
			continue
		}
		seen[s.ID] = true
	}

	for _, dep := range d.Dependencies {
		if ok, fieldErrs := dep.Name.IsValid(); !ok {
			errs = append(errs, fieldErrs...)
		}
		if ok, fieldErrs := dep.Visibility.IsValid(); !ok {
			errs = append(errs, fieldErrs...)
		}
	}

	if ok, fieldErrs := d.PCHUsage.IsValid(); !ok {
		errs = append(errs, fieldErrs...)
	}

	if len(errs) > 0 {
		return false, []error{&InvalidDescriptorError{Name: d.Name, Source: d.Source, FieldErrors: errs}}
	}
	return true, nil
}
