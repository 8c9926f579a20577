// SPDX-License-Identifier: MPL-2.0

package descriptor

import (
	"errors"
	"slices"
)

// Store is the immutable set of descriptors for one resolution pass, keyed
// by module name. Iteration follows registration order, which callers make
// deterministic (the loader registers in sorted file order).
type Store struct {
	order  []ModuleName
	byName map[ModuleName]Descriptor
	index  map[ModuleName]int
}

// NewStore validates every descriptor and builds a Store. All problems are
// collected and returned together: invalid descriptors as
// *InvalidDescriptorError and repeated names as *DuplicateModuleError.
func NewStore(descs ...Descriptor) (*Store, error) {
	s := &Store{
		order:  make([]ModuleName, 0, len(descs)),
		byName: make(map[ModuleName]Descriptor, len(descs)),
		index:  make(map[ModuleName]int, len(descs)),
	}

	var errs []error
	for _, d := range descs {
		if ok, fieldErrs := d.IsValid(); !ok {
			errs = append(errs, fieldErrs...)
			continue
		}
		if prev, exists := s.byName[d.Name]; exists {
			errs = append(errs, &DuplicateModuleError{Name: d.Name, FirstSource: prev.Source, SecondSource: d.Source})
			continue
		}
		s.index[d.Name] = len(s.order)
		s.order = append(s.order, d.Name)
		s.byName[d.Name] = d.Clone()
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return s, nil
}

// Len returns the number of registered modules.
func (s *Store) Len() int { return len(s.order) }

// Names returns module names in registration order.
func (s *Store) Names() []ModuleName { return slices.Clone(s.order) }

// Has reports whether a module with the given name is registered.
func (s *Store) Has(name ModuleName) bool {
	_, ok := s.byName[name]
	return ok
}

// Lookup returns a copy of the named descriptor.
func (s *Store) Lookup(name ModuleName) (Descriptor, bool) {
	d, ok := s.byName[name]
	if !ok {
		return Descriptor{}, false
	}
	return d.Clone(), true
}

// Index returns the registration position of name, or -1 when absent.
func (s *Store) Index(name ModuleName) int {
	if i, ok := s.index[name]; ok {
		return i
	}
	return -1
}

// Descriptors returns copies of all descriptors in registration order.
func (s *Store) Descriptors() []Descriptor {
	out := make([]Descriptor, len(s.order))
	for i, name := range s.order {
		out[i] = s.byName[name].Clone()
	}
	return out
}
