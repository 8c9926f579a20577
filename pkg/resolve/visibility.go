// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"fmt"
	"slices"
	"strings"

	"github.com/modgraph/modgraph/pkg/descriptor"
)

type (
	// reachEntry is a module in a transitive set with its hop distance.
	reachEntry struct {
		name  descriptor.ModuleName
		depth int
	}

	// visibility computes include and link sets over one graph. The exported
	// surface of each module is computed once.
	visibility struct {
		graph    *DependencyGraph
		paths    map[descriptor.ModuleName]ModulePaths
		exported map[descriptor.ModuleName][]reachEntry
		visiting map[descriptor.ModuleName]bool
		diags    []Diagnostic
	}
)

func newVisibility(g *DependencyGraph, paths map[descriptor.ModuleName]ModulePaths) *visibility {
	return &visibility{
		graph:    g,
		paths:    paths,
		exported: make(map[descriptor.ModuleName][]reachEntry),
		visiting: make(map[descriptor.ModuleName]bool),
	}
}

// exportedSurface returns n followed by every module reachable from n over
// public edges, nearest first. A cyclic dependency is included but not
// traversed.
func (v *visibility) exportedSurface(n descriptor.ModuleName) []reachEntry {
	if cached, ok := v.exported[n]; ok {
		return cached
	}
	if v.visiting[n] {
		v.diags = append(v.diags, Diagnostic{
			Module:   n,
			Kind:     KindCyclicDependency,
			Severity: SeverityError,
			Stage:    StageVisibility,
			Related:  n,
			Cycle:    []descriptor.ModuleName{n, n},
			Detail:   fmt.Sprintf("module %q re-entered while computing its own exported surface", n),
		})
		return []reachEntry{{name: n}}
	}
	v.visiting[n] = true
	defer delete(v.visiting, n)

	entries := []reachEntry{{name: n}}
	for _, e := range v.graph.Edges(n) {
		if e.Visibility != descriptor.Public {
			continue
		}
		entries = append(entries, v.through(e.To)...)
	}
	result := nearestFirst(entries)
	v.exported[n] = result
	return result
}

// through returns what a module gains by depending on dep: dep's exported
// surface, one hop further away.
func (v *visibility) through(dep descriptor.ModuleName) []reachEntry {
	var surface []reachEntry
	if v.graph.Cyclic(dep) {
		surface = []reachEntry{{name: dep}}
	} else {
		surface = v.exportedSurface(dep)
	}
	out := make([]reachEntry, len(surface))
	for i, e := range surface {
		out[i] = reachEntry{name: e.name, depth: e.depth + 1}
	}
	return out
}

// reach returns every module whose public paths m may include and whose
// binary m links against: the exported surface of each direct dependency,
// public edges before private ones.
func (v *visibility) reach(m descriptor.ModuleName) []reachEntry {
	var entries []reachEntry
	for _, e := range v.graph.Edges(m) {
		entries = append(entries, v.through(e.To)...)
	}
	reach := nearestFirst(entries)
	return slices.DeleteFunc(reach, func(e reachEntry) bool { return e.name == m })
}

// resolve computes the include and link sets of one module.
func (v *visibility) resolve(d descriptor.Descriptor) ResolvedModule {
	own := v.paths[d.Name]
	rm := ResolvedModule{
		Name:               d.Name,
		PCHUsage:           d.PCHUsage,
		PublicIncludePaths: dedupe(own.PublicPaths()),
		LinkModules:        []descriptor.ModuleName{},
	}
	includes := slices.Concat(own.PublicPaths(), own.PrivatePaths())

	if v.graph.Cyclic(d.Name) {
		rm.Cyclic = true
		rm.IncludePaths = dedupe(includes)
		return rm
	}

	for _, e := range v.reach(d.Name) {
		includes = append(includes, v.paths[e.name].PublicPaths()...)
		rm.LinkModules = append(rm.LinkModules, e.name)
		if v.graph.Cyclic(e.name) {
			v.diags = append(v.diags, Diagnostic{
				Module:   d.Name,
				Kind:     KindCyclicDependency,
				Severity: SeverityWarning,
				Stage:    StageVisibility,
				Related:  e.name,
				Detail: fmt.Sprintf("dependency %q is part of a dependency cycle; only its own public paths are visible (%s)",
					e.name, strings.Join(namesOf(v.graph.cycleFor(e.name)), " -> ")),
			})
		}
	}
	rm.IncludePaths = dedupe(includes)
	return rm
}

// nearestFirst orders entries by depth, keeping the given order among equal
// depths, and keeps the first occurrence of each module.
func nearestFirst(entries []reachEntry) []reachEntry {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b reachEntry) int { return a.depth - b.depth })
	seen := make(map[descriptor.ModuleName]bool, len(sorted))
	out := sorted[:0]
	for _, e := range sorted {
		if seen[e.name] {
			continue
		}
		seen[e.name] = true
		out = append(out, e)
	}
	return out
}

func dedupe(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

func namesOf(names []descriptor.ModuleName) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = string(n)
	}
	return out
}
