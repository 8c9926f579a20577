// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"fmt"
	"strings"

	"github.com/modgraph/modgraph/internal/dag"
	"github.com/modgraph/modgraph/pkg/descriptor"
)

type (
	// Edge is one validated dependency edge.
	Edge struct {
		From       descriptor.ModuleName
		To         descriptor.ModuleName
		Visibility descriptor.Visibility
	}

	// DependencyGraph is the module graph built from declared edges. Edges to
	// unknown modules are omitted; cycles are recorded but kept.
	DependencyGraph struct {
		store  *descriptor.Store
		edges  map[descriptor.ModuleName][]Edge
		dag    *dag.Graph
		cycles [][]descriptor.ModuleName
		cyclic map[descriptor.ModuleName]bool
		// component maps each module to its strongly connected component.
		component map[descriptor.ModuleName]int
		diags     []Diagnostic
	}
)

// String formats the edge as "A -> B (public)".
func (e Edge) String() string {
	return fmt.Sprintf("%s -> %s (%s)", e.From, e.To, e.Visibility)
}

// BuildGraph builds and validates the dependency graph of store. Per module,
// public edges come first, then private ones, each in declared order; a name
// listed twice collapses into one edge and public wins. Every name missing
// from the store yields one UnknownModule diagnostic. Every back edge found
// by depth-first search yields one CyclicDependency diagnostic naming the
// closed path, attached to the module the path starts at.
func BuildGraph(store *descriptor.Store) *DependencyGraph {
	g := &DependencyGraph{
		store:     store,
		edges:     make(map[descriptor.ModuleName][]Edge, store.Len()),
		dag:       dag.New(),
		cyclic:    make(map[descriptor.ModuleName]bool),
		component: make(map[descriptor.ModuleName]int, store.Len()),
	}

	for _, d := range store.Descriptors() {
		g.dag.AddNode(string(d.Name))
	}

	for _, d := range store.Descriptors() {
		seen := make(map[descriptor.ModuleName]bool, len(d.Dependencies))
		add := func(dep descriptor.ModuleName, v descriptor.Visibility) {
			if seen[dep] {
				return
			}
			seen[dep] = true
			if !store.Has(dep) {
				g.diags = append(g.diags, Diagnostic{
					Module:   d.Name,
					Kind:     KindUnknownModule,
					Severity: SeverityError,
					Stage:    StageGraph,
					Related:  dep,
					Detail:   fmt.Sprintf("module %q depends on %q, which is not registered", d.Name, dep),
				})
				return
			}
			g.edges[d.Name] = append(g.edges[d.Name], Edge{From: d.Name, To: dep, Visibility: v})
			g.dag.AddEdge(string(d.Name), string(dep))
		}
		for _, dep := range d.PublicDependencies() {
			add(dep, descriptor.Public)
		}
		for _, dep := range d.PrivateDependencies() {
			add(dep, descriptor.Private)
		}
	}

	for _, cycle := range g.dag.FindCycles() {
		names := make([]descriptor.ModuleName, len(cycle))
		for i, n := range cycle {
			names[i] = descriptor.ModuleName(n)
		}
		g.cycles = append(g.cycles, names)
		g.diags = append(g.diags, Diagnostic{
			Module:   names[0],
			Kind:     KindCyclicDependency,
			Severity: SeverityError,
			Stage:    StageGraph,
			Related:  names[1],
			Cycle:    names,
			Detail:   "dependency cycle: " + strings.Join(cycle, " -> "),
		})
	}

	for n := range g.dag.CyclicNodes() {
		g.cyclic[descriptor.ModuleName(n)] = true
	}
	for i, comp := range g.dag.StronglyConnected() {
		for _, n := range comp {
			g.component[descriptor.ModuleName(n)] = i
		}
	}

	return g
}

// Edges returns the validated outgoing edges of a module.
func (g *DependencyGraph) Edges(name descriptor.ModuleName) []Edge {
	return append([]Edge(nil), g.edges[name]...)
}

// Cyclic reports whether the module lies on a dependency cycle.
func (g *DependencyGraph) Cyclic(name descriptor.ModuleName) bool { return g.cyclic[name] }

// Cycles returns every reported cycle as a closed path.
func (g *DependencyGraph) Cycles() [][]descriptor.ModuleName {
	out := make([][]descriptor.ModuleName, len(g.cycles))
	for i, c := range g.cycles {
		out[i] = append([]descriptor.ModuleName(nil), c...)
	}
	return out
}

// Diagnostics returns the UnknownModule and CyclicDependency diagnostics in
// emission order.
func (g *DependencyGraph) Diagnostics() []Diagnostic {
	return append([]Diagnostic(nil), g.diags...)
}

// cycleDiagnostics returns the cycle diagnostics of the component that
// contains name.
func (g *DependencyGraph) cycleDiagnostics(name descriptor.ModuleName) []Diagnostic {
	var out []Diagnostic
	for _, d := range g.diags {
		if d.Kind == KindCyclicDependency && g.component[d.Module] == g.component[name] {
			out = append(out, d)
		}
	}
	return out
}

// BuildOrder returns the acyclic modules in dependency-first order; ties keep
// store order. Modules on a cycle are left out.
func (g *DependencyGraph) BuildOrder() []descriptor.ModuleName {
	acyclic := g.dag.Subgraph(func(n string) bool { return !g.cyclic[descriptor.ModuleName(n)] })
	order, err := acyclic.Reverse().TopologicalSort()
	if err != nil {
		// Unreachable: every node on a cycle was excluded.
		return nil
	}
	out := make([]descriptor.ModuleName, len(order))
	for i, n := range order {
		out[i] = descriptor.ModuleName(n)
	}
	return out
}

// cycleFor returns the first reported cycle in the component of name.
func (g *DependencyGraph) cycleFor(name descriptor.ModuleName) []descriptor.ModuleName {
	for _, d := range g.cycleDiagnostics(name) {
		return d.Cycle
	}
	return []descriptor.ModuleName{name}
}
