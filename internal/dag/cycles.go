// SPDX-License-Identifier: MPL-2.0

package dag

import "slices"

type color uint8

const (
	white color = iota
	gray
	black
)

// FindCycles runs a three-color depth-first search and returns one closed
// path per back edge, e.g. [A B A]. A self-loop yields [A A]. Roots are taken
// in insertion order, so the same graph always yields the same cycles in the
// same order. Every elementary cycle contains at least one back edge, so a
// graph with no result is acyclic; not every elementary cycle is listed.
func (g *Graph) FindCycles() [][]string {
	colors := make(map[string]color, len(g.nodes))
	var (
		stack  []string
		cycles [][]string
	)

	var visit func(n string)
	visit = func(n string) {
		colors[n] = gray
		stack = append(stack, n)
		for _, next := range g.adjacency[n] {
			switch colors[next] {
			case white:
				visit(next)
			case gray:
				start := slices.Index(stack, next)
				cycle := slices.Clone(stack[start:])
				cycles = append(cycles, append(cycle, next))
			case black:
				// Cross or forward edge.
			}
		}
		stack = stack[:len(stack)-1]
		colors[n] = black
	}

	for _, n := range g.nodes {
		if colors[n] == white {
			visit(n)
		}
	}
	return cycles
}

// StronglyConnected returns the strongly connected components of the graph
// (Tarjan). Components are listed in the order their first member was added
// and members keep insertion order.
func (g *Graph) StronglyConnected() [][]string {
	var (
		index   int
		stack   []string
		onStack = make(map[string]bool, len(g.nodes))
		indices = make(map[string]int, len(g.nodes))
		lowlink = make(map[string]int, len(g.nodes))
		comp    = make(map[string]int, len(g.nodes))
		count   int
	)

	var strongConnect func(v string)
	strongConnect = func(v string) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range g.adjacency[v] {
			if _, seen := indices[w]; !seen {
				strongConnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		if lowlink[v] == indices[v] {
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				comp[w] = count
				if w == v {
					break
				}
			}
			count++
		}
	}

	for _, n := range g.nodes {
		if _, seen := indices[n]; !seen {
			strongConnect(n)
		}
	}

	// Regroup by insertion order rather than discovery order.
	slot := make(map[int]int, count)
	var out [][]string
	for _, n := range g.nodes {
		c := comp[n]
		i, ok := slot[c]
		if !ok {
			i = len(out)
			slot[c] = i
			out = append(out, nil)
		}
		out[i] = append(out[i], n)
	}
	return out
}

// CyclicNodes returns every node that lies on a cycle: members of a strongly
// connected component with more than one node, and nodes with a self-loop.
func (g *Graph) CyclicNodes() map[string]bool {
	out := make(map[string]bool)
	for _, c := range g.StronglyConnected() {
		if len(c) > 1 {
			for _, n := range c {
				out[n] = true
			}
			continue
		}
		if g.HasEdge(c[0], c[0]) {
			out[c[0]] = true
		}
	}
	return out
}
