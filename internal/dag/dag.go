// SPDX-License-Identifier: MPL-2.0

// Package dag provides the directed graph operations behind module
// resolution: cycle enumeration, strongly connected components, and
// topological ordering. Every operation is deterministic: nodes are visited
// in insertion order and successors in the order their edges were added.
package dag

import (
	"fmt"
	"slices"
	"strings"
)

type (
	// CycleError indicates that the graph contains a cycle, preventing
	// topological ordering.
	CycleError struct {
		// Cycle lists the nodes left unordered. It identifies the problem but
		// is not necessarily a single closed path.
		Cycle []string
	}

	// Graph is a directed graph keyed by node name. An edge from A to B means
	// A must come before B in a topological order.
	Graph struct {
		// adjacency maps each node to its outgoing neighbors in insertion order.
		adjacency map[string][]string
		// nodes tracks all nodes in insertion order for deterministic output.
		nodes []string
		// nodeSet provides O(1) lookup for node existence.
		nodeSet map[string]bool
		// edgeSet suppresses parallel edges.
		edgeSet map[[2]string]bool
	}
)

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle detected: %s", strings.Join(e.Cycle, " -> "))
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		adjacency: make(map[string][]string),
		nodeSet:   make(map[string]bool),
		edgeSet:   make(map[[2]string]bool),
	}
}

// AddNode adds a node to the graph. If the node already exists, this is a no-op.
func (g *Graph) AddNode(name string) {
	if g.nodeSet[name] {
		return
	}
	g.nodeSet[name] = true
	g.nodes = append(g.nodes, name)
}

// AddEdge adds a directed edge from -> to. Both nodes are implicitly added.
// Adding an existing edge again is a no-op.
func (g *Graph) AddEdge(from, to string) {
	g.AddNode(from)
	g.AddNode(to)
	key := [2]string{from, to}
	if g.edgeSet[key] {
		return
	}
	g.edgeSet[key] = true
	g.adjacency[from] = append(g.adjacency[from], to)
}

// HasNode reports whether name is in the graph.
func (g *Graph) HasNode(name string) bool { return g.nodeSet[name] }

// HasEdge reports whether the edge from -> to exists.
func (g *Graph) HasEdge(from, to string) bool { return g.edgeSet[[2]string{from, to}] }

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []string { return slices.Clone(g.nodes) }

// Successors returns the outgoing neighbors of name in insertion order.
func (g *Graph) Successors(name string) []string { return slices.Clone(g.adjacency[name]) }

// Reverse returns a graph with every edge flipped and the same node order.
func (g *Graph) Reverse() *Graph {
	r := New()
	for _, n := range g.nodes {
		r.AddNode(n)
	}
	for _, from := range g.nodes {
		for _, to := range g.adjacency[from] {
			r.AddEdge(to, from)
		}
	}
	return r
}

// Subgraph returns the graph induced by the nodes for which keep returns
// true, preserving node and edge order.
func (g *Graph) Subgraph(keep func(string) bool) *Graph {
	s := New()
	for _, n := range g.nodes {
		if keep(n) {
			s.AddNode(n)
		}
	}
	for _, from := range s.nodes {
		for _, to := range g.adjacency[from] {
			if s.nodeSet[to] {
				s.AddEdge(from, to)
			}
		}
	}
	return s
}

// TopologicalSort returns a valid ordering using Kahn's algorithm.
// Returns CycleError if the graph contains a cycle.
// The returned order is deterministic: nodes at the same topological level
// appear in the order they were first added to the graph.
func (g *Graph) TopologicalSort() ([]string, error) {
	if len(g.nodes) == 0 {
		return nil, nil
	}

	inDegree := make(map[string]int, len(g.nodes))
	for _, node := range g.nodes {
		inDegree[node] = 0
	}
	for _, neighbors := range g.adjacency {
		for _, neighbor := range neighbors {
			inDegree[neighbor]++
		}
	}

	// Seed the queue with nodes that have no incoming edges, in insertion order.
	queue := make([]string, 0)
	for _, node := range g.nodes {
		if inDegree[node] == 0 {
			queue = append(queue, node)
		}
	}

	var result []string
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		result = append(result, node)

		for _, neighbor := range g.adjacency[node] {
			inDegree[neighbor]--
			if inDegree[neighbor] == 0 {
				queue = append(queue, neighbor)
			}
		}
	}

	if len(result) != len(g.nodes) {
		var cycleNodes []string
		for _, node := range g.nodes {
			if inDegree[node] > 0 {
				cycleNodes = append(cycleNodes, node)
			}
		}
		return nil, &CycleError{Cycle: cycleNodes}
	}

	return result, nil
}
