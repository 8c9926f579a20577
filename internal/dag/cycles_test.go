// SPDX-License-Identifier: MPL-2.0

package dag

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func build(edges ...[2]string) *Graph {
	g := New()
	for _, e := range edges {
		g.AddEdge(e[0], e[1])
	}
	return g
}

func TestFindCycles(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		graph *Graph
		want  [][]string
	}{
		{"acyclic", build([2]string{"UI", "Player"}, [2]string{"Player", "Core"}), nil},
		{"self loop", build([2]string{"A", "A"}), [][]string{{"A", "A"}}},
		{"two node cycle", build([2]string{"A", "B"}, [2]string{"B", "A"}), [][]string{{"A", "B", "A"}}},
		{
			"cycle below an acyclic prefix",
			build([2]string{"App", "A"}, [2]string{"A", "B"}, [2]string{"B", "C"}, [2]string{"C", "A"}),
			[][]string{{"A", "B", "C", "A"}},
		},
		{
			"two back edges into one node",
			build([2]string{"A", "B"}, [2]string{"B", "A"}, [2]string{"A", "C"}, [2]string{"C", "A"}),
			[][]string{{"A", "B", "A"}, {"A", "C", "A"}},
		},
		{
			"diamond is not a cycle",
			build([2]string{"A", "B"}, [2]string{"A", "C"}, [2]string{"B", "D"}, [2]string{"C", "D"}),
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if diff := cmp.Diff(tt.want, tt.graph.FindCycles()); diff != "" {
				t.Errorf("FindCycles() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFindCyclesIsDeterministic(t *testing.T) {
	t.Parallel()

	edges := [][2]string{{"A", "B"}, {"B", "C"}, {"C", "A"}, {"C", "D"}, {"D", "B"}}
	first := build(edges...).FindCycles()
	for range 20 {
		if diff := cmp.Diff(first, build(edges...).FindCycles()); diff != "" {
			t.Fatalf("FindCycles() not deterministic (-first +got):\n%s", diff)
		}
	}
}

func TestStronglyConnected(t *testing.T) {
	t.Parallel()

	g := build(
		[2]string{"UI", "A"},
		[2]string{"A", "B"},
		[2]string{"B", "A"},
		[2]string{"B", "Core"},
		[2]string{"Self", "Self"},
	)

	want := [][]string{{"UI"}, {"A", "B"}, {"Core"}, {"Self"}}
	if diff := cmp.Diff(want, g.StronglyConnected()); diff != "" {
		t.Errorf("StronglyConnected() mismatch (-want +got):\n%s", diff)
	}

	wantCyclic := map[string]bool{"A": true, "B": true, "Self": true}
	if diff := cmp.Diff(wantCyclic, g.CyclicNodes()); diff != "" {
		t.Errorf("CyclicNodes() mismatch (-want +got):\n%s", diff)
	}
}
