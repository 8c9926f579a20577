// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/modgraph/modgraph/pkg/descriptor"
)

func TestBuildGraphEdgeOrder(t *testing.T) {
	t.Parallel()

	store := mustStore(t,
		mod("Game").WithPrivateDependencies("Audio", "Core").WithPublicDependencies("Engine", "Core"),
		mod("Engine"), mod("Audio"), mod("Core"),
	)
	g := BuildGraph(store)

	want := []Edge{
		{From: "Game", To: "Engine", Visibility: descriptor.Public},
		{From: "Game", To: "Core", Visibility: descriptor.Public},
		{From: "Game", To: "Audio", Visibility: descriptor.Private},
	}
	if diff := cmp.Diff(want, g.Edges("Game")); diff != "" {
		t.Errorf("Edges(Game) mismatch (-want +got):\n%s", diff)
	}
	if got := want[2].String(); got != "Game -> Audio (private)" {
		t.Errorf("Edge.String() = %q", got)
	}
	if len(g.Diagnostics()) != 0 {
		t.Errorf("unexpected diagnostics: %v", g.Diagnostics())
	}
}

func TestBuildGraphCycles(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		descs      []descriptor.Descriptor
		wantCycles [][]descriptor.ModuleName
		wantCyclic []descriptor.ModuleName
	}{
		{
			name:       "self dependency",
			descs:      []descriptor.Descriptor{mod("A").WithPrivateDependencies("A")},
			wantCycles: [][]descriptor.ModuleName{{"A", "A"}},
			wantCyclic: []descriptor.ModuleName{"A"},
		},
		{
			name: "three module ring with a tail",
			descs: []descriptor.Descriptor{
				mod("Tail").WithPublicDependencies("A"),
				mod("A").WithPublicDependencies("B"),
				mod("B").WithPrivateDependencies("C"),
				mod("C").WithPublicDependencies("A"),
			},
			wantCycles: [][]descriptor.ModuleName{{"A", "B", "C", "A"}},
			wantCyclic: []descriptor.ModuleName{"A", "B", "C"},
		},
		{
			name: "member reached only by a cross edge",
			descs: []descriptor.Descriptor{
				mod("R").WithPublicDependencies("A", "V"),
				mod("A").WithPublicDependencies("R"),
				mod("V").WithPublicDependencies("A"),
			},
			wantCycles: [][]descriptor.ModuleName{{"R", "A", "R"}},
			wantCyclic: []descriptor.ModuleName{"R", "A", "V"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			g := BuildGraph(mustStore(t, tt.descs...))
			if diff := cmp.Diff(tt.wantCycles, g.Cycles()); diff != "" {
				t.Errorf("Cycles() mismatch (-want +got):\n%s", diff)
			}
			var cyclic []descriptor.ModuleName
			for _, d := range tt.descs {
				if g.Cyclic(d.Name) {
					cyclic = append(cyclic, d.Name)
				}
			}
			if diff := cmp.Diff(tt.wantCyclic, cyclic); diff != "" {
				t.Errorf("cyclic modules mismatch (-want +got):\n%s", diff)
			}
			for _, name := range tt.wantCyclic {
				if len(g.cycleDiagnostics(name)) == 0 {
					t.Errorf("%s has no cycle diagnostic in its component", name)
				}
			}
		})
	}
}

func TestBuildOrder(t *testing.T) {
	t.Parallel()

	store := mustStore(t,
		mod("UI").WithPrivateDependencies("Player"),
		mod("Tools"),
		mod("Player").WithPublicDependencies("Core"),
		mod("Core"),
	)
	want := []descriptor.ModuleName{"Tools", "Core", "Player", "UI"}
	if diff := cmp.Diff(want, BuildGraph(store).BuildOrder()); diff != "" {
		t.Errorf("BuildOrder() mismatch (-want +got):\n%s", diff)
	}
}
