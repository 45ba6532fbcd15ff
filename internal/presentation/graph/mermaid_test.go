package graph_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/eio/internal/presentation/graph"
	"github.com/aretw0/eio/pkg/domain"
	"github.com/aretw0/eio/pkg/geometry"
)

func TestGenerateMermaid(t *testing.T) {
	snap := &geometry.Snapshot{
		Bodies: []domain.Body{
			{Tag: 1, Loops: []int{1}},
			{Tag: 2, Loops: []int{-1, 2}},
		},
		Loops: []domain.Loop{
			{Tag: 1, Nodes: []int{10, -11}},
			{Tag: 2, Nodes: []int{12}},
		},
		Boundaries: []domain.Boundary{
			{Tag: 1, Left: 1, Right: 2},
			{Tag: 2, Left: 2, Right: 0},
		},
	}

	tests := []struct {
		name     string
		overlay  *graph.Overlay
		contains []string
		absent   []string
	}{
		{
			name: "Shapes",
			contains: []string{
				"graph TD\n",
				"b_1((\"body 1\"))",
				"l_1[\"loop 1\"]",
				"bd_1[[\"boundary 1\"]]",
			},
		},
		{
			name: "Orientation",
			contains: []string{
				"b_1 --> l_1",
				"b_2 -.-> l_1",
				"b_2 --> l_2",
				"l_1 --> e_10",
				"l_1 -.-> e_11",
			},
		},
		{
			name: "Boundary Sides",
			contains: []string{
				"bd_1 --- b_1",
				"bd_1 --- b_2",
				"bd_2 --- b_2",
			},
			absent: []string{"b_0", "classDef"},
		},
		{
			name:    "Overlay",
			overlay: &graph.Overlay{Bodies: []int{2, 2}},
			contains: []string{
				"classDef selected",
				"class b_2 selected;",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := graph.GenerateMermaid(snap, tt.overlay)
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
			for _, unwanted := range tt.absent {
				assert.NotContains(t, out, unwanted)
			}
			if tt.overlay != nil {
				assert.Equal(t, 1, strings.Count(out, "class b_2 selected;"))
			}
		})
	}
}
