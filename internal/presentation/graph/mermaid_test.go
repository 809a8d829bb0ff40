package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/txgraph/internal/presentation/graph"
	"github.com/aretw0/txgraph/pkg/edges"
)

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		doc      *edges.Document
		overlay  *graph.MermaidOverlay
		contains []string
	}{
		{
			name: "Plain Edge",
			doc:  &edges.Document{Edges: []edges.Edge{{Payer: "A", Recipient: "B"}}},
			contains: []string{
				"graph LR",
				`A["A"]`,
				"A --> B",
			},
		},
		{
			name: "Annotated Edge",
			doc: &edges.Document{Edges: []edges.Edge{
				{Payer: "A", Recipient: "B", Annotation: `2023-01-01\nBTC1.0`},
			}},
			contains: []string{
				`A -- "2023-01-01<br/>BTC1.0" --> B`,
			},
		},
		{
			name:    "Seed Overlay",
			doc:     &edges.Document{Edges: []edges.Edge{{Payer: "S1", Recipient: "B"}}},
			overlay: &graph.MermaidOverlay{Seeds: []string{"S1", "S1"}},
			contains: []string{
				"classDef seed",
				"class S1 seed;",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(tt.doc, tt.overlay)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("GenerateMermaid() = \n%v\nWant substring: %v", got, want)
				}
			}
			if tt.overlay != nil && strings.Count(got, "class S1 seed;") != 1 {
				t.Errorf("seed styled more than once:\n%v", got)
			}
		})
	}
}

func TestGenerateMermaid_NodesDeclaredOnce(t *testing.T) {
	doc := &edges.Document{Edges: []edges.Edge{
		{Payer: "A", Recipient: "B"},
		{Payer: "A", Recipient: "C"},
		{Payer: "C", Recipient: "A"},
	}}
	got := graph.GenerateMermaid(doc, nil)
	if n := strings.Count(got, `A["A"]`); n != 1 {
		t.Errorf("node A declared %d times:\n%v", n, got)
	}
}
