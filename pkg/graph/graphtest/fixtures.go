// Package graphtest builds small graphs for tests.
package graphtest

import (
	"testing"

	"github.com/Prashant-Bharaj/fly-in/pkg/graph"
	"github.com/stretchr/testify/require"
)

// Spec is a compact graph description: nodes in insertion order and
// undirected edges.
type Spec struct {
	Nodes []graph.NodeSpec
	Edges []graph.EdgeSpec
}

// N is shorthand for a node spec.
func N(name string, cat graph.Category, capacity int) graph.NodeSpec {
	return graph.NodeSpec{Name: name, Category: cat, Capacity: capacity}
}

// E is shorthand for an undirected edge spec.
func E(from, to string, capacity int) graph.EdgeSpec {
	return graph.EdgeSpec{From: from, To: to, Capacity: capacity}
}

// Build assembles the spec and fails the test on any model error.
func Build(t testing.TB, spec Spec) *graph.Graph {
	t.Helper()
	g, err := Try(spec)
	require.NoError(t, err)
	return g
}

// Try assembles the spec and returns the first error.
func Try(spec Spec) (*graph.Graph, error) {
	b := graph.NewBuilder()
	for _, n := range spec.Nodes {
		if _, err := b.AddNode(n); err != nil {
			return nil, err
		}
	}
	for _, e := range spec.Edges {
		if _, err := b.AddEdge(e); err != nil {
			return nil, err
		}
	}
	return b.Build()
}

// LinearChain is A(start) - B(capacity 1) - C(end) with capacity 1 links.
func LinearChain() Spec {
	return Spec{
		Nodes: []graph.NodeSpec{
			N("A", graph.Start, 0),
			N("B", graph.Normal, 1),
			N("C", graph.End, 0),
		},
		Edges: []graph.EdgeSpec{E("A", "B", 1), E("B", "C", 1)},
	}
}

// RestrictedDetour is A(start) - R(restricted, capacity 1) - Z(end).
func RestrictedDetour() Spec {
	return Spec{
		Nodes: []graph.NodeSpec{
			N("A", graph.Start, 0),
			N("R", graph.Restricted, 1),
			N("Z", graph.End, 0),
		},
		Edges: []graph.EdgeSpec{E("A", "R", 1), E("R", "Z", 1)},
	}
}

// Fork has two disjoint two-hop branches from S to T, each capacity 1.
func Fork() Spec {
	return Spec{
		Nodes: []graph.NodeSpec{
			N("S", graph.Start, 0),
			N("a1", graph.Normal, 1),
			N("a2", graph.Normal, 1),
			N("b1", graph.Normal, 1),
			N("b2", graph.Normal, 1),
			N("T", graph.End, 0),
		},
		Edges: []graph.EdgeSpec{
			E("S", "a1", 1), E("a1", "a2", 1), E("a2", "T", 1),
			E("S", "b1", 1), E("b1", "b2", 1), E("b2", "T", 1),
		},
	}
}

// Crossing is a square S-B-C-T plus the diagonal B-C, letting two agents
// swap positions on B and C.
func Crossing() Spec {
	return Spec{
		Nodes: []graph.NodeSpec{
			N("S", graph.Start, 0),
			N("B", graph.Normal, 1),
			N("C", graph.Normal, 1),
			N("T", graph.End, 0),
		},
		Edges: []graph.EdgeSpec{
			E("S", "B", 1), E("S", "C", 1),
			E("B", "C", 1),
			E("B", "T", 1), E("C", "T", 1),
		},
	}
}
