package algorithms

import (
	"testing"

	"github.com/Prashant-Bharaj/fly-in/pkg/graph"
	"github.com/Prashant-Bharaj/fly-in/pkg/graph/graphtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	nodeSpec = graphtest.N
	edgeSpec = graphtest.E
)

// TestShortestPath_LinearPath tests A->B->C
func TestShortestPath_LinearPath(t *testing.T) {
	g := graphtest.Build(t, graphtest.LinearChain())

	path, err := ShortestPath(g, g.Source(), g.Sink())
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B", "C"}, path.Names(g))
	assert.Equal(t, 2, path.Cost())
	assert.Equal(t, 2, path.Hops())
	assert.Equal(t, "A -> B -> C", path.Format(g))
}

// TestShortestPath_RestrictedCostsTwo checks the entry cost of a restricted zone
func TestShortestPath_RestrictedCostsTwo(t *testing.T) {
	g := graphtest.Build(t, graphtest.RestrictedDetour())

	path, err := ShortestPath(g, g.Source(), g.Sink())
	require.NoError(t, err)
	assert.Equal(t, 3, path.Cost())
}

// TestShortestPath_AvoidsRestrictedWhenCheaper prefers two normal hops over
// one restricted hop plus the exit.
func TestShortestPath_AvoidsRestrictedWhenCheaper(t *testing.T) {
	// S -> R(restricted) -> T costs 3
	// S -> M1 -> T costs 2
	spec := graphtest.Spec{
		Nodes: []graph.NodeSpec{
			nodeSpec("S", graph.Start, 0),
			nodeSpec("R", graph.Restricted, 1),
			nodeSpec("M1", graph.Normal, 1),
			nodeSpec("T", graph.End, 0),
		},
		Edges: []graph.EdgeSpec{
			edgeSpec("S", "R", 1), edgeSpec("R", "T", 1),
			edgeSpec("S", "M1", 1), edgeSpec("M1", "T", 1),
		},
	}
	g := graphtest.Build(t, spec)

	path, err := ShortestPath(g, g.Source(), g.Sink())
	require.NoError(t, err)
	assert.Equal(t, []string{"S", "M1", "T"}, path.Names(g))
	assert.Equal(t, 2, path.Cost())
}

// TestShortestPath_TieBreaksOnName checks that equal-cost routes resolve
// deterministically by node name.
func TestShortestPath_TieBreaksOnName(t *testing.T) {
	spec := graphtest.Spec{
		Nodes: []graph.NodeSpec{
			nodeSpec("S", graph.Start, 0),
			nodeSpec("zeta", graph.Normal, 1),
			nodeSpec("alpha", graph.Normal, 1),
			nodeSpec("T", graph.End, 0),
		},
		Edges: []graph.EdgeSpec{
			edgeSpec("S", "zeta", 1), edgeSpec("zeta", "T", 1),
			edgeSpec("S", "alpha", 1), edgeSpec("alpha", "T", 1),
		},
	}
	g := graphtest.Build(t, spec)

	for i := 0; i < 10; i++ {
		path, err := ShortestPath(g, g.Source(), g.Sink())
		require.NoError(t, err)
		assert.Equal(t, []string{"S", "alpha", "T"}, path.Names(g))
	}
}

// TestShortestPath_PrefersPriority checks that a priority zone wins a tie
// even against a lexicographically smaller name.
func TestShortestPath_PrefersPriority(t *testing.T) {
	spec := graphtest.Spec{
		Nodes: []graph.NodeSpec{
			nodeSpec("S", graph.Start, 0),
			nodeSpec("alpha", graph.Normal, 1),
			nodeSpec("zeta", graph.Priority, 1),
			nodeSpec("T", graph.End, 0),
		},
		Edges: []graph.EdgeSpec{
			edgeSpec("S", "alpha", 1), edgeSpec("alpha", "T", 1),
			edgeSpec("S", "zeta", 1), edgeSpec("zeta", "T", 1),
		},
	}
	g := graphtest.Build(t, spec)

	path, err := ShortestPath(g, g.Source(), g.Sink())
	require.NoError(t, err)
	assert.Equal(t, []string{"S", "zeta", "T"}, path.Names(g))
	assert.Equal(t, 1, path.PriorityZones())
	assert.Equal(t, 2, path.Cost())
}

// TestShortestPath_BlockedOnlyRoute covers the planner refusing to route
// through a blocked zone. The model would reject such a graph outright, so
// the search is run between two nodes the blocked zone separates.
func TestShortestPath_BlockedOnlyRoute(t *testing.T) {
	spec := graphtest.Spec{
		Nodes: []graph.NodeSpec{
			nodeSpec("S", graph.Start, 0),
			nodeSpec("M", graph.Normal, 1),
			nodeSpec("X", graph.Blocked, 0),
			nodeSpec("Q", graph.Normal, 1),
			nodeSpec("T", graph.End, 0),
		},
		Edges: []graph.EdgeSpec{
			edgeSpec("S", "M", 1), edgeSpec("M", "T", 1),
			edgeSpec("M", "X", 1), edgeSpec("X", "Q", 1),
		},
	}
	g := graphtest.Build(t, spec)
	m, _ := g.Lookup("M")
	q, _ := g.Lookup("Q")

	path, err := ShortestPath(g, m, q)
	assert.Nil(t, path)
	require.Error(t, err)
	assert.True(t, IsPathNotFound(err))

	var pnf *PathNotFoundError
	require.ErrorAs(t, err, &pnf)
	assert.Equal(t, "M", pnf.From)
	assert.Equal(t, "Q", pnf.To)
}

// TestShortestPath_DirectedEdges respects edge direction
func TestShortestPath_DirectedEdges(t *testing.T) {
	spec := graphtest.Spec{
		Nodes: []graph.NodeSpec{
			nodeSpec("S", graph.Start, 0),
			nodeSpec("A", graph.Normal, 1),
			nodeSpec("B", graph.Normal, 1),
			nodeSpec("T", graph.End, 0),
		},
		Edges: []graph.EdgeSpec{
			{From: "S", To: "A", Capacity: 1, Directed: true},
			{From: "T", To: "A", Capacity: 1, Directed: true},
			{From: "A", To: "B", Capacity: 1, Directed: true},
			{From: "B", To: "T", Capacity: 1, Directed: true},
		},
	}
	g := graphtest.Build(t, spec)

	path, err := ShortestPath(g, g.Source(), g.Sink())
	require.NoError(t, err)
	assert.Equal(t, []string{"S", "A", "B", "T"}, path.Names(g))
}

func TestNewPath_Validation(t *testing.T) {
	g := graphtest.Build(t, graphtest.Crossing())

	p, err := PathByNames(g, "S", "B", "C", "T")
	require.NoError(t, err)
	assert.Equal(t, 3, p.Cost())

	_, err = PathByNames(g, "S", "T")
	assert.ErrorIs(t, err, ErrInvalidPath)

	_, err = PathByNames(g, "B", "T")
	assert.ErrorIs(t, err, ErrInvalidPath)

	_, err = PathByNames(g, "S", "nowhere", "T")
	assert.ErrorIs(t, err, ErrInvalidPath)

	_, err = NewPath(g, nil)
	assert.ErrorIs(t, err, ErrEmptyPath)
}
