package algorithms

import (
	"testing"

	"github.com/Prashant-Bharaj/fly-in/pkg/graph"
	"github.com/Prashant-Bharaj/fly-in/pkg/graph/graphtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiversePaths_ExclusiveExit(t *testing.T) {
	g := graphtest.Build(t, graphtest.Fork())

	paths, err := DiversePaths(g, g.Source(), g.Sink(), 5, DiverseOptions{Strategy: ExclusiveExit})
	require.NoError(t, err)

	// Only two edges leave S, so k is capped at 2
	require.Len(t, paths, 2)
	assert.Equal(t, []string{"S", "a1", "a2", "T"}, paths[0].Names(g))
	assert.Equal(t, []string{"S", "b1", "b2", "T"}, paths[1].Names(g))
	assert.NotEqual(t, paths[0].FirstEdge(), paths[1].FirstEdge())
	for _, p := range paths {
		assert.Equal(t, 3, p.Cost())
	}
}

func TestDiversePaths_EdgePenaltyReportsTrueCost(t *testing.T) {
	g := graphtest.Build(t, graphtest.Fork())

	paths, err := DiversePaths(g, g.Source(), g.Sink(), 5, DiverseOptions{Strategy: EdgePenalty, Penalty: 100})
	require.NoError(t, err)

	require.Len(t, paths, 2)
	for _, p := range paths {
		assert.Equal(t, 3, p.Cost(), "penalties must not leak into the reported cost")
	}
}

func TestDiversePaths_SingleExit(t *testing.T) {
	g := graphtest.Build(t, graphtest.LinearChain())

	for _, strategy := range []Strategy{ExclusiveExit, EdgePenalty} {
		t.Run(strategy.String(), func(t *testing.T) {
			paths, err := DiversePaths(g, g.Source(), g.Sink(), 4, DiverseOptions{Strategy: strategy})
			require.NoError(t, err)
			require.Len(t, paths, 1)
		})
	}
}

func TestDiversePaths_DoesNotMutateGraph(t *testing.T) {
	g := graphtest.Build(t, graphtest.Fork())

	before, err := ShortestPath(g, g.Source(), g.Sink())
	require.NoError(t, err)

	_, err = DiversePaths(g, g.Source(), g.Sink(), 3, DiverseOptions{Strategy: ExclusiveExit})
	require.NoError(t, err)
	_, err = DiversePaths(g, g.Source(), g.Sink(), 3, DiverseOptions{Strategy: EdgePenalty})
	require.NoError(t, err)

	after, err := ShortestPath(g, g.Source(), g.Sink())
	require.NoError(t, err)
	assert.True(t, before.Equal(after))
}

func TestDiversePaths_KeepsLongerAlternate(t *testing.T) {
	// Second exit leads through a restricted zone
	spec := graphtest.Spec{
		Nodes: []graph.NodeSpec{
			nodeSpec("S", graph.Start, 0),
			nodeSpec("fast", graph.Normal, 1),
			nodeSpec("slow", graph.Restricted, 1),
			nodeSpec("T", graph.End, 0),
		},
		Edges: []graph.EdgeSpec{
			edgeSpec("S", "fast", 1), edgeSpec("fast", "T", 1),
			edgeSpec("S", "slow", 1), edgeSpec("slow", "T", 1),
		},
	}
	g := graphtest.Build(t, spec)

	paths, err := DiversePaths(g, g.Source(), g.Sink(), 2, DiverseOptions{})
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.Equal(t, 2, paths[0].Cost())
	assert.Equal(t, 3, paths[1].Cost())
}

func TestParseStrategy(t *testing.T) {
	s, err := ParseStrategy("edge-penalty")
	require.NoError(t, err)
	assert.Equal(t, EdgePenalty, s)

	s, err = ParseStrategy("")
	require.NoError(t, err)
	assert.Equal(t, ExclusiveExit, s)

	_, err = ParseStrategy("random")
	assert.Error(t, err)
}

func TestPlanRoutes(t *testing.T) {
	g := graphtest.Build(t, graphtest.Fork())

	plan, err := PlanRoutes(g, DefaultPlanOptions())
	require.NoError(t, err)
	require.Len(t, plan.Diverse, 2)
	assert.Same(t, plan.Primary, plan.Diverse[0])

	t.Run("below threshold uses primary only", func(t *testing.T) {
		selected := plan.Select(5, 15)
		require.Len(t, selected, 1)
		assert.Same(t, plan.Primary, selected[0])
	})

	t.Run("at threshold uses diverse set", func(t *testing.T) {
		assert.Len(t, plan.Select(15, 15), 2)
	})

	t.Run("never more paths than agents", func(t *testing.T) {
		assert.Len(t, plan.Select(1, 0), 1)
	})
}
