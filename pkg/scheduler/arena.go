package scheduler

import (
	"math"

	"github.com/Prashant-Bharaj/fly-in/pkg/graph"
)

// nodeSlot holds the live counters for one node. Entries are indexed by
// graph.NodeID so counters sit next to the capacity they are checked against.
type nodeSlot struct {
	capacity  int
	bounded   bool
	occupancy int // agents resident here, arrived agents included
	reserved  int // slots promised to agents in transit (reserve-on-entry)
}

// edgeSlot holds the live counters for one edge.
type edgeSlot struct {
	capacity  int
	inFlight  int // agents in transit on the edge
	crossings int // single-turn moves over the edge this turn
}

type arena struct {
	nodes []nodeSlot
	edges []edgeSlot
}

func newArena(g *graph.Graph) *arena {
	a := &arena{
		nodes: make([]nodeSlot, g.NodeCount()),
		edges: make([]edgeSlot, g.EdgeCount()),
	}
	for i := range a.nodes {
		n := g.Node(graph.NodeID(i))
		a.nodes[i] = nodeSlot{capacity: n.Capacity, bounded: n.Bounded()}
	}
	for i := range a.edges {
		a.edges[i] = edgeSlot{capacity: g.Edge(graph.EdgeID(i)).Capacity}
	}
	return a
}

// nodeFree returns the free slots of a node.
func (a *arena) nodeFree(id graph.NodeID) int {
	n := &a.nodes[id]
	if !n.bounded {
		return math.MaxInt
	}
	return n.capacity - n.occupancy - n.reserved
}

// edgeFree returns the free slots of an edge this turn.
func (a *arena) edgeFree(id graph.EdgeID) int {
	e := &a.edges[id]
	return e.capacity - e.inFlight - e.crossings
}

// beginTurn clears the per-turn crossing counts.
func (a *arena) beginTurn() {
	for i := range a.edges {
		a.edges[i].crossings = 0
	}
}

func (a *arena) inFlight() int {
	total := 0
	for i := range a.edges {
		total += a.edges[i].inFlight
	}
	return total
}
