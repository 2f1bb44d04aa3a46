package algorithms

import (
	"strings"

	"github.com/Prashant-Bharaj/fly-in/pkg/graph"
)

// Path is an immutable route from the source to the sink. Agents share a
// Path by pointer; nothing may modify it after the planner returns it.
type Path struct {
	nodes    []graph.NodeID
	edges    []graph.EdgeID // edges[i] joins nodes[i] and nodes[i+1]
	cost     int
	priority int
}

// NewPath validates that every hop is backed by an edge and computes the
// cumulative entry cost. It is used for externally assigned routes.
func NewPath(g *graph.Graph, nodes []graph.NodeID) (*Path, error) {
	if len(nodes) == 0 {
		return nil, ErrEmptyPath
	}
	if nodes[0] != g.Source() || nodes[len(nodes)-1] != g.Sink() {
		return nil, &InvalidPathError{Reason: "path must run from source to sink"}
	}
	edges := make([]graph.EdgeID, 0, len(nodes)-1)
	for i := 0; i+1 < len(nodes); i++ {
		next := g.Node(nodes[i+1])
		if !next.Category.Traversable() {
			return nil, &InvalidPathError{Reason: "path enters blocked node " + next.Name}
		}
		e, ok := g.EdgeBetween(nodes[i], nodes[i+1])
		if !ok {
			return nil, &InvalidPathError{Reason: "no edge " + g.Node(nodes[i]).Name + "-" + next.Name}
		}
		edges = append(edges, e)
	}
	p := &Path{
		nodes: append([]graph.NodeID(nil), nodes...),
		edges: edges,
	}
	p.cost, p.priority = trueCost(g, p.nodes)
	return p, nil
}

// PathByNames resolves node names and delegates to NewPath.
func PathByNames(g *graph.Graph, names ...string) (*Path, error) {
	ids := make([]graph.NodeID, 0, len(names))
	for _, name := range names {
		id, ok := g.Lookup(name)
		if !ok {
			return nil, &InvalidPathError{Reason: "unknown node " + name}
		}
		ids = append(ids, id)
	}
	return NewPath(g, ids)
}

// Len returns the number of nodes on the path, source and sink included.
func (p *Path) Len() int { return len(p.nodes) }

// Hops returns the number of edges on the path.
func (p *Path) Hops() int { return len(p.edges) }

// Node returns the i-th node.
func (p *Path) Node(i int) graph.NodeID { return p.nodes[i] }

// Edge returns the edge between node i and node i+1.
func (p *Path) Edge(i int) graph.EdgeID { return p.edges[i] }

// Cost is the sum of movement costs of every entered node (source excluded).
func (p *Path) Cost() int { return p.cost }

// PriorityZones counts priority nodes along the path.
func (p *Path) PriorityZones() int { return p.priority }

// FirstEdge returns the edge leaving the source.
func (p *Path) FirstEdge() graph.EdgeID {
	if len(p.edges) == 0 {
		return graph.None
	}
	return p.edges[0]
}

// Nodes returns a copy of the node sequence.
func (p *Path) Nodes() []graph.NodeID {
	return append([]graph.NodeID(nil), p.nodes...)
}

// Equal reports whether both paths visit the same nodes in the same order.
func (p *Path) Equal(other *Path) bool {
	if other == nil || len(p.nodes) != len(other.nodes) {
		return false
	}
	for i := range p.nodes {
		if p.nodes[i] != other.nodes[i] {
			return false
		}
	}
	return true
}

// Names returns the node names along the path.
func (p *Path) Names(g *graph.Graph) []string {
	out := make([]string, len(p.nodes))
	for i, id := range p.nodes {
		out[i] = g.Node(id).Name
	}
	return out
}

// Format renders the path as "A -> B -> C".
func (p *Path) Format(g *graph.Graph) string {
	return strings.Join(p.Names(g), " -> ")
}

// trueCost sums entry costs on the unmodified graph.
func trueCost(g *graph.Graph, nodes []graph.NodeID) (cost, priority int) {
	for _, id := range nodes[1:] {
		n := g.Node(id)
		cost += n.Cost()
		if n.Category == graph.Priority {
			priority++
		}
	}
	return cost, priority
}
