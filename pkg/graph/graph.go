package graph

// Graph is the validated, immutable zone model. All accessors are read-only
// and safe for concurrent use.
type Graph struct {
	nodes   []Node
	edges   []Edge
	index   map[string]NodeID
	adj     [][]Adjacent
	between map[pair]EdgeID
	source  NodeID
	sink    NodeID
}

// Source returns the start node handle.
func (g *Graph) Source() NodeID { return g.source }

// Sink returns the end node handle.
func (g *Graph) Sink() NodeID { return g.sink }

// NodeCount returns the number of nodes, blocked ones included.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Node returns the node for a handle. The pointer must not be modified.
func (g *Graph) Node(id NodeID) *Node {
	return &g.nodes[id]
}

// Edge returns the edge for a handle. The pointer must not be modified.
func (g *Graph) Edge(id EdgeID) *Edge {
	return &g.edges[id]
}

// Lookup resolves a node name.
func (g *Graph) Lookup(name string) (NodeID, bool) {
	id, ok := g.index[name]
	return id, ok
}

// Neighbors lists the traversable neighbors of id sorted by name. Blocked
// nodes never appear.
func (g *Graph) Neighbors(id NodeID) []Adjacent {
	return g.adj[id]
}

// EdgeBetween returns the edge that allows travel from u to v.
func (g *Graph) EdgeBetween(u, v NodeID) (EdgeID, bool) {
	id, ok := g.between[pair{u, v}]
	return id, ok
}

// Nodes returns every node in handle order.
func (g *Graph) Nodes() []Node {
	out := make([]Node, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Edges returns every edge in handle order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// EdgeName renders an edge as "from-to" in the given travel direction.
func (g *Graph) EdgeName(id EdgeID, from NodeID) string {
	e := &g.edges[id]
	return edgeLabel(g.nodes[from].Name, g.nodes[e.Other(from)].Name)
}
