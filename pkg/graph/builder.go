package graph

import (
	"sort"
	"strings"
)

// Builder accumulates nodes and edges until Build freezes them into a Graph.
type Builder struct {
	nodes []Node
	edges []Edge
	index map[string]NodeID
	built bool
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{
		index: make(map[string]NodeID),
	}
}

// AddNode registers a node and returns its handle. Names must be unique.
// Start and end nodes are always stored with an unbounded capacity.
func (b *Builder) AddNode(spec NodeSpec) (NodeID, error) {
	if b.built {
		return None, modelError(ErrFrozen, spec.Name, "")
	}
	name := strings.TrimSpace(spec.Name)
	if name == "" {
		return None, modelError(ErrEmptyName, "", "")
	}
	if _, exists := b.index[name]; exists {
		return None, modelError(ErrDuplicateNode, name, "")
	}

	capacity := spec.Capacity
	if spec.Category.Endpoint() {
		capacity = Unbounded
	}

	id := NodeID(len(b.nodes))
	b.nodes = append(b.nodes, Node{
		ID:       id,
		Name:     name,
		Category: spec.Category,
		Capacity: capacity,
		Color:    spec.Color,
		X:        spec.X,
		Y:        spec.Y,
	})
	b.index[name] = id
	return id, nil
}

// AddEdge registers a connection between two already added nodes.
func (b *Builder) AddEdge(spec EdgeSpec) (EdgeID, error) {
	if b.built {
		return None, modelError(ErrFrozen, edgeLabel(spec.From, spec.To), "")
	}
	from, ok := b.index[strings.TrimSpace(spec.From)]
	if !ok {
		return None, modelError(ErrUnknownNode, spec.From, "edge "+edgeLabel(spec.From, spec.To))
	}
	to, ok := b.index[strings.TrimSpace(spec.To)]
	if !ok {
		return None, modelError(ErrUnknownNode, spec.To, "edge "+edgeLabel(spec.From, spec.To))
	}

	id := EdgeID(len(b.edges))
	b.edges = append(b.edges, Edge{
		ID:       id,
		From:     from,
		To:       to,
		Capacity: spec.Capacity,
		Directed: spec.Directed,
	})
	return id, nil
}

// Build validates the accumulated model and returns the frozen Graph.
// The builder cannot be used afterwards.
func (b *Builder) Build() (*Graph, error) {
	if b.built {
		return nil, modelError(ErrFrozen, "", "")
	}

	g := &Graph{
		nodes:   b.nodes,
		edges:   b.edges,
		index:   b.index,
		between: make(map[pair]EdgeID, len(b.edges)*2),
		source:  None,
		sink:    None,
	}
	if err := g.validate(); err != nil {
		return nil, err
	}
	b.built = true
	return g, nil
}

// validate checks the model rules in a fixed order and stops at the first
// violation. On success the adjacency lists are populated.
func (g *Graph) validate() error {
	for i := range g.nodes {
		n := &g.nodes[i]
		switch n.Category {
		case Start:
			if g.source != None {
				return modelError(ErrDuplicateStart, n.Name, "already have "+g.nodes[g.source].Name)
			}
			g.source = n.ID
		case End:
			if g.sink != None {
				return modelError(ErrDuplicateEnd, n.Name, "already have "+g.nodes[g.sink].Name)
			}
			g.sink = n.ID
		}
	}
	if g.source == None {
		return modelError(ErrMissingStart, "", "")
	}
	if g.sink == None {
		return modelError(ErrMissingEnd, "", "")
	}

	for i := range g.nodes {
		n := &g.nodes[i]
		if n.Category.Traversable() && n.Bounded() && n.Capacity < 1 {
			return modelError(ErrInvalidCapacity, n.Name, "node capacity must be at least 1")
		}
	}

	for i := range g.edges {
		e := &g.edges[i]
		label := edgeLabel(g.nodes[e.From].Name, g.nodes[e.To].Name)
		if e.From == e.To {
			return modelError(ErrSelfLoop, label, "")
		}
		if e.Capacity < 1 {
			return modelError(ErrInvalidCapacity, label, "edge capacity must be at least 1")
		}
		forward := pair{e.From, e.To}
		if _, dup := g.between[forward]; dup {
			return modelError(ErrDuplicateEdge, label, "")
		}
		if !e.Directed {
			backward := pair{e.To, e.From}
			if _, dup := g.between[backward]; dup {
				return modelError(ErrDuplicateEdge, label, "")
			}
			g.between[backward] = e.ID
		}
		g.between[forward] = e.ID
	}

	g.buildAdjacency()

	if !g.reachable(g.source, g.sink) {
		return modelError(ErrUnreachableSink, g.nodes[g.sink].Name,
			"no route from "+g.nodes[g.source].Name+" through traversable nodes")
	}
	return nil
}

// buildAdjacency derives the traversable adjacency lists, sorted by neighbor
// name so every consumer iterates neighbors in the same order.
func (g *Graph) buildAdjacency() {
	g.adj = make([][]Adjacent, len(g.nodes))
	add := func(from, to NodeID, edge EdgeID) {
		if !g.nodes[to].Category.Traversable() || !g.nodes[from].Category.Traversable() {
			return
		}
		g.adj[from] = append(g.adj[from], Adjacent{Edge: edge, Neighbor: to})
	}
	for i := range g.edges {
		e := &g.edges[i]
		add(e.From, e.To, e.ID)
		if !e.Directed {
			add(e.To, e.From, e.ID)
		}
	}
	for _, list := range g.adj {
		sort.Slice(list, func(i, j int) bool {
			a, b := g.nodes[list[i].Neighbor].Name, g.nodes[list[j].Neighbor].Name
			if a != b {
				return a < b
			}
			return list[i].Edge < list[j].Edge
		})
	}
}

func (g *Graph) reachable(from, to NodeID) bool {
	seen := make([]bool, len(g.nodes))
	queue := []NodeID{from}
	seen[from] = true
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == to {
			return true
		}
		for _, a := range g.adj[cur] {
			if !seen[a.Neighbor] {
				seen[a.Neighbor] = true
				queue = append(queue, a.Neighbor)
			}
		}
	}
	return false
}
