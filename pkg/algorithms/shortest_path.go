package algorithms

import (
	"container/heap"

	"github.com/Prashant-Bharaj/fly-in/pkg/graph"
)

// label is a tentative distance. Labels compare by turn cost, then by the
// number of priority zones entered (more is better), then by node name.
type label struct {
	node     graph.NodeID
	cost     int
	priority int
	name     string
}

// better reports whether a is a strictly shorter distance than b. Node names
// are not part of the distance, only of the queue order.
func (a label) better(b label) bool {
	if a.cost != b.cost {
		return a.cost < b.cost
	}
	return a.priority > b.priority
}

func (a label) less(b label) bool {
	if a.cost != b.cost || a.priority != b.priority {
		return a.better(b)
	}
	return a.name < b.name
}

// labelQueue is a min-heap of labels.
type labelQueue []label

func (q labelQueue) Len() int           { return len(q) }
func (q labelQueue) Less(i, j int) bool { return q[i].less(q[j]) }
func (q labelQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }

func (q *labelQueue) Push(x any) {
	*q = append(*q, x.(label))
}

func (q *labelQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// search is one Dijkstra instance. Saturated edges and penalties belong to
// the instance, never to the shared graph.
type search struct {
	g         *graph.Graph
	saturated map[graph.EdgeID]bool
	penalty   map[graph.EdgeID]int
}

func newSearch(g *graph.Graph) *search {
	return &search{
		g:         g,
		saturated: make(map[graph.EdgeID]bool),
		penalty:   make(map[graph.EdgeID]int),
	}
}

// ShortestPath finds the minimum entry-cost route from source to sink.
// Relaxing u->v costs the movement cost of v; blocked nodes are never
// relaxed. Equal-cost routes resolve the same way on every run.
func ShortestPath(g *graph.Graph, source, sink graph.NodeID) (*Path, error) {
	return newSearch(g).run(source, sink)
}

func (s *search) run(source, sink graph.NodeID) (*Path, error) {
	n := s.g.NodeCount()
	dist := make([]label, n)
	reached := make([]bool, n)
	settled := make([]bool, n)
	parent := make([]graph.NodeID, n)
	via := make([]graph.EdgeID, n)

	start := label{node: source, name: s.g.Node(source).Name}
	dist[source] = start
	reached[source] = true
	parent[source] = graph.None
	via[source] = graph.None

	pq := &labelQueue{}
	heap.Init(pq)
	heap.Push(pq, start)

	for pq.Len() > 0 {
		cur := heap.Pop(pq).(label)
		if settled[cur.node] {
			continue
		}
		settled[cur.node] = true

		if cur.node == sink {
			break
		}

		for _, adj := range s.g.Neighbors(cur.node) {
			if s.saturated[adj.Edge] || settled[adj.Neighbor] {
				continue
			}
			next := s.g.Node(adj.Neighbor)
			if !next.Category.Traversable() {
				continue
			}
			cand := label{
				node:     adj.Neighbor,
				cost:     cur.cost + next.Cost() + s.penalty[adj.Edge],
				priority: cur.priority,
				name:     next.Name,
			}
			if next.Category == graph.Priority {
				cand.priority++
			}
			if reached[adj.Neighbor] && !cand.better(dist[adj.Neighbor]) {
				continue
			}
			dist[adj.Neighbor] = cand
			reached[adj.Neighbor] = true
			parent[adj.Neighbor] = cur.node
			via[adj.Neighbor] = adj.Edge
			heap.Push(pq, cand)
		}
	}

	if !settled[sink] {
		return nil, &PathNotFoundError{
			From: s.g.Node(source).Name,
			To:   s.g.Node(sink).Name,
		}
	}
	return s.reconstruct(source, sink, parent, via), nil
}

// reconstruct walks parents back from the sink and reverses the result.
func (s *search) reconstruct(source, sink graph.NodeID, parent []graph.NodeID, via []graph.EdgeID) *Path {
	nodes := make([]graph.NodeID, 0)
	edges := make([]graph.EdgeID, 0)
	for node := sink; node != source; node = parent[node] {
		nodes = append(nodes, node)
		edges = append(edges, via[node])
	}
	nodes = append(nodes, source)

	for i, j := 0, len(nodes)-1; i < j; i, j = i+1, j-1 {
		nodes[i], nodes[j] = nodes[j], nodes[i]
	}
	for i, j := 0, len(edges)-1; i < j; i, j = i+1, j-1 {
		edges[i], edges[j] = edges[j], edges[i]
	}

	p := &Path{nodes: nodes, edges: edges}
	p.cost, p.priority = trueCost(s.g, nodes)
	return p
}
