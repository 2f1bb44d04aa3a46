// Package graph holds the static zone/connection model the planner and the
// scheduler share. A Graph is assembled with a Builder, validated once, and is
// read-only afterwards.
package graph

import "fmt"

// NodeID is a stable handle into the graph's node arena.
type NodeID int

// EdgeID is a stable handle into the graph's edge arena.
type EdgeID int

// None is the zero handle for "no node" / "no edge".
const None = -1

// Node is a zone agents can occupy.
type Node struct {
	ID       NodeID
	Name     string
	Category Category
	Capacity int // Unbounded for start and end

	// Cosmetic attributes, never read by planning or scheduling.
	Color string
	X, Y  int
}

// Cost returns the turns required to enter the node.
func (n *Node) Cost() int {
	return n.Category.MovementCost()
}

// Bounded reports whether the node has a finite capacity.
func (n *Node) Bounded() bool {
	return n.Capacity != Unbounded
}

func (n *Node) String() string {
	return n.Name
}

// Edge is a connection between two zones.
type Edge struct {
	ID       EdgeID
	From     NodeID
	To       NodeID
	Capacity int
	Directed bool
}

// Other returns the endpoint opposite to id.
func (e *Edge) Other(id NodeID) NodeID {
	if e.From == id {
		return e.To
	}
	return e.From
}

// Adjacent is one entry of a node's adjacency list.
type Adjacent struct {
	Edge     EdgeID
	Neighbor NodeID
}

// NodeSpec describes a node to add to a Builder.
type NodeSpec struct {
	Name     string
	Category Category
	Capacity int
	Color    string
	X, Y     int
}

// EdgeSpec describes an edge to add to a Builder.
type EdgeSpec struct {
	From     string
	To       string
	Capacity int
	Directed bool
}

type pair struct {
	from, to NodeID
}

func edgeLabel(a, b string) string {
	return fmt.Sprintf("%s-%s", a, b)
}
