package scheduler

import (
	"github.com/Prashant-Bharaj/fly-in/pkg/graph"
)

// verify recounts node occupancy and edge in-flight from agent positions and
// compares them with the arena counters, then checks every bounded resource
// against its capacity.
func (s *scheduler) verify() error {
	occupancy := make([]int, len(s.arena.nodes))
	inFlight := make([]int, len(s.arena.edges))

	for i := range s.roster {
		a := &s.roster[i]
		switch a.state {
		case Resident, Arrived:
			if a.node == graph.None || a.edge != graph.None {
				return s.invariant("position", agentLabel(a.ID), 1, 0)
			}
			occupancy[a.node]++
		case Transit:
			if a.edge == graph.None || a.node != graph.None {
				return s.invariant("position", agentLabel(a.ID), 1, 0)
			}
			inFlight[a.edge]++
		}
	}

	for i := range s.arena.nodes {
		n := &s.arena.nodes[i]
		name := s.g.Node(graph.NodeID(i)).Name
		if n.occupancy != occupancy[i] {
			return s.invariant("occupancy", name, occupancy[i], n.occupancy)
		}
		if n.bounded && n.occupancy+n.reserved > n.capacity {
			return s.invariant("node capacity", name, n.capacity, n.occupancy+n.reserved)
		}
	}
	for i := range s.arena.edges {
		e := &s.arena.edges[i]
		if e.inFlight != inFlight[i] {
			return s.invariant("in-flight", s.edgeName(graph.EdgeID(i)), inFlight[i], e.inFlight)
		}
		if e.inFlight+e.crossings > e.capacity {
			return s.invariant("edge capacity", s.edgeName(graph.EdgeID(i)), e.capacity, e.inFlight+e.crossings)
		}
	}
	return nil
}

func (s *scheduler) invariant(kind, subject string, want, got int) error {
	return &InvariantError{Turn: s.turn, Kind: kind, Subject: subject, Want: want, Got: got}
}

func (s *scheduler) edgeName(id graph.EdgeID) string {
	return s.g.EdgeName(id, s.g.Edge(id).From)
}
