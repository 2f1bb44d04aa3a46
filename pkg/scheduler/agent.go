// Package scheduler advances a fleet of agents along planned paths in
// synchronized turns, enforcing zone and connection capacity, and reports a
// deadlock when a turn passes without any agent making progress.
package scheduler

import (
	"github.com/Prashant-Bharaj/fly-in/pkg/algorithms"
	"github.com/Prashant-Bharaj/fly-in/pkg/graph"
)

// State is the lifecycle state of an agent.
type State int

const (
	// Resident agents occupy a node and may attempt a move.
	Resident State = iota
	// Transit agents are on an edge, waiting for a multi-turn entry to finish.
	Transit
	// Arrived agents are resident at the sink and never move again.
	Arrived
)

func (s State) String() string {
	switch s {
	case Resident:
		return "resident"
	case Transit:
		return "transit"
	case Arrived:
		return "arrived"
	default:
		return "unknown"
	}
}

// Agent is one drone and its assigned route. Only the scheduler changes its
// state; callers build agents with NewAgent or AssignRoundRobin and read them
// back from Result.Agents.
type Agent struct {
	ID   int
	Path *algorithms.Path

	state     State
	cursor    int // index of the next node to enter on Path
	countdown int // turns left before a transit resolves
	node      graph.NodeID
	edge      graph.EdgeID
	settledAt int // turn in which the agent last resolved a transit
}

// NewAgent places an agent on the first node of its path.
func NewAgent(id int, path *algorithms.Path) Agent {
	a := Agent{
		ID:     id,
		Path:   path,
		state:  Resident,
		cursor: 1,
		node:   graph.None,
		edge:   graph.None,
	}
	if path != nil {
		a.node = path.Node(0)
	}
	return a
}

// AssignRoundRobin creates n agents with ids 1..n, handing agent i the path
// paths[(i-1) mod len(paths)].
func AssignRoundRobin(paths []*algorithms.Path, n int) []Agent {
	if len(paths) == 0 || n <= 0 {
		return nil
	}
	agents := make([]Agent, n)
	for i := range agents {
		agents[i] = NewAgent(i+1, paths[i%len(paths)])
	}
	return agents
}

// State returns the lifecycle state.
func (a *Agent) State() State { return a.state }

// Cursor returns the index on Path of the next node to enter.
func (a *Agent) Cursor() int { return a.cursor }

// Countdown returns the turns left in the current transit.
func (a *Agent) Countdown() int { return a.countdown }

// Node returns the node the agent occupies, or graph.None in transit.
func (a *Agent) Node() graph.NodeID { return a.node }

// Edge returns the edge the agent is travelling, or graph.None.
func (a *Agent) Edge() graph.EdgeID { return a.edge }

// Next returns the node the agent will enter next, or graph.None once it
// has arrived.
func (a *Agent) Next() graph.NodeID {
	if a.state == Arrived || a.cursor >= a.Path.Len() {
		return graph.None
	}
	return a.Path.Node(a.cursor)
}

// nextEdge is the edge between the current node and Next.
func (a *Agent) nextEdge() graph.EdgeID {
	return a.Path.Edge(a.cursor - 1)
}

// depart moves a resident agent onto an edge for a multi-turn entry.
func (a *Agent) depart(edge graph.EdgeID, cost int) {
	a.state = Transit
	a.node = graph.None
	a.edge = edge
	a.countdown = cost - 1
}

// settle makes the agent resident at node, advancing its cursor.
func (a *Agent) settle(node, sink graph.NodeID) {
	a.node = node
	a.edge = graph.None
	a.countdown = 0
	a.cursor++
	if node == sink {
		a.state = Arrived
	} else {
		a.state = Resident
	}
}
