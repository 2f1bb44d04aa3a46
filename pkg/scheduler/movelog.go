package scheduler

import (
	"fmt"

	"github.com/Prashant-Bharaj/fly-in/pkg/graph"
)

// Action is what an agent did in a turn. Holds are never logged.
type Action int

const (
	// EnterEdge starts a multi-turn entry: the agent leaves From and is on
	// Edge until the transit resolves into To.
	EnterEdge Action = iota
	// CompleteTransit resolves a transit: the agent leaves Edge and is
	// resident at To.
	CompleteTransit
	// EnterNode is a single-turn move from From to To over Edge.
	EnterNode
)

// String returns the label used in logs and metrics.
func (a Action) String() string {
	switch a {
	case EnterEdge:
		return "enter_edge"
	case CompleteTransit:
		return "complete_transit"
	case EnterNode:
		return "enter_node"
	default:
		return "unknown"
	}
}

// Move is one logged agent action.
type Move struct {
	Agent  int
	Action Action
	From   graph.NodeID
	To     graph.NodeID
	Edge   graph.EdgeID
}

// Turn is the set of moves committed in one turn, in commit order: transit
// resolutions first (by agent id), then move attempts in processing order.
type Turn struct {
	Number int
	Moves  []Move
}

// Result is the outcome of a run.
type Result struct {
	RunID  string
	Turns  int
	Log    []Turn
	Agents []Agent // final agent states, sorted by id
}

// Position is where an agent is at the end of a frame.
type Position struct {
	Agent  int
	Node   graph.NodeID // graph.None while in transit
	Edge   graph.EdgeID // graph.None while resident
	Target graph.NodeID // transit destination, graph.None while resident
}

// Frame is the fleet after a given turn; frame 0 is the initial placement.
type Frame struct {
	Turn      int
	Positions []Position // in the order of the agents passed to Replay
	NodeLoad  map[graph.NodeID]int
	EdgeLoad  map[graph.EdgeID]int // in transit at the end of the turn plus single-turn crossings during it
}

// Replay re-applies a move log to the initial agents and returns one frame
// per turn, starting with frame 0. It checks that every move starts where the
// agent actually is, so it doubles as an independent audit of a log.
func Replay(g *graph.Graph, agents []Agent, log []Turn) ([]Frame, error) {
	index := make(map[int]int, len(agents))
	pos := make([]Position, len(agents))
	for i, a := range agents {
		if _, dup := index[a.ID]; dup {
			return nil, invalidAgent(a.ID, "duplicate id")
		}
		index[a.ID] = i
		start := g.Source()
		if a.Path != nil {
			start = a.Path.Node(0)
		}
		pos[i] = Position{Agent: a.ID, Node: start, Edge: graph.None, Target: graph.None}
	}

	frames := make([]Frame, 0, len(log)+1)
	frames = append(frames, newFrame(0, pos, nil))

	for _, turn := range log {
		var crossings []graph.EdgeID
		for _, m := range turn.Moves {
			i, ok := index[m.Agent]
			if !ok {
				return nil, fmt.Errorf("turn %d: %w", turn.Number, invalidAgent(m.Agent, "not in roster"))
			}
			p := &pos[i]
			switch m.Action {
			case EnterNode:
				if p.Node != m.From {
					return nil, replayMismatch(g, turn.Number, m, p.Node)
				}
				p.Node = m.To
				crossings = append(crossings, m.Edge)
			case EnterEdge:
				if p.Node != m.From {
					return nil, replayMismatch(g, turn.Number, m, p.Node)
				}
				p.Node, p.Edge, p.Target = graph.None, m.Edge, m.To
			case CompleteTransit:
				if p.Edge != m.Edge || p.Target != m.To {
					return nil, fmt.Errorf("turn %d: D%d completes transit it never started", turn.Number, m.Agent)
				}
				p.Node, p.Edge, p.Target = m.To, graph.None, graph.None
			default:
				return nil, fmt.Errorf("turn %d: unknown action %d", turn.Number, m.Action)
			}
		}
		frames = append(frames, newFrame(turn.Number, pos, crossings))
	}
	return frames, nil
}

func newFrame(turn int, pos []Position, crossings []graph.EdgeID) Frame {
	f := Frame{
		Turn:      turn,
		Positions: append([]Position(nil), pos...),
		NodeLoad:  make(map[graph.NodeID]int),
		EdgeLoad:  make(map[graph.EdgeID]int),
	}
	for _, p := range pos {
		if p.Edge != graph.None {
			f.EdgeLoad[p.Edge]++
		} else {
			f.NodeLoad[p.Node]++
		}
	}
	for _, e := range crossings {
		f.EdgeLoad[e]++
	}
	return f
}

func replayMismatch(g *graph.Graph, turn int, m Move, at graph.NodeID) error {
	where := "an edge"
	if at != graph.None {
		where = g.Node(at).Name
	}
	return fmt.Errorf("turn %d: D%d %s from %s but is at %s",
		turn, m.Agent, m.Action, g.Node(m.From).Name, where)
}
