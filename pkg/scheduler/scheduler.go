package scheduler

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/Prashant-Bharaj/fly-in/pkg/graph"
	"github.com/Prashant-Bharaj/fly-in/pkg/logging"
	"github.com/Prashant-Bharaj/fly-in/pkg/metrics"
)

type scheduler struct {
	g      *graph.Graph
	opts   Options
	logger logging.Logger
	arena  *arena
	roster []Agent // sorted by id
	rank   []int   // round-robin rank per roster index

	turn      int
	delivered int
	log       []Turn
}

// turnStats carries the per-turn counts reported to metrics and logs.
type turnStats struct {
	moves     map[string]int
	holds     map[string]int
	delivered int
}

// Run moves every agent from the source to the sink one turn at a time and
// returns the move log. Each turn first resolves finished transits, then lets
// resident agents attempt their next hop in a fixed order; a commit takes the
// slot immediately, so later agents in the same turn see it as used.
//
// Run fails with a *DeadlockError when a turn ends without any progress, and
// with an *InvariantError if VerifyInvariants finds the counters inconsistent.
// On failure the partial result is returned alongside the error.
func Run(g *graph.Graph, agents []Agent, opts Options) (*Result, error) {
	return RunContext(context.Background(), g, agents, opts)
}

// RunContext is Run with cancellation checked between turns. A cancelled run
// returns the partial result and an error wrapping ctx.Err().
func RunContext(ctx context.Context, g *graph.Graph, agents []Agent, opts Options) (*Result, error) {
	s, err := newScheduler(g, agents, opts)
	if err != nil {
		return nil, err
	}
	return s.run(ctx)
}

func newScheduler(g *graph.Graph, agents []Agent, opts Options) (*scheduler, error) {
	if len(agents) == 0 {
		return nil, ErrNoAgents
	}
	roster := make([]Agent, len(agents))
	copy(roster, agents)
	sort.SliceStable(roster, func(i, j int) bool { return roster[i].ID < roster[j].ID })

	for i := range roster {
		a := &roster[i]
		if i > 0 && roster[i-1].ID == a.ID {
			return nil, invalidAgent(a.ID, "duplicate id")
		}
		if a.Path == nil {
			return nil, invalidAgent(a.ID, "no path assigned")
		}
		if a.Path.Len() < 2 || a.Path.Node(0) != g.Source() || a.Path.Node(a.Path.Len()-1) != g.Sink() {
			return nil, invalidAgent(a.ID, "path does not run from source to sink")
		}
		// Start from the path head whatever state the caller passed in.
		*a = NewAgent(a.ID, a.Path)
	}

	if opts.Logger == nil {
		opts.Logger = logging.NewNopLogger()
	}
	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}

	s := &scheduler{
		g:      g,
		opts:   opts,
		logger: opts.Logger.With(logging.RunID(opts.RunID)),
		arena:  newArena(g),
		roster: roster,
		rank:   roundRobinRank(roster),
	}
	s.arena.nodes[g.Source()].occupancy = len(roster)
	return s, nil
}

func (s *scheduler) run(ctx context.Context) (*Result, error) {
	started := time.Now()
	s.logger.Info("simulation started",
		logging.Agents(len(s.roster)),
		logging.String("ordering", s.opts.Ordering.String()),
		logging.String("reservation", s.opts.Reservation.String()))

	var failure error
	for s.delivered < len(s.roster) {
		if err := ctx.Err(); err != nil {
			failure = fmt.Errorf("stopped before turn %d: %w", s.turn+1, err)
			break
		}
		turn, stats, denials, progressed := s.step()
		if !progressed {
			failure = &DeadlockError{Turn: s.turn, Blocked: denials}
			break
		}
		s.log = append(s.log, turn)
		s.delivered += stats.delivered
		s.opts.Metrics.RecordTurn(stats.moves, stats.holds, stats.delivered, s.arena.inFlight())

		if s.logger.GetLevel() <= logging.DebugLevel {
			s.logger.Debug("turn committed",
				logging.Turn(turn.Number),
				logging.Int("moves", len(turn.Moves)),
				logging.Int("holds", len(denials)),
				logging.Int("delivered", s.delivered))
		}

		if s.opts.VerifyInvariants {
			if err := s.verify(); err != nil {
				failure = err
				break
			}
		}
	}

	res := s.result()
	elapsed := time.Since(started)
	switch {
	case failure == nil:
		s.opts.Metrics.RecordRun(metrics.StatusSuccess, res.Turns, elapsed)
		s.logger.Info("simulation finished", logging.Turn(res.Turns), logging.Latency(elapsed))
		return res, nil
	case IsDeadlock(failure):
		s.opts.Metrics.RecordRun(metrics.StatusDeadlock, res.Turns, elapsed)
	default:
		s.opts.Metrics.RecordRun(metrics.StatusError, res.Turns, elapsed)
	}
	s.logger.Error("simulation failed", logging.Turn(s.turn), logging.Error(failure))
	return res, failure
}

// step plays one turn. progressed is false when nothing changed at all.
func (s *scheduler) step() (Turn, turnStats, []Denial, bool) {
	s.turn++
	s.arena.beginTurn()

	turn := Turn{Number: s.turn}
	stats := turnStats{moves: make(map[string]int), holds: make(map[string]int)}
	var denials []Denial
	progressed := false

	record := func(m Move) {
		turn.Moves = append(turn.Moves, m)
		stats.moves[m.Action.String()]++
		if m.To == s.g.Sink() {
			stats.delivered++
		}
		progressed = true
	}
	deny := func(d Denial) {
		denials = append(denials, d)
		stats.holds[d.Reason.String()]++
	}

	// Arrival resolution.
	for i := range s.roster {
		a := &s.roster[i]
		if a.state != Transit {
			continue
		}
		if a.countdown > 0 {
			a.countdown--
			progressed = true
			if a.countdown > 0 {
				continue
			}
		}
		if m, d, ok := s.resolve(a); ok {
			record(m)
		} else {
			deny(d)
		}
	}

	// Move attempts. Free slots are read from the live counters, which
	// already reflect this turn's resolutions and earlier commits.
	for _, i := range processingOrder(s.roster, s.rank, s.opts.Ordering) {
		a := &s.roster[i]
		if a.state != Resident || a.settledAt == s.turn {
			continue
		}
		if m, d, ok := s.attempt(a); ok {
			record(m)
		} else {
			deny(d)
		}
	}

	return turn, stats, denials, progressed
}

// resolve moves a transit agent whose countdown has expired into its target.
func (s *scheduler) resolve(a *Agent) (Move, Denial, bool) {
	target := a.Next()
	edge := a.edge
	if s.opts.Reservation == ReserveOnCompletion && s.arena.nodeFree(target) < 1 {
		return Move{}, s.denial(a, NodeFull, target, edge), false
	}

	s.arena.edges[edge].inFlight--
	if s.opts.Reservation == ReserveOnEntry {
		s.arena.nodes[target].reserved--
	}
	s.arena.nodes[target].occupancy++

	from := a.Path.Node(a.cursor - 1)
	a.settle(target, s.g.Sink())
	a.settledAt = s.turn
	return Move{Agent: a.ID, Action: CompleteTransit, From: from, To: target, Edge: edge}, Denial{}, true
}

// attempt tries to move a resident agent to the next node on its path.
func (s *scheduler) attempt(a *Agent) (Move, Denial, bool) {
	from := a.node
	next := a.Next()
	edge := a.nextEdge()

	if s.arena.nodeFree(next) < 1 {
		return Move{}, s.denial(a, NodeFull, next, edge), false
	}
	if s.arena.edgeFree(edge) < 1 {
		return Move{}, s.denial(a, EdgeFull, next, edge), false
	}

	s.arena.nodes[from].occupancy--
	cost := s.g.Node(next).Cost()
	if cost <= 1 {
		s.arena.edges[edge].crossings++
		s.arena.nodes[next].occupancy++
		a.settle(next, s.g.Sink())
		return Move{Agent: a.ID, Action: EnterNode, From: from, To: next, Edge: edge}, Denial{}, true
	}

	s.arena.edges[edge].inFlight++
	if s.opts.Reservation == ReserveOnEntry {
		s.arena.nodes[next].reserved++
	}
	a.depart(edge, cost)
	return Move{Agent: a.ID, Action: EnterEdge, From: from, To: next, Edge: edge}, Denial{}, true
}

func (s *scheduler) denial(a *Agent, reason Reason, node graph.NodeID, edge graph.EdgeID) Denial {
	slot := s.g.Node(node).Name
	if reason == EdgeFull {
		slot = s.g.EdgeName(edge, a.node)
	}
	return Denial{Agent: a.ID, Reason: reason, Node: node, Edge: edge, Slot: slot}
}

func (s *scheduler) result() *Result {
	return &Result{
		RunID:  s.opts.RunID,
		Turns:  len(s.log),
		Log:    s.log,
		Agents: append([]Agent(nil), s.roster...),
	}
}

func agentLabel(id int) string {
	return fmt.Sprintf("D%d", id)
}
