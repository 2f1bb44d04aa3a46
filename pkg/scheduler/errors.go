package scheduler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Prashant-Bharaj/fly-in/pkg/graph"
)

// Common sentinel errors
var (
	ErrDeadlock          = errors.New("deadlock: no agent can progress")
	ErrCapacityInvariant = errors.New("capacity invariant violated")
	ErrNoAgents          = errors.New("no agents to schedule")
	ErrInvalidAgent      = errors.New("invalid agent")
)

// Reason names the resource that refused a move.
type Reason int

const (
	// NodeFull means the next node had no free slot.
	NodeFull Reason = iota
	// EdgeFull means the connecting edge had no free slot.
	EdgeFull
)

// String returns the label used in logs and metrics.
func (r Reason) String() string {
	switch r {
	case NodeFull:
		return "node_full"
	case EdgeFull:
		return "edge_full"
	default:
		return "unknown"
	}
}

// Denial records one agent held in place during a turn.
type Denial struct {
	Agent  int
	Reason Reason
	Node   graph.NodeID // the node the agent tried to enter
	Edge   graph.EdgeID // the edge it needed or is waiting on
	Slot   string       // human-readable name of the refusing resource
}

func (d Denial) String() string {
	return fmt.Sprintf("D%d denied %s (%s)", d.Agent, d.Slot, d.Reason)
}

// DeadlockError is returned when a whole turn passes without a commit, a
// transit resolution or a countdown tick while agents remain undelivered.
type DeadlockError struct {
	Turn    int
	Blocked []Denial
}

// Error implements the error interface.
func (e *DeadlockError) Error() string {
	parts := make([]string, len(e.Blocked))
	for i, d := range e.Blocked {
		parts[i] = d.String()
	}
	return fmt.Sprintf("deadlock at turn %d: %d agents blocked: %s",
		e.Turn, len(e.Blocked), strings.Join(parts, ", "))
}

// Unwrap returns ErrDeadlock.
func (e *DeadlockError) Unwrap() error {
	return ErrDeadlock
}

// Agents returns the ids of the blocked agents.
func (e *DeadlockError) Agents() []int {
	ids := make([]int, len(e.Blocked))
	for i, d := range e.Blocked {
		ids[i] = d.Agent
	}
	return ids
}

// InvariantError reports occupancy or in-flight bookkeeping that disagrees
// with the agents' actual positions, or a resource used beyond capacity. It
// indicates an engine bug and aborts the run.
type InvariantError struct {
	Turn    int
	Subject string // node or edge name
	Kind    string // "occupancy", "in-flight", "node capacity", "edge capacity", "position"
	Want    int
	Got     int
}

// Error implements the error interface.
func (e *InvariantError) Error() string {
	return fmt.Sprintf("turn %d: %s of %s: want %d, got %d: %v",
		e.Turn, e.Kind, e.Subject, e.Want, e.Got, ErrCapacityInvariant)
}

// Unwrap returns ErrCapacityInvariant.
func (e *InvariantError) Unwrap() error {
	return ErrCapacityInvariant
}

// IsDeadlock reports whether err is a deadlock.
func IsDeadlock(err error) bool {
	return errors.Is(err, ErrDeadlock)
}

func invalidAgent(id int, reason string) error {
	return fmt.Errorf("%w %d: %s", ErrInvalidAgent, id, reason)
}
