package scheduler

import (
	"fmt"
	"strings"

	"github.com/Prashant-Bharaj/fly-in/pkg/logging"
	"github.com/Prashant-Bharaj/fly-in/pkg/metrics"
)

// ReservationPolicy decides when an agent entering a multi-turn node takes
// its slot in that node.
type ReservationPolicy int

const (
	// ReserveOnCompletion takes the node slot only when the transit resolves.
	// The agent holds its edge slot meanwhile and waits on the edge if the
	// node is full at that point.
	ReserveOnCompletion ReservationPolicy = iota
	// ReserveOnEntry reserves the node slot when the transit starts, so the
	// resolution can never be refused.
	ReserveOnEntry
)

func (p ReservationPolicy) String() string {
	switch p {
	case ReserveOnCompletion:
		return "on-completion"
	case ReserveOnEntry:
		return "on-entry"
	default:
		return "unknown"
	}
}

// ParseReservationPolicy converts "on-completion" or "on-entry".
func ParseReservationPolicy(s string) (ReservationPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on-completion", "":
		return ReserveOnCompletion, nil
	case "on-entry":
		return ReserveOnEntry, nil
	default:
		return ReserveOnCompletion, fmt.Errorf("unknown reservation policy %q", s)
	}
}

// Ordering decides the order in which resident agents attempt moves.
type Ordering int

const (
	// RoundRobin interleaves path groups: the lowest id of each group in
	// turn, then the second lowest, and so on.
	RoundRobin Ordering = iota
	// Progress lets agents furthest along their path move first, breaking
	// ties by round-robin rank.
	Progress
)

func (o Ordering) String() string {
	switch o {
	case RoundRobin:
		return "round-robin"
	case Progress:
		return "progress"
	default:
		return "unknown"
	}
}

// ParseOrdering converts "round-robin" or "progress".
func ParseOrdering(s string) (Ordering, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "round-robin", "":
		return RoundRobin, nil
	case "progress":
		return Progress, nil
	default:
		return RoundRobin, fmt.Errorf("unknown ordering %q", s)
	}
}

// Options configures Run.
type Options struct {
	Reservation      ReservationPolicy
	Ordering         Ordering
	VerifyInvariants bool   // recount occupancy from agent positions after every turn
	RunID            string // generated when empty

	Logger  logging.Logger    // nil means no logging
	Metrics *metrics.Registry // nil means no metrics
}

// DefaultOptions returns the default scheduler options.
func DefaultOptions() Options {
	return Options{
		Reservation:      ReserveOnCompletion,
		Ordering:         RoundRobin,
		VerifyInvariants: true,
	}
}
