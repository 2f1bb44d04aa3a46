package algorithms

import (
	"fmt"

	"github.com/Prashant-Bharaj/fly-in/pkg/graph"
)

// Strategy selects how alternates are kept apart from earlier paths.
type Strategy int

const (
	// ExclusiveExit saturates the source-outbound edge of every path already
	// returned, so each alternate leaves the source on a different edge.
	ExclusiveExit Strategy = iota
	// EdgePenalty adds a fixed cost to every edge of earlier paths and stops
	// when the search comes back with a route it already produced.
	EdgePenalty
)

// DefaultEdgePenalty is the extra cost per reuse under EdgePenalty.
const DefaultEdgePenalty = 100

func (s Strategy) String() string {
	switch s {
	case ExclusiveExit:
		return "exclusive-exit"
	case EdgePenalty:
		return "edge-penalty"
	default:
		return "unknown"
	}
}

// ParseStrategy converts a configuration string to a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "exclusive-exit", "":
		return ExclusiveExit, nil
	case "edge-penalty":
		return EdgePenalty, nil
	default:
		return ExclusiveExit, fmt.Errorf("unknown diversity strategy %q", s)
	}
}

// DiverseOptions configures DiversePaths.
type DiverseOptions struct {
	Strategy Strategy
	Penalty  int // per-edge penalty for EdgePenalty; <= 0 means DefaultEdgePenalty
}

// DiversePaths returns up to k routes from source to sink, the true shortest
// first. Running out of distinct routes caps the result and is not an error;
// only an unreachable sink is. Every path reports its cost on the unmodified
// graph.
func DiversePaths(g *graph.Graph, source, sink graph.NodeID, k int, opts DiverseOptions) ([]*Path, error) {
	paths, _, err := diversePaths(g, source, sink, k, opts)
	return paths, err
}

// diversePaths also reports how many searches ran.
func diversePaths(g *graph.Graph, source, sink graph.NodeID, k int, opts DiverseOptions) ([]*Path, int, error) {
	if k < 1 {
		k = 1
	}

	primary, err := ShortestPath(g, source, sink)
	if err != nil {
		return nil, 1, err
	}
	paths := []*Path{primary}
	searches := 1

	penalty := opts.Penalty
	if penalty <= 0 {
		penalty = DefaultEdgePenalty
	}

	s := newSearch(g)
	s.mark(primary, opts.Strategy, penalty)

	for len(paths) < k {
		next, err := s.run(source, sink)
		searches++
		if err != nil {
			break
		}
		if containsPath(paths, next) {
			break
		}
		paths = append(paths, next)
		s.mark(next, opts.Strategy, penalty)
	}
	return paths, searches, nil
}

// mark records a returned path in the search instance.
func (s *search) mark(p *Path, strategy Strategy, penalty int) {
	switch strategy {
	case EdgePenalty:
		for i := 0; i < p.Hops(); i++ {
			s.penalty[p.Edge(i)] += penalty
		}
	default:
		s.saturated[p.FirstEdge()] = true
	}
}

func containsPath(paths []*Path, p *Path) bool {
	for _, existing := range paths {
		if existing.Equal(p) {
			return true
		}
	}
	return false
}
