package algorithms

import (
	"github.com/Prashant-Bharaj/fly-in/pkg/graph"
)

// PlanOptions configures Plan.
type PlanOptions struct {
	MaxPaths int // upper bound on diverse paths, primary included
	Diverse  DiverseOptions
}

// DefaultPlanOptions returns the planner defaults.
func DefaultPlanOptions() PlanOptions {
	return PlanOptions{
		MaxPaths: 12,
		Diverse: DiverseOptions{
			Strategy: ExclusiveExit,
			Penalty:  DefaultEdgePenalty,
		},
	}
}

// Plan is the planner's output for one graph.
type Plan struct {
	Primary *Path
	Diverse []*Path // Diverse[0] is always Primary

	// Searches counts the shortest-path searches the planner ran.
	Searches int
}

// PlanRoutes computes the primary shortest path and the diverse set between
// the graph's source and sink.
func PlanRoutes(g *graph.Graph, opts PlanOptions) (*Plan, error) {
	paths, searches, err := diversePaths(g, g.Source(), g.Sink(), opts.MaxPaths, opts.Diverse)
	if err != nil {
		return nil, err
	}
	return &Plan{Primary: paths[0], Diverse: paths, Searches: searches}, nil
}

// Select picks the routes to hand out to a fleet: the diverse set, capped at
// the fleet size, once the fleet reaches threshold agents, and only the
// primary path below it. A threshold <= 0 always uses the diverse set.
func (p *Plan) Select(agents, threshold int) []*Path {
	if threshold > 0 && agents < threshold {
		return []*Path{p.Primary}
	}
	n := len(p.Diverse)
	if agents > 0 && agents < n {
		n = agents
	}
	return p.Diverse[:n]
}
