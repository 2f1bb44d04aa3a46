package graphtest

import (
	"fmt"
	"math/rand"

	"github.com/Prashant-Bharaj/fly-in/pkg/graph"
)

// Random builds a small graph with n nodes from seed: node 0 is the start,
// node n-1 the end, the rest get a random category and capacity, and each
// pair is connected with probability density. The result may fail
// validation (an unreachable sink), which callers treat as "skip".
func Random(n int, seed int64, density float64) (*graph.Graph, error) {
	if n < 2 {
		n = 2
	}
	rng := rand.New(rand.NewSource(seed))
	middle := []graph.Category{graph.Normal, graph.Normal, graph.Priority, graph.Restricted, graph.Blocked}

	spec := Spec{}
	for i := 0; i < n; i++ {
		cat := middle[rng.Intn(len(middle))]
		switch i {
		case 0:
			cat = graph.Start
		case n - 1:
			cat = graph.End
		}
		spec.Nodes = append(spec.Nodes, N(fmt.Sprintf("n%d", i), cat, 1+rng.Intn(3)))
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if rng.Float64() < density {
				spec.Edges = append(spec.Edges, E(fmt.Sprintf("n%d", i), fmt.Sprintf("n%d", j), 1+rng.Intn(2)))
			}
		}
	}
	return Try(spec)
}
