package scheduler

import (
	"sort"

	"github.com/Prashant-Bharaj/fly-in/pkg/algorithms"
)

// roundRobinRank returns, for each roster index, its position in the
// round-robin order. The roster must be sorted by id. Groups are formed by
// shared path and ordered by their lowest agent id.
func roundRobinRank(roster []Agent) []int {
	var groups [][]int
	byPath := make(map[*algorithms.Path]int)
	for i := range roster {
		g, ok := byPath[roster[i].Path]
		if !ok {
			g = len(groups)
			byPath[roster[i].Path] = g
			groups = append(groups, nil)
		}
		groups[g] = append(groups[g], i)
	}

	rank := make([]int, len(roster))
	next := 0
	for depth := 0; next < len(roster); depth++ {
		for _, members := range groups {
			if depth < len(members) {
				rank[members[depth]] = next
				next++
			}
		}
	}
	return rank
}

// processingOrder returns roster indices in the order agents attempt moves
// this turn.
func processingOrder(roster []Agent, rank []int, ordering Ordering) []int {
	order := make([]int, len(roster))
	for i := range order {
		order[i] = i
	}
	switch ordering {
	case Progress:
		sort.Slice(order, func(x, y int) bool {
			a, b := order[x], order[y]
			if roster[a].cursor != roster[b].cursor {
				return roster[a].cursor > roster[b].cursor
			}
			return rank[a] < rank[b]
		})
	default:
		sort.Slice(order, func(x, y int) bool {
			return rank[order[x]] < rank[order[y]]
		})
	}
	return order
}
