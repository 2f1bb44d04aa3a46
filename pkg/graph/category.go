package graph

import (
	"fmt"
	"strings"
)

// Category is the closed set of node kinds. It decides movement cost and
// whether a node may be entered at all.
type Category int

const (
	Normal Category = iota
	Start
	End
	Priority
	Restricted
	Blocked
)

// Unbounded marks a node capacity with no limit (start and end nodes).
const Unbounded = -1

// RestrictedCost is the number of turns needed to enter a restricted node.
const RestrictedCost = 2

func (c Category) String() string {
	switch c {
	case Normal:
		return "normal"
	case Start:
		return "start"
	case End:
		return "end"
	case Priority:
		return "priority"
	case Restricted:
		return "restricted"
	case Blocked:
		return "blocked"
	default:
		return "unknown"
	}
}

// MovementCost returns the number of turns needed to enter a node of this
// category. Blocked nodes return 0 and must be filtered with Traversable.
func (c Category) MovementCost() int {
	switch c {
	case Normal, Start, End, Priority:
		return 1
	case Restricted:
		return RestrictedCost
	case Blocked:
		return 0
	default:
		panic(fmt.Sprintf("graph: unhandled category %d", int(c)))
	}
}

// Traversable reports whether agents may ever enter a node of this category.
func (c Category) Traversable() bool {
	return c != Blocked
}

// Endpoint reports whether the category is the source or the sink.
func (c Category) Endpoint() bool {
	return c == Start || c == End
}

// ParseCategory converts a zone type name into a Category.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "normal", "":
		return Normal, nil
	case "start":
		return Start, nil
	case "end":
		return End, nil
	case "priority":
		return Priority, nil
	case "restricted":
		return Restricted, nil
	case "blocked":
		return Blocked, nil
	default:
		return Normal, fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
}
