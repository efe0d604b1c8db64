package model

import "fmt"

// Filter selects which notes a list view shows.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterNote      Filter = Filter(TypeNote)
	FilterGoal      Filter = Filter(TypeGoal)
	FilterEvent     Filter = Filter(TypeEvent)
	FilterCompleted Filter = "completed"
	FilterActive    Filter = "active"
)

func ParseFilter(s string) (Filter, error) {
	switch f := Filter(s); f {
	case "":
		return FilterAll, nil
	case FilterAll, FilterNote, FilterGoal, FilterEvent, FilterCompleted, FilterActive:
		return f, nil
	default:
		return "", fmt.Errorf("invalid filter %q", s)
	}
}

func (f Filter) Match(n Note) bool {
	switch f {
	case FilterAll, "":
		return true
	case FilterCompleted:
		return n.Completed
	case FilterActive:
		return !n.Completed
	default:
		return string(n.Type) == string(f)
	}
}

// Apply returns the notes matching f, keeping their order.
func Apply(notes []Note, f Filter) []Note {
	out := make([]Note, 0, len(notes))
	for _, n := range notes {
		if f.Match(n) {
			out = append(out, n)
		}
	}
	return out
}
