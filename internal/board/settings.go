package board

import (
	"errors"
	"fmt"
)

type Grouping string

const (
	GroupByStatus   Grouping = "status"
	GroupByUser     Grouping = "user"
	GroupByPriority Grouping = "priority"
)

type Ordering string

const (
	OrderByPriority Ordering = "priority"
	OrderByTitle    Ordering = "title"
)

var (
	ErrInvalidGrouping = errors.New("invalid grouping")
	ErrInvalidOrdering = errors.New("invalid ordering")
)

// Groupings lists grouping modes in display order.
var Groupings = []Grouping{GroupByStatus, GroupByUser, GroupByPriority}

// Orderings lists ordering modes in display order.
var Orderings = []Ordering{OrderByPriority, OrderByTitle}

func ParseGrouping(s string) (Grouping, error) {
	g := Grouping(s)
	if !g.Valid() {
		return "", fmt.Errorf("%w %q (status|user|priority)", ErrInvalidGrouping, s)
	}
	return g, nil
}

func (g Grouping) Valid() bool {
	switch g {
	case GroupByStatus, GroupByUser, GroupByPriority:
		return true
	}
	return false
}

func (g Grouping) String() string { return string(g) }

// Label is the human-readable name shown in the display panel.
func (g Grouping) Label() string {
	switch g {
	case GroupByStatus:
		return "Status"
	case GroupByUser:
		return "User"
	case GroupByPriority:
		return "Priority"
	default:
		return string(g)
	}
}

// Next returns the grouping after g in Groupings, wrapping around.
func (g Grouping) Next() Grouping {
	for i, v := range Groupings {
		if v == g {
			return Groupings[(i+1)%len(Groupings)]
		}
	}
	return Groupings[0]
}

// Prev returns the grouping before g in Groupings, wrapping around.
func (g Grouping) Prev() Grouping {
	for i, v := range Groupings {
		if v == g {
			return Groupings[(i+len(Groupings)-1)%len(Groupings)]
		}
	}
	return Groupings[0]
}

func ParseOrdering(s string) (Ordering, error) {
	o := Ordering(s)
	if !o.Valid() {
		return "", fmt.Errorf("%w %q (priority|title)", ErrInvalidOrdering, s)
	}
	return o, nil
}

func (o Ordering) Valid() bool {
	switch o {
	case OrderByPriority, OrderByTitle:
		return true
	}
	return false
}

func (o Ordering) String() string { return string(o) }

func (o Ordering) Label() string {
	switch o {
	case OrderByPriority:
		return "Priority"
	case OrderByTitle:
		return "Title"
	default:
		return string(o)
	}
}

func (o Ordering) Next() Ordering {
	for i, v := range Orderings {
		if v == o {
			return Orderings[(i+1)%len(Orderings)]
		}
	}
	return Orderings[0]
}

func (o Ordering) Prev() Ordering {
	for i, v := range Orderings {
		if v == o {
			return Orderings[(i+len(Orderings)-1)%len(Orderings)]
		}
	}
	return Orderings[0]
}

// Settings are the persisted display preferences.
type Settings struct {
	Grouping Grouping
	Ordering Ordering
}

func DefaultSettings() Settings {
	return Settings{
		Grouping: GroupByStatus,
		Ordering: OrderByPriority,
	}
}
