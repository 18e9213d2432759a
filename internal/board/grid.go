package board

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// Canonical status values in column order.
var Statuses = []string{"Backlog", "Todo", "In progress", "Done", "Canceled"}

// priorityLabels is indexed by priority value.
var priorityLabels = []string{"No priority", "Low", "Medium", "High", "Urgent"}

// PriorityLabel returns the display label for a priority value. Values outside
// the known range render as "Priority N".
func PriorityLabel(p int) string {
	if p >= 0 && p < len(priorityLabels) {
		return priorityLabels[p]
	}
	return fmt.Sprintf("Priority %d", p)
}

// PriorityColumns lists priority labels in column order, most urgent first.
func PriorityColumns() []string {
	cols := slices.Clone(priorityLabels)
	slices.Reverse(cols)
	return cols
}

type Group struct {
	Key     string
	Tickets []Ticket
}

// Grid is an ordered mapping from group key to ordered tickets.
type Grid struct {
	Groups []Group
}

func (g Grid) Keys() []string {
	keys := make([]string, len(g.Groups))
	for i, grp := range g.Groups {
		keys[i] = grp.Key
	}
	return keys
}

func (g Grid) Get(key string) ([]Ticket, bool) {
	for _, grp := range g.Groups {
		if grp.Key == key {
			return grp.Tickets, true
		}
	}
	return nil, false
}

// Len returns the total number of tickets across all groups.
func (g Grid) Len() int {
	n := 0
	for _, grp := range g.Groups {
		n += len(grp.Tickets)
	}
	return n
}

// GroupKey returns the bucket key of t under grouping.
func GroupKey(t Ticket, grouping Grouping) string {
	switch grouping {
	case GroupByPriority:
		return PriorityLabel(t.Priority)
	case GroupByUser:
		return t.UserID
	default:
		return t.Status
	}
}

// Build partitions tickets into groups and orders each group. Every input
// ticket lands in exactly one group; empty groups are omitted. The input slice
// is not modified.
func Build(tickets []Ticket, grouping Grouping, ordering Ordering) Grid {
	buckets := make(map[string][]Ticket)
	var seen []string
	for _, t := range tickets {
		key := GroupKey(t, grouping)
		if _, ok := buckets[key]; !ok {
			seen = append(seen, key)
		}
		buckets[key] = append(buckets[key], t)
	}

	var order []string
	switch grouping {
	case GroupByStatus:
		order = canonicalOrder(Statuses, seen)
	case GroupByPriority:
		order = canonicalOrder(PriorityColumns(), seen)
	default:
		order = seen
	}

	grid := Grid{Groups: make([]Group, 0, len(order))}
	for _, key := range order {
		bucket := buckets[key]
		sortTickets(bucket, ordering)
		grid.Groups = append(grid.Groups, Group{Key: key, Tickets: bucket})
	}
	return grid
}

// canonicalOrder returns the canonical keys present in seen, followed by the
// remaining seen keys in first-appearance order.
func canonicalOrder(canonical, seen []string) []string {
	present := make(map[string]bool, len(seen))
	for _, k := range seen {
		present[k] = true
	}
	order := make([]string, 0, len(seen))
	known := make(map[string]bool, len(canonical))
	for _, k := range canonical {
		known[k] = true
		if present[k] {
			order = append(order, k)
		}
	}
	for _, k := range seen {
		if !known[k] {
			order = append(order, k)
		}
	}
	return order
}

func sortTickets(tickets []Ticket, ordering Ordering) {
	switch ordering {
	case OrderByTitle:
		slices.SortStableFunc(tickets, func(a, b Ticket) int {
			return strings.Compare(a.Title, b.Title)
		})
	default:
		slices.SortStableFunc(tickets, func(a, b Ticket) int {
			return cmp.Compare(b.Priority, a.Priority)
		})
	}
}
