package task

import (
	"fmt"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type SortKey int

const (
	SortByDueDate SortKey = iota
	SortByPriority
	SortByStatus
	SortByName
)

var SortKeys = []SortKey{SortByDueDate, SortByPriority, SortByStatus, SortByName}

func (k SortKey) String() string {
	switch k {
	case SortByDueDate:
		return "dueDate"
	case SortByPriority:
		return "priority"
	case SortByStatus:
		return "status"
	case SortByName:
		return "name"
	}
	return fmt.Sprintf("SortKey(%d)", int(k))
}

func ParseSortKey(v string) (SortKey, error) {
	for _, k := range SortKeys {
		if k.String() == v {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown sort key %q", v)
}

func (k SortKey) Next() SortKey {
	return SortKeys[(int(k)+1)%len(SortKeys)]
}

// Sort returns a stably sorted copy of tasks. Names are ordered with the
// root locale collation.
func Sort(tasks []Task, key SortKey) []Task {
	return SortLocale(tasks, key, language.Und)
}

// SortLocale is Sort with name ordering collated for tag.
func SortLocale(tasks []Task, key SortKey, tag language.Tag) []Task {
	out := slices.Clone(tasks)
	if out == nil {
		out = []Task{}
	}
	switch key {
	case SortByDueDate:
		slices.SortStableFunc(out, compareDue)
	case SortByPriority:
		slices.SortStableFunc(out, func(a, b Task) int { return priorityRank(a.Priority) - priorityRank(b.Priority) })
	case SortByStatus:
		slices.SortStableFunc(out, func(a, b Task) int { return statusRank(a.Status) - statusRank(b.Status) })
	case SortByName:
		col := collate.New(tag)
		slices.SortStableFunc(out, func(a, b Task) int { return col.CompareString(a.Name, b.Name) })
	}
	return out
}

// compareDue puts dated tasks first, earliest first.
func compareDue(a, b Task) int {
	switch {
	case a.DueDate == nil && b.DueDate == nil:
		return 0
	case a.DueDate == nil:
		return 1
	case b.DueDate == nil:
		return -1
	}
	return a.DueDate.Compare(*b.DueDate)
}

func priorityRank(p Priority) int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	}
	return len(Priorities)
}

func statusRank(s Status) int {
	switch s {
	case StatusNew:
		return 0
	case StatusInProgress:
		return 1
	case StatusComplete:
		return 2
	}
	return len(Statuses)
}
