package task

import (
	"fmt"
	"strings"
)

// All is the filter value that matches every status or priority.
const All = "all"

// Criteria narrows a collection. A nil Status or Priority matches everything
// and an empty Search matches everything.
type Criteria struct {
	Search   string
	Status   *Status
	Priority *Priority
}

// Active reports whether any criterion would exclude tasks.
func (c Criteria) Active() bool {
	return c.Search != "" || c.Status != nil || c.Priority != nil
}

func (c Criteria) Match(t Task) bool {
	if c.Search != "" {
		term := strings.ToLower(c.Search)
		if !strings.Contains(strings.ToLower(t.Name), term) &&
			!strings.Contains(strings.ToLower(t.Description), term) {
			return false
		}
	}
	if c.Status != nil && t.Status != *c.Status {
		return false
	}
	if c.Priority != nil && t.Priority != *c.Priority {
		return false
	}
	return true
}

// Filter returns the tasks matching c in their input order. The input is
// never modified.
func Filter(tasks []Task, c Criteria) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if c.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

// ParseStatusFilter maps "all" to nil and anything else to a status.
func ParseStatusFilter(v string) (*Status, error) {
	if v == "" || v == All {
		return nil, nil
	}
	s, err := ParseStatus(v)
	if err != nil {
		return nil, fmt.Errorf("status filter: %w", err)
	}
	return &s, nil
}

func ParsePriorityFilter(v string) (*Priority, error) {
	if v == "" || v == All {
		return nil, nil
	}
	p, err := ParsePriority(v)
	if err != nil {
		return nil, fmt.Errorf("priority filter: %w", err)
	}
	return &p, nil
}

// StatusFilterLabel is the inverse of ParseStatusFilter.
func StatusFilterLabel(s *Status) string {
	if s == nil {
		return All
	}
	return s.String()
}

func PriorityFilterLabel(p *Priority) string {
	if p == nil {
		return All
	}
	return p.String()
}
