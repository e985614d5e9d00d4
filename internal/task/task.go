package task

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

type Status int

const (
	StatusNew Status = iota
	StatusInProgress
	StatusComplete
)

// Statuses lists every status in rank order.
var Statuses = []Status{StatusNew, StatusInProgress, StatusComplete}

func (s Status) String() string {
	switch s {
	case StatusNew:
		return "new"
	case StatusInProgress:
		return "in progress"
	case StatusComplete:
		return "complete"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

func (s Status) Valid() bool {
	return s >= StatusNew && s <= StatusComplete
}

func ParseStatus(v string) (Status, error) {
	for _, s := range Statuses {
		if s.String() == v {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown status %q", v)
}

func (s Status) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("unknown status %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(b []byte) error {
	v, err := ParseStatus(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Next cycles through statuses in rank order.
func (s Status) Next() Status {
	return Statuses[(int(s)+1)%len(Statuses)]
}

type Priority int

const (
	PriorityHigh Priority = iota
	PriorityMedium
	PriorityLow
)

// Priorities lists every priority in rank order.
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

func (p Priority) String() string {
	switch p {
	case PriorityHigh:
		return "High"
	case PriorityMedium:
		return "Medium"
	case PriorityLow:
		return "Low"
	}
	return fmt.Sprintf("Priority(%d)", int(p))
}

func (p Priority) Valid() bool {
	return p >= PriorityHigh && p <= PriorityLow
}

func ParsePriority(v string) (Priority, error) {
	for _, p := range Priorities {
		if p.String() == v {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown priority %q", v)
}

func (p Priority) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("unknown priority %d", int(p))
	}
	return []byte(p.String()), nil
}

func (p *Priority) UnmarshalText(b []byte) error {
	v, err := ParsePriority(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

func (p Priority) Next() Priority {
	return Priorities[(int(p)+1)%len(Priorities)]
}

type Task struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Status      Status     `json:"status"`
	Priority    Priority   `json:"priority"`
}

// NewID returns a fresh collection-unique identifier.
func NewID() string {
	return "task-" + uuid.NewString()
}

// Index returns the position of the task with the given id, or -1.
func Index(tasks []Task, id string) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

type Stats struct {
	Total      int
	New        int
	InProgress int
	Complete   int
	// Completion is the rounded percentage of complete tasks.
	Completion int
}

func Summarize(tasks []Task) Stats {
	var s Stats
	s.Total = len(tasks)
	for _, t := range tasks {
		switch t.Status {
		case StatusNew:
			s.New++
		case StatusInProgress:
			s.InProgress++
		case StatusComplete:
			s.Complete++
		}
	}
	if s.Total > 0 {
		s.Completion = int(math.Round(float64(s.Complete) / float64(s.Total) * 100))
	}
	return s
}

// FormatDue renders a due date as MM/DD/YYYY in local time.
func FormatDue(due *time.Time) string {
	if due == nil {
		return "No due date"
	}
	return due.Local().Format("01/02/2006")
}
