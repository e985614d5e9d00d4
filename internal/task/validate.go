package task

import (
	"errors"
	"sort"
	"strings"
	"time"
	"unicode/utf8"
)

// Field names used as keys in Errors.
const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldDueDate     = "dueDate"
)

const (
	MsgNameRequired     = "Task name is required"
	MsgNameTooShort     = "Task name must be at least 3 characters"
	MsgDescriptionShort = "Description must be at least 5 characters"
	MsgDueDatePast      = "Due date must be today or in the future"

	minNameLen        = 3
	minDescriptionLen = 5
)

// Candidate holds the form fields checked before a task is accepted.
type Candidate struct {
	Name        string
	Description string
	DueDate     *time.Time
}

// Errors maps a field name to its message. An empty map means valid.
type Errors map[string]string

func (e Errors) Valid() bool { return len(e) == 0 }

// Err joins the messages in field order, or returns nil when valid.
func (e Errors) Err() error {
	if e.Valid() {
		return nil
	}
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	errs := make([]error, 0, len(fields))
	for _, f := range fields {
		errs = append(errs, errors.New(f+": "+e[f]))
	}
	return errors.Join(errs...)
}

// Validate checks every rule independently and collects all failures.
// A due date is rejected when it falls before the start of now's calendar day.
func Validate(c Candidate, now time.Time) Errors {
	errs := validateText(c)
	if c.DueDate != nil && c.DueDate.Before(startOfDay(now)) {
		errs[FieldDueDate] = MsgDueDatePast
	}
	return errs
}

// ValidateRecord applies the name and description rules to an existing
// record. Due dates are not checked since stored tasks may be overdue.
func ValidateRecord(t Task) Errors {
	return validateText(Candidate{Name: t.Name, Description: t.Description})
}

func validateText(c Candidate) Errors {
	errs := Errors{}
	name := strings.TrimSpace(c.Name)
	switch {
	case name == "":
		errs[FieldName] = MsgNameRequired
	case utf8.RuneCountInString(name) < minNameLen:
		errs[FieldName] = MsgNameTooShort
	}
	if n := utf8.RuneCountInString(strings.TrimSpace(c.Description)); n > 0 && n < minDescriptionLen {
		errs[FieldDescription] = MsgDescriptionShort
	}
	return errs
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
