// Package dashboard owns the task collection and the form, filter and
// confirmation state that user actions move through.
package dashboard

import (
	"fmt"
	"log"
	"slices"
	"time"

	"taskdash/internal/persist"
	"taskdash/internal/task"
)

// Persister mirrors committed collections. Save must not fail the caller.
type Persister interface {
	Save(tasks []task.Task)
	Load() []task.Task
	LoadTheme() persist.Theme
	SaveTheme(t persist.Theme)
}

// Form is the create/edit form content.
type Form struct {
	Name        string
	Description string
	DueDate     *time.Time
	Status      task.Status
	Priority    task.Priority
}

func EmptyForm() Form {
	return Form{Status: task.StatusNew, Priority: task.PriorityMedium}
}

type Controller struct {
	store  Persister
	logger *log.Logger
	now    func() time.Time
	newID  func() string

	tasks     []task.Task
	form      Form
	editingID string
	errors    task.Errors

	criteria task.Criteria
	sortBy   task.SortKey
	theme    persist.Theme

	pendingDelete string
	pendingImport []task.Task
	importStaged  bool
}

type Option func(*Controller)

func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

func WithIDs(newID func() string) Option {
	return func(c *Controller) { c.newID = newID }
}

func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithSort sets the initial sort key.
func WithSort(k task.SortKey) Option {
	return func(c *Controller) { c.sortBy = k }
}

// New loads the stored collection and theme.
func New(store Persister, opts ...Option) *Controller {
	c := &Controller{
		store:  store,
		logger: log.Default(),
		now:    time.Now,
		newID:  task.NewID,
		form:   EmptyForm(),
		errors: task.Errors{},
		sortBy: task.SortByDueDate,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.tasks = store.Load()
	c.theme = store.LoadTheme()
	return c
}

// Tasks returns a copy of the collection in insertion order.
func (c *Controller) Tasks() []task.Task { return slices.Clone(c.tasks) }

func (c *Controller) Find(id string) (task.Task, bool) {
	i := task.Index(c.tasks, id)
	if i < 0 {
		return task.Task{}, false
	}
	return c.tasks[i], true
}

func (c *Controller) Form() Form { return c.form }

// SetForm replaces the form content without touching the editing target.
func (c *Controller) SetForm(f Form) { c.form = f }

func (c *Controller) Errors() task.Errors { return c.errors }

// Editing returns the id targeted by the form, if any.
func (c *Controller) Editing() (string, bool) {
	return c.editingID, c.editingID != ""
}

// StartEdit fills the form from the task and targets it. Unknown ids are
// ignored.
func (c *Controller) StartEdit(id string) bool {
	t, ok := c.Find(id)
	if !ok {
		return false
	}
	c.form = Form{
		Name:        t.Name,
		Description: t.Description,
		DueDate:     t.DueDate,
		Status:      t.Status,
		Priority:    t.Priority,
	}
	c.editingID = id
	c.errors = task.Errors{}
	return true
}

// Submit validates the form. On failure the form and errors are kept and
// nothing changes. On success the targeted task is replaced in place, or a
// new one is appended, and the form is cleared.
func (c *Controller) Submit() bool {
	errs := task.Validate(task.Candidate{
		Name:        c.form.Name,
		Description: c.form.Description,
		DueDate:     c.form.DueDate,
	}, c.now())
	if !errs.Valid() {
		c.errors = errs
		return false
	}

	t := task.Task{
		Name:        c.form.Name,
		Description: c.form.Description,
		DueDate:     c.form.DueDate,
		Status:      c.form.Status,
		Priority:    c.form.Priority,
	}
	next := slices.Clone(c.tasks)
	if i := task.Index(next, c.editingID); c.editingID != "" && i >= 0 {
		t.ID = c.editingID
		next[i] = t
		c.logger.Printf("updated task %s", t.ID)
	} else {
		t.ID = c.newID()
		next = append(next, t)
		c.logger.Printf("created task %s", t.ID)
	}
	c.commit(next)
	c.ClearForm()
	return true
}

// ClearForm returns to create mode with default values.
func (c *Controller) ClearForm() {
	c.form = EmptyForm()
	c.editingID = ""
	c.errors = task.Errors{}
}

// RequestDelete stages a delete and returns the confirmation prompt.
func (c *Controller) RequestDelete(id string) (string, bool) {
	t, ok := c.Find(id)
	if !ok {
		return "", false
	}
	c.pendingDelete = id
	return fmt.Sprintf("Are you sure you want to delete %q?", t.Name), true
}

func (c *Controller) PendingDelete() (string, bool) {
	return c.pendingDelete, c.pendingDelete != ""
}

// ResolveDelete answers the staged confirmation. Declining leaves everything
// as it was. Deleting the task under edit also clears the form.
func (c *Controller) ResolveDelete(confirmed bool) bool {
	id := c.pendingDelete
	c.pendingDelete = ""
	if !confirmed || id == "" {
		return false
	}
	i := task.Index(c.tasks, id)
	if i < 0 {
		return false
	}
	c.commit(slices.Delete(slices.Clone(c.tasks), i, i+1))
	c.logger.Printf("deleted task %s", id)
	if c.editingID == id {
		c.ClearForm()
	}
	return true
}

// StageImport holds a decoded collection until the user confirms the
// replacement and returns the prompt.
func (c *Controller) StageImport(tasks []task.Task) string {
	c.pendingImport = slices.Clone(tasks)
	c.importStaged = true
	return fmt.Sprintf("Import %d tasks? This will replace your current tasks.", len(tasks))
}

func (c *Controller) ImportPending() bool { return c.importStaged }

// ResolveImport replaces the whole collection when confirmed.
func (c *Controller) ResolveImport(confirmed bool) bool {
	tasks, staged := c.pendingImport, c.importStaged
	c.pendingImport, c.importStaged = nil, false
	if !confirmed || !staged {
		return false
	}
	if tasks == nil {
		tasks = []task.Task{}
	}
	c.commit(tasks)
	c.logger.Printf("imported %d tasks", len(tasks))
	if _, ok := c.Editing(); ok && task.Index(c.tasks, c.editingID) < 0 {
		c.ClearForm()
	}
	return true
}

func (c *Controller) commit(tasks []task.Task) {
	c.tasks = tasks
	c.store.Save(c.tasks)
}

func (c *Controller) Criteria() task.Criteria { return c.criteria }

func (c *Controller) SetSearch(term string) { c.criteria.Search = term }

func (c *Controller) SetStatusFilter(s *task.Status) { c.criteria.Status = s }

func (c *Controller) SetPriorityFilter(p *task.Priority) { c.criteria.Priority = p }

func (c *Controller) SortKey() task.SortKey { return c.sortBy }

func (c *Controller) SetSort(k task.SortKey) { c.sortBy = k }

// ClearFilters resets every criterion and the sort key to its default.
func (c *Controller) ClearFilters() {
	c.criteria = task.Criteria{}
	c.sortBy = task.SortByDueDate
}

// Visible is the derived display order: filter then sort.
func (c *Controller) Visible() []task.Task {
	return task.Sort(task.Filter(c.tasks, c.criteria), c.sortBy)
}

func (c *Controller) Stats() task.Stats { return task.Summarize(c.tasks) }

func (c *Controller) Theme() persist.Theme { return c.theme }

func (c *Controller) ToggleTheme() persist.Theme {
	c.theme = c.theme.Toggle()
	c.store.SaveTheme(c.theme)
	return c.theme
}
