package dashboard

import (
	"fmt"
	"io"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskdash/internal/persist"
	"taskdash/internal/storage"
	"taskdash/internal/task"
)

var fixedNow = time.Date(2026, 10, 15, 9, 30, 0, 0, time.Local)

type recordingStore struct {
	saves [][]task.Task
	theme persist.Theme
	init  []task.Task
}

func (r *recordingStore) Save(tasks []task.Task) {
	r.saves = append(r.saves, append([]task.Task(nil), tasks...))
}
func (r *recordingStore) Load() []task.Task { return r.init }
func (r *recordingStore) LoadTheme() persist.Theme { return persist.ThemeLight }
func (r *recordingStore) SaveTheme(t persist.Theme) { r.theme = t }
func (r *recordingStore) last() []task.Task { return r.saves[len(r.saves)-1] }

func newController(t *testing.T, store Persister) *Controller {
	t.Helper()
	n := 0
	return New(store,
		WithClock(func() time.Time { return fixedNow }),
		WithIDs(func() string { n++; return fmt.Sprintf("task-%d", n) }),
		WithLogger(log.New(io.Discard, "", 0)),
	)
}

func add(t *testing.T, c *Controller, name string, p task.Priority) string {
	t.Helper()
	f := EmptyForm()
	f.Name = name
	f.Priority = p
	c.SetForm(f)
	require.True(t, c.Submit(), "submit %q: %v", name, c.Errors())
	tasks := c.Tasks()
	return tasks[len(tasks)-1].ID
}

func TestSubmit_CreateAppendsAndSaves(t *testing.T) {
	store := &recordingStore{}
	c := newController(t, store)

	id := add(t, c, "Buy milk", task.PriorityLow)
	assert.Equal(t, "task-1", id)
	add(t, c, "Pay rent", task.PriorityHigh)

	assert.Len(t, store.saves, 2)
	assert.Equal(t, c.Tasks(), store.last())
	assert.Equal(t, "Buy milk", c.Tasks()[0].Name)
	assert.Equal(t, task.StatusNew, c.Tasks()[0].Status)
	assert.Equal(t, EmptyForm(), c.Form())
	_, editing := c.Editing()
	assert.False(t, editing)
}

func TestSubmit_InvalidKeepsForm(t *testing.T) {
	store := &recordingStore{}
	c := newController(t, store)

	yesterday := fixedNow.AddDate(0, 0, -1)
	f := EmptyForm()
	f.Name = "ok due"
	f.DueDate = &yesterday
	c.SetForm(f)

	assert.False(t, c.Submit())
	assert.Equal(t, task.Errors{task.FieldDueDate: task.MsgDueDatePast}, c.Errors())
	assert.Equal(t, f, c.Form())
	assert.Empty(t, c.Tasks())
	assert.Empty(t, store.saves)
}

func TestEdit_ReplacesInPlace(t *testing.T) {
	store := &recordingStore{}
	c := newController(t, store)
	add(t, c, "Buy milk", task.PriorityLow)
	id := add(t, c, "Pay rent", task.PriorityHigh)
	add(t, c, "Call mum", task.PriorityMedium)

	require.True(t, c.StartEdit(id))
	got, editing := c.Editing()
	assert.True(t, editing)
	assert.Equal(t, id, got)
	assert.Equal(t, "Pay rent", c.Form().Name)
	assert.Equal(t, task.PriorityHigh, c.Form().Priority)

	f := c.Form()
	f.Name = "Pay rent early"
	f.Status = task.StatusComplete
	c.SetForm(f)
	require.True(t, c.Submit())

	tasks := c.Tasks()
	require.Len(t, tasks, 3)
	assert.Equal(t, id, tasks[1].ID)
	assert.Equal(t, "Pay rent early", tasks[1].Name)
	assert.Equal(t, task.StatusComplete, tasks[1].Status)
	_, editing = c.Editing()
	assert.False(t, editing)
}

func TestEdit_UnknownIDIgnored(t *testing.T) {
	c := newController(t, &recordingStore{})
	assert.False(t, c.StartEdit("nope"))
	_, editing := c.Editing()
	assert.False(t, editing)
}

func TestCancel_ClearsWithoutMutation(t *testing.T) {
	store := &recordingStore{}
	c := newController(t, store)
	id := add(t, c, "Buy milk", task.PriorityLow)
	saves := len(store.saves)

	c.StartEdit(id)
	c.ClearForm()

	assert.Equal(t, EmptyForm(), c.Form())
	assert.Len(t, store.saves, saves)
}

func TestDelete_RequiresConfirmation(t *testing.T) {
	store := &recordingStore{}
	c := newController(t, store)
	id := add(t, c, "Buy milk", task.PriorityLow)

	prompt, ok := c.RequestDelete(id)
	require.True(t, ok)
	assert.Equal(t, `Are you sure you want to delete "Buy milk"?`, prompt)

	assert.False(t, c.ResolveDelete(false))
	assert.Len(t, c.Tasks(), 1)
	_, pending := c.PendingDelete()
	assert.False(t, pending)

	c.RequestDelete(id)
	assert.True(t, c.ResolveDelete(true))
	assert.Empty(t, c.Tasks())
	assert.Empty(t, store.last())
}

func TestDelete_EditedTaskClearsForm(t *testing.T) {
	c := newController(t, &recordingStore{})
	id := add(t, c, "Buy milk", task.PriorityLow)
	other := add(t, c, "Pay rent", task.PriorityHigh)

	c.StartEdit(id)
	c.RequestDelete(other)
	c.ResolveDelete(true)
	got, editing := c.Editing()
	assert.True(t, editing)
	assert.Equal(t, id, got)
	assert.Equal(t, "Buy milk", c.Form().Name)

	c.RequestDelete(id)
	c.ResolveDelete(true)
	_, editing = c.Editing()
	assert.False(t, editing)
	assert.Equal(t, EmptyForm(), c.Form())
}

func TestDelete_UnknownID(t *testing.T) {
	c := newController(t, &recordingStore{})
	_, ok := c.RequestDelete("nope")
	assert.False(t, ok)
	assert.False(t, c.ResolveDelete(true))
}

func TestImport_ReplacesOnConfirm(t *testing.T) {
	store := &recordingStore{}
	c := newController(t, store)
	add(t, c, "Buy milk", task.PriorityLow)

	incoming := []task.Task{
		{ID: "x", Name: "Imported one", Status: task.StatusNew, Priority: task.PriorityHigh},
		{ID: "y", Name: "Imported two", Status: task.StatusComplete, Priority: task.PriorityLow},
	}
	prompt := c.StageImport(incoming)
	assert.Equal(t, "Import 2 tasks? This will replace your current tasks.", prompt)
	assert.True(t, c.ImportPending())

	assert.False(t, c.ResolveImport(false))
	assert.Len(t, c.Tasks(), 1)
	assert.False(t, c.ImportPending())

	c.StageImport(incoming)
	assert.True(t, c.ResolveImport(true))
	assert.Equal(t, incoming, c.Tasks())
	assert.Equal(t, incoming, store.last())
}

func TestImport_DropsStaleEditTarget(t *testing.T) {
	c := newController(t, &recordingStore{})
	id := add(t, c, "Buy milk", task.PriorityLow)
	c.StartEdit(id)

	c.StageImport([]task.Task{})
	c.ResolveImport(true)
	_, editing := c.Editing()
	assert.False(t, editing)
	assert.NotNil(t, c.Tasks())
}

func TestVisible_FilterThenSort(t *testing.T) {
	c := newController(t, &recordingStore{})
	add(t, c, "Buy milk", task.PriorityLow)
	add(t, c, "Pay rent", task.PriorityHigh)
	add(t, c, "Rent a van", task.PriorityMedium)

	c.SetSort(task.SortByPriority)
	assert.Equal(t, []string{"Pay rent", "Rent a van", "Buy milk"}, names(c.Visible()))

	c.SetSearch("rent")
	assert.Equal(t, []string{"Pay rent", "Rent a van"}, names(c.Visible()))

	low := task.PriorityLow
	c.SetPriorityFilter(&low)
	assert.Empty(t, c.Visible())

	c.ClearFilters()
	assert.False(t, c.Criteria().Active())
	assert.Equal(t, task.SortByDueDate, c.SortKey())
	assert.Len(t, c.Visible(), 3)
	assert.Equal(t, []string{"Buy milk", "Pay rent", "Rent a van"}, names(c.Tasks()))
}

func TestStatsAndTheme(t *testing.T) {
	store := &recordingStore{}
	c := newController(t, store)
	add(t, c, "Buy milk", task.PriorityLow)
	assert.Equal(t, 1, c.Stats().Total)

	assert.Equal(t, persist.ThemeLight, c.Theme())
	assert.Equal(t, persist.ThemeDark, c.ToggleTheme())
	assert.Equal(t, persist.ThemeDark, store.theme)
}

func TestNew_LoadsFromAdapter(t *testing.T) {
	kv := storage.NewMemoryStore()
	adapter := persist.New(kv, persist.WithLogger(log.New(io.Discard, "", 0)))
	first := newController(t, adapter)
	add(t, first, "Buy milk", task.PriorityLow)
	first.ToggleTheme()

	second := newController(t, adapter)
	assert.Equal(t, first.Tasks(), second.Tasks())
	assert.Equal(t, persist.ThemeDark, second.Theme())
}

func names(tasks []task.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Name)
	}
	return out
}
