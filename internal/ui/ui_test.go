package ui

import (
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskdash/internal/config"
	"taskdash/internal/dashboard"
	"taskdash/internal/persist"
	"taskdash/internal/storage"
	"taskdash/internal/task"
)

type fakeExporter struct {
	calls [][]task.Task
	err   error
}

func (f *fakeExporter) Export(dir string, tasks []task.Task) (string, error) {
	f.calls = append(f.calls, tasks)
	if f.err != nil {
		return "", f.err
	}
	return filepath.Join(dir, "tasks-2026-10-15.json"), nil
}

func newTestModel(t *testing.T) (Model, *dashboard.Controller, *fakeExporter) {
	t.Helper()
	quiet := log.New(io.Discard, "", 0)
	adapter := persist.New(storage.NewMemoryStore(), persist.WithLogger(quiet))
	ctrl := dashboard.New(adapter,
		dashboard.WithClock(func() time.Time { return time.Date(2026, 10, 15, 9, 0, 0, 0, time.Local) }),
		dashboard.WithLogger(quiet),
	)
	exp := &fakeExporter{}
	return New(ctrl, exp, config.Default()), ctrl, exp
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
	tab   = tea.KeyMsg{Type: tea.KeyTab}
	space = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
)

func send(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func addTask(t *testing.T, m Model, name string) Model {
	t.Helper()
	m = send(m, runes("a"))
	require.Equal(t, modeForm, m.mode)
	m.name.SetValue(name)
	m = send(m, enter)
	require.Equal(t, modeList, m.mode, m.status)
	return m
}

func TestAddTask(t *testing.T) {
	m, ctrl, _ := newTestModel(t)

	m = send(m, runes("a"))
	m.name.SetValue("Buy milk")
	m.desc.SetValue("two litres")
	m.due.SetValue("2030-01-02")
	m = send(m, enter)

	require.Len(t, ctrl.Tasks(), 1)
	got := ctrl.Tasks()[0]
	assert.Equal(t, "Buy milk", got.Name)
	assert.Equal(t, "two litres", got.Description)
	require.NotNil(t, got.DueDate)
	assert.Equal(t, "01/02/2030", task.FormatDue(got.DueDate))
	assert.Equal(t, task.PriorityMedium, got.Priority)
	assert.Equal(t, "Task added", m.status)
	assert.Equal(t, "", m.name.Value())
}

func TestAddTask_InvalidStaysInForm(t *testing.T) {
	m, ctrl, _ := newTestModel(t)

	m = send(m, runes("a"))
	m.name.SetValue("ab")
	m = send(m, enter)
	assert.Equal(t, modeForm, m.mode)
	assert.Equal(t, task.MsgNameTooShort, ctrl.Errors()[task.FieldName])
	assert.Contains(t, m.View(), task.MsgNameTooShort)

	m.name.SetValue("Buy milk")
	m.due.SetValue("tomorrow")
	m = send(m, enter)
	assert.Equal(t, modeForm, m.mode)
	assert.NotEmpty(t, m.dueErr)
	assert.Empty(t, ctrl.Tasks())

	m = send(m, esc)
	assert.Equal(t, modeList, m.mode)
	assert.Empty(t, ctrl.Tasks())
}

func TestForm_CyclesStatusAndPriority(t *testing.T) {
	m, ctrl, _ := newTestModel(t)

	m = send(m, runes("a"))
	m.name.SetValue("Buy milk")
	m = send(m, tab, tab, tab)
	require.Equal(t, fieldStatus, m.field)
	m = send(m, space, tab, space, space)
	require.Equal(t, fieldPriority, m.field)
	m = send(m, enter)

	require.Len(t, ctrl.Tasks(), 1)
	assert.Equal(t, task.StatusInProgress, ctrl.Tasks()[0].Status)
	assert.Equal(t, task.PriorityHigh, ctrl.Tasks()[0].Priority)
}

func TestEditTask(t *testing.T) {
	m, ctrl, _ := newTestModel(t)
	m = addTask(t, m, "Buy milk")

	m = send(m, runes("e"))
	require.Equal(t, modeForm, m.mode)
	assert.Equal(t, "Buy milk", m.name.Value())

	m.name.SetValue("Buy oat milk")
	m = send(m, enter)
	require.Len(t, ctrl.Tasks(), 1)
	assert.Equal(t, "Buy oat milk", ctrl.Tasks()[0].Name)
	assert.Equal(t, "Task updated", m.status)
}

func TestDeleteTask_Confirmation(t *testing.T) {
	m, ctrl, _ := newTestModel(t)
	m = addTask(t, m, "Buy milk")

	m = send(m, runes("d"))
	assert.Equal(t, modeConfirmDelete, m.mode)
	assert.Contains(t, m.status, `"Buy milk"`)

	m = send(m, runes("n"))
	assert.Equal(t, modeList, m.mode)
	assert.Len(t, ctrl.Tasks(), 1)

	m = send(m, runes("d"), runes("y"))
	assert.Empty(t, ctrl.Tasks())
	assert.Equal(t, "Deleted task", m.status)
}

func TestFiltersAndSort(t *testing.T) {
	m, ctrl, _ := newTestModel(t)
	m = addTask(t, m, "Buy milk")
	m = addTask(t, m, "Pay rent")

	m = send(m, runes("/"))
	require.Equal(t, modeSearch, m.mode)
	m = send(m, runes("r"), runes("e"), runes("n"), runes("t"), enter)
	assert.Equal(t, "rent", ctrl.Criteria().Search)
	assert.Len(t, ctrl.Visible(), 1)

	m = send(m, runes("s"))
	require.NotNil(t, ctrl.Criteria().Status)
	assert.Equal(t, task.StatusNew, *ctrl.Criteria().Status)

	m = send(m, runes("o"))
	assert.Equal(t, task.SortByPriority, ctrl.SortKey())

	m = send(m, runes("c"))
	assert.False(t, ctrl.Criteria().Active())
	assert.Equal(t, task.SortByDueDate, ctrl.SortKey())
	assert.Len(t, ctrl.Visible(), 2)
}

func TestNextFilters(t *testing.T) {
	var s *task.Status
	seen := []string{}
	for i := 0; i < 4; i++ {
		s = nextStatusFilter(s)
		seen = append(seen, task.StatusFilterLabel(s))
	}
	assert.Equal(t, []string{"new", "in progress", "complete", "all"}, seen)

	var p *task.Priority
	p = nextPriorityFilter(nextPriorityFilter(nextPriorityFilter(p)))
	assert.Equal(t, "Low", task.PriorityFilterLabel(p))
	assert.Nil(t, nextPriorityFilter(p))
}

func TestExport(t *testing.T) {
	m, _, exp := newTestModel(t)

	m = send(m, runes("x"))
	assert.Equal(t, "Nothing to export", m.status)
	assert.Empty(t, exp.calls)

	m = addTask(t, m, "Buy milk")
	m = send(m, runes("x"))
	require.Len(t, exp.calls, 1)
	assert.Contains(t, m.status, "tasks-2026-10-15.json")

	exp.err = errors.New("disk full")
	m = send(m, runes("x"))
	assert.Equal(t, "export failed: disk full", m.status)
}

func TestImport(t *testing.T) {
	m, ctrl, _ := newTestModel(t)
	m = addTask(t, m, "Buy milk")

	path := filepath.Join(t.TempDir(), "tasks.json")
	body := `[{"id":"a","name":"Imported one","description":"","status":"new","priority":"High"},
{"id":"b","name":"Imported two","description":"","status":"complete","priority":"Low"}]`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	m = send(m, runes("i"))
	require.Equal(t, modeImportPath, m.mode)
	m.path.SetValue(path)
	next, cmd := m.Update(enter)
	m = next.(Model)
	require.NotNil(t, cmd)

	m = send(m, cmd())
	require.Equal(t, modeConfirmImport, m.mode)
	assert.Equal(t, "Import 2 tasks? This will replace your current tasks. y/n", m.status)

	m = send(m, runes("n"))
	assert.Len(t, ctrl.Tasks(), 1)

	m = send(m, importCmd(path)(), runes("y"))
	require.Len(t, ctrl.Tasks(), 2)
	assert.Equal(t, "Imported one", ctrl.Tasks()[0].Name)
}

func TestImport_RejectsObject(t *testing.T) {
	m, ctrl, _ := newTestModel(t)
	m = addTask(t, m, "Buy milk")

	path := filepath.Join(t.TempDir(), "tasks.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	m = send(m, importCmd(path)())
	assert.Equal(t, modeList, m.mode)
	assert.Contains(t, m.status, "invalid JSON format: expected an array of tasks")
	assert.Len(t, ctrl.Tasks(), 1)
}

func TestThemeToggle(t *testing.T) {
	m, ctrl, _ := newTestModel(t)
	m = send(m, runes("t"))
	assert.Equal(t, persist.ThemeDark, ctrl.Theme())
	assert.Contains(t, m.status, "dark")
}

func TestView(t *testing.T) {
	m, _, _ := newTestModel(t)
	assert.Contains(t, m.View(), "No tasks yet")

	m = addTask(t, m, "Buy milk")
	view := m.View()
	assert.Contains(t, view, "Task Dashboard")
	assert.Contains(t, view, "Buy milk")
	assert.Contains(t, view, "No due date")
	assert.Contains(t, view, "Tasks (1 of 1)")
}

func TestQuit(t *testing.T) {
	m, _, _ := newTestModel(t)
	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestClampCursor(t *testing.T) {
	assert.Equal(t, 0, clampCursor(5, 0))
	assert.Equal(t, 0, clampCursor(-1, 3))
	assert.Equal(t, 2, clampCursor(5, 3))
	assert.Equal(t, 1, clampCursor(1, 3))
}
