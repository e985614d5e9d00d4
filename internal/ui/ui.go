package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"taskdash/internal/config"
	"taskdash/internal/dashboard"
	"taskdash/internal/persist"
	"taskdash/internal/task"
)

type mode int

const (
	modeList mode = iota
	modeForm
	modeSearch
	modeImportPath
	modeConfirmDelete
	modeConfirmImport
)

const (
	fieldName = iota
	fieldDescription
	fieldDue
	fieldStatus
	fieldPriority
	fieldCount
)

const dateLayout = "2006-01-02"

// Exporter writes the collection to a file and returns its path.
type Exporter interface {
	Export(dir string, tasks []task.Task) (string, error)
}

type importedMsg struct {
	path  string
	tasks []task.Task
	err   error
}

type Model struct {
	ctrl     *dashboard.Controller
	exporter Exporter
	cfg      config.Config
	keys     keyMap
	help     help.Model
	styles   styles

	mode    mode
	cursor  int
	field   int
	name    textinput.Model
	desc    textarea.Model
	due     textinput.Model
	dueErr  string
	search  textinput.Model
	path    textinput.Model
	status  string
	loading int
	width   int
}

func New(ctrl *dashboard.Controller, exporter Exporter, cfg config.Config) Model {
	name := textinput.New()
	name.Placeholder = "Task name"
	name.CharLimit = 256
	name.Width = 40

	desc := textarea.New()
	desc.Placeholder = "Description"
	desc.SetWidth(40)
	desc.SetHeight(3)
	desc.ShowLineNumbers = false
	desc.KeyMap.InsertNewline.SetEnabled(false)

	due := textinput.New()
	due.Placeholder = "YYYY-MM-DD"
	due.CharLimit = len(dateLayout)
	due.Width = 12

	search := textinput.New()
	search.Placeholder = "Search by name or description..."
	search.Width = 40

	path := textinput.New()
	path.Placeholder = "path/to/tasks.json"
	path.Width = 50

	return Model{
		ctrl:     ctrl,
		exporter: exporter,
		cfg:      cfg,
		keys:     newKeyMap(cfg.Keys),
		help:     help.New(),
		styles:   newStyles(ctrl.Theme()),
		mode:     modeList,
		name:     name,
		desc:     desc,
		due:      due,
		search:   search,
		path:     path,
		status:   fmt.Sprintf("Press '%s' to add a task, '%s' to quit.", cfg.Keys.Add, cfg.Keys.Quit),
	}
}

func Run(ctrl *dashboard.Controller, exporter Exporter, cfg config.Config) error {
	program := tea.NewProgram(New(ctrl, exporter, cfg), tea.WithAltScreen())
	_, err := program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.mode {
		case modeForm:
			return m.updateForm(msg)
		case modeSearch:
			return m.updateSearch(msg)
		case modeImportPath:
			return m.updateImportPath(msg)
		case modeConfirmDelete:
			return m.updateDeleteConfirm(msg)
		case modeConfirmImport:
			return m.updateImportConfirm(msg)
		}
		return m.updateList(msg)
	case importedMsg:
		return m.handleImported(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.search.Width = max(msg.Width-20, 10)
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	visible := m.ctrl.Visible()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Down):
		m.cursor = clampCursor(m.cursor+1, len(visible))
	case key.Matches(msg, m.keys.Up):
		m.cursor = clampCursor(m.cursor-1, len(visible))
	case key.Matches(msg, m.keys.Add):
		m.ctrl.ClearForm()
		return m.openForm("Create a new task")
	case key.Matches(msg, m.keys.Edit):
		if len(visible) == 0 {
			m.status = "No tasks to edit"
			return m, nil
		}
		t := visible[clampCursor(m.cursor, len(visible))]
		if !m.ctrl.StartEdit(t.ID) {
			return m, nil
		}
		return m.openForm(fmt.Sprintf("Editing %q", t.Name))
	case key.Matches(msg, m.keys.Delete):
		if len(visible) == 0 {
			m.status = "No tasks to delete"
			return m, nil
		}
		prompt, ok := m.ctrl.RequestDelete(visible[clampCursor(m.cursor, len(visible))].ID)
		if ok {
			m.mode = modeConfirmDelete
			m.status = prompt + " y/n"
		}
	case key.Matches(msg, m.keys.Search):
		m.mode = modeSearch
		m.search.SetValue(m.ctrl.Criteria().Search)
		m.search.CursorEnd()
		m.status = "Type to search, enter to keep, esc to clear"
		cmd := m.search.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.StatusFilter):
		m.ctrl.SetStatusFilter(nextStatusFilter(m.ctrl.Criteria().Status))
		m.cursor = 0
		m.status = "Status: " + task.StatusFilterLabel(m.ctrl.Criteria().Status)
	case key.Matches(msg, m.keys.PriorityFilter):
		m.ctrl.SetPriorityFilter(nextPriorityFilter(m.ctrl.Criteria().Priority))
		m.cursor = 0
		m.status = "Priority: " + task.PriorityFilterLabel(m.ctrl.Criteria().Priority)
	case key.Matches(msg, m.keys.Sort):
		m.ctrl.SetSort(m.ctrl.SortKey().Next())
		m.status = "Sorted by " + m.ctrl.SortKey().String()
	case key.Matches(msg, m.keys.ClearFilters):
		m.ctrl.ClearFilters()
		m.cursor = 0
		m.status = "Filters cleared"
	case key.Matches(msg, m.keys.Export):
		return m.export()
	case key.Matches(msg, m.keys.Import):
		m.mode = modeImportPath
		m.path.SetValue("")
		m.status = "Path of the JSON file to import"
		cmd := m.path.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.Theme):
		m.styles = newStyles(m.ctrl.ToggleTheme())
		m.status = fmt.Sprintf("Switched to %s mode", m.ctrl.Theme())
	}
	return m, nil
}

func (m Model) export() (tea.Model, tea.Cmd) {
	tasks := m.ctrl.Tasks()
	if len(tasks) == 0 {
		m.status = "Nothing to export"
		return m, nil
	}
	path, err := m.exporter.Export(m.cfg.ExportDir, tasks)
	if err != nil {
		m.status = fmt.Sprintf("export failed: %v", err)
		return m, nil
	}
	m.status = fmt.Sprintf("Exported %d tasks to %s", len(tasks), path)
	return m, nil
}

func (m Model) openForm(status string) (tea.Model, tea.Cmd) {
	m.loadForm(m.ctrl.Form())
	m.mode = modeForm
	m.status = status
	cmd := m.focusField(fieldName)
	return m, cmd
}

func (m *Model) loadForm(f dashboard.Form) {
	m.name.SetValue(f.Name)
	m.desc.SetValue(f.Description)
	m.due.SetValue("")
	if f.DueDate != nil {
		m.due.SetValue(f.DueDate.Local().Format(dateLayout))
	}
	m.dueErr = ""
}

func (m *Model) focusField(field int) tea.Cmd {
	m.field = field
	m.name.Blur()
	m.desc.Blur()
	m.due.Blur()
	switch field {
	case fieldName:
		return m.name.Focus()
	case fieldDescription:
		return m.desc.Focus()
	case fieldDue:
		return m.due.Focus()
	}
	return nil
}

// syncForm copies the inputs into the controller form. It reports false when
// the due date cannot be parsed.
func (m *Model) syncForm() bool {
	f := m.ctrl.Form()
	f.Name = m.name.Value()
	f.Description = m.desc.Value()
	f.DueDate = nil
	m.dueErr = ""
	if v := strings.TrimSpace(m.due.Value()); v != "" {
		due, err := time.ParseInLocation(dateLayout, v, time.Local)
		if err != nil {
			m.dueErr = "Due date must be a valid date (YYYY-MM-DD)"
			m.ctrl.SetForm(f)
			return false
		}
		f.DueDate = &due
	}
	m.ctrl.SetForm(f)
	return true
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.ctrl.ClearForm()
		m.loadForm(m.ctrl.Form())
		m.focusField(-1)
		m.mode = modeList
		m.status = "Cancelled"
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		_, editing := m.ctrl.Editing()
		if !m.syncForm() {
			m.status = "Fix the highlighted fields"
			return m, nil
		}
		if !m.ctrl.Submit() {
			m.status = "Fix the highlighted fields"
			return m, nil
		}
		m.loadForm(m.ctrl.Form())
		m.focusField(-1)
		m.mode = modeList
		if editing {
			m.status = "Task updated"
		} else {
			m.status = "Task added"
		}
		return m, nil
	case key.Matches(msg, m.keys.NextField):
		m.syncForm()
		cmd := m.focusField((m.field + 1) % fieldCount)
		return m, cmd
	case key.Matches(msg, m.keys.PrevField):
		m.syncForm()
		cmd := m.focusField((m.field + fieldCount - 1) % fieldCount)
		return m, cmd
	}

	var cmd tea.Cmd
	switch m.field {
	case fieldName:
		m.name, cmd = m.name.Update(msg)
	case fieldDescription:
		m.desc, cmd = m.desc.Update(msg)
	case fieldDue:
		m.due, cmd = m.due.Update(msg)
	case fieldStatus:
		if key.Matches(msg, m.keys.Cycle) {
			f := m.ctrl.Form()
			f.Status = f.Status.Next()
			m.ctrl.SetForm(f)
		}
	case fieldPriority:
		if key.Matches(msg, m.keys.Cycle) {
			f := m.ctrl.Form()
			f.Priority = f.Priority.Next()
			m.ctrl.SetForm(f)
		}
	}
	return m, cmd
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.search.Blur()
		m.mode = modeList
		m.status = fmt.Sprintf("%d matching tasks", len(m.ctrl.Visible()))
		return m, nil
	case "esc":
		m.search.SetValue("")
		m.search.Blur()
		m.ctrl.SetSearch("")
		m.mode = modeList
		m.status = "Search cleared"
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.ctrl.SetSearch(m.search.Value())
	m.cursor = 0
	return m, cmd
}

func (m Model) updateImportPath(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.path.Blur()
		m.mode = modeList
		m.status = "Import cancelled"
		return m, nil
	case "enter":
		path := strings.TrimSpace(m.path.Value())
		if path == "" {
			m.status = "Enter a file path"
			return m, nil
		}
		m.path.Blur()
		m.mode = modeList
		m.loading++
		m.status = "Reading " + path
		return m, importCmd(path)
	}
	var cmd tea.Cmd
	m.path, cmd = m.path.Update(msg)
	return m, cmd
}

// importCmd reads the file off the update loop and reports back once.
func importCmd(path string) tea.Cmd {
	return func() tea.Msg {
		tasks, err := persist.ImportFile(context.Background(), path)
		return importedMsg{path: path, tasks: tasks, err: err}
	}
}

func (m Model) handleImported(msg importedMsg) (tea.Model, tea.Cmd) {
	if m.loading > 0 {
		m.loading--
	}
	if msg.err != nil {
		m.status = fmt.Sprintf("Failed to import tasks: %v", msg.err)
		return m, nil
	}
	if m.mode != modeList {
		m.focusField(-1)
		m.search.Blur()
		m.path.Blur()
	}
	m.ctrl.ResolveDelete(false)
	m.status = m.ctrl.StageImport(msg.tasks) + " y/n"
	m.mode = modeConfirmImport
	return m, nil
}

func (m Model) updateDeleteConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Yes):
		if m.ctrl.ResolveDelete(true) {
			m.status = "Deleted task"
		} else {
			m.status = "Nothing to delete"
		}
		m.cursor = clampCursor(m.cursor, len(m.ctrl.Visible()))
		m.mode = modeList
	case key.Matches(msg, m.keys.No):
		m.ctrl.ResolveDelete(false)
		m.status = "Delete cancelled"
		m.mode = modeList
	}
	return m, nil
}

func (m Model) updateImportConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Yes):
		m.ctrl.ResolveImport(true)
		m.status = fmt.Sprintf("Imported %d tasks", len(m.ctrl.Tasks()))
		m.cursor = 0
		m.mode = modeList
	case key.Matches(msg, m.keys.No):
		m.ctrl.ResolveImport(false)
		m.status = "Import cancelled"
		m.mode = modeList
	}
	return m, nil
}

func nextStatusFilter(s *task.Status) *task.Status {
	if s == nil {
		v := task.Statuses[0]
		return &v
	}
	if int(*s) == len(task.Statuses)-1 {
		return nil
	}
	v := s.Next()
	return &v
}

func nextPriorityFilter(p *task.Priority) *task.Priority {
	if p == nil {
		v := task.Priorities[0]
		return &v
	}
	if int(*p) == len(task.Priorities)-1 {
		return nil
	}
	v := p.Next()
	return &v
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
