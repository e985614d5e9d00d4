package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"

	"taskdash/internal/task"
)

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.title.Render("Task Dashboard"))
	b.WriteString("\n\n")
	b.WriteString(m.renderStats())
	b.WriteString("\n")
	b.WriteString(m.renderFilters())
	b.WriteString("\n\n")

	if m.mode == modeForm {
		b.WriteString(m.styles.panel.Render(m.renderForm()))
		b.WriteString("\n")
	}

	b.WriteString(m.renderTaskList())

	switch m.mode {
	case modeSearch:
		b.WriteString("\n")
		b.WriteString(m.search.View())
	case modeImportPath:
		b.WriteString("\nImport from: ")
		b.WriteString(m.path.View())
	}

	b.WriteString("\n\n")
	b.WriteString(m.status)
	b.WriteString("\n")
	b.WriteString(m.help.View(m.helpKeys()))

	return b.String()
}

func (m Model) helpKeys() help.KeyMap {
	switch m.mode {
	case modeForm:
		return formKeys(m.keys)
	case modeConfirmDelete, modeConfirmImport:
		return confirmKeys(m.keys)
	}
	return listKeys(m.keys)
}

func (m Model) renderStats() string {
	s := m.ctrl.Stats()
	cell := func(value, label string) string {
		return m.styles.stat.Render(value + "\n" + m.styles.muted.Render(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		cell(fmt.Sprint(s.Total), "Total Tasks"),
		cell(fmt.Sprint(s.New), "New"),
		cell(fmt.Sprint(s.InProgress), "In Progress"),
		cell(fmt.Sprint(s.Complete), "Completed"),
		cell(fmt.Sprintf("%d%%", s.Completion), "Completion"),
	)
}

func (m Model) renderFilters() string {
	c := m.ctrl.Criteria()
	parts := []string{m.styles.muted.Render("Sort: " + m.ctrl.SortKey().String())}
	if c.Search != "" {
		parts = append(parts, m.styles.chip.Render(fmt.Sprintf("Search: %q", c.Search)))
	}
	if c.Status != nil {
		parts = append(parts, m.styles.chip.Render("Status: "+c.Status.String()))
	}
	if c.Priority != nil {
		parts = append(parts, m.styles.chip.Render("Priority: "+c.Priority.String()))
	}
	return strings.Join(parts, " ")
}

func (m Model) renderTaskList() string {
	visible := m.ctrl.Visible()
	var b strings.Builder
	b.WriteString(m.styles.label.Render(fmt.Sprintf("Tasks (%d of %d)", len(visible), m.ctrl.Stats().Total)))
	b.WriteString("\n")
	if len(visible) == 0 {
		if m.ctrl.Stats().Total == 0 {
			b.WriteString(m.styles.muted.Render("No tasks yet. Press '" + m.cfg.Keys.Add + "' to add one."))
		} else {
			b.WriteString(m.styles.muted.Render("No tasks match the current filters."))
		}
		return b.String()
	}
	editing, _ := m.ctrl.Editing()
	for i, t := range visible {
		cursor := " "
		if i == clampCursor(m.cursor, len(visible)) && m.mode == modeList {
			cursor = ">"
		}
		if t.ID == editing {
			cursor = "*"
		}
		name := t.Name
		if t.Status == task.StatusComplete {
			name = m.styles.done.Render(name)
		}
		line := fmt.Sprintf("%s %-12s %-8s %-11s %s",
			cursor,
			"["+t.Status.String()+"]",
			m.styles.priority(t.Priority).Render(t.Priority.String()),
			task.FormatDue(t.DueDate),
			name,
		)
		if cursor == ">" {
			line = m.styles.selected.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
		if strings.TrimSpace(t.Description) != "" {
			b.WriteString("    " + m.styles.muted.Render(t.Description) + "\n")
		}
	}
	return b.String()
}

func (m Model) renderForm() string {
	f := m.ctrl.Form()
	errs := m.ctrl.Errors()
	var b strings.Builder

	title := "Create New Task"
	if _, editing := m.ctrl.Editing(); editing {
		title = "Edit Task"
	}
	b.WriteString(m.styles.title.Render(title))
	b.WriteString("\n")

	row := func(field int, label, body, errMsg string) {
		marker := " "
		if m.field == field {
			marker = ">"
		}
		b.WriteString(fmt.Sprintf("%s %s\n%s\n", marker, m.styles.label.Render(label), body))
		if errMsg != "" {
			b.WriteString(m.styles.err.Render("  "+errMsg) + "\n")
		}
	}
	dueErr := errs[task.FieldDueDate]
	if m.dueErr != "" {
		dueErr = m.dueErr
	}
	row(fieldName, "Task Name", m.name.View(), errs[task.FieldName])
	row(fieldDescription, "Description", m.desc.View(), errs[task.FieldDescription])
	row(fieldDue, "Due Date", m.due.View(), dueErr)
	row(fieldStatus, "Status", "  < "+f.Status.String()+" >", "")
	row(fieldPriority, "Priority", "  < "+m.styles.priority(f.Priority).Render(f.Priority.String())+" >", "")
	return b.String()
}
