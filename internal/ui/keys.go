package ui

import (
	"github.com/charmbracelet/bubbles/key"

	"taskdash/internal/config"
)

type keyMap struct {
	Quit           key.Binding
	Add            key.Binding
	Up             key.Binding
	Down           key.Binding
	Edit           key.Binding
	Delete         key.Binding
	Confirm        key.Binding
	Cancel         key.Binding
	NextField      key.Binding
	PrevField      key.Binding
	Search         key.Binding
	StatusFilter   key.Binding
	PriorityFilter key.Binding
	Sort           key.Binding
	ClearFilters   key.Binding
	Export         key.Binding
	Import         key.Binding
	Theme          key.Binding
	Cycle          key.Binding
	Yes            key.Binding
	No             key.Binding
}

func bind(k, desc string, extra ...string) key.Binding {
	return key.NewBinding(
		key.WithKeys(append([]string{k}, extra...)...),
		key.WithHelp(k, desc),
	)
}

func newKeyMap(k config.Keymap) keyMap {
	return keyMap{
		Quit:           bind(k.Quit, "quit", "ctrl+c"),
		Add:            bind(k.Add, "add"),
		Up:             bind(k.Up, "up", "up"),
		Down:           bind(k.Down, "down", "down"),
		Edit:           bind(k.Edit, "edit"),
		Delete:         bind(k.Delete, "delete"),
		Confirm:        bind(k.Confirm, "save"),
		Cancel:         bind(k.Cancel, "cancel"),
		NextField:      bind(k.NextField, "next field"),
		PrevField:      bind(k.PrevField, "prev field"),
		Search:         bind(k.Search, "search"),
		StatusFilter:   bind(k.StatusFilter, "status"),
		PriorityFilter: bind(k.PriorityFilter, "priority"),
		Sort:           bind(k.Sort, "sort"),
		ClearFilters:   bind(k.ClearFilters, "clear filters"),
		Export:         bind(k.Export, "export"),
		Import:         bind(k.Import, "import"),
		Theme:          bind(k.Theme, "theme"),
		Cycle:          bind("space", "change", " ", "left", "right"),
		Yes:            bind("y", "yes", "Y"),
		No:             bind("n", "no", "N", "esc"),
	}
}

// listKeys is the help shown while browsing.
type listKeys keyMap

func (k listKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Edit, k.Delete, k.Search, k.StatusFilter, k.PriorityFilter, k.Sort, k.Quit}
}

func (k listKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Add, k.Edit, k.Delete},
		{k.Search, k.StatusFilter, k.PriorityFilter, k.Sort, k.ClearFilters},
		{k.Export, k.Import, k.Theme, k.Quit},
	}
}

type formKeys keyMap

func (k formKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.NextField, k.PrevField, k.Cycle, k.Confirm, k.Cancel}
}

func (k formKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

type confirmKeys keyMap

func (k confirmKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Yes, k.No}
}

func (k confirmKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
