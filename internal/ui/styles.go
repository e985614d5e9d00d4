package ui

import (
	"github.com/charmbracelet/lipgloss"

	"taskdash/internal/persist"
	"taskdash/internal/task"
)

type styles struct {
	title    lipgloss.Style
	stat     lipgloss.Style
	panel    lipgloss.Style
	selected lipgloss.Style
	muted    lipgloss.Style
	err      lipgloss.Style
	chip     lipgloss.Style
	label    lipgloss.Style
	high     lipgloss.Style
	medium   lipgloss.Style
	low      lipgloss.Style
	done     lipgloss.Style
}

type palette struct {
	primary, text, muted, surface, border, danger, warn, ok lipgloss.Color
}

var palettes = map[persist.Theme]palette{
	persist.ThemeLight: {
		primary: "#1976d2",
		text:    "#212121",
		muted:   "#757575",
		surface: "#ffffff",
		border:  "#bdbdbd",
		danger:  "#d32f2f",
		warn:    "#ed6c02",
		ok:      "#2e7d32",
	},
	persist.ThemeDark: {
		primary: "#90caf9",
		text:    "#e0e0e0",
		muted:   "#9e9e9e",
		surface: "#1e1e1e",
		border:  "#424242",
		danger:  "#f48fb1",
		warn:    "#ffb74d",
		ok:      "#81c784",
	},
}

func newStyles(t persist.Theme) styles {
	p, ok := palettes[t]
	if !ok {
		p = palettes[persist.ThemeLight]
	}
	return styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(p.primary),
		stat:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.border).Padding(0, 2).Align(lipgloss.Center),
		panel:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.border).Padding(0, 1),
		selected: lipgloss.NewStyle().Bold(true).Foreground(p.surface).Background(p.primary),
		muted:    lipgloss.NewStyle().Foreground(p.muted),
		err:      lipgloss.NewStyle().Foreground(p.danger),
		chip:     lipgloss.NewStyle().Foreground(p.primary).Border(lipgloss.NormalBorder(), false, true).BorderForeground(p.border).Padding(0, 1),
		label:    lipgloss.NewStyle().Bold(true).Foreground(p.text),
		high:     lipgloss.NewStyle().Foreground(p.danger),
		medium:   lipgloss.NewStyle().Foreground(p.warn),
		low:      lipgloss.NewStyle().Foreground(p.ok),
		done:     lipgloss.NewStyle().Foreground(p.muted).Strikethrough(true),
	}
}

func (s styles) priority(p task.Priority) lipgloss.Style {
	switch p {
	case task.PriorityHigh:
		return s.high
	case task.PriorityMedium:
		return s.medium
	default:
		return s.low
	}
}
