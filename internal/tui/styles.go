package tui

import "github.com/charmbracelet/lipgloss"

var (
	accent = lipgloss.Color("#7D56F4")
	muted  = lipgloss.Color("#6C6C6C")
	danger = lipgloss.Color("#E06C75")
)

type styles struct {
	title   lipgloss.Style
	tab     lipgloss.Style
	tabOn   lipgloss.Style
	item    lipgloss.Style
	price   lipgloss.Style
	err     lipgloss.Style
	help    lipgloss.Style
	status  lipgloss.Style
	spinner lipgloss.Style
	frame   lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		title:   lipgloss.NewStyle().Bold(true).Foreground(accent).MarginBottom(1),
		tab:     lipgloss.NewStyle().Padding(0, 1).Foreground(muted),
		tabOn:   lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(accent),
		item:    lipgloss.NewStyle().PaddingLeft(2),
		price:   lipgloss.NewStyle().Foreground(accent),
		err:     lipgloss.NewStyle().Foreground(danger).PaddingLeft(2),
		help:    lipgloss.NewStyle().Foreground(muted).MarginTop(1),
		status:  lipgloss.NewStyle().Foreground(muted).Italic(true),
		spinner: lipgloss.NewStyle().Foreground(accent),
		frame:   lipgloss.NewStyle().Padding(1, 2),
	}
}
