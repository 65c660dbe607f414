package viz

import "github.com/charmbracelet/lipgloss"

type styles struct {
	canvas   lipgloss.Style
	panel    lipgloss.Style
	header   lipgloss.Style
	label    lipgloss.Style
	value    lipgloss.Style
	graph    lipgloss.Style
	help     lipgloss.Style
	running  lipgloss.Style
	paused   lipgloss.Style
	warning  lipgloss.Style
	selected lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		canvas: lipgloss.NewStyle().Foreground(t.Secondary).Padding(1, 2),
		panel: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(t.Muted).
			Padding(1, 2).
			Width(46),
		header:   lipgloss.NewStyle().Foreground(t.Primary).Bold(true).MarginBottom(1),
		label:    lipgloss.NewStyle().Foreground(t.Muted).Width(12),
		value:    lipgloss.NewStyle().Foreground(t.Text),
		graph:    lipgloss.NewStyle().Foreground(t.Accent),
		help:     lipgloss.NewStyle().Foreground(t.Muted).MarginTop(1),
		running:  lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		paused:   lipgloss.NewStyle().Foreground(t.Warning).Bold(true),
		warning:  lipgloss.NewStyle().Foreground(t.Warning),
		selected: lipgloss.NewStyle().Foreground(t.Primary).Bold(true),
	}
}

func (s styles) row(label, value string) string {
	return s.label.Render(label) + s.value.Render(value) + "\n"
}
