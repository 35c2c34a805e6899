package ui

import "github.com/charmbracelet/lipgloss"

type Styles struct {
	Title      lipgloss.Style
	Subtitle   lipgloss.Style
	Header     lipgloss.Style
	JobTitle   lipgloss.Style
	JobInfo    lipgloss.Style
	Success    lipgloss.Style
	Error      lipgloss.Style
	Faint      lipgloss.Style
	Box        lipgloss.Style
	Cursor     lipgloss.Style
	Spinner    lipgloss.Style
	StageFetch lipgloss.Style
	StageGen   lipgloss.Style
}

func defaultStyles() Styles {
	base := lipgloss.NewStyle()
	return Styles{
		Title:      base.Bold(true).Foreground(lipgloss.Color("#FF0033")),
		Subtitle:   base.Faint(true),
		Header:     base.Bold(true),
		JobTitle:   base.Foreground(lipgloss.Color("#A3A3A3")),
		JobInfo:    base.Foreground(lipgloss.Color("#D1D5DB")),
		Success:    base.Foreground(lipgloss.Color("#22C55E")),
		Error:      base.Foreground(lipgloss.Color("#EF4444")),
		Faint:      base.Faint(true),
		Box:        base.Padding(0, 1),
		Cursor:     base.Bold(true).Foreground(lipgloss.Color("#FF0033")),
		Spinner:    base.Foreground(lipgloss.Color("#22D3EE")),
		StageFetch: base.Foreground(lipgloss.Color("#60A5FA")),
		StageGen:   base.Foreground(lipgloss.Color("#D946EF")),
	}
}
