package tui

import "github.com/charmbracelet/lipgloss"

// palette holds the styles of one theme.
type palette struct {
	title    lipgloss.Style
	status   lipgloss.Style
	dim      lipgloss.Style
	text     lipgloss.Style
	up       lipgloss.Style
	down     lipgloss.Style
	upVol    lipgloss.Style
	downVol  lipgloss.Style
	grid     lipgloss.Style
	marker   lipgloss.Style
	selected lipgloss.Style
	cursor   lipgloss.Style
	tooltip  lipgloss.Style
	errorMsg lipgloss.Style
	success  lipgloss.Style
	panel    lipgloss.Style
}

func newPalette(dark bool) palette {
	fg, muted, gridColor, bg := lipgloss.Color("252"), lipgloss.Color("245"), lipgloss.Color("237"), lipgloss.Color("236")
	upColor, downColor := lipgloss.Color("42"), lipgloss.Color("196")
	if !dark {
		fg, muted, gridColor, bg = lipgloss.Color("235"), lipgloss.Color("242"), lipgloss.Color("252"), lipgloss.Color("254")
		upColor, downColor = lipgloss.Color("28"), lipgloss.Color("160")
	}

	return palette{
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")).
			Background(bg).
			Padding(0, 1),
		status:  lipgloss.NewStyle().Foreground(muted).Padding(0, 1),
		dim:     lipgloss.NewStyle().Foreground(muted),
		text:    lipgloss.NewStyle().Foreground(fg),
		up:      lipgloss.NewStyle().Foreground(upColor),
		down:    lipgloss.NewStyle().Foreground(downColor),
		upVol:   lipgloss.NewStyle().Foreground(upColor).Faint(true),
		downVol: lipgloss.NewStyle().Foreground(downColor).Faint(true),
		grid:    lipgloss.NewStyle().Foreground(gridColor),
		marker:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
		selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")),
		cursor: lipgloss.NewStyle().
			Background(bg),
		tooltip: lipgloss.NewStyle().
			Foreground(fg).
			Background(bg),
		errorMsg: lipgloss.NewStyle().Foreground(downColor),
		success:  lipgloss.NewStyle().Foreground(upColor),
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(gridColor).
			Padding(0, 1),
	}
}

func (p palette) change(v float64) lipgloss.Style {
	if v >= 0 {
		return p.up
	}
	return p.down
}
