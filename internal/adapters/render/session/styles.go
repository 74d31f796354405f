package session

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title      lipgloss.Style
	header     lipgloss.Style
	section    lipgloss.Style
	label      lipgloss.Style
	detail     lipgloss.Style
	empty      lipgloss.Style
	traveler   lipgloss.Style
	character  lipgloss.Style
	note       lipgloss.Style
	gain       lipgloss.Style
	loss       lipgloss.Style
	ending     lipgloss.Style
	barBracket lipgloss.Style
	barEmpty   lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		header:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		section:    lipgloss.NewStyle().MarginTop(1),
		label:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("250")),
		detail:     lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		empty:      lipgloss.NewStyle().Faint(true),
		traveler:   lipgloss.NewStyle().Foreground(lipgloss.Color("75")),
		character:  lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		note:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220")),
		gain:       lipgloss.NewStyle().Foreground(lipgloss.Color("114")),
		loss:       lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		ending:     lipgloss.NewStyle().Bold(true),
		barBracket: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		barEmpty:   lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
	}
}
