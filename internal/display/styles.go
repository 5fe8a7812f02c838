// Package display renders computed charts for the terminal.
package display

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles a chart is rendered with.
type Styles struct {
	Title  lipgloss.Style
	Header lipgloss.Style
	Body   lipgloss.Style
	Muted  lipgloss.Style
	Moving lipgloss.Style
	World  lipgloss.Style
	Buff   lipgloss.Style
	Debuff lipgloss.Style
}

// DefaultStyles returns the colored terminal styles.
func DefaultStyles() Styles {
	return Styles{
		Title:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#E0B050")),
		Header: lipgloss.NewStyle().Bold(true),
		Body:   lipgloss.NewStyle(),
		Muted:  lipgloss.NewStyle().Foreground(lipgloss.Color("#808080")),
		Moving: lipgloss.NewStyle().Foreground(lipgloss.Color("#E06C75")),
		World:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#61AFEF")),
		Buff:   lipgloss.NewStyle().Foreground(lipgloss.Color("#98C379")),
		Debuff: lipgloss.NewStyle().Foreground(lipgloss.Color("#E06C75")),
	}
}

// PlainStyles renders without any decoration, for pipes and golden output.
func PlainStyles() Styles {
	s := lipgloss.NewStyle()
	return Styles{Title: s, Header: s, Body: s, Muted: s, Moving: s, World: s, Buff: s, Debuff: s}
}
