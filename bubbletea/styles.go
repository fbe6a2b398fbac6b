package bubbletea

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles used to render the conversation.
type Styles struct {
	Header   lipgloss.Style
	Question lipgloss.Style
	Answer   lipgloss.Style
	Spinner  lipgloss.Style
	Error    lipgloss.Style
	Help     lipgloss.Style
}

// DefaultStyles returns the default colour scheme.
func DefaultStyles() *Styles {
	var (
		primary = lipgloss.Color("#7C3AED")
		accent  = lipgloss.Color("#06B6D4")
		text    = lipgloss.Color("#CDD6F4")
		muted   = lipgloss.Color("#6C7086")
		failure = lipgloss.Color("#F38BA8")
	)
	return &Styles{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(primary).
			MarginBottom(1),
		Question: lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			PaddingLeft(1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeft(true).
			BorderForeground(accent),
		Answer: lipgloss.NewStyle().
			Foreground(text).
			PaddingLeft(2).
			MarginBottom(1),
		Spinner: lipgloss.NewStyle().Foreground(primary),
		Error:   lipgloss.NewStyle().Foreground(failure).PaddingLeft(2),
		Help:    lipgloss.NewStyle().Foreground(muted),
	}
}
