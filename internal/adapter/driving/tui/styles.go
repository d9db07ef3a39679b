package tui

import "github.com/charmbracelet/lipgloss"

var (
	primary     = lipgloss.Color("#2563eb")
	muted       = lipgloss.Color("#6b7280")
	destructive = lipgloss.Color("#e53935")
	success     = lipgloss.Color("#43a047")
)

// Styles holds the styled components of the contact book screen.
type Styles struct {
	Title    lipgloss.Style
	Header   lipgloss.Style
	Row      lipgloss.Style
	Selected lipgloss.Style
	Muted    lipgloss.Style
	Error    lipgloss.Style
	Notice   lipgloss.Style
	Label    lipgloss.Style
	Focused  lipgloss.Style
	Help     lipgloss.Style
	Box      lipgloss.Style
}

// DefaultStyles returns the default styles.
func DefaultStyles() Styles {
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(primary).MarginBottom(1),
		Header:   lipgloss.NewStyle().Bold(true).Underline(true),
		Row:      lipgloss.NewStyle().PaddingLeft(2),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(primary),
		Muted:    lipgloss.NewStyle().Foreground(muted),
		Error:    lipgloss.NewStyle().Foreground(destructive),
		Notice:   lipgloss.NewStyle().Foreground(success),
		Label:    lipgloss.NewStyle().Width(8),
		Focused:  lipgloss.NewStyle().Foreground(primary).Bold(true).Width(8),
		Help:     lipgloss.NewStyle().Foreground(muted).MarginTop(1),
		Box:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(muted).Padding(0, 1),
	}
}
