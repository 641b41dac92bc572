package output

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles used in text mode.
type Styles struct {
	Bold     lipgloss.Style
	Muted    lipgloss.Style
	Error    lipgloss.Style
	Warning  lipgloss.Style
	Info     lipgloss.Style
	Success  lipgloss.Style
	Header1  lipgloss.Style
	Header2  lipgloss.Style
	NodeName lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) *Styles {
	return &Styles{
		Bold:     r.NewStyle().Bold(true),
		Muted:    r.NewStyle().Foreground(lipgloss.Color("245")),
		Error:    r.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		Warning:  r.NewStyle().Foreground(lipgloss.Color("214")),
		Info:     r.NewStyle().Foreground(lipgloss.Color("39")),
		Success:  r.NewStyle().Foreground(lipgloss.Color("42")),
		Header1:  r.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color("99")),
		Header2:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("111")),
		NodeName: r.NewStyle().Foreground(lipgloss.Color("81")),
	}
}
