package render

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette, adaptive for light and dark terminals.
var (
	ColorSuccess = lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"}
	ColorInfo    = lipgloss.AdaptiveColor{Light: "#0066CC", Dark: "#6699FF"}
	ColorAccent  = lipgloss.AdaptiveColor{Light: "#006080", Dark: "#8BE9FD"}
	ColorWarning = lipgloss.AdaptiveColor{Light: "#B06800", Dark: "#F1FA8C"}
	ColorDanger  = lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"}
	ColorMuted   = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#6272A4"}
)

// Styles groups the text styles used by command output.
type Styles struct {
	Renderer *lipgloss.Renderer

	ID          lipgloss.Style
	Name        lipgloss.Style
	Type        lipgloss.Style
	Description lipgloss.Style
	Cost        lipgloss.Style
	Link        lipgloss.Style
	Dim         lipgloss.Style
	Title       lipgloss.Style

	Success lipgloss.Style
	Warning lipgloss.Style
	Danger  lipgloss.Style
}

// NewStyles builds styles bound to r. A renderer writing to a non-terminal
// produces plain text.
func NewStyles(r *lipgloss.Renderer) Styles {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	return Styles{
		Renderer:    r,
		ID:          r.NewStyle().Foreground(ColorSuccess),
		Name:        r.NewStyle().Bold(true),
		Type:        r.NewStyle().Foreground(ColorInfo),
		Description: r.NewStyle().Italic(true),
		Cost:        r.NewStyle().Foreground(ColorWarning),
		Link:        r.NewStyle().Foreground(ColorAccent),
		Dim:         r.NewStyle().Foreground(ColorMuted),
		Title:       r.NewStyle().Bold(true).Foreground(ColorSuccess),
		Success:     r.NewStyle().Foreground(ColorSuccess),
		Warning:     r.NewStyle().Foreground(ColorWarning),
		Danger:      r.NewStyle().Foreground(ColorDanger),
	}
}
