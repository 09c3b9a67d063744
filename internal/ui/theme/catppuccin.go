package theme

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	Base     = lipgloss.Color("#1e1e2e")
	Mantle   = lipgloss.Color("#181825")
	Surface1 = lipgloss.Color("#45475a")
	Text     = lipgloss.Color("#cdd6f4")
	Subtext0 = lipgloss.Color("#a6adc8")
	Lavender = lipgloss.Color("#b4befe")
	Sapphire = lipgloss.Color("#74c7ec")
	Green    = lipgloss.Color("#a6e3a1")
	Peach    = lipgloss.Color("#fab387")
	Red      = lipgloss.Color("#f38ba8")

	Title = lipgloss.NewStyle().Foreground(Sapphire).Bold(true)
	Muted = lipgloss.NewStyle().Foreground(Subtext0)
	Hot   = lipgloss.NewStyle().Foreground(Peach).Bold(true)
	Good  = lipgloss.NewStyle().Foreground(Green)
	Bad   = lipgloss.NewStyle().Foreground(Red)
)

// Page lays reader text out in the terminal. A terminal has no font sizes, so
// the font size sets the column width instead; line heights of 2 and above
// add blank lines.
type Page struct {
	FontSize   int
	TextColor  string
	LineHeight float64
}

func (p Page) Columns(available int) int {
	cols := p.FontSize * 4
	if cols < 32 {
		cols = 32
	}
	if available > 0 && cols > available {
		cols = available
	}
	return cols
}

func (p Page) Render(text string, available int) string {
	style := lipgloss.NewStyle().Width(p.Columns(available))
	if p.TextColor != "" {
		style = style.Foreground(lipgloss.Color(p.TextColor))
	}
	wrapped := style.Render(text)
	if p.LineHeight < 2 {
		return wrapped
	}
	gap := strings.Repeat("\n", int(p.LineHeight))
	return strings.Join(strings.Split(wrapped, "\n"), gap)
}
