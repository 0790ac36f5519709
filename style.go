package main

import (
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	mutedColor  = lipgloss.Color("#94A3B8")
	borderColor = lipgloss.Color("#8B5CF6")
)

// styles renders terminal decorations for one writer. Colors are dropped when
// the writer is not a terminal.
type styles struct {
	footer lipgloss.Style
	null   string
	plan   lipgloss.Style
}

func newStyles(w io.Writer) *styles {
	r := lipgloss.NewRenderer(w)
	return &styles{
		footer: r.NewStyle().
			Foreground(mutedColor).
			Italic(true),
		null: r.NewStyle().Faint(true).Render("NULL"),
		plan: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor).
			Padding(0, 1),
	}
}

func (s *styles) rowCount(n int) string {
	if n == 1 {
		return s.footer.Render("(1 row)")
	}
	return s.footer.Render("(" + strconv.Itoa(n) + " rows)")
}

func (s *styles) explain(text string) string {
	return s.plan.Render(strings.TrimRight(text, "\n"))
}
