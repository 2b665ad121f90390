package styles

import (
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/stack-auth/stack-quickstart/internal/tui/theme"
)

// GetMarkdownRenderer returns a glamour TermRenderer matching the current
// theme and terminal background.
func GetMarkdownRenderer(width int) *glamour.TermRenderer {
	style := "dark"
	switch {
	case theme.CurrentTheme().Name() == "mono":
		style = "notty"
	case !lipgloss.HasDarkBackground():
		style = "light"
	}
	r, _ := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	return r
}

// RenderMarkdown renders md at width, returning md unchanged on failure.
func RenderMarkdown(md string, width int) string {
	r := GetMarkdownRenderer(width)
	if r == nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}
