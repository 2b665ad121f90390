package styles

import (
	"bytes"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromastyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/stack-auth/stack-quickstart/internal/tui/theme"
)

func BaseStyle() lipgloss.Style {
	t := theme.CurrentTheme()
	return lipgloss.NewStyle().Foreground(t.Text())
}

// Padded adds one cell of horizontal padding.
func Padded() lipgloss.Style {
	return BaseStyle().Padding(0, 1)
}

func Bold() lipgloss.Style {
	return BaseStyle().Bold(true)
}

func Muted() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(theme.CurrentTheme().TextMuted())
}

func Title() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(theme.CurrentTheme().Primary()).Bold(true)
}

// Panel is the bordered box used for cards and option blocks.
func Panel(active bool) lipgloss.Style {
	t := theme.CurrentTheme()
	border := t.Border()
	if active {
		border = t.BorderActive()
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1)
}

// HighlightShell renders a shell snippet with the theme's chroma style. It
// falls back to the plain source when highlighting fails.
func HighlightShell(source string) string {
	l := lexers.Get("bash")
	if l == nil {
		l = lexers.Fallback
	}
	l = chroma.Coalesce(l)

	s := chromastyles.Get(theme.CurrentTheme().ChromaStyle())
	if s == nil {
		s = chromastyles.Fallback
	}

	f := formatters.Get("terminal256")
	if f == nil {
		f = formatters.Fallback
	}

	it, err := l.Tokenise(nil, source)
	if err != nil {
		return source
	}
	var buf bytes.Buffer
	if err := f.Format(&buf, s, it); err != nil {
		return source
	}
	return strings.TrimRight(buf.String(), "\n")
}

// Gradient colors each rune of text along a blend from the primary to the
// secondary theme color.
func Gradient(text string) string {
	t := theme.CurrentTheme()
	from, to := t.Primary().Dark, t.Secondary().Dark
	if !lipgloss.HasDarkBackground() {
		from, to = t.Primary().Light, t.Secondary().Light
	}
	c1, err1 := colorful.Hex(from)
	c2, err2 := colorful.Hex(to)
	runes := []rune(text)
	if err1 != nil || err2 != nil || len(runes) < 2 {
		return Title().Render(text)
	}

	var b strings.Builder
	for i, r := range runes {
		c := c1.BlendLab(c2, float64(i)/float64(len(runes)-1)).Clamped()
		b.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color(c.Hex())).
			Bold(true).
			Render(string(r)))
	}
	return b.String()
}
