package logs

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stack-auth/stack-quickstart/internal/logging"
	"github.com/stack-auth/stack-quickstart/internal/tui/styles"
	"github.com/stack-auth/stack-quickstart/internal/tui/theme"
)

type DetailCmp struct {
	viewport    viewport.Model
	currentLog  logging.Log
	width       int
	initialized bool
}

func NewLogsDetails() *DetailCmp {
	return &DetailCmp{viewport: viewport.New(0, 0)}
}

func (d *DetailCmp) Update(msg tea.Msg) (*DetailCmp, tea.Cmd) {
	if msg, ok := msg.(SelectedLogMsg); ok {
		if msg.ID != d.currentLog.ID || !d.initialized {
			d.currentLog = logging.Log(msg)
			d.initialized = true
			d.updateContent()
		}
	}
	return d, nil
}

func (d *DetailCmp) updateContent() {
	t := theme.CurrentTheme()
	var content strings.Builder

	levelStyle := lipgloss.NewStyle().Bold(true)
	switch d.currentLog.Level {
	case "error":
		levelStyle = levelStyle.Foreground(t.Error())
	case "warn":
		levelStyle = levelStyle.Foreground(t.Warning())
	case "debug":
		levelStyle = levelStyle.Foreground(t.TextMuted())
	default:
		levelStyle = levelStyle.Foreground(t.Info())
	}

	content.WriteString(levelStyle.Render(strings.ToUpper(d.currentLog.Level)))
	content.WriteString("  " + styles.Muted().Render(d.currentLog.Timestamp.Local().Format("2006-01-02 15:04:05")))
	content.WriteString("\n\n")
	content.WriteString(styles.Bold().Render("Message:") + "\n")
	content.WriteString(lipgloss.NewStyle().Width(max(d.width-2, 10)).Render(d.currentLog.Message))
	content.WriteString("\n")

	if len(d.currentLog.Attributes) > 0 {
		content.WriteString("\n" + styles.Bold().Render("Attributes:") + "\n")
		keys := make([]string, 0, len(d.currentLog.Attributes))
		for k := range d.currentLog.Attributes {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			content.WriteString(fmt.Sprintf("  %s: %s\n", styles.Muted().Render(k), d.currentLog.Attributes[k]))
		}
	}

	d.viewport.SetContent(content.String())
}

func (d *DetailCmp) View() string {
	if !d.initialized {
		return styles.Muted().Render("No log selected")
	}
	return d.viewport.View()
}

func (d *DetailCmp) SetSize(width, height int) {
	d.width = width
	d.viewport.Width = width
	d.viewport.Height = height
	if d.initialized {
		d.updateContent()
	}
}
