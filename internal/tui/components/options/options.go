// Package options renders the two setup paths offered for a selection: the
// init command for coders and the agent prompt for AI-assisted setup.
package options

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"
	"github.com/stack-auth/stack-quickstart/internal/quickstart"
	"github.com/stack-auth/stack-quickstart/internal/tui/styles"
	"github.com/stack-auth/stack-quickstart/internal/tui/theme"
)

const (
	CodersTitle = "Option 1: For Coders"
	VibeTitle   = "Option 2: For Vibe Coders (AI Setup)"

	defaultWidth        = 80
	defaultPromptHeight = 12
)

// Only paging keys scroll the prompt; arrows and j/k belong to the cards.
var scrollKeys = viewport.KeyMap{
	PageDown: key.NewBinding(
		key.WithKeys("pgdown"),
		key.WithHelp("pgdn", "scroll prompt down"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup"),
		key.WithHelp("pgup", "scroll prompt up"),
	),
	HalfPageDown: key.NewBinding(
		key.WithKeys("ctrl+d"),
		key.WithHelp("ctrl+d", "half page down"),
	),
	HalfPageUp: key.NewBinding(
		key.WithKeys("ctrl+u"),
		key.WithHelp("ctrl+u", "half page up"),
	),
}

type Model struct {
	setup  quickstart.Setup
	prompt viewport.Model
	width  int
}

func New() Model {
	vp := viewport.New(defaultWidth-4, defaultPromptHeight)
	vp.KeyMap = scrollKeys
	return Model{prompt: vp, width: defaultWidth}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// SetSetup replaces the rendered artifacts, keeping the scroll position when
// the prompt is unchanged.
func (m *Model) SetSetup(setup quickstart.Setup) {
	changed := setup.Prompt != m.setup.Prompt
	m.setup = setup
	if changed {
		m.prompt.SetContent(wrapPrompt(setup.Prompt, m.prompt.Width))
		m.prompt.GotoTop()
	}
}

func (m Model) Setup() quickstart.Setup {
	return m.setup
}

// SetSize fits the option panels into width columns and the prompt viewport
// into promptHeight rows.
func (m *Model) SetSize(width, promptHeight int) {
	m.width = max(width, 40)
	m.prompt.Width = m.width - 4
	m.prompt.Height = max(promptHeight, 3)
	m.prompt.SetContent(wrapPrompt(m.setup.Prompt, m.prompt.Width))
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg.(type) {
	case tea.KeyMsg, tea.MouseMsg:
		m.prompt, cmd = m.prompt.Update(msg)
	}
	return m, cmd
}

func (m Model) BindingKeys() []key.Binding {
	return []key.Binding{scrollKeys.PageDown, scrollKeys.PageUp}
}

func wrapPrompt(prompt string, width int) string {
	if width <= 0 {
		return prompt
	}
	return wrap.String(wordwrap.String(prompt, width), width)
}

func (m Model) View() string {
	t := theme.CurrentTheme()
	inner := m.width - 4

	var coders strings.Builder
	coders.WriteString(styles.Title().Render(CodersTitle) + "\n\n")
	coders.WriteString(lipgloss.NewStyle().
		Background(t.BackgroundPanel()).
		Padding(0, 1).
		Width(inner).
		Render(styles.HighlightShell(m.setup.Command)) + "\n")
	coders.WriteString(styles.Muted().Render("[c] Copy Command") + "\n\n")
	for i, step := range quickstart.CoderSteps {
		coders.WriteString(fmt.Sprintf("%d. %s\n", i+1, step))
	}
	coders.WriteString("\n")
	check := lipgloss.NewStyle().Foreground(t.Success()).Render(styles.CheckIcon)
	for _, item := range quickstart.CoderChecklist {
		coders.WriteString(check + " " + item + "\n")
	}

	var vibe strings.Builder
	vibe.WriteString(styles.Title().Render(VibeTitle) + "\n\n")
	vibe.WriteString(m.prompt.View() + "\n")
	vibe.WriteString(styles.Muted().Render(fmt.Sprintf(
		"[p] Copy Prompt  %3.f%%", m.prompt.ScrollPercent()*100)))

	return lipgloss.JoinVertical(lipgloss.Left,
		styles.Panel(false).Width(m.width).Render(strings.TrimRight(coders.String(), "\n")),
		styles.Panel(false).Width(m.width).Render(vibe.String()),
	)
}
