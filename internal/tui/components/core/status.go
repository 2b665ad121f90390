package core

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/stack-auth/stack-quickstart/internal/clipboard"
	"github.com/stack-auth/stack-quickstart/internal/pubsub"
	"github.com/stack-auth/stack-quickstart/internal/selection"
	"github.com/stack-auth/stack-quickstart/internal/status"
	"github.com/stack-auth/stack-quickstart/internal/tui/styles"
	"github.com/stack-auth/stack-quickstart/internal/tui/theme"
)

const defaultMessageTTL = 4 * time.Second

type StatusCmp interface {
	tea.Model
	SetHelpWidgetMsg(string)
}

type statusCmp struct {
	statusMessages []statusMessage
	width          int
	messageTTL     time.Duration
	selected       int
	copied         bool
	helpText       string
}

type statusMessage struct {
	Level     status.Level
	Message   string
	Timestamp time.Time
	ExpiresAt time.Time
}

// clearMessageCmd is a command that clears status messages after a timeout
func (m *statusCmp) clearMessageCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return statusCleanupMsg{time: t}
	})
}

// statusCleanupMsg is a message that triggers cleanup of expired status messages
type statusCleanupMsg struct {
	time time.Time
}

func (m *statusCmp) Init() tea.Cmd {
	return m.clearMessageCmd()
}

func (m *statusCmp) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case pubsub.Event[selection.Changed]:
		m.selected = len(msg.Payload.IDs)
	case pubsub.Event[clipboard.Status]:
		m.copied = msg.Payload.Copied
	case pubsub.Event[status.StatusMessage]:
		if msg.Type == status.EventStatusPublished {
			m.statusMessages = append(m.statusMessages, statusMessage{
				Level:     msg.Payload.Level,
				Message:   msg.Payload.Message,
				Timestamp: msg.Payload.Timestamp,
				ExpiresAt: msg.Payload.Timestamp.Add(m.messageTTL),
			})
		}
	case statusCleanupMsg:
		var active []statusMessage
		for _, sm := range m.statusMessages {
			if sm.ExpiresAt.After(msg.time) {
				active = append(active, sm)
			}
		}
		m.statusMessages = active
		return m, m.clearMessageCmd()
	}
	return m, nil
}

func (m *statusCmp) helpWidget() string {
	t := theme.CurrentTheme()
	helpText := m.helpText
	if helpText == "" {
		helpText = "? help"
	}
	return styles.Padded().
		Background(t.TextMuted()).
		Foreground(t.Background()).
		Bold(true).
		Render(helpText)
}

func (m *statusCmp) selectionWidget() string {
	t := theme.CurrentTheme()
	label := fmt.Sprintf("%d selected", m.selected)
	if m.copied {
		label = styles.CheckIcon + " Copied! · " + label
	}
	return styles.Padded().
		Background(t.Secondary()).
		Foreground(t.Background()).
		Render(label)
}

func (m *statusCmp) View() string {
	t := theme.CurrentTheme()

	help := m.helpWidget()
	right := m.selectionWidget()
	statusWidth := max(0, m.width-lipgloss.Width(help)-lipgloss.Width(right))

	if len(m.statusMessages) == 0 {
		return help + styles.Padded().
			Background(t.BackgroundPanel()).
			Width(statusWidth).
			Render("") + right
	}

	sm := m.statusMessages[0]
	infoStyle := styles.Padded().
		Foreground(t.Background()).
		Width(statusWidth)
	switch sm.Level {
	case status.LevelInfo:
		infoStyle = infoStyle.Background(t.Info())
	case status.LevelWarn:
		infoStyle = infoStyle.Background(t.Warning())
	case status.LevelError:
		infoStyle = infoStyle.Background(t.Error())
	case status.LevelDebug:
		infoStyle = infoStyle.Background(t.TextMuted())
	}

	msg := sm.Message
	if avail := statusWidth - 2; avail > 0 {
		msg = ansi.Truncate(msg, avail, "…")
	}
	return help + infoStyle.Render(msg) + right
}

func (m *statusCmp) SetHelpWidgetMsg(s string) {
	m.helpText = s
}

func NewStatusCmp() StatusCmp {
	return &statusCmp{
		statusMessages: []statusMessage{},
		messageTTL:     defaultMessageTTL,
	}
}
