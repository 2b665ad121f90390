package core

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stack-auth/stack-quickstart/internal/clipboard"
	"github.com/stack-auth/stack-quickstart/internal/pubsub"
	"github.com/stack-auth/stack-quickstart/internal/selection"
	"github.com/stack-auth/stack-quickstart/internal/status"
	"github.com/stretchr/testify/assert"
)

func published(level status.Level, msg string, at time.Time) pubsub.Event[status.StatusMessage] {
	return pubsub.Event[status.StatusMessage]{
		Type:    status.EventStatusPublished,
		Payload: status.StatusMessage{Level: level, Message: msg, Timestamp: at},
	}
}

func TestStatusMessagesExpire(t *testing.T) {
	t.Parallel()

	now := time.Now()
	var m tea.Model = NewStatusCmp()
	m, _ = m.Update(tea.WindowSizeMsg{Width: 80})
	m, _ = m.Update(published(status.LevelInfo, "Saved default providers", now))
	assert.Contains(t, ansi.Strip(m.View()), "Saved default providers")

	m, cmd := m.Update(statusCleanupMsg{time: now.Add(defaultMessageTTL - time.Millisecond)})
	assert.NotNil(t, cmd, "cleanup reschedules itself")
	assert.Contains(t, ansi.Strip(m.View()), "Saved default providers")

	m, _ = m.Update(statusCleanupMsg{time: now.Add(defaultMessageTTL)})
	assert.NotContains(t, ansi.Strip(m.View()), "Saved default providers")
}

func TestStatusTruncatesLongMessages(t *testing.T) {
	t.Parallel()

	var m tea.Model = NewStatusCmp()
	m, _ = m.Update(tea.WindowSizeMsg{Width: 50})
	m, _ = m.Update(published(status.LevelError, strings.Repeat("x", 200), time.Now()))
	for _, line := range strings.Split(m.View(), "\n") {
		assert.LessOrEqual(t, ansi.StringWidth(line), 50)
	}
}

func TestStatusTracksSelectionAndCopied(t *testing.T) {
	t.Parallel()

	var m tea.Model = NewStatusCmp()
	m, _ = m.Update(tea.WindowSizeMsg{Width: 80})
	m, _ = m.Update(pubsub.Event[selection.Changed]{
		Type:    pubsub.EventTypeUpdated,
		Payload: selection.Changed{IDs: []string{"google", "otp"}},
	})
	assert.Contains(t, ansi.Strip(m.View()), "2 selected")
	assert.NotContains(t, ansi.Strip(m.View()), "Copied!")

	m, _ = m.Update(pubsub.Event[clipboard.Status]{Type: clipboard.EventStatusChanged, Payload: clipboard.Status{Copied: true}})
	assert.Contains(t, ansi.Strip(m.View()), "Copied!")

	m, _ = m.Update(pubsub.Event[clipboard.Status]{Type: clipboard.EventStatusChanged, Payload: clipboard.Status{Copied: false}})
	assert.NotContains(t, ansi.Strip(m.View()), "Copied!")
}
