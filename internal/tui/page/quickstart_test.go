package page

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	zone "github.com/lrstanley/bubblezone"
	"github.com/stack-auth/stack-quickstart/internal/clipboard"
	"github.com/stack-auth/stack-quickstart/internal/pubsub"
	"github.com/stack-auth/stack-quickstart/internal/quickstart"
	"github.com/stack-auth/stack-quickstart/internal/selection"
	"github.com/stack-auth/stack-quickstart/internal/tui/components/cards"
	"github.com/stack-auth/stack-quickstart/internal/tui/components/options"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	zone.NewGlobal()
	os.Exit(m.Run())
}

type memoryWriter struct {
	mu     sync.Mutex
	copied []string
}

func (w *memoryWriter) Write(_ context.Context, text string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.copied = append(w.copied, text)
	return nil
}

type idleTimer struct{}

func (idleTimer) Stop() bool { return true }

type fixture struct {
	page   tea.Model
	store  *selection.Store
	writer *memoryWriter
	clip   *clipboard.Adapter
	saved  [][]string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{store: selection.NewStore(), writer: &memoryWriter{}}
	clip := clipboard.New(
		clipboard.WithWriter(f.writer),
		clipboard.WithAfterFunc(func(time.Duration, func()) clipboard.Timer { return idleTimer{} }),
	)
	t.Cleanup(clip.Close)
	t.Cleanup(f.store.Shutdown)
	f.clip = clip

	f.page = NewQuickstartPage(QuickstartDeps{
		Store:     f.store,
		Clipboard: clip,
		SaveDefaults: func(ids []string) error {
			f.saved = append(f.saved, ids)
			return nil
		},
	})
	f.page, _ = f.page.Update(tea.WindowSizeMsg{Width: 140, Height: 80})
	return f
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends a key and feeds any resulting message back, one level deep.
func (f *fixture) press(t *testing.T, msg tea.KeyMsg) tea.Msg {
	t.Helper()
	var cmd tea.Cmd
	f.page, cmd = f.page.Update(msg)
	if cmd == nil {
		return nil
	}
	out := cmd()
	if out != nil {
		f.page, _ = f.page.Update(out)
	}
	return out
}

// clipboardEvents subscribes to the adapter the way the program does.
func (f *fixture) clipboardEvents(t *testing.T) <-chan pubsub.Event[clipboard.Status] {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return f.clip.Subscribe(ctx)
}

func (f *fixture) deliver(t *testing.T, events <-chan pubsub.Event[clipboard.Status]) {
	t.Helper()
	select {
	case ev := <-events:
		f.page, _ = f.page.Update(ev)
	case <-time.After(time.Second):
		t.Fatal("no clipboard status event")
	}
}

func (f *fixture) view() string {
	return ansi.Strip(f.page.View())
}

func TestGenerateDisabledWithoutSelection(t *testing.T) {
	f := newFixture(t)

	assert.Contains(t, f.view(), ChooseLabel)
	assert.Contains(t, f.view(), PageTitle)

	f.press(t, runes("g"))
	assert.NotContains(t, f.view(), options.CodersTitle)
}

func TestToggleAndGenerate(t *testing.T) {
	f := newFixture(t)

	msg := f.press(t, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	require.Equal(t, cards.ToggleMsg{ID: "google"}, msg)
	assert.Equal(t, []string{"google"}, f.store.IDs())

	view := f.view()
	assert.Contains(t, view, GenerateLabel)
	assert.Contains(t, view, "npx @stackframe/init-stack --providers google")
	assert.NotContains(t, view, options.CodersTitle)

	f.press(t, runes("g"))
	view = f.view()
	assert.Contains(t, view, options.CodersTitle)
	assert.Contains(t, view, options.VibeTitle)
}

func TestOptionsHideWhenSelectionEmpties(t *testing.T) {
	f := newFixture(t)

	f.press(t, tea.KeyMsg{Type: tea.KeyEnter})
	f.press(t, runes("g"))
	require.Contains(t, f.view(), options.CodersTitle)

	f.press(t, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Empty(t, f.store.IDs())
	assert.NotContains(t, f.view(), options.CodersTitle)
	assert.Contains(t, f.view(), ChooseLabel)
}

func TestCopyCommandShowsCopied(t *testing.T) {
	f := newFixture(t)

	f.press(t, runes("j"))
	f.press(t, tea.KeyMsg{Type: tea.KeyEnter})
	f.press(t, runes("g"))

	events := f.clipboardEvents(t)
	msg := f.press(t, runes("c"))
	assert.Equal(t, CopyResultMsg{Artifact: "command", OK: true}, msg)
	assert.Equal(t, []string{"npx @stackframe/init-stack --providers github"}, f.writer.copied)
	assert.NotContains(t, f.view(), CopiedLabel, "the result alone does not set the flag")

	f.deliver(t, events)
	assert.Contains(t, f.view(), CopiedLabel)

	f.page, _ = f.page.Update(pubsub.Event[clipboard.Status]{
		Type:    clipboard.EventStatusChanged,
		Payload: clipboard.Status{Copied: false},
	})
	assert.NotContains(t, f.view(), CopiedLabel)
}

func TestCopyPrompt(t *testing.T) {
	f := newFixture(t)

	f.press(t, tea.KeyMsg{Type: tea.KeyEnter})
	f.press(t, runes("g"))
	msg := f.press(t, runes("p"))
	assert.Equal(t, CopyResultMsg{Artifact: "prompt", OK: true}, msg)
	require.Len(t, f.writer.copied, 1)
	assert.Contains(t, f.writer.copied[0], "Part 1 – Evaluate Current Setup")
}

func TestCopyWithoutSelectionFails(t *testing.T) {
	f := newFixture(t)

	msg := f.press(t, runes("c"))
	assert.Equal(t, CopyResultMsg{Artifact: "command", OK: false}, msg)
	assert.Empty(t, f.writer.copied)
	assert.NotContains(t, f.view(), CopiedLabel)
}

func TestClearSelection(t *testing.T) {
	f := newFixture(t)

	f.press(t, tea.KeyMsg{Type: tea.KeyEnter})
	f.press(t, runes("j"))
	f.press(t, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, []string{"google", "github"}, f.store.IDs())

	f.press(t, runes("x"))
	assert.False(t, f.store.HasSelection())
	assert.Contains(t, f.view(), ChooseLabel)
}

func TestSaveDefaults(t *testing.T) {
	f := newFixture(t)

	f.press(t, runes("j"))
	f.press(t, runes("j"))
	f.press(t, tea.KeyMsg{Type: tea.KeyEnter})
	f.press(t, runes("s"))
	assert.Equal(t, [][]string{{"email"}}, f.saved)
}

func TestDocsPanel(t *testing.T) {
	f := newFixture(t)

	f.press(t, tea.KeyMsg{Type: tea.KeyEnter})
	f.press(t, runes("d"))
	assert.Contains(t, f.view(), "auth-providers#google")

	f.press(t, runes("d"))
	assert.NotContains(t, f.view(), "auth-providers#google")
}

func TestFilterCapturesKeys(t *testing.T) {
	f := newFixture(t)

	f.press(t, runes("/"))
	c, ok := f.page.(interface{ Capturing() bool })
	require.True(t, ok)
	assert.True(t, c.Capturing())

	// "g" goes to the filter, not to generate
	f.press(t, runes("g"))
	assert.False(t, f.store.HasSelection())
	assert.NotContains(t, f.view(), options.CodersTitle)
}

func TestSelectionEventsRederive(t *testing.T) {
	f := newFixture(t)

	f.store.Toggle("otp")
	f.page, _ = f.page.Update(pubsub.Event[selection.Changed]{
		Type:    pubsub.EventTypeUpdated,
		Payload: selection.Changed{IDs: []string{"otp"}},
	})
	assert.Contains(t, f.view(), "npx @stackframe/init-stack --providers otp")
}

func TestLateCopyResultDoesNotStickCopied(t *testing.T) {
	f := newFixture(t)

	f.page, _ = f.page.Update(pubsub.Event[clipboard.Status]{
		Type:    clipboard.EventStatusChanged,
		Payload: clipboard.Status{Copied: true},
	})
	require.Contains(t, f.view(), CopiedLabel)

	f.page, _ = f.page.Update(pubsub.Event[clipboard.Status]{
		Type:    clipboard.EventStatusChanged,
		Payload: clipboard.Status{Copied: false},
	})
	f.page, _ = f.page.Update(CopyResultMsg{Artifact: "command", OK: true})
	assert.NotContains(t, f.view(), CopiedLabel)
}

func TestLandingRotatesTestimonials(t *testing.T) {
	store := selection.NewStore()
	t.Cleanup(store.Shutdown)
	clip := clipboard.New(clipboard.WithWriter(&memoryWriter{}))
	t.Cleanup(clip.Close)

	p := NewQuickstartPage(QuickstartDeps{Store: store, Clipboard: clip, ShowLanding: true})
	p, _ = p.Update(tea.WindowSizeMsg{Width: 140, Height: 80})
	assert.NotNil(t, p.Init())
	assert.Contains(t, ansi.Strip(p.View()), quickstart.Testimonials[0])

	var cmd tea.Cmd
	p, cmd = p.Update(TestimonialTickMsg{})
	assert.NotNil(t, cmd, "rotation keeps ticking")
	view := ansi.Strip(p.View())
	assert.Contains(t, view, quickstart.Testimonials[1])
	assert.NotContains(t, view, quickstart.Testimonials[0])

	for range len(quickstart.Testimonials) - 1 {
		p, _ = p.Update(TestimonialTickMsg{})
	}
	assert.Contains(t, ansi.Strip(p.View()), quickstart.Testimonials[0])
}

func TestTestimonialsHiddenWithoutLanding(t *testing.T) {
	f := newFixture(t)

	assert.NotContains(t, f.view(), quickstart.Testimonials[0])
	_, cmd := f.page.Update(TestimonialTickMsg{})
	assert.Nil(t, cmd)
}
