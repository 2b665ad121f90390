package page

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stack-auth/stack-quickstart/internal/clipboard"
	"github.com/stack-auth/stack-quickstart/internal/pubsub"
	"github.com/stack-auth/stack-quickstart/internal/quickstart"
	"github.com/stack-auth/stack-quickstart/internal/selection"
	"github.com/stack-auth/stack-quickstart/internal/status"
	"github.com/stack-auth/stack-quickstart/internal/tui/components/cards"
	"github.com/stack-auth/stack-quickstart/internal/tui/components/docs"
	"github.com/stack-auth/stack-quickstart/internal/tui/components/options"
	"github.com/stack-auth/stack-quickstart/internal/tui/styles"
	"github.com/stack-auth/stack-quickstart/internal/tui/theme"
)

var QuickstartPage PageID = "quickstart"

const (
	PageTitle    = "Build Your Authentication"
	PageSubtitle = "Select your authentication providers and choose your preferred setup method"

	GenerateLabel  = "Generate Options"
	ChooseLabel    = "Please choose a method"
	CopiedLabel    = "Copied!"
	copyTimeout    = 5 * time.Second
	sideBySideMinW = 100

	testimonialInterval = 5 * time.Second
)

type QuickstartKeyMap struct {
	Generate    key.Binding
	CopyCommand key.Binding
	CopyPrompt  key.Binding
	Clear       key.Binding
	Docs        key.Binding
	Features    key.Binding
	Save        key.Binding
}

var quickstartKeys = QuickstartKeyMap{
	Generate: key.NewBinding(
		key.WithKeys("g"),
		key.WithHelp("g", "generate options"),
	),
	CopyCommand: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "copy command"),
	),
	CopyPrompt: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "copy prompt"),
	),
	Clear: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "clear selection"),
	),
	Docs: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "toggle docs"),
	),
	Features: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "toggle features"),
	),
	Save: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "save as default providers"),
	),
}

// CopyResultMsg reports the outcome of a clipboard write.
type CopyResultMsg struct {
	Artifact string
	OK       bool
}

// TestimonialTickMsg advances the landing quote. It belongs to the quickstart
// page whichever page is in front.
type TestimonialTickMsg struct{}

type savedDefaultsMsg struct {
	ids []string
	err error
}

// QuickstartDeps wires the page to the selection and the clipboard. The page
// never derives anything on its own; it re-reads Store after each mutation.
type QuickstartDeps struct {
	Store        *selection.Store
	Clipboard    *clipboard.Adapter
	SaveDefaults func(ids []string) error
	ShowLanding  bool
}

type quickstartPage struct {
	deps QuickstartDeps

	width, height int
	cards         cards.Model
	options       options.Model

	ids          []string
	generated    bool
	copied       bool
	showDocs     bool
	showFeatures bool
	testimonial  int
}

func NewQuickstartPage(deps QuickstartDeps) tea.Model {
	p := &quickstartPage{
		deps:    deps,
		cards:   cards.New(),
		options: options.New(),
	}
	p.derive()
	return p
}

func (p *quickstartPage) Init() tea.Cmd {
	if p.deps.ShowLanding {
		return tea.Batch(p.cards.Init(), nextTestimonial())
	}
	return p.cards.Init()
}

func nextTestimonial() tea.Cmd {
	return tea.Tick(testimonialInterval, func(time.Time) tea.Msg {
		return TestimonialTickMsg{}
	})
}

// derive recomputes everything shown from the store's current ids.
func (p *quickstartPage) derive() {
	p.ids = p.deps.Store.IDs()
	p.cards.SetSelected(p.ids)
	p.options.SetSetup(quickstart.Generate(p.ids))
	if len(p.ids) == 0 {
		p.generated = false
	}
}

// Capturing reports whether typed keys belong to an input, so global
// shortcuts must not fire.
func (p *quickstartPage) Capturing() bool {
	return p.cards.Filtering()
}

func (p *quickstartPage) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.SetSize(msg.Width, msg.Height)
		return p, nil

	case cards.ToggleMsg:
		selected := p.deps.Store.Toggle(msg.ID)
		slog.Debug("Provider toggled", "provider", msg.ID, "selected", selected)
		p.derive()
		return p, nil

	case pubsub.Event[selection.Changed]:
		p.derive()
		return p, nil

	case pubsub.Event[clipboard.Status]:
		p.copied = msg.Payload.Copied
		return p, nil

	case TestimonialTickMsg:
		if !p.deps.ShowLanding || len(quickstart.Testimonials) == 0 {
			return p, nil
		}
		p.testimonial = (p.testimonial + 1) % len(quickstart.Testimonials)
		return p, nextTestimonial()

	// the Copied! flag follows clipboard status events only
	case CopyResultMsg:
		if msg.OK {
			status.Info("Copied " + msg.Artifact + " to clipboard")
		}
		return p, nil

	case savedDefaultsMsg:
		if msg.err != nil {
			slog.Error("Failed to save default providers", "error", msg.err)
			status.Error("Failed to save default providers: " + msg.err.Error())
			return p, nil
		}
		status.Info("Saved default providers: " + quickstart.ProviderCSV(msg.ids))
		return p, nil

	case tea.KeyMsg:
		if p.cards.Filtering() {
			p.cards, cmd = p.cards.Update(msg)
			return p, cmd
		}
		switch {
		case key.Matches(msg, quickstartKeys.Generate):
			if !p.deps.Store.HasSelection() {
				status.Warn(ChooseLabel)
				return p, nil
			}
			p.generated = true
			p.showDocs = false
			p.showFeatures = false
			return p, nil
		case key.Matches(msg, quickstartKeys.CopyCommand):
			return p, p.copyCmd("command", quickstart.BuildCommand(p.ids))
		case key.Matches(msg, quickstartKeys.CopyPrompt):
			return p, p.copyCmd("prompt", p.options.Setup().Prompt)
		case key.Matches(msg, quickstartKeys.Clear):
			p.deps.Store.Clear()
			p.derive()
			return p, nil
		case key.Matches(msg, quickstartKeys.Docs):
			p.showDocs = !p.showDocs
			p.showFeatures = false
			return p, nil
		case key.Matches(msg, quickstartKeys.Features):
			p.showFeatures = !p.showFeatures
			p.showDocs = false
			return p, nil
		case key.Matches(msg, quickstartKeys.Save):
			return p, p.saveCmd()
		}

		p.cards, cmd = p.cards.Update(msg)
		cmds = append(cmds, cmd)
		if p.generated {
			p.options, cmd = p.options.Update(msg)
			cmds = append(cmds, cmd)
		}
		return p, tea.Batch(cmds...)

	case tea.MouseMsg:
		p.cards, cmd = p.cards.Update(msg)
		cmds = append(cmds, cmd)
		if p.generated {
			p.options, cmd = p.options.Update(msg)
			cmds = append(cmds, cmd)
		}
		return p, tea.Batch(cmds...)
	}

	p.cards, cmd = p.cards.Update(msg)
	return p, cmd
}

func (p *quickstartPage) copyCmd(artifact, text string) tea.Cmd {
	clip := p.deps.Clipboard
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), copyTimeout)
		defer cancel()
		return CopyResultMsg{Artifact: artifact, OK: clip.Copy(ctx, text)}
	}
}

func (p *quickstartPage) saveCmd() tea.Cmd {
	ids := p.ids
	save := p.deps.SaveDefaults
	if save == nil {
		return nil
	}
	return func() tea.Msg {
		return savedDefaultsMsg{ids: ids, err: save(ids)}
	}
}

func (p *quickstartPage) BindingKeys() []key.Binding {
	bindings := p.cards.BindingKeys()
	bindings = append(bindings,
		quickstartKeys.Generate,
		quickstartKeys.CopyCommand,
		quickstartKeys.CopyPrompt,
		quickstartKeys.Clear,
		quickstartKeys.Docs,
		quickstartKeys.Features,
		quickstartKeys.Save,
	)
	if p.generated {
		bindings = append(bindings, p.options.BindingKeys()...)
	}
	return bindings
}

func (p *quickstartPage) SetSize(width, height int) {
	p.width = width
	p.height = height

	sideWidth := width
	if width >= sideBySideMinW {
		sideWidth = width - width/3 - 2
	}
	p.cards, _ = p.cards.Update(tea.WindowSizeMsg{Width: width - sideWidth, Height: height})
	// the coders panel and the page header take roughly 24 rows
	p.options.SetSize(sideWidth, height-24)
}

func (p *quickstartPage) header() string {
	var lines []string
	if p.deps.ShowLanding {
		var struck []string
		for _, s := range quickstart.StruckTaglines {
			struck = append(struck, lipgloss.NewStyle().Strikethrough(true).Foreground(theme.CurrentTheme().TextMuted()).Render(s))
		}
		lines = append(lines,
			styles.Gradient(styles.StackIcon+" "+quickstart.Headline),
			strings.Join(struck, "  ")+"  "+styles.Bold().Render(quickstart.Tagline),
		)
		if n := len(quickstart.Testimonials); n > 0 {
			quote := quickstart.Testimonials[p.testimonial%n]
			lines = append(lines, styles.Muted().Italic(true).Render("“"+quote+"”"))
		}
		lines = append(lines, "")
	}
	lines = append(lines,
		styles.Title().Render(PageTitle),
		styles.Muted().Render(PageSubtitle),
	)
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (p *quickstartPage) commandLine() string {
	t := theme.CurrentTheme()
	command := quickstart.BuildCommand(p.ids)
	if command == "" {
		command = styles.Muted().Render(quickstart.CommandPrefix)
	} else {
		command = styles.HighlightShell(command)
	}
	line := styles.Bold().Render("Generated Command  ") + command
	if p.copied {
		line += "  " + lipgloss.NewStyle().Foreground(t.Success()).Bold(true).Render(styles.CheckIcon+" "+CopiedLabel)
	}
	return line
}

func (p *quickstartPage) generateButton() string {
	t := theme.CurrentTheme()
	if !p.deps.Store.HasSelection() {
		return lipgloss.NewStyle().
			Foreground(t.TextMuted()).
			Border(lipgloss.NormalBorder()).
			BorderForeground(t.Border()).
			Padding(0, 2).
			Render(ChooseLabel)
	}
	return lipgloss.NewStyle().
		Foreground(t.Background()).
		Background(t.Primary()).
		Bold(true).
		Border(lipgloss.NormalBorder()).
		BorderForeground(t.Primary()).
		Padding(0, 2).
		Render("[g] " + GenerateLabel)
}

func (p *quickstartPage) sidePanel(width int) string {
	switch {
	case p.showFeatures:
		return styles.RenderMarkdown(quickstart.FeaturesMarkdown(), max(width-2, 20))
	case p.showDocs:
		return docs.View(p.ids, width)
	case p.generated && len(p.ids) > 0:
		return p.options.View()
	}
	return ""
}

func (p *quickstartPage) View() string {
	sections := []string{
		p.header(),
		"",
		p.commandLine(),
		p.generateButton(),
		"",
	}

	cardsView := p.cards.View()
	if p.width >= sideBySideMinW {
		side := p.sidePanel(p.width - p.width/3 - 2)
		sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, cardsView, "  ", side))
	} else {
		sections = append(sections, cardsView)
		if side := p.sidePanel(p.width); side != "" {
			sections = append(sections, "", side)
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
