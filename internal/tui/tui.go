package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/stack-auth/stack-quickstart/internal/clipboard"
	"github.com/stack-auth/stack-quickstart/internal/logging"
	"github.com/stack-auth/stack-quickstart/internal/pubsub"
	"github.com/stack-auth/stack-quickstart/internal/selection"
	"github.com/stack-auth/stack-quickstart/internal/status"
	"github.com/stack-auth/stack-quickstart/internal/tui/components/core"
	"github.com/stack-auth/stack-quickstart/internal/tui/page"
	"github.com/stack-auth/stack-quickstart/internal/tui/styles"
)

type keyMap struct {
	Logs key.Binding
	Quit key.Binding
	Help key.Binding
}

var keys = keyMap{
	Logs: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("ctrl+l", "logs"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "toggle help"),
	),
}

var forceQuitKey = key.NewBinding(
	key.WithKeys("ctrl+c"),
)

var logsKeyReturnKey = key.NewBinding(
	key.WithKeys("esc", "backspace", "q"),
	key.WithHelp("esc/q", "go back"),
)

type bindings interface {
	BindingKeys() []key.Binding
}

type capturer interface {
	Capturing() bool
}

// helpKeys adapts a flat binding list to help.KeyMap.
type helpKeys []key.Binding

func (h helpKeys) ShortHelp() []key.Binding { return h }

func (h helpKeys) FullHelp() [][]key.Binding {
	var columns [][]key.Binding
	for i := 0; i < len(h); i += 5 {
		columns = append(columns, h[i:min(i+5, len(h))])
	}
	return columns
}

type appModel struct {
	width, height int
	currentPage   page.PageID
	previousPage  page.PageID
	pages         map[page.PageID]tea.Model
	loadedPages   map[page.PageID]bool
	status        core.StatusCmp

	showHelp bool
	help     help.Model
}

func (a appModel) Init() tea.Cmd {
	var cmds []tea.Cmd
	cmds = append(cmds, a.pages[a.currentPage].Init())
	a.loadedPages[a.currentPage] = true
	cmds = append(cmds, a.status.Init())
	return tea.Batch(cmds...)
}

func (a appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		msg.Height -= 1 // status bar
		a.width, a.height = msg.Width, msg.Height
		a.help.Width = msg.Width

		s, _ := a.status.Update(msg)
		a.status = s.(core.StatusCmp)
		for id := range a.pages {
			a.pages[id], cmd = a.pages[id].Update(msg)
			cmds = append(cmds, cmd)
		}
		return a, tea.Batch(cmds...)

	case pubsub.Event[status.StatusMessage]:
		s, cmd := a.status.Update(msg)
		a.status = s.(core.StatusCmp)
		return a, cmd

	case pubsub.Event[selection.Changed], pubsub.Event[clipboard.Status]:
		s, _ := a.status.Update(msg)
		a.status = s.(core.StatusCmp)
		a.pages[page.QuickstartPage], cmd = a.pages[page.QuickstartPage].Update(msg)
		return a, cmd

	case page.TestimonialTickMsg:
		a.pages[page.QuickstartPage], cmd = a.pages[page.QuickstartPage].Update(msg)
		return a, cmd

	case pubsub.Event[logging.Log]:
		a.pages[page.LogsPage], cmd = a.pages[page.LogsPage].Update(msg)
		return a, cmd

	case page.PageChangeMsg:
		return a, a.moveToPage(msg.ID)

	case tea.KeyMsg:
		if key.Matches(msg, forceQuitKey) {
			return a, tea.Quit
		}
		if c, ok := a.pages[a.currentPage].(capturer); ok && c.Capturing() {
			a.pages[a.currentPage], cmd = a.pages[a.currentPage].Update(msg)
			return a, cmd
		}

		switch {
		case a.currentPage == page.LogsPage && key.Matches(msg, logsKeyReturnKey):
			return a, a.moveToPage(a.previousPage)
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Logs):
			return a, a.moveToPage(page.LogsPage)
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			return a, nil
		case a.showHelp && msg.Type == tea.KeyEsc:
			a.showHelp = false
			return a, nil
		}
	}

	s, _ := a.status.Update(msg)
	a.status = s.(core.StatusCmp)
	a.pages[a.currentPage], cmd = a.pages[a.currentPage].Update(msg)
	cmds = append(cmds, cmd)
	return a, tea.Batch(cmds...)
}

func (a *appModel) moveToPage(pageID page.PageID) tea.Cmd {
	if pageID == "" || pageID == a.currentPage {
		return nil
	}
	var cmds []tea.Cmd
	if _, ok := a.loadedPages[pageID]; !ok {
		cmds = append(cmds, a.pages[pageID].Init())
		a.loadedPages[pageID] = true
	}
	a.previousPage = a.currentPage
	a.currentPage = pageID
	if sizable, ok := a.pages[a.currentPage].(interface{ SetSize(int, int) }); ok {
		sizable.SetSize(a.width, a.height)
	}
	return tea.Batch(cmds...)
}

func (a appModel) currentBindings() helpKeys {
	var bk []key.Binding
	if b, ok := a.pages[a.currentPage].(bindings); ok {
		bk = append(bk, b.BindingKeys()...)
	}
	if a.currentPage == page.LogsPage {
		bk = append(bk, logsKeyReturnKey)
	}
	return append(bk, keys.Logs, keys.Help, keys.Quit)
}

func (a appModel) View() string {
	var components []string
	// help goes first so the height clamp below never cuts it off
	if a.showHelp {
		helpView := styles.Panel(true).Render(
			lipgloss.JoinVertical(lipgloss.Left,
				styles.Title().Render("Keyboard shortcuts"),
				"",
				a.help.FullHelpView(a.currentBindings().FullHelp()),
			),
		)
		components = append(components, helpView, "")
	}
	components = append(components, a.pages[a.currentPage].View())

	body := lipgloss.JoinVertical(lipgloss.Left, components...)
	if a.height > 0 {
		body = lipgloss.NewStyle().MaxHeight(a.height).Height(a.height).Render(body)
	}

	return zone.Scan(lipgloss.JoinVertical(lipgloss.Left, body, a.status.View()))
}

// New builds the root model with the quickstart page in front.
func New(deps page.QuickstartDeps) tea.Model {
	startPage := page.QuickstartPage
	return appModel{
		currentPage: startPage,
		loadedPages: make(map[page.PageID]bool),
		status:      core.NewStatusCmp(),
		help:        help.New(),
		pages: map[page.PageID]tea.Model{
			page.QuickstartPage: page.NewQuickstartPage(deps),
			page.LogsPage:       page.NewLogsPage(),
		},
	}
}
