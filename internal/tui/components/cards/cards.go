// Package cards renders the provider catalog as toggleable cards.
package cards

import (
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lithammer/fuzzysearch/fuzzy"
	zone "github.com/lrstanley/bubblezone"
	"github.com/stack-auth/stack-quickstart/internal/provider"
	"github.com/stack-auth/stack-quickstart/internal/tui/styles"
	"github.com/stack-auth/stack-quickstart/internal/tui/theme"
	"github.com/stack-auth/stack-quickstart/internal/tui/util"
)

// ToggleMsg asks the owner of the selection to toggle a provider.
type ToggleMsg struct {
	ID string
}

type KeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	Filter key.Binding
	Accept key.Binding
	Cancel key.Binding
}

var keys = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "previous provider"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "next provider"),
	),
	Toggle: key.NewBinding(
		key.WithKeys(" ", "space", "enter"),
		key.WithHelp("space", "toggle provider"),
	),
	Filter: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "filter providers"),
	),
	Accept: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "apply filter"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "clear filter"),
	),
}

// Model is the card grid. It never mutates the selection itself; toggles
// leave as ToggleMsg and the checked state comes back through SetSelected.
type Model struct {
	items     []provider.Provider
	visible   []int
	cursor    int
	selected  map[string]bool
	filter    textinput.Model
	filtering bool
	width     int
}

func New() Model {
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "filter providers"
	ti.CharLimit = 32

	m := Model{
		items:    provider.All(),
		selected: map[string]bool{},
		filter:   ti,
	}
	m.applyFilter()
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		for i, idx := range m.visible {
			p := m.items[idx]
			if zone.Get(ZoneID(p.ID)).InBounds(msg) {
				m.cursor = i
				return m, util.CmdHandler(ToggleMsg{ID: p.ID})
			}
		}
		return m, nil

	case tea.KeyMsg:
		if m.filtering {
			return m.updateFilter(msg)
		}
		switch {
		case key.Matches(msg, keys.Up):
			m.cursor = util.Clamp(m.cursor-1, 0, len(m.visible)-1)
		case key.Matches(msg, keys.Down):
			m.cursor = util.Clamp(m.cursor+1, 0, len(m.visible)-1)
		case key.Matches(msg, keys.Toggle):
			if p, ok := m.Current(); ok {
				return m, util.CmdHandler(ToggleMsg{ID: p.ID})
			}
		case key.Matches(msg, keys.Filter):
			m.filtering = true
			return m, m.filter.Focus()
		case key.Matches(msg, keys.Cancel):
			if m.filter.Value() != "" {
				m.filter.SetValue("")
				m.applyFilter()
			}
		}
		return m, nil
	}

	if m.filtering {
		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateFilter(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Cancel):
		m.filtering = false
		m.filter.Blur()
		m.filter.SetValue("")
		m.applyFilter()
		return m, nil
	case key.Matches(msg, keys.Accept):
		m.filtering = false
		m.filter.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.applyFilter()
	return m, cmd
}

// applyFilter recomputes the visible cards, best fuzzy match first.
func (m *Model) applyFilter() {
	query := strings.TrimSpace(m.filter.Value())
	visible := make([]int, 0, len(m.items))
	if query == "" {
		for i := range m.items {
			visible = append(visible, i)
		}
	} else {
		names := make([]string, len(m.items))
		for i, p := range m.items {
			names[i] = p.Name + " " + p.ID
		}
		matches := fuzzy.RankFindFold(query, names)
		sort.Stable(matches)
		for _, match := range matches {
			visible = append(visible, match.OriginalIndex)
		}
	}
	m.visible = visible
	m.cursor = util.Clamp(m.cursor, 0, max(len(m.visible)-1, 0))
}

// SetSelected replaces the checked state with ids.
func (m *Model) SetSelected(ids []string) {
	m.selected = make(map[string]bool, len(ids))
	for _, id := range ids {
		m.selected[id] = true
	}
}

// Current returns the provider under the cursor.
func (m Model) Current() (provider.Provider, bool) {
	if len(m.visible) == 0 {
		return provider.Provider{}, false
	}
	return m.items[m.visible[m.cursor]], true
}

// Visible returns the ids of the cards that pass the filter, in display order.
func (m Model) Visible() []string {
	ids := make([]string, 0, len(m.visible))
	for _, idx := range m.visible {
		ids = append(ids, m.items[idx].ID)
	}
	return ids
}

func (m Model) Filtering() bool {
	return m.filtering
}

func (m Model) BindingKeys() []key.Binding {
	return []key.Binding{keys.Up, keys.Down, keys.Toggle, keys.Filter}
}

// ZoneID is the bubblezone id of a provider's card.
func ZoneID(id string) string {
	return "provider-card-" + id
}

func (m Model) View() string {
	t := theme.CurrentTheme()

	var rows []string
	if m.filtering || m.filter.Value() != "" {
		rows = append(rows, m.filter.View(), "")
	}
	if len(m.visible) == 0 {
		rows = append(rows, styles.Muted().Render("No providers match "+m.filter.Value()))
		return lipgloss.JoinVertical(lipgloss.Left, rows...)
	}

	cardWidth := 36
	if m.width > 0 {
		cardWidth = util.Clamp(m.width/2-2, 28, 48)
	}

	for i, idx := range m.visible {
		p := m.items[idx]
		checked := m.selected[p.ID]
		focused := i == m.cursor

		mark := styles.Muted().Render(styles.EmptyIcon)
		if checked {
			mark = lipgloss.NewStyle().Foreground(t.Success()).Render(styles.SelectedIcon)
		}
		cursor := " "
		if focused {
			cursor = lipgloss.NewStyle().Foreground(t.Primary()).Render(styles.CursorIcon)
		}

		name := styles.Bold().Render(p.Icon + "  " + p.Name)
		body := lipgloss.JoinVertical(lipgloss.Left,
			mark+" "+name,
			styles.Muted().Width(cardWidth-4).Render(p.Description),
		)
		card := styles.Panel(checked || focused).Width(cardWidth).Render(body)
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Center, cursor+" ", zone.Mark(ZoneID(p.ID), card)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
