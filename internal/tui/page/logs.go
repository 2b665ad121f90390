package page

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stack-auth/stack-quickstart/internal/tui/components/logs"
	"github.com/stack-auth/stack-quickstart/internal/tui/styles"
)

var LogsPage PageID = "logs"

type logsPage struct {
	width, height int
	table         *logs.TableCmp
	details       *logs.DetailCmp
}

func (p *logsPage) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.SetSize(msg.Width, msg.Height)
		return p, nil
	}

	var cmd tea.Cmd
	p.table, cmd = p.table.Update(msg)
	cmds = append(cmds, cmd)
	p.details, cmd = p.details.Update(msg)
	cmds = append(cmds, cmd)

	return p, tea.Batch(cmds...)
}

func (p *logsPage) View() string {
	tableView := lipgloss.NewStyle().PaddingRight(3).Render(p.table.View())

	return lipgloss.JoinVertical(
		lipgloss.Left,
		styles.Bold().Render(" esc")+styles.Muted().Render(" to go back"),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top,
			tableView,
			p.details.View(),
		),
	)
}

func (p *logsPage) BindingKeys() []key.Binding {
	return p.table.BindingKeys()
}

func (p *logsPage) SetSize(width int, height int) {
	p.width = width
	p.height = height
	p.table.SetSize(width/2, height-3)
	p.details.SetSize(width/2, height-3)
}

func (p *logsPage) Init() tea.Cmd {
	return p.table.Init()
}

func NewLogsPage() tea.Model {
	return &logsPage{
		table:   logs.NewLogsTable(),
		details: logs.NewLogsDetails(),
	}
}
