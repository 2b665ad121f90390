package logs

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stack-auth/stack-quickstart/internal/logging"
	"github.com/stack-auth/stack-quickstart/internal/pubsub"
	"github.com/stack-auth/stack-quickstart/internal/tui/theme"
)

const logLimit = 100

// SelectedLogMsg carries the log under the table cursor to the details pane.
type SelectedLogMsg logging.Log

// LogsLoadedMsg carries the initial history.
type LogsLoadedMsg struct {
	Logs []logging.Log
}

type TableCmp struct {
	table         table.Model
	logs          []logging.Log
	selectedLogID string
}

func (i *TableCmp) Init() tea.Cmd {
	return i.fetchLogs()
}

func (i *TableCmp) fetchLogs() tea.Cmd {
	return func() tea.Msg {
		loggingService := logging.GetService()
		if loggingService == nil {
			return nil
		}
		logs, err := loggingService.ListAll(context.Background(), logLimit)
		if err != nil {
			return nil
		}
		return LogsLoadedMsg{Logs: logs}
	}
}

func (i *TableCmp) Update(msg tea.Msg) (*TableCmp, tea.Cmd) {
	switch msg := msg.(type) {
	case LogsLoadedMsg:
		i.logs = msg.Logs
		i.updateRows()
		return i, i.selectCmd()

	case pubsub.Event[logging.Log]:
		if msg.Type == logging.EventLogCreated {
			i.logs = append([]logging.Log{msg.Payload}, i.logs...)
			if len(i.logs) > logLimit {
				i.logs = i.logs[:logLimit]
			}
			i.updateRows()
		}
		return i, nil

	case tea.KeyMsg:
		var cmd tea.Cmd
		i.table, cmd = i.table.Update(msg)
		return i, tea.Batch(cmd, i.selectCmd())
	}
	return i, nil
}

// selectCmd announces the row under the cursor when it changed.
func (i *TableCmp) selectCmd() tea.Cmd {
	row := i.table.SelectedRow()
	if row == nil || row[0] == i.selectedLogID {
		return nil
	}
	i.selectedLogID = row[0]
	for _, l := range i.logs {
		if l.ID == row[0] {
			selected := SelectedLogMsg(l)
			return func() tea.Msg { return selected }
		}
	}
	return nil
}

func (i *TableCmp) View() string {
	t := theme.CurrentTheme()
	defaultStyles := table.DefaultStyles()
	defaultStyles.Selected = defaultStyles.Selected.Foreground(t.Primary())
	i.table.SetStyles(defaultStyles)
	return i.table.View()
}

func (i *TableCmp) SetSize(width int, height int) {
	i.table.SetWidth(width)
	i.table.SetHeight(height)

	const (
		timeWidth  = 8
		levelWidth = 7
	)
	columns := i.table.Columns()
	columns[0].Width = 0 // id, hidden
	columns[1].Width = timeWidth
	columns[2].Width = levelWidth
	columns[3].Width = max(width-timeWidth-levelWidth-5, 10)
	i.table.SetColumns(columns)
}

func (i *TableCmp) BindingKeys() []key.Binding {
	return []key.Binding{i.table.KeyMap.LineUp, i.table.KeyMap.LineDown}
}

func (i *TableCmp) Len() int {
	return len(i.logs)
}

func (i *TableCmp) updateRows() {
	rows := make([]table.Row, 0, len(i.logs))
	for _, log := range i.logs {
		rows = append(rows, table.Row{
			log.ID,
			log.Timestamp.Local().Format("15:04:05"),
			log.Level,
			log.Message,
		})
	}
	i.table.SetRows(rows)
}

func NewLogsTable() *TableCmp {
	columns := []table.Column{
		{Title: "ID", Width: 0},
		{Title: "Time", Width: 8},
		{Title: "Level", Width: 7},
		{Title: "Message", Width: 30},
	}
	tableModel := table.New(table.WithColumns(columns))
	tableModel.Focus()
	return &TableCmp{
		table: tableModel,
		logs:  []logging.Log{},
	}
}
