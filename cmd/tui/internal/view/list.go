package view

import (
	"net/http"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ruicoelho/tally/pkg/client"
)

type ListModel struct {
	CommonModel
	api *client.Client

	table   table.Model
	txs     []client.Transaction
	loading bool
	err     error
}

func NewListModel(api *client.Client) ListModel {
	columns := []table.Column{
		{Title: "Created", Width: 12},
		{Title: "Title", Width: 36},
		{Title: "Amount", Width: 12},
		{Title: "ID", Width: 36},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return ListModel{api: api, table: t}
}

func (m ListModel) Title() string { return "Transactions" }

func (m ListModel) ShortHelp() string { return "Esc: back | r: refresh" }

func (m ListModel) Init() tea.Cmd {
	return m.loadTxsCmd()
}

type txsLoadedMsg struct {
	txs []client.Transaction
	err error
}

func (m ListModel) loadTxsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := APICtx()
		defer cancel()

		txs, err := m.api.ListTransactions(ctx)

		return txsLoadedMsg{txs: txs, err: err}
	}
}

func (m ListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadTxsCmd()
		}

	case txsLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.txs = msg.txs

		rows := make([]table.Row, len(m.txs))
		for i, tx := range m.txs {
			rows[i] = table.Row{
				FormatDate(tx.CreatedAt),
				tx.Title,
				FormatAmount(tx.Amount),
				tx.ID,
			}
		}

		m.table.SetRows(rows)

		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ListModel) View() string {
	title := titleStyle.Render(m.Title())

	if m.loading {
		return title + "\n\nLoading…\n"
	}

	if m.err != nil {
		if client.IsStatus(m.err, http.StatusUnauthorized) {
			return title + "\n\nNo session yet. Create a transaction first.\n\n" + helpStyle.Render(m.ShortHelp())
		}

		return title + "\n\n" + errStyle.Render(m.err.Error()) + "\n\n" + helpStyle.Render(m.ShortHelp())
	}

	if len(m.txs) == 0 {
		return title + "\n\nNo transactions yet.\n\n" + helpStyle.Render(m.ShortHelp())
	}

	return title + "\n\n" + m.table.View() + "\n\n" + helpStyle.Render(m.ShortHelp())
}
