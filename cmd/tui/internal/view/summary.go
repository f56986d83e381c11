package view

import (
	"net/http"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ruicoelho/tally/pkg/client"
)

type SummaryModel struct {
	CommonModel
	api *client.Client

	amount  int64
	loading bool
	err     error
}

func NewSummaryModel(api *client.Client) SummaryModel {
	return SummaryModel{api: api, loading: true}
}

func (m SummaryModel) Title() string { return "Summary" }

func (m SummaryModel) ShortHelp() string { return "Esc: back | r: refresh" }

func (m SummaryModel) Init() tea.Cmd {
	return m.loadSummaryCmd()
}

type summaryLoadedMsg struct {
	amount int64
	err    error
}

func (m SummaryModel) loadSummaryCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := APICtx()
		defer cancel()

		amount, err := m.api.Summary(ctx)

		return summaryLoadedMsg{amount: amount, err: err}
	}
}

func (m SummaryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadSummaryCmd()
		}

	case summaryLoadedMsg:
		m.loading = false
		m.amount = msg.amount
		m.err = msg.err

		return m, nil
	}

	return m, nil
}

func (m SummaryModel) View() string {
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

	amount := creditStyle.Render(FormatAmount(m.amount))
	if m.amount < 0 {
		amount = debitStyle.Render(FormatAmount(m.amount))
	}

	return title + "\n\nBalance: " + amount + "\n\n" + helpStyle.Render(m.ShortHelp())
}
