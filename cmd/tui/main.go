package main

import (
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/ruicoelho/tally/cmd/tui/internal/view"
	"github.com/ruicoelho/tally/internal/config"
	"github.com/ruicoelho/tally/pkg/client"
)

type model struct {
	api *client.Client

	currentView View

	listView    view.ListModel
	createView  view.CreateModel
	summaryView view.SummaryModel
	importView  view.ImportModel
}

type View int

const (
	ViewMenu    View = 0
	ViewList    View = 1
	ViewCreate  View = 2
	ViewSummary View = 3
	ViewImport  View = 4
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	api := client.New(cfg.Client.BaseURL, client.WithSessionFile(sessionFilePath()))

	return model{
		api:         api,
		currentView: ViewMenu,
		listView:    view.NewListModel(api),
		createView:  view.NewCreateModel(api),
		summaryView: view.NewSummaryModel(api),
		importView:  view.NewImportModel(api),
	}
}

// sessionFilePath holds the sessionId cookie between runs, so the TUI keeps
// talking to the same ledger.
func sessionFilePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".tally-session"
	}

	appDir := filepath.Join(dir, "tally")
	_ = os.MkdirAll(appDir, 0o755)

	return filepath.Join(appDir, "session")
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewList
				m.listView = view.NewListModel(m.api)

				return m, m.listView.Init()
			case "2":
				m.currentView = ViewCreate
				m.createView = view.NewCreateModel(m.api)

				return m, m.createView.Init()
			case "3":
				m.currentView = ViewSummary
				m.summaryView = view.NewSummaryModel(m.api)

				return m, m.summaryView.Init()
			case "4":
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.api)

				return m, m.importView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewList:
		var newModel tea.Model
		newModel, cmd = m.listView.Update(msg)
		m.listView = newModel.(view.ListModel)
	case ViewCreate:
		var newModel tea.Model
		newModel, cmd = m.createView.Update(msg)
		m.createView = newModel.(view.CreateModel)
	case ViewSummary:
		var newModel tea.Model
		newModel, cmd = m.summaryView.Update(msg)
		m.summaryView = newModel.(view.SummaryModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Tally\n\n" +
				"1. List Transactions\n" +
				"2. New Transaction\n" +
				"3. Summary\n" +
				"4. Import CSV\n\n" +
				"q. Quit",
		)
	case ViewList:
		return m.listView.View()
	case ViewCreate:
		return m.createView.View()
	case ViewSummary:
		return m.summaryView.View()
	case ViewImport:
		return m.importView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
