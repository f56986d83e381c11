package view

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ruicoelho/tally/pkg/client"
)

type importState int

const (
	importStateFilePick importState = iota
	importStateUploading
	importStateResult
)

type ImportModel struct {
	CommonModel
	api *client.Client

	state      importState
	filePicker filepicker.Model

	imported int
	err      error
}

func NewImportModel(api *client.Client) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.Height = 15

	return ImportModel{api: api, filePicker: fp}
}

func (m ImportModel) Title() string { return "Import CSV" }

func (m ImportModel) ShortHelp() string {
	if m.state == importStateResult {
		return "Esc: back"
	}

	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

type importedMsg struct {
	count int
	err   error
}

func (m ImportModel) uploadCmd(path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return importedMsg{err: err}
		}
		defer f.Close()

		ctx, cancel := APICtx()
		defer cancel()

		count, err := m.api.ImportCSV(ctx, f)

		return importedMsg{count: count, err: err}
	}
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m, Back
		}

	case importedMsg:
		m.state = importStateResult
		m.imported = msg.count
		m.err = msg.err

		return m, nil
	}

	if m.state != importStateFilePick {
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = importStateUploading
		return m, m.uploadCmd(path)
	}

	return m, cmd
}

func (m ImportModel) View() string {
	title := titleStyle.Render(m.Title())

	switch m.state {
	case importStateUploading:
		return title + "\n\nUploading…\n"
	case importStateResult:
		if m.err != nil {
			return title + "\n\n" + errStyle.Render(m.err.Error()) + "\n\n" + helpStyle.Render(m.ShortHelp())
		}

		return fmt.Sprintf("%s\n\nImported %d transactions.\n\n%s", title, m.imported, helpStyle.Render(m.ShortHelp()))
	}

	return title + "\n\nPick a CSV file (title,amount,type):\n\n" + m.filePicker.View() + "\n" + helpStyle.Render(m.ShortHelp())
}
