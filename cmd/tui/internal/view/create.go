package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/shopspring/decimal"

	"github.com/ruicoelho/tally/pkg/client"
)

type createState int

const (
	createStateForm createState = iota
	createStateSubmitting
	createStateDone
)

type CreateModel struct {
	CommonModel
	api *client.Client

	state createState
	form  *huh.Form

	created *client.Transaction
	err     error
}

func NewCreateModel(api *client.Client) CreateModel {
	return CreateModel{api: api, form: newCreateForm()}
}

// Values are read back through the form keys: the model is copied on every
// Update, so pointer bindings would go stale.
func newCreateForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("title").
				Title("Title").
				Validate(huh.ValidateNotEmpty()),
			huh.NewInput().
				Key("amount").
				Title("Amount").
				Description("Currency units, e.g. 12.50").
				Validate(validateAmount),
			huh.NewSelect[string]().
				Key("type").
				Title("Type").
				Options(huh.NewOptions("debit", "credit")...),
		),
	)
}

func validateAmount(s string) error {
	if _, err := parseCents(s); err != nil {
		return err
	}

	return nil
}

// parseCents converts a decimal amount string into cents.
func parseCents(s string) (int64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("not a number")
	}

	if d.IsNegative() {
		return 0, fmt.Errorf("must not be negative")
	}

	cents := d.Mul(decimal.NewFromInt(100))
	if !cents.IsInteger() {
		return 0, fmt.Errorf("at most two decimal places")
	}

	return cents.IntPart(), nil
}

func (m CreateModel) Title() string { return "New Transaction" }

func (m CreateModel) ShortHelp() string {
	if m.state == createStateDone {
		return "n: another | Esc: back"
	}

	return "Navigate form | Esc: back"
}

func (m CreateModel) Init() tea.Cmd {
	return m.form.Init()
}

type createdMsg struct {
	tx  *client.Transaction
	err error
}

func (m CreateModel) submitCmd() tea.Cmd {
	title := m.form.GetString("title")
	amount, _ := parseCents(m.form.GetString("amount"))
	kind := m.form.GetString("type")

	return func() tea.Msg {
		ctx, cancel := APICtx()
		defer cancel()

		tx, err := m.api.CreateTransaction(ctx, client.CreateTransactionRequest{
			Title:  title,
			Amount: amount,
			Type:   kind,
		})

		return createdMsg{tx: tx, err: err}
	}
}

func (m CreateModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m, Back
		}

		if m.state == createStateDone && msg.String() == "n" {
			fresh := NewCreateModel(m.api)
			fresh.CommonModel = m.CommonModel

			return fresh, fresh.Init()
		}

	case createdMsg:
		m.state = createStateDone
		m.created = msg.tx
		m.err = msg.err

		return m, nil
	}

	if m.state != createStateForm {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.state = createStateSubmitting
		return m, m.submitCmd()
	}

	return m, cmd
}

func (m CreateModel) View() string {
	title := titleStyle.Render(m.Title())

	switch m.state {
	case createStateSubmitting:
		return title + "\n\nSaving…\n"
	case createStateDone:
		if m.err != nil {
			return title + "\n\n" + errStyle.Render(m.err.Error()) + "\n\n" + helpStyle.Render(m.ShortHelp())
		}

		amount := creditStyle.Render(FormatAmount(m.created.Amount))
		if m.created.Amount < 0 {
			amount = debitStyle.Render(FormatAmount(m.created.Amount))
		}

		return fmt.Sprintf("%s\n\nCreated %q for %s\nid: %s\n\n%s",
			title, m.created.Title, amount, m.created.ID, helpStyle.Render(m.ShortHelp()))
	}

	return title + "\n\n" + m.form.View() + "\n\n" + helpStyle.Render(m.ShortHelp())
}
