package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/rmuratov/brofund/internal/contributor"
	"github.com/rmuratov/brofund/internal/ledger"
	"github.com/rmuratov/brofund/internal/money"
)

type expenseState int

const (
	expenseStateLoading expenseState = iota
	expenseStateForm
	expenseStateDone
)

// ExpenseModel records an expense split among all contributors by their
// configured percentages.
type ExpenseModel struct {
	CommonModel
	ledgerService      *ledger.Service
	contributorService *contributor.Service

	state        expenseState
	contributors []*contributor.Contributor
	form         *huh.Form
	result       *ledger.Expense
	err          error

	// Form bindings
	formCreatedBy   string
	formAmount      string
	formDescription string
}

func NewExpenseModel(ledgerSvc *ledger.Service, contributorSvc *contributor.Service) ExpenseModel {
	return ExpenseModel{
		ledgerService:      ledgerSvc,
		contributorService: contributorSvc,
		state:              expenseStateLoading,
	}
}

func (m ExpenseModel) Title() string { return "Record Expense" }
func (m ExpenseModel) ShortHelp() string {
	return "Navigate form | Esc: back"
}

func (m ExpenseModel) Init() tea.Cmd {
	return m.loadContributorsCmd()
}

func (m ExpenseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case expenseContributorsMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = expenseStateDone

			return m, nil
		}

		m.contributors = msg.contributors
		m.buildForm()
		m.state = expenseStateForm

		return m, m.form.Init()

	case expenseSavedMsg:
		m.err = msg.err
		m.result = msg.expense
		m.state = expenseStateDone

		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m, Back
		}

		if m.state == expenseStateDone {
			return m, Back
		}
	}

	if m.state != expenseStateForm {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.saveCmd()
}

func (m *ExpenseModel) buildForm() {
	options := make([]huh.Option[string], len(m.contributors))
	for i, c := range m.contributors {
		options[i] = huh.NewOption(c.Name, c.ID.String())
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("description").
				Title("Description").
				Value(&m.formDescription).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("description cannot be empty")
					}

					return nil
				}),

			huh.NewInput().
				Key("amount").
				Title("Total amount").
				Placeholder("100.00").
				Value(&m.formAmount).
				Validate(func(s string) error {
					cents, err := ParseAmount(s)
					if err != nil {
						return err
					}

					if cents <= 0 {
						return fmt.Errorf("amount must be positive")
					}

					return nil
				}),

			huh.NewSelect[string]().
				Key("created_by").
				Title("Recorded by").
				Options(options...).
				Value(&m.formCreatedBy),
		),
	).WithWidth(45).WithShowHelp(false)
}

func (m ExpenseModel) View() string {
	switch m.state {
	case expenseStateLoading:
		return lipgloss.NewStyle().Padding(2).Render("Loading contributors...")

	case expenseStateDone:
		if m.err != nil {
			return lipgloss.NewStyle().Padding(2).Render(
				fmt.Sprintf("Error: %v\n\nPress any key to go back.", m.err))
		}

		var sb strings.Builder

		fmt.Fprintf(&sb, "Expense recorded: %s\n\n",
			money.FormatCents(m.result.TotalAmountCents))

		for _, sp := range m.result.Splits {
			fmt.Fprintf(&sb, "  %-16s %5.2f%%  %s\n",
				sp.ContributorName, sp.Percentage, money.FormatCents(sp.AmountCents))
		}

		sb.WriteString("\nPress any key to go back.")

		return lipgloss.NewStyle().Padding(2).Render(sb.String())
	}

	var shares strings.Builder
	for _, c := range m.contributors {
		fmt.Fprintf(&shares, "  %-16s %5.2f%%\n", c.Name, c.Percentage)
	}

	panel := lipgloss.NewStyle().
		Padding(1, 2).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Width(48).
		Render(fmt.Sprintf("Record Expense\n\nSplit:\n%s\n%s", shares.String(), m.form.View()))

	return lipgloss.NewStyle().Padding(1).Render(panel)
}

type expenseContributorsMsg struct {
	contributors []*contributor.Contributor
	err          error
}

func (m ExpenseModel) loadContributorsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		contributors, err := m.contributorService.List(ctx)

		return expenseContributorsMsg{contributors: contributors, err: err}
	}
}

type expenseSavedMsg struct {
	expense *ledger.Expense
	err     error
}

func (m ExpenseModel) saveCmd() tea.Cmd {
	createdBy := m.formCreatedBy
	amount := m.formAmount
	description := m.formDescription
	contributors := m.contributors

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		id, err := parseUUID(createdBy)
		if err != nil {
			return expenseSavedMsg{err: err}
		}

		cents, err := ParseAmount(amount)
		if err != nil {
			return expenseSavedMsg{err: err}
		}

		shares := make([]money.Share, len(contributors))
		for i, c := range contributors {
			shares[i] = money.Share{ContributorID: c.ID, Percentage: c.Percentage}
		}

		expense, err := m.ledgerService.RecordExpense(ctx, ledger.ExpenseParams{
			Description:      description,
			TotalAmountCents: cents,
			CreatedBy:        id,
			Shares:           shares,
		})

		return expenseSavedMsg{expense: expense, err: err}
	}
}
