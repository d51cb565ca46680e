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

type incomeState int

const (
	incomeStateLoading incomeState = iota
	incomeStateForm
	incomeStateDone
)

type IncomeModel struct {
	CommonModel
	ledgerService      *ledger.Service
	contributorService *contributor.Service

	state        incomeState
	contributors []*contributor.Contributor
	form         *huh.Form
	result       *ledger.Income
	err          error

	// Form bindings
	formContributor string
	formAmount      string
	formDescription string
}

func NewIncomeModel(ledgerSvc *ledger.Service, contributorSvc *contributor.Service) IncomeModel {
	return IncomeModel{
		ledgerService:      ledgerSvc,
		contributorService: contributorSvc,
		state:              incomeStateLoading,
	}
}

func (m IncomeModel) Title() string { return "Record Income" }
func (m IncomeModel) ShortHelp() string {
	return "Navigate form | Esc: back"
}

func (m IncomeModel) Init() tea.Cmd {
	return m.loadContributorsCmd()
}

func (m IncomeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case incomeContributorsMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = incomeStateDone

			return m, nil
		}

		m.contributors = msg.contributors
		m.buildForm()
		m.state = incomeStateForm

		return m, m.form.Init()

	case incomeSavedMsg:
		m.err = msg.err
		m.result = msg.income
		m.state = incomeStateDone

		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m, Back
		}

		if m.state == incomeStateDone {
			return m, Back
		}
	}

	if m.state != incomeStateForm {
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

func (m *IncomeModel) buildForm() {
	options := make([]huh.Option[string], len(m.contributors))
	for i, c := range m.contributors {
		options[i] = huh.NewOption(c.Name, c.ID.String())
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("contributor").
				Title("Contributor").
				Options(options...).
				Value(&m.formContributor),

			huh.NewInput().
				Key("amount").
				Title("Amount").
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
		),
	).WithWidth(45).WithShowHelp(false)
}

func (m IncomeModel) View() string {
	switch m.state {
	case incomeStateLoading:
		return lipgloss.NewStyle().Padding(2).Render("Loading contributors...")

	case incomeStateDone:
		if m.err != nil {
			return lipgloss.NewStyle().Padding(2).Render(
				fmt.Sprintf("Error: %v\n\nPress any key to go back.", m.err))
		}

		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf(
			"Income recorded\n\n%s contributed %s\n\nPress any key to go back.",
			m.result.ContributorName,
			money.FormatCents(m.result.AmountCents),
		))
	}

	panel := lipgloss.NewStyle().
		Padding(1, 2).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Width(48).
		Render("Record Income\n\n" + m.form.View())

	return lipgloss.NewStyle().Padding(1).Render(panel)
}

type incomeContributorsMsg struct {
	contributors []*contributor.Contributor
	err          error
}

func (m IncomeModel) loadContributorsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		contributors, err := m.contributorService.List(ctx)

		return incomeContributorsMsg{contributors: contributors, err: err}
	}
}

type incomeSavedMsg struct {
	income *ledger.Income
	err    error
}

func (m IncomeModel) saveCmd() tea.Cmd {
	contributorID := m.formContributor
	amount := m.formAmount
	description := m.formDescription

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		id, err := parseUUID(contributorID)
		if err != nil {
			return incomeSavedMsg{err: err}
		}

		cents, err := ParseAmount(amount)
		if err != nil {
			return incomeSavedMsg{err: err}
		}

		income, err := m.ledgerService.RecordIncome(ctx, ledger.IncomeParams{
			ContributorID: id,
			AmountCents:   cents,
			Description:   description,
		})

		return incomeSavedMsg{income: income, err: err}
	}
}
