package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rmuratov/brofund/internal/ledger"
	"github.com/rmuratov/brofund/internal/money"
	"github.com/rmuratov/brofund/internal/report"
)

type HistoryModel struct {
	CommonModel
	reportService *report.Service
	ledgerService *ledger.Service

	table   table.Model
	balance *ledger.Balance
	history *report.History

	// Filter cycling
	typeFilterIdx int

	loading bool
	err     error
}

func NewHistoryModel(reportSvc *report.Service, ledgerSvc *ledger.Service) HistoryModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Type", Width: 8},
		{Title: "Contributor", Width: 16},
		{Title: "Description", Width: 30},
		{Title: "Amount", Width: 12},
		{Title: "Balance", Width: 12},
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

	return HistoryModel{
		reportService: reportSvc,
		ledgerService: ledgerSvc,
		table:         t,
		loading:       true,
	}
}

func (m HistoryModel) Title() string { return "Balance & History" }
func (m HistoryModel) ShortHelp() string {
	return "Esc: back | t: type filter | r: refresh"
}

func (m HistoryModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadHistoryMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.balance = msg.balance
		m.history = msg.history
		m.refreshTable()

		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "t":
			m.typeFilterIdx = (m.typeFilterIdx + 1) % 3
			m.loading = true

			return m, m.loadCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m HistoryModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading history...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	typeLabels := []string{"All", "Incomes", "Expenses"}

	balanceLine := ""
	if m.balance != nil {
		balanceLine = fmt.Sprintf("Shared balance: %s", money.FormatCents(m.balance.AmountCents))
	}

	total := 0
	if m.history != nil {
		total = m.history.Total
	}

	header := fmt.Sprintf("%s\nFilter: [t] Type: %s | %d entries",
		lipgloss.NewStyle().Bold(true).Render(balanceLine),
		activeStyle(typeLabels[m.typeFilterIdx]),
		total,
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func (m *HistoryModel) refreshTable() {
	if m.history == nil {
		m.table.SetRows(nil)
		return
	}

	rows := make([]table.Row, 0, len(m.history.Transactions))
	for _, t := range m.history.Transactions {
		rows = append(rows, table.Row{
			FormatDate(t.CreatedAt),
			string(t.Type),
			t.ContributorName,
			t.Description,
			money.FormatCents(t.AmountCents),
			money.FormatCents(t.BalanceAfterCents),
		})
	}

	m.table.SetRows(rows)
}

type loadHistoryMsg struct {
	balance *ledger.Balance
	history *report.History
	err     error
}

func (m HistoryModel) loadCmd() tea.Cmd {
	filter := report.HistoryFilter{Limit: 100}

	switch m.typeFilterIdx {
	case 1:
		filter.Type = new(ledger.EntryIncome)
	case 2:
		filter.Type = new(ledger.EntryExpense)
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		balance, err := m.ledgerService.Balance(ctx)
		if err != nil {
			return loadHistoryMsg{err: err}
		}

		history, err := m.reportService.History(ctx, filter)
		if err != nil {
			return loadHistoryMsg{err: err}
		}

		return loadHistoryMsg{balance: balance, history: history}
	}
}
