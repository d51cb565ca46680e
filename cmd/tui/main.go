package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/rmuratov/brofund/cmd/tui/internal/view"
	"github.com/rmuratov/brofund/internal/config"
	"github.com/rmuratov/brofund/internal/contributor"
	contributorStore "github.com/rmuratov/brofund/internal/contributor/store"
	"github.com/rmuratov/brofund/internal/database"
	"github.com/rmuratov/brofund/internal/ledger"
	ledgerStore "github.com/rmuratov/brofund/internal/ledger/store"
	"github.com/rmuratov/brofund/internal/report"
	reportStore "github.com/rmuratov/brofund/internal/report/store"
)

type model struct {
	contributorService *contributor.Service
	ledgerService      *ledger.Service
	reportService      *report.Service

	currentView View

	historyView      view.HistoryModel
	incomeView       view.IncomeModel
	expenseView      view.ExpenseModel
	contributorsView view.ContributorsModel
}

type View int

const (
	ViewMenu         View = 0
	ViewHistory      View = 1
	ViewIncome       View = 2
	ViewExpense      View = 3
	ViewContributors View = 4
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	contributorSvc := contributor.NewService(contributorStore.New(db))
	ledgerSvc := ledger.NewService(ledgerStore.New(db, cfg.Ledger.LockTimeout), contributorSvc)
	reportSvc := report.NewService(reportStore.New(db), ledgerSvc)

	return model{
		contributorService: contributorSvc,
		ledgerService:      ledgerSvc,
		reportService:      reportSvc,
		currentView:        ViewMenu,
		historyView:        view.NewHistoryModel(reportSvc, ledgerSvc),
		incomeView:         view.NewIncomeModel(ledgerSvc, contributorSvc),
		expenseView:        view.NewExpenseModel(ledgerSvc, contributorSvc),
		contributorsView:   view.NewContributorsModel(contributorSvc),
	}
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
				m.currentView = ViewHistory
				m.historyView = view.NewHistoryModel(m.reportService, m.ledgerService)

				return m, m.historyView.Init()
			case "2":
				m.currentView = ViewIncome
				m.incomeView = view.NewIncomeModel(m.ledgerService, m.contributorService)

				return m, m.incomeView.Init()
			case "3":
				m.currentView = ViewExpense
				m.expenseView = view.NewExpenseModel(m.ledgerService, m.contributorService)

				return m, m.expenseView.Init()
			case "4":
				m.currentView = ViewContributors
				m.contributorsView = view.NewContributorsModel(m.contributorService)

				return m, m.contributorsView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewHistory:
		var newModel tea.Model
		newModel, cmd = m.historyView.Update(msg)
		m.historyView = newModel.(view.HistoryModel)
	case ViewIncome:
		var newModel tea.Model
		newModel, cmd = m.incomeView.Update(msg)
		m.incomeView = newModel.(view.IncomeModel)
	case ViewExpense:
		var newModel tea.Model
		newModel, cmd = m.expenseView.Update(msg)
		m.expenseView = newModel.(view.ExpenseModel)
	case ViewContributors:
		var newModel tea.Model
		newModel, cmd = m.contributorsView.Update(msg)
		m.contributorsView = newModel.(view.ContributorsModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Brofund TUI\n\n" +
				"1. Balance & History\n" +
				"2. Record Income\n" +
				"3. Record Expense\n" +
				"4. Contributors\n\n" +
				"q. Quit",
		)
	case ViewHistory:
		return m.historyView.View()
	case ViewIncome:
		return m.incomeView.View()
	case ViewExpense:
		return m.expenseView.View()
	case ViewContributors:
		return m.contributorsView.View()
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
