package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rmuratov/brofund/internal/contributor"
	"github.com/rmuratov/brofund/internal/money"
)

type ContributorsModel struct {
	CommonModel
	contributorService *contributor.Service

	table         table.Model
	contributions []*contributor.WithContribution

	loading bool
	err     error
}

func NewContributorsModel(contributorSvc *contributor.Service) ContributorsModel {
	columns := []table.Column{
		{Title: "Name", Width: 20},
		{Title: "Email", Width: 28},
		{Title: "Share", Width: 8},
		{Title: "Contributed", Width: 14},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
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

	return ContributorsModel{
		contributorService: contributorSvc,
		table:              t,
		loading:            true,
	}
}

func (m ContributorsModel) Title() string { return "Contributors" }
func (m ContributorsModel) ShortHelp() string {
	return "Esc: back | r: refresh"
}

func (m ContributorsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m ContributorsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadContributionsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.contributions = msg.contributions
		m.refreshTable()

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ContributorsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading contributors...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	var totalPct float64
	for _, c := range m.contributions {
		totalPct += c.Percentage
	}

	header := fmt.Sprintf("%d contributors, %.2f%% allocated", len(m.contributions), totalPct)

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

func (m *ContributorsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.contributions))
	for _, c := range m.contributions {
		rows = append(rows, table.Row{
			c.Name,
			c.Email,
			fmt.Sprintf("%.2f%%", c.Percentage),
			money.FormatCents(c.TotalContributedCents),
		})
	}

	m.table.SetRows(rows)
}

type loadContributionsMsg struct {
	contributions []*contributor.WithContribution
	err           error
}

func (m ContributorsModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		contributions, err := m.contributorService.WithContributions(ctx)

		return loadContributionsMsg{contributions: contributions, err: err}
	}
}
