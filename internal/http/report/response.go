package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/rmuratov/brofund/internal/ledger"
	"github.com/rmuratov/brofund/internal/money"
	"github.com/rmuratov/brofund/internal/report"
)

type splitResponse struct {
	ContributorID   uuid.UUID `json:"contributor_id"`
	ContributorName string    `json:"contributor_name"`
	Percentage      float64   `json:"percentage"`
	AmountCents     int64     `json:"amount_cents"`
}

type transactionResponse struct {
	ID                uuid.UUID        `json:"id"`
	Type              ledger.EntryType `json:"type"`
	ReferenceID       uuid.UUID        `json:"reference_id"`
	ContributorID     *uuid.UUID       `json:"contributor_id,omitempty"`
	ContributorName   string           `json:"contributor_name,omitempty"`
	Description       string           `json:"description,omitempty"`
	AmountCents       int64            `json:"amount_cents"`
	Amount            string           `json:"amount"`
	BalanceAfterCents int64            `json:"balance_after_cents"`
	BalanceAfter      string           `json:"balance_after"`
	CreatedAt         time.Time        `json:"created_at"`
	Splits            []splitResponse  `json:"splits,omitempty"`
}

type historyResponse struct {
	Transactions []transactionResponse `json:"transactions"`
	Total        int                   `json:"total"`
}

func toHistoryResponse(h *report.History) historyResponse {
	transactions := make([]transactionResponse, len(h.Transactions))
	for i, t := range h.Transactions {
		splits := make([]splitResponse, len(t.Splits))
		for j, sp := range t.Splits {
			splits[j] = splitResponse{
				ContributorID:   sp.ContributorID,
				ContributorName: sp.ContributorName,
				Percentage:      sp.Percentage,
				AmountCents:     sp.AmountCents,
			}
		}

		transactions[i] = transactionResponse{
			ID:                t.ID,
			Type:              t.Type,
			ReferenceID:       t.ReferenceID,
			ContributorID:     t.ContributorID,
			ContributorName:   t.ContributorName,
			Description:       t.Description,
			AmountCents:       t.AmountCents,
			Amount:            money.FormatCents(t.AmountCents),
			BalanceAfterCents: t.BalanceAfterCents,
			BalanceAfter:      money.FormatCents(t.BalanceAfterCents),
			CreatedAt:         t.CreatedAt,
			Splits:            splits,
		}
	}

	return historyResponse{Transactions: transactions, Total: h.Total}
}

type contributorStatResponse struct {
	ContributorID         uuid.UUID `json:"contributor_id"`
	Name                  string    `json:"name"`
	Percentage            float64   `json:"percentage"`
	TotalContributedCents int64     `json:"total_contributed_cents"`
	IncomeCount           int       `json:"income_count"`
}

type largestExpenseResponse struct {
	ID          uuid.UUID `json:"id"`
	Description string    `json:"description,omitempty"`
	AmountCents int64     `json:"amount_cents"`
	CreatedAt   time.Time `json:"created_at"`
}

type monthlySummaryResponse struct {
	Month        string `json:"month"`
	IncomeCents  int64  `json:"income_cents"`
	OutcomeCents int64  `json:"outcome_cents"`
	NetCents     int64  `json:"net_cents"`
}

type statisticsResponse struct {
	BalanceCents      int64                     `json:"balance_cents"`
	Balance           string                    `json:"balance"`
	TotalIncomeCents  int64                     `json:"total_income_cents"`
	TotalExpenseCents int64                     `json:"total_expense_cents"`
	IncomeCount       int                       `json:"income_count"`
	ExpenseCount      int                       `json:"expense_count"`
	Contributors      []contributorStatResponse `json:"contributors"`
	LargestExpense    *largestExpenseResponse   `json:"largest_expense,omitempty"`
	Monthly           []monthlySummaryResponse  `json:"monthly"`
}

func toStatisticsResponse(stats *report.Statistics) statisticsResponse {
	contributors := make([]contributorStatResponse, len(stats.Contributors))
	for i, c := range stats.Contributors {
		contributors[i] = contributorStatResponse{
			ContributorID:         c.ContributorID,
			Name:                  c.Name,
			Percentage:            c.Percentage,
			TotalContributedCents: c.TotalContributedCents,
			IncomeCount:           c.IncomeCount,
		}
	}

	monthly := make([]monthlySummaryResponse, len(stats.Monthly))
	for i, m := range stats.Monthly {
		monthly[i] = monthlySummaryResponse{
			Month:        m.Month,
			IncomeCents:  m.IncomeCents,
			OutcomeCents: m.OutcomeCents,
			NetCents:     m.NetCents,
		}
	}

	resp := statisticsResponse{
		BalanceCents:      stats.BalanceCents,
		Balance:           money.FormatCents(stats.BalanceCents),
		TotalIncomeCents:  stats.TotalIncomeCents,
		TotalExpenseCents: stats.TotalExpenseCents,
		IncomeCount:       stats.IncomeCount,
		ExpenseCount:      stats.ExpenseCount,
		Contributors:      contributors,
		Monthly:           monthly,
	}

	if stats.LargestExpense != nil {
		resp.LargestExpense = &largestExpenseResponse{
			ID:          stats.LargestExpense.ID,
			Description: stats.LargestExpense.Description,
			AmountCents: stats.LargestExpense.AmountCents,
			CreatedAt:   stats.LargestExpense.CreatedAt,
		}
	}

	return resp
}
