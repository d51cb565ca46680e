package ledger

import (
	"time"

	"github.com/google/uuid"

	"github.com/rmuratov/brofund/internal/ledger"
	"github.com/rmuratov/brofund/internal/money"
)

type balanceResponse struct {
	BalanceCents int64     `json:"balance_cents"`
	Formatted    string    `json:"formatted"`
	LastUpdated  time.Time `json:"last_updated"`
}

func toBalanceResponse(b *ledger.Balance) balanceResponse {
	return balanceResponse{
		BalanceCents: b.AmountCents,
		Formatted:    money.FormatCents(b.AmountCents),
		LastUpdated:  b.LastUpdated,
	}
}

type incomeResponse struct {
	ID              uuid.UUID `json:"id"`
	ContributorID   uuid.UUID `json:"contributor_id"`
	ContributorName string    `json:"contributor_name"`
	AmountCents     int64     `json:"amount_cents"`
	Amount          string    `json:"amount"`
	Description     string    `json:"description,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

func toIncomeResponse(income *ledger.Income) incomeResponse {
	return incomeResponse{
		ID:              income.ID,
		ContributorID:   income.ContributorID,
		ContributorName: income.ContributorName,
		AmountCents:     income.AmountCents,
		Amount:          money.FormatCents(income.AmountCents),
		Description:     income.Description,
		CreatedAt:       income.CreatedAt,
	}
}

func toIncomeResponseList(incomes []*ledger.Income) []incomeResponse {
	resp := make([]incomeResponse, len(incomes))
	for i, income := range incomes {
		resp[i] = toIncomeResponse(income)
	}

	return resp
}

type splitResponse struct {
	ContributorID   uuid.UUID `json:"contributor_id"`
	ContributorName string    `json:"contributor_name"`
	Percentage      float64   `json:"percentage"`
	AmountCents     int64     `json:"amount_cents"`
	Amount          string    `json:"amount"`
}

type expenseResponse struct {
	ID               uuid.UUID       `json:"id"`
	Description      string          `json:"description,omitempty"`
	TotalAmountCents int64           `json:"total_amount_cents"`
	TotalAmount      string          `json:"total_amount"`
	CreatedBy        uuid.UUID       `json:"created_by"`
	CreatedByName    string          `json:"created_by_name"`
	Splits           []splitResponse `json:"splits"`
	CreatedAt        time.Time       `json:"created_at"`
}

func toExpenseResponse(expense *ledger.Expense) expenseResponse {
	splits := make([]splitResponse, len(expense.Splits))
	for i, sp := range expense.Splits {
		splits[i] = splitResponse{
			ContributorID:   sp.ContributorID,
			ContributorName: sp.ContributorName,
			Percentage:      sp.Percentage,
			AmountCents:     sp.AmountCents,
			Amount:          money.FormatCents(sp.AmountCents),
		}
	}

	return expenseResponse{
		ID:               expense.ID,
		Description:      expense.Description,
		TotalAmountCents: expense.TotalAmountCents,
		TotalAmount:      money.FormatCents(expense.TotalAmountCents),
		CreatedBy:        expense.CreatedBy,
		CreatedByName:    expense.CreatedByName,
		Splits:           splits,
		CreatedAt:        expense.CreatedAt,
	}
}

func toExpenseResponseList(expenses []*ledger.Expense) []expenseResponse {
	resp := make([]expenseResponse, len(expenses))
	for i, expense := range expenses {
		resp[i] = toExpenseResponse(expense)
	}

	return resp
}
