package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/rmuratov/brofund/internal/ledger"
)

// Transaction is one row of the merged history: an income or an expense,
// carrying the running balance recorded when it was committed.
type Transaction struct {
	ID                uuid.UUID
	Type              ledger.EntryType
	ReferenceID       uuid.UUID
	ContributorID     *uuid.UUID
	ContributorName   string
	Description       string
	AmountCents       int64
	BalanceAfterCents int64
	CreatedAt         time.Time
	Splits            []ledger.Split
}

type History struct {
	Transactions []*Transaction
	Total        int
}

type HistoryFilter struct {
	Limit         int
	Offset        int
	Type          *ledger.EntryType
	ContributorID *uuid.UUID
	StartDate     *time.Time
	EndDate       *time.Time
}

// BalancePoint is one sample of the running balance over time.
type BalancePoint struct {
	Date         time.Time `json:"date"`
	BalanceCents int64     `json:"balance_cents"`
}

type Totals struct {
	TotalIncomeCents  int64
	TotalExpenseCents int64
	IncomeCount       int
	ExpenseCount      int
}

type ContributorStat struct {
	ContributorID         uuid.UUID
	Name                  string
	Percentage            float64
	TotalContributedCents int64
	IncomeCount           int
}

type LargestExpense struct {
	ID          uuid.UUID
	Description string
	AmountCents int64
	CreatedAt   time.Time
}

// MonthlySummary aggregates one calendar month of activity. Month is
// formatted as YYYY-MM.
type MonthlySummary struct {
	Month        string
	IncomeCents  int64
	OutcomeCents int64
	NetCents     int64
}

type Statistics struct {
	BalanceCents      int64
	TotalIncomeCents  int64
	TotalExpenseCents int64
	IncomeCount       int
	ExpenseCount      int
	Contributors      []ContributorStat
	LargestExpense    *LargestExpense
	Monthly           []MonthlySummary
}
