// Package ledger is the core of the shared fund: it owns the singleton
// balance, the income and expense records, and the append-only transaction
// log. All balance mutation goes through one locked database transaction.
package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EntryType distinguishes the two balance-affecting events.
type EntryType string

const (
	EntryIncome  EntryType = "income"
	EntryExpense EntryType = "expense"
)

var (
	// ErrNotFound signals a referenced contributor that does not exist.
	ErrNotFound = errors.New("contributor not found")

	// ErrInvalidAmount signals a non-positive cent amount.
	ErrInvalidAmount = errors.New("amount must be a positive number of cents")

	// ErrBusy signals lock contention. The operation left no partial state
	// and is safe to retry from scratch.
	ErrBusy = errors.New("ledger busy")
)

// InvalidPercentageError reports split percentages that do not sum to 100
// within the accepted tolerance.
type InvalidPercentageError struct {
	Sum float64
}

func (e *InvalidPercentageError) Error() string {
	return fmt.Sprintf("split percentages must sum to 100, got %.2f", e.Sum)
}

// InsufficientFundsError reports an expense larger than the current balance.
// The balance is left untouched.
type InsufficientFundsError struct {
	CurrentCents   int64
	RequestedCents int64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: balance %d, requested %d (short %d)",
		e.CurrentCents, e.RequestedCents, e.Shortfall())
}

func (e *InsufficientFundsError) Shortfall() int64 {
	return e.RequestedCents - e.CurrentCents
}

// Income is a credit to the shared balance. Immutable once created.
type Income struct {
	ID              uuid.UUID
	ContributorID   uuid.UUID
	ContributorName string
	AmountCents     int64
	Description     string
	CreatedAt       time.Time
}

// Expense is a debit from the shared balance, apportioned across contributors
// by percentage. Immutable once created; owns its splits.
type Expense struct {
	ID               uuid.UUID
	Description      string
	TotalAmountCents int64
	CreatedBy        uuid.UUID
	CreatedByName    string
	CreatedAt        time.Time
	Splits           []Split
}

// Split is one contributor's exact cent allocation within an expense. The
// percentage is the one used for this expense, not the contributor's stored
// share. Split amounts for one expense sum to its total exactly.
type Split struct {
	ContributorID   uuid.UUID
	ContributorName string
	Percentage      float64
	AmountCents     int64
}

// Balance is the singleton current cent total of the shared fund.
type Balance struct {
	AmountCents int64
	LastUpdated time.Time
}

// LogEntry is one row of the append-only audit trail. Replaying AmountCents
// deltas from zero in creation order reproduces every BalanceAfterCents.
type LogEntry struct {
	ID                uuid.UUID
	Type              EntryType
	ReferenceID       uuid.UUID
	ContributorID     *uuid.UUID
	AmountCents       int64
	BalanceAfterCents int64
	CreatedAt         time.Time
}

// Event is the notification published after a ledger transaction commits,
// consumed by the sheet sync worker.
type Event struct {
	Type              EntryType `json:"type"`
	ReferenceID       uuid.UUID `json:"reference_id"`
	AmountCents       int64     `json:"amount_cents"`
	BalanceAfterCents int64     `json:"balance_after_cents"`
	CreatedAt         time.Time `json:"created_at"`
}
