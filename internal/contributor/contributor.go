package contributor

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound           = errors.New("contributor not found")
	ErrInvalidPercentage  = errors.New("percentage must be between 0 and 100")
	ErrPercentageExceeded = errors.New("total percentage cannot exceed 100")
	ErrHasHistory         = errors.New("contributor has recorded ledger history")
)

// Contributor is a named party who can add income to the shared fund and be
// assigned expense shares. The stored percentage is the nominal responsibility
// share used for reporting; per-expense splits carry their own percentages.
type Contributor struct {
	ID         uuid.UUID
	Name       string
	Email      string
	Percentage float64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// WithContribution pairs a contributor with the total income they have added.
type WithContribution struct {
	Contributor
	TotalContributedCents int64
}
