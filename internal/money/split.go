// Package money holds the pure split arithmetic for the shared fund: turning
// percentage allocations into exact integer cent amounts.
package money

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
)

var ErrInvalidSplit = errors.New("invalid split")

// Share is a requested allocation: a contributor and the percentage of the
// total they carry for one expense.
type Share struct {
	ContributorID uuid.UUID
	Percentage    float64
}

// Split is a resolved allocation in integer cents.
type Split struct {
	ContributorID uuid.UUID
	Percentage    float64
	AmountCents   int64
}

// ComputeSplits converts percentage shares of totalCents into integer cent
// amounts that sum to totalCents exactly.
//
// Every share except the last is rounded half-up from its exact value. The
// last share in input order receives the remainder, absorbing all accumulated
// rounding drift, so its amount can differ from its nominal percentage by a
// few cents. Input order is therefore significant.
func ComputeSplits(totalCents int64, shares []Share) ([]Split, error) {
	if len(shares) == 0 {
		return nil, fmt.Errorf("%w: no shares given", ErrInvalidSplit)
	}

	if totalCents <= 0 {
		return nil, fmt.Errorf("%w: total must be positive, got %d", ErrInvalidSplit, totalCents)
	}

	splits := make([]Split, 0, len(shares))

	var allocated int64

	for _, share := range shares[:len(shares)-1] {
		exact := float64(totalCents) * share.Percentage / 100
		cents := int64(math.Floor(exact + 0.5))

		if cents < 0 {
			return nil, fmt.Errorf("%w: negative amount %d for percentage %.2f",
				ErrInvalidSplit, cents, share.Percentage)
		}

		splits = append(splits, Split{
			ContributorID: share.ContributorID,
			Percentage:    share.Percentage,
			AmountCents:   cents,
		})

		allocated += cents
	}

	last := shares[len(shares)-1]
	remainder := totalCents - allocated

	if remainder < 0 {
		return nil, fmt.Errorf("%w: allocated %d exceeds total %d", ErrInvalidSplit, allocated, totalCents)
	}

	splits = append(splits, Split{
		ContributorID: last.ContributorID,
		Percentage:    last.Percentage,
		AmountCents:   remainder,
	})

	return splits, nil
}
