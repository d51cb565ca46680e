package ledger

import (
	"context"
	"fmt"
)

// guard is the balance guard: it holds the row lock on the singleton balance
// for the lifetime of one store transaction. Acquiring the lock before any
// read closes the check-then-act race between concurrent expenses. No code
// path outside this type writes the balance.
type guard struct {
	tx      Tx
	current *Balance
}

// acquireBalance takes the write lock on the balance row and reads its
// current value. Usable only inside an open store transaction; the lock is
// released when the transaction commits or rolls back.
func acquireBalance(ctx context.Context, tx Tx) (*guard, error) {
	b, err := tx.LockBalance(ctx)
	if err != nil {
		return nil, fmt.Errorf("locking balance: %w", err)
	}

	return &guard{tx: tx, current: b}, nil
}

func (g *guard) balanceCents() int64 {
	return g.current.AmountCents
}

// credit adds amount to the locked balance and writes the new value.
func (g *guard) credit(ctx context.Context, amount int64) (*Balance, error) {
	return g.set(ctx, g.current.AmountCents+amount)
}

// debit subtracts amount from the locked balance. Fails without writing when
// the result would be negative.
func (g *guard) debit(ctx context.Context, amount int64) (*Balance, error) {
	newBalance := g.current.AmountCents - amount
	if newBalance < 0 {
		return nil, &InsufficientFundsError{
			CurrentCents:   g.current.AmountCents,
			RequestedCents: amount,
		}
	}

	return g.set(ctx, newBalance)
}

func (g *guard) set(ctx context.Context, cents int64) (*Balance, error) {
	b, err := g.tx.SetBalance(ctx, cents)
	if err != nil {
		return nil, fmt.Errorf("writing balance: %w", err)
	}

	g.current = b

	return b, nil
}
