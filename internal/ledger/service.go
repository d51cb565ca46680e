package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/rmuratov/brofund/internal/contributor"
	"github.com/rmuratov/brofund/internal/money"
)

// percentageTolerance is the accepted absolute deviation of a split's
// percentage sum from 100.
const percentageTolerance = 0.01

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=ledger
type Repository interface {
	GetBalance(ctx context.Context) (*Balance, error)
	GetIncome(ctx context.Context, id uuid.UUID) (*Income, error)
	ListIncomes(ctx context.Context, filter ListFilter) ([]*Income, error)
	GetExpense(ctx context.Context, id uuid.UUID) (*Expense, error)
	ListExpenses(ctx context.Context, filter ListFilter) ([]*Expense, error)
	ListLogEntries(ctx context.Context, limit int) ([]*LogEntry, error)

	// Begin opens the single orchestrating transaction for a balance-affecting
	// operation. The transaction's lock wait is bounded; contention surfaces
	// as ErrBusy from the methods of the returned Tx.
	Begin(ctx context.Context) (Tx, error)
}

type Tx interface {
	LockBalance(ctx context.Context) (*Balance, error)
	SetBalance(ctx context.Context, cents int64) (*Balance, error)
	CreateIncome(ctx context.Context, income *Income) error
	CreateExpense(ctx context.Context, expense *Expense) error
	CreateSplits(ctx context.Context, expenseID uuid.UUID, splits []money.Split) error
	AppendLogEntry(ctx context.Context, entry *LogEntry) error
	Commit() error
	Rollback() error
}

// ContributorDirectory resolves contributor ids to records. Satisfied by
// *contributor.Service.
type ContributorDirectory interface {
	Get(ctx context.Context, id uuid.UUID) (*contributor.Contributor, error)
	GetMany(ctx context.Context, ids []uuid.UUID) ([]*contributor.Contributor, error)
}

// EventPublisher notifies downstream consumers after a ledger transaction
// commits. Publishing is best-effort; failures never undo the commit.
type EventPublisher interface {
	PublishLedgerEntry(ctx context.Context, event Event) error
}

type Service struct {
	repo         Repository
	contributors ContributorDirectory
	events       EventPublisher
}

func NewService(repo Repository, contributors ContributorDirectory) *Service {
	return &Service{repo: repo, contributors: contributors}
}

// WithEvents attaches an event publisher for post-commit notifications.
func (s *Service) WithEvents(events EventPublisher) *Service {
	s.events = events
	return s
}

type IncomeParams struct {
	ContributorID uuid.UUID
	AmountCents   int64
	Description   string
}

type ExpenseParams struct {
	Description      string
	TotalAmountCents int64
	CreatedBy        uuid.UUID
	Shares           []money.Share
}

type ListFilter struct {
	Limit         int
	Offset        int
	ContributorID *uuid.UUID
	StartDate     *time.Time
	EndDate       *time.Time
}

// RecordIncome credits the shared balance. The income row, the balance write
// and the log entry commit atomically or not at all.
func (s *Service) RecordIncome(ctx context.Context, params IncomeParams) (*Income, error) {
	if params.AmountCents <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidAmount, params.AmountCents)
	}

	c, err := s.contributors.Get(ctx, params.ContributorID)
	if err != nil {
		if errors.Is(err, contributor.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, params.ContributorID)
		}

		return nil, fmt.Errorf("resolving contributor: %w", err)
	}

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin income tx: %w", err)
	}
	defer tx.Rollback()

	g, err := acquireBalance(ctx, tx)
	if err != nil {
		return nil, err
	}

	income := &Income{
		ContributorID:   params.ContributorID,
		ContributorName: c.Name,
		AmountCents:     params.AmountCents,
		Description:     params.Description,
	}
	if err := tx.CreateIncome(ctx, income); err != nil {
		return nil, fmt.Errorf("creating income: %w", err)
	}

	balanceAfter, err := g.credit(ctx, params.AmountCents)
	if err != nil {
		return nil, err
	}

	entry := &LogEntry{
		Type:              EntryIncome,
		ReferenceID:       income.ID,
		ContributorID:     &params.ContributorID,
		AmountCents:       params.AmountCents,
		BalanceAfterCents: balanceAfter.AmountCents,
	}
	if err := tx.AppendLogEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("appending log entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit income: %w", err)
	}

	s.publish(ctx, Event{
		Type:              EntryIncome,
		ReferenceID:       income.ID,
		AmountCents:       params.AmountCents,
		BalanceAfterCents: balanceAfter.AmountCents,
		CreatedAt:         income.CreatedAt,
	})

	return income, nil
}

// RecordExpense debits the shared balance, splitting the total among
// contributors by percentage. The sufficiency check runs under the balance
// lock, so two concurrent expenses can never both pass it against a balance
// that only covers one of them.
func (s *Service) RecordExpense(ctx context.Context, params ExpenseParams) (*Expense, error) {
	if params.TotalAmountCents <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidAmount, params.TotalAmountCents)
	}

	if len(params.Shares) == 0 {
		return nil, fmt.Errorf("%w: no shares given", money.ErrInvalidSplit)
	}

	var percentageSum float64
	for _, share := range params.Shares {
		percentageSum += share.Percentage
	}

	if math.Abs(percentageSum-100) > percentageTolerance {
		return nil, &InvalidPercentageError{Sum: percentageSum}
	}

	names, err := s.resolveContributors(ctx, params)
	if err != nil {
		return nil, err
	}

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin expense tx: %w", err)
	}
	defer tx.Rollback()

	g, err := acquireBalance(ctx, tx)
	if err != nil {
		return nil, err
	}

	// Sufficiency check before any write, under the lock.
	if g.balanceCents() < params.TotalAmountCents {
		return nil, &InsufficientFundsError{
			CurrentCents:   g.balanceCents(),
			RequestedCents: params.TotalAmountCents,
		}
	}

	expense := &Expense{
		Description:      params.Description,
		TotalAmountCents: params.TotalAmountCents,
		CreatedBy:        params.CreatedBy,
		CreatedByName:    names[params.CreatedBy],
	}
	if err := tx.CreateExpense(ctx, expense); err != nil {
		return nil, fmt.Errorf("creating expense: %w", err)
	}

	splits, err := money.ComputeSplits(params.TotalAmountCents, params.Shares)
	if err != nil {
		return nil, err
	}

	if err := tx.CreateSplits(ctx, expense.ID, splits); err != nil {
		return nil, fmt.Errorf("creating splits: %w", err)
	}

	balanceAfter, err := g.debit(ctx, params.TotalAmountCents)
	if err != nil {
		return nil, err
	}

	entry := &LogEntry{
		Type:              EntryExpense,
		ReferenceID:       expense.ID,
		ContributorID:     &params.CreatedBy,
		AmountCents:       -params.TotalAmountCents,
		BalanceAfterCents: balanceAfter.AmountCents,
	}
	if err := tx.AppendLogEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("appending log entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit expense: %w", err)
	}

	expense.Splits = make([]Split, len(splits))
	for i, sp := range splits {
		expense.Splits[i] = Split{
			ContributorID:   sp.ContributorID,
			ContributorName: names[sp.ContributorID],
			Percentage:      sp.Percentage,
			AmountCents:     sp.AmountCents,
		}
	}

	s.publish(ctx, Event{
		Type:              EntryExpense,
		ReferenceID:       expense.ID,
		AmountCents:       -params.TotalAmountCents,
		BalanceAfterCents: balanceAfter.AmountCents,
		CreatedAt:         expense.CreatedAt,
	})

	return expense, nil
}

// resolveContributors checks that the creator and every share contributor
// exist, returning their names keyed by id. Missing ids are listed in the
// error.
func (s *Service) resolveContributors(ctx context.Context, params ExpenseParams) (map[uuid.UUID]string, error) {
	wanted := map[uuid.UUID]struct{}{params.CreatedBy: {}}
	for _, share := range params.Shares {
		wanted[share.ContributorID] = struct{}{}
	}

	ids := make([]uuid.UUID, 0, len(wanted))
	for id := range wanted {
		ids = append(ids, id)
	}

	found, err := s.contributors.GetMany(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolving contributors: %w", err)
	}

	names := make(map[uuid.UUID]string, len(found))
	for _, c := range found {
		names[c.ID] = c.Name
	}

	if len(names) != len(wanted) {
		var missing []uuid.UUID

		for id := range wanted {
			_, ok := names[id]
			if !ok {
				missing = append(missing, id)
			}
		}

		return nil, fmt.Errorf("%w: %v", ErrNotFound, missing)
	}

	return names, nil
}

// Balance returns the current shared balance without taking any lock.
func (s *Service) Balance(ctx context.Context) (*Balance, error) {
	return s.repo.GetBalance(ctx)
}

// LogHistory returns the newest limit log entries, newest first.
func (s *Service) LogHistory(ctx context.Context, limit int) ([]*LogEntry, error) {
	return s.repo.ListLogEntries(ctx, limit)
}

func (s *Service) GetIncome(ctx context.Context, id uuid.UUID) (*Income, error) {
	return s.repo.GetIncome(ctx, id)
}

func (s *Service) ListIncomes(ctx context.Context, filter ListFilter) ([]*Income, error) {
	return s.repo.ListIncomes(ctx, filter)
}

func (s *Service) GetExpense(ctx context.Context, id uuid.UUID) (*Expense, error) {
	return s.repo.GetExpense(ctx, id)
}

func (s *Service) ListExpenses(ctx context.Context, filter ListFilter) ([]*Expense, error) {
	return s.repo.ListExpenses(ctx, filter)
}

func (s *Service) publish(ctx context.Context, event Event) {
	if s.events == nil {
		return
	}

	if err := s.events.PublishLedgerEntry(ctx, event); err != nil {
		slog.WarnContext(ctx, "failed to publish ledger event",
			"type", event.Type, "reference_id", event.ReferenceID, "error", err)
	}
}
