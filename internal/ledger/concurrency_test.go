package ledger_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmuratov/brofund/internal/contributor"
	"github.com/rmuratov/brofund/internal/ledger"
	"github.com/rmuratov/brofund/internal/money"
)

// memStore emulates the Postgres store in memory. LockBalance takes a mutex
// that Commit or Rollback releases, so transactions serialize on the balance
// exactly like FOR UPDATE serializes them on the balance row.
type memStore struct {
	mu      sync.Mutex
	balance int64
	log     []*ledger.LogEntry
}

func (s *memStore) Begin(_ context.Context) (ledger.Tx, error) {
	return &memTx{store: s}, nil
}

func (s *memStore) GetBalance(_ context.Context) (*ledger.Balance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return &ledger.Balance{AmountCents: s.balance}, nil
}

func (s *memStore) ListLogEntries(_ context.Context, limit int) ([]*ledger.LogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make([]*ledger.LogEntry, 0, limit)
	for i := len(s.log) - 1; i >= 0 && len(entries) < limit; i-- {
		entries = append(entries, s.log[i])
	}

	return entries, nil
}

func (s *memStore) GetIncome(_ context.Context, _ uuid.UUID) (*ledger.Income, error) {
	return nil, ledger.ErrNotFound
}

func (s *memStore) ListIncomes(_ context.Context, _ ledger.ListFilter) ([]*ledger.Income, error) {
	return nil, nil
}

func (s *memStore) GetExpense(_ context.Context, _ uuid.UUID) (*ledger.Expense, error) {
	return nil, ledger.ErrNotFound
}

func (s *memStore) ListExpenses(_ context.Context, _ ledger.ListFilter) ([]*ledger.Expense, error) {
	return nil, nil
}

type memTx struct {
	store   *memStore
	locked  bool
	balance *int64
	entries []*ledger.LogEntry
}

func (t *memTx) LockBalance(_ context.Context) (*ledger.Balance, error) {
	t.store.mu.Lock()
	t.locked = true

	return &ledger.Balance{AmountCents: t.store.balance}, nil
}

func (t *memTx) SetBalance(_ context.Context, cents int64) (*ledger.Balance, error) {
	if !t.locked {
		return nil, errors.New("balance written without lock")
	}

	t.balance = &cents

	return &ledger.Balance{AmountCents: cents, LastUpdated: time.Now()}, nil
}

func (t *memTx) CreateIncome(_ context.Context, income *ledger.Income) error {
	income.ID = uuid.New()
	income.CreatedAt = time.Now()

	return nil
}

func (t *memTx) CreateExpense(_ context.Context, expense *ledger.Expense) error {
	expense.ID = uuid.New()
	expense.CreatedAt = time.Now()

	return nil
}

func (t *memTx) CreateSplits(_ context.Context, _ uuid.UUID, _ []money.Split) error {
	return nil
}

func (t *memTx) AppendLogEntry(_ context.Context, entry *ledger.LogEntry) error {
	entry.ID = uuid.New()
	entry.CreatedAt = time.Now()
	t.entries = append(t.entries, entry)

	return nil
}

func (t *memTx) Commit() error {
	if !t.locked {
		return errors.New("commit without open tx")
	}

	if t.balance != nil {
		t.store.balance = *t.balance
	}

	t.store.log = append(t.store.log, t.entries...)

	t.locked = false
	t.store.mu.Unlock()

	return nil
}

func (t *memTx) Rollback() error {
	if t.locked {
		t.locked = false
		t.store.mu.Unlock()
	}

	return nil
}

// directoryStub resolves every id to a fixed name.
type directoryStub struct {
	names map[uuid.UUID]string
}

func (d *directoryStub) Get(_ context.Context, id uuid.UUID) (*contributor.Contributor, error) {
	name, ok := d.names[id]
	if !ok {
		return nil, contributor.ErrNotFound
	}

	return &contributor.Contributor{ID: id, Name: name}, nil
}

func (d *directoryStub) GetMany(_ context.Context, ids []uuid.UUID) ([]*contributor.Contributor, error) {
	found := make([]*contributor.Contributor, 0, len(ids))

	for _, id := range ids {
		name, ok := d.names[id]
		if !ok {
			continue
		}

		found = append(found, &contributor.Contributor{ID: id, Name: name})
	}

	return found, nil
}

func TestService_ConcurrentExpenses_OnlyOneSucceeds(t *testing.T) {
	const workers = 8

	contributorID := uuid.New()
	store := &memStore{balance: 100}
	dir := &directoryStub{names: map[uuid.UUID]string{contributorID: "Anvar"}}
	svc := ledger.NewService(store, dir)

	params := ledger.ExpenseParams{
		Description:      "groceries",
		TotalAmountCents: 100,
		CreatedBy:        contributorID,
		Shares:           []money.Share{{ContributorID: contributorID, Percentage: 100}},
	}

	var (
		wg           sync.WaitGroup
		succeeded    int
		insufficient int
		resultMu     sync.Mutex
	)

	for range workers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, err := svc.RecordExpense(context.Background(), params)

			resultMu.Lock()
			defer resultMu.Unlock()

			switch {
			case err == nil:
				succeeded++
			default:
				var fundsErr *ledger.InsufficientFundsError
				if errors.As(err, &fundsErr) {
					insufficient++
				}
			}
		}()
	}

	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, workers-1, insufficient)
	assert.Equal(t, int64(0), store.balance)
}

func TestService_BalanceMatchesLogReplay(t *testing.T) {
	contributorID := uuid.New()
	store := &memStore{}
	dir := &directoryStub{names: map[uuid.UUID]string{contributorID: "Anvar"}}
	svc := ledger.NewService(store, dir)

	ctx := context.Background()
	shares := []money.Share{{ContributorID: contributorID, Percentage: 100}}

	steps := []struct {
		income int64
		spend  int64
	}{
		{income: 50000},
		{spend: 12345},
		{income: 999},
		{spend: 30000},
		{income: 1},
	}

	for _, step := range steps {
		if step.income > 0 {
			_, err := svc.RecordIncome(ctx, ledger.IncomeParams{
				ContributorID: contributorID,
				AmountCents:   step.income,
			})
			require.NoError(t, err)
		} else {
			_, err := svc.RecordExpense(ctx, ledger.ExpenseParams{
				Description:      "spend",
				TotalAmountCents: step.spend,
				CreatedBy:        contributorID,
				Shares:           shares,
			})
			require.NoError(t, err)
		}
	}

	require.Len(t, store.log, len(steps))

	// Replaying the signed deltas from zero must reproduce every recorded
	// running balance and end at the stored one.
	var running int64
	for _, entry := range store.log {
		running += entry.AmountCents
		assert.Equal(t, entry.BalanceAfterCents, running)
	}

	assert.Equal(t, store.balance, running)
	assert.Equal(t, int64(50000-12345+999-30000+1), store.balance)
}
