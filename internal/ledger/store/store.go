package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/rmuratov/brofund/internal/ledger"
	"github.com/rmuratov/brofund/internal/money"
)

type Store struct {
	db          *sql.DB
	lockTimeout time.Duration
}

func New(db *sql.DB, lockTimeout time.Duration) *Store {
	return &Store{db: db, lockTimeout: lockTimeout}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// lockNotAvailable is the Postgres SQLSTATE raised when lock_timeout expires.
const lockNotAvailable = "55P03"

// mapLockErr turns a lock-wait timeout into the retryable ledger.ErrBusy.
func mapLockErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == lockNotAvailable {
		return fmt.Errorf("%w: %s", ledger.ErrBusy, pgErr.Message)
	}

	return err
}

func (s *Store) GetBalance(ctx context.Context) (*ledger.Balance, error) {
	query := `SELECT balance_cents, last_updated FROM shared_balance WHERE id = 1`

	var b ledger.Balance
	if err := s.db.QueryRowContext(ctx, query).Scan(&b.AmountCents, &b.LastUpdated); err != nil {
		return nil, fmt.Errorf("getting balance: %w", err)
	}

	return &b, nil
}

// Expected column order: id, contributor_id, contributor_name, amount_cents, description, created_at
func scanIncome(sc scanner) (*ledger.Income, error) {
	var income ledger.Income

	var description sql.NullString

	if err := sc.Scan(
		&income.ID, &income.ContributorID, &income.ContributorName,
		&income.AmountCents, &description, &income.CreatedAt,
	); err != nil {
		return nil, err
	}

	income.Description = description.String

	return &income, nil
}

const selectIncomeColumns = `
	i.id, i.contributor_id, c.name, i.amount_cents, i.description, i.created_at
`

func (s *Store) GetIncome(ctx context.Context, id uuid.UUID) (*ledger.Income, error) {
	query := `SELECT ` + selectIncomeColumns + `
		FROM incomes i
		LEFT JOIN contributors c ON i.contributor_id = c.id
		WHERE i.id = $1`

	income, err := scanIncome(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ledger.ErrNotFound
		}

		return nil, fmt.Errorf("getting income: %w", err)
	}

	return income, nil
}

func (s *Store) ListIncomes(ctx context.Context, filter ledger.ListFilter) ([]*ledger.Income, error) {
	query := `SELECT ` + selectIncomeColumns + `
		FROM incomes i
		LEFT JOIN contributors c ON i.contributor_id = c.id
		WHERE 1=1`

	var args []any

	argIdx := 1

	if filter.ContributorID != nil {
		query += fmt.Sprintf(" AND i.contributor_id = $%d", argIdx)

		args = append(args, *filter.ContributorID)
		argIdx++
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND i.created_at >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND i.created_at <= $%d", argIdx)

		args = append(args, *filter.EndDate)
		argIdx++
	}

	query += " ORDER BY i.created_at DESC"
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, listLimit(filter.Limit), filter.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing incomes: %w", err)
	}
	defer rows.Close()

	var incomes []*ledger.Income

	for rows.Next() {
		income, err := scanIncome(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning income: %w", err)
		}

		incomes = append(incomes, income)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating income rows: %w", err)
	}

	return incomes, nil
}

const selectExpenseColumns = `
	e.id, e.description, e.total_amount_cents, e.created_by, c.name, e.created_at
`

func scanExpense(sc scanner) (*ledger.Expense, error) {
	var expense ledger.Expense

	if err := sc.Scan(
		&expense.ID, &expense.Description, &expense.TotalAmountCents,
		&expense.CreatedBy, &expense.CreatedByName, &expense.CreatedAt,
	); err != nil {
		return nil, err
	}

	return &expense, nil
}

func (s *Store) GetExpense(ctx context.Context, id uuid.UUID) (*ledger.Expense, error) {
	query := `SELECT ` + selectExpenseColumns + `
		FROM expenses e
		LEFT JOIN contributors c ON e.created_by = c.id
		WHERE e.id = $1`

	expense, err := scanExpense(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ledger.ErrNotFound
		}

		return nil, fmt.Errorf("getting expense: %w", err)
	}

	splits, err := s.getSplits(ctx, expense.ID)
	if err != nil {
		return nil, err
	}

	expense.Splits = splits

	return expense, nil
}

func (s *Store) ListExpenses(ctx context.Context, filter ledger.ListFilter) ([]*ledger.Expense, error) {
	query := `SELECT ` + selectExpenseColumns + `
		FROM expenses e
		LEFT JOIN contributors c ON e.created_by = c.id
		WHERE 1=1`

	var args []any

	argIdx := 1

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND e.created_at >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND e.created_at <= $%d", argIdx)

		args = append(args, *filter.EndDate)
		argIdx++
	}

	query += " ORDER BY e.created_at DESC"
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, listLimit(filter.Limit), filter.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*ledger.Expense

	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning expense: %w", err)
		}

		expenses = append(expenses, expense)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating expense rows: %w", err)
	}

	for _, expense := range expenses {
		splits, err := s.getSplits(ctx, expense.ID)
		if err != nil {
			return nil, err
		}

		expense.Splits = splits
	}

	return expenses, nil
}

func (s *Store) getSplits(ctx context.Context, expenseID uuid.UUID) ([]ledger.Split, error) {
	query := `
		SELECT es.contributor_id, c.name, es.percentage, es.amount_cents
		FROM expense_splits es
		LEFT JOIN contributors c ON es.contributor_id = c.id
		WHERE es.expense_id = $1
		ORDER BY es.position ASC
	`

	rows, err := s.db.QueryContext(ctx, query, expenseID)
	if err != nil {
		return nil, fmt.Errorf("getting splits: %w", err)
	}
	defer rows.Close()

	var splits []ledger.Split

	for rows.Next() {
		var sp ledger.Split
		if err := rows.Scan(&sp.ContributorID, &sp.ContributorName, &sp.Percentage, &sp.AmountCents); err != nil {
			return nil, fmt.Errorf("scanning split: %w", err)
		}

		splits = append(splits, sp)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating split rows: %w", err)
	}

	return splits, nil
}

func (s *Store) ListLogEntries(ctx context.Context, limit int) ([]*ledger.LogEntry, error) {
	query := `
		SELECT id, entry_type, reference_id, contributor_id, amount_cents, balance_after_cents, created_at
		FROM transaction_log
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := s.db.QueryContext(ctx, query, listLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("listing log entries: %w", err)
	}
	defer rows.Close()

	var entries []*ledger.LogEntry

	for rows.Next() {
		var entry ledger.LogEntry

		var entryType string

		if err := rows.Scan(
			&entry.ID, &entryType, &entry.ReferenceID, &entry.ContributorID,
			&entry.AmountCents, &entry.BalanceAfterCents, &entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning log entry: %w", err)
		}

		entry.Type = ledger.EntryType(entryType)
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating log rows: %w", err)
	}

	return entries, nil
}

func listLimit(limit int) int {
	if limit <= 0 {
		return 50
	}

	return limit
}

type ledgerTx struct {
	tx *sql.Tx
}

// Begin opens the orchestrating transaction for a balance-affecting
// operation. The lock wait is bounded by the configured timeout so contention
// surfaces as ledger.ErrBusy instead of an indefinite hang.
func (s *Store) Begin(ctx context.Context) (ledger.Tx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning ledger tx: %w", err)
	}

	// lock_timeout does not accept bind parameters.
	timeout := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", s.lockTimeout.Milliseconds())
	if _, err := dbTx.ExecContext(ctx, timeout); err != nil {
		dbTx.Rollback()
		return nil, fmt.Errorf("setting lock timeout: %w", err)
	}

	return &ledgerTx{tx: dbTx}, nil
}

func (ltx *ledgerTx) Commit() error   { return ltx.tx.Commit() }
func (ltx *ledgerTx) Rollback() error { return ltx.tx.Rollback() }

func (ltx *ledgerTx) LockBalance(ctx context.Context) (*ledger.Balance, error) {
	query := `SELECT balance_cents, last_updated FROM shared_balance WHERE id = 1 FOR UPDATE`

	var b ledger.Balance
	if err := ltx.tx.QueryRowContext(ctx, query).Scan(&b.AmountCents, &b.LastUpdated); err != nil {
		return nil, mapLockErr(err)
	}

	return &b, nil
}

func (ltx *ledgerTx) SetBalance(ctx context.Context, cents int64) (*ledger.Balance, error) {
	query := `
		UPDATE shared_balance
		SET balance_cents = $1, last_updated = NOW()
		WHERE id = 1
		RETURNING balance_cents, last_updated
	`

	var b ledger.Balance
	if err := ltx.tx.QueryRowContext(ctx, query, cents).Scan(&b.AmountCents, &b.LastUpdated); err != nil {
		return nil, fmt.Errorf("updating balance: %w", err)
	}

	return &b, nil
}

func (ltx *ledgerTx) CreateIncome(ctx context.Context, income *ledger.Income) error {
	query := `
		INSERT INTO incomes (contributor_id, amount_cents, description, created_at)
		VALUES ($1, $2, NULLIF($3, ''), NOW())
		RETURNING id, created_at
	`

	err := ltx.tx.QueryRowContext(ctx, query,
		income.ContributorID, income.AmountCents, income.Description,
	).Scan(&income.ID, &income.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting income: %w", err)
	}

	return nil
}

func (ltx *ledgerTx) CreateExpense(ctx context.Context, expense *ledger.Expense) error {
	query := `
		INSERT INTO expenses (description, total_amount_cents, created_by, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, created_at
	`

	err := ltx.tx.QueryRowContext(ctx, query,
		expense.Description, expense.TotalAmountCents, expense.CreatedBy,
	).Scan(&expense.ID, &expense.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting expense: %w", err)
	}

	return nil
}

func (ltx *ledgerTx) CreateSplits(ctx context.Context, expenseID uuid.UUID, splits []money.Split) error {
	query := `
		INSERT INTO expense_splits (expense_id, contributor_id, percentage, amount_cents, position, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`

	for i, sp := range splits {
		if _, err := ltx.tx.ExecContext(ctx, query,
			expenseID, sp.ContributorID, sp.Percentage, sp.AmountCents, i,
		); err != nil {
			return fmt.Errorf("inserting split: %w", err)
		}
	}

	return nil
}

func (ltx *ledgerTx) AppendLogEntry(ctx context.Context, entry *ledger.LogEntry) error {
	query := `
		INSERT INTO transaction_log (entry_type, reference_id, contributor_id, amount_cents, balance_after_cents, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, created_at
	`

	err := ltx.tx.QueryRowContext(ctx, query,
		string(entry.Type), entry.ReferenceID, entry.ContributorID,
		entry.AmountCents, entry.BalanceAfterCents,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting log entry: %w", err)
	}

	return nil
}
