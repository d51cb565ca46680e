package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/rmuratov/brofund/internal/ledger"
	"github.com/rmuratov/brofund/internal/report"
)

// Store runs the read-only reporting queries. The transaction log is the
// spine of every history query; incomes and expenses are joined in for their
// descriptions.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const selectTransactionColumns = `
	l.id, l.entry_type, l.reference_id, l.contributor_id, COALESCE(c.name, ''),
	COALESCE(i.description, e.description, ''),
	l.amount_cents, l.balance_after_cents, l.created_at
`

const transactionJoins = `
	FROM transaction_log l
	LEFT JOIN contributors c ON l.contributor_id = c.id
	LEFT JOIN incomes i ON l.entry_type = 'income' AND i.id = l.reference_id
	LEFT JOIN expenses e ON l.entry_type = 'expense' AND e.id = l.reference_id
`

func buildHistoryWhere(filter report.HistoryFilter) (string, []any) {
	where := " WHERE 1=1"

	var args []any

	argIdx := 1

	if filter.Type != nil {
		where += fmt.Sprintf(" AND l.entry_type = $%d", argIdx)

		args = append(args, string(*filter.Type))
		argIdx++
	}

	if filter.ContributorID != nil {
		where += fmt.Sprintf(" AND l.contributor_id = $%d", argIdx)

		args = append(args, filter.ContributorID.String())
		argIdx++
	}

	if filter.StartDate != nil {
		where += fmt.Sprintf(" AND l.created_at >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		where += fmt.Sprintf(" AND l.created_at <= $%d", argIdx)

		args = append(args, *filter.EndDate)
		argIdx++
	}

	return where, args
}

func (s *Store) ListTransactions(ctx context.Context, filter report.HistoryFilter) ([]*report.Transaction, error) {
	where, args := buildHistoryWhere(filter)

	query := `SELECT ` + selectTransactionColumns + transactionJoins + where +
		" ORDER BY l.created_at DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*report.Transaction

	var expenseIDs []string

	for rows.Next() {
		var (
			t         report.Transaction
			typeStr   string
			contribID *uuid.UUID
		)

		if err := rows.Scan(
			&t.ID, &typeStr, &t.ReferenceID, &contribID, &t.ContributorName,
			&t.Description, &t.AmountCents, &t.BalanceAfterCents, &t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		t.Type = ledger.EntryType(typeStr)
		t.ContributorID = contribID

		if t.Type == ledger.EntryExpense {
			expenseIDs = append(expenseIDs, t.ReferenceID.String())
		}

		transactions = append(transactions, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transactions: %w", err)
	}

	if len(expenseIDs) > 0 {
		splits, err := s.loadSplits(ctx, expenseIDs)
		if err != nil {
			return nil, err
		}

		for _, t := range transactions {
			if t.Type == ledger.EntryExpense {
				t.Splits = splits[t.ReferenceID]
			}
		}
	}

	return transactions, nil
}

func (s *Store) loadSplits(ctx context.Context, expenseIDs []string) (map[uuid.UUID][]ledger.Split, error) {
	query := `
		SELECT s.expense_id, s.contributor_id, COALESCE(c.name, ''), s.percentage, s.amount_cents
		FROM expense_splits s
		LEFT JOIN contributors c ON s.contributor_id = c.id
		WHERE s.expense_id = ANY($1::uuid[])
		ORDER BY s.expense_id, s.position
	`

	rows, err := s.db.QueryContext(ctx, query, expenseIDs)
	if err != nil {
		return nil, fmt.Errorf("loading splits: %w", err)
	}
	defer rows.Close()

	splits := make(map[uuid.UUID][]ledger.Split)

	for rows.Next() {
		var (
			expenseID uuid.UUID
			sp        ledger.Split
		)

		if err := rows.Scan(&expenseID, &sp.ContributorID, &sp.ContributorName, &sp.Percentage, &sp.AmountCents); err != nil {
			return nil, fmt.Errorf("scanning split: %w", err)
		}

		splits[expenseID] = append(splits[expenseID], sp)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating splits: %w", err)
	}

	return splits, nil
}

func (s *Store) CountTransactions(ctx context.Context, filter report.HistoryFilter) (int, error) {
	where, args := buildHistoryWhere(filter)

	query := `SELECT COUNT(*) FROM transaction_log l` + where

	var total int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("counting transactions: %w", err)
	}

	return total, nil
}

// BalanceHistory returns the newest limit balance samples reordered oldest
// first.
func (s *Store) BalanceHistory(ctx context.Context, limit int) ([]report.BalancePoint, error) {
	query := `
		SELECT created_at, balance_after_cents
		FROM transaction_log
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("loading balance history: %w", err)
	}
	defer rows.Close()

	var points []report.BalancePoint

	for rows.Next() {
		var p report.BalancePoint
		if err := rows.Scan(&p.Date, &p.BalanceCents); err != nil {
			return nil, fmt.Errorf("scanning balance point: %w", err)
		}

		points = append(points, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating balance points: %w", err)
	}

	for i, j := 0, len(points)-1; i < j; i, j = i+1, j-1 {
		points[i], points[j] = points[j], points[i]
	}

	return points, nil
}

func (s *Store) Totals(ctx context.Context) (*report.Totals, error) {
	query := `
		SELECT
			(SELECT COALESCE(SUM(amount_cents), 0) FROM incomes),
			(SELECT COALESCE(SUM(total_amount_cents), 0) FROM expenses),
			(SELECT COUNT(*) FROM incomes),
			(SELECT COUNT(*) FROM expenses)
	`

	var t report.Totals
	if err := s.db.QueryRowContext(ctx, query).Scan(
		&t.TotalIncomeCents, &t.TotalExpenseCents, &t.IncomeCount, &t.ExpenseCount,
	); err != nil {
		return nil, fmt.Errorf("loading totals: %w", err)
	}

	return &t, nil
}

func (s *Store) ContributorStats(ctx context.Context) ([]report.ContributorStat, error) {
	query := `
		SELECT c.id, c.name, c.percentage,
			COALESCE(SUM(i.amount_cents), 0), COUNT(i.id)
		FROM contributors c
		LEFT JOIN incomes i ON i.contributor_id = c.id
		GROUP BY c.id, c.name, c.percentage
		ORDER BY c.percentage DESC, c.name ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("loading contributor stats: %w", err)
	}
	defer rows.Close()

	var stats []report.ContributorStat

	for rows.Next() {
		var st report.ContributorStat
		if err := rows.Scan(&st.ContributorID, &st.Name, &st.Percentage, &st.TotalContributedCents, &st.IncomeCount); err != nil {
			return nil, fmt.Errorf("scanning contributor stat: %w", err)
		}

		stats = append(stats, st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating contributor stats: %w", err)
	}

	return stats, nil
}

// LargestExpense returns nil without error when no expense exists yet.
func (s *Store) LargestExpense(ctx context.Context) (*report.LargestExpense, error) {
	query := `
		SELECT id, COALESCE(description, ''), total_amount_cents, created_at
		FROM expenses
		ORDER BY total_amount_cents DESC, created_at ASC
		LIMIT 1
	`

	var e report.LargestExpense

	err := s.db.QueryRowContext(ctx, query).Scan(&e.ID, &e.Description, &e.AmountCents, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("loading largest expense: %w", err)
	}

	return &e, nil
}

func (s *Store) MonthlySummaries(ctx context.Context, months int) ([]report.MonthlySummary, error) {
	query := `
		SELECT month, SUM(income_cents), SUM(outcome_cents)
		FROM (
			SELECT TO_CHAR(created_at, 'YYYY-MM') AS month, amount_cents AS income_cents, 0 AS outcome_cents
			FROM incomes
			UNION ALL
			SELECT TO_CHAR(created_at, 'YYYY-MM'), 0, total_amount_cents
			FROM expenses
		) entries
		GROUP BY month
		ORDER BY month DESC
		LIMIT $1
	`

	rows, err := s.db.QueryContext(ctx, query, months)
	if err != nil {
		return nil, fmt.Errorf("loading monthly summaries: %w", err)
	}
	defer rows.Close()

	var summaries []report.MonthlySummary

	for rows.Next() {
		var m report.MonthlySummary
		if err := rows.Scan(&m.Month, &m.IncomeCents, &m.OutcomeCents); err != nil {
			return nil, fmt.Errorf("scanning monthly summary: %w", err)
		}

		m.NetCents = m.IncomeCents - m.OutcomeCents

		summaries = append(summaries, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating monthly summaries: %w", err)
	}

	// Oldest month first.
	for i, j := 0, len(summaries)-1; i < j; i, j = i+1, j-1 {
		summaries[i], summaries[j] = summaries[j], summaries[i]
	}

	return summaries, nil
}
