package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/rmuratov/brofund/internal/contributor"
)

// Advisory lock key serializing contributor percentage changes. The sum-of-
// percentages invariant spans rows, so the read and the write must not
// interleave with a concurrent change.
const percentageLockKey = int64(0x62726f66756e6401)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// Expected column order: id, name, email, percentage, created_at, updated_at
func scanContributor(s scanner) (*contributor.Contributor, error) {
	var c contributor.Contributor

	var email sql.NullString

	if err := s.Scan(&c.ID, &c.Name, &email, &c.Percentage, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}

	c.Email = email.String

	return &c, nil
}

const selectContributorColumns = `id, name, email, percentage, created_at, updated_at`

func (s *Store) ListContributors(ctx context.Context) ([]*contributor.Contributor, error) {
	query := `SELECT ` + selectContributorColumns + ` FROM contributors ORDER BY created_at ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing contributors: %w", err)
	}
	defer rows.Close()

	var contributors []*contributor.Contributor

	for rows.Next() {
		c, err := scanContributor(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning contributor: %w", err)
		}

		contributors = append(contributors, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating contributor rows: %w", err)
	}

	return contributors, nil
}

func (s *Store) GetContributor(ctx context.Context, id uuid.UUID) (*contributor.Contributor, error) {
	query := `SELECT ` + selectContributorColumns + ` FROM contributors WHERE id = $1`

	c, err := scanContributor(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, contributor.ErrNotFound
		}

		return nil, fmt.Errorf("getting contributor: %w", err)
	}

	return c, nil
}

func (s *Store) GetContributors(ctx context.Context, ids []uuid.UUID) ([]*contributor.Contributor, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `SELECT ` + selectContributorColumns + ` FROM contributors WHERE id = ANY($1::uuid[])`

	idStrs := make([]string, len(ids))
	for i, id := range ids {
		idStrs[i] = id.String()
	}

	rows, err := s.db.QueryContext(ctx, query, idStrs)
	if err != nil {
		return nil, fmt.Errorf("getting contributors: %w", err)
	}
	defer rows.Close()

	var contributors []*contributor.Contributor

	for rows.Next() {
		c, err := scanContributor(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning contributor: %w", err)
		}

		contributors = append(contributors, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating contributor rows: %w", err)
	}

	return contributors, nil
}

func (s *Store) ListWithContributions(ctx context.Context) ([]*contributor.WithContribution, error) {
	query := `
		SELECT c.id, c.name, c.email, c.percentage, c.created_at, c.updated_at,
			COALESCE(SUM(i.amount_cents), 0) AS total_contributed
		FROM contributors c
		LEFT JOIN incomes i ON c.id = i.contributor_id
		GROUP BY c.id
		ORDER BY c.created_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing contributions: %w", err)
	}
	defer rows.Close()

	var result []*contributor.WithContribution

	for rows.Next() {
		var wc contributor.WithContribution

		var email sql.NullString

		if err := rows.Scan(
			&wc.ID, &wc.Name, &email, &wc.Percentage, &wc.CreatedAt, &wc.UpdatedAt,
			&wc.TotalContributedCents,
		); err != nil {
			return nil, fmt.Errorf("scanning contribution row: %w", err)
		}

		wc.Email = email.String
		result = append(result, &wc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating contribution rows: %w", err)
	}

	return result, nil
}

// foreignKeyViolation is the Postgres SQLSTATE for a blocked FK delete.
const foreignKeyViolation = "23503"

func (s *Store) DeleteContributor(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM contributors WHERE id = $1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return fmt.Errorf("%w: %s", contributor.ErrHasHistory, id)
		}

		return fmt.Errorf("deleting contributor: %w", err)
	}

	return nil
}

type percentageTx struct {
	tx *sql.Tx
}

func (s *Store) BeginPercentageChange(ctx context.Context) (contributor.PercentageTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning percentage tx: %w", err)
	}

	if _, err := dbTx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", percentageLockKey); err != nil {
		dbTx.Rollback()
		return nil, fmt.Errorf("acquiring percentage lock: %w", err)
	}

	return &percentageTx{tx: dbTx}, nil
}

func (ptx *percentageTx) Commit() error   { return ptx.tx.Commit() }
func (ptx *percentageTx) Rollback() error { return ptx.tx.Rollback() }

func (ptx *percentageTx) TotalPercentage(ctx context.Context, excludeID *uuid.UUID) (float64, error) {
	query := `SELECT COALESCE(SUM(percentage), 0) FROM contributors`

	var args []any

	if excludeID != nil {
		query += ` WHERE id <> $1`

		args = append(args, *excludeID)
	}

	var total float64
	if err := ptx.tx.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("summing percentages: %w", err)
	}

	return total, nil
}

func (ptx *percentageTx) CreateContributor(ctx context.Context, c *contributor.Contributor) error {
	query := `
		INSERT INTO contributors (name, email, percentage, created_at, updated_at)
		VALUES ($1, NULLIF($2, ''), $3, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := ptx.tx.QueryRowContext(ctx, query, c.Name, c.Email, c.Percentage).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating contributor: %w", err)
	}

	return nil
}

func (ptx *percentageTx) UpdateContributor(ctx context.Context, c *contributor.Contributor) error {
	query := `
		UPDATE contributors
		SET name = $1, email = NULLIF($2, ''), percentage = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING updated_at
	`

	err := ptx.tx.QueryRowContext(ctx, query, c.Name, c.Email, c.Percentage, c.ID).
		Scan(&c.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return contributor.ErrNotFound
		}

		return fmt.Errorf("updating contributor: %w", err)
	}

	return nil
}
