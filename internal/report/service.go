package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/rmuratov/brofund/internal/ledger"
	"github.com/rmuratov/brofund/internal/money"
)

const (
	defaultHistoryLimit = 50
	monthlyWindow       = 12
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=report
type Repository interface {
	ListTransactions(ctx context.Context, filter HistoryFilter) ([]*Transaction, error)
	CountTransactions(ctx context.Context, filter HistoryFilter) (int, error)
	BalanceHistory(ctx context.Context, limit int) ([]BalancePoint, error)
	Totals(ctx context.Context) (*Totals, error)
	ContributorStats(ctx context.Context) ([]ContributorStat, error)
	LargestExpense(ctx context.Context) (*LargestExpense, error)
	MonthlySummaries(ctx context.Context, months int) ([]MonthlySummary, error)
}

// BalanceReader supplies the current balance for statistics. Satisfied by
// *ledger.Service.
type BalanceReader interface {
	Balance(ctx context.Context) (*ledger.Balance, error)
}

type Service struct {
	repo    Repository
	balance BalanceReader
}

func NewService(repo Repository, balance BalanceReader) *Service {
	return &Service{repo: repo, balance: balance}
}

// History returns one page of the merged income/expense history, newest
// first, with the total row count for the filter.
func (s *Service) History(ctx context.Context, filter HistoryFilter) (*History, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultHistoryLimit
	}

	transactions, err := s.repo.ListTransactions(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	total, err := s.repo.CountTransactions(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("counting transactions: %w", err)
	}

	return &History{Transactions: transactions, Total: total}, nil
}

// BalanceHistory returns up to limit balance samples, oldest first, suitable
// for plotting the balance over time.
func (s *Service) BalanceHistory(ctx context.Context, limit int) ([]BalancePoint, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	points, err := s.repo.BalanceHistory(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("loading balance history: %w", err)
	}

	return points, nil
}

// Statistics assembles the fund overview: current balance, lifetime totals,
// per-contributor breakdown, the largest expense and a monthly summary.
func (s *Service) Statistics(ctx context.Context) (*Statistics, error) {
	balance, err := s.balance.Balance(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading balance: %w", err)
	}

	totals, err := s.repo.Totals(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading totals: %w", err)
	}

	contributors, err := s.repo.ContributorStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading contributor stats: %w", err)
	}

	largest, err := s.repo.LargestExpense(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading largest expense: %w", err)
	}

	monthly, err := s.repo.MonthlySummaries(ctx, monthlyWindow)
	if err != nil {
		return nil, fmt.Errorf("loading monthly summaries: %w", err)
	}

	return &Statistics{
		BalanceCents:      balance.AmountCents,
		TotalIncomeCents:  totals.TotalIncomeCents,
		TotalExpenseCents: totals.TotalExpenseCents,
		IncomeCount:       totals.IncomeCount,
		ExpenseCount:      totals.ExpenseCount,
		Contributors:      contributors,
		LargestExpense:    largest,
		Monthly:           monthly,
	}, nil
}

var csvHeader = []string{"date", "type", "description", "contributor", "amount", "balance_after"}

// WriteCSV streams the filtered history as CSV, oldest first so the running
// balance column reads top to bottom.
func (s *Service) WriteCSV(ctx context.Context, w io.Writer, filter HistoryFilter) error {
	filter.Limit = 0
	filter.Offset = 0

	transactions, err := s.repo.ListTransactions(ctx, filter)
	if err != nil {
		return fmt.Errorf("listing transactions: %w", err)
	}

	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	for i := len(transactions) - 1; i >= 0; i-- {
		t := transactions[i]

		record := []string{
			t.CreatedAt.Format("2006-01-02 15:04:05"),
			string(t.Type),
			t.Description,
			t.ContributorName,
			money.FormatCents(t.AmountCents),
			money.FormatCents(t.BalanceAfterCents),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}

	cw.Flush()

	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}

	return nil
}

// SheetRow converts a ledger event into the row appended to the shared
// spreadsheet by the sync worker.
func SheetRow(event ledger.Event) []string {
	return []string{
		event.CreatedAt.Format("2006-01-02 15:04:05"),
		string(event.Type),
		event.ReferenceID.String(),
		money.FormatCents(event.AmountCents),
		money.FormatCents(event.BalanceAfterCents),
	}
}
