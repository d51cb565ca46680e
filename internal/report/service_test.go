package report_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/rmuratov/brofund/internal/ledger"
	"github.com/rmuratov/brofund/internal/report"
)

func TestService_History(t *testing.T) {
	type testCase struct {
		name      string
		filter    report.HistoryFilter
		setupMock func(m *report.MockRepository)
		wantLen   int
		wantTotal int
		wantErr   bool
	}

	expenseType := ledger.EntryExpense

	tests := []testCase{
		{
			name:   "DefaultLimitApplied",
			filter: report.HistoryFilter{},
			setupMock: func(m *report.MockRepository) {
				m.EXPECT().
					ListTransactions(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, filter report.HistoryFilter) ([]*report.Transaction, error) {
						assert.Equal(t, 50, filter.Limit)
						return []*report.Transaction{
							{ID: uuid.New(), Type: ledger.EntryIncome, AmountCents: 100},
						}, nil
					})
				m.EXPECT().CountTransactions(gomock.Any(), gomock.Any()).Return(7, nil)
			},
			wantLen:   1,
			wantTotal: 7,
		},
		{
			name:   "TypeFilterPassedThrough",
			filter: report.HistoryFilter{Limit: 10, Type: &expenseType},
			setupMock: func(m *report.MockRepository) {
				m.EXPECT().
					ListTransactions(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, filter report.HistoryFilter) ([]*report.Transaction, error) {
						require.NotNil(t, filter.Type)
						assert.Equal(t, ledger.EntryExpense, *filter.Type)
						return nil, nil
					})
				m.EXPECT().CountTransactions(gomock.Any(), gomock.Any()).Return(0, nil)
			},
			wantLen:   0,
			wantTotal: 0,
		},
		{
			name:   "ListFails",
			filter: report.HistoryFilter{Limit: 10},
			setupMock: func(m *report.MockRepository) {
				m.EXPECT().ListTransactions(gomock.Any(), gomock.Any()).Return(nil, assert.AnError)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := report.NewMockRepository(ctrl)
			balance := report.NewMockBalanceReader(ctrl)

			tt.setupMock(repo)

			svc := report.NewService(repo, balance)
			got, err := svc.History(context.Background(), tt.filter)

			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Len(t, got.Transactions, tt.wantLen)
			assert.Equal(t, tt.wantTotal, got.Total)
		})
	}
}

func TestService_Statistics(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := report.NewMockRepository(ctrl)
	balance := report.NewMockBalanceReader(ctrl)

	contributorID := uuid.New()

	balance.EXPECT().Balance(gomock.Any()).Return(&ledger.Balance{AmountCents: 38654}, nil)
	repo.EXPECT().Totals(gomock.Any()).Return(&report.Totals{
		TotalIncomeCents:  50999,
		TotalExpenseCents: 12345,
		IncomeCount:       3,
		ExpenseCount:      2,
	}, nil)
	repo.EXPECT().ContributorStats(gomock.Any()).Return([]report.ContributorStat{
		{ContributorID: contributorID, Name: "Anvar", Percentage: 45, TotalContributedCents: 50999, IncomeCount: 3},
	}, nil)
	repo.EXPECT().LargestExpense(gomock.Any()).Return(&report.LargestExpense{
		ID: uuid.New(), Description: "rent", AmountCents: 10000,
	}, nil)
	repo.EXPECT().MonthlySummaries(gomock.Any(), 12).Return([]report.MonthlySummary{
		{Month: "2026-07", IncomeCents: 20000, OutcomeCents: 2345, NetCents: 17655},
		{Month: "2026-08", IncomeCents: 30999, OutcomeCents: 10000, NetCents: 20999},
	}, nil)

	svc := report.NewService(repo, balance)
	got, err := svc.Statistics(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(38654), got.BalanceCents)
	assert.Equal(t, int64(50999), got.TotalIncomeCents)
	assert.Equal(t, int64(12345), got.TotalExpenseCents)
	assert.Equal(t, 3, got.IncomeCount)
	assert.Equal(t, 2, got.ExpenseCount)
	require.Len(t, got.Contributors, 1)
	assert.Equal(t, "Anvar", got.Contributors[0].Name)
	require.NotNil(t, got.LargestExpense)
	assert.Equal(t, "rent", got.LargestExpense.Description)
	require.Len(t, got.Monthly, 2)
	assert.Equal(t, int64(17655), got.Monthly[0].NetCents)
}

func TestService_Statistics_NoExpensesYet(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := report.NewMockRepository(ctrl)
	balance := report.NewMockBalanceReader(ctrl)

	balance.EXPECT().Balance(gomock.Any()).Return(&ledger.Balance{}, nil)
	repo.EXPECT().Totals(gomock.Any()).Return(&report.Totals{}, nil)
	repo.EXPECT().ContributorStats(gomock.Any()).Return(nil, nil)
	repo.EXPECT().LargestExpense(gomock.Any()).Return(nil, nil)
	repo.EXPECT().MonthlySummaries(gomock.Any(), 12).Return(nil, nil)

	svc := report.NewService(repo, balance)
	got, err := svc.Statistics(context.Background())

	require.NoError(t, err)
	assert.Nil(t, got.LargestExpense)
	assert.Empty(t, got.Contributors)
}

func TestService_WriteCSV(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := report.NewMockRepository(ctrl)
	balance := report.NewMockBalanceReader(ctrl)

	created := time.Date(2026, 8, 15, 10, 30, 0, 0, time.UTC)

	// Store returns newest first; the CSV must come out oldest first.
	repo.EXPECT().
		ListTransactions(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, filter report.HistoryFilter) ([]*report.Transaction, error) {
			assert.Zero(t, filter.Limit)
			assert.Zero(t, filter.Offset)
			return []*report.Transaction{
				{
					Type:              ledger.EntryExpense,
					Description:       "groceries",
					ContributorName:   "Bobur",
					AmountCents:       -4500,
					BalanceAfterCents: 5500,
					CreatedAt:         created.Add(time.Hour),
				},
				{
					Type:              ledger.EntryIncome,
					Description:       "salary",
					ContributorName:   "Anvar",
					AmountCents:       10000,
					BalanceAfterCents: 10000,
					CreatedAt:         created,
				},
			}, nil
		})

	svc := report.NewService(repo, balance)

	var buf bytes.Buffer
	require.NoError(t, svc.WriteCSV(context.Background(), &buf, report.HistoryFilter{Limit: 5}))

	want := "date,type,description,contributor,amount,balance_after\n" +
		"2026-08-15 10:30:00,income,salary,Anvar,100.00,100.00\n" +
		"2026-08-15 11:30:00,expense,groceries,Bobur,-45.00,55.00\n"
	assert.Equal(t, want, buf.String())
}

func TestSheetRow(t *testing.T) {
	id := uuid.New()
	row := report.SheetRow(ledger.Event{
		Type:              ledger.EntryIncome,
		ReferenceID:       id,
		AmountCents:       12345,
		BalanceAfterCents: 20000,
		CreatedAt:         time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC),
	})

	assert.Equal(t, []string{"2026-08-30 09:00:00", "income", id.String(), "123.45", "200.00"}, row)
}
