package ledger_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/rmuratov/brofund/internal/contributor"
	"github.com/rmuratov/brofund/internal/ledger"
	"github.com/rmuratov/brofund/internal/money"
)

func TestService_RecordIncome(t *testing.T) {
	contributorID := uuid.New()

	type testCase struct {
		name      string
		params    ledger.IncomeParams
		setupMock func(repo *ledger.MockRepository, dir *ledger.MockContributorDirectory, tx *ledger.MockTx)
		wantErr   error
	}

	tests := []testCase{
		{
			name: "Success",
			params: ledger.IncomeParams{
				ContributorID: contributorID,
				AmountCents:   10000,
				Description:   "October salary",
			},
			setupMock: func(repo *ledger.MockRepository, dir *ledger.MockContributorDirectory, tx *ledger.MockTx) {
				dir.EXPECT().Get(gomock.Any(), contributorID).
					Return(&contributor.Contributor{ID: contributorID, Name: "Anvar"}, nil)
				repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
				tx.EXPECT().LockBalance(gomock.Any()).Return(&ledger.Balance{AmountCents: 500}, nil)
				tx.EXPECT().
					CreateIncome(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, income *ledger.Income) error {
						income.ID = uuid.New()
						return nil
					})
				tx.EXPECT().SetBalance(gomock.Any(), int64(10500)).
					Return(&ledger.Balance{AmountCents: 10500}, nil)
				tx.EXPECT().
					AppendLogEntry(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, entry *ledger.LogEntry) error {
						assert.Equal(t, ledger.EntryIncome, entry.Type)
						assert.Equal(t, int64(10000), entry.AmountCents)
						assert.Equal(t, int64(10500), entry.BalanceAfterCents)
						return nil
					})
				tx.EXPECT().Commit().Return(nil)
				tx.EXPECT().Rollback().Return(nil)
			},
		},
		{
			name:    "ZeroAmount",
			params:  ledger.IncomeParams{ContributorID: contributorID, AmountCents: 0},
			wantErr: ledger.ErrInvalidAmount,
		},
		{
			name:    "NegativeAmount",
			params:  ledger.IncomeParams{ContributorID: contributorID, AmountCents: -5},
			wantErr: ledger.ErrInvalidAmount,
		},
		{
			name:   "ContributorMissing",
			params: ledger.IncomeParams{ContributorID: contributorID, AmountCents: 100},
			setupMock: func(_ *ledger.MockRepository, dir *ledger.MockContributorDirectory, _ *ledger.MockTx) {
				dir.EXPECT().Get(gomock.Any(), contributorID).Return(nil, contributor.ErrNotFound)
			},
			wantErr: ledger.ErrNotFound,
		},
		{
			name:   "LockTimeout",
			params: ledger.IncomeParams{ContributorID: contributorID, AmountCents: 100},
			setupMock: func(repo *ledger.MockRepository, dir *ledger.MockContributorDirectory, tx *ledger.MockTx) {
				dir.EXPECT().Get(gomock.Any(), contributorID).
					Return(&contributor.Contributor{ID: contributorID, Name: "Anvar"}, nil)
				repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
				tx.EXPECT().LockBalance(gomock.Any()).Return(nil, ledger.ErrBusy)
				tx.EXPECT().Rollback().Return(nil)
			},
			wantErr: ledger.ErrBusy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := ledger.NewMockRepository(ctrl)
			dir := ledger.NewMockContributorDirectory(ctrl)
			tx := ledger.NewMockTx(ctrl)

			if tt.setupMock != nil {
				tt.setupMock(repo, dir, tx)
			}

			svc := ledger.NewService(repo, dir)
			got, err := svc.RecordIncome(context.Background(), tt.params)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			require.NotNil(t, got)
			assert.NotEmpty(t, got.ID)
			assert.Equal(t, "Anvar", got.ContributorName)
		})
	}
}

func TestService_RecordExpense(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	allThree := func(dir *ledger.MockContributorDirectory) {
		dir.EXPECT().GetMany(gomock.Any(), gomock.Any()).
			Return([]*contributor.Contributor{
				{ID: a, Name: "Anvar"},
				{ID: b, Name: "Bobur"},
				{ID: c, Name: "Davron"},
			}, nil)
	}

	type testCase struct {
		name        string
		params      ledger.ExpenseParams
		setupMock   func(repo *ledger.MockRepository, dir *ledger.MockContributorDirectory, tx *ledger.MockTx)
		wantErr     error
		wantAmounts []int64
	}

	tests := []testCase{
		{
			name: "ExactSplit",
			params: ledger.ExpenseParams{
				Description:      "groceries",
				TotalAmountCents: 10000,
				CreatedBy:        a,
				Shares: []money.Share{
					{ContributorID: a, Percentage: 45},
					{ContributorID: b, Percentage: 35},
					{ContributorID: c, Percentage: 20},
				},
			},
			setupMock: func(repo *ledger.MockRepository, dir *ledger.MockContributorDirectory, tx *ledger.MockTx) {
				allThree(dir)
				repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
				tx.EXPECT().LockBalance(gomock.Any()).Return(&ledger.Balance{AmountCents: 10000}, nil)
				tx.EXPECT().
					CreateExpense(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, expense *ledger.Expense) error {
						expense.ID = uuid.New()
						return nil
					})
				tx.EXPECT().
					CreateSplits(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ uuid.UUID, splits []money.Split) error {
						require.Len(t, splits, 3)
						assert.Equal(t, int64(4500), splits[0].AmountCents)
						assert.Equal(t, int64(3500), splits[1].AmountCents)
						assert.Equal(t, int64(2000), splits[2].AmountCents)
						return nil
					})
				tx.EXPECT().SetBalance(gomock.Any(), int64(0)).
					Return(&ledger.Balance{AmountCents: 0}, nil)
				tx.EXPECT().
					AppendLogEntry(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, entry *ledger.LogEntry) error {
						assert.Equal(t, ledger.EntryExpense, entry.Type)
						assert.Equal(t, int64(-10000), entry.AmountCents)
						assert.Equal(t, int64(0), entry.BalanceAfterCents)
						return nil
					})
				tx.EXPECT().Commit().Return(nil)
				tx.EXPECT().Rollback().Return(nil)
			},
			wantAmounts: []int64{4500, 3500, 2000},
		},
		{
			name: "LastSplitAbsorbsRounding",
			params: ledger.ExpenseParams{
				Description:      "utilities",
				TotalAmountCents: 10001,
				CreatedBy:        a,
				Shares: []money.Share{
					{ContributorID: a, Percentage: 33.33},
					{ContributorID: b, Percentage: 33.33},
					{ContributorID: c, Percentage: 33.34},
				},
			},
			setupMock: func(repo *ledger.MockRepository, dir *ledger.MockContributorDirectory, tx *ledger.MockTx) {
				allThree(dir)
				repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
				tx.EXPECT().LockBalance(gomock.Any()).Return(&ledger.Balance{AmountCents: 20000}, nil)
				tx.EXPECT().
					CreateExpense(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, expense *ledger.Expense) error {
						expense.ID = uuid.New()
						return nil
					})
				tx.EXPECT().CreateSplits(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				tx.EXPECT().SetBalance(gomock.Any(), int64(9999)).
					Return(&ledger.Balance{AmountCents: 9999}, nil)
				tx.EXPECT().AppendLogEntry(gomock.Any(), gomock.Any()).Return(nil)
				tx.EXPECT().Commit().Return(nil)
				tx.EXPECT().Rollback().Return(nil)
			},
			wantAmounts: []int64{3333, 3333, 3335},
		},
		{
			name: "PercentagesDoNotSumToHundred",
			params: ledger.ExpenseParams{
				Description:      "groceries",
				TotalAmountCents: 1000,
				CreatedBy:        a,
				Shares: []money.Share{
					{ContributorID: a, Percentage: 50},
					{ContributorID: b, Percentage: 40},
				},
			},
			wantErr: &ledger.InvalidPercentageError{},
		},
		{
			name: "InsufficientFunds",
			params: ledger.ExpenseParams{
				Description:      "groceries",
				TotalAmountCents: 100,
				CreatedBy:        a,
				Shares: []money.Share{
					{ContributorID: a, Percentage: 100},
				},
			},
			setupMock: func(repo *ledger.MockRepository, dir *ledger.MockContributorDirectory, tx *ledger.MockTx) {
				dir.EXPECT().GetMany(gomock.Any(), gomock.Any()).
					Return([]*contributor.Contributor{{ID: a, Name: "Anvar"}}, nil)
				repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
				tx.EXPECT().LockBalance(gomock.Any()).Return(&ledger.Balance{AmountCents: 50}, nil)
				// No writes: the check fails before any insert.
				tx.EXPECT().Rollback().Return(nil)
			},
			wantErr: &ledger.InsufficientFundsError{},
		},
		{
			name: "ContributorMissing",
			params: ledger.ExpenseParams{
				Description:      "groceries",
				TotalAmountCents: 1000,
				CreatedBy:        a,
				Shares: []money.Share{
					{ContributorID: b, Percentage: 100},
				},
			},
			setupMock: func(_ *ledger.MockRepository, dir *ledger.MockContributorDirectory, _ *ledger.MockTx) {
				dir.EXPECT().GetMany(gomock.Any(), gomock.Any()).
					Return([]*contributor.Contributor{{ID: a, Name: "Anvar"}}, nil)
			},
			wantErr: ledger.ErrNotFound,
		},
		{
			name: "ZeroTotal",
			params: ledger.ExpenseParams{
				Description:      "groceries",
				TotalAmountCents: 0,
				CreatedBy:        a,
				Shares:           []money.Share{{ContributorID: a, Percentage: 100}},
			},
			wantErr: ledger.ErrInvalidAmount,
		},
		{
			name: "NoShares",
			params: ledger.ExpenseParams{
				Description:      "groceries",
				TotalAmountCents: 1000,
				CreatedBy:        a,
			},
			wantErr: money.ErrInvalidSplit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := ledger.NewMockRepository(ctrl)
			dir := ledger.NewMockContributorDirectory(ctrl)
			tx := ledger.NewMockTx(ctrl)

			if tt.setupMock != nil {
				tt.setupMock(repo, dir, tx)
			}

			svc := ledger.NewService(repo, dir)
			got, err := svc.RecordExpense(context.Background(), tt.params)

			if tt.wantErr != nil {
				require.Error(t, err)

				switch want := tt.wantErr.(type) {
				case *ledger.InvalidPercentageError:
					var pctErr *ledger.InvalidPercentageError
					require.ErrorAs(t, err, &pctErr)
				case *ledger.InsufficientFundsError:
					var fundsErr *ledger.InsufficientFundsError
					require.ErrorAs(t, err, &fundsErr)
					assert.Equal(t, int64(50), fundsErr.CurrentCents)
					assert.Equal(t, int64(100), fundsErr.RequestedCents)
					assert.Equal(t, int64(50), fundsErr.Shortfall())
				default:
					assert.ErrorIs(t, err, want)
				}

				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			require.NotNil(t, got)
			require.Len(t, got.Splits, len(tt.wantAmounts))

			var sum int64
			for i, sp := range got.Splits {
				assert.Equal(t, tt.wantAmounts[i], sp.AmountCents)
				assert.NotEmpty(t, sp.ContributorName)
				sum += sp.AmountCents
			}

			assert.Equal(t, tt.params.TotalAmountCents, sum)
			assert.Equal(t, "Anvar", got.CreatedByName)
		})
	}
}

func TestService_RecordIncome_PublishesEvent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	contributorID := uuid.New()

	repo := ledger.NewMockRepository(ctrl)
	dir := ledger.NewMockContributorDirectory(ctrl)
	tx := ledger.NewMockTx(ctrl)
	events := ledger.NewMockEventPublisher(ctrl)

	dir.EXPECT().Get(gomock.Any(), contributorID).
		Return(&contributor.Contributor{ID: contributorID, Name: "Anvar"}, nil)
	repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	tx.EXPECT().LockBalance(gomock.Any()).Return(&ledger.Balance{AmountCents: 0}, nil)
	tx.EXPECT().CreateIncome(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, income *ledger.Income) error {
			income.ID = uuid.New()
			return nil
		})
	tx.EXPECT().SetBalance(gomock.Any(), int64(100)).
		Return(&ledger.Balance{AmountCents: 100}, nil)
	tx.EXPECT().AppendLogEntry(gomock.Any(), gomock.Any()).Return(nil)
	tx.EXPECT().Commit().Return(nil)
	tx.EXPECT().Rollback().Return(nil)

	events.EXPECT().
		PublishLedgerEntry(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, event ledger.Event) error {
			assert.Equal(t, ledger.EntryIncome, event.Type)
			assert.Equal(t, int64(100), event.AmountCents)
			assert.Equal(t, int64(100), event.BalanceAfterCents)
			return nil
		})

	svc := ledger.NewService(repo, dir).WithEvents(events)

	_, err := svc.RecordIncome(context.Background(), ledger.IncomeParams{
		ContributorID: contributorID,
		AmountCents:   100,
	})
	require.NoError(t, err)
}
