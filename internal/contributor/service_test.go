package contributor_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/rmuratov/brofund/internal/contributor"
)

func TestService_Create(t *testing.T) {
	type testCase struct {
		name      string
		params    contributor.CreateParams
		setupMock func(repo *contributor.MockRepository, tx *contributor.MockPercentageTx)
		wantErr   error
	}

	tests := []testCase{
		{
			name:   "Success",
			params: contributor.CreateParams{Name: "Anvar", Percentage: 30},
			setupMock: func(repo *contributor.MockRepository, tx *contributor.MockPercentageTx) {
				repo.EXPECT().BeginPercentageChange(gomock.Any()).Return(tx, nil)
				tx.EXPECT().TotalPercentage(gomock.Any(), nil).Return(float64(50), nil)
				tx.EXPECT().
					CreateContributor(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, c *contributor.Contributor) error {
						c.ID = uuid.New()
						return nil
					})
				tx.EXPECT().Commit().Return(nil)
				tx.EXPECT().Rollback().Return(nil)
			},
		},
		{
			name:    "PercentageOutOfRange",
			params:  contributor.CreateParams{Name: "Anvar", Percentage: 120},
			wantErr: contributor.ErrInvalidPercentage,
		},
		{
			name:    "ZeroPercentage",
			params:  contributor.CreateParams{Name: "Anvar", Percentage: 0},
			wantErr: contributor.ErrInvalidPercentage,
		},
		{
			name:   "SumWouldExceedHundred",
			params: contributor.CreateParams{Name: "Anvar", Percentage: 30},
			setupMock: func(repo *contributor.MockRepository, tx *contributor.MockPercentageTx) {
				repo.EXPECT().BeginPercentageChange(gomock.Any()).Return(tx, nil)
				tx.EXPECT().TotalPercentage(gomock.Any(), nil).Return(float64(80), nil)
				tx.EXPECT().Rollback().Return(nil)
			},
			wantErr: contributor.ErrPercentageExceeded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := contributor.NewMockRepository(ctrl)
			tx := contributor.NewMockPercentageTx(ctrl)

			if tt.setupMock != nil {
				tt.setupMock(repo, tx)
			}

			svc := contributor.NewService(repo)
			got, err := svc.Create(context.Background(), tt.params)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			require.NotNil(t, got)
			assert.NotEmpty(t, got.ID)
			assert.Equal(t, tt.params.Name, got.Name)
		})
	}
}

func TestService_Update(t *testing.T) {
	id := uuid.New()
	existing := func() *contributor.Contributor {
		return &contributor.Contributor{ID: id, Name: "Anvar", Percentage: 30}
	}

	newPct := func(p float64) *float64 { return &p }

	type testCase struct {
		name      string
		params    contributor.UpdateParams
		setupMock func(repo *contributor.MockRepository, tx *contributor.MockPercentageTx)
		wantErr   error
		wantPct   float64
	}

	tests := []testCase{
		{
			name:   "PercentageChanged",
			params: contributor.UpdateParams{Percentage: newPct(40)},
			setupMock: func(repo *contributor.MockRepository, tx *contributor.MockPercentageTx) {
				repo.EXPECT().GetContributor(gomock.Any(), id).Return(existing(), nil)
				repo.EXPECT().BeginPercentageChange(gomock.Any()).Return(tx, nil)
				tx.EXPECT().TotalPercentage(gomock.Any(), &id).Return(float64(55), nil)
				tx.EXPECT().UpdateContributor(gomock.Any(), gomock.Any()).Return(nil)
				tx.EXPECT().Commit().Return(nil)
				tx.EXPECT().Rollback().Return(nil)
			},
			wantPct: 40,
		},
		{
			name:   "OthersAlreadyHoldTooMuch",
			params: contributor.UpdateParams{Percentage: newPct(50)},
			setupMock: func(repo *contributor.MockRepository, tx *contributor.MockPercentageTx) {
				repo.EXPECT().GetContributor(gomock.Any(), id).Return(existing(), nil)
				repo.EXPECT().BeginPercentageChange(gomock.Any()).Return(tx, nil)
				tx.EXPECT().TotalPercentage(gomock.Any(), &id).Return(float64(70), nil)
				tx.EXPECT().Rollback().Return(nil)
			},
			wantErr: contributor.ErrPercentageExceeded,
		},
		{
			name:   "NotFound",
			params: contributor.UpdateParams{Percentage: newPct(40)},
			setupMock: func(repo *contributor.MockRepository, _ *contributor.MockPercentageTx) {
				repo.EXPECT().GetContributor(gomock.Any(), id).Return(nil, contributor.ErrNotFound)
			},
			wantErr: contributor.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := contributor.NewMockRepository(ctrl)
			tx := contributor.NewMockPercentageTx(ctrl)

			if tt.setupMock != nil {
				tt.setupMock(repo, tx)
			}

			svc := contributor.NewService(repo)
			got, err := svc.Update(context.Background(), id, tt.params)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantPct, got.Percentage)
		})
	}
}

func TestService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	id := uuid.New()
	repo := contributor.NewMockRepository(ctrl)
	repo.EXPECT().GetContributor(gomock.Any(), id).Return(&contributor.Contributor{ID: id}, nil)
	repo.EXPECT().DeleteContributor(gomock.Any(), id).Return(nil)

	svc := contributor.NewService(repo)
	require.NoError(t, svc.Delete(context.Background(), id))
}

func TestService_Delete_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	id := uuid.New()
	repo := contributor.NewMockRepository(ctrl)
	repo.EXPECT().GetContributor(gomock.Any(), id).Return(nil, contributor.ErrNotFound)

	svc := contributor.NewService(repo)
	err := svc.Delete(context.Background(), id)
	assert.True(t, errors.Is(err, contributor.ErrNotFound))
}
