package ledger_test

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/rmuratov/brofund/internal/contributor"
	ledgerhttp "github.com/rmuratov/brofund/internal/http/ledger"
	"github.com/rmuratov/brofund/internal/ledger"
)

func newTestRouter(svc *ledger.Service) http.Handler {
	h := ledgerhttp.NewHandler(svc)

	r := chi.NewRouter()
	r.Route("/incomes", h.IncomeRoutes)
	r.Route("/expenses", h.ExpenseRoutes)
	r.Get("/balance", h.Balance)

	return r
}

func TestHandler_CreateExpense_StatusMapping(t *testing.T) {
	contributorID := uuid.New()

	body := func(total int64) string {
		return `{
			"description": "groceries",
			"total_amount_cents": ` + strconv.FormatInt(total, 10) + `,
			"created_by": "` + contributorID.String() + `",
			"shares": [{"contributor_id": "` + contributorID.String() + `", "percentage": 100}]
		}`
	}

	type testCase struct {
		name       string
		body       string
		setupMock  func(repo *ledger.MockRepository, dir *ledger.MockContributorDirectory, tx *ledger.MockTx)
		wantStatus int
	}

	tests := []testCase{
		{
			name: "InsufficientFundsConflict",
			body: body(10000),
			setupMock: func(repo *ledger.MockRepository, dir *ledger.MockContributorDirectory, tx *ledger.MockTx) {
				dir.EXPECT().GetMany(gomock.Any(), gomock.Any()).
					Return([]*contributor.Contributor{{ID: contributorID, Name: "Anvar"}}, nil)
				repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
				tx.EXPECT().LockBalance(gomock.Any()).Return(&ledger.Balance{AmountCents: 500}, nil)
				tx.EXPECT().Rollback().Return(nil)
			},
			wantStatus: http.StatusConflict,
		},
		{
			name:       "InvalidAmountBadRequest",
			body:       body(0),
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "BusyUnavailable",
			body: body(100),
			setupMock: func(repo *ledger.MockRepository, dir *ledger.MockContributorDirectory, tx *ledger.MockTx) {
				dir.EXPECT().GetMany(gomock.Any(), gomock.Any()).
					Return([]*contributor.Contributor{{ID: contributorID, Name: "Anvar"}}, nil)
				repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
				tx.EXPECT().LockBalance(gomock.Any()).Return(nil, ledger.ErrBusy)
				tx.EXPECT().Rollback().Return(nil)
			},
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name: "UnknownContributorNotFound",
			body: body(100),
			setupMock: func(_ *ledger.MockRepository, dir *ledger.MockContributorDirectory, _ *ledger.MockTx) {
				dir.EXPECT().GetMany(gomock.Any(), gomock.Any()).Return(nil, nil)
			},
			wantStatus: http.StatusNotFound,
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

			router := newTestRouter(ledger.NewService(repo, dir))

			req := httptest.NewRequest(http.MethodPost, "/expenses", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
		})
	}
}

func TestHandler_Balance(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := ledger.NewMockRepository(ctrl)
	dir := ledger.NewMockContributorDirectory(ctrl)

	repo.EXPECT().GetBalance(gomock.Any()).Return(&ledger.Balance{AmountCents: 123456}, nil)

	router := newTestRouter(ledger.NewService(repo, dir))

	req := httptest.NewRequest(http.MethodGet, "/balance", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"balance_cents":123456`)
	assert.Contains(t, rec.Body.String(), `"formatted":"1234.56"`)
}
