package ledger

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rmuratov/brofund/internal/http/httperr"
	"github.com/rmuratov/brofund/internal/ledger"
	"github.com/rmuratov/brofund/internal/money"
)

type Handler struct {
	svc *ledger.Service
}

func NewHandler(svc *ledger.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) IncomeRoutes(r chi.Router) {
	r.Post("/", h.createIncome)
	r.Get("/", h.listIncomes)
	r.Get("/{id}", h.getIncome)
}

func (h *Handler) ExpenseRoutes(r chi.Router) {
	r.Post("/", h.createExpense)
	r.Get("/", h.listExpenses)
	r.Get("/{id}", h.getExpense)
}

func (h *Handler) Balance(w http.ResponseWriter, r *http.Request) {
	balance, err := h.svc.Balance(r.Context())
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toBalanceResponse(balance)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type createIncomeRequest struct {
	ContributorID uuid.UUID `json:"contributor_id"`
	AmountCents   int64     `json:"amount_cents"`
	Description   string    `json:"description"`
}

func (h *Handler) createIncome(w http.ResponseWriter, r *http.Request) {
	var req createIncomeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperr.BadRequest(w, err.Error())
		return
	}

	income, err := h.svc.RecordIncome(r.Context(), ledger.IncomeParams{
		ContributorID: req.ContributorID,
		AmountCents:   req.AmountCents,
		Description:   req.Description,
	})
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toIncomeResponse(income)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) listIncomes(w http.ResponseWriter, r *http.Request) {
	incomes, err := h.svc.ListIncomes(r.Context(), parseListFilter(r))
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toIncomeResponseList(incomes)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) getIncome(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httperr.BadRequest(w, "invalid id")
		return
	}

	income, err := h.svc.GetIncome(r.Context(), id)
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toIncomeResponse(income)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type expenseShareRequest struct {
	ContributorID uuid.UUID `json:"contributor_id"`
	Percentage    float64   `json:"percentage"`
}

type createExpenseRequest struct {
	Description      string                `json:"description"`
	TotalAmountCents int64                 `json:"total_amount_cents"`
	CreatedBy        uuid.UUID             `json:"created_by"`
	Shares           []expenseShareRequest `json:"shares"`
}

func (h *Handler) createExpense(w http.ResponseWriter, r *http.Request) {
	var req createExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperr.BadRequest(w, err.Error())
		return
	}

	shares := make([]money.Share, len(req.Shares))
	for i, share := range req.Shares {
		shares[i] = money.Share{
			ContributorID: share.ContributorID,
			Percentage:    share.Percentage,
		}
	}

	expense, err := h.svc.RecordExpense(r.Context(), ledger.ExpenseParams{
		Description:      req.Description,
		TotalAmountCents: req.TotalAmountCents,
		CreatedBy:        req.CreatedBy,
		Shares:           shares,
	})
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toExpenseResponse(expense)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) listExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.svc.ListExpenses(r.Context(), parseListFilter(r))
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toExpenseResponseList(expenses)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) getExpense(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httperr.BadRequest(w, "invalid id")
		return
	}

	expense, err := h.svc.GetExpense(r.Context(), id)
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toExpenseResponse(expense)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func parseListFilter(r *http.Request) ledger.ListFilter {
	filter := ledger.ListFilter{}

	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			filter.Limit = n
		}
	}

	if s := r.URL.Query().Get("offset"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n >= 0 {
			filter.Offset = n
		}
	}

	if s := r.URL.Query().Get("contributor_id"); s != "" {
		if id, err := uuid.Parse(s); err == nil {
			filter.ContributorID = new(id)
		}
	}

	if s := r.URL.Query().Get("start_date"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			filter.StartDate = new(t)
		}
	}

	if s := r.URL.Query().Get("end_date"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			filter.EndDate = new(t)
		}
	}

	return filter
}
