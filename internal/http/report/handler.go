package report

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rmuratov/brofund/internal/http/httperr"
	"github.com/rmuratov/brofund/internal/ledger"
	"github.com/rmuratov/brofund/internal/report"
)

type Handler struct {
	svc *report.Service
}

func NewHandler(svc *report.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) TransactionRoutes(r chi.Router) {
	r.Get("/", h.history)
	r.Get("/export", h.exportCSV)
	r.Get("/balance-history", h.balanceHistory)
}

func (h *Handler) Statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Statistics(r.Context())
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toStatisticsResponse(stats)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) history(w http.ResponseWriter, r *http.Request) {
	filter, err := parseHistoryFilter(r)
	if err != nil {
		httperr.BadRequest(w, err.Error())
		return
	}

	history, err := h.svc.History(r.Context(), filter)
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toHistoryResponse(history)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) balanceHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			limit = n
		}
	}

	points, err := h.svc.BalanceHistory(r.Context(), limit)
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(points); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) exportCSV(w http.ResponseWriter, r *http.Request) {
	filter, err := parseHistoryFilter(r)
	if err != nil {
		httperr.BadRequest(w, err.Error())
		return
	}

	filename := fmt.Sprintf("ledger_%s.csv", time.Now().Format("20060102"))

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	if err := h.svc.WriteCSV(r.Context(), w, filter); err != nil {
		// Headers are already out; all we can do is log.
		slog.ErrorContext(r.Context(), "csv export failed", "error", err)
	}
}

func parseHistoryFilter(r *http.Request) (report.HistoryFilter, error) {
	filter := report.HistoryFilter{}
	query := r.URL.Query()

	if s := query.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return filter, fmt.Errorf("invalid limit %q", s)
		}

		filter.Limit = n
	}

	if s := query.Get("offset"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return filter, fmt.Errorf("invalid offset %q", s)
		}

		filter.Offset = n
	}

	if s := query.Get("type"); s != "" {
		t := ledger.EntryType(s)
		if t != ledger.EntryIncome && t != ledger.EntryExpense {
			return filter, fmt.Errorf("invalid type %q", s)
		}

		filter.Type = new(t)
	}

	if s := query.Get("contributor_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return filter, fmt.Errorf("invalid contributor_id %q", s)
		}

		filter.ContributorID = new(id)
	}

	if s := query.Get("start_date"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return filter, fmt.Errorf("invalid start_date %q", s)
		}

		filter.StartDate = new(t)
	}

	if s := query.Get("end_date"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return filter, fmt.Errorf("invalid end_date %q", s)
		}

		filter.EndDate = new(t)
	}

	return filter, nil
}
