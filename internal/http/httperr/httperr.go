// Package httperr maps domain errors onto HTTP status codes and writes JSON
// error bodies. All handler packages share this mapping.
package httperr

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/rmuratov/brofund/internal/contributor"
	"github.com/rmuratov/brofund/internal/ledger"
	"github.com/rmuratov/brofund/internal/money"
)

type errorResponse struct {
	Error string `json:"error"`
}

// Write picks the status for err and writes the JSON error body. Unmapped
// errors become 500 with a generic message so internals never leak.
func Write(w http.ResponseWriter, r *http.Request, err error) {
	status, message := classify(err)

	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed",
			"method", r.Method, "path", r.URL.Path, "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if encErr := json.NewEncoder(w).Encode(errorResponse{Error: message}); encErr != nil {
		slog.Error("failed to encode error response", "error", encErr)
	}
}

func classify(err error) (int, string) {
	var (
		pctErr   *ledger.InvalidPercentageError
		fundsErr *ledger.InsufficientFundsError
	)

	switch {
	case errors.As(err, &pctErr):
		return http.StatusBadRequest, pctErr.Error()
	case errors.As(err, &fundsErr):
		return http.StatusConflict, fundsErr.Error()
	case errors.Is(err, contributor.ErrHasHistory):
		return http.StatusConflict, err.Error()
	case errors.Is(err, ledger.ErrBusy):
		return http.StatusServiceUnavailable, "balance is busy, retry shortly"
	case errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, money.ErrInvalidSplit),
		errors.Is(err, contributor.ErrInvalidPercentage),
		errors.Is(err, contributor.ErrPercentageExceeded):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, ledger.ErrNotFound), errors.Is(err, contributor.ErrNotFound):
		return http.StatusNotFound, err.Error()
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

// BadRequest writes a 400 with the given message.
func BadRequest(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)

	if err := json.NewEncoder(w).Encode(errorResponse{Error: message}); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}
