package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/rmuratov/brofund/internal/http/contributor"
	"github.com/rmuratov/brofund/internal/http/ledger"
	"github.com/rmuratov/brofund/internal/http/metrics"
	"github.com/rmuratov/brofund/internal/http/report"
)

func New(
	contributorsV1 *contributor.Handler,
	ledgerV1 *ledger.Handler,
	reportsV1 *report.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))
	router.Use(metrics.Middleware)

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Handle("/metrics", metrics.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/contributors", func(r chi.Router) {
			contributorsV1.Routes(r)
		})

		r.Route("/incomes", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			ledgerV1.IncomeRoutes(r)
		})

		r.Route("/expenses", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			ledgerV1.ExpenseRoutes(r)
		})

		r.Get("/balance", ledgerV1.Balance)

		r.Route("/transactions", reportsV1.TransactionRoutes)

		r.Get("/statistics", reportsV1.Statistics)
	})

	return router
}
