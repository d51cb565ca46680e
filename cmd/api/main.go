package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/rmuratov/brofund/internal/config"
	"github.com/rmuratov/brofund/internal/contributor"
	contributorStore "github.com/rmuratov/brofund/internal/contributor/store"
	"github.com/rmuratov/brofund/internal/database"
	"github.com/rmuratov/brofund/internal/event"
	brofundHttp "github.com/rmuratov/brofund/internal/http"
	contributorHandler "github.com/rmuratov/brofund/internal/http/contributor"
	ledgerHandler "github.com/rmuratov/brofund/internal/http/ledger"
	reportHandler "github.com/rmuratov/brofund/internal/http/report"
	"github.com/rmuratov/brofund/internal/ledger"
	ledgerStore "github.com/rmuratov/brofund/internal/ledger/store"
	"github.com/rmuratov/brofund/internal/logging"
	"github.com/rmuratov/brofund/internal/report"
	reportStore "github.com/rmuratov/brofund/internal/report/store"
)

func main() {
	_ = godotenv.Load()

	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	contributorService := contributor.NewService(contributorStore.New(db))
	ledgerService := ledger.NewService(ledgerStore.New(db, cfg.Ledger.LockTimeout), contributorService)

	if cfg.AMQP.URL != "" {
		events, err := event.NewClient(cfg.AMQP.URL, cfg.AMQP.Exchange, cfg.AMQP.Queue)
		if err != nil {
			slog.Error("failed to connect to amqp", "error", err)
			os.Exit(1)
		}
		defer events.Close()

		ledgerService = ledgerService.WithEvents(events)
		slog.Info("ledger event publishing enabled", "queue", cfg.AMQP.Queue)
	}

	reportService := report.NewService(reportStore.New(db), ledgerService)

	router := brofundHttp.New(
		contributorHandler.NewHandler(contributorService),
		ledgerHandler.NewHandler(ledgerService),
		reportHandler.NewHandler(reportService),
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("starting server", "addr", server.Addr)

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		slog.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.Timeout)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
