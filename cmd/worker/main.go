package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/rmuratov/brofund/internal/config"
	"github.com/rmuratov/brofund/internal/event"
	"github.com/rmuratov/brofund/internal/ledger"
	"github.com/rmuratov/brofund/internal/logging"
	"github.com/rmuratov/brofund/internal/sheets"
	"github.com/rmuratov/brofund/internal/sheets/google"
	"github.com/rmuratov/brofund/internal/sheets/memory"
	"github.com/rmuratov/brofund/internal/worker"
)

func main() {
	_ = godotenv.Load()

	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if cfg.AMQP.URL == "" {
		slog.Error("AMQP_URL is required for the sync worker")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var appender sheets.RowAppender

	if cfg.Sheets.SpreadsheetID != "" {
		client, err := google.New(ctx, cfg.Sheets.SpreadsheetID, cfg.Sheets.SheetName)
		if err != nil {
			slog.Error("failed to create sheets client", "error", err)
			os.Exit(1)
		}

		appender = client
		slog.Info("google sheets sync enabled",
			"spreadsheet_id", cfg.Sheets.SpreadsheetID, "sheet", cfg.Sheets.SheetName)
	} else {
		appender = memory.New()
		slog.Warn("no spreadsheet configured, events are consumed but discarded")
	}

	events, err := event.NewClient(cfg.AMQP.URL, cfg.AMQP.Exchange, cfg.AMQP.Queue)
	if err != nil {
		slog.Error("failed to connect to amqp", "error", err)
		os.Exit(1)
	}
	defer events.Close()

	syncWorker := worker.NewSyncWorker(appender)

	err = events.Consume(ctx, func(e ledger.Event) error {
		return syncWorker.HandleEvent(ctx, e)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("consumer failed", "error", err)
		os.Exit(1)
	}

	slog.Info("worker stopped")
}
