// Package worker mirrors committed ledger entries into the shared
// spreadsheet.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rmuratov/brofund/internal/ledger"
	"github.com/rmuratov/brofund/internal/report"
	"github.com/rmuratov/brofund/internal/sheets"
)

type SyncWorker struct {
	sheet sheets.RowAppender
}

func NewSyncWorker(sheet sheets.RowAppender) *SyncWorker {
	return &SyncWorker{sheet: sheet}
}

// HandleEvent appends one committed ledger entry to the spreadsheet. An
// error requeues the message, so appends must stay idempotent-enough: the
// reference id in the row identifies duplicates.
func (w *SyncWorker) HandleEvent(ctx context.Context, event ledger.Event) error {
	ref, err := w.sheet.Append(ctx, report.SheetRow(event))
	if err != nil {
		return fmt.Errorf("appending ledger row: %w", err)
	}

	slog.InfoContext(ctx, "synced ledger entry to sheet",
		"type", event.Type,
		"reference_id", event.ReferenceID,
		"sheet_ref", ref)

	return nil
}
