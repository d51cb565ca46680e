package worker_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmuratov/brofund/internal/ledger"
	"github.com/rmuratov/brofund/internal/sheets/memory"
	"github.com/rmuratov/brofund/internal/worker"
)

func TestSyncWorker_HandleEvent(t *testing.T) {
	appender := memory.New()
	w := worker.NewSyncWorker(appender)

	id := uuid.New()
	event := ledger.Event{
		Type:              ledger.EntryExpense,
		ReferenceID:       id,
		AmountCents:       -4500,
		BalanceAfterCents: 5500,
		CreatedAt:         time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
	}

	require.NoError(t, w.HandleEvent(context.Background(), event))

	rows := appender.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"2026-08-30 12:00:00", "expense", id.String(), "-45.00", "55.00"}, rows[0])
}
