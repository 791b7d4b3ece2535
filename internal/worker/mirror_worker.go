package worker

import (
	"context"
	"fmt"
	"log/slog"

	"despesas/internal/amqp"
	"despesas/internal/core"
	"despesas/internal/sheets"
	"despesas/internal/storage"
)

// Source is the local store the worker mirrors from.
type Source interface {
	GetExpense(ctx context.Context, id int64) (core.Expense, error)
	MirrorStatus(ctx context.Context, id int64) (storage.MirrorStatus, error)
	PendingMirror(ctx context.Context, limit int) ([]storage.PendingExpense, error)
	MarkMirrored(ctx context.Context, id int64) error
	MarkMirrorFailed(ctx context.Context, id int64) error
}

var _ Source = (*storage.SQLiteRepository)(nil)

// MirrorWorker copies locally recorded expenses to the spreadsheet.
type MirrorWorker struct {
	source    Source
	sheet     sheets.RecordWriter
	batchSize int
}

func NewMirrorWorker(source Source, sheet sheets.RecordWriter, batchSize int) *MirrorWorker {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &MirrorWorker{
		source:    source,
		sheet:     sheet,
		batchSize: batchSize,
	}
}

// HandleRecorded mirrors the expense named by one expense.recorded message.
// Rows already mirrored are skipped, so redelivery does not duplicate them.
func (w *MirrorWorker) HandleRecorded(ctx context.Context, msg *amqp.ExpenseRecordedMessage) error {
	status, err := w.source.MirrorStatus(ctx, msg.ExpenseID)
	if err != nil {
		return fmt.Errorf("get mirror status: %w", err)
	}
	if status == storage.MirrorDone {
		slog.InfoContext(ctx, "Expense already mirrored, skipping",
			"id", msg.ExpenseID,
			"event_id", msg.EventID)
		return nil
	}
	return w.mirror(ctx, msg.ExpenseID)
}

// StartupSweep mirrors rows still pending from before the worker started,
// which covers events lost while the broker or the worker was down.
func (w *MirrorWorker) StartupSweep(ctx context.Context) error {
	pending, err := w.source.PendingMirror(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending expenses for startup sweep: %w", err)
	}

	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending expenses found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending expenses on startup, processing...",
		"count", len(pending))

	successCount := 0
	errorCount := 0
	for _, p := range pending {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := w.mirror(ctx, p.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to mirror expense during startup",
				"id", p.ID, "error", err)
			errorCount++
			continue
		}
		successCount++
	}

	slog.InfoContext(ctx, "Startup sweep completed",
		"total", len(pending),
		"mirrored", successCount,
		"errors", errorCount)

	return nil
}

func (w *MirrorWorker) mirror(ctx context.Context, id int64) error {
	expense, err := w.source.GetExpense(ctx, id)
	if err != nil {
		w.markFailed(ctx, id)
		return fmt.Errorf("get expense from storage: %w", err)
	}

	ref, err := w.sheet.Append(ctx, expense)
	if err != nil {
		w.markFailed(ctx, id)
		return fmt.Errorf("append to sheets: %w", err)
	}

	if err := w.source.MarkMirrored(ctx, id); err != nil {
		// The row is in the sheet; only the local flag is stale.
		slog.ErrorContext(ctx, "Failed to mark as mirrored", "id", id, "error", err)
	}

	slog.InfoContext(ctx, "Successfully mirrored expense",
		"id", id,
		"sheets_ref", ref,
		"item", expense.Item,
		"amount", core.FormatAmount(expense.Amount),
		"category", expense.Category)

	return nil
}

func (w *MirrorWorker) markFailed(ctx context.Context, id int64) {
	if err := w.source.MarkMirrorFailed(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to mark mirror error", "id", id, "error", err)
	}
}
