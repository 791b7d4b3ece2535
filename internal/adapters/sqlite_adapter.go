package adapters

import (
	"context"
	"log/slog"
	"strconv"

	"despesas/internal/core"
	"despesas/internal/sheets"
	"despesas/internal/storage"
)

// Publisher announces a stored expense to the mirror worker.
type Publisher interface {
	PublishExpenseRecorded(ctx context.Context, expenseID int64) error
}

var _ sheets.Store = (*SQLiteAdapter)(nil)

// SQLiteAdapter stores expenses in SQLite and publishes an event for each
// append so the mirror worker can copy it to the spreadsheet.
type SQLiteAdapter struct {
	storage   *storage.SQLiteRepository
	publisher Publisher
}

func NewSQLiteAdapter(storage *storage.SQLiteRepository, publisher Publisher) *SQLiteAdapter {
	return &SQLiteAdapter{
		storage:   storage,
		publisher: publisher,
	}
}

// Append implements sheets.RecordWriter. The row stays pending when the
// event cannot be published; the mirror sweep picks it up later.
func (a *SQLiteAdapter) Append(ctx context.Context, e core.Expense) (string, error) {
	id, err := a.storage.Create(ctx, e)
	if err != nil {
		return "", err
	}

	if a.publisher != nil {
		if err := a.publisher.PublishExpenseRecorded(ctx, id); err != nil {
			slog.ErrorContext(ctx, "Failed to publish expense recorded message",
				"id", id,
				"error", err)
		}
	}

	return strconv.FormatInt(id, 10), nil
}

// ReadAll implements sheets.RecordReader
func (a *SQLiteAdapter) ReadAll(ctx context.Context) ([]sheets.Row, error) {
	return a.storage.ReadAll(ctx)
}
