package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"despesas/internal/core"
	ports "despesas/internal/sheets"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when no expense has the requested id.
var ErrNotFound = errors.New("expense not found")

var _ ports.Store = (*SQLiteRepository)(nil)

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
	now     func() time.Time
}

// PendingExpense is the minimal data needed to re-announce an unmirrored row.
type PendingExpense struct {
	ID        int64
	CreatedAt time.Time
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
		now:     time.Now,
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Create inserts the expense as pending mirror and returns its id.
func (r *SQLiteRepository) Create(ctx context.Context, e core.Expense) (int64, error) {
	if err := e.Validate(); err != nil {
		return 0, fmt.Errorf("validation failed: %w", err)
	}
	row := ports.EncodeRow(e)
	expense, err := r.queries.CreateExpense(ctx, CreateExpenseParams{
		Date:        row.Date,
		Item:        row.Item,
		Amount:      row.Amount,
		Category:    row.Category,
		Description: row.Description,
		CreatedAt:   r.now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return 0, fmt.Errorf("create expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved to SQLite",
		"id", expense.ID,
		"item", expense.Item,
		"amount", expense.Amount,
		"category", expense.Category,
		"date", expense.Date)

	return expense.ID, nil
}

// Append implements sheets.RecordWriter
func (r *SQLiteRepository) Append(ctx context.Context, e core.Expense) (string, error) {
	id, err := r.Create(ctx, e)
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(id, 10), nil
}

// ReadAll implements sheets.RecordReader
func (r *SQLiteRepository) ReadAll(ctx context.Context) ([]ports.Row, error) {
	expenses, err := r.queries.ListExpenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	rows := make([]ports.Row, len(expenses))
	for i, e := range expenses {
		rows[i] = e.Row()
	}
	return rows, nil
}

// GetExpense loads and decodes a single expense by id.
func (r *SQLiteRepository) GetExpense(ctx context.Context, id int64) (core.Expense, error) {
	e, err := r.queries.GetExpense(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, fmt.Errorf("get expense %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense by id: %w", err)
	}
	return ports.DecodeRow(e.Row())
}

// PendingMirror returns up to limit rows not yet copied to the spreadsheet, oldest first.
func (r *SQLiteRepository) PendingMirror(ctx context.Context, limit int) ([]PendingExpense, error) {
	dbExpenses, err := r.queries.GetPendingMirror(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("get pending mirror expenses: %w", err)
	}

	out := make([]PendingExpense, len(dbExpenses))
	for i, e := range dbExpenses {
		created, err := time.Parse(time.RFC3339, e.CreatedAt)
		if err != nil {
			// The row is still mirrored; only its age is unknown.
			slog.WarnContext(ctx, "Invalid expense creation time", "id", e.ID, "created_at", e.CreatedAt, "error", err)
		}
		out[i] = PendingExpense{ID: e.ID, CreatedAt: created}
	}
	return out, nil
}

// MarkMirrored records that the expense reached the spreadsheet.
func (r *SQLiteRepository) MarkMirrored(ctx context.Context, id int64) error {
	n, err := r.queries.MarkExpenseMirrored(ctx, r.now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("mark expense mirrored: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("mark expense %d mirrored: %w", id, ErrNotFound)
	}

	slog.InfoContext(ctx, "Expense marked as mirrored", "id", id)
	return nil
}

// MarkMirrorFailed flags the expense so the startup sweep skips it.
// A row already mirrored keeps its status.
func (r *SQLiteRepository) MarkMirrorFailed(ctx context.Context, id int64) error {
	if _, err := r.queries.MarkExpenseMirrorFailed(ctx, id); err != nil {
		return fmt.Errorf("mark expense mirror failed: %w", err)
	}

	slog.WarnContext(ctx, "Expense marked with mirror error", "id", id)
	return nil
}

// Row converts a table row into the store-neutral text form.
func (e Expense) Row() ports.Row {
	return ports.Row{
		Date:        e.Date,
		Item:        e.Item,
		Amount:      e.Amount,
		Category:    e.Category,
		Description: e.Description,
	}
}

// MirrorStatus reports the mirror state of one expense.
func (r *SQLiteRepository) MirrorStatus(ctx context.Context, id int64) (MirrorStatus, error) {
	e, err := r.queries.GetExpense(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("get expense %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("get expense by id: %w", err)
	}
	return e.MirrorStatus, nil
}
