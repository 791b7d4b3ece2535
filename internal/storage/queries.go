package storage

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

// MirrorStatus tracks whether a row has been copied to the spreadsheet.
type MirrorStatus string

const (
	MirrorPending MirrorStatus = "pending"
	MirrorDone    MirrorStatus = "mirrored"
	MirrorFailed  MirrorStatus = "failed"
)

// Expense is one row of the expenses table.
type Expense struct {
	ID           int64
	Date         string
	Item         string
	Amount       string
	Category     string
	Description  string
	CreatedAt    string
	MirrorStatus MirrorStatus
	MirroredAt   sql.NullString
}

const expenseColumns = `id, date, item, amount, category, description, created_at, mirror_status, mirrored_at`

func scanExpense(sc interface{ Scan(...any) error }) (Expense, error) {
	var i Expense
	err := sc.Scan(
		&i.ID,
		&i.Date,
		&i.Item,
		&i.Amount,
		&i.Category,
		&i.Description,
		&i.CreatedAt,
		&i.MirrorStatus,
		&i.MirroredAt,
	)
	return i, err
}

const createExpense = `INSERT INTO expenses (date, item, amount, category, description, created_at)
VALUES (?, ?, ?, ?, ?, ?)
RETURNING ` + expenseColumns

type CreateExpenseParams struct {
	Date        string
	Item        string
	Amount      string
	Category    string
	Description string
	CreatedAt   string
}

func (q *Queries) CreateExpense(ctx context.Context, arg CreateExpenseParams) (Expense, error) {
	row := q.db.QueryRowContext(ctx, createExpense,
		arg.Date,
		arg.Item,
		arg.Amount,
		arg.Category,
		arg.Description,
		arg.CreatedAt,
	)
	return scanExpense(row)
}

const getExpense = `SELECT ` + expenseColumns + ` FROM expenses WHERE id = ?`

func (q *Queries) GetExpense(ctx context.Context, id int64) (Expense, error) {
	return scanExpense(q.db.QueryRowContext(ctx, getExpense, id))
}

const listExpenses = `SELECT ` + expenseColumns + ` FROM expenses ORDER BY id`

func (q *Queries) ListExpenses(ctx context.Context) ([]Expense, error) {
	return q.list(ctx, listExpenses)
}

const getPendingMirror = `SELECT ` + expenseColumns + ` FROM expenses
WHERE mirror_status = 'pending'
ORDER BY id
LIMIT ?`

func (q *Queries) GetPendingMirror(ctx context.Context, limit int64) ([]Expense, error) {
	return q.list(ctx, getPendingMirror, limit)
}

const markExpenseMirrored = `UPDATE expenses SET mirror_status = 'mirrored', mirrored_at = ? WHERE id = ?`

func (q *Queries) MarkExpenseMirrored(ctx context.Context, mirroredAt string, id int64) (int64, error) {
	return q.exec(ctx, markExpenseMirrored, mirroredAt, id)
}

const markExpenseMirrorFailed = `UPDATE expenses SET mirror_status = 'failed' WHERE id = ? AND mirror_status != 'mirrored'`

func (q *Queries) MarkExpenseMirrorFailed(ctx context.Context, id int64) (int64, error) {
	return q.exec(ctx, markExpenseMirrorFailed, id)
}

func (q *Queries) list(ctx context.Context, query string, args ...interface{}) ([]Expense, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Expense
	for rows.Next() {
		i, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (q *Queries) exec(ctx context.Context, query string, args ...interface{}) (int64, error) {
	res, err := q.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
