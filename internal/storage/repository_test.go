package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"despesas/internal/core"
	ports "despesas/internal/sheets"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "data", "despesas.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	repo.now = func() time.Time { return time.Date(2025, 5, 3, 9, 30, 0, 0, time.UTC) }
	return repo
}

func expense(item, amount string, cat core.Category) core.Expense {
	return core.Expense{
		Date:     core.NewDate(2025, 5, 3),
		Item:     item,
		Amount:   decimal.RequireFromString(amount),
		Category: cat,
	}
}

func TestRepository_AppendAndReadAll(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	ref, err := repo.Append(ctx, expense("Renda", "650", core.Casa))
	require.NoError(t, err)
	assert.Equal(t, "1", ref)

	e := expense("Café", "2.5", core.AlimentacaoFora)
	e.Description = "manhã"
	ref, err = repo.Append(ctx, e)
	require.NoError(t, err)
	assert.Equal(t, "2", ref)

	rows, err := repo.ReadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []ports.Row{
		{Date: "2025-05-03", Item: "Renda", Amount: "650.00", Category: "Casa"},
		{Date: "2025-05-03", Item: "Café", Amount: "2.50", Category: "Alimentação fora de casa", Description: "manhã"},
	}, rows)
}

func TestRepository_RejectsInvalidExpense(t *testing.T) {
	repo := newTestRepo(t)
	_, err := repo.Append(context.Background(), core.Expense{Date: core.NewDate(2025, 5, 3), Category: core.Casa})
	assert.ErrorIs(t, err, core.ErrEmptyItem)
}

func TestRepository_GetExpense(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	want := expense("Gasolina", "60.5", core.Carro)
	id, err := repo.Create(ctx, want)
	require.NoError(t, err)

	got, err := repo.GetExpense(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, want.Date, got.Date)
	assert.Equal(t, want.Item, got.Item)
	assert.True(t, want.Amount.Equal(got.Amount))
	assert.Equal(t, want.Category, got.Category)

	_, err = repo.GetExpense(ctx, 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_MirrorLifecycle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	var ids []int64
	for _, item := range []string{"Luz", "Água", "Internet"} {
		id, err := repo.Create(ctx, expense(item, "10", core.Casa))
		require.NoError(t, err)
		ids = append(ids, id)
	}

	pending, err := repo.PendingMirror(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 3)
	assert.Equal(t, ids[0], pending[0].ID)
	assert.Equal(t, time.Date(2025, 5, 3, 9, 30, 0, 0, time.UTC), pending[0].CreatedAt)

	limited, err := repo.PendingMirror(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	require.NoError(t, repo.MarkMirrored(ctx, ids[0]))
	require.NoError(t, repo.MarkMirrorFailed(ctx, ids[1]))

	pending, err = repo.PendingMirror(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, ids[2], pending[0].ID)

	// A mirrored row is not downgraded to failed.
	require.NoError(t, repo.MarkMirrorFailed(ctx, ids[0]))
	row, err := repo.queries.GetExpense(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, MirrorDone, row.MirrorStatus)
	assert.True(t, row.MirroredAt.Valid)

	status, err := repo.MirrorStatus(ctx, ids[1])
	require.NoError(t, err)
	assert.Equal(t, MirrorFailed, status)
	_, err = repo.MirrorStatus(ctx, 99)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, repo.MarkMirrored(ctx, 99), ErrNotFound)
}

func TestRepository_PendingMirrorBadCreatedAt(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id, err := repo.Create(ctx, expense("Luz", "40", core.Casa))
	require.NoError(t, err)
	_, err = repo.db.ExecContext(ctx, `UPDATE expenses SET created_at = 'ontem' WHERE id = ?`, id)
	require.NoError(t, err)

	pending, err := repo.PendingMirror(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, id, pending[0].ID)
	assert.True(t, pending[0].CreatedAt.IsZero())
}

func TestRepository_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "despesas.db")
	ctx := context.Background()

	repo, err := NewSQLiteRepository(path)
	require.NoError(t, err)
	_, err = repo.Append(ctx, expense("Renda", "650", core.Casa))
	require.NoError(t, err)
	require.NoError(t, repo.Close())

	repo, err = NewSQLiteRepository(path)
	require.NoError(t, err)
	defer repo.Close()

	rows, err := repo.ReadAll(ctx)
	require.NoError(t, err)
	records, err := ports.DecodeRows(rows)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, core.Casa, records[0].Category)
}
