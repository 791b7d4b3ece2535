package adapters

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"despesas/internal/core"
	"despesas/internal/storage"
)

type fakePublisher struct {
	ids []int64
	err error
}

func (p *fakePublisher) PublishExpenseRecorded(_ context.Context, id int64) error {
	p.ids = append(p.ids, id)
	return p.err
}

func newRepo(t *testing.T) *storage.SQLiteRepository {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "despesas.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func luz() core.Expense {
	return core.Expense{
		Date:     core.NewDate(2025, 5, 3),
		Item:     "Luz",
		Amount:   decimal.NewFromInt(40),
		Category: core.Casa,
	}
}

func TestSQLiteAdapter_AppendPublishes(t *testing.T) {
	repo := newRepo(t)
	pub := &fakePublisher{}
	a := NewSQLiteAdapter(repo, pub)

	ref, err := a.Append(context.Background(), luz())
	require.NoError(t, err)
	assert.Equal(t, "1", ref)
	assert.Equal(t, []int64{1}, pub.ids)

	rows, err := a.ReadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Luz", rows[0].Item)
}

func TestSQLiteAdapter_PublishFailureKeepsRow(t *testing.T) {
	repo := newRepo(t)
	a := NewSQLiteAdapter(repo, &fakePublisher{err: errors.New("broker down")})

	_, err := a.Append(context.Background(), luz())
	require.NoError(t, err)

	pending, err := repo.PendingMirror(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestSQLiteAdapter_InvalidExpenseNotPublished(t *testing.T) {
	pub := &fakePublisher{}
	a := NewSQLiteAdapter(newRepo(t), pub)

	e := luz()
	e.Item = " "
	_, err := a.Append(context.Background(), e)
	assert.ErrorIs(t, err, core.ErrEmptyItem)
	assert.Empty(t, pub.ids)
}

func TestSQLiteAdapter_NilPublisher(t *testing.T) {
	a := NewSQLiteAdapter(newRepo(t), nil)
	_, err := a.Append(context.Background(), luz())
	assert.NoError(t, err)
}
