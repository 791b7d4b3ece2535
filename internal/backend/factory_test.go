package backend

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"despesas/internal/config"
	"despesas/internal/core"
	applog "despesas/internal/log"
)

func testFactory() Factory {
	return NewFactory(applog.New(applog.Config{Output: io.Discard}))
}

func TestFromAppConfig(t *testing.T) {
	cfg := &config.Config{
		DataBackend:           "sheets",
		GoogleSpreadsheetName: "Despesas",
		GoogleCredentialsFile: "/secrets/sa.json",
	}

	bc, err := FromAppConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, SheetsBackend, bc.Type)
	assert.Equal(t, "Despesas", bc.GoogleSpreadsheetName)
	assert.Equal(t, DefaultDataDirectory, bc.DataDirectory)
	assert.NoError(t, bc.Validate())

	_, err = FromAppConfig(&config.Config{DataBackend: "postgres"})
	assert.Error(t, err)

	_, err = FromAppConfig(nil)
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"memory", Config{Type: MemoryBackend}, false},
		{"sqlite", Config{Type: SQLiteBackend, SQLiteDBPath: "x.db"}, false},
		{"sqlite without path", Config{Type: SQLiteBackend}, true},
		{"sheets by id", Config{Type: SheetsBackend, GoogleSpreadsheetID: "abc", GoogleCredentialsJSON: "{}"}, false},
		{"sheets without spreadsheet", Config{Type: SheetsBackend, GoogleCredentialsJSON: "{}"}, true},
		{"sheets without credentials", Config{Type: SheetsBackend, GoogleSpreadsheetID: "abc"}, true},
		{"unknown", Config{Type: "csv"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCreateMemoryBackend(t *testing.T) {
	dir := t.TempDir()
	seed := "2025-05-01 | Pingo Doce | 40.00 | Supermercado |\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, SeedFile), []byte(seed), 0o600))

	res, err := testFactory().CreateBackend(context.Background(), Config{Type: MemoryBackend, DataDirectory: dir})
	require.NoError(t, err)
	defer res.Close()

	rows, err := res.Backend.ReadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Pingo Doce", rows[0].Item)
}

func TestCreateSQLiteBackendWithoutAMQP(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "despesas.db")

	res, err := testFactory().CreateBackend(ctx, Config{Type: SQLiteBackend, SQLiteDBPath: path})
	require.NoError(t, err)

	ref, err := res.Backend.Append(ctx, core.Expense{
		Date:     core.NewDate(2025, 5, 3),
		Item:     "Café",
		Amount:   decimal.RequireFromString("2.50"),
		Category: core.AlimentacaoFora,
	})
	require.NoError(t, err)
	assert.Equal(t, "1", ref)

	rows, err := res.Backend.ReadAll(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Café", rows[0].Item)

	assert.NoError(t, res.Close())
}

func TestCreateBackendRejectsInvalidConfig(t *testing.T) {
	_, err := testFactory().CreateBackend(context.Background(), Config{Type: SQLiteBackend})
	assert.Error(t, err)
}
