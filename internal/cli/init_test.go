package cli

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"despesas/internal/config"
	applog "despesas/internal/log"
)

func TestSetupLogger(t *testing.T) {
	logger := SetupLogger("debug")
	assert.True(t, logger.Enabled(context.Background(), slog.LevelDebug))
	assert.Equal(t, applog.ComponentApp, logger.Component())
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("DATA_BACKEND", "sqlite")

	cfg, err := LoadConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.DataBackend)

	_, err = LoadConfig(func(*config.Config) error { return errors.New("bad") })
	assert.EqualError(t, err, "bad")
}

func TestInitSQLite(t *testing.T) {
	repo, err := InitSQLite(context.Background(), SetupLogger("error"), filepath.Join(t.TempDir(), "despesas.db"))
	require.NoError(t, err)
	assert.NoError(t, repo.Close())
}

func TestGracefulShutdownCancel(t *testing.T) {
	ctx, cancel := GracefulShutdown(context.Background(), SetupLogger("error"))
	cancel()
	<-ctx.Done()
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}
