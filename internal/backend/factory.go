package backend

import (
	"context"
	"fmt"
	"path/filepath"

	"despesas/internal/adapters"
	"despesas/internal/amqp"
	applog "despesas/internal/log"
	gsheet "despesas/internal/sheets/google"
	"despesas/internal/sheets/memory"
	"despesas/internal/storage"
)

// SeedFile is the memory backend's seed file name inside DataDirectory.
const SeedFile = "expenses.txt"

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *applog.Logger
}

func NewFactory(logger *applog.Logger) Factory {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &DefaultFactory{logger: logger.WithComponent(applog.ComponentBackend)}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case SQLiteBackend:
		return f.createSQLiteBackend(ctx, config)
	case SheetsBackend:
		return f.createSheetsBackend(ctx, config)
	case MemoryBackend:
		return f.createMemoryBackend(ctx, config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createSQLiteBackend(ctx context.Context, config Config) (*BackendResult, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	// AMQP is optional: without it rows stay pending until the mirror sweep.
	var publisher adapters.Publisher
	var amqpClient *amqp.Client
	if config.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			f.logger.WarnContext(ctx, "Failed to initialize AMQP client, continuing without mirror events", applog.FieldError, err)
		} else {
			publisher = amqpClient
			f.logger.InfoContext(ctx, "Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
		}
	}

	f.logger.InfoContext(ctx, "Initialized SQLite backend",
		"db_path", config.SQLiteDBPath,
		"amqp_enabled", publisher != nil)

	return &BackendResult{
		Backend: adapters.NewSQLiteAdapter(repo, publisher),
		Cleanup: func() error {
			if amqpClient != nil {
				if err := amqpClient.Close(); err != nil {
					f.logger.Warn("Failed to close AMQP client", applog.FieldError, err)
				}
			}
			return repo.Close()
		},
	}, nil
}

func (f *DefaultFactory) createSheetsBackend(ctx context.Context, config Config) (*BackendResult, error) {
	cli, err := NewSheetsClient(ctx, config)
	if err != nil {
		return nil, err
	}

	f.logger.InfoContext(ctx, "Initialized Google Sheets backend", "sheet", cli.SheetName())
	return &BackendResult{Backend: cli}, nil
}

// NewSheetsClient opens the configured spreadsheet and makes sure it has a header row.
func NewSheetsClient(ctx context.Context, config Config) (*gsheet.Client, error) {
	cli, err := gsheet.New(ctx, gsheet.Options{
		SpreadsheetID:   config.GoogleSpreadsheetID,
		SpreadsheetName: config.GoogleSpreadsheetName,
		SheetName:       config.GoogleSheetName,
		CredentialsJSON: []byte(config.GoogleCredentialsJSON),
		CredentialsFile: config.GoogleCredentialsFile,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
	}
	if err := cli.EnsureHeader(ctx); err != nil {
		return nil, fmt.Errorf("failed to prepare spreadsheet header: %w", err)
	}
	return cli, nil
}

func (f *DefaultFactory) createMemoryBackend(ctx context.Context, config Config) (*BackendResult, error) {
	dataDir := config.DataDirectory
	if dataDir == "" {
		dataDir = DefaultDataDirectory
	}

	seed := filepath.Join(dataDir, SeedFile)
	store, err := memory.NewFromFile(seed)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize memory backend: %w", err)
	}

	f.logger.InfoContext(ctx, "Initialized memory backend", "seed_file", seed)
	return &BackendResult{Backend: store}, nil
}
