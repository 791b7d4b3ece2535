package backend

import (
	"errors"
	"fmt"

	"despesas/internal/config"
)

// DefaultDataDirectory holds the memory backend's seed file.
const DefaultDataDirectory = "data"

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, errors.New("app config is nil")
	}

	backendType := BackendType(appConfig.DataBackend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.DataBackend)
	}

	return Config{
		Type: backendType,

		SQLiteDBPath: appConfig.SQLiteDBPath,
		AMQPURL:      appConfig.AMQPURL,
		AMQPExchange: appConfig.AMQPExchange,
		AMQPQueue:    appConfig.AMQPQueue,

		GoogleSpreadsheetID:   appConfig.GoogleSpreadsheetID,
		GoogleSpreadsheetName: appConfig.GoogleSpreadsheetName,
		GoogleSheetName:       appConfig.GoogleSheetName,
		GoogleCredentialsJSON: appConfig.GoogleCredentialsJSON,
		GoogleCredentialsFile: appConfig.GoogleCredentialsFile,

		DataDirectory: DefaultDataDirectory,
	}, nil
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}

	switch c.Type {
	case SQLiteBackend:
		if c.SQLiteDBPath == "" {
			return errors.New("SQLite database path is required for sqlite backend")
		}
		// AMQP is optional
	case SheetsBackend:
		if c.GoogleSpreadsheetID == "" && c.GoogleSpreadsheetName == "" {
			return errors.New("either a spreadsheet id or a spreadsheet name is required for sheets backend")
		}
		if c.GoogleCredentialsJSON == "" && c.GoogleCredentialsFile == "" {
			return errors.New("either GoogleCredentialsJSON or GoogleCredentialsFile must be provided for sheets backend")
		}
	}

	return nil
}

// GetBackendTypes returns all valid backend types
func GetBackendTypes() []BackendType {
	return []BackendType{SQLiteBackend, SheetsBackend, MemoryBackend}
}
