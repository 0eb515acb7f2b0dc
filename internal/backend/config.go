package backend

import (
	"fmt"
	"strings"

	"pokerboard/internal/config"
)

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	var targets []ExportTarget
	for _, raw := range appConfig.ExportTargets {
		target := ExportTarget(strings.ToLower(strings.TrimSpace(raw)))
		if !target.IsValid() {
			return Config{}, fmt.Errorf("invalid export target in config: %s", raw)
		}
		targets = append(targets, target)
	}

	return Config{
		Targets: targets,
		Offline: appConfig.Offline,

		SplitwiseAPIKey:   appConfig.SplitwiseAPIKey,
		SplitwiseBaseURL:  appConfig.SplitwiseBaseURL,
		SplitwisePageSize: appConfig.SplitwisePageSize,
		SplitwiseTimeout:  appConfig.SplitwiseTimeout,

		OutputDir: appConfig.OutputDir,

		GoogleSpreadsheetID:      appConfig.GoogleSpreadsheetID,
		GoogleServiceAccountJSON: appConfig.GoogleServiceAccountJSON,
		GoogleServiceAccountFile: appConfig.GoogleServiceAccountFile,

		SQLiteDBPath: appConfig.SQLiteDBPath,

		AMQPURL:      appConfig.AMQPURL,
		AMQPExchange: appConfig.AMQPExchange,
		AMQPQueue:    appConfig.AMQPQueue,
	}, nil
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if len(c.Targets) == 0 {
		return fmt.Errorf("at least one export target is required")
	}
	for _, t := range c.Targets {
		switch t {
		case XLSXTarget:
			if c.OutputDir == "" {
				return fmt.Errorf("output directory is required for xlsx export")
			}
		case SheetsTarget:
			if c.GoogleSpreadsheetID == "" {
				return fmt.Errorf("Google Spreadsheet ID is required for sheets export")
			}
		case MemoryTarget:
		default:
			return fmt.Errorf("invalid export target: %s", t)
		}
	}
	if c.Offline && c.SQLiteDBPath == "" {
		return fmt.Errorf("SQLite database path is required for offline runs")
	}
	if !c.Offline && c.SplitwiseAPIKey == "" {
		return fmt.Errorf("Splitwise API key is required unless running offline")
	}
	return nil
}
