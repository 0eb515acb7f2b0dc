package backend

import (
	"context"
	"fmt"

	"pokerboard/internal/amqp"
	"pokerboard/internal/log"
	"pokerboard/internal/services"
	"pokerboard/internal/sheets"
	gsheet "pokerboard/internal/sheets/google"
	"pokerboard/internal/sheets/memory"
	"pokerboard/internal/sheets/xlsx"
	"pokerboard/internal/splitwise"
	"pokerboard/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) Factory {
	return &DefaultFactory{
		logger: log.OrNop(logger).WithComponent(log.ComponentApp),
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid backend config: %w", err)
	}

	writers, err := f.createWriters(ctx, config)
	if err != nil {
		return nil, err
	}

	deps := services.Deps{
		Writers: writers,
		Logger:  f.logger,
	}

	if !config.Offline {
		client, err := splitwise.NewClient(splitwise.ClientConfig{
			BaseURL:  config.SplitwiseBaseURL,
			Token:    config.SplitwiseAPIKey,
			PageSize: config.SplitwisePageSize,
			Timeout:  config.SplitwiseTimeout,
			Logger:   f.logger,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Splitwise client: %w", err)
		}
		deps.Source = client
	}

	var repo *storage.SQLiteRepository
	if config.SQLiteDBPath != "" {
		repo, err = storage.NewSQLiteRepository(config.SQLiteDBPath, f.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		deps.Cache = repo
		deps.Recorder = repo
		f.logger.Info("Initialized SQLite cache", log.FieldPath, config.SQLiteDBPath)
	}

	// Initialize AMQP client (optional)
	if config.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(ctx, amqp.Config{
			URL:      config.AMQPURL,
			Exchange: config.AMQPExchange,
			Queue:    config.AMQPQueue,
			Logger:   f.logger,
		})
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without notifications", log.FieldError, err)
		} else {
			deps.Notifier = amqpClient
			f.logger.Info("Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
		}
	}

	svc := services.NewLeaderboardService(deps)
	return &BackendResult{
		Service:    svc,
		Repository: repo,
		Cleanup:    svc.Close,
	}, nil
}

func (f *DefaultFactory) createWriters(ctx context.Context, config Config) ([]sheets.ReportWriter, error) {
	writers := make([]sheets.ReportWriter, 0, len(config.Targets))
	seen := map[ExportTarget]bool{}
	for _, target := range config.Targets {
		if seen[target] {
			continue
		}
		seen[target] = true

		switch target {
		case XLSXTarget:
			writers = append(writers, xlsx.New(config.OutputDir, f.logger))
		case SheetsTarget:
			client, err := gsheet.New(ctx, gsheet.Config{
				SpreadsheetID:   config.GoogleSpreadsheetID,
				CredentialsJSON: config.GoogleServiceAccountJSON,
				CredentialsFile: config.GoogleServiceAccountFile,
				Logger:          f.logger,
			})
			if err != nil {
				return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
			}
			writers = append(writers, client)
		case MemoryTarget:
			writers = append(writers, memory.New())
		default:
			return nil, fmt.Errorf("unsupported export target: %s", target)
		}
		f.logger.Info("Initialized report writer", "target", target.String())
	}
	if len(writers) == 0 {
		return nil, sheets.ErrNoSheetsConfigured
	}
	return writers, nil
}
