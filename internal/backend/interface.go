package backend

import (
	"context"
	"time"

	"pokerboard/internal/services"
	"pokerboard/internal/storage"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult contains the wired service and optional cleanup function
type BackendResult struct {
	Service *services.LeaderboardService
	// Repository is nil when no SQLite path is configured.
	Repository *storage.SQLiteRepository
	Cleanup    CleanupFunc
}

// Factory creates a leaderboard service based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Targets []ExportTarget
	Offline bool

	// Splitwise
	SplitwiseAPIKey   string
	SplitwiseBaseURL  string
	SplitwisePageSize int
	SplitwiseTimeout  time.Duration

	// XLSX
	OutputDir string

	// Google Sheets
	GoogleSpreadsheetID      string
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string

	// SQLite cache and run history
	SQLiteDBPath string

	// AMQP (optional)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

// ExportTarget represents where a report is written
type ExportTarget string

const (
	XLSXTarget   ExportTarget = "xlsx"
	SheetsTarget ExportTarget = "sheets"
	MemoryTarget ExportTarget = "memory"
)

// String implements fmt.Stringer
func (t ExportTarget) String() string {
	return string(t)
}

// IsValid returns true if the export target is valid
func (t ExportTarget) IsValid() bool {
	switch t {
	case XLSXTarget, SheetsTarget, MemoryTarget:
		return true
	default:
		return false
	}
}
