package sheets

import (
	"context"
	"errors"

	"pokerboard/internal/core"
)

var ErrNoSheetsConfigured = errors.New("no report writers configured")

// Ports for outbound adapters.
type (
	// ReportWriter renders one leaderboard report and returns where it went
	// (a file path, a spreadsheet URL, a synthetic reference).
	ReportWriter interface {
		WriteReport(ctx context.Context, report core.Report) (ref string, err error)
	}
)
