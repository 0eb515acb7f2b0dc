//go:build integration

package google

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"pokerboard/internal/core"
)

// Integration tests require real Google Sheets credentials
// Run with: go test -tags=integration ./internal/sheets/google

func TestIntegration_WriteReport(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	spreadsheetID := os.Getenv("GOOGLE_SPREADSHEET_ID")
	if spreadsheetID == "" {
		t.Skip("GOOGLE_SPREADSHEET_ID not set, skipping integration test")
	}
	credsJSON := os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON")
	credsFile := os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE")
	if credsJSON == "" && credsFile == "" {
		t.Skip("service account credentials not configured, skipping integration test")
	}

	ctx := context.Background()
	client, err := New(ctx, Config{
		SpreadsheetID:   spreadsheetID,
		CredentialsJSON: credsJSON,
		CredentialsFile: credsFile,
	})
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	// A far-future year keeps test tabs away from real leaderboards.
	report := core.Report{
		Year:        2099,
		GeneratedAt: time.Now(),
		Tables: core.Tables{
			Yearly: []core.YearlyRow{{Rank: 1, Player: "Integration", Total: decimal.RequireFromString("1")}},
		},
	}

	ref, err := client.WriteReport(ctx, report)
	if err != nil {
		t.Fatalf("WriteReport() error = %v", err)
	}
	if !strings.Contains(ref, spreadsheetID) {
		t.Errorf("ref %q does not point at spreadsheet %s", ref, spreadsheetID)
	}

	// Writing twice must replace, not append.
	if _, err := client.WriteReport(ctx, report); err != nil {
		t.Fatalf("second WriteReport() error = %v", err)
	}
}
