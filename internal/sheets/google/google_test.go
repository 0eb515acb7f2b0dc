package google

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"pokerboard/internal/core"
)

func TestNew_MissingSpreadsheetID(t *testing.T) {
	_, err := New(context.Background(), Config{CredentialsJSON: "{}"})
	if err == nil || err.Error() != "missing GOOGLE_SPREADSHEET_ID" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNew_MissingCredentials(t *testing.T) {
	_, err := New(context.Background(), Config{SpreadsheetID: "sheet-id"})
	if err == nil || !strings.Contains(err.Error(), "missing service account credentials") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNew_UnreadableCredentialsFile(t *testing.T) {
	_, err := New(context.Background(), Config{SpreadsheetID: "sheet-id", CredentialsFile: "/non/existent.json"})
	if err == nil || !strings.Contains(err.Error(), "read service account file") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestYearPrefixedName(t *testing.T) {
	tests := []struct {
		baseName string
		year     int
		expected string
	}{
		{"Yearly Leaderboard", 2025, "2025 Yearly Leaderboard"},
		{"Info", 2024, "2024 Info"},
		{"", 2023, ""},
		{"  Raw Rows ", 2022, "2022 Raw Rows"},
		{"2025 Already Prefixed", 2024, "2025 Already Prefixed"},
	}

	for _, tt := range tests {
		got := yearPrefixedName(tt.baseName, tt.year)
		if got != tt.expected {
			t.Errorf("yearPrefixedName(%q, %d) = %q, want %q",
				tt.baseName, tt.year, got, tt.expected)
		}
	}
}

func TestQuoteSheetName(t *testing.T) {
	if got := quoteSheetName("2025 Weekly Totals"); got != "'2025 Weekly Totals'" {
		t.Errorf("quoteSheetName() = %q", got)
	}
	if got := quoteSheetName("Bob's"); got != "'Bob''s'" {
		t.Errorf("quoteSheetName() = %q", got)
	}
}

func TestMissingSheets(t *testing.T) {
	existing := []string{"2025 Info", "2025 yearly leaderboard", "Notes"}
	wanted := []string{"2025 Info", "2025 Yearly Leaderboard", "2025 Raw Rows", "2025 Raw Rows"}

	got := missingSheets(existing, wanted)
	if want := []string{"2025 Raw Rows"}; !reflect.DeepEqual(got, want) {
		t.Errorf("missingSheets() = %v, want %v", got, want)
	}
}

// fakeSheets records the calls a WriteReport makes against the Sheets API.
type fakeSheets struct {
	mu        sync.Mutex
	existing  []string
	added     []string
	cleared   []string
	written   map[string][][]any
	valueMode string
}

func (f *fakeSheets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	body, _ := io.ReadAll(r.Body)
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == http.MethodGet:
		var sheets []map[string]any
		for _, name := range f.existing {
			sheets = append(sheets, map[string]any{"properties": map[string]any{"title": name}})
		}
		json.NewEncoder(w).Encode(map[string]any{"sheets": sheets})
	case strings.HasSuffix(r.URL.Path, "/values:batchClear"):
		var req gsheet.BatchClearValuesRequest
		json.Unmarshal(body, &req)
		f.cleared = append(f.cleared, req.Ranges...)
		w.Write([]byte(`{}`))
	case strings.HasSuffix(r.URL.Path, "/values:batchUpdate"):
		var req gsheet.BatchUpdateValuesRequest
		json.Unmarshal(body, &req)
		f.valueMode = req.ValueInputOption
		for _, vr := range req.Data {
			vals := make([][]any, len(vr.Values))
			for i, row := range vr.Values {
				vals[i] = append([]any(nil), row...)
			}
			f.written[vr.Range] = vals
		}
		w.Write([]byte(`{}`))
	case strings.HasSuffix(r.URL.Path, ":batchUpdate"):
		var req gsheet.BatchUpdateSpreadsheetRequest
		json.Unmarshal(body, &req)
		for _, rq := range req.Requests {
			if rq.AddSheet != nil {
				f.added = append(f.added, rq.AddSheet.Properties.Title)
			}
		}
		w.Write([]byte(`{}`))
	default:
		http.NotFound(w, r)
	}
}

func TestClient_WriteReport(t *testing.T) {
	fake := &fakeSheets{
		existing: []string{"2025 Info", "2025 Yearly Leaderboard"},
		written:  map[string][][]any{},
	}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	svc, err := gsheet.NewService(context.Background(),
		goption.WithEndpoint(srv.URL+"/"),
		goption.WithHTTPClient(srv.Client()),
	)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	client := NewWithService(svc, "sheet-id", nil)

	week := core.NewDate(2025, time.March, 10).Week()
	report := core.Report{
		Year:        2025,
		GeneratedAt: time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
		Tables: core.Tables{
			Yearly:        []core.YearlyRow{{Rank: 1, Player: "A", Total: decimal.RequireFromString("75")}},
			WeeklyWinners: []core.WeeklyWinnerRow{{Week: week, Winner: "A", TopWinnings: decimal.RequireFromString("75")}},
		},
	}

	ref, err := client.WriteReport(context.Background(), report)
	if err != nil {
		t.Fatalf("WriteReport() error = %v", err)
	}
	if ref != "https://docs.google.com/spreadsheets/d/sheet-id" {
		t.Errorf("WriteReport() ref = %q", ref)
	}

	wantAdded := []string{"2025 Weekly Winners", "2025 Weekly Totals", "2025 Raw Rows"}
	if !reflect.DeepEqual(fake.added, wantAdded) {
		t.Errorf("added sheets = %v, want %v", fake.added, wantAdded)
	}
	if len(fake.cleared) != 5 {
		t.Errorf("cleared %d ranges, want 5: %v", len(fake.cleared), fake.cleared)
	}
	if fake.valueMode != "RAW" {
		t.Errorf("value input option = %q, want RAW", fake.valueMode)
	}

	yearly := fake.written["'2025 Yearly Leaderboard'!A1"]
	if len(yearly) != 2 {
		t.Fatalf("yearly values = %v", yearly)
	}
	if yearly[0][0] != "rank" || yearly[1][1] != "A" || yearly[1][2] != 75.0 {
		t.Errorf("yearly values = %v", yearly)
	}
	winners := fake.written["'2025 Weekly Winners'!A1"]
	if len(winners) != 2 || winners[1][0] != "Mar W2" {
		t.Errorf("weekly winners values = %v", winners)
	}
}

func TestClient_WriteReport_NoService(t *testing.T) {
	c := &Client{spreadsheetID: "test"}
	if _, err := c.WriteReport(context.Background(), core.Report{Year: 2025}); err == nil {
		t.Fatal("expected error when service is not initialized")
	}
}
