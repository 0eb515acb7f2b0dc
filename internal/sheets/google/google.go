package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"pokerboard/internal/core"
	"pokerboard/internal/log"
	ports "pokerboard/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	logger        *log.Logger
}

// Ensure interface conformance
var _ ports.ReportWriter = (*Client)(nil)

// Config selects the spreadsheet and the service account used to write it.
// CredentialsJSON wins over CredentialsFile when both are set.
type Config struct {
	SpreadsheetID   string
	CredentialsJSON string
	CredentialsFile string
	Logger          *log.Logger
}

// New creates a Sheets client authenticated with a service account.
func New(ctx context.Context, cfg Config) (*Client, error) {
	spreadsheetID := strings.TrimSpace(cfg.SpreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.NewNop()
	}
	logger = logger.WithComponent(log.ComponentSheets)

	svc, err := newSheetsService(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return NewWithService(svc, spreadsheetID, logger), nil
}

// NewWithService wraps an existing service.
func NewWithService(svc *gsheet.Service, spreadsheetID string, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		logger:        logger.WithComponent(log.ComponentSheets),
	}
}

// newSheetsService initializes a Sheets Service using Service Account credentials.
func newSheetsService(ctx context.Context, cfg Config, logger *log.Logger) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(cfg.CredentialsJSON)
	serviceAccountFile := strings.TrimSpace(cfg.CredentialsFile)

	var credentialsJSON []byte
	var err error

	switch {
	case serviceAccountJSON != "":
		logger.DebugContext(ctx, "Using inline JSON credentials")
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		logger.DebugContext(ctx, "Reading credentials from file", log.FieldPath, serviceAccountFile)
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// WriteReport writes every leaderboard table to its own "<year> <table>" tab,
// creating missing tabs and replacing the content of existing ones.
func (c *Client) WriteReport(ctx context.Context, report core.Report) (string, error) {
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	tables := ports.Tabulate(report)
	names := make([]string, len(tables))
	for i, t := range tables {
		names[i] = yearPrefixedName(t.Name, report.Year)
	}

	if err := c.ensureSheets(ctx, names); err != nil {
		return "", err
	}

	ranges := make([]string, len(names))
	data := make([]*gsheet.ValueRange, len(tables))
	for i, t := range tables {
		ranges[i] = quoteSheetName(names[i])
		data[i] = &gsheet.ValueRange{
			Range:  quoteSheetName(names[i]) + "!A1",
			Values: t.Values(),
		}
	}

	_, err := c.svc.Spreadsheets.Values.BatchClear(c.spreadsheetID, &gsheet.BatchClearValuesRequest{
		Ranges: ranges,
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("clear leaderboard sheets: %w", err)
	}

	_, err = c.svc.Spreadsheets.Values.BatchUpdate(c.spreadsheetID, &gsheet.BatchUpdateValuesRequest{
		ValueInputOption: "RAW",
		Data:             data,
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("write leaderboard sheets: %w", err)
	}

	ref := spreadsheetURL(c.spreadsheetID)
	c.logger.InfoContext(ctx, "Leaderboard written to Google Sheets",
		log.FieldRef, ref,
		log.FieldYear, report.Year,
		log.FieldCount, len(tables),
	)
	return ref, nil
}

func (c *Client) ensureSheets(ctx context.Context, names []string) error {
	ss, err := c.svc.Spreadsheets.Get(c.spreadsheetID).
		Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read spreadsheet %s: %w", c.spreadsheetID, err)
	}

	existing := make([]string, 0, len(ss.Sheets))
	for _, s := range ss.Sheets {
		if s.Properties != nil {
			existing = append(existing, s.Properties.Title)
		}
	}

	missing := missingSheets(existing, names)
	if len(missing) == 0 {
		return nil
	}

	requests := make([]*gsheet.Request, 0, len(missing))
	for _, name := range missing {
		requests = append(requests, &gsheet.Request{
			AddSheet: &gsheet.AddSheetRequest{
				Properties: &gsheet.SheetProperties{Title: name},
			},
		})
	}
	_, err = c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: requests,
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("add sheets %v: %w", missing, err)
	}

	c.logger.InfoContext(ctx, "Created leaderboard sheets", log.FieldCount, len(missing))
	return nil
}

// yearPrefixedName returns "<year> <base>" unless base already starts with a 4-digit year.
func yearPrefixedName(base string, year int) string {
	base = strings.TrimSpace(base)
	if base == "" {
		return base
	}
	if len(base) >= 5 {
		if y, err := strconv.Atoi(base[0:4]); err == nil && base[4] == ' ' && y > 1900 && y < 3000 {
			return base
		}
	}
	return fmt.Sprintf("%d %s", year, base)
}

// quoteSheetName quotes a tab name for A1 notation.
func quoteSheetName(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

// missingSheets returns the wanted names not present in existing, compared
// case-insensitively the way Sheets treats tab titles.
func missingSheets(existing, wanted []string) []string {
	have := make(map[string]struct{}, len(existing))
	for _, name := range existing {
		have[strings.ToLower(strings.TrimSpace(name))] = struct{}{}
	}
	var out []string
	for _, name := range wanted {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, ok := have[key]; ok {
			continue
		}
		have[key] = struct{}{}
		out = append(out, name)
	}
	return out
}

func spreadsheetURL(id string) string {
	return "https://docs.google.com/spreadsheets/d/" + id
}
