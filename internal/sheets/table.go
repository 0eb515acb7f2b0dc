package sheets

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"pokerboard/internal/core"
)

// Sheet names shared by every writer.
const (
	InfoSheet          = "Info"
	YearlySheet        = "Yearly Leaderboard"
	WeeklyWinnersSheet = "Weekly Winners"
	WeeklyTotalsSheet  = "Weekly Totals"
	RawRowsSheet       = "Raw Rows"
)

// Table is a writer-neutral sheet: a header row and its data rows.
type Table struct {
	Name   string
	Header []string
	Rows   [][]any
}

// Tabulate lays a report out as the five sheets of a leaderboard workbook,
// in workbook order.
func Tabulate(report core.Report) []Table {
	info := Table{
		Name:   InfoSheet,
		Header: []string{"status", "generated_at", "excluded_keywords"},
		Rows: [][]any{{
			"ok",
			report.GeneratedAt.Format(time.RFC3339),
			strings.Join(report.ExcludedKeywords, ", "),
		}},
	}

	yearly := Table{Name: YearlySheet, Header: []string{"rank", "player", "winnings"}}
	for _, r := range report.Tables.Yearly {
		yearly.Rows = append(yearly.Rows, []any{r.Rank, r.Player, amount(r.Total)})
	}

	winners := Table{Name: WeeklyWinnersSheet, Header: []string{"week_label", "winner", "top_winnings"}}
	for _, r := range report.Tables.WeeklyWinners {
		winners.Rows = append(winners.Rows, []any{r.Week.Label(), r.Winner, amount(r.TopWinnings)})
	}

	totals := Table{Name: WeeklyTotalsSheet, Header: []string{"week_label", "week_rank", "player", "winnings"}}
	for _, r := range report.Tables.WeeklyTotals {
		totals.Rows = append(totals.Rows, []any{r.Week.Label(), r.WeekRank, r.Player, amount(r.Winnings)})
	}

	raw := Table{Name: RawRowsSheet, Header: []string{"date", "player", "winnings", "expense", "week_label"}}
	for _, r := range report.Raw {
		raw.Rows = append(raw.Rows, []any{r.Date.String(), r.Player, amount(r.Net), r.Description, r.Label()})
	}

	return []Table{info, yearly, winners, totals, raw}
}

// Values returns the header followed by the rows.
func (t Table) Values() [][]any {
	out := make([][]any, 0, len(t.Rows)+1)
	header := make([]any, len(t.Header))
	for i, h := range t.Header {
		header[i] = h
	}
	out = append(out, header)
	return append(out, t.Rows...)
}

// Spreadsheet cells are numeric; the decimal is only lossy past float64 precision.
func amount(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}
