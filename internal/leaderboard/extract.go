package leaderboard

import (
	"strings"

	"pokerboard/internal/core"
)

// Extract emits one row per participant whose paid and owed shares differ.
// The date is the expense date already parsed by the caller.
func Extract(e core.Expense, date core.Date) []core.WinningsRow {
	var rows []core.WinningsRow
	desc := e.DescriptionText()
	for _, p := range e.Participants {
		net := p.Net()
		if net.IsZero() {
			continue
		}
		rows = append(rows, core.WinningsRow{
			Date:        date,
			Player:      strings.TrimSpace(p.Player.DisplayName()),
			Net:         net,
			Description: desc,
		})
	}
	return rows
}

// Bucket attaches the week-of-month bucket to every row, preserving order.
func Bucket(rows []core.WinningsRow) []core.BucketedRow {
	out := make([]core.BucketedRow, len(rows))
	for i, r := range rows {
		out[i] = core.BucketedRow{WinningsRow: r, Week: r.Date.Week()}
	}
	return out
}
