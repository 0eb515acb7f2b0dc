package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// YearlyRow is one player's position on the yearly leaderboard.
type YearlyRow struct {
	Rank   int
	Player string
	Total  decimal.Decimal
}

// WeeklyTotalRow is one player's summed result in one week.
type WeeklyTotalRow struct {
	Week     WeekBucket
	WeekRank int // 1-based, unique within the week
	Player   string
	Winnings decimal.Decimal
}

// WeeklyWinnerRow is the rank-1 player of a week.
type WeeklyWinnerRow struct {
	Week        WeekBucket
	Winner      string
	TopWinnings decimal.Decimal
}

// Tables holds the three computed leaderboards.
type Tables struct {
	Yearly        []YearlyRow
	WeeklyWinners []WeeklyWinnerRow
	WeeklyTotals  []WeeklyTotalRow
}

// Report is everything an exporter needs to render one run.
type Report struct {
	Year             int
	GroupID          int64
	GeneratedAt      time.Time
	ExcludedKeywords []string
	Tables           Tables
	Raw              []BucketedRow
}

// Leader returns the rank-1 yearly row, if any.
func (t Tables) Leader() (YearlyRow, bool) {
	if len(t.Yearly) == 0 {
		return YearlyRow{}, false
	}
	return t.Yearly[0], true
}

// Empty reports whether no table carries any row.
func (t Tables) Empty() bool {
	return len(t.Yearly) == 0 && len(t.WeeklyWinners) == 0 && len(t.WeeklyTotals) == 0
}
