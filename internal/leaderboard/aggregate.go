package leaderboard

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"pokerboard/internal/core"
)

type weekPlayer struct {
	week   core.WeekBucket
	player string
}

// Aggregate reduces bucketed rows into the yearly leaderboard, weekly winners
// and weekly totals. Ties keep first-appearance order in rows.
func Aggregate(rows []core.BucketedRow) core.Tables {
	tables := core.Tables{
		Yearly:        yearly(rows),
		WeeklyTotals:  weeklyTotals(rows),
		WeeklyWinners: []core.WeeklyWinnerRow{},
	}
	for _, r := range tables.WeeklyTotals {
		if r.WeekRank == 1 {
			tables.WeeklyWinners = append(tables.WeeklyWinners, core.WeeklyWinnerRow{
				Week:        r.Week,
				Winner:      r.Player,
				TopWinnings: r.Winnings,
			})
		}
	}
	mustBeRanked(tables)
	return tables
}

func yearly(rows []core.BucketedRow) []core.YearlyRow {
	totals := map[string]decimal.Decimal{}
	order := make([]string, 0)
	for _, r := range rows {
		if _, seen := totals[r.Player]; !seen {
			order = append(order, r.Player)
		}
		totals[r.Player] = totals[r.Player].Add(r.Net)
	}

	out := make([]core.YearlyRow, 0, len(order))
	for _, player := range order {
		// A player whose wins and losses cancel out has no standing.
		if totals[player].IsZero() {
			continue
		}
		out = append(out, core.YearlyRow{Player: player, Total: totals[player]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Total.GreaterThan(out[j].Total)
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

func weeklyTotals(rows []core.BucketedRow) []core.WeeklyTotalRow {
	sums := map[weekPlayer]decimal.Decimal{}
	byWeek := map[core.WeekBucket][]string{}
	weeks := make([]core.WeekBucket, 0)
	for _, r := range rows {
		key := weekPlayer{week: r.Week, player: r.Player}
		if _, seen := sums[key]; !seen {
			if _, known := byWeek[r.Week]; !known {
				weeks = append(weeks, r.Week)
			}
			byWeek[r.Week] = append(byWeek[r.Week], r.Player)
		}
		sums[key] = sums[key].Add(r.Net)
	}

	sort.SliceStable(weeks, func(i, j int) bool { return weeks[i].Before(weeks[j]) })

	out := make([]core.WeeklyTotalRow, 0, len(sums))
	for _, week := range weeks {
		players := byWeek[week]
		block := make([]core.WeeklyTotalRow, 0, len(players))
		for _, player := range players {
			block = append(block, core.WeeklyTotalRow{
				Week:     week,
				Player:   player,
				Winnings: sums[weekPlayer{week: week, player: player}],
			})
		}
		sort.SliceStable(block, func(i, j int) bool {
			return block[i].Winnings.GreaterThan(block[j].Winnings)
		})
		for i := range block {
			block[i].WeekRank = i + 1
		}
		out = append(out, block...)
	}
	return out
}

// mustBeRanked panics when rank invariants are broken; that is a bug here,
// never a data problem.
func mustBeRanked(t core.Tables) {
	for i, r := range t.Yearly {
		if r.Rank != i+1 {
			panic(fmt.Sprintf("leaderboard: yearly rank %d at position %d", r.Rank, i))
		}
		if i > 0 && r.Total.GreaterThan(t.Yearly[i-1].Total) {
			panic(fmt.Sprintf("leaderboard: yearly total increases at rank %d", r.Rank))
		}
	}
	expected := 1
	for i, r := range t.WeeklyTotals {
		if i > 0 && r.Week != t.WeeklyTotals[i-1].Week {
			expected = 1
		}
		if r.WeekRank != expected {
			panic(fmt.Sprintf("leaderboard: week %s rank %d, want %d", r.Week.Label(), r.WeekRank, expected))
		}
		expected++
	}
}
