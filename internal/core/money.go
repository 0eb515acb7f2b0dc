// Package core provides the ledger and leaderboard domain types.
//
// This file contains share parsing. Ledger shares arrive as decimal strings
// ("25.0", "12,50", "") and are never trusted to be well formed.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseShare converts a textual share into a decimal.
//
// It accepts dot and comma decimal separators and an optional sign. Empty,
// missing or non-numeric values coerce to zero rather than failing, so a
// malformed participation contributes nothing instead of aborting a run.
//
// Examples:
//
//	ParseShare("25.0")  -> 25
//	ParseShare("12,50") -> 12.5
//	ParseShare("")      -> 0
//	ParseShare("abc")   -> 0
func ParseShare(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	if !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// FormatAmount renders an amount with two decimals for console output.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
