// Package leaderboard turns raw ledger expenses into poker winnings tables.
//
// The pipeline is filter -> date and year check -> extract -> bucket ->
// aggregate. Every step is a pure in-memory transform.
package leaderboard

import (
	"strings"

	"pokerboard/internal/core"
)

// Filter drops expenses that must never count towards winnings.
type Filter struct {
	keywords []string
}

// NewFilter builds a filter from case-insensitive substring keywords.
// Blank keywords are ignored: they would match every description.
func NewFilter(keywords []string) Filter {
	folded := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		folded = append(folded, kw)
	}
	return Filter{keywords: folded}
}

// Keywords returns the normalized keyword list.
func (f Filter) Keywords() []string {
	return append([]string(nil), f.keywords...)
}

// ShouldExclude reports whether the description contains any keyword or the
// ledger flagged the expense as a payment.
func (f Filter) ShouldExclude(e core.Expense) bool {
	desc := strings.ToLower(strings.TrimSpace(e.DescriptionText()))
	for _, kw := range f.keywords {
		if strings.Contains(desc, kw) {
			return true
		}
	}
	return e.IsPayment()
}
