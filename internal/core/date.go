package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

type (
	// Date is a calendar date with no time zone.
	Date struct {
		Year  int
		Month time.Month
		Day   int
	}

	// WeekBucket is a day-of-month window: days 1-7 are week 1, 8-14 week 2,
	// and so on up to week 5. It is not aligned to real week boundaries.
	WeekBucket struct {
		Year  int
		Month time.Month
		Week  int
	}
)

// dateLayouts are tried in order before falling back to dateparse.
var dateLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// NewDate creates a Date from year, month, day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// ParseDate parses a ledger timestamp and keeps its wall-clock calendar date.
// Any offset carried by the string is discarded, not converted: the date is
// the one printed in the string.
func ParseDate(raw string) (Date, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return Date{}, ErrEmptyDate
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return dateOf(t), nil
		}
	}
	t, err := dateparse.ParseIn(value, time.UTC)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrUnparseableDate, raw)
	}
	return dateOf(t), nil
}

func dateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// IsZero reports whether the date was never set.
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// Time returns midnight UTC of the date.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Week returns the week-of-month bucket: ((day-1)/7)+1.
func (d Date) Week() WeekBucket {
	return WeekBucket{Year: d.Year, Month: d.Month, Week: (d.Day-1)/7 + 1}
}

// Label formats the bucket as "<Mon> W<n>", e.g. "Mar W2".
func (w WeekBucket) Label() string {
	return fmt.Sprintf("%s W%d", w.Month.String()[:3], w.Week)
}

// Before orders buckets chronologically by year, month, then week.
func (w WeekBucket) Before(o WeekBucket) bool {
	if w.Year != o.Year {
		return w.Year < o.Year
	}
	if w.Month != o.Month {
		return w.Month < o.Month
	}
	return w.Week < o.Week
}
