package core

import (
	"errors"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	cases := []struct {
		in   string
		want Date
	}{
		{"2025-03-10T18:00:00Z", NewDate(2025, time.March, 10)},
		{"2025-03-10T23:30:00-05:00", NewDate(2025, time.March, 10)},
		{"2025-03-10T00:30:00+09:00", NewDate(2025, time.March, 10)},
		{"2025-03-10T18:00:00.123Z", NewDate(2025, time.March, 10)},
		{"2025-03-10 18:00:00", NewDate(2025, time.March, 10)},
		{"2025-03-10", NewDate(2025, time.March, 10)},
		{" 2025-12-31T23:59:59Z ", NewDate(2025, time.December, 31)},
		{"March 10, 2025", NewDate(2025, time.March, 10)},
	}
	for _, tc := range cases {
		got, err := ParseDate(tc.in)
		if err != nil {
			t.Fatalf("%q: unexpected error %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("%q: got %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestParseDateErrors(t *testing.T) {
	if _, err := ParseDate("   "); !errors.Is(err, ErrEmptyDate) {
		t.Fatalf("expected ErrEmptyDate, got %v", err)
	}
	if _, err := ParseDate("not a date"); !errors.Is(err, ErrUnparseableDate) {
		t.Fatalf("expected ErrUnparseableDate, got %v", err)
	}
}

func TestDateString(t *testing.T) {
	d := NewDate(2025, time.March, 9)
	if d.String() != "2025-03-09" {
		t.Fatalf("String() = %q", d.String())
	}
	if !d.Time().Equal(time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("Time() = %v", d.Time())
	}
	if d.IsZero() || !(Date{}).IsZero() {
		t.Fatalf("IsZero mismatch")
	}
}
