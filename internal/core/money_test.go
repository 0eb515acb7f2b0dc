package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseShare(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"25.0", "25"},
		{" 12.34 ", "12.34"},
		{"12,50", "12.5"},
		{"-3.10", "-3.1"},
		{"0", "0"},
		{"", "0"},
		{"abc", "0"},
		{"1.2.3", "0"},
	}
	for _, tc := range cases {
		want := decimal.RequireFromString(tc.want)
		if got := ParseShare(tc.in); !got.Equal(want) {
			t.Fatalf("%q: got %s, want %s", tc.in, got, want)
		}
	}
}

func TestFormatAmount(t *testing.T) {
	if got := FormatAmount(decimal.RequireFromString("-75")); got != "-75.00" {
		t.Fatalf("FormatAmount = %q", got)
	}
}
