package receipt

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{500, "500"},
		{5000, "5.000"},
		{20000, "20.000"},
		{1250000, "1.250.000"},
	}
	for _, tc := range tests {
		if got := FormatAmount(decimal.NewFromInt(tc.in)); got != tc.want {
			t.Errorf("FormatAmount(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatAmountRoundsFractions(t *testing.T) {
	d, _ := decimal.NewFromString("19999.5")
	if got := FormatAmount(d); got != "20.000" {
		t.Errorf("FormatAmount(19999.5) = %q, want 20.000", got)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{42 * time.Second, "42s"},
		{59 * time.Second, "59s"},
		{time.Minute, "1m"},
		{12 * time.Minute, "12m"},
		{59*time.Minute + 59*time.Second, "59m"},
		{time.Hour, "1h00m"},
		{time.Hour + 5*time.Minute, "1h05m"},
		{3*time.Hour + 30*time.Minute, "3h30m"},
		{-time.Minute, "0s"},
	}
	for _, tc := range tests {
		if got := FormatDuration(tc.in); got != tc.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
