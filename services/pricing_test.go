package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestQuote(t *testing.T) {
	tests := []struct {
		name       string
		start, end time.Time
		rate       string
		travellers int
		wantDays   int
		wantTotal  string
		wantDep    string
	}{
		{
			name:  "five day stay two travellers",
			start: date(2024, 6, 1), end: date(2024, 6, 5),
			rate: "100", travellers: 2,
			wantDays: 5, wantTotal: "1000", wantDep: "200",
		},
		{
			name:  "single day",
			start: date(2024, 6, 1), end: date(2024, 6, 1),
			rate: "50", travellers: 1,
			wantDays: 1, wantTotal: "50", wantDep: "10",
		},
		{
			name:  "reversed range normalized via absolute difference",
			start: date(2024, 6, 5), end: date(2024, 6, 1),
			rate: "100", travellers: 2,
			wantDays: 5, wantTotal: "1000", wantDep: "200",
		},
		{
			name:  "partial day rounds up",
			start: date(2024, 6, 1), end: time.Date(2024, 6, 2, 12, 0, 0, 0, time.UTC),
			rate: "100", travellers: 1,
			wantDays: 3, wantTotal: "300", wantDep: "60",
		},
		{
			name:  "zero rate",
			start: date(2024, 6, 1), end: date(2024, 6, 10),
			rate: "0", travellers: 3,
			wantDays: 10, wantTotal: "0", wantDep: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rate, _ := decimal.NewFromString(tt.rate)
			got := Quote(tt.start, tt.end, rate, tt.travellers)
			if got.DurationDays != tt.wantDays {
				t.Fatalf("duration: want %d, got %d", tt.wantDays, got.DurationDays)
			}
			if !got.TotalOwed.Equal(decimal.RequireFromString(tt.wantTotal)) {
				t.Fatalf("total: want %s, got %s", tt.wantTotal, got.TotalOwed)
			}
			if !got.DepositAmount.Equal(decimal.RequireFromString(tt.wantDep)) {
				t.Fatalf("deposit: want %s, got %s", tt.wantDep, got.DepositAmount)
			}
		})
	}
}

func TestBalanceDue(t *testing.T) {
	total := decimal.RequireFromString("1000")
	paid := decimal.RequireFromString("200")
	if got := BalanceDue(total, paid); !got.Equal(decimal.RequireFromString("800")) {
		t.Fatalf("expected balance 800, got %s", got)
	}
	if got := BalanceDue(total, total); !got.IsZero() {
		t.Fatalf("expected zero balance, got %s", got)
	}
}
