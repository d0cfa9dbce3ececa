package services

import (
	"testing"

	"volunteer-connect-server/models"

	"github.com/shopspring/decimal"
)

func record(amount, kind, outcome string) models.PaymentRecord {
	return models.PaymentRecord{
		Amount:  decimal.RequireFromString(amount),
		Kind:    kind,
		Outcome: outcome,
	}
}

func TestDeriveState(t *testing.T) {
	total := decimal.RequireFromString("1000")

	tests := []struct {
		name           string
		records        []models.PaymentRecord
		paidWithPoints bool
		want           PaymentState
	}{
		{
			name: "no records",
			want: PaymentStateNone,
		},
		{
			name: "pending record has no ledger effect",
			records: []models.PaymentRecord{
				record("200", models.PaymentKindDeposit, models.PaymentOutcomePending),
			},
			want: PaymentStateNone,
		},
		{
			name: "failed record has no ledger effect",
			records: []models.PaymentRecord{
				record("200", models.PaymentKindDeposit, models.PaymentOutcomeFailed),
			},
			want: PaymentStateNone,
		},
		{
			name: "succeeded deposit below total",
			records: []models.PaymentRecord{
				record("200", models.PaymentKindDeposit, models.PaymentOutcomeSucceeded),
			},
			want: PaymentStateDepositPaid,
		},
		{
			name: "sum reaches total exactly",
			records: []models.PaymentRecord{
				record("200", models.PaymentKindDeposit, models.PaymentOutcomeSucceeded),
				record("800", models.PaymentKindFull, models.PaymentOutcomeSucceeded),
			},
			want: PaymentStateFullyPaid,
		},
		{
			name: "refunds do not count toward the total",
			records: []models.PaymentRecord{
				record("1000", models.PaymentKindFull, models.PaymentOutcomeSucceeded),
				record("1000", models.PaymentKindRefund, models.PaymentOutcomeSucceeded),
			},
			want: PaymentStateFullyPaid,
		},
		{
			name:           "points alias fully paid without records",
			paidWithPoints: true,
			want:           PaymentStateFullyPaid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveState(tt.records, total, tt.paidWithPoints)
			if got != tt.want {
				t.Fatalf("want %s, got %s", tt.want, got)
			}
		})
	}

	t.Run("zero total is settled from the start", func(t *testing.T) {
		if got := DeriveState(nil, decimal.Zero, false); got != PaymentStateFullyPaid {
			t.Fatalf("want %s, got %s", PaymentStateFullyPaid, got)
		}
	})
}

func TestPaidSum(t *testing.T) {
	records := []models.PaymentRecord{
		record("200", models.PaymentKindDeposit, models.PaymentOutcomeSucceeded),
		record("300", models.PaymentKindFull, models.PaymentOutcomeSucceeded),
		record("500", models.PaymentKindFull, models.PaymentOutcomeFailed),
		record("100", models.PaymentKindRefund, models.PaymentOutcomeSucceeded),
	}
	got := PaidSum(records)
	if !got.Equal(decimal.RequireFromString("500")) {
		t.Fatalf("expected 500, got %s", got)
	}
}

func TestPaymentStateAtLeastDeposit(t *testing.T) {
	if PaymentStateNone.AtLeastDeposit() {
		t.Fatalf("none should not satisfy a deposit gate")
	}
	if !PaymentStateDepositPaid.AtLeastDeposit() {
		t.Fatalf("deposit_paid should satisfy a deposit gate")
	}
	if !PaymentStateFullyPaid.AtLeastDeposit() {
		t.Fatalf("fully_paid should satisfy a deposit gate")
	}
}
