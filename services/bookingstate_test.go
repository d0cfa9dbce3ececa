package services

import (
	"errors"
	"testing"

	"volunteer-connect-server/models"
)

func TestCanTransition(t *testing.T) {
	legal := []struct{ from, to string }{
		{models.BookingStatusPending, models.BookingStatusApproved},
		{models.BookingStatusPending, models.BookingStatusRejected},
		{models.BookingStatusApproved, models.BookingStatusCancelled},
		{models.BookingStatusApproved, models.BookingStatusCompleted},
	}
	for _, tr := range legal {
		if !CanTransition(tr.from, tr.to) {
			t.Fatalf("expected %s -> %s to be legal", tr.from, tr.to)
		}
	}

	illegal := []struct{ from, to string }{
		{models.BookingStatusPending, models.BookingStatusCompleted},
		{models.BookingStatusPending, models.BookingStatusCancelled},
		{models.BookingStatusApproved, models.BookingStatusRejected},
		{models.BookingStatusApproved, models.BookingStatusPending},
		{models.BookingStatusRejected, models.BookingStatusApproved},
		{models.BookingStatusCancelled, models.BookingStatusPending},
		{models.BookingStatusCompleted, models.BookingStatusCancelled},
	}
	for _, tr := range illegal {
		if CanTransition(tr.from, tr.to) {
			t.Fatalf("expected %s -> %s to be illegal", tr.from, tr.to)
		}
	}
}

func TestNextStatuses(t *testing.T) {
	next := NextStatuses(models.BookingStatusPending)
	if len(next) != 2 {
		t.Fatalf("expected 2 targets from pending, got %v", next)
	}

	for _, terminal := range []string{
		models.BookingStatusRejected,
		models.BookingStatusCancelled,
		models.BookingStatusCompleted,
	} {
		if got := NextStatuses(terminal); len(got) != 0 {
			t.Fatalf("expected %s to be terminal, got %v", terminal, got)
		}
	}

	if got := NextStatuses("bogus"); got != nil {
		t.Fatalf("expected nil for unknown status, got %v", got)
	}
}

func TestApprovalGate(t *testing.T) {
	tests := []struct {
		name           string
		projectType    string
		state          PaymentState
		paidWithPoints bool
		wantErr        bool
	}{
		{"paid project unpaid", models.ProjectTypePaid, PaymentStateNone, false, true},
		{"paid project deposit paid", models.ProjectTypePaid, PaymentStateDepositPaid, false, false},
		{"paid project fully paid", models.ProjectTypePaid, PaymentStateFullyPaid, false, false},
		{"free project unpaid", models.ProjectTypeFree, PaymentStateNone, false, false},
		{"paid with points unpaid", models.ProjectTypePaid, PaymentStateNone, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ApprovalGate(tt.projectType, tt.state, tt.paidWithPoints)
			if tt.wantErr {
				if !errors.Is(err, ErrPaymentRequired) {
					t.Fatalf("expected ErrPaymentRequired, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected approval to pass, got %v", err)
			}
		})
	}
}
