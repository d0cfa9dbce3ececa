package services

import (
	"context"
	"errors"
	"testing"

	"volunteer-connect-server/models"
	"volunteer-connect-server/storage"

	"github.com/shopspring/decimal"
)

func TestPaymentIntentLifecycle(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	booking := seedPaidBooking(t, "100") // total 1000, deposit 200

	deposit, err := CreatePaymentIntent(ctx, booking.ID, models.PaymentKindDeposit)
	if err != nil {
		t.Fatalf("create deposit intent: %v", err)
	}
	if !deposit.Amount.Equal(decimal.RequireFromString("200")) {
		t.Fatalf("deposit amount: want 200, got %s", deposit.Amount)
	}

	record, err := ConfirmPaymentIntent(ctx, deposit.ID, models.PaymentOutcomeSucceeded, "")
	if err != nil {
		t.Fatalf("confirm deposit: %v", err)
	}
	if record == nil || !record.Amount.Equal(deposit.Amount) {
		t.Fatalf("expected a deposit record, got %+v", record)
	}

	view, err := LedgerForBooking(booking.ID)
	if err != nil {
		t.Fatalf("ledger: %v", err)
	}
	if view.State != PaymentStateDepositPaid {
		t.Fatalf("state after deposit: want %s, got %s", PaymentStateDepositPaid, view.State)
	}

	// A full intent opened now is fixed to the remaining balance.
	full, err := CreatePaymentIntent(ctx, booking.ID, models.PaymentKindFull)
	if err != nil {
		t.Fatalf("create full intent: %v", err)
	}
	if !full.Amount.Equal(decimal.RequireFromString("800")) {
		t.Fatalf("balance amount: want 800, got %s", full.Amount)
	}
	if _, err := ConfirmPaymentIntent(ctx, full.ID, models.PaymentOutcomeSucceeded, ""); err != nil {
		t.Fatalf("confirm balance: %v", err)
	}

	view, err = LedgerForBooking(booking.ID)
	if err != nil {
		t.Fatalf("ledger: %v", err)
	}
	if view.State != PaymentStateFullyPaid {
		t.Fatalf("state after balance: want %s, got %s", PaymentStateFullyPaid, view.State)
	}
	if !view.Balance.IsZero() {
		t.Fatalf("expected zero balance, got %s", view.Balance)
	}

	// Confirming the same intent again reports the duplicate.
	if _, err := ConfirmPaymentIntent(ctx, full.ID, models.PaymentOutcomeSucceeded, ""); !errors.Is(err, ErrDuplicateRequest) {
		t.Fatalf("expected ErrDuplicateRequest on re-confirm, got %v", err)
	}
}

func TestConfirmStaleIntentCannotExceedTotal(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	booking := seedPaidBooking(t, "100") // total 1000

	// Both intents are opened against the untouched ledger.
	full, err := CreatePaymentIntent(ctx, booking.ID, models.PaymentKindFull)
	if err != nil {
		t.Fatalf("create full intent: %v", err)
	}
	deposit, err := CreatePaymentIntent(ctx, booking.ID, models.PaymentKindDeposit)
	if err != nil {
		t.Fatalf("create deposit intent: %v", err)
	}

	if _, err := ConfirmPaymentIntent(ctx, full.ID, models.PaymentOutcomeSucceeded, ""); err != nil {
		t.Fatalf("confirm full: %v", err)
	}

	// The deposit intent is now stale: absorbing it would overpay.
	if _, err := ConfirmPaymentIntent(ctx, deposit.ID, models.PaymentOutcomeSucceeded, ""); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition for stale intent, got %v", err)
	}

	view, err := LedgerForBooking(booking.ID)
	if err != nil {
		t.Fatalf("ledger: %v", err)
	}
	if view.PaidSum.GreaterThan(view.Price.TotalOwed) {
		t.Fatalf("paid sum %s exceeds total %s", view.PaidSum, view.Price.TotalOwed)
	}
	if view.State != PaymentStateFullyPaid {
		t.Fatalf("state: want %s, got %s", PaymentStateFullyPaid, view.State)
	}

	// The stale intent is closed, not left open for retries.
	var reloaded models.PaymentIntent
	if err := storage.DB.Where("id = ?", deposit.ID).First(&reloaded).Error; err != nil {
		t.Fatalf("reload deposit intent: %v", err)
	}
	if reloaded.Status != models.IntentStatusFailed {
		t.Fatalf("stale intent status: want %s, got %s", models.IntentStatusFailed, reloaded.Status)
	}
}
