package services

import (
	"context"
	"errors"
	"fmt"

	"volunteer-connect-server/models"
	"volunteer-connect-server/storage"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CreatePaymentIntent opens an intent with the processor for a booking. The
// amount is fixed server-side from the ledger: the deposit amount for a
// deposit intent, the outstanding balance for a full one. Fully paid and
// points-paid bookings take no further intents.
func CreatePaymentIntent(ctx context.Context, bookingID uint, kind string) (*models.PaymentIntent, error) {
	if kind != models.PaymentKindDeposit && kind != models.PaymentKindFull {
		return nil, fmt.Errorf("%w: unknown payment kind %q", ErrValidation, kind)
	}

	view, err := LedgerForBooking(bookingID)
	if err != nil {
		return nil, err
	}
	if view.Booking.Project.Type == models.ProjectTypeFree {
		return nil, fmt.Errorf("%w: free projects take no payments", ErrValidation)
	}
	if view.State == PaymentStateFullyPaid {
		return nil, fmt.Errorf("%w: booking is already fully paid", ErrValidation)
	}

	amount := view.Price.DepositAmount
	if kind == models.PaymentKindFull {
		amount = view.Balance
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: nothing left to pay", ErrValidation)
	}

	intent := models.PaymentIntent{
		ID:        uuid.NewString(),
		BookingID: bookingID,
		Amount:    amount,
		Kind:      kind,
		Status:    models.IntentStatusCreated,
	}
	if err := storage.DB.WithContext(ctx).Create(&intent).Error; err != nil {
		return nil, err
	}
	return &intent, nil
}

// ConfirmPaymentIntent records the outcome the processor reported. Only an
// explicit succeeded outcome appends a PaymentRecord; a failed confirmation
// closes the intent and leaves the ledger untouched. The intent status write
// is a compare-and-swap on created, so one intent yields at most one record
// even under concurrent confirms, and the idempotency key guards client
// retries of the whole call.
func ConfirmPaymentIntent(ctx context.Context, intentID, outcome, idempotencyKey string) (*models.PaymentRecord, error) {
	if outcome != models.PaymentOutcomeSucceeded && outcome != models.PaymentOutcomeFailed {
		return nil, fmt.Errorf("%w: unknown outcome %q", ErrValidation, outcome)
	}

	var intent models.PaymentIntent
	if err := storage.DB.Where("id = ?", intentID).First(&intent).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if intent.Status != models.IntentStatusCreated {
		return nil, fmt.Errorf("%w: intent is already %s", ErrDuplicateRequest, intent.Status)
	}

	if outcome == models.PaymentOutcomeSucceeded {
		view, err := LedgerForBooking(intent.BookingID)
		if err != nil {
			return nil, err
		}
		// An intent created before another one settled can exceed what is
		// still owed; absorbing it would push the paid sum past the total.
		// Close the stale intent instead of recording it.
		if view.State == PaymentStateFullyPaid || intent.Amount.GreaterThan(view.Balance) {
			storage.DB.Model(&models.PaymentIntent{}).
				Where("id = ? AND status = ?", intent.ID, models.IntentStatusCreated).
				Update("status", models.IntentStatusFailed)
			return nil, fmt.Errorf("%w: intent amount exceeds the outstanding balance", ErrInvalidTransition)
		}
	}

	res := storage.DB.Model(&models.PaymentIntent{}).
		Where("id = ? AND status = ?", intent.ID, models.IntentStatusCreated).
		Update("status", outcome)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: intent was confirmed concurrently", ErrDuplicateRequest)
	}

	if outcome == models.PaymentOutcomeFailed {
		return nil, nil
	}

	if idempotencyKey == "" {
		idempotencyKey = intent.ID
	}
	record := models.PaymentRecord{
		BookingID:      intent.BookingID,
		Amount:         intent.Amount,
		Kind:           intent.Kind,
		Outcome:        models.PaymentOutcomeSucceeded,
		IntentID:       intent.ID,
		IdempotencyKey: idempotencyKey,
	}
	if err := AppendPaymentRecord(ctx, &record); err != nil {
		return nil, err
	}
	return &record, nil
}
