package services

import (
	"context"
	"errors"
	"log"
	"time"

	"volunteer-connect-server/models"
	"volunteer-connect-server/storage"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentState is the derived ledger summary used to gate booking approval,
// contact disclosure and message redaction.
type PaymentState string

const (
	PaymentStateNone        PaymentState = "none"
	PaymentStateDepositPaid PaymentState = "deposit_paid"
	PaymentStateFullyPaid   PaymentState = "fully_paid"
)

// AtLeastDeposit reports whether the state satisfies a deposit-level gate.
func (s PaymentState) AtLeastDeposit() bool {
	return s == PaymentStateDepositPaid || s == PaymentStateFullyPaid
}

// PaidSum totals the succeeded non-refund records.
func PaidSum(records []models.PaymentRecord) decimal.Decimal {
	sum := decimal.Zero
	for _, r := range records {
		if r.Outcome != models.PaymentOutcomeSucceeded || r.Kind == models.PaymentKindRefund {
			continue
		}
		sum = sum.Add(r.Amount)
	}
	return sum
}

// DeriveState recomputes the payment state from the full record set. It is
// never cached destructively; callers re-derive on every read.
// paidWithPoints is an alias for fully_paid without a backing record.
func DeriveState(records []models.PaymentRecord, totalOwed decimal.Decimal, paidWithPoints bool) PaymentState {
	if paidWithPoints {
		return PaymentStateFullyPaid
	}
	// Nothing owed means nothing gates: a zero-rate stay is settled from
	// the start.
	if totalOwed.LessThanOrEqual(decimal.Zero) {
		return PaymentStateFullyPaid
	}
	sum := PaidSum(records)
	anySucceeded := false
	for _, r := range records {
		if r.Outcome == models.PaymentOutcomeSucceeded && r.Kind != models.PaymentKindRefund {
			anySucceeded = true
			break
		}
	}
	if anySucceeded && sum.GreaterThanOrEqual(totalOwed) {
		return PaymentStateFullyPaid
	}
	if anySucceeded {
		return PaymentStateDepositPaid
	}
	return PaymentStateNone
}

// LedgerView bundles everything the gates and the UI need about a booking's
// money state.
type LedgerView struct {
	Booking models.Booking  `json:"booking"`
	Price   PriceBreakdown  `json:"price"`
	PaidSum decimal.Decimal `json:"paidSum"`
	Balance decimal.Decimal `json:"balanceDue"`
	State   PaymentState    `json:"state"`
}

// LedgerForBooking loads a booking with its project and records and derives
// the current view.
func LedgerForBooking(bookingID uint) (*LedgerView, error) {
	var booking models.Booking
	if err := storage.DB.Preload("Project").First(&booking, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return ledgerFor(&booking)
}

func ledgerFor(booking *models.Booking) (*LedgerView, error) {
	if booking.Project == nil {
		var project models.Project
		if err := storage.DB.First(&project, booking.ProjectID).Error; err != nil {
			return nil, err
		}
		booking.Project = &project
	}

	var records []models.PaymentRecord
	if err := storage.DB.Where("booking_id = ?", booking.ID).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}

	price := Quote(booking.StartDate, booking.EndDate, booking.Project.DailyRate, booking.TravellerCount)
	paid := PaidSum(records)
	return &LedgerView{
		Booking: *booking,
		Price:   price,
		PaidSum: paid,
		Balance: BalanceDue(price.TotalOwed, paid),
		State:   DeriveState(records, price.TotalOwed, booking.PaidWithPoints),
	}, nil
}

// StateForBooking is the gate used by the booking state machine, the contact
// workflow and the redaction filter.
func StateForBooking(bookingID uint) (PaymentState, error) {
	view, err := LedgerForBooking(bookingID)
	if err != nil {
		return PaymentStateNone, err
	}
	return view.State, nil
}

// AppendPaymentRecord appends one record to a booking's ledger. The
// idempotency key is claimed in Redis first so a client retry of the same
// confirmation cannot create a second record; the unique index on the column
// backs the guard when Redis is unavailable.
func AppendPaymentRecord(ctx context.Context, record *models.PaymentRecord) error {
	if record.IdempotencyKey != "" && storage.Redis != nil {
		key := "payment:idem:" + record.IdempotencyKey
		ok, err := storage.Redis.SetNX(ctx, key, "1", 24*time.Hour).Result()
		if err != nil {
			log.Printf("ledger: idempotency guard unavailable, relying on db index: %v", err)
		} else if !ok {
			return ErrDuplicateRequest
		}
	}
	if err := storage.DB.Create(record).Error; err != nil {
		return err
	}
	return nil
}
