package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	PaymentKindDeposit = "deposit"
	PaymentKindFull    = "full"
	PaymentKindRefund  = "refund"

	PaymentOutcomePending   = "pending"
	PaymentOutcomeSucceeded = "succeeded"
	PaymentOutcomeFailed    = "failed"

	IntentStatusCreated   = "created"
	IntentStatusSucceeded = "succeeded"
	IntentStatusFailed    = "failed"
)

// PaymentRecord is one entry in a booking's payment ledger. Records are
// append-only; a failed record is kept for audit but has no ledger effect.
type PaymentRecord struct {
	ID             uint            `json:"id" gorm:"primaryKey"`
	BookingID      uint            `json:"bookingID" gorm:"not null;index"`
	Amount         decimal.Decimal `json:"amount" gorm:"type:numeric(12,2)"`
	Kind           string          `json:"kind" gorm:"type:varchar(10);index"`    // deposit, full, refund
	Outcome        string          `json:"outcome" gorm:"type:varchar(10);index"` // pending, succeeded, failed
	IntentID       string          `json:"intentID" gorm:"size:64;index"`
	IdempotencyKey string          `json:"-" gorm:"size:64;uniqueIndex"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// PaymentIntent is the handle handed to the external processor. Exactly one
// succeeded confirmation per intent yields exactly one PaymentRecord.
type PaymentIntent struct {
	ID        string          `json:"id" gorm:"primaryKey;size:64"`
	BookingID uint            `json:"bookingID" gorm:"not null;index"`
	Amount    decimal.Decimal `json:"amount" gorm:"type:numeric(12,2)"`
	Kind      string          `json:"kind" gorm:"type:varchar(10)"`
	Status    string          `json:"status" gorm:"type:varchar(10);default:created;index"` // created, succeeded, failed
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}
