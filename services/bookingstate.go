package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"volunteer-connect-server/models"
	"volunteer-connect-server/storage"

	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// bookingTransitions is the single source of truth for legal status changes.
// Rejected, cancelled and completed are terminal; there is no re-open path.
var bookingTransitions = map[string][]string{
	models.BookingStatusPending:   {models.BookingStatusApproved, models.BookingStatusRejected},
	models.BookingStatusApproved:  {models.BookingStatusCancelled, models.BookingStatusCompleted},
	models.BookingStatusRejected:  {},
	models.BookingStatusCancelled: {},
	models.BookingStatusCompleted: {},
}

// NextStatuses returns the legal targets from the given status. The UI
// derives its action buttons from this, never from its own copy of the rules.
func NextStatuses(current string) []string {
	next, ok := bookingTransitions[current]
	if !ok {
		return nil
	}
	out := make([]string, len(next))
	copy(out, next)
	return out
}

// CanTransition checks the table only; payment gating is separate.
func CanTransition(current, target string) bool {
	return slices.Contains(bookingTransitions[current], target)
}

// TransitionRequest carries who is asking and the optional completion flag
// that triggers the final notification on completed.
type TransitionRequest struct {
	Target        string
	ActorID       uint
	ActorRole     string
	SendCompleted bool
}

// TransitionBooking moves a booking to a new status.
//
// Rules, in order:
//   - target must be one of the five statuses;
//   - re-selecting the current status is a no-op for pending only, and
//     rejected for every other status so side effects cannot fire twice;
//   - the table decides legality, otherwise ErrInvalidTransition;
//   - approved additionally requires at least a deposit on the ledger, a
//     free project, or paidWithPoints, otherwise ErrPaymentRequired.
//
// The status write is a compare-and-swap on the current status, so two
// concurrent deciders cannot both win. Every successful transition appends a
// BookingAudit row; completion fires the notifier fire-and-forget.
func TransitionBooking(ctx context.Context, bookingID uint, req TransitionRequest) (*models.Booking, error) {
	if _, known := bookingTransitions[req.Target]; !known {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, req.Target)
	}

	var booking models.Booking
	if err := storage.DB.Preload("Project").First(&booking, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	current := booking.Status
	if req.Target == current {
		if current == models.BookingStatusPending {
			return &booking, nil
		}
		return nil, fmt.Errorf("%w: booking is already %s", ErrInvalidTransition, current)
	}
	if !CanTransition(current, req.Target) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current, req.Target)
	}

	if req.Target == models.BookingStatusApproved {
		view, err := ledgerFor(&booking)
		if err != nil {
			return nil, err
		}
		if err := ApprovalGate(booking.Project.Type, view.State, booking.PaidWithPoints); err != nil {
			return nil, err
		}
	}

	// CAS on the current status; zero rows means a concurrent writer won.
	res := storage.DB.Model(&models.Booking{}).
		Where("id = ? AND status = ?", booking.ID, current).
		Update("status", req.Target)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: booking status changed concurrently", ErrInvalidTransition)
	}
	booking.Status = req.Target

	audit := models.BookingAudit{
		BookingID:  booking.ID,
		FromStatus: current,
		ToStatus:   req.Target,
		ActorID:    req.ActorID,
	}
	if err := storage.DB.Create(&audit).Error; err != nil {
		log.Printf("bookingstate: audit append failed for booking %d: %v", booking.ID, err)
	}

	notifyBookingTransition(&booking, req)

	return &booking, nil
}

// ApprovalGate is the payment check behind the approved transition.
func ApprovalGate(projectType string, state PaymentState, paidWithPoints bool) error {
	if projectType == models.ProjectTypeFree || paidWithPoints {
		return nil
	}
	if !state.AtLeastDeposit() {
		return fmt.Errorf("%w: a deposit payment is required before the booking can be approved", ErrPaymentRequired)
	}
	return nil
}

func notifyBookingTransition(booking *models.Booking, req TransitionRequest) {
	ns := NewNotificationService()
	switch req.Target {
	case models.BookingStatusApproved, models.BookingStatusRejected:
		go ns.SendBookingStatusNotification(booking.VolunteerID, booking.ID, req.Target)
	case models.BookingStatusCompleted:
		if req.SendCompleted {
			go ns.SendBookingCompletedNotification(booking.VolunteerID, booking.ID)
		}
	}
}
