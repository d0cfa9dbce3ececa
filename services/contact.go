package services

import (
	"errors"
	"fmt"

	"volunteer-connect-server/models"
	"volunteer-connect-server/storage"

	"gorm.io/gorm"
)

// RequestContact opens a pending ContactGrant for the (volunteer,
// organization, booking) triple.
//
// The booking's ledger must be at least deposit_paid, and no pending or
// approved grant may already exist for the triple. A rejected grant does not
// block a new request. The volunteer is notified fire-and-forget.
func RequestContact(volunteerID, organizationID, bookingID uint, note string) (*models.ContactGrant, error) {
	var booking models.Booking
	if err := storage.DB.First(&booking, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if booking.VolunteerID != volunteerID || booking.OrganizationID != organizationID {
		return nil, fmt.Errorf("%w: booking does not belong to this volunteer and organization", ErrValidation)
	}

	state, err := StateForBooking(bookingID)
	if err != nil {
		return nil, err
	}
	if !state.AtLeastDeposit() {
		return nil, fmt.Errorf("%w: deposit required before requesting contact details", ErrPaymentRequired)
	}

	var existing models.ContactGrant
	err = storage.DB.
		Where("volunteer_id = ? AND organization_id = ? AND booking_id = ? AND status <> ?",
			volunteerID, organizationID, bookingID, models.ContactGrantRejected).
		Order("id DESC").
		First(&existing).Error
	if err == nil {
		return nil, fmt.Errorf("%w: a contact request for this booking is already %s", ErrDuplicateRequest, existing.Status)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	grant := models.ContactGrant{
		VolunteerID:    volunteerID,
		OrganizationID: organizationID,
		BookingID:      bookingID,
		Status:         models.ContactGrantPending,
		Note:           note,
	}
	if err := storage.DB.Create(&grant).Error; err != nil {
		return nil, err
	}

	go NewNotificationService().SendContactRequestNotification(volunteerID, grant.ID)

	return &grant, nil
}

// DecideContact resolves a pending grant. Only the volunteer the grant refers
// to may decide. The write is a compare-and-swap on the pending status so a
// simultaneous approve and reject cannot both land.
func DecideContact(grantID uint, approve bool, decidedBy uint) (*models.ContactGrant, error) {
	var grant models.ContactGrant
	if err := storage.DB.First(&grant, grantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if grant.VolunteerID != decidedBy {
		return nil, fmt.Errorf("%w: only the volunteer may decide this request", ErrAuthorizationDenied)
	}
	if grant.Status != models.ContactGrantPending {
		return nil, fmt.Errorf("%w: request is already %s", ErrInvalidTransition, grant.Status)
	}

	target := models.ContactGrantRejected
	if approve {
		target = models.ContactGrantApproved
	}

	res := storage.DB.Model(&models.ContactGrant{}).
		Where("id = ? AND status = ?", grant.ID, models.ContactGrantPending).
		Update("status", target)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: request was decided concurrently", ErrInvalidTransition)
	}
	grant.Status = target

	go NewNotificationService().SendContactDecisionNotification(grant.OrganizationID, grant.ID, target)

	return &grant, nil
}

// ContactStatus returns the single most recent grant for the triple, or nil
// when none exists. Visibility of contact fields follows this grant only,
// never an aggregate across bookings.
func ContactStatus(volunteerID, organizationID, bookingID uint) (*models.ContactGrant, error) {
	var grant models.ContactGrant
	err := storage.DB.
		Where("volunteer_id = ? AND organization_id = ? AND booking_id = ?",
			volunteerID, organizationID, bookingID).
		Order("id DESC").
		First(&grant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &grant, nil
}
