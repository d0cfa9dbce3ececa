package routes

import (
	"volunteer-connect-server/models"
	"volunteer-connect-server/services"
	"volunteer-connect-server/storage"
	"volunteer-connect-server/utils"

	"github.com/kataras/iris/v12"
)

type RequestContactInput struct {
	BookingID uint   `json:"bookingID" validate:"required"`
	Note      string `json:"note" validate:"lt=500"`
}

// RequestContact lets the organization owner ask for the volunteer's contact
// details on a booking. Gated on the ledger; duplicates are rejected while a
// pending or approved grant exists.
func RequestContact(ctx iris.Context) {
	userID, ok := utils.RequestUserID(ctx)
	if !ok {
		ctx.StatusCode(iris.StatusUnauthorized)
		return
	}

	var input RequestContactInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var booking models.Booking
	if err := storage.DB.Preload("Organization").First(&booking, input.BookingID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	if booking.Organization == nil || booking.Organization.OwnerID != userID {
		utils.JSONError(ctx, iris.StatusForbidden, "authorization_denied", "only the booking's organization may request contact details")
		return
	}

	grant, err := services.RequestContact(booking.VolunteerID, booking.OrganizationID, booking.ID, input.Note)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	ctx.JSON(iris.Map{"success": true, "grant": grant})
}

type DecideContactInput struct {
	Approve bool `json:"approve"`
}

// DecideContact records the volunteer's decision on a pending grant.
func DecideContact(ctx iris.Context) {
	userID, ok := utils.RequestUserID(ctx)
	if !ok {
		ctx.StatusCode(iris.StatusUnauthorized)
		return
	}

	grantID := ctx.Params().GetUintDefault("id", 0)
	if grantID == 0 {
		utils.JSONError(ctx, iris.StatusBadRequest, "validation_error", "invalid grant id")
		return
	}

	var input DecideContactInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	grant, err := services.DecideContact(grantID, input.Approve, userID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	ctx.JSON(iris.Map{"success": true, "grant": grant})
}

// GetContactStatus returns the most recent grant for a booking's triple,
// with the volunteer's contact fields included once approved.
func GetContactStatus(ctx iris.Context) {
	userID, ok := utils.RequestUserID(ctx)
	if !ok {
		ctx.StatusCode(iris.StatusUnauthorized)
		return
	}

	bookingID, err := ctx.URLParamInt("bookingID")
	if err != nil || bookingID <= 0 {
		utils.JSONError(ctx, iris.StatusBadRequest, "validation_error", "bookingID query parameter is required")
		return
	}

	var booking models.Booking
	if err := storage.DB.Preload("Organization").Preload("Volunteer").First(&booking, bookingID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	isOrgOwner := booking.Organization != nil && booking.Organization.OwnerID == userID
	if booking.VolunteerID != userID && !isOrgOwner {
		utils.JSONError(ctx, iris.StatusForbidden, "authorization_denied", "not a party to this booking")
		return
	}

	grant, err := services.ContactStatus(booking.VolunteerID, booking.OrganizationID, booking.ID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	if grant == nil {
		ctx.JSON(iris.Map{"success": true, "status": "none"})
		return
	}

	resp := iris.Map{"success": true, "status": grant.Status, "grant": grant}
	// Contact details are disclosed to the organization only on approval.
	if grant.Status == models.ContactGrantApproved && isOrgOwner && booking.Volunteer != nil {
		resp["contact"] = iris.Map{
			"email":     booking.Volunteer.Email,
			"phone":     booking.Volunteer.Phone,
			"firstName": booking.Volunteer.FirstName,
			"lastName":  booking.Volunteer.LastName,
		}
	}
	ctx.JSON(resp)
}
