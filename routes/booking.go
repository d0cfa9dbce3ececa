package routes

import (
	"time"

	"volunteer-connect-server/models"
	"volunteer-connect-server/services"
	"volunteer-connect-server/storage"
	"volunteer-connect-server/utils"

	"github.com/kataras/iris/v12"
	"github.com/shopspring/decimal"
)

type CreateBookingInput struct {
	StartDate      time.Time `json:"startDate" validate:"required"`
	EndDate        time.Time `json:"endDate" validate:"required"`
	TravellerCount int       `json:"travellerCount" validate:"required,min=1"`
	Note           string    `json:"note" validate:"lt=2000"`
	PaidWithPoints bool      `json:"paidWithPoints"`
	PointsAmount   int       `json:"pointsAmount" validate:"min=0"`
}

// CreateBooking lets a volunteer apply to a project. The booking starts
// pending; every later status change goes through the state machine.
func CreateBooking(ctx iris.Context) {
	userID, ok := utils.RequestUserID(ctx)
	if !ok {
		ctx.StatusCode(iris.StatusUnauthorized)
		return
	}

	projectID := ctx.Params().GetUintDefault("id", 0)
	if projectID == 0 {
		utils.JSONError(ctx, iris.StatusBadRequest, "validation_error", "invalid project id")
		return
	}

	var input CreateBookingInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}
	if input.EndDate.Before(input.StartDate) {
		utils.JSONError(ctx, iris.StatusBadRequest, "validation_error", "endDate must not be before startDate")
		return
	}

	var project models.Project
	if err := storage.DB.First(&project, projectID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	if !project.IsActive {
		utils.JSONError(ctx, iris.StatusBadRequest, "validation_error", "project is not accepting applications")
		return
	}
	if project.MaxTravellers > 0 && input.TravellerCount > project.MaxTravellers {
		utils.JSONError(ctx, iris.StatusBadRequest, "validation_error", "traveller count exceeds project capacity")
		return
	}

	booking := models.Booking{
		VolunteerID:    userID,
		OrganizationID: project.OrganizationID,
		ProjectID:      project.ID,
		StartDate:      input.StartDate,
		EndDate:        input.EndDate,
		TravellerCount: input.TravellerCount,
		Status:         models.BookingStatusPending,
		Note:           input.Note,
		PaidWithPoints: input.PaidWithPoints,
		PointsAmount:   input.PointsAmount,
	}
	if err := storage.DB.Create(&booking).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	price := services.Quote(booking.StartDate, booking.EndDate, project.DailyRate, booking.TravellerCount)

	ctx.JSON(iris.Map{
		"success":      true,
		"booking":      booking,
		"price":        price,
		"nextStatuses": services.NextStatuses(booking.Status),
	})
}

type QuoteInput struct {
	StartDate      time.Time       `json:"startDate" validate:"required"`
	EndDate        time.Time       `json:"endDate" validate:"required"`
	DailyRate      decimal.Decimal `json:"dailyRate"`
	TravellerCount int             `json:"travellerCount" validate:"required,min=1"`
}

// QuoteBookingPrice exposes the pure price calculator.
func QuoteBookingPrice(ctx iris.Context) {
	var input QuoteInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}
	if input.DailyRate.IsNegative() {
		utils.JSONError(ctx, iris.StatusBadRequest, "validation_error", "dailyRate must not be negative")
		return
	}
	price := services.Quote(input.StartDate, input.EndDate, input.DailyRate, input.TravellerCount)
	ctx.JSON(price)
}

type UpdateBookingStatusInput struct {
	Status        string `json:"status" validate:"required,oneof=pending approved rejected cancelled completed"`
	SendCompleted bool   `json:"sendCompleted"`
}

// UpdateBookingStatus drives the state machine. The organization side owns
// approve/reject/complete; the volunteer may only cancel their own booking.
func UpdateBookingStatus(ctx iris.Context) {
	userID, ok := utils.RequestUserID(ctx)
	if !ok {
		ctx.StatusCode(iris.StatusUnauthorized)
		return
	}

	bookingID := ctx.Params().GetUintDefault("id", 0)
	if bookingID == 0 {
		utils.JSONError(ctx, iris.StatusBadRequest, "validation_error", "invalid booking id")
		return
	}

	var input UpdateBookingStatusInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var booking models.Booking
	if err := storage.DB.Preload("Organization").First(&booking, bookingID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	isVolunteer := booking.VolunteerID == userID
	isOrgOwner := booking.Organization != nil && booking.Organization.OwnerID == userID
	if !isVolunteer && !isOrgOwner {
		utils.JSONError(ctx, iris.StatusForbidden, "authorization_denied", "not a party to this booking")
		return
	}
	if isVolunteer && !isOrgOwner && input.Status != models.BookingStatusCancelled {
		utils.JSONError(ctx, iris.StatusForbidden, "authorization_denied", "volunteers may only cancel their booking")
		return
	}

	updated, err := services.TransitionBooking(ctx.Request().Context(), bookingID, services.TransitionRequest{
		Target:        input.Status,
		ActorID:       userID,
		SendCompleted: input.SendCompleted,
	})
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	ctx.JSON(iris.Map{
		"success":      true,
		"booking":      updated,
		"nextStatuses": services.NextStatuses(updated.Status),
	})
}

// GetMyBookings lists the caller's bookings as a volunteer.
func GetMyBookings(ctx iris.Context) {
	userID, ok := utils.RequestUserID(ctx)
	if !ok {
		ctx.StatusCode(iris.StatusUnauthorized)
		return
	}

	var bookings []models.Booking
	if err := storage.DB.Where("volunteer_id = ?", userID).
		Preload("Project").
		Preload("Organization").
		Order("created_at DESC").
		Find(&bookings).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "data": bookings})
}

// GetOrganizationBookings lists bookings on projects the caller's
// organizations manage.
func GetOrganizationBookings(ctx iris.Context) {
	userID, ok := utils.RequestUserID(ctx)
	if !ok {
		ctx.StatusCode(iris.StatusUnauthorized)
		return
	}

	var bookings []models.Booking
	if err := storage.DB.
		Joins("JOIN organizations ON organizations.id = bookings.organization_id").
		Where("organizations.owner_id = ?", userID).
		Preload("Project").
		Preload("Volunteer").
		Order("bookings.created_at DESC").
		Find(&bookings).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "data": bookings})
}

// GetBookingLedger returns the derived payment state, paid sum and balance.
func GetBookingLedger(ctx iris.Context) {
	userID, ok := utils.RequestUserID(ctx)
	if !ok {
		ctx.StatusCode(iris.StatusUnauthorized)
		return
	}

	bookingID := ctx.Params().GetUintDefault("id", 0)
	if bookingID == 0 {
		utils.JSONError(ctx, iris.StatusBadRequest, "validation_error", "invalid booking id")
		return
	}

	view, err := services.LedgerForBooking(bookingID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	var org models.Organization
	isOrgOwner := storage.DB.First(&org, view.Booking.OrganizationID).Error == nil && org.OwnerID == userID
	if view.Booking.VolunteerID != userID && !isOrgOwner {
		utils.JSONError(ctx, iris.StatusForbidden, "authorization_denied", "not a party to this booking")
		return
	}

	ctx.JSON(view)
}

// GetBookingAudit lists the transition history for a booking.
func GetBookingAudit(ctx iris.Context) {
	bookingID := ctx.Params().GetUintDefault("id", 0)
	if bookingID == 0 {
		utils.JSONError(ctx, iris.StatusBadRequest, "validation_error", "invalid booking id")
		return
	}

	var entries []models.BookingAudit
	if err := storage.DB.Where("booking_id = ?", bookingID).Order("id").Find(&entries).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(iris.Map{"success": true, "data": entries})
}
