package routes

import (
	"volunteer-connect-server/models"
	"volunteer-connect-server/services"
	"volunteer-connect-server/storage"
	"volunteer-connect-server/utils"

	"github.com/kataras/iris/v12"
)

type CreateIntentInput struct {
	BookingID uint   `json:"bookingID" validate:"required"`
	Kind      string `json:"kind" validate:"required,oneof=deposit full"`
}

// CreatePaymentIntent opens a processor intent for the caller's booking. The
// amount comes from the ledger, never from the client.
func CreatePaymentIntent(ctx iris.Context) {
	userID, ok := utils.RequestUserID(ctx)
	if !ok {
		ctx.StatusCode(iris.StatusUnauthorized)
		return
	}

	var input CreateIntentInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var booking models.Booking
	if err := storage.DB.First(&booking, input.BookingID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	if booking.VolunteerID != userID {
		utils.JSONError(ctx, iris.StatusForbidden, "authorization_denied", "only the volunteer pays for their booking")
		return
	}

	intent, err := services.CreatePaymentIntent(ctx.Request().Context(), input.BookingID, input.Kind)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	ctx.JSON(iris.Map{"success": true, "intent": intent})
}

type ConfirmPaymentInput struct {
	IntentID string `json:"intentID" validate:"required"`
	Outcome  string `json:"outcome" validate:"required,oneof=succeeded failed"`
}

// ConfirmPayment reports the processor outcome for an intent. Only the
// volunteer who opened the intent may confirm it. Retries with the same
// Idempotency-Key header never create a second PaymentRecord.
func ConfirmPayment(ctx iris.Context) {
	userID, ok := utils.RequestUserID(ctx)
	if !ok {
		ctx.StatusCode(iris.StatusUnauthorized)
		return
	}

	var input ConfirmPaymentInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var intent models.PaymentIntent
	if err := storage.DB.Where("id = ?", input.IntentID).First(&intent).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	var booking models.Booking
	if err := storage.DB.First(&booking, intent.BookingID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	if booking.VolunteerID != userID {
		utils.JSONError(ctx, iris.StatusForbidden, "authorization_denied", "only the volunteer may confirm their payment")
		return
	}

	idempotencyKey := ctx.GetHeader("Idempotency-Key")

	record, err := services.ConfirmPaymentIntent(ctx.Request().Context(), input.IntentID, input.Outcome, idempotencyKey)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	if record == nil {
		ctx.JSON(iris.Map{"success": true, "outcome": models.PaymentOutcomeFailed})
		return
	}
	ctx.JSON(iris.Map{"success": true, "outcome": models.PaymentOutcomeSucceeded, "record": record})
}

// ListBookingPayments returns the append-only record set for a booking.
func ListBookingPayments(ctx iris.Context) {
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

	var booking models.Booking
	if err := storage.DB.Preload("Organization").First(&booking, bookingID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	isOrgOwner := booking.Organization != nil && booking.Organization.OwnerID == userID
	if booking.VolunteerID != userID && !isOrgOwner {
		utils.JSONError(ctx, iris.StatusForbidden, "authorization_denied", "not a party to this booking")
		return
	}

	var records []models.PaymentRecord
	if err := storage.DB.Where("booking_id = ?", bookingID).Order("id").Find(&records).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "data": records})
}
