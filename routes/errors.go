package routes

import (
	"errors"

	"volunteer-connect-server/services"
	"volunteer-connect-server/utils"

	"github.com/kataras/iris/v12"
)

// handleServiceError maps typed service failures onto HTTP responses. Gating
// failures keep their specific messages so clients can show actionable text.
func handleServiceError(ctx iris.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.JSONError(ctx, iris.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, services.ErrValidation):
		utils.JSONError(ctx, iris.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, services.ErrPaymentRequired):
		utils.JSONError(ctx, iris.StatusPaymentRequired, "payment_required", err.Error())
	case errors.Is(err, services.ErrDuplicateRequest):
		utils.JSONError(ctx, iris.StatusConflict, "duplicate_request", err.Error())
	case errors.Is(err, services.ErrInvalidTransition):
		utils.JSONError(ctx, iris.StatusConflict, "invalid_transition", err.Error())
	case errors.Is(err, services.ErrAuthorizationDenied):
		utils.JSONError(ctx, iris.StatusForbidden, "authorization_denied", err.Error())
	default:
		utils.CreateInternalServerError(ctx)
	}
}
