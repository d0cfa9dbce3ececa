package services

import "errors"

// Typed failures recovered at the route boundary. Gating errors are expected,
// frequent outcomes and carry actionable messages to the client.
var (
	ErrInvalidTransition   = errors.New("invalid booking status transition")
	ErrPaymentRequired     = errors.New("payment required")
	ErrDuplicateRequest    = errors.New("an active request already exists")
	ErrAuthorizationDenied = errors.New("not allowed to perform this action")
	ErrValidation          = errors.New("validation failed")
	ErrNotFound            = errors.New("not found")
)
