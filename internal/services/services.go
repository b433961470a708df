// Package services holds the error kinds shared by the booking and event
// managers. Operations wrap one of them with context; callers match with
// errors.Is.
package services

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrValidation        = errors.New("validation failed")
	ErrCapacityExceeded  = errors.New("capacity exceeded")
	ErrPaymentRequired   = errors.New("payment required")
	ErrAlreadyCancelled  = errors.New("booking already cancelled")
	ErrPayloadTooLarge   = errors.New("payload too large")
	ErrDataInconsistency = errors.New("data inconsistency")
	ErrConflict          = errors.New("concurrent modification")
)
