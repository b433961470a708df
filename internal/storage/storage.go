package storage

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrEventNotFound       = errors.New("event not found")
	ErrBookingNotFound     = errors.New("booking not found")
	ErrNotEnoughTickets    = errors.New("not enough tickets available")
	ErrBookingNotConfirmed = errors.New("booking is not confirmed")
	ErrVersionMismatch     = errors.New("event was modified concurrently")
)
