// Package failure renders service errors as JSON error responses.
package failure

import (
	"errors"
	"net/http"

	"eventure/internal/lib/api/response"
	"eventure/internal/services"

	"github.com/go-chi/render"
)

// Status maps a service error kind to an HTTP status code.
func Status(err error) int {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrCapacityExceeded),
		errors.Is(err, services.ErrAlreadyCancelled),
		errors.Is(err, services.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, services.ErrPaymentRequired):
		return http.StatusPaymentRequired
	case errors.Is(err, services.ErrPayloadTooLarge):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// Render writes err with its status. Server-side failures are reported
// with fallback instead of the error text.
func Render(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := Status(err)

	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = fallback
	}

	render.Status(r, status)
	render.JSON(w, r, response.Error(msg))
}

// MissingUser answers requests that need X-User-ID but came without it.
func MissingUser(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusUnauthorized)
	render.JSON(w, r, response.Error("user id is required"))
}
