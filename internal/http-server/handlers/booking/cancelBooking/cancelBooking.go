package cancelBooking

import (
	"context"
	"log/slog"
	"net/http"

	"eventure/internal/http-server/handlers/failure"
	"eventure/internal/http-server/middleware/mwuser"
	"eventure/internal/lib/api/response"
	"eventure/internal/lib/logger/sl"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

type CancelResponse struct {
	response.Response
	Message string `json:"message,omitempty"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=BookingCanceller
type BookingCanceller interface {
	CancelBooking(ctx context.Context, bookingID, userID string) (string, error)
}

func New(log *slog.Logger, bookings BookingCanceller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.booking.cancelBooking.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		userID, ok := mwuser.UserID(r.Context())
		if !ok {
			log.Error("user id is missing")
			failure.MissingUser(w, r)
			return
		}

		bookingID := chi.URLParam(r, "id")
		if bookingID == "" {
			log.Error("booking id is required")
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("booking id is required"))
			return
		}

		log = log.With(slog.String("booking_id", bookingID), slog.String("user_id", userID))

		msg, err := bookings.CancelBooking(r.Context(), bookingID, userID)
		if err != nil {
			log.Error("failed to cancel booking", sl.Err(err))
			failure.Render(w, r, err, "failed to cancel booking")
			return
		}

		log.Info("booking cancelled")

		responseOK(w, r, msg)
	}
}

func responseOK(w http.ResponseWriter, r *http.Request, msg string) {
	render.JSON(w, r, CancelResponse{
		Response: response.OK(),
		Message:  msg,
	})
}
