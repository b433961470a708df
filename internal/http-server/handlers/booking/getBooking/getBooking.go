package getBooking

import (
	"context"
	"log/slog"
	"net/http"

	"eventure/internal/http-server/handlers/failure"
	"eventure/internal/http-server/middleware/mwuser"
	"eventure/internal/lib/api/response"
	"eventure/internal/lib/logger/sl"
	"eventure/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

type BookingResponse struct {
	response.Response
	*models.BookingResponse
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=BookingGetter
type BookingGetter interface {
	GetBookingDetailsWithQrCodes(ctx context.Context, bookingID, userID string) (*models.BookingResponse, error)
}

func New(log *slog.Logger, bookings BookingGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.booking.getBooking.New"

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

		details, err := bookings.GetBookingDetailsWithQrCodes(r.Context(), bookingID, userID)
		if err != nil {
			log.Error("failed to get booking", sl.Err(err))
			failure.Render(w, r, err, "failed to get booking")
			return
		}

		log.Info("booking retrieved", slog.Int("tickets", len(details.Booking.Tickets)))

		render.JSON(w, r, BookingResponse{
			Response:        response.OK(),
			BookingResponse: details,
		})
	}
}
