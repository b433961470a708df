package createBooking

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"eventure/internal/http-server/handlers/failure"
	"eventure/internal/lib/api/response"
	"eventure/internal/lib/logger/sl"
	"eventure/internal/models"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

type BookingResponse struct {
	response.Response
	*models.BookingResponse
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=BookingCreator
type BookingCreator interface {
	BookEvent(ctx context.Context, req models.BookingRequest) (*models.BookingResponse, error)
}

func New(log *slog.Logger, booking BookingCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.booking.createBooking.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req models.BookingRequest

		err := render.DecodeJSON(r.Body, &req)
		if err != nil {
			log.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to decode request"))
			return
		}

		log = log.With(slog.String("user_id", req.UserID), slog.String("event_id", req.EventID))

		log.Info("request body decoded", slog.Int("ticket_count", req.TicketCount))

		if err = validator.New().Struct(req); err != nil {
			var validateErr validator.ValidationErrors
			if errors.As(err, &validateErr) {
				log.Error("invalid request", sl.Err(err))
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.ValidationError(validateErr))
				return
			}
		}

		resp, err := booking.BookEvent(r.Context(), req)
		if err != nil {
			log.Error("failed to book event", sl.Err(err))
			failure.Render(w, r, err, "failed to book event")
			return
		}

		log.Info("event booked successfully", slog.String("booking_id", resp.Booking.ID))

		render.Status(r, http.StatusCreated)
		responseOK(w, r, resp)
	}
}

func responseOK(w http.ResponseWriter, r *http.Request, resp *models.BookingResponse) {
	render.JSON(w, r, BookingResponse{
		Response:        response.OK(),
		BookingResponse: resp,
	})
}
