package downloadTicket

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"eventure/internal/http-server/handlers/failure"
	"eventure/internal/http-server/middleware/mwuser"
	"eventure/internal/lib/api/response"
	"eventure/internal/lib/logger/sl"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=TicketPdfGenerator
type TicketPdfGenerator interface {
	GeneratePdf(ctx context.Context, bookingID, userID string) ([]byte, error)
}

func New(log *slog.Logger, tickets TicketPdfGenerator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.booking.downloadTicket.New"

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

		pdf, err := tickets.GeneratePdf(r.Context(), bookingID, userID)
		if err != nil {
			log.Error("failed to generate ticket pdf", sl.Err(err))
			failure.Render(w, r, err, "failed to generate ticket pdf")
			return
		}

		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "tickets-"+bookingID+".pdf"))
		w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
		w.WriteHeader(http.StatusOK)

		if _, err = w.Write(pdf); err != nil {
			log.Error("failed to write ticket pdf", sl.Err(err))
			return
		}

		log.Info("ticket pdf sent", slog.Int("bytes", len(pdf)))
	}
}
