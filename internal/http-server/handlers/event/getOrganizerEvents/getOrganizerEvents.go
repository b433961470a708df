package getOrganizerEvents

import (
	"context"
	"log/slog"
	"net/http"

	"eventure/internal/http-server/handlers/failure"
	"eventure/internal/lib/api/response"
	"eventure/internal/lib/logger/sl"
	"eventure/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

type EventsResponse struct {
	response.Response
	Events []models.Event `json:"events"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=OrganizerEventsGetter
type OrganizerEventsGetter interface {
	GetOrganizerEventsList(ctx context.Context, organizerID string) ([]models.Event, error)
}

func New(log *slog.Logger, events OrganizerEventsGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.event.getOrganizerEvents.New"

		organizerID := chi.URLParam(r, "id")

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("organizer_id", organizerID),
		)

		list, err := events.GetOrganizerEventsList(r.Context(), organizerID)
		if err != nil {
			log.Error("failed to get organizer events", sl.Err(err))
			failure.Render(w, r, err, "failed to get organizer events")
			return
		}

		log.Info("organizer events retrieved", slog.Int("count", len(list)))

		if list == nil {
			list = []models.Event{}
		}

		render.JSON(w, r, EventsResponse{
			Response: response.OK(),
			Events:   list,
		})
	}
}
