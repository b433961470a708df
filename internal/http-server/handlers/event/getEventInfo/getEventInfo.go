package getEventInfo

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

type EventInfoResponse struct {
	response.Response
	Event *models.Event `json:"event,omitempty"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=EventGetter
type EventGetter interface {
	GetEventByID(ctx context.Context, id string) (*models.Event, error)
}

func New(log *slog.Logger, info EventGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.event.getEventInfo.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		eventID := chi.URLParam(r, "id")
		if eventID == "" {
			log.Error("event id is required")
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("event id is required"))
			return
		}

		log = log.With(slog.String("event_id", eventID))

		event, err := info.GetEventByID(r.Context(), eventID)
		if err != nil {
			log.Error("failed to get event information", sl.Err(err))
			failure.Render(w, r, err, "failed to get event information")
			return
		}

		log.Info("event info successfully received")

		responseOK(w, r, event)
	}
}

func responseOK(w http.ResponseWriter, r *http.Request, event *models.Event) {
	render.JSON(w, r, EventInfoResponse{
		Response: response.OK(),
		Event:    event,
	})
}
