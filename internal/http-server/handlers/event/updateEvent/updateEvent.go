package updateEvent

import (
	"context"
	"errors"
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
	"github.com/go-playground/validator/v10"
)

type EventResponse struct {
	response.Response
	Event *models.Event `json:"event,omitempty"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=EventUpdater
type EventUpdater interface {
	UpdateEvent(ctx context.Context, id string, patch *models.EventPatch, userID string) (*models.Event, error)
}

func New(log *slog.Logger, events EventUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.event.updateEvent.New"

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

		eventID := chi.URLParam(r, "id")
		if eventID == "" {
			log.Error("event id is required")
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("event id is required"))
			return
		}

		log = log.With(slog.String("event_id", eventID), slog.String("user_id", userID))

		var patch models.EventPatch

		err := render.DecodeJSON(r.Body, &patch)
		if err != nil {
			log.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to decode request"))
			return
		}

		if err = validator.New().Struct(patch); err != nil {
			var validateErr validator.ValidationErrors
			errors.As(err, &validateErr)

			log.Error("invalid request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(validateErr))
			return
		}

		updated, err := events.UpdateEvent(r.Context(), eventID, &patch, userID)
		if err != nil {
			log.Error("failed to update event", sl.Err(err))
			failure.Render(w, r, err, "failed to update event")
			return
		}

		log.Info("event updated", slog.Int("version", updated.Version))

		render.JSON(w, r, EventResponse{
			Response: response.OK(),
			Event:    updated,
		})
	}
}
