package getUserEvents

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

type UserEventsResponse struct {
	response.Response
	Events []models.EventByUserResponse `json:"events"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=UserEventsGetter
type UserEventsGetter interface {
	GetEventsByUserID(ctx context.Context, userID string) ([]models.EventByUserResponse, error)
}

func New(log *slog.Logger, events UserEventsGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.event.getUserEvents.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		userID := chi.URLParam(r, "id")
		if userID == "" {
			log.Error("user id is required")
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("user id is required"))
			return
		}

		log = log.With(slog.String("user_id", userID))

		list, err := events.GetEventsByUserID(r.Context(), userID)
		if err != nil {
			log.Error("failed to get user events", sl.Err(err))
			failure.Render(w, r, err, "failed to get user events")
			return
		}

		log.Info("user events retrieved", slog.Int("count", len(list)))

		if list == nil {
			list = []models.EventByUserResponse{}
		}

		render.JSON(w, r, UserEventsResponse{
			Response: response.OK(),
			Events:   list,
		})
	}
}
