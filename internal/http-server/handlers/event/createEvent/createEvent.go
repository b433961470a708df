package createEvent

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"eventure/internal/http-server/handlers/failure"
	"eventure/internal/lib/api/response"
	"eventure/internal/lib/logger/sl"
	"eventure/internal/models"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

type EventRequest struct {
	OrganizerID      string    `json:"organizer_id" validate:"required"`
	EventName        string    `json:"event_name" validate:"required"`
	Desc             string    `json:"desc"`
	EventDateTime    time.Time `json:"event_date_time" validate:"required"`
	Address          string    `json:"address"`
	City             string    `json:"city"`
	State            string    `json:"state"`
	ZipCode          string    `json:"zip_code"`
	EventCapacity    int       `json:"event_capacity" validate:"gte=0"`
	TicketPrice      float64   `json:"ticket_price" validate:"gte=0"`
	EventImageBase64 string    `json:"event_image_base64"`
	EventInstruction string    `json:"event_instruction"`
}

type EventResponse struct {
	response.Response
	Event *models.Event `json:"event,omitempty"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=EventCreator
type EventCreator interface {
	CreateEvent(ctx context.Context, ev *models.Event) (*models.Event, error)
}

func New(log *slog.Logger, events EventCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.event.createEvent.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req EventRequest

		err := render.DecodeJSON(r.Body, &req)
		if err != nil {
			log.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to decode request"))

			return
		}

		log.Info("request body decoded",
			slog.String("organizer_id", req.OrganizerID),
			slog.String("event_name", req.EventName),
		)

		if err = validator.New().Struct(req); err != nil {
			var validateErr validator.ValidationErrors
			errors.As(err, &validateErr)

			log.Error("invalid request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(validateErr))

			return
		}

		created, err := events.CreateEvent(r.Context(), &models.Event{
			OrganizerID:      req.OrganizerID,
			EventName:        req.EventName,
			Desc:             req.Desc,
			EventDateTime:    req.EventDateTime,
			Address:          req.Address,
			City:             req.City,
			State:            req.State,
			ZipCode:          req.ZipCode,
			EventCapacity:    req.EventCapacity,
			TicketPrice:      req.TicketPrice,
			EventImageBase64: req.EventImageBase64,
			EventInstruction: req.EventInstruction,
		})
		if err != nil {
			log.Error("failed to add event", sl.Err(err))
			failure.Render(w, r, err, "failed to add event")

			return
		}

		log.Info("event added", slog.String("id", created.ID))

		render.Status(r, http.StatusCreated)
		responseOK(w, r, created)
	}
}

func responseOK(w http.ResponseWriter, r *http.Request, ev *models.Event) {
	render.JSON(w, r, EventResponse{
		Response: response.OK(),
		Event:    ev,
	})
}
