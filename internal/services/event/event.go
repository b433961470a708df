// Package event creates, lists and updates events on behalf of organizers.
package event

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"eventure/internal/models"
	"eventure/internal/services"
	"eventure/internal/storage"
)

// MaxImageBytes bounds the decoded size of an event banner.
const MaxImageBytes = 2 * 1024 * 1024

type UserProvider interface {
	User(ctx context.Context, id string) (*models.User, error)
}

type EventStore interface {
	CreateEvent(ctx context.Context, ev *models.Event) (*models.Event, error)
	Event(ctx context.Context, id string) (*models.Event, error)
	UpdateEvent(ctx context.Context, ev *models.Event) (*models.Event, error)
	UpcomingEvents(ctx context.Context, after time.Time) ([]models.Event, error)
	EventsByOrganizer(ctx context.Context, organizerID string) ([]models.Event, error)
}

type BookingLister interface {
	BookingsByUser(ctx context.Context, userID, status string) ([]models.BookingDetails, error)
}

type Geocoder interface {
	Enrich(ctx context.Context, ev *models.Event)
}

type Manager struct {
	log      *slog.Logger
	users    UserProvider
	events   EventStore
	bookings BookingLister
	geocoder Geocoder
	now      func() time.Time
}

func New(log *slog.Logger, users UserProvider, events EventStore, bookings BookingLister, geocoder Geocoder) *Manager {
	return &Manager{
		log:      log,
		users:    users,
		events:   events,
		bookings: bookings,
		geocoder: geocoder,
		now:      time.Now,
	}
}

// CreateEvent stores a new event for a manager. The inventory starts full
// regardless of the counters sent by the caller.
func (m *Manager) CreateEvent(ctx context.Context, ev *models.Event) (*models.Event, error) {
	const op = "services.event.CreateEvent"

	log := m.log.With(slog.String("op", op), slog.String("organizer_id", ev.OrganizerID))

	organizer, err := m.users.User(ctx, ev.OrganizerID)
	if err != nil {
		return nil, lookupErr(op, "organizer", ev.OrganizerID, err)
	}

	if !organizer.IsManager() {
		return nil, fmt.Errorf("only managers can create events: %w", services.ErrForbidden)
	}

	if size := decodedSize(ev.EventImageBase64); size > MaxImageBytes {
		return nil, fmt.Errorf("image size %d exceeds the 2MB limit: %w", size, services.ErrPayloadTooLarge)
	}

	if !ev.HasAddress() {
		return nil, fmt.Errorf("address, city, state and zip code are required: %w", services.ErrValidation)
	}

	draft := *ev
	draft.ID = ""
	draft.EventAttendees = 0
	draft.AvailableTickets = draft.EventCapacity
	draft.Location = nil

	m.geocoder.Enrich(ctx, &draft)

	created, err := m.events.CreateEvent(ctx, &draft)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("event created", slog.String("event_id", created.ID))

	return created, nil
}

// GetAllEvents lists events that have not started yet.
func (m *Manager) GetAllEvents(ctx context.Context) ([]models.Event, error) {
	const op = "services.event.GetAllEvents"

	events, err := m.events.UpcomingEvents(ctx, m.now())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return events, nil
}

func (m *Manager) GetEventByID(ctx context.Context, id string) (*models.Event, error) {
	const op = "services.event.GetEventByID"

	ev, err := m.events.Event(ctx, id)
	if err != nil {
		return nil, lookupErr(op, "event", id, err)
	}

	return ev, nil
}

// GetEventsByUserID pairs each confirmed booking of the user with its event.
func (m *Manager) GetEventsByUserID(ctx context.Context, userID string) ([]models.EventByUserResponse, error) {
	const op = "services.event.GetEventsByUserID"

	bookings, err := m.bookings.BookingsByUser(ctx, userID, models.StatusConfirmed)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]models.EventByUserResponse, 0, len(bookings))
	for i := range bookings {
		b := &bookings[i]

		eventID, ok := b.EventID()
		if !ok {
			return nil, fmt.Errorf("booking %s has no tickets: %w", b.ID, services.ErrDataInconsistency)
		}

		ev, err := m.events.Event(ctx, eventID)
		if err != nil {
			if errors.Is(err, storage.ErrEventNotFound) {
				return nil, fmt.Errorf("event %s of booking %s no longer exists: %w",
					eventID, b.ID, services.ErrDataInconsistency)
			}
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		out = append(out, models.EventByUserResponse{
			Booking: b,
			Event:   ev,
		})
	}

	return out, nil
}

func (m *Manager) GetOrganizerEventsList(ctx context.Context, organizerID string) ([]models.Event, error) {
	const op = "services.event.GetOrganizerEventsList"

	if organizerID == "" {
		return nil, fmt.Errorf("organizer id is required: %w", services.ErrValidation)
	}

	events, err := m.events.EventsByOrganizer(ctx, organizerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return events, nil
}

// UpdateEvent applies patch on behalf of the event's organizer. The write
// is rejected with services.ErrConflict if the event changed since it was
// read, bookings included.
func (m *Manager) UpdateEvent(ctx context.Context, id string, patch *models.EventPatch, userID string) (*models.Event, error) {
	const op = "services.event.UpdateEvent"

	log := m.log.With(slog.String("op", op), slog.String("event_id", id))

	ev, err := m.events.Event(ctx, id)
	if err != nil {
		return nil, lookupErr(op, "event", id, err)
	}

	if ev.OrganizerID != userID {
		return nil, fmt.Errorf("user %s is not the organizer of event %s: %w", userID, id, services.ErrForbidden)
	}

	if patch.EventCapacity != nil && *patch.EventCapacity < 0 {
		return nil, fmt.Errorf("event capacity cannot be negative: %w", services.ErrValidation)
	}

	patch.Apply(ev)

	m.geocoder.Enrich(ctx, ev)

	updated, err := m.events.UpdateEvent(ctx, ev)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrVersionMismatch):
			return nil, fmt.Errorf("event %s was modified concurrently: %w", id, services.ErrConflict)
		case errors.Is(err, storage.ErrEventNotFound):
			return nil, fmt.Errorf("event %s: %w", id, services.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("event updated", slog.Int("available_tickets", updated.AvailableTickets))

	return updated, nil
}

// decodedSize estimates the byte size behind a base64 string.
func decodedSize(b64 string) int {
	return len(b64) * 3 / 4
}

func lookupErr(op, kind, id string, err error) error {
	switch {
	case errors.Is(err, storage.ErrUserNotFound),
		errors.Is(err, storage.ErrEventNotFound):
		return fmt.Errorf("%s %s: %w", kind, id, services.ErrNotFound)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
