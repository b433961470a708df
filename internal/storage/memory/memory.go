// Package memory keeps users, events and bookings in process memory. It
// offers the same atomic inventory guarantees as the postgres storage.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"eventure/internal/models"
	"eventure/internal/storage"

	"github.com/google/uuid"
)

type Storage struct {
	mu       sync.RWMutex
	users    map[string]models.User
	events   map[string]models.Event
	bookings map[string]models.BookingDetails
}

func New() *Storage {
	return &Storage{
		users:    make(map[string]models.User),
		events:   make(map[string]models.Event),
		bookings: make(map[string]models.BookingDetails),
	}
}

func (s *Storage) Close() error {
	return nil
}

// AddUser registers a user. Users are owned by an external system, so this
// is the only way they get into the store.
func (s *Storage) AddUser(u models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	s.users[u.ID] = u
}

func (s *Storage) User(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	return &u, nil
}

func (s *Storage) CreateEvent(_ context.Context, ev *models.Event) (*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	saved := cloneEvent(*ev)
	if saved.ID == "" {
		saved.ID = uuid.NewString()
	}
	saved.Version = 1
	s.events[saved.ID] = saved

	out := cloneEvent(saved)
	return &out, nil
}

func (s *Storage) Event(_ context.Context, id string) (*models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ev, ok := s.events[id]
	if !ok {
		return nil, storage.ErrEventNotFound
	}
	out := cloneEvent(ev)
	return &out, nil
}

func (s *Storage) UpdateEvent(_ context.Context, ev *models.Event) (*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.events[ev.ID]
	if !ok {
		return nil, storage.ErrEventNotFound
	}
	if cur.Version != ev.Version {
		return nil, storage.ErrVersionMismatch
	}

	saved := cloneEvent(*ev)
	saved.Version++
	s.events[saved.ID] = saved

	out := cloneEvent(saved)
	return &out, nil
}

func (s *Storage) UpcomingEvents(_ context.Context, after time.Time) ([]models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var events []models.Event
	for _, ev := range s.events {
		if ev.EventDateTime.After(after) {
			events = append(events, cloneEvent(ev))
		}
	}
	slices.SortFunc(events, byEventDate)
	return events, nil
}

func (s *Storage) EventsByOrganizer(_ context.Context, organizerID string) ([]models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var events []models.Event
	for _, ev := range s.events {
		if ev.OrganizerID == organizerID {
			events = append(events, cloneEvent(ev))
		}
	}
	slices.SortFunc(events, byEventDate)
	return events, nil
}

// BookTickets takes b.TicketCount tickets from the event and saves b under
// one lock. Every check runs before anything is written.
func (s *Storage) BookTickets(_ context.Context, eventID string, b *models.BookingDetails) (*models.BookingDetails, *models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ev, ok := s.events[eventID]
	if !ok {
		return nil, nil, storage.ErrEventNotFound
	}
	if ev.AvailableTickets < b.TicketCount {
		return nil, nil, storage.ErrNotEnoughTickets
	}

	saved, err := s.newBooking(b)
	if err != nil {
		return nil, nil, err
	}

	ev.AvailableTickets -= b.TicketCount
	ev.EventAttendees += b.TicketCount
	ev.Version++
	s.events[eventID] = ev
	s.bookings[saved.ID] = saved

	outBooking, outEvent := cloneBooking(saved), cloneEvent(ev)
	return &outBooking, &outEvent, nil
}

// CreateBooking saves a booking without touching inventory. Bookings made
// through the service go through BookTickets.
func (s *Storage) CreateBooking(_ context.Context, b *models.BookingDetails) (*models.BookingDetails, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	saved, err := s.newBooking(b)
	if err != nil {
		return nil, err
	}
	s.bookings[saved.ID] = saved

	out := cloneBooking(saved)
	return &out, nil
}

func (s *Storage) Booking(_ context.Context, id string) (*models.BookingDetails, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.bookings[id]
	if !ok {
		return nil, storage.ErrBookingNotFound
	}
	out := cloneBooking(b)
	return &out, nil
}

// CancelBooking flips a confirmed booking to cancelled and gives count
// tickets back to the event under one lock. A missing event leaves the
// booking confirmed.
func (s *Storage) CancelBooking(_ context.Context, bookingID, eventID string, count int) (*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[bookingID]
	if !ok {
		return nil, storage.ErrBookingNotFound
	}
	if b.BookingStatus != models.StatusConfirmed {
		return nil, storage.ErrBookingNotConfirmed
	}

	ev, ok := s.events[eventID]
	if !ok {
		return nil, storage.ErrEventNotFound
	}

	b.BookingStatus = models.StatusCancelled
	s.bookings[bookingID] = b

	ev.AvailableTickets += count
	ev.EventAttendees = max(0, ev.EventAttendees-count)
	ev.Version++
	s.events[eventID] = ev

	out := cloneEvent(ev)
	return &out, nil
}

func (s *Storage) BookingsByUser(_ context.Context, userID, status string) ([]models.BookingDetails, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var bookings []models.BookingDetails
	for _, b := range s.bookings {
		if b.UserID == userID && b.BookingStatus == status {
			bookings = append(bookings, cloneBooking(b))
		}
	}
	slices.SortFunc(bookings, func(a, b models.BookingDetails) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return bookings, nil
}

// newBooking fills in defaults for b. Callers hold s.mu.
func (s *Storage) newBooking(b *models.BookingDetails) (models.BookingDetails, error) {
	saved := cloneBooking(*b)
	if saved.ID == "" {
		saved.ID = uuid.NewString()
	}
	if saved.CreatedAt.IsZero() {
		saved.CreatedAt = time.Now().UTC()
	}
	if _, exists := s.bookings[saved.ID]; exists {
		return models.BookingDetails{}, fmt.Errorf("booking %s already exists", saved.ID)
	}

	return saved, nil
}

func byEventDate(a, b models.Event) int {
	return a.EventDateTime.Compare(b.EventDateTime)
}

func cloneEvent(ev models.Event) models.Event {
	if ev.Location != nil {
		loc := *ev.Location
		ev.Location = &loc
	}
	return ev
}

func cloneBooking(b models.BookingDetails) models.BookingDetails {
	if b.Tickets != nil {
		b.Tickets = append([]models.Ticket(nil), b.Tickets...)
	}
	return b
}
