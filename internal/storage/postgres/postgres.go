package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"eventure/internal/config"
	"eventure/internal/models"
	"eventure/internal/storage"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

//go:embed schema.sql
var schema string

const eventColumns = `id, organizer_id, event_name, description, event_date_time,
		address, city, state, zip_code, event_capacity, available_tickets,
		event_attendees, ticket_price, event_image_base64, event_instruction,
		latitude, longitude, gmap_url, version`

const bookingColumns = `id, user_id, ticket_count, total_ticket_price, tickets, booking_status, created_at`

type Storage struct {
	DB *sql.DB
}

func InitDB(dbCfg *config.Database) (*Storage, error) {
	db, err := sql.Open("postgres", dbCfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to the database: %w", err)
	}

	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to the database: %w", err)
	}

	return &Storage{DB: db}, nil
}

// Migrate creates the tables if they do not exist yet.
func (s *Storage) Migrate(ctx context.Context) error {
	if _, err := s.DB.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

func (s *Storage) Close() error {
	return s.DB.Close()
}

func (s *Storage) User(ctx context.Context, id string) (*models.User, error) {
	query := `
		SELECT id, first_name, last_name, email, user_type
		FROM users
		WHERE id = $1`

	var u models.User
	err := s.DB.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.UserType)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &u, nil
}

func (s *Storage) CreateEvent(ctx context.Context, ev *models.Event) (*models.Event, error) {
	query := `
		INSERT INTO events (` + eventColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, 1)
		RETURNING ` + eventColumns

	id := ev.ID
	if id == "" {
		id = uuid.NewString()
	}
	lat, lng, gmap := locationArgs(ev.Location)

	row := s.DB.QueryRowContext(ctx, query,
		id, ev.OrganizerID, ev.EventName, ev.Desc, ev.EventDateTime,
		ev.Address, ev.City, ev.State, ev.ZipCode, ev.EventCapacity, ev.AvailableTickets,
		ev.EventAttendees, ev.TicketPrice, ev.EventImageBase64, ev.EventInstruction,
		lat, lng, gmap,
	)

	saved, err := scanEvent(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	return saved, nil
}

func (s *Storage) Event(ctx context.Context, id string) (*models.Event, error) {
	return selectEvent(ctx, s.DB, id)
}

// UpdateEvent writes every mutable column, guarded by the version the
// caller read. Inventory counters are included, so a booking that landed
// in between makes the write fail with storage.ErrVersionMismatch.
func (s *Storage) UpdateEvent(ctx context.Context, ev *models.Event) (*models.Event, error) {
	query := `
		UPDATE events
		SET event_name = $3, description = $4, event_date_time = $5,
			address = $6, city = $7, state = $8, zip_code = $9,
			event_capacity = $10, available_tickets = $11, event_attendees = $12,
			ticket_price = $13, event_image_base64 = $14, event_instruction = $15,
			latitude = $16, longitude = $17, gmap_url = $18,
			version = version + 1
		WHERE id = $1 AND version = $2
		RETURNING ` + eventColumns

	lat, lng, gmap := locationArgs(ev.Location)

	row := s.DB.QueryRowContext(ctx, query,
		ev.ID, ev.Version, ev.EventName, ev.Desc, ev.EventDateTime,
		ev.Address, ev.City, ev.State, ev.ZipCode,
		ev.EventCapacity, ev.AvailableTickets, ev.EventAttendees,
		ev.TicketPrice, ev.EventImageBase64, ev.EventInstruction,
		lat, lng, gmap,
	)

	saved, err := scanEvent(row)
	if err == nil {
		return saved, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	if _, err = s.Event(ctx, ev.ID); err != nil {
		return nil, err
	}

	return nil, storage.ErrVersionMismatch
}

func (s *Storage) UpcomingEvents(ctx context.Context, after time.Time) ([]models.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE event_date_time > $1
		ORDER BY event_date_time ASC`

	return s.queryEvents(ctx, query, after)
}

func (s *Storage) EventsByOrganizer(ctx context.Context, organizerID string) ([]models.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE organizer_id = $1
		ORDER BY event_date_time ASC`

	return s.queryEvents(ctx, query, organizerID)
}

// BookTickets takes b.TicketCount tickets from the event and inserts b in
// one transaction. When either step fails nothing is committed.
func (s *Storage) BookTickets(ctx context.Context, eventID string, b *models.BookingDetails) (*models.BookingDetails, *models.Event, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	ev, err := reserveTickets(ctx, tx, eventID, b.TicketCount)
	if err != nil {
		return nil, nil, err
	}

	saved, err := insertBooking(ctx, tx, b)
	if err != nil {
		return nil, nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("failed to commit booking: %w", err)
	}

	return saved, ev, nil
}

func (s *Storage) Booking(ctx context.Context, id string) (*models.BookingDetails, error) {
	return selectBooking(ctx, s.DB, id)
}

// CancelBooking flips a confirmed booking to cancelled and gives count
// tickets back to the event in one transaction. Only one caller can win
// the transition, and a failed release leaves the booking confirmed.
func (s *Storage) CancelBooking(ctx context.Context, bookingID, eventID string, count int) (*models.Event, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err = cancelBooking(ctx, tx, bookingID); err != nil {
		return nil, err
	}

	ev, err := releaseTickets(ctx, tx, eventID, count)
	if err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit cancellation: %w", err)
	}

	return ev, nil
}

func (s *Storage) BookingsByUser(ctx context.Context, userID, status string) ([]models.BookingDetails, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE user_id = $1 AND booking_status = $2
		ORDER BY created_at DESC`

	rows, err := s.DB.QueryContext(ctx, query, userID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to get bookings: %w", err)
	}
	defer rows.Close()

	var bookings []models.BookingDetails
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, *b)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bookings: %w", err)
	}

	return bookings, nil
}

func (s *Storage) queryEvents(ctx context.Context, query string, args ...any) ([]models.Event, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get events: %w", err)
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, *ev)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}

	return events, nil
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func selectEvent(ctx context.Context, q querier, id string) (*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	ev, err := scanEvent(q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	return ev, nil
}

func selectBooking(ctx context.Context, q querier, id string) (*models.BookingDetails, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	b, err := scanBooking(q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	return b, nil
}

// reserveTickets is a conditional decrement, so concurrent reservations
// can never take the counter below zero.
func reserveTickets(ctx context.Context, q querier, eventID string, count int) (*models.Event, error) {
	query := `
		UPDATE events
		SET available_tickets = available_tickets - $2,
			event_attendees = event_attendees + $2,
			version = version + 1
		WHERE id = $1 AND available_tickets >= $2
		RETURNING ` + eventColumns

	ev, err := scanEvent(q.QueryRowContext(ctx, query, eventID, count))
	if err == nil {
		return ev, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to reserve tickets: %w", err)
	}

	if _, err = selectEvent(ctx, q, eventID); err != nil {
		return nil, err
	}

	return nil, storage.ErrNotEnoughTickets
}

func releaseTickets(ctx context.Context, q querier, eventID string, count int) (*models.Event, error) {
	query := `
		UPDATE events
		SET available_tickets = available_tickets + $2,
			event_attendees = GREATEST(0, event_attendees - $2),
			version = version + 1
		WHERE id = $1
		RETURNING ` + eventColumns

	ev, err := scanEvent(q.QueryRowContext(ctx, query, eventID, count))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to release tickets: %w", err)
	}

	return ev, nil
}

func insertBooking(ctx context.Context, q querier, b *models.BookingDetails) (*models.BookingDetails, error) {
	query := `
		INSERT INTO bookings (` + bookingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + bookingColumns

	id := b.ID
	if id == "" {
		id = uuid.NewString()
	}
	createdAt := b.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	tickets, err := json.Marshal(b.Tickets)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tickets: %w", err)
	}

	row := q.QueryRowContext(ctx, query,
		id, b.UserID, b.TicketCount, b.TotalTicketPrice, string(tickets), b.BookingStatus, createdAt,
	)

	saved, err := scanBooking(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	return saved, nil
}

func cancelBooking(ctx context.Context, q querier, id string) error {
	query := `
		UPDATE bookings
		SET booking_status = $2
		WHERE id = $1 AND booking_status = $3`

	result, err := q.ExecContext(ctx, query, id, models.StatusCancelled, models.StatusConfirmed)
	if err != nil {
		return fmt.Errorf("failed to cancel booking: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to cancel booking: %w", err)
	}
	if rowsAffected > 0 {
		return nil
	}

	if _, err = selectBooking(ctx, q, id); err != nil {
		return err
	}

	return storage.ErrBookingNotConfirmed
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEvent(row scanner) (*models.Event, error) {
	var (
		ev       models.Event
		lat, lng sql.NullFloat64
		gmap     sql.NullString
	)

	err := row.Scan(
		&ev.ID, &ev.OrganizerID, &ev.EventName, &ev.Desc, &ev.EventDateTime,
		&ev.Address, &ev.City, &ev.State, &ev.ZipCode, &ev.EventCapacity, &ev.AvailableTickets,
		&ev.EventAttendees, &ev.TicketPrice, &ev.EventImageBase64, &ev.EventInstruction,
		&lat, &lng, &gmap, &ev.Version,
	)
	if err != nil {
		return nil, err
	}

	if lat.Valid && lng.Valid {
		ev.Location = &models.Location{
			Latitude:  lat.Float64,
			Longitude: lng.Float64,
			GmapURL:   gmap.String,
		}
	}

	return &ev, nil
}

func scanBooking(row scanner) (*models.BookingDetails, error) {
	var (
		b       models.BookingDetails
		tickets []byte
	)

	err := row.Scan(&b.ID, &b.UserID, &b.TicketCount, &b.TotalTicketPrice, &tickets, &b.BookingStatus, &b.CreatedAt)
	if err != nil {
		return nil, err
	}

	if err = json.Unmarshal(tickets, &b.Tickets); err != nil {
		return nil, fmt.Errorf("failed to decode tickets: %w", err)
	}

	return &b, nil
}

func locationArgs(loc *models.Location) (lat, lng, gmap any) {
	if loc == nil {
		return nil, nil, nil
	}
	return loc.Latitude, loc.Longitude, loc.GmapURL
}
