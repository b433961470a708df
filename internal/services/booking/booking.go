// Package booking books and cancels tickets against event inventory and
// assembles booking, QR and PDF ticket data.
package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"eventure/internal/geocoding"
	"eventure/internal/lib/logger/sl"
	"eventure/internal/models"
	"eventure/internal/notify/email"
	"eventure/internal/services"
	"eventure/internal/storage"

	"github.com/google/uuid"
)

const (
	qrWidth  = 200
	qrHeight = 200

	defaultInstruction = "No specific instructions provided."
	cancelledMessage   = "Booking cancelled successfully."
)

type UserProvider interface {
	User(ctx context.Context, id string) (*models.User, error)
}

// EventStore owns event inventory. BookTickets and CancelBooking change
// the inventory and the booking together or not at all.
type EventStore interface {
	Event(ctx context.Context, id string) (*models.Event, error)
	BookTickets(ctx context.Context, eventID string, b *models.BookingDetails) (*models.BookingDetails, *models.Event, error)
	CancelBooking(ctx context.Context, bookingID, eventID string, count int) (*models.Event, error)
}

type BookingStore interface {
	Booking(ctx context.Context, id string) (*models.BookingDetails, error)
}

type Notifier interface {
	Notify(ctx context.Context, msg email.Message) error
}

type QRGenerator interface {
	Generate(payload string, width, height int) (string, error)
}

type PdfRenderer interface {
	GenerateTicketPdf(data *models.PdfTicketData) ([]byte, error)
}

type Manager struct {
	log      *slog.Logger
	users    UserProvider
	events   EventStore
	bookings BookingStore
	notifier Notifier
	qr       QRGenerator
	pdf      PdfRenderer
	now      func() time.Time
}

func New(
	log *slog.Logger,
	users UserProvider,
	events EventStore,
	bookings BookingStore,
	notifier Notifier,
	qr QRGenerator,
	pdf PdfRenderer,
) *Manager {
	return &Manager{
		log:      log,
		users:    users,
		events:   events,
		bookings: bookings,
		notifier: notifier,
		qr:       qr,
		pdf:      pdf,
		now:      time.Now,
	}
}

// BookEvent admits req.TicketCount tickets for the event. Every check runs
// before inventory is touched. Tickets are taken and the booking is saved
// in one storage call, so a lost race reports services.ErrCapacityExceeded
// and a failed save leaves the inventory as it was.
func (m *Manager) BookEvent(ctx context.Context, req models.BookingRequest) (*models.BookingResponse, error) {
	const op = "services.booking.BookEvent"

	log := m.log.With(
		slog.String("op", op),
		slog.String("user_id", req.UserID),
		slog.String("event_id", req.EventID),
	)

	if req.TicketCount <= 0 {
		return nil, fmt.Errorf("ticket count must be positive: %w", services.ErrValidation)
	}

	user, err := m.users.User(ctx, req.UserID)
	if err != nil {
		return nil, lookupErr(op, "user", req.UserID, err)
	}

	ev, err := m.events.Event(ctx, req.EventID)
	if err != nil {
		return nil, lookupErr(op, "event", req.EventID, err)
	}

	if req.TicketCount > ev.AvailableTickets {
		return nil, fmt.Errorf("only %d tickets available, but %d requested: %w",
			ev.AvailableTickets, req.TicketCount, services.ErrCapacityExceeded)
	}

	if !req.PaymentStatus {
		return nil, fmt.Errorf("payment was not successful, booking aborted: %w", services.ErrPaymentRequired)
	}

	booking, updated, err := m.events.BookTickets(ctx, ev.ID, &models.BookingDetails{
		UserID:           req.UserID,
		TicketCount:      req.TicketCount,
		TotalTicketPrice: req.TotalTicketPrice,
		Tickets:          newTickets(req.TicketCount, req.TicketPrice, ev.ID),
		BookingStatus:    models.StatusConfirmed,
		CreatedAt:        m.now().UTC(),
	})
	if err != nil {
		if errors.Is(err, storage.ErrNotEnoughTickets) {
			return nil, fmt.Errorf("tickets sold out while booking: %w", services.ErrCapacityExceeded)
		}
		return nil, lookupErr(op, "event", ev.ID, err)
	}

	log.Info("event booked",
		slog.String("booking_id", booking.ID),
		slog.Int("ticket_count", booking.TicketCount),
	)

	m.notify(ctx, log, confirmationMessage(user, updated, booking))

	return &models.BookingResponse{
		Booking: booking,
		User:    user,
		Event:   updated,
	}, nil
}

// GetBookingDetailsWithQrCodes returns the booking with a QR image per
// ticket. QR failures and a missing event or user do not fail the call.
func (m *Manager) GetBookingDetailsWithQrCodes(ctx context.Context, bookingID, requestingUserID string) (*models.BookingResponse, error) {
	const op = "services.booking.GetBookingDetailsWithQrCodes"

	log := m.log.With(slog.String("op", op), slog.String("booking_id", bookingID))

	booking, err := m.ownedBooking(ctx, op, bookingID, requestingUserID)
	if err != nil {
		return nil, err
	}

	if len(booking.Tickets) == 0 {
		log.Warn("booking has no tickets")
	}

	for i := range booking.Tickets {
		t := &booking.Tickets[i]
		t.QRCodeImageBase64 = ""

		if t.TicketID == "" {
			continue
		}

		img, err := m.qr.Generate(t.TicketID, qrWidth, qrHeight)
		if err != nil {
			log.Error("failed to generate qr code", slog.String("ticket_id", t.TicketID), sl.Err(err))
			continue
		}
		t.QRCodeImageBase64 = img
	}

	var ev *models.Event
	if eventID, ok := booking.EventID(); ok {
		ev, err = m.events.Event(ctx, eventID)
		if err != nil && !errors.Is(err, storage.ErrEventNotFound) {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}
	if ev == nil {
		log.Warn("event details not found for booking")
	}

	user, err := m.users.User(ctx, booking.UserID)
	if err != nil && !errors.Is(err, storage.ErrUserNotFound) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if user == nil {
		log.Warn("user details not found for booking")
	}

	return &models.BookingResponse{
		Booking: booking,
		User:    user,
		Event:   ev,
	}, nil
}

// CancelBooking moves a confirmed booking to CANCELLED and gives its
// tickets back to the event. It succeeds at most once per booking.
func (m *Manager) CancelBooking(ctx context.Context, bookingID, userID string) (string, error) {
	const op = "services.booking.CancelBooking"

	log := m.log.With(
		slog.String("op", op),
		slog.String("booking_id", bookingID),
		slog.String("user_id", userID),
	)

	booking, err := m.bookings.Booking(ctx, bookingID)
	if err != nil {
		return "", lookupErr(op, "booking", bookingID, err)
	}

	if booking.UserID != userID {
		return "", fmt.Errorf("booking does not belong to user %s: %w", userID, services.ErrForbidden)
	}

	if strings.EqualFold(booking.BookingStatus, models.StatusCancelled) {
		return "", fmt.Errorf("booking %s: %w", bookingID, services.ErrAlreadyCancelled)
	}

	eventID, ok := booking.EventID()
	if !ok {
		return "", fmt.Errorf("booking %s has no tickets: %w", bookingID, services.ErrDataInconsistency)
	}

	user, err := m.users.User(ctx, userID)
	if err != nil {
		return "", lookupErr(op, "user", userID, err)
	}

	if _, err = m.events.Event(ctx, eventID); err != nil {
		return "", lookupErr(op, "event", eventID, err)
	}

	updated, err := m.events.CancelBooking(ctx, bookingID, eventID, booking.TicketCount)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrBookingNotConfirmed):
			return "", fmt.Errorf("booking %s: %w", bookingID, services.ErrAlreadyCancelled)
		case errors.Is(err, storage.ErrEventNotFound):
			return "", lookupErr(op, "event", eventID, err)
		}
		return "", lookupErr(op, "booking", bookingID, err)
	}

	log.Info("booking cancelled", slog.Int("ticket_count", booking.TicketCount))

	m.notify(ctx, log, cancellationMessage(user, updated))

	return cancelledMessage, nil
}

// GetPdfGenerationData collects everything a printable ticket needs.
// Unlike GetBookingDetailsWithQrCodes, the event and user are mandatory.
func (m *Manager) GetPdfGenerationData(ctx context.Context, bookingID, requestingUserID string) (*models.PdfTicketData, error) {
	const op = "services.booking.GetPdfGenerationData"

	booking, err := m.ownedBooking(ctx, op, bookingID, requestingUserID)
	if err != nil {
		return nil, err
	}

	eventID, ok := booking.EventID()
	if !ok {
		return nil, fmt.Errorf("cannot determine event for booking %s: %w", bookingID, services.ErrDataInconsistency)
	}

	ev, err := m.events.Event(ctx, eventID)
	if err != nil {
		return nil, lookupErr(op, "event", eventID, err)
	}

	user, err := m.users.User(ctx, booking.UserID)
	if err != nil {
		return nil, lookupErr(op, "user", booking.UserID, err)
	}

	return &models.PdfTicketData{
		Booking: booking,
		Event:   ev,
		User:    user,
	}, nil
}

func (m *Manager) GeneratePdf(ctx context.Context, bookingID, requestingUserID string) ([]byte, error) {
	const op = "services.booking.GeneratePdf"

	data, err := m.GetPdfGenerationData(ctx, bookingID, requestingUserID)
	if err != nil {
		return nil, err
	}

	out, err := m.pdf.GenerateTicketPdf(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

func (m *Manager) ownedBooking(ctx context.Context, op, bookingID, userID string) (*models.BookingDetails, error) {
	booking, err := m.bookings.Booking(ctx, bookingID)
	if err != nil {
		return nil, lookupErr(op, "booking", bookingID, err)
	}

	if booking.UserID != userID {
		return nil, fmt.Errorf("user not authorized to view booking %s: %w", bookingID, services.ErrForbidden)
	}

	return booking, nil
}

func (m *Manager) notify(ctx context.Context, log *slog.Logger, msg email.Message) {
	if err := m.notifier.Notify(ctx, msg); err != nil {
		log.Error("failed to queue email", slog.String("template", msg.Template), sl.Err(err))
	}
}

// newTickets issues count tickets whose ids are unique within the booking.
func newTickets(count int, price float64, eventID string) []models.Ticket {
	tickets := make([]models.Ticket, 0, count)
	seen := make(map[string]struct{}, count)

	for len(tickets) < count {
		id := "T" + uuid.NewString()[:8]
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		tickets = append(tickets, models.Ticket{
			TicketID: id,
			Price:    price,
			EventID:  eventID,
		})
	}

	return tickets
}

func eventVars(user *models.User, ev *models.Event) map[string]string {
	return map[string]string{
		"userName":     user.FullName(),
		"eventName":    ev.EventName,
		"eventDate":    ev.EventDateTime.Format("2006-01-02 15:04"),
		"eventAddress": fmt.Sprintf("%s, %s, %s %s", ev.Address, ev.City, ev.State, ev.ZipCode),
	}
}

func confirmationMessage(user *models.User, ev *models.Event, booking *models.BookingDetails) email.Message {
	vars := eventVars(user, ev)

	vars["eventInstruction"] = ev.EventInstruction
	if ev.EventInstruction == "" {
		vars["eventInstruction"] = defaultInstruction
	}
	vars["gmapUrl"] = geocoding.MapLink(strings.Join([]string{ev.Address, ev.City, ev.State, ev.ZipCode}, ","))

	return email.Message{
		To:       user.Email,
		Subject:  "Booking Confirmation - " + ev.EventName,
		Template: email.TemplateBookingConfirmation,
		Vars:     vars,
		Tickets:  booking.Tickets,
	}
}

func cancellationMessage(user *models.User, ev *models.Event) email.Message {
	return email.Message{
		To:       user.Email,
		Subject:  "Booking Cancelled - " + ev.EventName,
		Template: email.TemplateBookingCancellation,
		Vars:     eventVars(user, ev),
	}
}

// lookupErr turns a storage miss into services.ErrNotFound and wraps
// anything else with op.
func lookupErr(op, kind, id string, err error) error {
	switch {
	case errors.Is(err, storage.ErrUserNotFound),
		errors.Is(err, storage.ErrEventNotFound),
		errors.Is(err, storage.ErrBookingNotFound):
		return fmt.Errorf("%s %s: %w", kind, id, services.ErrNotFound)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
