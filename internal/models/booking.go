package models

import "time"

const (
	StatusConfirmed = "CONFIRMED"
	StatusCancelled = "CANCELLED"
)

type Ticket struct {
	TicketID          string  `json:"ticket_id"`
	Price             float64 `json:"price"`
	EventID           string  `json:"event_id"`
	QRCodeImageBase64 string  `json:"qr_code_image_base64,omitempty"`
}

type BookingDetails struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	TicketCount      int       `json:"ticket_count"`
	TotalTicketPrice float64   `json:"total_ticket_price"`
	Tickets          []Ticket  `json:"tickets"`
	BookingStatus    string    `json:"booking_status"`
	CreatedAt        time.Time `json:"created_at"`
}

// EventID resolves the booked event through the first ticket.
func (b *BookingDetails) EventID() (string, bool) {
	if len(b.Tickets) == 0 || b.Tickets[0].EventID == "" {
		return "", false
	}
	return b.Tickets[0].EventID, true
}

type BookingRequest struct {
	UserID           string  `json:"user_id" validate:"required"`
	EventID          string  `json:"event_id" validate:"required"`
	TicketCount      int     `json:"ticket_count" validate:"gt=0"`
	TicketPrice      float64 `json:"ticket_price" validate:"gte=0"`
	TotalTicketPrice float64 `json:"total_ticket_price" validate:"gte=0"`
	PaymentStatus    bool    `json:"payment_status"`
}

type BookingResponse struct {
	Booking *BookingDetails `json:"booking"`
	User    *User           `json:"user"`
	Event   *Event          `json:"event"`
}

type EventByUserResponse struct {
	Booking *BookingDetails `json:"booking"`
	Event   *Event          `json:"event"`
}

type PdfTicketData struct {
	Booking *BookingDetails
	Event   *Event
	User    *User
}
