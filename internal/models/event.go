package models

import (
	"strings"
	"time"
)

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	GmapURL   string  `json:"gmap_url"`
}

type Event struct {
	ID               string    `json:"id"`
	OrganizerID      string    `json:"organizer_id"`
	EventName        string    `json:"event_name"`
	Desc             string    `json:"desc,omitempty"`
	EventDateTime    time.Time `json:"event_date_time"`
	Address          string    `json:"address"`
	City             string    `json:"city"`
	State            string    `json:"state"`
	ZipCode          string    `json:"zip_code"`
	EventCapacity    int       `json:"event_capacity"`
	AvailableTickets int       `json:"available_tickets"`
	EventAttendees   int       `json:"event_attendees"`
	TicketPrice      float64   `json:"ticket_price"`
	EventImageBase64 string    `json:"event_image_base64,omitempty"`
	EventInstruction string    `json:"event_instruction,omitempty"`
	Location         *Location `json:"location,omitempty"`
	Version          int       `json:"version"`
}

// FullAddress joins the postal address parts the way they are geocoded.
func (e *Event) FullAddress() string {
	return strings.Join([]string{e.Address, e.City, e.State, e.ZipCode}, ", ")
}

// HasAddress reports whether every postal address part is present.
func (e *Event) HasAddress() bool {
	return e.Address != "" && e.City != "" && e.State != "" && e.ZipCode != ""
}

// EventPatch carries a partial event update. A nil field leaves the
// corresponding event field unchanged.
type EventPatch struct {
	Desc             *string    `json:"desc,omitempty"`
	TicketPrice      *float64   `json:"ticket_price,omitempty"`
	EventDateTime    *time.Time `json:"event_date_time,omitempty"`
	Address          *string    `json:"address,omitempty"`
	City             *string    `json:"city,omitempty"`
	State            *string    `json:"state,omitempty"`
	ZipCode          *string    `json:"zip_code,omitempty"`
	EventInstruction *string    `json:"event_instruction,omitempty"`
	EventCapacity    *int       `json:"event_capacity,omitempty" validate:"omitempty,gte=0"`
}

// Apply copies the present patch fields onto e. Capacity changes shift
// AvailableTickets by the same delta, floored at zero, so tickets already
// sold stay accounted for.
func (p *EventPatch) Apply(e *Event) {
	if p.Desc != nil {
		e.Desc = *p.Desc
	}
	if p.TicketPrice != nil {
		e.TicketPrice = *p.TicketPrice
	}
	if p.EventDateTime != nil {
		e.EventDateTime = *p.EventDateTime
	}
	if p.City != nil {
		e.City = *p.City
	}
	if p.State != nil {
		e.State = *p.State
	}
	if p.ZipCode != nil {
		e.ZipCode = *p.ZipCode
	}
	if p.Address != nil {
		e.Address = *p.Address
	}
	if p.EventInstruction != nil {
		e.EventInstruction = *p.EventInstruction
	}
	if p.EventCapacity != nil {
		available := e.AvailableTickets + (*p.EventCapacity - e.EventCapacity)
		if available < 0 {
			available = 0
		}
		e.EventCapacity = *p.EventCapacity
		e.AvailableTickets = available
	}
}
