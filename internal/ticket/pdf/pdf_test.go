package pdf

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"eventure/internal/models"
	"eventure/internal/ticket/qr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingQR struct{}

func (failingQR) PNG(string, int) ([]byte, error) {
	return nil, errors.New("encoder broken")
}

func ticketData() *models.PdfTicketData {
	return &models.PdfTicketData{
		Booking: &models.BookingDetails{
			ID:          "b1",
			TicketCount: 2,
			Tickets: []models.Ticket{
				{TicketID: "T00000001", Price: 25, EventID: "e1"},
				{TicketID: "T00000002", Price: 25, EventID: "e1"},
			},
		},
		Event: &models.Event{
			ID:               "e1",
			EventName:        "Café Concert",
			EventDateTime:    time.Date(2030, 5, 1, 19, 0, 0, 0, time.UTC),
			Address:          "1 Main St",
			City:             "Austin",
			State:            "TX",
			ZipCode:          "73301",
			EventInstruction: "Doors open at 18:00",
		},
		User: &models.User{ID: "u1", FirstName: "Ada", LastName: "Lovelace"},
	}
}

func TestGenerateTicketPdf(t *testing.T) {
	t.Parallel()

	out, err := New(qr.New()).GenerateTicketPdf(ticketData())
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestGenerateTicketPdf_Errors(t *testing.T) {
	t.Parallel()

	_, err := New(qr.New()).GenerateTicketPdf(&models.PdfTicketData{})
	assert.ErrorIs(t, err, ErrRender)

	_, err = New(failingQR{}).GenerateTicketPdf(ticketData())
	assert.ErrorContains(t, err, "encoder broken")
}
