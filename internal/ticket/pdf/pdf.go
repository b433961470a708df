// Package pdf renders printable tickets, one page per ticket.
package pdf

import (
	"bytes"
	"errors"
	"fmt"

	"eventure/internal/models"

	"github.com/go-pdf/fpdf"
)

const qrSize = 200

var ErrRender = errors.New("pdf rendering failed")

type QRCoder interface {
	PNG(payload string, size int) ([]byte, error)
}

type Renderer struct {
	qr QRCoder
}

func New(qr QRCoder) *Renderer {
	return &Renderer{qr: qr}
}

func (r *Renderer) GenerateTicketPdf(data *models.PdfTicketData) ([]byte, error) {
	const op = "pdf.GenerateTicketPdf"

	if data == nil || data.Booking == nil || data.Event == nil || data.User == nil {
		return nil, fmt.Errorf("%s: %w: incomplete ticket data", op, ErrRender)
	}

	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetTitle("Tickets - "+data.Event.EventName, true)
	tr := doc.UnicodeTranslatorFromDescriptor("")

	for i, t := range data.Booking.Tickets {
		doc.AddPage()

		doc.SetFont("Helvetica", "B", 22)
		doc.CellFormat(0, 12, tr(data.Event.EventName), "", 1, "C", false, 0, "")
		doc.Ln(4)

		doc.SetFont("Helvetica", "", 12)
		lines := []string{
			fmt.Sprintf("Ticket %d of %d: %s", i+1, len(data.Booking.Tickets), t.TicketID),
			"Attendee: " + data.User.FullName(),
			"Date: " + data.Event.EventDateTime.Format("Mon, 02 Jan 2006 15:04 MST"),
			"Venue: " + data.Event.FullAddress(),
			fmt.Sprintf("Price: %.2f", t.Price),
			"Booking: " + data.Booking.ID,
		}
		if data.Event.EventInstruction != "" {
			lines = append(lines, "Instructions: "+data.Event.EventInstruction)
		}
		for _, line := range lines {
			doc.MultiCell(0, 7, tr(line), "", "L", false)
		}

		if t.TicketID == "" {
			continue
		}

		png, err := r.qr.PNG(t.TicketID, qrSize)
		if err != nil {
			return nil, fmt.Errorf("%s: ticket %s: %w", op, t.TicketID, err)
		}

		name := "qr-" + t.TicketID
		opts := fpdf.ImageOptions{ImageType: "PNG"}
		doc.RegisterImageOptionsReader(name, opts, bytes.NewReader(png))
		doc.ImageOptions(name, 65, doc.GetY()+10, 80, 80, false, opts, 0, "")
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrRender, err)
	}

	return buf.Bytes(), nil
}
