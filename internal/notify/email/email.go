// Package email renders the transactional HTML emails and sends them over
// SMTP.
package email

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"

	"eventure/internal/config"
	"eventure/internal/models"

	"gopkg.in/gomail.v2"
)

const (
	TemplateBookingConfirmation = "booking-confirmation.html"
	TemplateBookingCancellation = "booking-cancellation.html"
)

var ErrSend = errors.New("email send failed")

//go:embed templates/*.html
var templateFS embed.FS

type Message struct {
	To       string
	Subject  string
	Template string
	Vars     map[string]string
	Tickets  []models.Ticket
}

type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type Sender struct {
	from      string
	dialer    Dialer
	templates *template.Template
}

func NewSender(cfg config.SMTP) (*Sender, error) {
	return NewSenderWithDialer(cfg.From, gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password))
}

func NewSenderWithDialer(from string, dialer Dialer) (*Sender, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	return &Sender{
		from:      from,
		dialer:    dialer,
		templates: tmpl,
	}, nil
}

// Render executes the message template against its variables and tickets.
func (s *Sender) Render(msg Message) (string, error) {
	var buf bytes.Buffer

	data := struct {
		Vars    map[string]string
		Tickets []models.Ticket
	}{
		Vars:    msg.Vars,
		Tickets: msg.Tickets,
	}

	if err := s.templates.ExecuteTemplate(&buf, msg.Template, data); err != nil {
		return "", fmt.Errorf("%w: render %s: %w", ErrSend, msg.Template, err)
	}

	return buf.String(), nil
}

// Send renders and delivers msg. gomail has no context support, so ctx is
// only checked before dialing.
func (s *Sender) Send(ctx context.Context, msg Message) error {
	body, err := s.Render(msg)
	if err != nil {
		return err
	}

	if err = ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrSend, err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", body)

	if err = s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("%w: deliver to %s: %w", ErrSend, msg.To, err)
	}

	return nil
}
