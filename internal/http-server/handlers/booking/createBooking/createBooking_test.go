package createBooking

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"eventure/internal/http-server/handlers/booking/createBooking/mocks"
	"eventure/internal/lib/logger/handlers/slogdiscard"
	"eventure/internal/models"
	"eventure/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const validBody = `{"user_id":"u1","event_id":"ev-1","ticket_count":2,"ticket_price":20,"total_ticket_price":40,"payment_status":true}`

func TestCreateBookingHandler(t *testing.T) {
	t.Parallel()

	logger := slogdiscard.NewDiscardLogger()

	expectedReq := models.BookingRequest{
		UserID:           "u1",
		EventID:          "ev-1",
		TicketCount:      2,
		TicketPrice:      20,
		TotalTicketPrice: 40,
		PaymentStatus:    true,
	}

	booked := &models.BookingResponse{
		Booking: &models.BookingDetails{
			ID:               "bk-1",
			UserID:           "u1",
			TicketCount:      2,
			TotalTicketPrice: 40,
			Tickets: []models.Ticket{
				{TicketID: "T0a1b2c3d", Price: 20, EventID: "ev-1"},
				{TicketID: "T4e5f6a7b", Price: 20, EventID: "ev-1"},
			},
			BookingStatus: models.StatusConfirmed,
		},
		User:  &models.User{ID: "u1", FirstName: "Ada"},
		Event: &models.Event{ID: "ev-1", EventCapacity: 10, AvailableTickets: 8, EventAttendees: 2},
	}

	testCases := []struct {
		name           string
		requestBody    string
		mockSetup      func(m *mocks.BookingCreator)
		expectedStatus int
		expectedBody   string
		checkBody      func(t *testing.T, body string)
	}{
		{
			name:        "Success",
			requestBody: validBody,
			mockSetup: func(m *mocks.BookingCreator) {
				m.On("BookEvent", mock.Anything, expectedReq).Return(booked, nil)
			},
			expectedStatus: http.StatusCreated,
			checkBody: func(t *testing.T, body string) {
				var resp BookingResponse
				require.NoError(t, json.Unmarshal([]byte(body), &resp))

				assert.Equal(t, "OK", resp.Status)
				require.NotNil(t, resp.BookingResponse)
				assert.Equal(t, "bk-1", resp.Booking.ID)
				assert.Equal(t, models.StatusConfirmed, resp.Booking.BookingStatus)
				assert.Len(t, resp.Booking.Tickets, 2)
				assert.Equal(t, 8, resp.Event.AvailableTickets)
				assert.Equal(t, "u1", resp.User.ID)
			},
		},
		{
			name:           "Invalid JSON",
			requestBody:    `invalid json`,
			mockSetup:      func(m *mocks.BookingCreator) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"failed to decode request"}`,
		},
		{
			name:           "Missing user_id",
			requestBody:    `{"event_id":"ev-1","ticket_count":1,"payment_status":true}`,
			mockSetup:      func(m *mocks.BookingCreator) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"field UserID is a required field"}`,
		},
		{
			name:           "Zero tickets",
			requestBody:    `{"user_id":"u1","event_id":"ev-1","ticket_count":0,"payment_status":true}`,
			mockSetup:      func(m *mocks.BookingCreator) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"field TicketCount must be greater than 0"}`,
		},
		{
			name:        "Not enough tickets",
			requestBody: validBody,
			mockSetup: func(m *mocks.BookingCreator) {
				m.On("BookEvent", mock.Anything, expectedReq).
					Return(nil, fmt.Errorf("only 1 tickets available, but 2 requested: %w", services.ErrCapacityExceeded))
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `{"status":"Error","error":"only 1 tickets available, but 2 requested: capacity exceeded"}`,
		},
		{
			name:        "Payment failed",
			requestBody: validBody,
			mockSetup: func(m *mocks.BookingCreator) {
				m.On("BookEvent", mock.Anything, expectedReq).
					Return(nil, fmt.Errorf("payment was not successful, booking aborted: %w", services.ErrPaymentRequired))
			},
			expectedStatus: http.StatusPaymentRequired,
			expectedBody:   `{"status":"Error","error":"payment was not successful, booking aborted: payment required"}`,
		},
		{
			name:        "Event not found",
			requestBody: validBody,
			mockSetup: func(m *mocks.BookingCreator) {
				m.On("BookEvent", mock.Anything, expectedReq).
					Return(nil, fmt.Errorf("event ev-1: %w", services.ErrNotFound))
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"event ev-1: not found"}`,
		},
		{
			name:        "Internal server error",
			requestBody: validBody,
			mockSetup: func(m *mocks.BookingCreator) {
				m.On("BookEvent", mock.Anything, expectedReq).Return(nil, errors.New("database error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"failed to book event"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			mockCreator := mocks.NewBookingCreator(t)
			tc.mockSetup(mockCreator)

			router := chi.NewRouter()
			router.Post("/bookings", New(logger, mockCreator))

			req, err := http.NewRequest(http.MethodPost, "/bookings", bytes.NewBufferString(tc.requestBody))
			require.NoError(t, err)

			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code, "Status code mismatch")

			if tc.expectedBody != "" {
				assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "Response body mismatch")
			} else if tc.checkBody != nil {
				tc.checkBody(t, rr.Body.String())
			}
		})
	}
}

func TestValidationErrors(t *testing.T) {
	t.Parallel()

	logger := slogdiscard.NewDiscardLogger()

	testCases := []struct {
		name        string
		requestBody string
		wantField   string
	}{
		{name: "Empty event_id", requestBody: `{"user_id":"u1","event_id":"","ticket_count":1}`, wantField: "EventID"},
		{name: "Negative price", requestBody: `{"user_id":"u1","event_id":"ev-1","ticket_count":1,"ticket_price":-1}`, wantField: "TicketPrice"},
		{name: "Negative ticket count", requestBody: `{"user_id":"u1","event_id":"ev-1","ticket_count":-3}`, wantField: "TicketCount"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			mockCreator := mocks.NewBookingCreator(t)
			handler := New(logger, mockCreator)

			req := httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(tc.requestBody))
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Contains(t, rr.Body.String(), `"status":"Error"`)
			assert.Contains(t, rr.Body.String(), tc.wantField)
		})
	}
}
