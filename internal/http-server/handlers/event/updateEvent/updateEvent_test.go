package updateEvent

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"eventure/internal/http-server/handlers/event/updateEvent/mocks"
	"eventure/internal/http-server/middleware/mwuser"
	"eventure/internal/lib/logger/handlers/slogdiscard"
	"eventure/internal/models"
	"eventure/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUpdateEventHandler(t *testing.T) {
	t.Parallel()

	logger := slogdiscard.NewDiscardLogger()

	capacityTo15 := mock.MatchedBy(func(p *models.EventPatch) bool {
		return p.EventCapacity != nil && *p.EventCapacity == 15 &&
			p.City != nil && *p.City == "Dallas" &&
			p.Desc == nil && p.TicketPrice == nil
	})

	testCases := []struct {
		name           string
		userID         string
		requestBody    string
		mockSetup      func(m *mocks.EventUpdater)
		expectedStatus int
		expectedBody   string
		checkBody      func(t *testing.T, body string)
	}{
		{
			name:        "Success",
			userID:      "mgr-1",
			requestBody: `{"event_capacity": 15, "city": "Dallas"}`,
			mockSetup: func(m *mocks.EventUpdater) {
				m.On("UpdateEvent", mock.Anything, "ev-1", capacityTo15, "mgr-1").
					Return(&models.Event{ID: "ev-1", City: "Dallas", EventCapacity: 15, AvailableTickets: 12, Version: 3}, nil)
			},
			expectedStatus: http.StatusOK,
			checkBody: func(t *testing.T, body string) {
				var resp EventResponse
				require.NoError(t, json.Unmarshal([]byte(body), &resp))

				assert.Equal(t, "OK", resp.Status)
				require.NotNil(t, resp.Event)
				assert.Equal(t, 12, resp.Event.AvailableTickets)
				assert.Equal(t, 3, resp.Event.Version)
			},
		},
		{
			name:           "Missing user",
			requestBody:    `{"event_capacity": 15}`,
			mockSetup:      func(m *mocks.EventUpdater) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"status":"Error","error":"user id is required"}`,
		},
		{
			name:           "Invalid JSON",
			userID:         "mgr-1",
			requestBody:    `{"event_capacity": "many"}`,
			mockSetup:      func(m *mocks.EventUpdater) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"failed to decode request"}`,
		},
		{
			name:           "Negative capacity",
			userID:         "mgr-1",
			requestBody:    `{"event_capacity": -5}`,
			mockSetup:      func(m *mocks.EventUpdater) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"field EventCapacity must be greater than 0"}`,
		},
		{
			name:        "Not the organizer",
			userID:      "someone",
			requestBody: `{"event_capacity": 15, "city": "Dallas"}`,
			mockSetup: func(m *mocks.EventUpdater) {
				m.On("UpdateEvent", mock.Anything, "ev-1", capacityTo15, "someone").
					Return(nil, fmt.Errorf("user someone is not the organizer of event ev-1: %w", services.ErrForbidden))
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `{"status":"Error","error":"user someone is not the organizer of event ev-1: forbidden"}`,
		},
		{
			name:        "Event not found",
			userID:      "mgr-1",
			requestBody: `{"event_capacity": 15, "city": "Dallas"}`,
			mockSetup: func(m *mocks.EventUpdater) {
				m.On("UpdateEvent", mock.Anything, "ev-1", capacityTo15, "mgr-1").
					Return(nil, fmt.Errorf("event ev-1: %w", services.ErrNotFound))
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"event ev-1: not found"}`,
		},
		{
			name:        "Concurrent modification",
			userID:      "mgr-1",
			requestBody: `{"event_capacity": 15, "city": "Dallas"}`,
			mockSetup: func(m *mocks.EventUpdater) {
				m.On("UpdateEvent", mock.Anything, "ev-1", capacityTo15, "mgr-1").
					Return(nil, fmt.Errorf("event ev-1 was modified concurrently: %w", services.ErrConflict))
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `{"status":"Error","error":"event ev-1 was modified concurrently: concurrent modification"}`,
		},
		{
			name:        "Internal server error",
			userID:      "mgr-1",
			requestBody: `{"event_capacity": 15, "city": "Dallas"}`,
			mockSetup: func(m *mocks.EventUpdater) {
				m.On("UpdateEvent", mock.Anything, "ev-1", capacityTo15, "mgr-1").
					Return(nil, errors.New("database error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"failed to update event"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			updater := mocks.NewEventUpdater(t)
			tc.mockSetup(updater)

			router := chi.NewRouter()
			router.Use(mwuser.New())
			router.Patch("/events/{id}", New(logger, updater))

			req, err := http.NewRequest(http.MethodPatch, "/events/ev-1", bytes.NewBufferString(tc.requestBody))
			require.NoError(t, err)
			if tc.userID != "" {
				req.Header.Set(mwuser.Header, tc.userID)
			}

			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code, "Status code mismatch")

			if tc.expectedBody != "" {
				assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "Response body mismatch")
			}
			if tc.checkBody != nil {
				tc.checkBody(t, rr.Body.String())
			}
		})
	}
}
