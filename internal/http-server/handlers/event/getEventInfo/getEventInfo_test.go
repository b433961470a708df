package getEventInfo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"eventure/internal/http-server/handlers/event/getEventInfo/mocks"
	"eventure/internal/lib/logger/handlers/slogdiscard"
	"eventure/internal/models"
	"eventure/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGetEventInfoHandler(t *testing.T) {
	t.Parallel()

	logger := slogdiscard.NewDiscardLogger()

	testTime := time.Date(2026, 12, 25, 18, 0, 0, 0, time.UTC)
	testEvent := &models.Event{
		ID:               "ev-1",
		EventName:        "Test Event",
		EventDateTime:    testTime,
		EventCapacity:    100,
		AvailableTickets: 60,
		EventAttendees:   40,
		Location: &models.Location{
			Latitude:  30.27,
			Longitude: -97.74,
			GmapURL:   "https://www.google.com/maps/search/?api=1&query=500+Congress+Ave",
		},
	}

	testCases := []struct {
		name           string
		eventID        string
		mockSetup      func(m *mocks.EventGetter)
		expectedStatus int
		expectedBody   string
		checkBody      func(t *testing.T, body string)
	}{
		{
			name:    "Success",
			eventID: "ev-1",
			mockSetup: func(m *mocks.EventGetter) {
				m.On("GetEventByID", mock.Anything, "ev-1").Return(testEvent, nil)
			},
			expectedStatus: http.StatusOK,
			checkBody: func(t *testing.T, body string) {
				var response EventInfoResponse
				err := json.Unmarshal([]byte(body), &response)
				require.NoError(t, err)

				assert.Equal(t, "OK", response.Status)
				require.NotNil(t, response.Event)
				assert.Equal(t, "ev-1", response.Event.ID)
				assert.Equal(t, 60, response.Event.AvailableTickets)
				require.NotNil(t, response.Event.Location)
				assert.Equal(t, 30.27, response.Event.Location.Latitude)
			},
		},
		{
			name:    "Event not found",
			eventID: "missing",
			mockSetup: func(m *mocks.EventGetter) {
				m.On("GetEventByID", mock.Anything, "missing").
					Return(nil, fmt.Errorf("event missing: %w", services.ErrNotFound))
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"event missing: not found"}`,
		},
		{
			name:    "Internal server error",
			eventID: "ev-1",
			mockSetup: func(m *mocks.EventGetter) {
				m.On("GetEventByID", mock.Anything, "ev-1").Return(nil, errors.New("database error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"failed to get event information"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			mockGetter := mocks.NewEventGetter(t)
			tc.mockSetup(mockGetter)

			router := chi.NewRouter()
			router.Get("/events/{id}", New(logger, mockGetter))

			req, err := http.NewRequest(http.MethodGet, "/events/"+tc.eventID, nil)
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

func TestHandlerWithChiContext(t *testing.T) {
	t.Parallel()

	mockGetter := mocks.NewEventGetter(t)
	mockGetter.On("GetEventByID", mock.Anything, "ev-42").Return(&models.Event{ID: "ev-42"}, nil)

	handler := New(slogdiscard.NewDiscardLogger(), mockGetter)

	req, err := http.NewRequest(http.MethodGet, "/", nil)
	require.NoError(t, err)

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "ev-42")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestHandlerWithoutChiContext(t *testing.T) {
	t.Parallel()

	mockGetter := mocks.NewEventGetter(t)
	handler := New(slogdiscard.NewDiscardLogger(), mockGetter)

	req, err := http.NewRequest(http.MethodGet, "/", nil)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"status":"Error","error":"event id is required"}`, rr.Body.String())
}
