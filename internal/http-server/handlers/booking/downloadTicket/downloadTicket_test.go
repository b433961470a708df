package downloadTicket

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"eventure/internal/http-server/handlers/booking/downloadTicket/mocks"
	"eventure/internal/http-server/middleware/mwuser"
	"eventure/internal/lib/logger/handlers/slogdiscard"
	"eventure/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestDownloadTicketHandler(t *testing.T) {
	t.Parallel()

	logger := slogdiscard.NewDiscardLogger()
	pdf := []byte("%PDF-1.3 fake")

	testCases := []struct {
		name           string
		userID         string
		mockSetup      func(m *mocks.TicketPdfGenerator)
		expectedStatus int
		expectedBody   string
		expectPdf      bool
	}{
		{
			name:   "Success",
			userID: "u1",
			mockSetup: func(m *mocks.TicketPdfGenerator) {
				m.On("GeneratePdf", mock.Anything, "bk-1", "u1").Return(pdf, nil)
			},
			expectedStatus: http.StatusOK,
			expectPdf:      true,
		},
		{
			name:           "Missing user",
			mockSetup:      func(m *mocks.TicketPdfGenerator) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"status":"Error","error":"user id is required"}`,
		},
		{
			name:   "Someone else's booking",
			userID: "u2",
			mockSetup: func(m *mocks.TicketPdfGenerator) {
				m.On("GeneratePdf", mock.Anything, "bk-1", "u2").
					Return(nil, fmt.Errorf("user not authorized to view booking bk-1: %w", services.ErrForbidden))
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `{"status":"Error","error":"user not authorized to view booking bk-1: forbidden"}`,
		},
		{
			name:   "Event gone",
			userID: "u1",
			mockSetup: func(m *mocks.TicketPdfGenerator) {
				m.On("GeneratePdf", mock.Anything, "bk-1", "u1").
					Return(nil, fmt.Errorf("event ev-1: %w", services.ErrNotFound))
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"event ev-1: not found"}`,
		},
		{
			name:   "Renderer failure",
			userID: "u1",
			mockSetup: func(m *mocks.TicketPdfGenerator) {
				m.On("GeneratePdf", mock.Anything, "bk-1", "u1").Return(nil, errors.New("font missing"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"failed to generate ticket pdf"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			generator := mocks.NewTicketPdfGenerator(t)
			tc.mockSetup(generator)

			router := chi.NewRouter()
			router.Use(mwuser.New())
			router.Get("/bookings/{id}/pdf", New(logger, generator))

			req, err := http.NewRequest(http.MethodGet, "/bookings/bk-1/pdf", nil)
			require.NoError(t, err)
			if tc.userID != "" {
				req.Header.Set(mwuser.Header, tc.userID)
			}

			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code, "Status code mismatch")

			if tc.expectPdf {
				assert.Equal(t, "application/pdf", rr.Header().Get("Content-Type"))
				assert.Equal(t, `attachment; filename="tickets-bk-1.pdf"`, rr.Header().Get("Content-Disposition"))
				assert.Equal(t, pdf, rr.Body.Bytes())
				return
			}
			assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "Response body mismatch")
		})
	}
}
