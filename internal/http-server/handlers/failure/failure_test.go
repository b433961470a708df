package failure

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"eventure/internal/services"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name           string
		err            error
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "not found",
			err:            fmt.Errorf("event e1: %w", services.ErrNotFound),
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"event e1: not found"}`,
		},
		{
			name:           "forbidden",
			err:            services.ErrForbidden,
			expectedStatus: http.StatusForbidden,
			expectedBody:   `{"status":"Error","error":"forbidden"}`,
		},
		{
			name:           "validation",
			err:            services.ErrValidation,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"validation failed"}`,
		},
		{
			name:           "capacity",
			err:            fmt.Errorf("only 2 tickets available, but 3 requested: %w", services.ErrCapacityExceeded),
			expectedStatus: http.StatusConflict,
			expectedBody:   `{"status":"Error","error":"only 2 tickets available, but 3 requested: capacity exceeded"}`,
		},
		{
			name:           "already cancelled",
			err:            services.ErrAlreadyCancelled,
			expectedStatus: http.StatusConflict,
			expectedBody:   `{"status":"Error","error":"booking already cancelled"}`,
		},
		{
			name:           "conflict",
			err:            services.ErrConflict,
			expectedStatus: http.StatusConflict,
			expectedBody:   `{"status":"Error","error":"concurrent modification"}`,
		},
		{
			name:           "payment",
			err:            services.ErrPaymentRequired,
			expectedStatus: http.StatusPaymentRequired,
			expectedBody:   `{"status":"Error","error":"payment required"}`,
		},
		{
			name:           "payload too large",
			err:            services.ErrPayloadTooLarge,
			expectedStatus: http.StatusRequestEntityTooLarge,
			expectedBody:   `{"status":"Error","error":"payload too large"}`,
		},
		{
			name:           "data inconsistency hides details",
			err:            fmt.Errorf("booking b1 has no tickets: %w", services.ErrDataInconsistency),
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"internal error"}`,
		},
		{
			name:           "unknown error hides details",
			err:            errors.New("pq: connection refused"),
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"internal error"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rr := httptest.NewRecorder()

			Render(rr, req, tc.err, "internal error")

			assert.Equal(t, tc.expectedStatus, rr.Code)
			assert.JSONEq(t, tc.expectedBody, rr.Body.String())
		})
	}
}
