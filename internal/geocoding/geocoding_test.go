package geocoding

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"eventure/internal/lib/logger/handlers/slogdiscard"
	"eventure/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEvent() *models.Event {
	return &models.Event{
		ID:      "e1",
		Address: "1 Main St",
		City:    "Austin",
		State:   "TX",
		ZipCode: "73301",
	}
}

func TestEnrich(t *testing.T) {
	t.Parallel()

	var gotAddress, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAddress = r.URL.Query().Get("address")
		gotKey = r.URL.Query().Get("key")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"OK","results":[{"geometry":{"location":{"lat":30.2672,"lng":-97.7431}}}]}`))
	}))
	defer srv.Close()

	c := New(slogdiscard.NewDiscardLogger(), srv.URL, "secret", time.Second)
	ev := testEvent()

	c.Enrich(context.Background(), ev)

	assert.Equal(t, "1 Main St, Austin, TX, 73301", gotAddress)
	assert.Equal(t, "secret", gotKey)
	require.NotNil(t, ev.Location)
	assert.Equal(t, 30.2672, ev.Location.Latitude)
	assert.Equal(t, -97.7431, ev.Location.Longitude)
	assert.Equal(t, "https://www.google.com/maps/search/?api=1&query=1+Main+St,+Austin,+TX,+73301", ev.Location.GmapURL)
}

func TestEnrich_FailuresAreAbsorbed(t *testing.T) {
	t.Parallel()

	prior := &models.Location{Latitude: 1, Longitude: 2, GmapURL: "prior"}

	testCases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "empty results",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"status":"ZERO_RESULTS","results":[]}`))
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`not json`))
			},
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(tc.handler)
			defer srv.Close()

			c := New(slogdiscard.NewDiscardLogger(), srv.URL, "secret", time.Second)
			ev := testEvent()
			ev.Location = prior

			c.Enrich(context.Background(), ev)

			assert.Same(t, prior, ev.Location)
		})
	}
}

func TestEnrich_Unreachable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(slogdiscard.NewDiscardLogger(), url, "secret", 200*time.Millisecond)
	ev := testEvent()

	c.Enrich(context.Background(), ev)

	assert.Nil(t, ev.Location)
}

func TestEnrich_NoAPIKey(t *testing.T) {
	t.Parallel()

	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	c := New(slogdiscard.NewDiscardLogger(), srv.URL, "", time.Second)
	ev := testEvent()

	c.Enrich(context.Background(), ev)

	assert.False(t, called)
	assert.Nil(t, ev.Location)
}
