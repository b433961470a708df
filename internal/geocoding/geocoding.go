// Package geocoding resolves event addresses to map coordinates through the
// Google Geocoding API.
package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"eventure/internal/lib/logger/sl"
	"eventure/internal/models"
)

const (
	DefaultBaseURL = "https://maps.googleapis.com/maps/api/geocode/json"

	mapsSearchURL = "https://www.google.com/maps/search/?api=1&query="
)

type Client struct {
	log     *slog.Logger
	http    *http.Client
	baseURL string
	apiKey  string
}

func New(log *slog.Logger, baseURL, apiKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		log:     log.With(slog.String("component", "geocoding")),
		http:    &http.Client{Timeout: timeout},
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Enrich sets ev.Location from the first geocoding result. Failures leave
// the event untouched and are only logged.
func (c *Client) Enrich(ctx context.Context, ev *models.Event) {
	const op = "geocoding.Enrich"

	log := c.log.With(slog.String("op", op), slog.String("event_id", ev.ID))

	if c.apiKey == "" {
		log.Debug("geocoding skipped, no api key configured")
		return
	}

	address := ev.FullAddress()

	loc, err := c.lookup(ctx, address)
	if err != nil {
		log.Warn("geocoding failed", slog.String("address", address), sl.Err(err))
		return
	}
	if loc == nil {
		log.Debug("geocoding returned no results", slog.String("address", address))
		return
	}

	ev.Location = loc
}

func (c *Client) lookup(ctx context.Context, address string) (*models.Location, error) {
	query := url.Values{}
	query.Set("address", address)
	query.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var body geocodeResponse
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if len(body.Results) == 0 {
		return nil, nil
	}

	point := body.Results[0].Geometry.Location

	return &models.Location{
		Latitude:  point.Lat,
		Longitude: point.Lng,
		GmapURL:   MapLink(address),
	}, nil
}

// MapLink builds a Google Maps search link for a free-form address.
func MapLink(address string) string {
	return mapsSearchURL + strings.ReplaceAll(address, " ", "+")
}
