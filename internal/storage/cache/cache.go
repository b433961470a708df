// Package cache puts a Redis read-through cache in front of event lookups.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"eventure/internal/lib/logger/sl"
	"eventure/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	eventKeyPrefix = "event:detail:"
	genKeyPrefix   = "event:gen:"

	DefaultTTL = 5 * time.Minute
)

type EventStore interface {
	CreateEvent(ctx context.Context, ev *models.Event) (*models.Event, error)
	Event(ctx context.Context, id string) (*models.Event, error)
	UpdateEvent(ctx context.Context, ev *models.Event) (*models.Event, error)
	UpcomingEvents(ctx context.Context, after time.Time) ([]models.Event, error)
	EventsByOrganizer(ctx context.Context, organizerID string) ([]models.Event, error)
	BookTickets(ctx context.Context, eventID string, b *models.BookingDetails) (*models.BookingDetails, *models.Event, error)
	CancelBooking(ctx context.Context, bookingID, eventID string, count int) (*models.Event, error)
}

// Events serves single-event reads from Redis and drops the cached entry
// on every write that touches the event. Every write also bumps a
// per-event generation key, and a refill is only kept if that key did not
// move while the store was being read. Cache failures never fail the call;
// the store stays authoritative.
type Events struct {
	EventStore

	log   *slog.Logger
	cache redis.UniversalClient
	ttl   time.Duration
}

func New(log *slog.Logger, store EventStore, cache redis.UniversalClient, ttl time.Duration) *Events {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Events{
		EventStore: store,
		log:        log.With(slog.String("component", "storage.cache")),
		cache:      cache,
		ttl:        ttl,
	}
}

func (c *Events) Event(ctx context.Context, id string) (*models.Event, error) {
	key := eventKeyPrefix + id

	cached, err := c.cache.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var ev models.Event
		if err = json.Unmarshal(cached, &ev); err == nil {
			return &ev, nil
		}
		c.log.Warn("dropping undecodable cache entry", slog.String("key", key), sl.Err(err))
	case !errors.Is(err, redis.Nil):
		c.log.Warn("cache read failed", slog.String("key", key), sl.Err(err))
	}

	return c.refill(ctx, id)
}

func (c *Events) UpdateEvent(ctx context.Context, ev *models.Event) (*models.Event, error) {
	c.invalidate(ctx, ev.ID)

	saved, err := c.EventStore.UpdateEvent(ctx, ev)
	if err != nil {
		return nil, err
	}

	c.invalidate(ctx, ev.ID)

	return saved, nil
}

func (c *Events) BookTickets(ctx context.Context, eventID string, b *models.BookingDetails) (*models.BookingDetails, *models.Event, error) {
	booking, ev, err := c.EventStore.BookTickets(ctx, eventID, b)
	c.invalidate(ctx, eventID)

	return booking, ev, err
}

func (c *Events) CancelBooking(ctx context.Context, bookingID, eventID string, count int) (*models.Event, error) {
	ev, err := c.EventStore.CancelBooking(ctx, bookingID, eventID, count)
	c.invalidate(ctx, eventID)

	return ev, err
}

// refill reads the event from the store under WATCH on its generation key.
// A write that lands during the read aborts the SET, so an older copy never
// replaces an invalidation.
func (c *Events) refill(ctx context.Context, id string) (*models.Event, error) {
	var (
		ev       *models.Event
		storeErr error
	)

	err := c.cache.Watch(ctx, func(tx *redis.Tx) error {
		ev, storeErr = c.EventStore.Event(ctx, id)
		if storeErr != nil {
			return storeErr
		}

		data, err := json.Marshal(ev)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, eventKeyPrefix+id, data, c.ttl)
			return nil
		})
		return err
	}, genKeyPrefix+id)

	switch {
	case storeErr != nil:
		return nil, storeErr
	case ev == nil:
		c.log.Warn("cache unavailable, reading from store", slog.String("event_id", id), sl.Err(err))
		return c.EventStore.Event(ctx, id)
	case errors.Is(err, redis.TxFailedErr):
		c.log.Debug("event changed during read, skipping cache refill", slog.String("event_id", id))
	case err != nil:
		c.log.Warn("cache write failed", slog.String("event_id", id), sl.Err(err))
	}

	return ev, nil
}

func (c *Events) invalidate(ctx context.Context, id string) {
	_, err := c.cache.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, genKeyPrefix+id)
		pipe.Del(ctx, eventKeyPrefix+id)
		return nil
	})
	if err != nil {
		c.log.Warn("cache invalidation failed", slog.String("event_id", id), sl.Err(err))
	}
}
