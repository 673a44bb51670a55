// Package cache holds availability snapshots in Redis so repeated browse
// requests for the same salon+date skip the resolver.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/kithuachu121-spec/salonslotbook/internal/availability"
	"github.com/kithuachu121-spec/salonslotbook/internal/events"
	"github.com/kithuachu121-spec/salonslotbook/internal/metrics"
)

// AvailabilityCache is a read-through cache. A nil client disables it; all
// operations become no-ops so callers need no branching.
type AvailabilityCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zerolog.Logger
}

// New creates a cache around an optional Redis client.
func New(client *redis.Client, ttl time.Duration, logger *zerolog.Logger) *AvailabilityCache {
	return &AvailabilityCache{client: client, ttl: ttl, logger: logger}
}

// WatchBookings drops the day's snapshot on every booking mutation,
// whichever path produced it. Prompt responses cancel bookings without
// going through an HTTP handler, so handler-side invalidation alone would
// leave a freed slot marked taken until the TTL.
func (c *AvailabilityCache) WatchBookings(bus *events.Bus) {
	if bus == nil {
		return
	}
	bus.Subscribe(func(change events.BookingChange) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		c.Invalidate(ctx, change.SalonID, change.Date)
	})
}

func (c *AvailabilityCache) enabled() bool {
	return c != nil && c.client != nil && c.ttl > 0
}

func key(salonID, date string) string {
	return fmt.Sprintf("availability:%s:%s", salonID, date)
}

// Get returns the cached snapshot and whether it was present. Cache
// failures degrade to a miss; the resolver is the source of truth.
func (c *AvailabilityCache) Get(ctx context.Context, salonID, date string) ([]availability.Slot, bool) {
	if !c.enabled() {
		return nil, false
	}

	val, err := c.client.Get(ctx, key(salonID, date)).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.Debug().Err(err).Msg("availability cache read")
		}
		metrics.IncAvailabilityCache("miss")
		return nil, false
	}

	var slots []availability.Slot
	if err := json.Unmarshal([]byte(val), &slots); err != nil {
		metrics.IncAvailabilityCache("miss")
		return nil, false
	}
	metrics.IncAvailabilityCache("hit")
	return slots, true
}

// Set stores a snapshot.
func (c *AvailabilityCache) Set(ctx context.Context, salonID, date string, slots []availability.Slot) {
	if !c.enabled() {
		return
	}

	data, err := json.Marshal(slots)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key(salonID, date), data, c.ttl).Err(); err != nil {
		c.logger.Debug().Err(err).Msg("availability cache write")
	}
}

// Invalidate drops the snapshot for one salon+date. Called on booking
// mutations and closed-date/custom-slot changes.
func (c *AvailabilityCache) Invalidate(ctx context.Context, salonID, date string) {
	if !c.enabled() {
		return
	}
	if err := c.client.Del(ctx, key(salonID, date)).Err(); err != nil {
		c.logger.Debug().Err(err).Msg("availability cache invalidate")
	}
}

// InvalidateSalon drops every snapshot for a salon, used when operating
// hours or the service catalog change.
func (c *AvailabilityCache) InvalidateSalon(ctx context.Context, salonID string) {
	if !c.enabled() {
		return
	}

	iter := c.client.Scan(ctx, 0, fmt.Sprintf("availability:%s:*", salonID), 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			c.logger.Debug().Err(err).Msg("availability cache invalidate")
		}
	}
	if err := iter.Err(); err != nil {
		c.logger.Debug().Err(err).Msg("availability cache scan")
	}
}
