package cache

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kithuachu121-spec/salonslotbook/internal/availability"
	"github.com/kithuachu121-spec/salonslotbook/internal/events"
)

func newTestCache(t *testing.T) *AvailabilityCache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	logger := zerolog.New(io.Discard)
	return New(client, time.Minute, &logger)
}

func sampleSlots() []availability.Slot {
	return []availability.Slot{
		{Time: "09:00"},
		{Time: "09:30", Taken: true},
		{Time: "19:00", Custom: true},
	}
}

func TestCacheRoundTrip(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	_, ok := c.Get(ctx, "salon_1", "2026-09-02")
	assert.False(t, ok)

	c.Set(ctx, "salon_1", "2026-09-02", sampleSlots())

	got, ok := c.Get(ctx, "salon_1", "2026-09-02")
	require.True(t, ok)
	assert.Equal(t, sampleSlots(), got)

	// Other keys stay cold.
	_, ok = c.Get(ctx, "salon_1", "2026-09-03")
	assert.False(t, ok)
	_, ok = c.Get(ctx, "salon_2", "2026-09-02")
	assert.False(t, ok)
}

func TestCacheInvalidate(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	c.Set(ctx, "salon_1", "2026-09-02", sampleSlots())
	c.Invalidate(ctx, "salon_1", "2026-09-02")

	_, ok := c.Get(ctx, "salon_1", "2026-09-02")
	assert.False(t, ok)
}

func TestCacheInvalidateSalon(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	c.Set(ctx, "salon_1", "2026-09-02", sampleSlots())
	c.Set(ctx, "salon_1", "2026-09-03", sampleSlots())
	c.Set(ctx, "salon_2", "2026-09-02", sampleSlots())

	c.InvalidateSalon(ctx, "salon_1")

	_, ok := c.Get(ctx, "salon_1", "2026-09-02")
	assert.False(t, ok)
	_, ok = c.Get(ctx, "salon_1", "2026-09-03")
	assert.False(t, ok)
	_, ok = c.Get(ctx, "salon_2", "2026-09-02")
	assert.True(t, ok, "other salons keep their snapshots")
}

func TestCacheInvalidatesOnBookingChange(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()
	bus := events.NewBus()
	c.WatchBookings(bus)

	c.Set(ctx, "salon_1", "2026-09-02", sampleSlots())
	c.Set(ctx, "salon_1", "2026-09-03", sampleSlots())

	// Any booking mutation for the day drops its snapshot, including ones
	// that never pass through an HTTP handler.
	bus.Publish(events.BookingChange{
		BookingID:  "bk_1",
		SalonID:    "salon_1",
		CustomerID: "cust_1",
		Date:       "2026-09-02",
	})

	_, ok := c.Get(ctx, "salon_1", "2026-09-02")
	assert.False(t, ok)
	_, ok = c.Get(ctx, "salon_1", "2026-09-03")
	assert.True(t, ok, "other days keep their snapshots")
}

func TestDisabledCacheIsNoop(t *testing.T) {
	logger := zerolog.New(io.Discard)
	c := New(nil, time.Minute, &logger)
	ctx := context.Background()

	c.Set(ctx, "salon_1", "2026-09-02", sampleSlots())
	_, ok := c.Get(ctx, "salon_1", "2026-09-02")
	assert.False(t, ok)
	c.Invalidate(ctx, "salon_1", "2026-09-02")
	c.InvalidateSalon(ctx, "salon_1")
}
