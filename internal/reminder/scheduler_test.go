package reminder

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kithuachu121-spec/salonslotbook/internal/events"
	"github.com/kithuachu121-spec/salonslotbook/internal/metrics"
	"github.com/kithuachu121-spec/salonslotbook/internal/models"
)

type fakeSource struct {
	mu       sync.Mutex
	bookings []models.Booking
}

func (f *fakeSource) ListBookingsByCustomer(_ context.Context, customerID string) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Booking
	for _, b := range f.bookings {
		if b.CustomerID == customerID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeSource) set(bookings ...models.Booking) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bookings = bookings
}

type fakeLifecycle struct {
	mu        sync.Mutex
	confirmed []string
	cancelled []string
	err       error
}

func (f *fakeLifecycle) ConfirmArrival(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.confirmed = append(f.confirmed, id)
	return nil
}

func (f *fakeLifecycle) UpdateStatus(_ context.Context, id string, to models.BookingStatus) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if to == models.BookingCancelled {
		f.cancelled = append(f.cancelled, id)
	}
	return &models.Booking{ID: id, Status: to}, nil
}

// bookingAt builds a confirmed booking starting at the given local time.
func bookingAt(id string, start time.Time) models.Booking {
	return models.Booking{
		ID:         id,
		CustomerID: "cust_1",
		SalonID:    "salon_1",
		Date:       start.Format("2006-01-02"),
		Time:       start.Format("15:04"),
		Status:     models.BookingConfirmed,
	}
}

func newTestScheduler(src BookingSource, lc Lifecycle) *Scheduler {
	logger := zerolog.New(io.Discard)
	return NewScheduler(DefaultConfig(), "cust_1", src, lc, nil, &logger)
}

func TestDueForPromptWindow(t *testing.T) {
	// Anchor now at a whole minute so HH:MM truncation of the start time
	// does not shift the offsets under test.
	now := time.Date(2026, 9, 2, 12, 0, 0, 0, time.Local)
	s := newTestScheduler(&fakeSource{}, &fakeLifecycle{})
	s.now = func() time.Time { return now }

	tests := []struct {
		name  string
		until time.Duration
		want  bool
	}{
		{"well inside window", 5 * time.Minute, true},
		{"one minute before start", time.Minute, true},
		{"nine minutes before start", 9 * time.Minute, true},
		{"exactly at window edge", 10 * time.Minute, false},
		{"beyond window", 11 * time.Minute, false},
		{"exactly at start", 0, false},
		{"already started", -time.Minute, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := bookingAt("bk_1", now.Add(tt.until))
			assert.Equal(t, tt.want, s.dueForPrompt(&b, now))
		})
	}
}

func TestDueForPromptRequiresConfirmedStatus(t *testing.T) {
	now := time.Date(2026, 9, 2, 12, 0, 0, 0, time.Local)
	s := newTestScheduler(&fakeSource{}, &fakeLifecycle{})

	b := bookingAt("bk_1", now.Add(5*time.Minute))
	b.Status = models.BookingPending
	assert.False(t, s.dueForPrompt(&b, now))

	b.Status = models.BookingCancelled
	assert.False(t, s.dueForPrompt(&b, now))

	b.Status = models.BookingConfirmed
	b.CustomerConfirmed = true
	assert.False(t, s.dueForPrompt(&b, now), "already answered prompts are not re-issued")

	b.CustomerConfirmed = false
	assert.True(t, s.dueForPrompt(&b, now))
}

func TestEvaluatePostsSinglePrompt(t *testing.T) {
	now := time.Date(2026, 9, 2, 12, 0, 0, 0, time.Local)
	src := &fakeSource{}
	src.set(
		bookingAt("bk_1", now.Add(5*time.Minute)),
		bookingAt("bk_2", now.Add(7*time.Minute)),
	)

	s := newTestScheduler(src, &fakeLifecycle{})
	s.now = func() time.Time { return now }

	s.evaluate(context.Background())
	first := s.Outstanding()
	require.NotNil(t, first)

	// Second evaluation keeps the posted prompt, never stacks another.
	s.evaluate(context.Background())
	second := s.Outstanding()
	require.NotNil(t, second)
	assert.Equal(t, first.ID, second.ID)
}

func TestRespondConfirm(t *testing.T) {
	now := time.Date(2026, 9, 2, 12, 0, 0, 0, time.Local)
	src := &fakeSource{}
	src.set(bookingAt("bk_1", now.Add(5*time.Minute)))
	lc := &fakeLifecycle{}

	s := newTestScheduler(src, lc)
	s.now = func() time.Time { return now }
	s.evaluate(context.Background())
	require.NotNil(t, s.Outstanding())

	require.NoError(t, s.Respond(context.Background(), true))
	assert.Equal(t, []string{"bk_1"}, lc.confirmed)
	assert.Empty(t, lc.cancelled)
	assert.Nil(t, s.Outstanding(), "responding clears the prompt")
}

func TestRespondCancel(t *testing.T) {
	now := time.Date(2026, 9, 2, 12, 0, 0, 0, time.Local)
	src := &fakeSource{}
	src.set(bookingAt("bk_1", now.Add(5*time.Minute)))
	lc := &fakeLifecycle{}

	s := newTestScheduler(src, lc)
	s.now = func() time.Time { return now }
	s.evaluate(context.Background())

	require.NoError(t, s.Respond(context.Background(), false))
	assert.Equal(t, []string{"bk_1"}, lc.cancelled)
	assert.Nil(t, s.Outstanding())
}

func TestRespondLifecycleFailureKeepsPrompt(t *testing.T) {
	now := time.Date(2026, 9, 2, 12, 0, 0, 0, time.Local)
	src := &fakeSource{}
	src.set(bookingAt("bk_1", now.Add(5*time.Minute)))
	lc := &fakeLifecycle{err: errors.New("store down")}

	s := newTestScheduler(src, lc)
	s.now = func() time.Time { return now }
	s.evaluate(context.Background())
	require.NotNil(t, s.Outstanding())

	before := testutil.ToFloat64(metrics.PromptAnswered("cancel"))
	require.Error(t, s.Respond(context.Background(), false))
	assert.NotNil(t, s.Outstanding(), "failed response leaves the prompt pending")
	assert.Empty(t, lc.cancelled)
	assert.Equal(t, before, testutil.ToFloat64(metrics.PromptAnswered("cancel")),
		"a failed response is not counted as answered")
}

func TestRespondWithoutPrompt(t *testing.T) {
	s := newTestScheduler(&fakeSource{}, &fakeLifecycle{})
	assert.ErrorIs(t, s.Respond(context.Background(), true), models.ErrNotFound)
}

func TestMissedPromptAgesOutSilently(t *testing.T) {
	now := time.Date(2026, 9, 2, 12, 0, 0, 0, time.Local)
	src := &fakeSource{}
	src.set(bookingAt("bk_1", now.Add(25*time.Minute)))

	s := newTestScheduler(src, &fakeLifecycle{})
	current := now
	s.now = func() time.Time { return current }

	s.evaluate(context.Background())
	assert.Nil(t, s.Outstanding(), "outside window, nothing posted")

	// Time passes beyond the start without the booking entering the
	// window at any evaluated tick.
	current = now.Add(30 * time.Minute)
	s.evaluate(context.Background())
	assert.Nil(t, s.Outstanding())
}

func TestStartStopLifecycle(t *testing.T) {
	src := &fakeSource{}
	s := newTestScheduler(src, &fakeLifecycle{})
	s.cfg.PollInterval = 10 * time.Millisecond

	ctx := context.Background()
	s.Start(ctx)
	assert.True(t, s.Running())

	// Repeated start is a no-op, no stacked tickers.
	s.Start(ctx)
	assert.True(t, s.Running())

	s.Stop()
	assert.False(t, s.Running())
	s.Stop() // idempotent

	// Restartable after stop.
	s.Start(ctx)
	assert.True(t, s.Running())
	s.Stop()
}

func TestKickTriggersImmediateEvaluation(t *testing.T) {
	now := time.Date(2026, 9, 2, 12, 0, 0, 0, time.Local)
	src := &fakeSource{}
	s := newTestScheduler(src, &fakeLifecycle{})
	s.cfg.PollInterval = time.Hour // only kicks can trigger evaluation
	s.now = func() time.Time { return now }

	s.Start(context.Background())
	defer s.Stop()

	src.set(bookingAt("bk_1", now.Add(5*time.Minute)))
	s.Kick()

	require.Eventually(t, func() bool {
		return s.Outstanding() != nil
	}, time.Second, 5*time.Millisecond)
}

func TestSessionManager(t *testing.T) {
	logger := zerolog.New(io.Discard)
	src := &fakeSource{}
	lc := &fakeLifecycle{}
	bus := events.NewBus()

	cfg := DefaultConfig()
	cfg.PollInterval = time.Hour
	m := NewSessionManager(cfg, src, lc, nil, bus, &logger)

	now := time.Date(2026, 9, 2, 12, 0, 0, 0, time.Local)
	s := m.Open(context.Background(), "cust_1")
	s.now = func() time.Time { return now }
	assert.True(t, s.Running())
	assert.Same(t, s, m.Open(context.Background(), "cust_1"), "one scheduler per customer")
	assert.Same(t, s, m.Get("cust_1"))

	// A booking change for this customer wakes the scheduler.
	src.set(bookingAt("bk_1", now.Add(5*time.Minute)))
	bus.Publish(events.BookingChange{BookingID: "bk_1", CustomerID: "cust_1"})
	require.Eventually(t, func() bool {
		return s.Outstanding() != nil
	}, time.Second, 5*time.Millisecond)

	m.Close("cust_1")
	assert.False(t, s.Running())
	assert.Nil(t, m.Get("cust_1"))

	s2 := m.Open(context.Background(), "cust_2")
	m.Shutdown()
	assert.False(t, s2.Running())
}
