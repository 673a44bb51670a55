// Package reminder implements the time-windowed arrival-confirmation
// protocol: a polling task per customer session that surfaces a one-shot
// prompt when a confirmed booking is about to start.
package reminder

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/kithuachu121-spec/salonslotbook/internal/metrics"
	"github.com/kithuachu121-spec/salonslotbook/internal/models"
)

// Config holds scheduler tuning.
type Config struct {
	// PollInterval is how often the customer's bookings are re-evaluated.
	PollInterval time.Duration
	// Window is how long before a booking starts the prompt may appear.
	Window time.Duration
}

// DefaultConfig returns the reference settings: a 10 second poll against a
// 10 minute window.
func DefaultConfig() Config {
	return Config{
		PollInterval: 10 * time.Second,
		Window:       10 * time.Minute,
	}
}

// BookingSource lists a customer's bookings.
type BookingSource interface {
	ListBookingsByCustomer(ctx context.Context, customerID string) ([]models.Booking, error)
}

// Lifecycle is the subset of booking operations prompt responses trigger.
type Lifecycle interface {
	ConfirmArrival(ctx context.Context, bookingID string) error
	UpdateStatus(ctx context.Context, bookingID string, to models.BookingStatus) (*models.Booking, error)
}

// Notifier is told when a prompt is surfaced or cleared. Implementations
// deliver it to the customer's UI; the scheduler itself holds the state.
type Notifier interface {
	PromptPosted(booking models.Booking)
	PromptCleared(bookingID string)
}

// Scheduler watches one customer's bookings. Its lifetime is tied to the
// customer session: Start when the session opens, Stop when it ends.
// Repeated Starts do not stack tickers.
type Scheduler struct {
	cfg        Config
	customerID string
	bookings   BookingSource
	lifecycle  Lifecycle
	notifier   Notifier
	logger     *zerolog.Logger
	now        func() time.Time

	mu          sync.Mutex
	running     bool
	outstanding *models.Booking
	stopCh      chan struct{}
	kickCh      chan struct{}
	wg          sync.WaitGroup
}

// NewScheduler creates a scheduler for one customer. notifier may be nil.
func NewScheduler(
	cfg Config,
	customerID string,
	bookings BookingSource,
	lifecycle Lifecycle,
	notifier Notifier,
	logger *zerolog.Logger,
) *Scheduler {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultConfig().PollInterval
	}
	if cfg.Window <= 0 {
		cfg.Window = DefaultConfig().Window
	}
	return &Scheduler{
		cfg:        cfg,
		customerID: customerID,
		bookings:   bookings,
		lifecycle:  lifecycle,
		notifier:   notifier,
		logger:     logger,
		now:        time.Now,
		kickCh:     make(chan struct{}, 1),
	}
}

// Start begins the polling loop with an immediate first evaluation.
// Idempotent while running.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.stopCh = make(chan struct{})
	stopCh := s.stopCh
	s.mu.Unlock()

	s.logger.Info().
		Str("customer_id", s.customerID).
		Dur("poll_interval", s.cfg.PollInterval).
		Dur("window", s.cfg.Window).
		Msg("reminder scheduler started")

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		s.evaluate(ctx)

		ticker := time.NewTicker(s.cfg.PollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-stopCh:
				return
			case <-ticker.C:
				s.evaluate(ctx)
			case <-s.kickCh:
				s.evaluate(ctx)
			}
		}
	}()
}

// Stop ends the polling loop and waits for it to exit.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	s.wg.Wait()
	s.logger.Info().Str("customer_id", s.customerID).Msg("reminder scheduler stopped")
}

// Running reports whether the polling loop is active.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Kick requests an immediate re-evaluation, used when the customer's
// booking set changes. Coalesces when an evaluation is already queued.
func (s *Scheduler) Kick() {
	select {
	case s.kickCh <- struct{}{}:
	default:
	}
}

// Outstanding returns the booking currently prompted, or nil.
func (s *Scheduler) Outstanding() *models.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.outstanding == nil {
		return nil
	}
	cp := *s.outstanding
	return &cp
}

// Respond handles the customer's answer to the outstanding prompt:
// confirm=true confirms arrival, confirm=false cancels the booking.
// The prompt is cleared only once the lifecycle call succeeds, so a
// failed answer can be retried.
func (s *Scheduler) Respond(ctx context.Context, confirm bool) error {
	s.mu.Lock()
	b := s.outstanding
	s.mu.Unlock()
	if b == nil {
		return models.ErrNotFound
	}

	var err error
	answer := "cancel"
	if confirm {
		answer = "confirm"
		err = s.lifecycle.ConfirmArrival(ctx, b.ID)
	} else {
		_, err = s.lifecycle.UpdateStatus(ctx, b.ID, models.BookingCancelled)
	}
	if err != nil {
		return err
	}
	metrics.IncPromptAnswered(answer)

	s.clearPrompt(b.ID)
	return nil
}

// evaluate runs the selection rule against the customer's bookings.
func (s *Scheduler) evaluate(ctx context.Context) {
	s.mu.Lock()
	hasPrompt := s.outstanding != nil
	s.mu.Unlock()
	// One prompt at a time; it stays posted until the customer responds.
	if hasPrompt {
		return
	}

	bookings, err := s.bookings.ListBookingsByCustomer(ctx, s.customerID)
	if err != nil {
		s.logger.Error().Err(err).Str("customer_id", s.customerID).Msg("list bookings for reminder")
		return
	}

	now := s.now()
	for i := range bookings {
		b := bookings[i]
		if !s.dueForPrompt(&b, now) {
			continue
		}

		s.mu.Lock()
		s.outstanding = &b
		s.mu.Unlock()

		metrics.IncPromptIssued()
		s.logger.Info().
			Str("booking_id", b.ID).
			Str("date", b.Date).
			Str("time", b.Time).
			Msg("arrival prompt posted")
		if s.notifier != nil {
			s.notifier.PromptPosted(b)
		}
		return
	}
}

// dueForPrompt applies the selection predicate: status CONFIRMED, not yet
// customer-confirmed, and now strictly inside (start-window, start). A tick
// at exactly the window edge or exactly at start does not match, so a
// booking the customer ignored ages out silently.
func (s *Scheduler) dueForPrompt(b *models.Booking, now time.Time) bool {
	if b.Status != models.BookingConfirmed || b.CustomerConfirmed {
		return false
	}
	start, err := b.StartsAt()
	if err != nil {
		return false
	}
	until := start.Sub(now)
	return until > 0 && until < s.cfg.Window
}

func (s *Scheduler) clearPrompt(bookingID string) {
	s.mu.Lock()
	s.outstanding = nil
	s.mu.Unlock()
	if s.notifier != nil {
		s.notifier.PromptCleared(bookingID)
	}
}
