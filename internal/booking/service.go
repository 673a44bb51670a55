// Package booking implements the reservation lifecycle: creation with
// conflict detection, the status state machine, and arrival confirmation.
package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/kithuachu121-spec/salonslotbook/internal/events"
	"github.com/kithuachu121-spec/salonslotbook/internal/metrics"
	"github.com/kithuachu121-spec/salonslotbook/internal/models"
	"github.com/kithuachu121-spec/salonslotbook/internal/slots"
)

// Store is the persistence surface the lifecycle needs. InsertBooking must
// enforce slot uniqueness for non-cancelled rows and return
// models.ErrSlotConflict on violation; the in-service pre-check only exists
// to answer most conflicts before touching the write path.
type Store interface {
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	InsertBooking(ctx context.Context, b *models.Booking) error
	UpdateBooking(ctx context.Context, b *models.Booking) error
	ListBookingsByCustomer(ctx context.Context, customerID string) ([]models.Booking, error)
	ListBookingsBySalon(ctx context.Context, salonID string) ([]models.Booking, error)
	TakenTimes(ctx context.Context, salonID, date string) (map[string]bool, error)
	TouchSalonActivity(ctx context.Context, salonID string, at time.Time) error
}

// Service drives booking state.
type Service struct {
	store  Store
	bus    *events.Bus
	logger *zerolog.Logger
	now    func() time.Time
}

// NewService creates a booking service. bus may be nil when no one listens
// for booking changes.
func NewService(store Store, bus *events.Bus, logger *zerolog.Logger) *Service {
	return &Service{
		store:  store,
		bus:    bus,
		logger: logger,
		now:    time.Now,
	}
}

// CreateParams carries the fields a customer supplies when reserving a slot.
type CreateParams struct {
	SalonID       string
	CustomerID    string
	CustomerName  string
	CustomerPhone string
	ServiceID     string
	ServiceName   string
	Price         float64
	Date          string // YYYY-MM-DD
	Time          string // HH:MM
}

func (p CreateParams) validate() error {
	if p.SalonID == "" || p.CustomerID == "" || p.ServiceID == "" {
		return fmt.Errorf("%w: salon, customer and service are required", models.ErrInvalidInput)
	}
	if _, err := time.Parse("2006-01-02", p.Date); err != nil {
		return fmt.Errorf("%w: date %q", models.ErrInvalidInput, p.Date)
	}
	if _, err := slots.ParseClock(p.Time); err != nil {
		return err
	}
	return nil
}

// Create reserves a slot. The new booking starts PENDING with
// customerConfirmed=false. Returns models.ErrSlotConflict when a
// non-cancelled booking already occupies (salon, date, time).
func (s *Service) Create(ctx context.Context, p CreateParams) (*models.Booking, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	taken, err := s.store.TakenTimes(ctx, p.SalonID, p.Date)
	if err != nil {
		return nil, fmt.Errorf("check slot: %w", err)
	}
	if taken[p.Time] {
		metrics.IncSlotConflict()
		return nil, fmt.Errorf("%w: %s %s at salon %s", models.ErrSlotConflict, p.Date, p.Time, p.SalonID)
	}

	now := s.now()
	b := &models.Booking{
		ID:            "bk_" + uuid.NewString(),
		SalonID:       p.SalonID,
		CustomerID:    p.CustomerID,
		CustomerName:  p.CustomerName,
		CustomerPhone: p.CustomerPhone,
		ServiceID:     p.ServiceID,
		ServiceName:   p.ServiceName,
		Price:         p.Price,
		Date:          p.Date,
		Time:          p.Time,
		Status:        models.BookingPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	// The store's uniqueness constraint closes the race two concurrent
	// creators would otherwise win together.
	if err := s.store.InsertBooking(ctx, b); err != nil {
		if isConflict(err) {
			metrics.IncSlotConflict()
		}
		return nil, err
	}

	if err := s.store.TouchSalonActivity(ctx, p.SalonID, now); err != nil {
		s.logger.Error().Err(err).Str("salon_id", p.SalonID).Msg("touch salon activity")
	}

	metrics.IncBookingCreated()
	s.logger.Info().
		Str("booking_id", b.ID).
		Str("salon_id", b.SalonID).
		Str("date", b.Date).
		Str("time", b.Time).
		Msg("booking created")

	s.publishChange(b)
	return b, nil
}

// UpdateStatus moves a booking along the state machine. A transition into
// CONFIRMED additionally refreshes the salon's last-activity timestamp.
func (s *Service) UpdateStatus(ctx context.Context, id string, to models.BookingStatus) (*models.Booking, error) {
	if !to.Valid() {
		return nil, fmt.Errorf("%w: status %q", models.ErrInvalidInput, to)
	}

	b, err := s.store.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	if !CanTransition(b.Status, to) {
		return nil, fmt.Errorf("%w: %s -> %s", models.ErrInvalidTransition, b.Status, to)
	}

	b.Status = to
	b.UpdatedAt = s.now()
	if err := s.store.UpdateBooking(ctx, b); err != nil {
		return nil, fmt.Errorf("update booking %s: %w", id, err)
	}

	if to == models.BookingConfirmed {
		if err := s.store.TouchSalonActivity(ctx, b.SalonID, b.UpdatedAt); err != nil {
			s.logger.Error().Err(err).Str("salon_id", b.SalonID).Msg("touch salon activity")
		}
	}

	metrics.IncBookingTransition(string(to))
	s.logger.Info().
		Str("booking_id", b.ID).
		Str("status", string(to)).
		Msg("booking status updated")

	s.publishChange(b)
	return b, nil
}

// ConfirmArrival records the customer's response to the imminent-appointment
// prompt. Only meaningful while the booking is CONFIRMED; calling it again
// once set is a no-op.
func (s *Service) ConfirmArrival(ctx context.Context, id string) error {
	b, err := s.store.GetBooking(ctx, id)
	if err != nil {
		return err
	}

	if b.Status != models.BookingConfirmed {
		return fmt.Errorf("%w: arrival confirmation requires status %s, booking is %s",
			models.ErrInvalidTransition, models.BookingConfirmed, b.Status)
	}
	if b.CustomerConfirmed {
		return nil
	}

	b.CustomerConfirmed = true
	b.UpdatedAt = s.now()
	if err := s.store.UpdateBooking(ctx, b); err != nil {
		return fmt.Errorf("update booking %s: %w", id, err)
	}

	s.logger.Info().Str("booking_id", b.ID).Msg("arrival confirmed")
	s.publishChange(b)
	return nil
}

// ListByCustomer returns the customer's bookings.
func (s *Service) ListByCustomer(ctx context.Context, customerID string) ([]models.Booking, error) {
	return s.store.ListBookingsByCustomer(ctx, customerID)
}

// ListBySalon returns a salon's bookings.
func (s *Service) ListBySalon(ctx context.Context, salonID string) ([]models.Booking, error) {
	return s.store.ListBookingsBySalon(ctx, salonID)
}

func (s *Service) publishChange(b *models.Booking) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(events.BookingChange{
		BookingID:  b.ID,
		SalonID:    b.SalonID,
		CustomerID: b.CustomerID,
		Date:       b.Date,
		OccurredAt: s.now(),
	})
}

func isConflict(err error) bool {
	return errors.Is(err, models.ErrSlotConflict)
}
