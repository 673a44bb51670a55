package reminder

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/kithuachu121-spec/salonslotbook/internal/events"
)

// SessionManager owns one scheduler per active customer session and routes
// booking-change events to the matching scheduler for immediate
// re-evaluation.
type SessionManager struct {
	cfg       Config
	bookings  BookingSource
	lifecycle Lifecycle
	notifier  Notifier
	logger    *zerolog.Logger

	mu       sync.Mutex
	sessions map[string]*Scheduler
}

// NewSessionManager creates a manager and subscribes it to the bus.
func NewSessionManager(
	cfg Config,
	bookings BookingSource,
	lifecycle Lifecycle,
	notifier Notifier,
	bus *events.Bus,
	logger *zerolog.Logger,
) *SessionManager {
	m := &SessionManager{
		cfg:       cfg,
		bookings:  bookings,
		lifecycle: lifecycle,
		notifier:  notifier,
		logger:    logger,
		sessions:  make(map[string]*Scheduler),
	}
	if bus != nil {
		bus.Subscribe(m.onBookingChange)
	}
	return m
}

// Open starts (or returns) the scheduler for a customer session.
func (m *SessionManager) Open(ctx context.Context, customerID string) *Scheduler {
	m.mu.Lock()
	s, ok := m.sessions[customerID]
	if !ok {
		s = NewScheduler(m.cfg, customerID, m.bookings, m.lifecycle, m.notifier, m.logger)
		m.sessions[customerID] = s
	}
	m.mu.Unlock()

	s.Start(ctx)
	return s
}

// Get returns the scheduler for a customer, or nil when no session is open.
func (m *SessionManager) Get(customerID string) *Scheduler {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[customerID]
}

// Close stops and removes a customer's scheduler.
func (m *SessionManager) Close(customerID string) {
	m.mu.Lock()
	s := m.sessions[customerID]
	delete(m.sessions, customerID)
	m.mu.Unlock()

	if s != nil {
		s.Stop()
	}
}

// Shutdown stops every open session.
func (m *SessionManager) Shutdown() {
	m.mu.Lock()
	schedulers := make([]*Scheduler, 0, len(m.sessions))
	for id, s := range m.sessions {
		schedulers = append(schedulers, s)
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	for _, s := range schedulers {
		s.Stop()
	}
}

func (m *SessionManager) onBookingChange(change events.BookingChange) {
	m.mu.Lock()
	s := m.sessions[change.CustomerID]
	m.mu.Unlock()

	if s != nil {
		s.Kick()
	}
}
