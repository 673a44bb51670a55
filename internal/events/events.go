// Package events provides in-process pub/sub for booking-set changes.
package events

import (
	"sync"
	"time"
)

// BookingChange describes a mutation of the booking set. The reminder
// scheduler uses it to re-evaluate a customer's bookings immediately
// instead of waiting for the next poll tick.
type BookingChange struct {
	BookingID  string
	SalonID    string
	CustomerID string
	Date       string
	OccurredAt time.Time
}

// Handler reacts to a booking change.
type Handler func(change BookingChange)

// Bus fans booking changes out to subscribers.
type Bus struct {
	handlers []Handler
	mu       sync.RWMutex
}

// NewBus constructs an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a handler for all booking changes.
func (b *Bus) Subscribe(handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, handler)
}

// Publish notifies subscribers of a change.
func (b *Bus) Publish(change BookingChange) {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers...)
	b.mu.RUnlock()

	if change.OccurredAt.IsZero() {
		change.OccurredAt = time.Now()
	}

	for _, handler := range handlers {
		// Handlers run synchronously; caller decides concurrency model.
		handler(change)
	}
}
