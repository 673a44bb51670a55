package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	bookingCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "salonslotbook",
			Name:      "booking_created_total",
			Help:      "Count of booking requests created.",
		},
	)

	bookingTransition = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "salonslotbook",
			Name:      "booking_transition_total",
			Help:      "Count of booking status transitions by target status.",
		},
		[]string{"to"},
	)

	slotConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "salonslotbook",
			Name:      "slot_conflict_total",
			Help:      "Count of booking creations rejected because the slot was taken.",
		},
	)

	promptIssued = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "salonslotbook",
			Name:      "arrival_prompt_issued_total",
			Help:      "Count of arrival-confirmation prompts surfaced to customers.",
		},
	)

	promptAnswered = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "salonslotbook",
			Name:      "arrival_prompt_answered_total",
			Help:      "Count of prompt responses by action.",
		},
		[]string{"action"},
	)

	availabilityCache = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "salonslotbook",
			Name:      "availability_cache_total",
			Help:      "Availability cache lookups by outcome.",
		},
		[]string{"outcome"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			bookingCreated, bookingTransition, slotConflicts,
			promptIssued, promptAnswered, availabilityCache,
		)
	})
}

func IncBookingCreated() {
	bookingCreated.Inc()
}

func IncBookingTransition(to string) {
	bookingTransition.WithLabelValues(to).Inc()
}

func IncSlotConflict() {
	slotConflicts.Inc()
}

func IncPromptIssued() {
	promptIssued.Inc()
}

func IncPromptAnswered(action string) {
	promptAnswered.WithLabelValues(action).Inc()
}

// PromptAnswered returns the answered-prompt counter for an action.
func PromptAnswered(action string) prometheus.Counter {
	return promptAnswered.WithLabelValues(action)
}

func IncAvailabilityCache(outcome string) {
	availabilityCache.WithLabelValues(outcome).Inc()
}
