// Package availability merges canonical and custom slots for a salon+date
// and marks which of them are already taken.
package availability

import (
	"context"
	"fmt"
	"sort"

	"github.com/kithuachu121-spec/salonslotbook/internal/models"
	"github.com/kithuachu121-spec/salonslotbook/internal/slots"
)

// Slot is a candidate appointment start for a salon+date. Taken slots stay
// in the result so callers can render them disabled; selection eligibility
// is !Taken. Custom marks times present only via the salon's custom-slot set.
type Slot struct {
	Time   string `json:"time"`
	Taken  bool   `json:"taken"`
	Custom bool   `json:"custom"`
}

// BookingSource reports which times are occupied by non-cancelled bookings.
type BookingSource interface {
	TakenTimes(ctx context.Context, salonID, date string) (map[string]bool, error)
}

// Resolver produces the bookable slot set for a salon+date.
type Resolver struct {
	bookings BookingSource
}

// NewResolver creates a resolver backed by the given booking source.
func NewResolver(bookings BookingSource) *Resolver {
	return &Resolver{bookings: bookings}
}

// Resolve returns all candidate slots for the date, ordered ascending.
// A closed date is absolute and yields an empty result regardless of
// operating hours or custom slots. The result is a snapshot; staleness is
// resolved by the conflict check at booking creation, not by locking.
func (r *Resolver) Resolve(ctx context.Context, salon *models.Salon, date string) ([]Slot, error) {
	if salon.IsClosedOn(date) {
		return []Slot{}, nil
	}

	canonical := slots.Generate(salon.OpenTime, salon.CloseTime)
	custom := salon.CustomTimesOn(date)

	// Union with set semantics on the time value; a custom slot equal to a
	// canonical one is not duplicated and is not flagged custom.
	inCanonical := make(map[string]bool, len(canonical))
	for _, t := range canonical {
		inCanonical[t] = true
	}
	merged := append([]string(nil), canonical...)
	seen := make(map[string]bool, len(canonical))
	for _, t := range canonical {
		seen[t] = true
	}
	for _, t := range custom {
		if !seen[t] {
			merged = append(merged, t)
			seen[t] = true
		}
	}

	// Zero-padded HH:MM sorts chronologically as a string.
	sort.Strings(merged)

	taken, err := r.bookings.TakenTimes(ctx, salon.ID, date)
	if err != nil {
		return nil, fmt.Errorf("taken times for salon %s on %s: %w", salon.ID, date, err)
	}

	result := make([]Slot, 0, len(merged))
	for _, t := range merged {
		result = append(result, Slot{
			Time:   t,
			Taken:  taken[t],
			Custom: !inCanonical[t],
		})
	}
	return result, nil
}
