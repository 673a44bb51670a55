package models

import "errors"

// Domain errors shared by storage, lifecycle and API layers. All are
// synchronous; retries are a caller policy.
var (
	// ErrSlotConflict means a non-cancelled booking already occupies the
	// (salon, date, time) tuple.
	ErrSlotConflict = errors.New("slot already booked")

	// ErrInvalidTransition means a status change violates the booking
	// state machine.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrInvalidInput covers malformed times, operating hours with
	// open >= close, and failed field validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound means the requested record does not exist.
	ErrNotFound = errors.New("record not found")
)
