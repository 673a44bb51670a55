package booking

import "github.com/kithuachu121-spec/salonslotbook/internal/models"

// transitions holds the allowed status changes. CANCELLED and COMPLETED are
// terminal: they have no outgoing edges.
var transitions = map[models.BookingStatus][]models.BookingStatus{
	models.BookingPending:   {models.BookingConfirmed, models.BookingCancelled},
	models.BookingConfirmed: {models.BookingCancelled, models.BookingCompleted},
	models.BookingCancelled: {},
	models.BookingCompleted: {},
}

// CanTransition reports whether the state machine allows from -> to.
func CanTransition(from, to models.BookingStatus) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
