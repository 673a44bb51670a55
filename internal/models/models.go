package models

import "time"

// SalonStatus marks whether a salon is visible to customers.
type SalonStatus string

const (
	SalonActive   SalonStatus = "ACTIVE"
	SalonInactive SalonStatus = "INACTIVE"
)

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCancelled BookingStatus = "CANCELLED"
	BookingCompleted BookingStatus = "COMPLETED"
)

// Valid reports whether s is a known booking status.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCancelled, BookingCompleted:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are allowed from s.
func (s BookingStatus) Terminal() bool {
	return s == BookingCancelled || s == BookingCompleted
}

// Service is a catalog entry owned by a salon.
type Service struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	DurationMins int     `json:"duration_mins"`
}

// CustomSlot is a manually added bookable time, independent of operating hours.
type CustomSlot struct {
	Date string `json:"date"` // YYYY-MM-DD
	Time string `json:"time"` // HH:MM
}

// Salon owns its operating hours, service catalog, closed dates and custom slots.
// ClosedDates and CustomSlots are read and written wholesale on the salon record.
type Salon struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	OwnerName    string       `json:"owner_name"`
	Email        string       `json:"email"`
	Phone        string       `json:"phone"`
	Location     string       `json:"location"`
	OpenTime     string       `json:"open_time"`  // HH:MM
	CloseTime    string       `json:"close_time"` // HH:MM
	Services     []Service    `json:"services"`
	Status       SalonStatus  `json:"status"`
	LastActivity time.Time    `json:"last_activity"`
	ClosedDates  []string     `json:"closed_dates"`
	CustomSlots  []CustomSlot `json:"custom_slots"`
	BookingCount int          `json:"booking_count,omitempty"`
}

// IsClosedOn reports whether the salon accepts no bookings on the given date.
func (s *Salon) IsClosedOn(date string) bool {
	for _, d := range s.ClosedDates {
		if d == date {
			return true
		}
	}
	return false
}

// CustomTimesOn returns the custom slot times for a date.
func (s *Salon) CustomTimesOn(date string) []string {
	var times []string
	for _, cs := range s.CustomSlots {
		if cs.Date == date {
			times = append(times, cs.Time)
		}
	}
	return times
}

// User is a customer or owner account record.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"` // CUSTOMER, OWNER, ADMIN
	Name      string    `json:"name,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	SalonID   string    `json:"salon_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Booking is an independent record jointly referenced by salon and customer.
// Exactly one booking may exist in non-cancelled state per (salon, date, time).
type Booking struct {
	ID                string        `json:"id"`
	SalonID           string        `json:"salon_id"`
	CustomerID        string        `json:"customer_id"`
	CustomerName      string        `json:"customer_name"`
	CustomerPhone     string        `json:"customer_phone"`
	ServiceID         string        `json:"service_id"`
	ServiceName       string        `json:"service_name"`
	Price             float64       `json:"price"`
	Date              string        `json:"date"` // YYYY-MM-DD
	Time              string        `json:"time"` // HH:MM
	Status            BookingStatus `json:"status"`
	CustomerConfirmed bool          `json:"customer_confirmed"`
	SalonName         string        `json:"salon_name,omitempty"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

// StartsAt builds the booking start from its local calendar date and
// time-of-day. Date and time are wall-clock values, no timezone conversion.
func (b *Booking) StartsAt() (time.Time, error) {
	return time.ParseInLocation("2006-01-02 15:04", b.Date+" "+b.Time, time.Local)
}

// Active reports whether the booking still occupies its slot.
func (b *Booking) Active() bool {
	return b.Status != BookingCancelled
}

// Review is a customer rating for a salon.
type Review struct {
	ID           string    `json:"id"`
	SalonID      string    `json:"salon_id"`
	CustomerID   string    `json:"customer_id"`
	CustomerName string    `json:"customer_name"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment"`
	CreatedAt    time.Time `json:"created_at"`
}
