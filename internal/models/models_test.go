package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingStatus(t *testing.T) {
	for _, s := range []BookingStatus{BookingPending, BookingConfirmed, BookingCancelled, BookingCompleted} {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, BookingStatus("PAUSED").Valid())
	assert.False(t, BookingStatus("").Valid())

	assert.True(t, BookingCancelled.Terminal())
	assert.True(t, BookingCompleted.Terminal())
	assert.False(t, BookingPending.Terminal())
	assert.False(t, BookingConfirmed.Terminal())
}

func TestBookingStartsAt(t *testing.T) {
	b := &Booking{Date: "2026-09-02", Time: "14:30"}
	got, err := b.StartsAt()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 9, 2, 14, 30, 0, 0, time.Local), got)

	b = &Booking{Date: "2026-09-02", Time: "2pm"}
	_, err = b.StartsAt()
	assert.Error(t, err)
}

func TestBookingActive(t *testing.T) {
	assert.True(t, (&Booking{Status: BookingPending}).Active())
	assert.True(t, (&Booking{Status: BookingConfirmed}).Active())
	assert.True(t, (&Booking{Status: BookingCompleted}).Active())
	assert.False(t, (&Booking{Status: BookingCancelled}).Active())
}

func TestSalonDateHelpers(t *testing.T) {
	salon := &Salon{
		ClosedDates: []string{"2026-09-02"},
		CustomSlots: []CustomSlot{
			{Date: "2026-09-03", Time: "19:00"},
			{Date: "2026-09-03", Time: "19:30"},
			{Date: "2026-09-04", Time: "08:00"},
		},
	}

	assert.True(t, salon.IsClosedOn("2026-09-02"))
	assert.False(t, salon.IsClosedOn("2026-09-03"))

	assert.Equal(t, []string{"19:00", "19:30"}, salon.CustomTimesOn("2026-09-03"))
	assert.Nil(t, salon.CustomTimesOn("2026-09-05"))
}
