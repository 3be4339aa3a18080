package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	testCases := []struct {
		from    BookingStatus
		to      BookingStatus
		allowed bool
	}{
		{BookingStatusPending, BookingStatusConfirmed, true},
		{BookingStatusPending, BookingStatusRejected, true},
		{BookingStatusPending, BookingStatusCancelled, true},
		{BookingStatusPending, BookingStatusCompleted, false},
		{BookingStatusConfirmed, BookingStatusActive, true},
		{BookingStatusConfirmed, BookingStatusCompleted, true},
		{BookingStatusConfirmed, BookingStatusCancelled, true},
		{BookingStatusConfirmed, BookingStatusPending, false},
		{BookingStatusActive, BookingStatusCompleted, true},
		{BookingStatusActive, BookingStatusCancelled, false},
		{BookingStatusCompleted, BookingStatusConfirmed, false},
		{BookingStatusCancelled, BookingStatusPending, false},
		{BookingStatusRejected, BookingStatusConfirmed, false},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.allowed, CanTransition(tc.from, tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestBookingStatus_Terminal(t *testing.T) {
	assert.False(t, BookingStatusPending.Terminal())
	assert.False(t, BookingStatusConfirmed.Terminal())
	assert.False(t, BookingStatusActive.Terminal())
	assert.True(t, BookingStatusCompleted.Terminal())
	assert.True(t, BookingStatusCancelled.Terminal())
	assert.True(t, BookingStatusRejected.Terminal())
}

func TestParseBookingStatus(t *testing.T) {
	status, ok := ParseBookingStatus("CONFIRMED")
	assert.True(t, ok)
	assert.Equal(t, BookingStatusConfirmed, status)

	_, ok = ParseBookingStatus("confirmed")
	assert.False(t, ok)

	_, ok = ParseBookingStatus("APPROVED")
	assert.False(t, ok)
}

func TestBooking_Overlaps(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC) }
	booking := &Booking{CheckIn: day(10), CheckOut: day(13)}

	assert.True(t, booking.Overlaps(day(11), day(12)), "contained range")
	assert.True(t, booking.Overlaps(day(8), day(15)), "covering range")
	assert.True(t, booking.Overlaps(day(12), day(16)), "partial overlap at the end")

	// Same-day turnover: checkout day equals the next check-in day.
	assert.False(t, booking.Overlaps(day(13), day(16)), "starts on checkout day")
	assert.False(t, booking.Overlaps(day(7), day(10)), "ends on check-in day")
}

func TestBooking_Occupies(t *testing.T) {
	for _, status := range []BookingStatus{
		BookingStatusPending, BookingStatusConfirmed, BookingStatusActive, BookingStatusCompleted,
	} {
		b := &Booking{Status: status}
		assert.True(t, b.Occupies(), string(status))
	}
	for _, status := range []BookingStatus{BookingStatusCancelled, BookingStatusRejected} {
		b := &Booking{Status: status}
		assert.False(t, b.Occupies(), string(status))
	}
}
