package domain

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusActive    BookingStatus = "ACTIVE"
	BookingStatusCompleted BookingStatus = "COMPLETED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
	BookingStatusRejected  BookingStatus = "REJECTED"
)

// transitions is the only authority on status changes. Every mutation path,
// including the admin override endpoint, is validated against it.
var transitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusRejected, BookingStatusCancelled},
	BookingStatusConfirmed: {BookingStatusActive, BookingStatusCompleted, BookingStatusCancelled},
	BookingStatusActive:    {BookingStatusCompleted},
}

func CanTransition(from, to BookingStatus) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// ParseBookingStatus maps a free-form status string (admin override input)
// onto the closed enum.
func ParseBookingStatus(s string) (BookingStatus, bool) {
	switch BookingStatus(s) {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusActive,
		BookingStatusCompleted, BookingStatusCancelled, BookingStatusRejected:
		return BookingStatus(s), true
	}
	return "", false
}

// Terminal reports whether no further transitions are possible.
func (s BookingStatus) Terminal() bool {
	return len(transitions[s]) == 0
}

type Booking struct {
	ID                 int64
	Reference          string
	UserID             string
	RoomID             int64
	CheckIn            time.Time
	CheckOut           time.Time
	Nights             int
	TotalCost          float64
	Status             BookingStatus
	PaymentRef         *string
	ConfirmedAt        *time.Time
	CancelledAt        *time.Time
	RejectedAt         *time.Time
	CancellationReason *string
	RejectionReason    *string
	RefundAmount       *float64
	CancellationFee    *float64
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Occupies reports whether the booking counts against room availability.
// Cancelled and rejected bookings release their date range.
func (b *Booking) Occupies() bool {
	return b.Status != BookingStatusCancelled && b.Status != BookingStatusRejected
}

// Overlaps applies the half-open interval rule: a checkout on the same day
// as another booking's check-in does not conflict.
func (b *Booking) Overlaps(checkIn, checkOut time.Time) bool {
	return b.CheckIn.Before(checkOut) && b.CheckOut.After(checkIn)
}
