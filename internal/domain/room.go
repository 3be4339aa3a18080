package domain

import "time"

type RoomType struct {
	ID            int64
	Name          string
	Description   string
	PricePerNight float64
	Capacity      int
	ImageURL      *string
}

// Room is read-only from the booking core's perspective, except that the
// completion sweep flips Available back to true. Available is the coarse
// administrative switch; effective availability for a date range also
// requires the absence of an occupying booking.
type Room struct {
	ID         int64
	Number     string
	RoomTypeID int64
	Available  bool
	RoomType   RoomType
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
