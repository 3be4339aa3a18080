package rooms

import (
	"context"
	"time"

	"github.com/Domenick1991/hotelbooking/internal/domain"
	"github.com/Domenick1991/hotelbooking/internal/repository"
)

type RoomUseCase interface {
	ListAvailable(ctx context.Context, checkIn, checkOut time.Time) ([]domain.Room, error)
	GetByID(ctx context.Context, id int64) (*domain.Room, error)
	IsAvailable(ctx context.Context, roomID int64, checkIn, checkOut time.Time) (bool, error)
	IsAvailableExcluding(ctx context.Context, roomID int64, checkIn, checkOut time.Time, excludeBookingID int64) (bool, error)
	SetAvailability(ctx context.Context, roomID int64, available bool) error
}

type Cache interface {
	GetAvailableRooms(ctx context.Context, checkIn, checkOut time.Time) ([]domain.Room, error)
	SetAvailableRooms(ctx context.Context, checkIn, checkOut time.Time, rooms []domain.Room) error
	InvalidateAvailableRooms(ctx context.Context) error
}

type RoomService struct {
	rooms    repository.RoomRepository
	bookings repository.BookingRepository
	cache    Cache
}

func NewRoomService(rooms repository.RoomRepository, bookings repository.BookingRepository, cache Cache) *RoomService {
	return &RoomService{rooms: rooms, bookings: bookings, cache: cache}
}

func (s *RoomService) ListAvailable(ctx context.Context, checkIn, checkOut time.Time) ([]domain.Room, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetAvailableRooms(ctx, checkIn, checkOut); err == nil && cached != nil {
			return cached, nil
		}
	}

	available, err := s.rooms.ListAvailable(ctx, checkIn, checkOut)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetAvailableRooms(ctx, checkIn, checkOut, available)
	}
	return available, nil
}

func (s *RoomService) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	return s.rooms.GetByID(ctx, id)
}

// IsAvailable reports whether the room can take a booking for
// [checkIn, checkOut): the administrative flag must be on and no occupying
// booking may overlap the range.
func (s *RoomService) IsAvailable(ctx context.Context, roomID int64, checkIn, checkOut time.Time) (bool, error) {
	return s.IsAvailableExcluding(ctx, roomID, checkIn, checkOut, 0)
}

// IsAvailableExcluding is the confirmation-time variant: the booking being
// confirmed must not conflict with itself.
func (s *RoomService) IsAvailableExcluding(ctx context.Context, roomID int64, checkIn, checkOut time.Time, excludeBookingID int64) (bool, error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return false, err
	}
	if !room.Available {
		return false, nil
	}

	overlapping, err := s.bookings.GetOverlapping(ctx, roomID, checkIn, checkOut)
	if err != nil {
		return false, err
	}
	for _, b := range overlapping {
		if b.ID == excludeBookingID {
			continue
		}
		if b.Occupies() && b.Overlaps(checkIn, checkOut) {
			return false, nil
		}
	}
	return true, nil
}

// SetAvailability flips the administrative flag and evicts the cached
// availability listings so the change is visible immediately.
func (s *RoomService) SetAvailability(ctx context.Context, roomID int64, available bool) error {
	if err := s.rooms.SetAvailability(ctx, roomID, available); err != nil {
		return err
	}
	if s.cache != nil {
		_ = s.cache.InvalidateAvailableRooms(ctx)
	}
	return nil
}

var _ RoomUseCase = (*RoomService)(nil)
