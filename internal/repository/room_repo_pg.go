package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Domenick1991/hotelbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RoomRepository interface {
	List(ctx context.Context) ([]domain.Room, error)
	ListAvailable(ctx context.Context, checkIn, checkOut time.Time) ([]domain.Room, error)
	GetByID(ctx context.Context, id int64) (*domain.Room, error)
	SetAvailability(ctx context.Context, roomID int64, available bool) error
}

const roomColumns = `r.id, r.room_number, r.room_type_id, r.is_available, r.created_at, r.updated_at,
	t.id, t.name, t.description, t.price_per_night, t.capacity, t.image_url`

type PGRoomRepository struct {
	db *pgxpool.Pool
}

func NewRoomRepository(db *pgxpool.Pool) RoomRepository {
	return &PGRoomRepository{db: db}
}

func (r *PGRoomRepository) List(ctx context.Context) ([]domain.Room, error) {
	rows, err := r.db.Query(ctx, `SELECT `+roomColumns+`
		FROM rooms r JOIN room_types t ON t.id = r.room_type_id
		ORDER BY r.room_number`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRooms(rows)
}

// ListAvailable returns rooms with the administrative flag on and no
// occupying booking overlapping [checkIn, checkOut).
func (r *PGRoomRepository) ListAvailable(ctx context.Context, checkIn, checkOut time.Time) ([]domain.Room, error) {
	rows, err := r.db.Query(ctx, `SELECT `+roomColumns+`
		FROM rooms r JOIN room_types t ON t.id = r.room_type_id
		WHERE r.is_available
		  AND NOT EXISTS (
			SELECT 1 FROM bookings b
			WHERE b.room_id = r.id
			  AND b.status NOT IN ($1, $2)
			  AND b.check_in < $3 AND b.check_out > $4
		  )
		ORDER BY r.room_number`,
		domain.BookingStatusCancelled, domain.BookingStatusRejected, checkOut, checkIn)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRooms(rows)
}

func (r *PGRoomRepository) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	row := r.db.QueryRow(ctx, `SELECT `+roomColumns+`
		FROM rooms r JOIN room_types t ON t.id = r.room_type_id
		WHERE r.id=$1`, id)
	room, err := scanRoomRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFoundf("room %d not found", id)
		}
		return nil, err
	}
	return room, nil
}

func (r *PGRoomRepository) SetAvailability(ctx context.Context, roomID int64, available bool) error {
	cmd, err := r.db.Exec(ctx, `UPDATE rooms SET is_available=$1, updated_at=now() WHERE id=$2`, available, roomID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFoundf("room %d not found", roomID)
	}
	return nil
}

func scanRoomRow(row pgx.Row) (*domain.Room, error) {
	var room domain.Room
	err := row.Scan(&room.ID, &room.Number, &room.RoomTypeID, &room.Available, &room.CreatedAt, &room.UpdatedAt,
		&room.RoomType.ID, &room.RoomType.Name, &room.RoomType.Description,
		&room.RoomType.PricePerNight, &room.RoomType.Capacity, &room.RoomType.ImageURL)
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func collectRooms(rows pgx.Rows) ([]domain.Room, error) {
	rooms := make([]domain.Room, 0)
	for rows.Next() {
		room, err := scanRoomRow(rows)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, *room)
	}
	return rooms, rows.Err()
}

var _ RoomRepository = (*PGRoomRepository)(nil)
