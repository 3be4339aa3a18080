package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/Domenick1991/hotelbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingFilter struct {
	Status      *domain.BookingStatus
	CheckInFrom *time.Time
	CheckInTo   *time.Time
}

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByReference(ctx context.Context, reference string) (*domain.Booking, error)
	Update(ctx context.Context, booking *domain.Booking) error
	Delete(ctx context.Context, id int64) error
	GetOverlapping(ctx context.Context, roomID int64, checkIn, checkOut time.Time) ([]domain.Booking, error)
	GetByUser(ctx context.Context, userID string) ([]domain.Booking, error)
	List(ctx context.Context, filter BookingFilter) ([]domain.Booking, error)
	CompleteCheckedOutBefore(ctx context.Context, deadline time.Time) ([]domain.Booking, error)
}

const bookingColumns = `id, reference, user_id, room_id, check_in, check_out, nights, total_cost, status,
	payment_ref, confirmed_at, cancelled_at, rejected_at, cancellation_reason, rejection_reason,
	refund_amount, cancellation_fee, created_at, updated_at`

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

// Create inserts a pending booking after re-checking the room's date range
// inside the same transaction. The service serializes create/confirm per
// room through the redis lock; the per-room advisory lock below makes the
// in-transaction re-check hold even when redis is unavailable, since two
// concurrent inserts for the same room could otherwise both pass the
// EXISTS under read committed.
func (r *PGBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, booking.RoomID); err != nil {
		return err
	}

	var conflicting bool
	err = tx.QueryRow(ctx, `SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE room_id = $1
			  AND status NOT IN ($2, $3)
			  AND check_in < $4 AND check_out > $5
		)`,
		booking.RoomID, domain.BookingStatusCancelled, domain.BookingStatusRejected,
		booking.CheckOut, booking.CheckIn).Scan(&conflicting)
	if err != nil {
		return err
	}
	if conflicting {
		return domain.Conflictf("room %d is no longer available for the requested dates", booking.RoomID)
	}

	booking.Status = domain.BookingStatusPending
	err = tx.QueryRow(ctx, `INSERT INTO bookings
			(reference, user_id, room_id, check_in, check_out, nights, total_cost, status, payment_ref)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`,
		booking.Reference, booking.UserID, booking.RoomID, booking.CheckIn, booking.CheckOut,
		booking.Nights, booking.TotalCost, booking.Status, booking.PaymentRef).
		Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1`, id)
	b, err := scanBookingRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFoundf("booking %d not found", id)
		}
		return nil, err
	}
	return b, nil
}

func (r *PGBookingRepository) GetByReference(ctx context.Context, reference string) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE reference=$1`, reference)
	b, err := scanBookingRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFoundf("booking %s not found", reference)
		}
		return nil, err
	}
	return b, nil
}

func (r *PGBookingRepository) Update(ctx context.Context, booking *domain.Booking) error {
	cmd, err := r.db.Exec(ctx, `UPDATE bookings SET
			status=$1, payment_ref=$2, confirmed_at=$3, cancelled_at=$4, rejected_at=$5,
			cancellation_reason=$6, rejection_reason=$7, refund_amount=$8, cancellation_fee=$9,
			updated_at=now()
		WHERE id=$10`,
		booking.Status, booking.PaymentRef, booking.ConfirmedAt, booking.CancelledAt, booking.RejectedAt,
		booking.CancellationReason, booking.RejectionReason, booking.RefundAmount, booking.CancellationFee,
		booking.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFoundf("booking %d not found", booking.ID)
	}
	return nil
}

func (r *PGBookingRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM bookings WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFoundf("booking %d not found", id)
	}
	return nil
}

// GetOverlapping returns occupying bookings whose range intersects the
// half-open interval [checkIn, checkOut).
func (r *PGBookingRepository) GetOverlapping(ctx context.Context, roomID int64, checkIn, checkOut time.Time) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings
		WHERE room_id = $1
		  AND status NOT IN ($2, $3)
		  AND check_in < $4 AND check_out > $5
		ORDER BY check_in`,
		roomID, domain.BookingStatusCancelled, domain.BookingStatusRejected, checkOut, checkIn)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookings(rows)
}

func (r *PGBookingRepository) GetByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookings(rows)
}

func (r *PGBookingRepository) List(ctx context.Context, filter BookingFilter) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE 1=1`
	args := make([]any, 0, 3)
	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += ` AND status = $` + strconv.Itoa(len(args))
	}
	if filter.CheckInFrom != nil {
		args = append(args, *filter.CheckInFrom)
		query += ` AND check_in >= $` + strconv.Itoa(len(args))
	}
	if filter.CheckInTo != nil {
		args = append(args, *filter.CheckInTo)
		query += ` AND check_in <= $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookings(rows)
}

// CompleteCheckedOutBefore flips confirmed bookings with a past checkout to
// completed and frees their rooms, all in one transaction. Safe to rerun:
// it only ever selects rows still in the confirmed state.
func (r *PGBookingRepository) CompleteCheckedOutBefore(ctx context.Context, deadline time.Time) ([]domain.Booking, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, `UPDATE bookings SET status=$1, updated_at=now()
		WHERE status=$2 AND check_out < $3
		RETURNING `+bookingColumns,
		domain.BookingStatusCompleted, domain.BookingStatusConfirmed, deadline)
	if err != nil {
		return nil, err
	}
	completed, err := collectBookings(rows)
	rows.Close()
	if err != nil {
		return nil, err
	}

	if len(completed) > 0 {
		roomIDs := make([]int64, 0, len(completed))
		for _, b := range completed {
			roomIDs = append(roomIDs, b.RoomID)
		}
		if _, err := tx.Exec(ctx, `UPDATE rooms SET is_available=true, updated_at=now() WHERE id = ANY($1)`, roomIDs); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return completed, nil
}

func scanBookingRow(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	err := row.Scan(&b.ID, &b.Reference, &b.UserID, &b.RoomID, &b.CheckIn, &b.CheckOut, &b.Nights,
		&b.TotalCost, &b.Status, &b.PaymentRef, &b.ConfirmedAt, &b.CancelledAt, &b.RejectedAt,
		&b.CancellationReason, &b.RejectionReason, &b.RefundAmount, &b.CancellationFee,
		&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func collectBookings(rows pgx.Rows) ([]domain.Booking, error) {
	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		b, err := scanBookingRow(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

var _ BookingRepository = (*PGBookingRepository)(nil)
