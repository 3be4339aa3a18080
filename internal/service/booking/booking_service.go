package booking

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/Domenick1991/hotelbooking/internal/domain"
	"github.com/Domenick1991/hotelbooking/internal/kafka"
	"github.com/Domenick1991/hotelbooking/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingUseCase interface {
	Create(ctx context.Context, userID string, roomID int64, checkIn, checkOut time.Time) (*domain.Booking, error)
	CreateWithPayment(ctx context.Context, userID string, roomID int64, checkIn, checkOut time.Time, paymentMethodRef string) (*domain.Booking, error)
	Confirm(ctx context.Context, bookingID int64) (*domain.Booking, error)
	Reject(ctx context.Context, bookingID int64, reason string) (*domain.Booking, error)
	Cancel(ctx context.Context, bookingID int64, userID, reason string) (*CancellationResult, error)
	GetStatus(ctx context.Context, bookingID int64, userID string) (*StatusInfo, error)
	GetByReference(ctx context.Context, reference, userID string) (*domain.Booking, error)
	ListForUser(ctx context.Context, userID string) ([]domain.Booking, error)
	List(ctx context.Context, filter repository.BookingFilter) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, bookingID int64, status string) (*domain.Booking, error)
	Delete(ctx context.Context, bookingID int64) error
	CompleteCheckedOut(ctx context.Context) ([]domain.Booking, error)
}

// Cache serializes create/confirm per room. A lost SetNX means another
// request holds the room right now. Mutations also evict the cached
// availability listings so guests never see a stale room list for the TTL.
type Cache interface {
	AcquireRoomLock(ctx context.Context, roomID int64, ttl time.Duration) (bool, error)
	ReleaseRoomLock(ctx context.Context, roomID int64) error
	InvalidateAvailableRooms(ctx context.Context) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// AvailabilityChecker answers whether a room can take a date range.
type AvailabilityChecker interface {
	IsAvailable(ctx context.Context, roomID int64, checkIn, checkOut time.Time) (bool, error)
	IsAvailableExcluding(ctx context.Context, roomID int64, checkIn, checkOut time.Time, excludeBookingID int64) (bool, error)
}

type Charger interface {
	Charge(ctx context.Context, amountCents int64, currency, paymentMethodRef string) (string, error)
}

type CancellationResult struct {
	RefundAmount    float64
	CancellationFee float64
}

type StatusInfo struct {
	Status             domain.BookingStatus
	CanCancel          bool
	CancellationPolicy string
}

type BookingService struct {
	bookings           repository.BookingRepository
	rooms              repository.RoomRepository
	checker            AvailabilityChecker
	cache              Cache
	producer           Producer
	charger            Charger
	logger             *zap.Logger
	bookingTopic       string
	notificationsTopic string
	currency           string
	lockTTL            time.Duration
	now                func() time.Time
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func WithCurrency(currency string) BookingServiceOption {
	return func(s *BookingService) {
		s.currency = currency
	}
}

func WithClock(now func() time.Time) BookingServiceOption {
	return func(s *BookingService) {
		s.now = now
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	rooms repository.RoomRepository,
	checker AvailabilityChecker,
	cache Cache,
	producer Producer,
	charger Charger,
	logger *zap.Logger,
	bookingTopic string,
	lockTTL time.Duration,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:     bookings,
		rooms:        rooms,
		checker:      checker,
		cache:        cache,
		producer:     producer,
		charger:      charger,
		logger:       logger,
		bookingTopic: bookingTopic,
		currency:     "usd",
		lockTTL:      lockTTL,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *BookingService) Create(ctx context.Context, userID string, roomID int64, checkIn, checkOut time.Time) (*domain.Booking, error) {
	return s.create(ctx, userID, roomID, checkIn, checkOut, "")
}

// CreateWithPayment charges the payment authority before the insert. A
// database failure after a successful charge is not reversed here; it is
// logged with the payment reference for manual reconciliation.
func (s *BookingService) CreateWithPayment(ctx context.Context, userID string, roomID int64, checkIn, checkOut time.Time, paymentMethodRef string) (*domain.Booking, error) {
	if strings.TrimSpace(paymentMethodRef) == "" {
		return nil, domain.Validationf("payment method reference is required")
	}
	return s.create(ctx, userID, roomID, checkIn, checkOut, paymentMethodRef)
}

func (s *BookingService) create(ctx context.Context, userID string, roomID int64, checkIn, checkOut time.Time, paymentMethodRef string) (*domain.Booking, error) {
	if userID == "" {
		return nil, domain.Validationf("user id is required")
	}

	checkIn = dateOnly(checkIn)
	checkOut = dateOnly(checkOut)
	today := dateOnly(s.now())
	if !checkIn.After(today) {
		return nil, domain.Validationf("check-in date must be after today")
	}
	if !checkOut.After(checkIn) {
		return nil, domain.Validationf("check-out date must be later than check-in date")
	}

	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}

	release, err := s.lockRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	defer release()

	available, err := s.checker.IsAvailable(ctx, roomID, checkIn, checkOut)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, domain.Validationf("room %s is not available for the requested dates", room.Number)
	}

	nights := int(checkOut.Sub(checkIn).Hours() / 24)
	booking := &domain.Booking{
		Reference: uuid.NewString(),
		UserID:    userID,
		RoomID:    roomID,
		CheckIn:   checkIn,
		CheckOut:  checkOut,
		Nights:    nights,
		TotalCost: roundCents(float64(nights) * room.RoomType.PricePerNight),
		Status:    domain.BookingStatusPending,
	}

	charged := false
	if paymentMethodRef != "" {
		paymentRef, err := s.charger.Charge(ctx, toCents(booking.TotalCost), s.currency, paymentMethodRef)
		if err != nil {
			return nil, domain.PaymentFailure("payment was not completed", err)
		}
		booking.PaymentRef = &paymentRef
		charged = true
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		if charged {
			s.logger.Error("booking insert failed after successful charge, manual reconciliation required",
				zap.String("payment_ref", *booking.PaymentRef),
				zap.String("user_id", userID),
				zap.Int64("room_id", roomID),
				zap.Error(err))
		}
		return nil, err
	}

	s.invalidateRooms(ctx)
	s.publish(ctx, "booking_created", booking)
	return booking, nil
}

// Confirm re-runs the availability check because an unbounded amount of
// time has passed since creation and a competing booking may have won the
// room in between.
func (s *BookingService) Confirm(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status != domain.BookingStatusPending {
		return nil, domain.Validationf("only pending bookings can be confirmed, booking is %s", booking.Status)
	}

	release, err := s.lockRoom(ctx, booking.RoomID)
	if err != nil {
		return nil, err
	}
	defer release()

	available, err := s.checker.IsAvailableExcluding(ctx, booking.RoomID, booking.CheckIn, booking.CheckOut, booking.ID)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, domain.Conflictf("room %d is no longer available for the booked dates", booking.RoomID)
	}

	now := s.now()
	booking.Status = domain.BookingStatusConfirmed
	booking.ConfirmedAt = &now
	if err := s.bookings.Update(ctx, booking); err != nil {
		return nil, err
	}

	s.invalidateRooms(ctx)
	s.publish(ctx, "booking_confirmed", booking)
	return booking, nil
}

func (s *BookingService) Reject(ctx context.Context, bookingID int64, reason string) (*domain.Booking, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, domain.Validationf("rejection reason is required")
	}

	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status != domain.BookingStatusPending {
		return nil, domain.Validationf("only pending bookings can be rejected, booking is %s", booking.Status)
	}

	now := s.now()
	booking.Status = domain.BookingStatusRejected
	booking.RejectedAt = &now
	booking.RejectionReason = &reason
	if err := s.bookings.Update(ctx, booking); err != nil {
		return nil, err
	}

	s.invalidateRooms(ctx)
	s.publish(ctx, "booking_rejected", booking)
	return booking, nil
}

// Cancel computes the refund from the tiered policy and moves the booking
// to cancelled. A second cancel is rejected, never repeated, so the stored
// refund figures are immutable once written.
func (s *BookingService) Cancel(ctx context.Context, bookingID int64, userID, reason string) (*CancellationResult, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		return nil, domain.Unauthorizedf("booking %d does not belong to the requesting user", bookingID)
	}
	if booking.Status == domain.BookingStatusCancelled {
		return nil, domain.Validationf("booking is already cancelled")
	}
	if !domain.CanTransition(booking.Status, domain.BookingStatusCancelled) {
		return nil, domain.Validationf("a %s booking cannot be cancelled", booking.Status)
	}

	now := s.now()
	refund, fee := CalculateRefund(booking.CheckIn, booking.TotalCost, now)

	booking.Status = domain.BookingStatusCancelled
	booking.CancelledAt = &now
	booking.CancellationReason = &reason
	booking.RefundAmount = &refund
	booking.CancellationFee = &fee
	if err := s.bookings.Update(ctx, booking); err != nil {
		return nil, err
	}

	s.invalidateRooms(ctx)
	s.publish(ctx, "booking_cancelled", booking)
	return &CancellationResult{RefundAmount: refund, CancellationFee: fee}, nil
}

func (s *BookingService) GetStatus(ctx context.Context, bookingID int64, userID string) (*StatusInfo, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		return nil, domain.Unauthorizedf("booking %d does not belong to the requesting user", bookingID)
	}

	canCancel := booking.Status == domain.BookingStatusPending || booking.Status == domain.BookingStatusConfirmed
	return &StatusInfo{
		Status:             booking.Status,
		CanCancel:          canCancel,
		CancellationPolicy: CancellationPolicy(DaysUntilCheckIn(booking.CheckIn, s.now())),
	}, nil
}

// GetByReference resolves the opaque reference guests receive in
// notifications back to their booking.
func (s *BookingService) GetByReference(ctx context.Context, reference, userID string) (*domain.Booking, error) {
	booking, err := s.bookings.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		return nil, domain.Unauthorizedf("booking %s does not belong to the requesting user", reference)
	}
	return booking, nil
}

func (s *BookingService) ListForUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	return s.bookings.GetByUser(ctx, userID)
}

func (s *BookingService) List(ctx context.Context, filter repository.BookingFilter) ([]domain.Booking, error) {
	return s.bookings.List(ctx, filter)
}

// UpdateStatus is the admin override path. It accepts a free-form status
// string but validates it against the closed enum and the same transition
// table as every other mutation.
func (s *BookingService) UpdateStatus(ctx context.Context, bookingID int64, status string) (*domain.Booking, error) {
	target, ok := domain.ParseBookingStatus(status)
	if !ok {
		return nil, domain.Validationf("invalid booking status %q", status)
	}

	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status.Terminal() {
		return nil, domain.Validationf("booking is in terminal status %s", booking.Status)
	}
	if !domain.CanTransition(booking.Status, target) {
		return nil, domain.Validationf("transition from %s to %s is not allowed", booking.Status, target)
	}

	now := s.now()
	booking.Status = target
	switch target {
	case domain.BookingStatusConfirmed:
		booking.ConfirmedAt = &now
	case domain.BookingStatusCancelled:
		booking.CancelledAt = &now
	case domain.BookingStatusRejected:
		booking.RejectedAt = &now
	}
	if err := s.bookings.Update(ctx, booking); err != nil {
		return nil, err
	}

	s.invalidateRooms(ctx)
	if event := eventTypeFor(target); event != "" {
		s.publish(ctx, event, booking)
	}
	return booking, nil
}

func (s *BookingService) Delete(ctx context.Context, bookingID int64) error {
	return s.bookings.Delete(ctx, bookingID)
}

// CompleteCheckedOut is the sweep body: confirmed bookings with a past
// checkout become completed and their rooms are freed in one transaction.
func (s *BookingService) CompleteCheckedOut(ctx context.Context) ([]domain.Booking, error) {
	completed, err := s.bookings.CompleteCheckedOutBefore(ctx, s.now())
	if err != nil {
		return nil, err
	}
	if len(completed) > 0 {
		s.invalidateRooms(ctx)
	}
	for i := range completed {
		s.publish(ctx, "booking_completed", &completed[i])
	}
	return completed, nil
}

func (s *BookingService) lockRoom(ctx context.Context, roomID int64) (func(), error) {
	if s.cache == nil {
		return func() {}, nil
	}
	ok, err := s.cache.AcquireRoomLock(ctx, roomID, s.lockTTL)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.Conflictf("room %d is being booked by another request", roomID)
	}
	return func() { _ = s.cache.ReleaseRoomLock(ctx, roomID) }, nil
}

func (s *BookingService) invalidateRooms(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateAvailableRooms(ctx); err != nil {
		s.logger.Warn("invalidate room availability cache failed", zap.Error(err))
	}
}

func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking) {
	if s.producer == nil || s.bookingTopic == "" {
		return
	}
	event := kafka.BookingEvent{
		Type:         eventType,
		Reference:    booking.Reference,
		BookingID:    booking.ID,
		UserID:       booking.UserID,
		RoomID:       booking.RoomID,
		CheckIn:      booking.CheckIn,
		CheckOut:     booking.CheckOut,
		TotalCost:    booking.TotalCost,
		Status:       string(booking.Status),
		RefundAmount: booking.RefundAmount,
		OccurredAt:   s.now(),
	}
	if err := s.producer.Publish(ctx, s.bookingTopic, booking.Reference, event); err != nil {
		s.logger.Warn("publish booking event failed",
			zap.String("type", eventType),
			zap.String("reference", booking.Reference),
			zap.Error(err))
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, booking.Reference, event); err != nil {
			s.logger.Warn("publish notification event failed",
				zap.String("type", eventType),
				zap.String("reference", booking.Reference),
				zap.Error(err))
		}
	}
}

func eventTypeFor(status domain.BookingStatus) string {
	switch status {
	case domain.BookingStatusConfirmed:
		return "booking_confirmed"
	case domain.BookingStatusCancelled:
		return "booking_cancelled"
	case domain.BookingStatusRejected:
		return "booking_rejected"
	case domain.BookingStatusCompleted:
		return "booking_completed"
	}
	return ""
}

func toCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

var _ BookingUseCase = (*BookingService)(nil)
