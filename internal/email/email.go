package email

import (
	"context"

	"github.com/Domenick1991/hotelbooking/internal/kafka"
	"go.uber.org/zap"
)

// Sender delivers guest notifications for booking events. Delivery is a
// structured log line for now; the worker owns retry semantics either way.
type Sender struct {
	logger *zap.Logger
}

func NewSender(logger *zap.Logger) *Sender {
	return &Sender{logger: logger}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	s.logger.Info("send booking notification",
		zap.String("user_id", event.UserID),
		zap.String("type", event.Type),
		zap.String("reference", event.Reference),
		zap.Int64("room_id", event.RoomID))
	return nil
}
