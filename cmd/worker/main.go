package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/hotelbooking/config"
	"github.com/Domenick1991/hotelbooking/internal/email"
	"github.com/Domenick1991/hotelbooking/internal/kafka"
	"github.com/Domenick1991/hotelbooking/internal/repository"
	"github.com/Domenick1991/hotelbooking/internal/service/booking"
	"github.com/Domenick1991/hotelbooking/internal/service/rooms"
	"github.com/jackc/pgx/v5/pgxpool"
	kafkaGo "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		logger.Fatal("connect postgres", zap.Error(err))
	}
	defer pool.Close()

	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	bookingRepo := repository.NewBookingRepository(pool)
	roomRepo := repository.NewRoomRepository(pool)
	roomService := rooms.NewRoomService(roomRepo, bookingRepo, nil)
	bookingService := booking.NewBookingService(
		bookingRepo,
		roomRepo,
		roomService,
		nil,
		producer,
		nil,
		logger,
		cfg.Kafka.BookingEventsTopic,
		0,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	emailSender := email.NewSender(logger)

	go func() {
		if err := consumer.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
			var event kafka.BookingEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				logger.Warn("decode event", zap.Error(err))
				return nil
			}
			return emailSender.Send(ctx, event)
		}); err != nil {
			logger.Warn("consumer stopped", zap.Error(err))
		}
	}()

	sweepInterval := time.Duration(cfg.Worker.SweepIntervalHours) * time.Hour
	if sweepInterval <= 0 {
		sweepInterval = 24 * time.Hour
	}
	sweepTicker := time.NewTicker(sweepInterval)
	defer sweepTicker.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("status sweep worker started", zap.Duration("interval", sweepInterval))

	// A failed cycle is recovered by the next one: the sweep only ever
	// selects bookings still confirmed with a past checkout.
	for {
		select {
		case <-sweepTicker.C:
			completed, err := bookingService.CompleteCheckedOut(ctx)
			if err != nil {
				logger.Error("sweep cycle failed", zap.Error(err))
				continue
			}
			if len(completed) > 0 {
				logger.Info("completed checked-out bookings", zap.Int("count", len(completed)))
			}
		case s := <-sig:
			logger.Info("received signal, shutting down", zap.String("signal", s.String()))
			return
		}
	}
}
