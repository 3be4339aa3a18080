package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/hotelbooking/config"
	"github.com/Domenick1991/hotelbooking/internal/bootstrap"
	"github.com/Domenick1991/hotelbooking/internal/cache"
	"github.com/Domenick1991/hotelbooking/internal/kafka"
	"github.com/Domenick1991/hotelbooking/internal/payment"
	"github.com/Domenick1991/hotelbooking/internal/repository"
	"github.com/Domenick1991/hotelbooking/internal/service/booking"
	"github.com/Domenick1991/hotelbooking/internal/service/rooms"
	"github.com/jackc/pgx/v5/pgxpool"
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		logger.Fatal("connect postgres", zap.Error(err))
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.RoomsCacheTTL)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()
	charger := payment.NewStripeCharger(cfg.Stripe.APIKey)

	bookingRepo := repository.NewBookingRepository(pool)
	roomRepo := repository.NewRoomRepository(pool)
	roomService := rooms.NewRoomService(roomRepo, bookingRepo, redisCache)
	bookingService := booking.NewBookingService(
		bookingRepo,
		roomRepo,
		roomService,
		redisCache,
		producer,
		charger,
		logger,
		cfg.Kafka.BookingEventsTopic,
		time.Duration(cfg.Booking.RoomLockTTLSeconds)*time.Second,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		booking.WithCurrency(cfg.Stripe.Currency),
	)

	if err := bootstrap.Run(ctx, cfg, logger, bookingService, roomService); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
