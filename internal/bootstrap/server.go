package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Domenick1991/hotelbooking/api"
	"github.com/Domenick1991/hotelbooking/config"
	"github.com/Domenick1991/hotelbooking/internal/service/booking"
	"github.com/Domenick1991/hotelbooking/internal/service/rooms"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Run starts the HTTP server and blocks until the context is canceled or
// the server fails.
func Run(ctx context.Context, cfg *config.Config, logger *zap.Logger, bookingSvc booking.BookingUseCase, roomSvc rooms.RoomUseCase) error {
	httpSrv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: newRouter(bookingSvc, roomSvc),
	}

	errCh := make(chan error, 1)
	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	logger.Info("http server started", zap.String("address", cfg.HTTP.Address))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func newRouter(bookingSvc booking.BookingUseCase, roomSvc rooms.RoomUseCase) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	root := router.Group("/api")

	roomsGroup := root.Group("/rooms")
	api.NewRoomHandler(roomSvc).Register(roomsGroup)

	bookingsGroup := root.Group("/bookings")
	bookingsGroup.Use(api.Identity())
	api.NewBookingHandler(bookingSvc).Register(bookingsGroup)

	adminGroup := root.Group("/admin/bookings")
	adminGroup.Use(api.Identity(), api.RequireAdmin())
	api.NewAdminBookingHandler(bookingSvc).Register(adminGroup)

	adminRoomsGroup := root.Group("/admin/rooms")
	adminRoomsGroup.Use(api.Identity(), api.RequireAdmin())
	api.NewAdminRoomHandler(roomSvc).Register(adminRoomsGroup)

	return router
}
