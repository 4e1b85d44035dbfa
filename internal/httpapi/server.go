// Package httpapi exposes the booking service over HTTP. It is a thin
// facade: all lifecycle and availability rules live in pkg/booking.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/CedarRidgeStays/booking/pkg/booking"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const timestampLayout = time.RFC3339

// Run boots the HTTP server and blocks until ctx is cancelled or the
// server fails.
func Run(ctx context.Context, cfg Config, service *booking.Service, logger *zap.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	handler := &httpHandler{
		logger:  logger,
		service: service,
		cfg:     cfg,
	}
	router := setupRouter(cfg, handler)

	server := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("booking api listening", zap.String("addr", cfg.ListenAddr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := server.Shutdown(shutdownCtx); shutdownErr != nil {
			logger.Warn("server shutdown error", zap.Error(shutdownErr))
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func setupRouter(cfg Config, handler *httpHandler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Origin", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	api.GET("/cabins", handler.handleListCabins)
	api.GET("/cabins/:id/booked-dates", handler.handleBookedDates)
	api.GET("/cabins/:id/quote", handler.handleQuote)
	api.POST("/reservations", handler.handleCreateReservation)
	api.GET("/reservations", handler.handleListReservations)
	api.GET("/reservations/:id", handler.handleGetReservation)
	api.POST("/reservations/:id/payment", handler.handlePayment)
	api.POST("/reservations/:id/status", handler.handleUpdateStatus)
	api.POST("/reservations/:id/cancel", handler.handleCancel)

	return router
}

type httpHandler struct {
	logger  *zap.Logger
	service *booking.Service
	cfg     Config
}
