package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"hotel-booking-backend/config"
	"hotel-booking-backend/controllers"
	"hotel-booking-backend/metrics"
	"hotel-booking-backend/routes"
	"hotel-booking-backend/services"
	"hotel-booking-backend/utils"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	// Load .env (optional)
	if err := godotenv.Load(); err != nil {
		logger.Warn().Msg(".env not found or couldn't load it; continuing with environment variables")
	}

	metrics.Register()

	db, err := config.Connect(logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("database connect failed")
	}
	logger.Info().Msg("database connection established and migrations applied")

	// Initialize services
	availabilityService := services.NewAvailabilityService(db)
	bookingService := services.NewBookingService(db)
	roomService := services.NewRoomService(db)

	// Initialize controllers
	bookingController := controllers.NewBookingController(bookingService, availabilityService)
	roomController := controllers.NewRoomController(roomService)

	// Build router
	router := routes.SetupRouter(bookingController, roomController, logger)

	// Port from env (prefer), fallback to 8080
	addr := ":" + utils.EnvOrDefault("PORT", "8080")

	srv := &http.Server{
		Addr:    addr,
		Handler: router,
		// useful timeouts
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info().Str("addr", addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with timeout
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Warn().Msg("shutdown signal received, shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server stopped gracefully")
}
