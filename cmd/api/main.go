package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lidiabooking/booking-api/internal/config"
	adminHandler "github.com/lidiabooking/booking-api/internal/handler/admin"
	availabilityHandler "github.com/lidiabooking/booking-api/internal/handler/availability"
	bookingHandler "github.com/lidiabooking/booking-api/internal/handler/booking"
	catalogHandler "github.com/lidiabooking/booking-api/internal/handler/catalog"
	healthHandler "github.com/lidiabooking/booking-api/internal/handler/health"
	staffHandler "github.com/lidiabooking/booking-api/internal/handler/staff"
	"github.com/lidiabooking/booking-api/internal/handler/validation"
	"github.com/lidiabooking/booking-api/internal/middleware"
	"github.com/lidiabooking/booking-api/internal/repository/postgres"
	"github.com/lidiabooking/booking-api/internal/router"
	availabilityService "github.com/lidiabooking/booking-api/internal/service/availability"
	bookingService "github.com/lidiabooking/booking-api/internal/service/booking"
	catalogService "github.com/lidiabooking/booking-api/internal/service/catalog"
	staffService "github.com/lidiabooking/booking-api/internal/service/staff"
	"github.com/lidiabooking/booking-api/pkg/auth"
	"github.com/lidiabooking/booking-api/pkg/metrics"
	"github.com/lidiabooking/booking-api/pkg/security"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	serviceRepo := postgres.NewServiceRepository(db)
	staffRepo := postgres.NewStaffRepository(db)
	blackoutRepo := postgres.NewBlackoutRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)

	m := metrics.NewMetrics("booking", "api")

	availabilitySvc := availabilityService.NewService(serviceRepo, staffRepo, bookingRepo, availabilityService.Config{
		Timezone:         cfg.Booking.Timezone,
		DefaultBufferMin: cfg.Booking.DefaultBufferMin,
		ScheduleGridMin:  cfg.Booking.ScheduleGridMin,
		FixedGridMin:     cfg.Booking.FixedGridMin,
		WorkdayStart:     cfg.Booking.WorkdayStart,
		WorkdayEnd:       cfg.Booking.WorkdayEnd,
		CacheTTL:         time.Duration(cfg.Booking.CacheTTLSeconds) * time.Second,
	}, m)
	bookingSvc := bookingService.NewService(bookingRepo, serviceRepo, bookingService.Config{
		Timezone: cfg.Booking.Timezone,
	}, availabilitySvc, m)
	catalogSvc := catalogService.NewService(serviceRepo)
	staffSvc := staffService.NewService(staffRepo, blackoutRepo, staffService.Config{
		Timezone: cfg.Booking.Timezone,
	})

	validation.Register()

	jwtSvc := auth.NewJWTService(cfg.Admin.JWTSecret, time.Duration(cfg.Admin.JWTExpiryHour)*time.Hour)
	verifier := security.NewBcryptVerifier()
	adminAuth := middleware.NewAdminAuthMiddleware(cfg.Admin.Token, jwtSvc)

	r := router.NewRouter(
		healthHandler.NewHandler(db),
		catalogHandler.NewHandler(catalogSvc),
		staffHandler.NewHandler(staffSvc),
		availabilityHandler.NewHandler(availabilitySvc),
		bookingHandler.NewHandler(bookingSvc),
		adminHandler.NewHandler(bookingSvc, staffSvc, jwtSvc, verifier, cfg.Admin.PasswordHash),
		adminAuth,
		router.Config{
			RateLimitRPS:   cfg.RateLimit.RPS,
			RateLimitBurst: cfg.RateLimit.Burst,
			RequestTimeout: cfg.Server.Timeout(),
			CORSConfig:     middleware.DefaultCORSConfig(),
			MetricsPrefix:  "booking_api",
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
