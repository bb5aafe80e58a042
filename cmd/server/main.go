package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	apihttp "hostelhub-backend/internal/api/http"
	"hostelhub-backend/internal/config"
	"hostelhub-backend/internal/ledger"
	"hostelhub-backend/internal/logger"
	"hostelhub-backend/internal/repository/postgres"
	"hostelhub-backend/internal/security"
	"hostelhub-backend/internal/service"
)

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting HostelHub API server...", "log_level", cfg.Log.Level)

	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	store := postgres.NewStore(db)

	tokens := security.NewTokenManager(
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute,
		time.Duration(cfg.JWT.RefreshTokenExpiry)*time.Minute,
	)

	emailService := service.NewEmailService(
		cfg.SendGrid.APIKey,
		cfg.SendGrid.FromEmail,
		cfg.SendGrid.FromName,
	)

	rooms := ledger.NewWithLockWait(
		store.RoomTypeRepository,
		time.Duration(cfg.Booking.ReserveLockTimeoutSeconds)*time.Second,
	)

	notifier := service.NewNotifier(store.NotificationRepository, store.UserRepository, emailService)

	coordinator := service.NewCoordinator(
		store.BookingRepository,
		store.AgreementRepository,
		store.RoomTypeRepository,
		store.PropertyRepository,
		rooms,
		notifier,
		cfg.Booking.AutoRejectOnCapacity,
	)

	router := apihttp.NewRouter(apihttp.Services{
		Auth:          service.NewAuthService(store.UserRepository, tokens),
		Properties:    service.NewPropertyService(store.PropertyRepository, store.RoomTypeRepository, store.BookingRepository, rooms),
		Bookings:      service.NewBookingService(store.BookingRepository, store.PropertyRepository, store.RoomTypeRepository, coordinator, notifier),
		Agreements:    service.NewAgreementService(store.AgreementRepository, store.PropertyRepository, coordinator, notifier),
		Notifications: service.NewNotificationService(store.NotificationRepository),
		Tokens:        tokens,
	})

	srv := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", "error", err)
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
	logger.Info("Server stopped. Goodbye!")
}
