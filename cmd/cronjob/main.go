package main

import (
	"database/sql"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"hostelhub-backend/internal/config"
	"hostelhub-backend/internal/jobs"
	"hostelhub-backend/internal/ledger"
	"hostelhub-backend/internal/logger"
	"hostelhub-backend/internal/repository/postgres"
	"hostelhub-backend/internal/scheduler"
	"hostelhub-backend/internal/service"
)

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'expire-agreements', 'expire-stale-bookings', 'all-nightly')")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting HostelHub Cronjob Runner...", "log_level", cfg.Log.Level)

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

	jobRunner := jobs.NewJobRunner(store.BookingRepository, store.AgreementRepository, coordinator, cfg)

	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		runJobOnce(jobRunner, *runOnce)
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	cronScheduler := scheduler.NewScheduler(jobRunner)
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}

// runJobOnce runs a specific job once and exits
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) {
	switch jobName {
	case "expire-agreements":
		jobRunner.ExpireAgreements()
	case "expire-stale-bookings":
		jobRunner.ExpireStalePendingBookings()
	case "all-nightly":
		jobRunner.RunAllNightlyJobs()
	default:
		logger.Error("Unknown job name", "job", jobName)
	}
}
