package jobs

import (
	"hostelhub-backend/internal/config"
	"hostelhub-backend/internal/logger"
	"hostelhub-backend/internal/repository"
	"hostelhub-backend/internal/service"
)

// JobRunner coordinates all scheduled jobs.
type JobRunner struct {
	bookings    repository.BookingRepository
	agreements  repository.AgreementRepository
	coordinator *service.Coordinator
	config      *config.Config
}

func NewJobRunner(
	bookings repository.BookingRepository,
	agreements repository.AgreementRepository,
	coordinator *service.Coordinator,
	cfg *config.Config,
) *JobRunner {
	return &JobRunner{
		bookings:    bookings,
		agreements:  agreements,
		coordinator: coordinator,
		config:      cfg,
	}
}

func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery.
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// RunAllNightlyJobs runs every nightly job once, for manual execution.
func (jr *JobRunner) RunAllNightlyJobs() {
	jr.ExpireAgreements()
	jr.ExpireStalePendingBookings()
}
