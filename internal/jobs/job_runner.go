package jobs

import (
	"github.com/kerem/doctrack/internal/app/repositories"
	"github.com/kerem/doctrack/internal/pkg/logger"
	"github.com/rs/zerolog"
)

// JobRunner coordinates the scheduled maintenance jobs.
type JobRunner struct {
	requestRepo      repositories.IRequestRepository
	notificationRepo repositories.INotificationRepository
	userRepo         repositories.IUserRepository
	logger           zerolog.Logger
}

// NewJobRunner creates a new job runner with its dependencies
func NewJobRunner(
	requestRepo repositories.IRequestRepository,
	notificationRepo repositories.INotificationRepository,
	userRepo repositories.IUserRepository,
	lgr zerolog.Logger,
) *JobRunner {
	return &JobRunner{
		requestRepo:      requestRepo,
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		logger:           lgr,
	}
}

// runWithRecovery wraps job execution with panic recovery so a broken
// job cannot take the scheduler down.
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error().Interface("panic", r).Str("job", jobName).Msg("Job panicked")
		}
	}()

	jr.logger.Info().Str("job", jobName).Msg("Starting job")
	jobFunc()
	jr.logger.Info().Str("job", jobName).Msg("Job completed")
}

// RunAllNightlyJobs runs every nightly job once, for manual execution.
func (jr *JobRunner) RunAllNightlyJobs() {
	jr.SendOverdueReminders()
}
