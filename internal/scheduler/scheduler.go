package scheduler

import (
	"time"

	"github.com/kerem/doctrack/internal/config"
	"github.com/kerem/doctrack/internal/jobs"
	"github.com/kerem/doctrack/internal/pkg/logger"
	"github.com/robfig/cron/v3"
)

// Scheduler manages cron job scheduling
type Scheduler struct {
	cron *cron.Cron
	jobs *jobs.JobRunner
}

// NewScheduler creates a new scheduler and registers the configured jobs
func NewScheduler(jobRunner *jobs.JobRunner, cfg *config.Config) *Scheduler {
	c := cron.New(cron.WithLocation(time.UTC))

	s := &Scheduler{
		cron: c,
		jobs: jobRunner,
	}
	s.registerJobs(cfg)
	return s
}

func (s *Scheduler) registerJobs(cfg *config.Config) {
	if _, err := s.cron.AddFunc(cfg.Scheduler.OverdueReminders, s.jobs.SendOverdueReminders); err != nil {
		logger.Error().Err(err).Str("spec", cfg.Scheduler.OverdueReminders).Msg("Failed to register overdue reminder job")
		return
	}
	logger.Info().Str("spec", cfg.Scheduler.OverdueReminders).Msg("Cron jobs registered")
}

// Start begins executing registered jobs.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling and waits for running jobs to complete.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
