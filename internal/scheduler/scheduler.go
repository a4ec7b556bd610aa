package scheduler

import (
	"github.com/robfig/cron/v3"

	"fd-rental-backend/internal/jobs"
	"fd-rental-backend/internal/logger"
)

// Scheduler manages cron job scheduling
type Scheduler struct {
	cron *cron.Cron
	jobs *jobs.JobRunner
}

// NewScheduler creates a new scheduler with the provided job runner
func NewScheduler(jobRunner *jobs.JobRunner) *Scheduler {
	// Schedules are read in the business time zone, with seconds precision
	c := cron.New(
		cron.WithLocation(jobRunner.Location()),
		cron.WithSeconds(),
	)

	s := &Scheduler{
		cron: c,
		jobs: jobRunner,
	}

	s.registerJobs()
	return s
}

// registerJobs registers all scheduled jobs with the cron scheduler and
// returns how many registrations failed
func (s *Scheduler) registerJobs() int {
	cfg := s.jobs.Config().Scheduler
	failed := 0

	// Reconcile the calendar mirror
	if _, err := s.cron.AddFunc(cfg.ReconcileCalendar, s.jobs.ReconcileCalendarMirror); err != nil {
		logger.Error("Failed to register ReconcileCalendarMirror job", "spec", cfg.ReconcileCalendar, "error", err)
		failed++
	}

	// Send overdue reminders
	if _, err := s.cron.AddFunc(cfg.SendOverdueReminders, s.jobs.SendOverdueReminders); err != nil {
		logger.Error("Failed to register SendOverdueReminders job", "spec", cfg.SendOverdueReminders, "error", err)
		failed++
	}

	if failed > 0 {
		logger.Warn("Some cron jobs were not registered", "failed", failed, "entries", len(s.cron.Entries()))
		return failed
	}
	logger.Info("All cron jobs registered successfully", "entries", len(s.cron.Entries()))
	return 0
}

// Start begins the cron scheduler
func (s *Scheduler) Start() {
	logger.Info("Starting cron scheduler...")
	s.cron.Start()
	logger.Info("Cron scheduler started successfully")
}

// Stop gracefully stops the cron scheduler
func (s *Scheduler) Stop() {
	logger.Info("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Cron scheduler stopped")
}

// IsRunning returns true if the scheduler is running
func (s *Scheduler) IsRunning() bool {
	return len(s.cron.Entries()) > 0
}
