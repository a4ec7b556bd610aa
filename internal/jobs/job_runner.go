package jobs

import (
	"context"
	"fmt"
	"sort"
	"time"

	"fd-rental-backend/internal/config"
	"fd-rental-backend/internal/logger"
	"fd-rental-backend/internal/repository"
	"fd-rental-backend/internal/service"
	"fd-rental-backend/internal/utils"
)

const (
	JobSendOverdueReminders = "send-overdue-reminders"
	JobReconcileCalendar    = "reconcile-calendar"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	rentals    repository.RentalApplicationRepository
	transports repository.TransportRepository
	services   *Services
	config     *config.Config
	loc        *time.Location
	now        func() time.Time
}

// Services holds all service dependencies needed by jobs
type Services struct {
	Rental       service.RentalService
	Notification service.NotificationService
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(repos repository.Repositories, services *Services, cfg *config.Config) *JobRunner {
	return &JobRunner{
		rentals:    repos.Rentals,
		transports: repos.Transports,
		services:   services,
		config:     cfg,
		loc:        utils.LoadLocation(cfg.Business.Timezone),
		now:        time.Now,
	}
}

func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// Location is the business time zone jobs are scheduled in
func (jr *JobRunner) Location() *time.Location {
	return jr.loc
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(ctx context.Context, jobName string, jobFunc func(context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
			err = fmt.Errorf("job %s panicked: %v", jobName, r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	start := time.Now()
	if err = jobFunc(ctx); err != nil {
		logger.Error("Job failed", "job", jobName, "error", err, "duration", time.Since(start))
		return err
	}
	logger.Info("Job completed", "job", jobName, "duration", time.Since(start))
	return nil
}

// JobNames lists the jobs RunJob accepts
func JobNames() []string {
	names := make([]string, 0, 2)
	for name := range jobTable {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var jobTable = map[string]func(*JobRunner, context.Context) error{
	JobSendOverdueReminders: (*JobRunner).sendOverdueReminders,
	JobReconcileCalendar:    (*JobRunner).reconcileCalendar,
}

// RunJob runs a single job by name (for manual execution)
func (jr *JobRunner) RunJob(ctx context.Context, name string) error {
	fn, ok := jobTable[name]
	if !ok {
		return fmt.Errorf("unknown job %q, expected one of %v", name, JobNames())
	}
	return jr.runWithRecovery(ctx, name, func(ctx context.Context) error { return fn(jr, ctx) })
}

// RunAllNightlyJobs runs all nightly jobs (for manual execution)
func (jr *JobRunner) RunAllNightlyJobs() {
	jr.ReconcileCalendarMirror()
	jr.SendOverdueReminders()
}
