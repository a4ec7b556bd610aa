package jobs

import (
	"context"
	"errors"

	"fd-rental-backend/internal/domain"
	"fd-rental-backend/internal/logger"
	"fd-rental-backend/internal/service"
	"fd-rental-backend/internal/utils"
)

// SendOverdueReminders texts every client whose active rental has run past
// its end date and mails the managers one digest. Statuses are left alone:
// overdue is derived on read, never stored.
func (jr *JobRunner) SendOverdueReminders() {
	_ = jr.runWithRecovery(context.Background(), JobSendOverdueReminders, jr.sendOverdueReminders)
}

func (jr *JobRunner) sendOverdueReminders(ctx context.Context) error {
	today := utils.Today(jr.now(), jr.loc)
	apps, err := jr.rentals.ListActiveEndingBefore(ctx, today)
	if err != nil {
		return err
	}
	if len(apps) == 0 {
		logger.Info("No overdue rentals")
		return nil
	}

	transports := make(map[int32]*domain.Transport)
	notices := make([]service.OverdueNotice, 0, len(apps))
	failed := 0
	for i := range apps {
		app := &apps[i]
		notice := service.OverdueNotice{
			Application: app,
			DaysOverdue: utils.RentalDays(app.EndDate, today),
		}
		if app.HasTransport() {
			t, ok := transports[*app.TransportID]
			if !ok {
				t, err = jr.transports.GetByID(ctx, *app.TransportID)
				if err != nil && !errors.Is(err, domain.ErrNotFound) {
					return err
				}
				transports[*app.TransportID] = t
			}
			notice.Transport = t
		}
		notices = append(notices, notice)

		if err := jr.services.Notification.SendOverdueReminder(ctx, notice); err != nil {
			failed++
			logger.Error("Failed to send overdue reminder", "rental_id", app.ID, "error", err)
		}
	}

	if err := jr.services.Notification.SendOverdueDigest(ctx, notices); err != nil {
		return err
	}

	logger.Info("Overdue reminders sent", "count", len(notices), "failed", failed)
	return nil
}

// ReconcileCalendarMirror rebuilds every calendar entry from its application
// and removes entries left behind by deleted applications.
func (jr *JobRunner) ReconcileCalendarMirror() {
	_ = jr.runWithRecovery(context.Background(), JobReconcileCalendar, jr.reconcileCalendar)
}

func (jr *JobRunner) reconcileCalendar(ctx context.Context) error {
	projected, removed, err := jr.services.Rental.ReprojectAll(ctx)
	if err != nil {
		return err
	}
	logger.Info("Calendar mirror reconciled", "projected", projected, "removed_orphans", removed)
	return nil
}
