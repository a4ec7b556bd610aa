package service

import (
	"context"
	"time"

	"fd-rental-backend/internal/domain"
	"fd-rental-backend/internal/logger"
	"fd-rental-backend/internal/repository"
)

type calendarService struct {
	calendar repository.CalendarRepository
	now      Clock
}

func NewCalendarService(calendar repository.CalendarRepository, clock Clock) CalendarService {
	if clock == nil {
		clock = time.Now
	}
	return &calendarService{calendar: calendar, now: clock}
}

// Feed returns mirror entries overlapping [from, to]. An active entry whose
// last second has passed is shown as overdue.
func (s *calendarService) Feed(ctx context.Context, from, to time.Time, transportIDs []int32) ([]CalendarEvent, error) {
	logger.EnterMethod(ctx, "calendarService.Feed", "from", from, "to", to, "transports", len(transportIDs))
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		err := &domain.DateRangeError{Start: from, End: to}
		logger.ExitMethodRejected(ctx, "calendarService.Feed", err)
		return nil, err
	}

	entries, err := s.calendar.List(ctx, domain.CalendarFilter{From: from, To: to, TransportIDs: transportIDs})
	if err != nil {
		logger.ExitMethodWithError(ctx, "calendarService.Feed", err)
		return nil, err
	}

	now := s.now()
	events := make([]CalendarEvent, 0, len(entries))
	for _, e := range entries {
		display := e.Status
		if e.Status == domain.RentalStatusActive && !now.Before(e.End.Add(time.Second)) {
			display = domain.RentalStatusOverdue
		}
		events = append(events, CalendarEvent{
			ID:                  e.ID,
			RentalApplicationID: e.RentalApplicationID,
			TransportID:         e.TransportID,
			Title:               e.Title,
			Start:               e.Start,
			End:                 e.End,
			AllDay:              e.AllDay,
			Status:              e.Status,
			DisplayStatus:       display,
			Color:               domain.StatusColor(display),
		})
	}

	logger.ExitMethod(ctx, "calendarService.Feed", "count", len(events))
	return events, nil
}
