package service_test

import (
	"context"
	"testing"
	"time"

	"fd-rental-backend/internal/domain"
	"fd-rental-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalendarService_Feed(t *testing.T) {
	ctx := context.Background()
	r := newMockRepos()
	svc := service.NewCalendarService(r.calendar, clock)

	from := time.Date(2024, 3, 1, 0, 0, 0, 0, msk)
	to := time.Date(2024, 3, 31, 23, 59, 59, 0, msk)
	entries := []domain.CalendarEntry{
		{ID: 1, RentalApplicationID: 10, Title: "Аренда: A", Status: domain.RentalStatusActive,
			Start: time.Date(2024, 3, 1, 0, 0, 0, 0, msk), End: time.Date(2024, 3, 3, 23, 59, 59, 0, msk), AllDay: true},
		{ID: 2, RentalApplicationID: 11, Title: "Аренда: B", Status: domain.RentalStatusActive,
			Start: time.Date(2024, 3, 2, 0, 0, 0, 0, msk), End: time.Date(2024, 3, 4, 23, 59, 59, 0, msk), AllDay: true},
		{ID: 3, RentalApplicationID: 12, Title: "Аренда: C", Status: domain.RentalStatusReserved,
			Start: time.Date(2024, 3, 1, 0, 0, 0, 0, msk), End: time.Date(2024, 3, 2, 23, 59, 59, 0, msk), AllDay: true},
	}
	r.calendar.On("List", ctx, domain.CalendarFilter{From: from, To: to, TransportIDs: []int32{5}}).Return(entries, nil)

	events, err := svc.Feed(ctx, from, to, []int32{5})
	require.NoError(t, err)
	require.Len(t, events, 3)

	assert.Equal(t, domain.RentalStatusOverdue, events[0].DisplayStatus)
	assert.Equal(t, domain.StatusColor(domain.RentalStatusOverdue), events[0].Color)
	assert.Equal(t, domain.RentalStatusActive, events[0].Status)

	assert.Equal(t, domain.RentalStatusActive, events[1].DisplayStatus)
	assert.Equal(t, domain.StatusColor(domain.RentalStatusActive), events[1].Color)

	// past reservations are never overdue
	assert.Equal(t, domain.RentalStatusReserved, events[2].DisplayStatus)
}

func TestCalendarService_FeedRejectsInvertedRange(t *testing.T) {
	r := newMockRepos()
	svc := service.NewCalendarService(r.calendar, clock)

	_, err := svc.Feed(context.Background(), day(2024, 3, 5), day(2024, 3, 1), nil)
	var dr *domain.DateRangeError
	assert.ErrorAs(t, err, &dr)
}
