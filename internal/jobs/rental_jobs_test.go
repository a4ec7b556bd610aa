package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"fd-rental-backend/internal/config"
	"fd-rental-backend/internal/domain"
	"fd-rental-backend/internal/repository"
	"fd-rental-backend/internal/service"
	"fd-rental-backend/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRentals struct {
	repository.RentalApplicationRepository
	mock.Mock
}

func (m *mockRentals) ListActiveEndingBefore(ctx context.Context, date time.Time) ([]domain.RentalApplication, error) {
	args := m.Called(ctx, date)
	return args.Get(0).([]domain.RentalApplication), args.Error(1)
}

type mockTransports struct {
	repository.TransportRepository
	mock.Mock
}

func (m *mockTransports) GetByID(ctx context.Context, id int32) (*domain.Transport, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transport), args.Error(1)
}

type mockNotifications struct {
	mock.Mock
}

func (m *mockNotifications) SendOverdueReminder(ctx context.Context, notice service.OverdueNotice) error {
	args := m.Called(ctx, notice)
	return args.Error(0)
}

func (m *mockNotifications) SendOverdueDigest(ctx context.Context, notices []service.OverdueNotice) error {
	args := m.Called(ctx, notices)
	return args.Error(0)
}

type mockRentalService struct {
	service.RentalService
	mock.Mock
}

func (m *mockRentalService) ReprojectAll(ctx context.Context) (int, int64, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Get(1).(int64), args.Error(2)
}

func newTestRunner(rentals *mockRentals, transports *mockTransports, notes *mockNotifications, rental *mockRentalService) *JobRunner {
	cfg := &config.Config{Business: config.BusinessConfig{Timezone: "Europe/Moscow"}}
	jr := NewJobRunner(
		repository.Repositories{Rentals: rentals, Transports: transports},
		&Services{Rental: rental, Notification: notes},
		cfg,
	)
	// 23:30 UTC on the 3rd is already the 4th in Moscow
	jr.now = func() time.Time { return time.Date(2024, 3, 3, 23, 30, 0, 0, time.UTC) }
	return jr
}

func TestSendOverdueReminders(t *testing.T) {
	ctx := context.Background()
	today := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	transportID := int32(5)
	scooter := &domain.Transport{ID: 5, Name: "Honda", Model: "Dio"}

	t.Run("Reminds each client and sends one digest", func(t *testing.T) {
		rentals, transports, notes := new(mockRentals), new(mockTransports), new(mockNotifications)
		jr := newTestRunner(rentals, transports, notes, nil)

		apps := []domain.RentalApplication{
			{ID: 1, TransportID: &transportID, PhoneNumber: "+70000000001", Status: domain.RentalStatusActive, EndDate: utils.DateOnly(today.AddDate(0, 0, -3))},
			{ID: 2, TransportID: &transportID, PhoneNumber: "+70000000002", Status: domain.RentalStatusActive, EndDate: utils.DateOnly(today.AddDate(0, 0, -1))},
		}
		rentals.On("ListActiveEndingBefore", ctx, today).Return(apps, nil)
		transports.On("GetByID", ctx, int32(5)).Return(scooter, nil).Once()
		notes.On("SendOverdueReminder", ctx, mock.MatchedBy(func(n service.OverdueNotice) bool { return n.Application.ID == 1 })).
			Return(errors.New("twilio down"))
		notes.On("SendOverdueReminder", ctx, mock.MatchedBy(func(n service.OverdueNotice) bool { return n.Application.ID == 2 })).
			Return(nil)
		notes.On("SendOverdueDigest", ctx, mock.MatchedBy(func(ns []service.OverdueNotice) bool {
			return len(ns) == 2 && ns[0].DaysOverdue == 3 && ns[1].DaysOverdue == 1 && ns[0].Transport == scooter
		})).Return(nil)

		require.NoError(t, jr.RunJob(ctx, JobSendOverdueReminders))
		notes.AssertExpectations(t)
		transports.AssertExpectations(t)
		for _, app := range apps {
			assert.Equal(t, domain.RentalStatusActive, app.Status)
		}
	})

	t.Run("Nothing overdue", func(t *testing.T) {
		rentals, transports, notes := new(mockRentals), new(mockTransports), new(mockNotifications)
		jr := newTestRunner(rentals, transports, notes, nil)
		rentals.On("ListActiveEndingBefore", ctx, today).Return([]domain.RentalApplication{}, nil)

		require.NoError(t, jr.RunJob(ctx, JobSendOverdueReminders))
		notes.AssertNotCalled(t, "SendOverdueDigest", mock.Anything, mock.Anything)
	})
}

func TestReconcileCalendar(t *testing.T) {
	ctx := context.Background()
	rental := new(mockRentalService)
	jr := newTestRunner(new(mockRentals), new(mockTransports), new(mockNotifications), rental)

	rental.On("ReprojectAll", ctx).Return(12, int64(2), nil).Once()
	require.NoError(t, jr.RunJob(ctx, JobReconcileCalendar))
	rental.AssertExpectations(t)
}

func TestRunJob(t *testing.T) {
	ctx := context.Background()

	t.Run("Unknown job", func(t *testing.T) {
		jr := newTestRunner(new(mockRentals), new(mockTransports), new(mockNotifications), nil)
		err := jr.RunJob(ctx, "mark-overdue")
		require.Error(t, err)
		assert.Contains(t, err.Error(), JobReconcileCalendar)
	})

	t.Run("Panics become errors", func(t *testing.T) {
		jr := newTestRunner(new(mockRentals), new(mockTransports), new(mockNotifications), nil)
		err := jr.runWithRecovery(ctx, "boom", func(context.Context) error { panic("boom") })
		assert.ErrorContains(t, err, "panicked")
	})

	assert.Equal(t, []string{JobReconcileCalendar, JobSendOverdueReminders}, JobNames())
}
