package service_test

import (
	"context"
	"time"

	"fd-rental-backend/internal/domain"
	"fd-rental-backend/internal/repository"

	"github.com/stretchr/testify/mock"
)

// MockClientRepo
type MockClientRepo struct {
	mock.Mock
}

func (m *MockClientRepo) GetByID(ctx context.Context, id int32) (*domain.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}
func (m *MockClientRepo) GetByPhone(ctx context.Context, phone string) (*domain.Client, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}
func (m *MockClientRepo) GetOrCreateByPhone(ctx context.Context, c *domain.Client) (*domain.Client, bool, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}
	return args.Get(0).(*domain.Client), args.Bool(1), args.Error(2)
}
func (m *MockClientRepo) Update(ctx context.Context, c *domain.Client) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

// MockTransportRepo
type MockTransportRepo struct {
	mock.Mock
}

func (m *MockTransportRepo) Create(ctx context.Context, t *domain.Transport) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}
func (m *MockTransportRepo) GetByID(ctx context.Context, id int32) (*domain.Transport, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transport), args.Error(1)
}
func (m *MockTransportRepo) Update(ctx context.Context, t *domain.Transport) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}
func (m *MockTransportRepo) List(ctx context.Context, city string) ([]domain.Transport, error) {
	args := m.Called(ctx, city)
	return args.Get(0).([]domain.Transport), args.Error(1)
}
func (m *MockTransportRepo) LockForBooking(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockRentalRepo
type MockRentalRepo struct {
	mock.Mock
}

func (m *MockRentalRepo) Create(ctx context.Context, app *domain.RentalApplication) error {
	args := m.Called(ctx, app)
	return args.Error(0)
}
func (m *MockRentalRepo) GetByID(ctx context.Context, id int32) (*domain.RentalApplication, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RentalApplication), args.Error(1)
}
func (m *MockRentalRepo) GetByIDForUpdate(ctx context.Context, id int32) (*domain.RentalApplication, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RentalApplication), args.Error(1)
}
func (m *MockRentalRepo) Update(ctx context.Context, app *domain.RentalApplication) error {
	args := m.Called(ctx, app)
	return args.Error(0)
}
func (m *MockRentalRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockRentalRepo) List(ctx context.Context, filter domain.RentalFilter) ([]domain.RentalApplication, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.RentalApplication), args.Error(1)
}
func (m *MockRentalRepo) FindConflicting(ctx context.Context, transportID int32, start, end time.Time, excludeID int32) (*domain.RentalApplication, error) {
	args := m.Called(ctx, transportID, start, end, excludeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RentalApplication), args.Error(1)
}
func (m *MockRentalRepo) ListBookedTransportIDs(ctx context.Context, start, end time.Time) ([]int32, error) {
	args := m.Called(ctx, start, end)
	return args.Get(0).([]int32), args.Error(1)
}
func (m *MockRentalRepo) ListActiveEndingBefore(ctx context.Context, date time.Time) ([]domain.RentalApplication, error) {
	args := m.Called(ctx, date)
	return args.Get(0).([]domain.RentalApplication), args.Error(1)
}

// MockCalendarRepo
type MockCalendarRepo struct {
	mock.Mock
}

func (m *MockCalendarRepo) Upsert(ctx context.Context, e *domain.CalendarEntry) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}
func (m *MockCalendarRepo) DeleteByApplication(ctx context.Context, applicationID int32) error {
	args := m.Called(ctx, applicationID)
	return args.Error(0)
}
func (m *MockCalendarRepo) List(ctx context.Context, filter domain.CalendarFilter) ([]domain.CalendarEntry, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.CalendarEntry), args.Error(1)
}
func (m *MockCalendarRepo) DeleteOrphans(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockSMSSender
type MockSMSSender struct {
	mock.Mock
}

func (m *MockSMSSender) SendSMS(ctx context.Context, to, body string) error {
	args := m.Called(ctx, to, body)
	return args.Error(0)
}

// MockEmailSender
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendEmail(ctx context.Context, to []string, subject, plainText, html string) error {
	args := m.Called(ctx, to, subject, plainText, html)
	return args.Error(0)
}

type mockRepos struct {
	clients    *MockClientRepo
	transports *MockTransportRepo
	rentals    *MockRentalRepo
	calendar   *MockCalendarRepo
}

func newMockRepos() *mockRepos {
	return &mockRepos{
		clients:    new(MockClientRepo),
		transports: new(MockTransportRepo),
		rentals:    new(MockRentalRepo),
		calendar:   new(MockCalendarRepo),
	}
}

func (r *mockRepos) Repositories() repository.Repositories {
	return repository.Repositories{
		Clients:    r.clients,
		Transports: r.transports,
		Rentals:    r.rentals,
		Calendar:   r.calendar,
	}
}

// fakeTx runs fn against the mock repositories and records whether the
// transaction would have committed.
type fakeTx struct {
	repos     *mockRepos
	committed int
	rolled    int
}

func (f *fakeTx) WithinTx(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) error {
	if err := fn(ctx, f.repos.Repositories()); err != nil {
		f.rolled++
		return err
	}
	f.committed++
	return nil
}
