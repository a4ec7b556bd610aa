package repository

import (
	"context"
	"time"

	"fd-rental-backend/internal/domain"
)

type ClientRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.Client, error)
	GetByPhone(ctx context.Context, phone string) (*domain.Client, error)
	// GetOrCreateByPhone returns the client keyed by c.PhoneNumber, inserting c
	// when none exists. The bool reports whether a row was created.
	GetOrCreateByPhone(ctx context.Context, c *domain.Client) (*domain.Client, bool, error)
	Update(ctx context.Context, c *domain.Client) error
}

type TransportRepository interface {
	Create(ctx context.Context, t *domain.Transport) error
	GetByID(ctx context.Context, id int32) (*domain.Transport, error)
	Update(ctx context.Context, t *domain.Transport) error
	List(ctx context.Context, city string) ([]domain.Transport, error)
	// LockForBooking takes a row lock on the transport so that concurrent
	// bookings of the same vehicle are serialized until the transaction ends.
	LockForBooking(ctx context.Context, id int32) error
}

type RentalApplicationRepository interface {
	Create(ctx context.Context, app *domain.RentalApplication) error
	GetByID(ctx context.Context, id int32) (*domain.RentalApplication, error)
	GetByIDForUpdate(ctx context.Context, id int32) (*domain.RentalApplication, error)
	Update(ctx context.Context, app *domain.RentalApplication) error
	Delete(ctx context.Context, id int32) error
	List(ctx context.Context, filter domain.RentalFilter) ([]domain.RentalApplication, error)

	// FindConflicting returns the earliest reserved or active application of the
	// transport whose inclusive date range intersects [start, end], ignoring
	// excludeID. It returns nil when there is none.
	FindConflicting(ctx context.Context, transportID int32, start, end time.Time, excludeID int32) (*domain.RentalApplication, error)
	ListBookedTransportIDs(ctx context.Context, start, end time.Time) ([]int32, error)
	ListActiveEndingBefore(ctx context.Context, date time.Time) ([]domain.RentalApplication, error)
}

type CalendarRepository interface {
	Upsert(ctx context.Context, entry *domain.CalendarEntry) error
	DeleteByApplication(ctx context.Context, applicationID int32) error
	List(ctx context.Context, filter domain.CalendarFilter) ([]domain.CalendarEntry, error)
	// DeleteOrphans removes entries whose application no longer exists.
	DeleteOrphans(ctx context.Context) (int64, error)
}

// Repositories groups the repositories bound to one connection or transaction.
type Repositories struct {
	Clients    ClientRepository
	Transports TransportRepository
	Rentals    RentalApplicationRepository
	Calendar   CalendarRepository
}

type TxManager interface {
	// WithinTx runs fn against repositories bound to a single transaction.
	// The transaction commits when fn returns nil and rolls back otherwise.
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}
