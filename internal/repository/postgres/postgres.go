package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fd-rental-backend/internal/domain"
	"fd-rental-backend/internal/logger"
	"fd-rental-backend/internal/repository"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/lib/pq"
)

const pgExclusionViolation = "23P01"

var dialect = goqu.Dialect("postgres")

// dbtx is satisfied by both *sql.DB and *sql.Tx.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db *sql.DB
	repository.ClientRepository
	repository.TransportRepository
	repository.RentalApplicationRepository
	repository.CalendarRepository
}

func NewStore(db *sql.DB) *Store {
	repos := newRepositories(db)
	return &Store{
		db:                          db,
		ClientRepository:            repos.Clients,
		TransportRepository:         repos.Transports,
		RentalApplicationRepository: repos.Rentals,
		CalendarRepository:          repos.Calendar,
	}
}

func newRepositories(q dbtx) repository.Repositories {
	return repository.Repositories{
		Clients:    &clientRepository{db: q},
		Transports: &transportRepository{db: q},
		Rentals:    &rentalRepository{db: q},
		Calendar:   &calendarRepository{db: q},
	}
}

// Repositories returns the non-transactional repository set.
func (s *Store) Repositories() repository.Repositories {
	return repository.Repositories{
		Clients:    s.ClientRepository,
		Transports: s.TransportRepository,
		Rentals:    s.RentalApplicationRepository,
		Calendar:   s.CalendarRepository,
	}
}

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				logger.Error("Transaction rollback failed", "error", rbErr)
			}
		}
	}()

	if err = fn(ctx, newRepositories(tx)); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// notFound maps sql.ErrNoRows onto the domain sentinel.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}

func pqCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

func int32Ptr(v sql.NullInt32) *int32 {
	if !v.Valid {
		return nil
	}
	n := v.Int32
	return &n
}

func int64Ptr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}

func timePtr(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}
