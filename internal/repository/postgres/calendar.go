package postgres

import (
	"context"
	"database/sql"
	"time"

	"fd-rental-backend/internal/domain"
	"fd-rental-backend/internal/logger"
	"fd-rental-backend/internal/repository"

	"github.com/doug-martin/goqu/v9"
)

type calendarRepository struct {
	db dbtx
}

func NewCalendarRepository(db *sql.DB) repository.CalendarRepository {
	return &calendarRepository{db: db}
}

func optionalInt32(v *int32) any {
	if v == nil {
		return nil
	}
	return *v
}

// Upsert writes the mirror entry keyed by its application, so repeated
// projections of the same application leave exactly one row.
func (r *calendarRepository) Upsert(ctx context.Context, e *domain.CalendarEntry) error {
	now := time.Now()
	ds := dialect.Insert("calendar_entries").
		Rows(goqu.Record{
			"rental_application_id": e.RentalApplicationID,
			"transport_id":          optionalInt32(e.TransportID),
			"title":                 e.Title,
			"start_at":              e.Start,
			"end_at":                e.End,
			"all_day":               e.AllDay,
			"status":                string(e.Status),
			"updated_at":            now,
		}).
		OnConflict(goqu.DoUpdate("rental_application_id", goqu.Record{
			"transport_id": goqu.I("excluded.transport_id"),
			"title":        goqu.I("excluded.title"),
			"start_at":     goqu.I("excluded.start_at"),
			"end_at":       goqu.I("excluded.end_at"),
			"all_day":      goqu.I("excluded.all_day"),
			"status":       goqu.I("excluded.status"),
			"updated_at":   goqu.I("excluded.updated_at"),
		})).
		Returning("id")

	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return err
	}
	return r.db.QueryRowContext(ctx, query, args...).Scan(&e.ID)
}

func (r *calendarRepository) DeleteByApplication(ctx context.Context, applicationID int32) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM calendar_entries WHERE rental_application_id = $1`, applicationID)
	return err
}

func (r *calendarRepository) List(ctx context.Context, filter domain.CalendarFilter) ([]domain.CalendarEntry, error) {
	ds := dialect.From("calendar_entries").
		Select("id", "rental_application_id", "transport_id", "title", "start_at", "end_at", "all_day", "status")
	if !filter.From.IsZero() {
		ds = ds.Where(goqu.C("end_at").Gte(filter.From))
	}
	if !filter.To.IsZero() {
		ds = ds.Where(goqu.C("start_at").Lte(filter.To))
	}
	if len(filter.TransportIDs) > 0 {
		ds = ds.Where(goqu.C("transport_id").In(filter.TransportIDs))
	}
	query, args, err := ds.Order(goqu.C("start_at").Asc(), goqu.C("id").Asc()).Prepared(true).ToSQL()
	if err != nil {
		return nil, err
	}
	logger.DatabaseCall(ctx, "calendar.List", query, "args", len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.CalendarEntry
	for rows.Next() {
		var (
			e           domain.CalendarEntry
			transportID sql.NullInt32
			status      string
		)
		if err := rows.Scan(&e.ID, &e.RentalApplicationID, &transportID, &e.Title, &e.Start, &e.End, &e.AllDay, &status); err != nil {
			return nil, err
		}
		e.TransportID = int32Ptr(transportID)
		e.Status = domain.RentalStatus(status)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *calendarRepository) DeleteOrphans(ctx context.Context) (int64, error) {
	query := `DELETE FROM calendar_entries ce
	          WHERE NOT EXISTS (SELECT 1 FROM rental_applications ra WHERE ra.id = ce.rental_application_id)`
	res, err := r.db.ExecContext(ctx, query)
	if err != nil {
		logger.DatabaseResult(ctx, "calendar.DeleteOrphans", 0, err)
		return 0, err
	}
	n, err := res.RowsAffected()
	logger.DatabaseResult(ctx, "calendar.DeleteOrphans", n, err)
	return n, err
}
