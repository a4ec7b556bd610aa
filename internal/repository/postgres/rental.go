package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"fd-rental-backend/internal/domain"
	"fd-rental-backend/internal/logger"
	"fd-rental-backend/internal/repository"

	"github.com/doug-martin/goqu/v9"
)

type rentalRepository struct {
	db dbtx
}

func NewRentalApplicationRepository(db *sql.DB) repository.RentalApplicationRepository {
	return &rentalRepository{db: db}
}

const rentalColumns = `id, client_id, transport_id, full_name, phone_number, COALESCE(passport_number, ''), COALESCE(passport_issued_by, ''), passport_issue_date,
	COALESCE(how_did_you_find_us, ''), COALESCE(city, ''), rental_start_date, rental_end_date, status, discount_percent, security_deposit,
	original_total_cost, created_by, activated_at, created_at, updated_at`

const blockingStatuses = `('reserved', 'active')`

func scanRental(row interface{ Scan(...any) error }) (*domain.RentalApplication, error) {
	a := &domain.RentalApplication{}
	var (
		clientID, transportID, createdBy sql.NullInt32
		issued, activated                sql.NullTime
		original                         sql.NullInt64
		source, status                   string
	)
	err := row.Scan(&a.ID, &clientID, &transportID, &a.FullName, &a.PhoneNumber, &a.PassportNumber, &a.PassportIssuedBy, &issued,
		&source, &a.City, &a.StartDate, &a.EndDate, &status, &a.DiscountPercent, &a.SecurityDeposit,
		&original, &createdBy, &activated, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	a.ClientID = int32Ptr(clientID)
	a.TransportID = int32Ptr(transportID)
	a.CreatedBy = int32Ptr(createdBy)
	a.PassportIssueDate = timePtr(issued)
	a.ActivatedAt = timePtr(activated)
	a.OriginalTotalCost = int64Ptr(original)
	a.HowDidYouFindUs = domain.DiscoverySource(source)
	a.Status = domain.RentalStatus(status)
	return a, nil
}

func scanRentals(rows *sql.Rows) ([]domain.RentalApplication, error) {
	defer rows.Close()
	var apps []domain.RentalApplication
	for rows.Next() {
		a, err := scanRental(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, *a)
	}
	return apps, rows.Err()
}

// bookingError maps a violation of the no-overlap exclusion constraint onto
// the domain conflict error.
func bookingError(err error, app *domain.RentalApplication) error {
	if pqCode(err) != pgExclusionViolation {
		return err
	}
	var transportID int32
	if app.TransportID != nil {
		transportID = *app.TransportID
	}
	return &domain.TransportUnavailableError{TransportID: transportID}
}

func (r *rentalRepository) Create(ctx context.Context, a *domain.RentalApplication) error {
	now := time.Now()
	query := `INSERT INTO rental_applications (client_id, transport_id, full_name, phone_number, passport_number, passport_issued_by, passport_issue_date,
	          how_did_you_find_us, city, rental_start_date, rental_end_date, status, discount_percent, security_deposit, original_total_cost, created_by, activated_at, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $18) RETURNING id`
	err := r.db.QueryRowContext(ctx, query, a.ClientID, a.TransportID, a.FullName, a.PhoneNumber, a.PassportNumber, a.PassportIssuedBy, a.PassportIssueDate,
		string(a.HowDidYouFindUs), a.City, a.StartDate, a.EndDate, string(a.Status), a.DiscountPercent, a.SecurityDeposit, a.OriginalTotalCost, a.CreatedBy, a.ActivatedAt, now).
		Scan(&a.ID)
	if err != nil {
		return bookingError(err, a)
	}
	a.CreatedAt, a.UpdatedAt = now, now
	return nil
}

func (r *rentalRepository) GetByID(ctx context.Context, id int32) (*domain.RentalApplication, error) {
	query := `SELECT ` + rentalColumns + ` FROM rental_applications WHERE id = $1`
	a, err := scanRental(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err)
	}
	return a, nil
}

func (r *rentalRepository) GetByIDForUpdate(ctx context.Context, id int32) (*domain.RentalApplication, error) {
	query := `SELECT ` + rentalColumns + ` FROM rental_applications WHERE id = $1 FOR UPDATE`
	a, err := scanRental(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err)
	}
	return a, nil
}

func (r *rentalRepository) Update(ctx context.Context, a *domain.RentalApplication) error {
	now := time.Now()
	query := `UPDATE rental_applications SET client_id=$1, transport_id=$2, full_name=$3, phone_number=$4, passport_number=$5, passport_issued_by=$6, passport_issue_date=$7,
	          how_did_you_find_us=$8, city=$9, rental_start_date=$10, rental_end_date=$11, status=$12, discount_percent=$13, security_deposit=$14,
	          original_total_cost=$15, activated_at=$16, updated_at=$17 WHERE id=$18`
	res, err := r.db.ExecContext(ctx, query, a.ClientID, a.TransportID, a.FullName, a.PhoneNumber, a.PassportNumber, a.PassportIssuedBy, a.PassportIssueDate,
		string(a.HowDidYouFindUs), a.City, a.StartDate, a.EndDate, string(a.Status), a.DiscountPercent, a.SecurityDeposit,
		a.OriginalTotalCost, a.ActivatedAt, now, a.ID)
	if err != nil {
		return bookingError(err, a)
	}
	if err := expectAffected(res); err != nil {
		return err
	}
	a.UpdatedAt = now
	return nil
}

func (r *rentalRepository) Delete(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM rental_applications WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

func (r *rentalRepository) List(ctx context.Context, filter domain.RentalFilter) ([]domain.RentalApplication, error) {
	ds := dialect.From("rental_applications").Select(goqu.L(rentalColumns))
	if filter.Status != "" {
		ds = ds.Where(goqu.C("status").Eq(string(filter.Status)))
	}
	if filter.TransportID != nil {
		ds = ds.Where(goqu.C("transport_id").Eq(*filter.TransportID))
	}
	if filter.ClientID != nil {
		ds = ds.Where(goqu.C("client_id").Eq(*filter.ClientID))
	}
	if filter.From != nil {
		ds = ds.Where(goqu.C("rental_end_date").Gte(*filter.From))
	}
	if filter.To != nil {
		ds = ds.Where(goqu.C("rental_start_date").Lte(*filter.To))
	}
	query, args, err := ds.Order(goqu.C("rental_start_date").Asc(), goqu.C("id").Asc()).Prepared(true).ToSQL()
	if err != nil {
		return nil, err
	}
	logger.DatabaseCall(ctx, "rentals.List", query, "args", len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return scanRentals(rows)
}

func (r *rentalRepository) FindConflicting(ctx context.Context, transportID int32, start, end time.Time, excludeID int32) (*domain.RentalApplication, error) {
	query := `SELECT ` + rentalColumns + ` FROM rental_applications
	          WHERE transport_id = $1 AND status IN ` + blockingStatuses + `
	          AND rental_start_date <= $3 AND rental_end_date >= $2 AND id <> $4
	          ORDER BY rental_start_date, id LIMIT 1`
	a, err := scanRental(r.db.QueryRowContext(ctx, query, transportID, start, end, excludeID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *rentalRepository) ListBookedTransportIDs(ctx context.Context, start, end time.Time) ([]int32, error) {
	query := `SELECT DISTINCT transport_id FROM rental_applications
	          WHERE transport_id IS NOT NULL AND status IN ` + blockingStatuses + `
	          AND rental_start_date <= $2 AND rental_end_date >= $1`
	rows, err := r.db.QueryContext(ctx, query, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int32
	for rows.Next() {
		var id int32
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *rentalRepository) ListActiveEndingBefore(ctx context.Context, date time.Time) ([]domain.RentalApplication, error) {
	query := `SELECT ` + rentalColumns + ` FROM rental_applications WHERE status = 'active' AND rental_end_date < $1 ORDER BY rental_end_date, id`
	rows, err := r.db.QueryContext(ctx, query, date)
	if err != nil {
		return nil, err
	}
	return scanRentals(rows)
}
