package postgres

import (
	"context"
	"database/sql"
	"time"

	"fd-rental-backend/internal/domain"
	"fd-rental-backend/internal/repository"
)

type transportRepository struct {
	db dbtx
}

func NewTransportRepository(db *sql.DB) repository.TransportRepository {
	return &transportRepository{db: db}
}

const transportColumns = `id, number, name, COALESCE(model, ''), COALESCE(year, 0), COALESCE(color, ''), COALESCE(registration_number, ''), COALESCE(vin_number, ''), COALESCE(city, ''),
	price_per_day, price_3_6_days, price_7_29_days, price_30_plus_days, created_at, updated_at`

func scanTransport(row interface{ Scan(...any) error }) (*domain.Transport, error) {
	t := &domain.Transport{}
	var number sql.NullInt32
	err := row.Scan(&t.ID, &number, &t.Name, &t.Model, &t.Year, &t.Color, &t.RegistrationNumber, &t.VINNumber, &t.City,
		&t.Rates.Base, &t.Rates.ThreeToSixDays, &t.Rates.SevenTo29Days, &t.Rates.ThirtyPlusDays, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	t.Number = int32Ptr(number)
	return t, nil
}

func (r *transportRepository) Create(ctx context.Context, t *domain.Transport) error {
	now := time.Now()
	query := `INSERT INTO transports (number, name, model, year, color, registration_number, vin_number, city, price_per_day, price_3_6_days, price_7_29_days, price_30_plus_days, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $13) RETURNING id`
	err := r.db.QueryRowContext(ctx, query, t.Number, t.Name, t.Model, t.Year, t.Color, t.RegistrationNumber, t.VINNumber, t.City,
		t.Rates.Base, t.Rates.ThreeToSixDays, t.Rates.SevenTo29Days, t.Rates.ThirtyPlusDays, now).Scan(&t.ID)
	if err != nil {
		return err
	}
	t.CreatedAt, t.UpdatedAt = now, now
	return nil
}

func (r *transportRepository) GetByID(ctx context.Context, id int32) (*domain.Transport, error) {
	query := `SELECT ` + transportColumns + ` FROM transports WHERE id = $1`
	t, err := scanTransport(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err)
	}
	return t, nil
}

func (r *transportRepository) Update(ctx context.Context, t *domain.Transport) error {
	query := `UPDATE transports SET number=$1, name=$2, model=$3, year=$4, color=$5, registration_number=$6, vin_number=$7, city=$8,
	          price_per_day=$9, price_3_6_days=$10, price_7_29_days=$11, price_30_plus_days=$12, updated_at=$13 WHERE id=$14`
	res, err := r.db.ExecContext(ctx, query, t.Number, t.Name, t.Model, t.Year, t.Color, t.RegistrationNumber, t.VINNumber, t.City,
		t.Rates.Base, t.Rates.ThreeToSixDays, t.Rates.SevenTo29Days, t.Rates.ThirtyPlusDays, time.Now(), t.ID)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

func (r *transportRepository) List(ctx context.Context, city string) ([]domain.Transport, error) {
	query := `SELECT ` + transportColumns + ` FROM transports`
	var args []any
	if city != "" {
		query += ` WHERE city = $1`
		args = append(args, city)
	}
	query += ` ORDER BY number NULLS LAST, id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transports []domain.Transport
	for rows.Next() {
		t, err := scanTransport(rows)
		if err != nil {
			return nil, err
		}
		transports = append(transports, *t)
	}
	return transports, rows.Err()
}

func (r *transportRepository) LockForBooking(ctx context.Context, id int32) error {
	var locked int32
	err := r.db.QueryRowContext(ctx, `SELECT id FROM transports WHERE id = $1 FOR UPDATE`, id).Scan(&locked)
	return notFound(err)
}
