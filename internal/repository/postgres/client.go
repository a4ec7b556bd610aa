package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"fd-rental-backend/internal/domain"
	"fd-rental-backend/internal/repository"
)

type clientRepository struct {
	db dbtx
}

func NewClientRepository(db *sql.DB) repository.ClientRepository {
	return &clientRepository{db: db}
}

const clientColumns = `id, full_name, phone_number, COALESCE(passport_number, ''), COALESCE(passport_issued_by, ''), passport_issue_date, COALESCE(how_did_you_find_us, ''), created_at, updated_at`

func scanClient(row interface{ Scan(...any) error }) (*domain.Client, error) {
	c := &domain.Client{}
	var issued sql.NullTime
	var source string
	if err := row.Scan(&c.ID, &c.FullName, &c.PhoneNumber, &c.PassportNumber, &c.PassportIssuedBy, &issued, &source, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.PassportIssueDate = timePtr(issued)
	c.HowDidYouFindUs = domain.DiscoverySource(source)
	return c, nil
}

func (r *clientRepository) GetByID(ctx context.Context, id int32) (*domain.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1`
	c, err := scanClient(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

func (r *clientRepository) GetByPhone(ctx context.Context, phone string) (*domain.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE phone_number = $1`
	c, err := scanClient(r.db.QueryRowContext(ctx, query, phone))
	if err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

func (r *clientRepository) GetOrCreateByPhone(ctx context.Context, c *domain.Client) (*domain.Client, bool, error) {
	now := time.Now()
	query := `INSERT INTO clients (full_name, phone_number, passport_number, passport_issued_by, passport_issue_date, how_did_you_find_us, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
	          ON CONFLICT (phone_number) DO NOTHING
	          RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, c.FullName, c.PhoneNumber, c.PassportNumber, c.PassportIssuedBy, c.PassportIssueDate, string(c.HowDidYouFindUs), now).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err == nil {
		return c, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, err
	}

	existing, err := r.GetByPhone(ctx, c.PhoneNumber)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (r *clientRepository) Update(ctx context.Context, c *domain.Client) error {
	query := `UPDATE clients SET full_name=$1, passport_number=$2, passport_issued_by=$3, passport_issue_date=$4, how_did_you_find_us=$5, updated_at=$6 WHERE id=$7`
	res, err := r.db.ExecContext(ctx, query, c.FullName, c.PassportNumber, c.PassportIssuedBy, c.PassportIssueDate, string(c.HowDidYouFindUs), time.Now(), c.ID)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
