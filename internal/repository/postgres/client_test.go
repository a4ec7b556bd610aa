package postgres_test

import (
	"context"
	"testing"
	"time"

	"fd-rental-backend/internal/domain"
	"fd-rental-backend/internal/repository/postgres"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var clientRowColumns = []string{"id", "full_name", "phone_number", "passport_number", "passport_issued_by", "passport_issue_date", "how_did_you_find_us", "created_at", "updated_at"}

func TestClientRepository_GetOrCreateByPhone(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewClientRepository(db)
	ctx := context.Background()

	t.Run("Creates a new client", func(t *testing.T) {
		now := time.Now()
		c := &domain.Client{FullName: "Иванов Иван", PhoneNumber: "+79161234567"}
		mock.ExpectQuery("INSERT INTO clients (.+) ON CONFLICT \\(phone_number\\) DO NOTHING").
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(9, now, now))

		got, created, err := repo.GetOrCreateByPhone(ctx, c)
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, int32(9), got.ID)
	})

	t.Run("Returns the existing client on conflict", func(t *testing.T) {
		now := time.Now()
		c := &domain.Client{FullName: "Другое Имя", PhoneNumber: "+79161234567"}
		mock.ExpectQuery("INSERT INTO clients").
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}))
		mock.ExpectQuery("SELECT (.+) FROM clients WHERE phone_number = \\$1").
			WithArgs("+79161234567").
			WillReturnRows(sqlmock.NewRows(clientRowColumns).
				AddRow(9, "Иванов Иван", "+79161234567", "4510 123456", "", nil, "ads", now, now))

		got, created, err := repo.GetOrCreateByPhone(ctx, c)
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, int32(9), got.ID)
		assert.Equal(t, "Иванов Иван", got.FullName)
		assert.Equal(t, domain.DiscoveryAds, got.HowDidYouFindUs)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClientRepository_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewClientRepository(db)
	c := &domain.Client{ID: 9, FullName: "Иванов Иван Петрович", PassportNumber: "4510 123456"}

	mock.ExpectExec("UPDATE clients SET").
		WithArgs(c.FullName, c.PassportNumber, "", sqlmock.AnyArg(), "", sqlmock.AnyArg(), int32(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Update(context.Background(), c))
	assert.NoError(t, mock.ExpectationsWereMet())
}
