package postgres_test

import (
	"os"
	"testing"

	"fd-rental-backend/internal/repository/postgres"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMigrationProvider(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	provider, err := postgres.NewMigrationProvider(db)
	require.NoError(t, err)

	sources := provider.ListSources()
	require.Len(t, sources, 1)
	assert.Equal(t, int64(1), sources[0].Version)
	assert.Equal(t, goose.TypeSQL, sources[0].Type)
}

func TestInitMigration_ExclusionConstraint(t *testing.T) {
	body, err := os.ReadFile("migrations/001_init.sql")
	require.NoError(t, err)
	assert.Contains(t, string(body), "-- +goose Up")
	assert.Contains(t, string(body), "EXCLUDE USING gist")
	assert.Contains(t, string(body), "daterange(rental_start_date, rental_end_date, '[]')")
}
