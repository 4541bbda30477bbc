package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldops/booking-api/internal/models"
)

func TestServiceAreaRepositoryFindByZip(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewServiceAreaRepository(db)

	notes := "flood zone, coverage paused"
	mock.ExpectQuery(regexp.QuoteMeta("SELECT zip, excluded, notes, created_at, updated_at FROM service_areas WHERE zip = $1")).
		WithArgs("30305").
		WillReturnRows(sqlmock.NewRows([]string{"zip", "excluded", "notes", "created_at", "updated_at"}).
			AddRow("30305", true, &notes, time.Now(), time.Now()))

	area, err := repo.FindByZip(context.Background(), "30305")
	require.NoError(t, err)
	assert.True(t, area.Excluded)
	require.NotNil(t, area.Notes)
	assert.Equal(t, notes, *area.Notes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestServiceAreaRepositoryFindByZipUnknown(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewServiceAreaRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT zip, excluded, notes, created_at, updated_at FROM service_areas WHERE zip = $1")).
		WithArgs("99999").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByZip(context.Background(), "99999")
	assert.True(t, errors.Is(err, sql.ErrNoRows))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestServiceAreaRepositoryUpsert(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewServiceAreaRepository(db)

	mock.ExpectExec("INSERT INTO service_areas").
		WithArgs("30305", false, nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Upsert(context.Background(), &models.ServiceArea{Zip: "30305"}))
	assert.NoError(t, mock.ExpectationsWereMet())
}
