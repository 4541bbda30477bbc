package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldops/booking-api/internal/models"
)

func representativeRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "full_name", "home_street", "home_city", "home_state", "home_zip", "home_lat", "home_lng", "active", "created_at", "updated_at"})
}

func TestRepresentativeRepositoryListActiveWithTemplates(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRepresentativeRepository(db)

	mock.ExpectQuery("SELECT .+ FROM representatives WHERE active = TRUE ORDER BY created_at ASC").
		WillReturnRows(representativeRows().
			AddRow("r1", "Alice Reed", "1 Depot Rd", "Atlanta", "GA", "30301", 33.05, -84.05, true, time.Now(), time.Now()).
			AddRow("r2", "Bob Hale", "2 Depot Rd", "Macon", "GA", "31201", 32.84, -83.63, true, time.Now(), time.Now()))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT rep_id, day_of_week, time_slot FROM weekly_availability ORDER BY rep_id, day_of_week, time_slot")).
		WillReturnRows(sqlmock.NewRows([]string{"rep_id", "day_of_week", "time_slot"}).
			AddRow("r1", "wednesday", "2pm").
			AddRow("r1", "wednesday", "10am").
			AddRow("r2", "not-a-day", "2pm"))

	reps, err := repo.ListActiveWithTemplates(context.Background())
	require.NoError(t, err)
	require.Len(t, reps, 2)

	assert.True(t, reps[0].WeeklyTemplate.Allows(models.Wednesday, models.SlotMidday))
	assert.True(t, reps[0].WeeklyTemplate.Allows(models.Wednesday, models.SlotMorning))
	assert.False(t, reps[0].WeeklyTemplate.Allows(models.Monday, models.SlotMidday))

	// Malformed day names never leak into a template.
	assert.Empty(t, reps[1].WeeklyTemplate)

	assert.Equal(t, models.GeoPoint{Lat: 33.05, Lng: -84.05}, reps[0].HomeAddress.Location)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepresentativeRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRepresentativeRepository(db)

	mock.ExpectExec("INSERT INTO representatives").
		WithArgs(sqlmock.AnyArg(), "Alice Reed", "1 Depot Rd", "Atlanta", "GA", "30301", 33.05, -84.05, true, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	rep := &models.Representative{
		FullName: "Alice Reed",
		HomeAddress: models.Address{
			Street: "1 Depot Rd", City: "Atlanta", State: "GA", Zip: "30301",
			Location: models.GeoPoint{Lat: 33.05, Lng: -84.05},
		},
		Active: true,
	}
	require.NoError(t, repo.Create(context.Background(), rep))
	assert.NotEmpty(t, rep.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepresentativeRepositoryReplaceWeeklyTemplate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRepresentativeRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM weekly_availability").
		WithArgs("r1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO weekly_availability").
		WithArgs("r1", "monday", "10am").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO weekly_availability").
		WithArgs("r1", "wednesday", "2pm").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	tpl := models.WeeklyTemplate{
		models.Monday:    {models.SlotMorning},
		models.Wednesday: {models.SlotMidday},
	}
	require.NoError(t, repo.ReplaceWeeklyTemplate(context.Background(), "r1", tpl))
	assert.NoError(t, mock.ExpectationsWereMet())
}
