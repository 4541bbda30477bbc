package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/fieldops/booking-api/internal/models"
)

const repColumns = "id, full_name, home_street, home_city, home_state, home_zip, home_lat, home_lng, active, created_at, updated_at"

// RepresentativeRepository provides persistence for the sales roster and
// the weekly availability templates.
type RepresentativeRepository struct {
	db *sqlx.DB
}

// NewRepresentativeRepository creates a new roster repository.
func NewRepresentativeRepository(db *sqlx.DB) *RepresentativeRepository {
	return &RepresentativeRepository{db: db}
}

type repRow struct {
	ID         string    `db:"id"`
	FullName   string    `db:"full_name"`
	HomeStreet string    `db:"home_street"`
	HomeCity   string    `db:"home_city"`
	HomeState  string    `db:"home_state"`
	HomeZip    string    `db:"home_zip"`
	HomeLat    float64   `db:"home_lat"`
	HomeLng    float64   `db:"home_lng"`
	Active     bool      `db:"active"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func (r repRow) toModel() models.Representative {
	return models.Representative{
		ID:       r.ID,
		FullName: r.FullName,
		HomeAddress: models.Address{
			Street:   r.HomeStreet,
			City:     r.HomeCity,
			State:    r.HomeState,
			Zip:      r.HomeZip,
			Location: models.GeoPoint{Lat: r.HomeLat, Lng: r.HomeLng},
		},
		Active:    r.Active,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type availabilityRow struct {
	RepID     string `db:"rep_id"`
	DayOfWeek string `db:"day_of_week"`
	TimeSlot  string `db:"time_slot"`
}

// List returns representatives with optional filtering and pagination.
func (r *RepresentativeRepository) List(ctx context.Context, filter models.RepresentativeFilter) ([]models.Representative, int, error) {
	base := "FROM representatives WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("full_name ILIKE $%d", len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}
	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("active = $%d", len(args)+1))
		args = append(args, *filter.Active)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY created_at ASC LIMIT %d OFFSET %d", repColumns, base, size, offset)
	var rows []repRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list representatives: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count representatives: %w", err)
	}

	reps := make([]models.Representative, 0, len(rows))
	for _, row := range rows {
		reps = append(reps, row.toModel())
	}
	return reps, total, nil
}

// FindByID loads a representative by id, without the weekly template.
func (r *RepresentativeRepository) FindByID(ctx context.Context, id string) (*models.Representative, error) {
	query := fmt.Sprintf("SELECT %s FROM representatives WHERE id = $1", repColumns)
	var row repRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, err
	}
	rep := row.toModel()
	return &rep, nil
}

// ListActiveWithTemplates returns the active roster with their weekly
// templates attached in a single snapshot load. Roster order is stable
// (creation order) so equidistant ranking ties always resolve the same way.
func (r *RepresentativeRepository) ListActiveWithTemplates(ctx context.Context) ([]models.Representative, error) {
	query := fmt.Sprintf("SELECT %s FROM representatives WHERE active = TRUE ORDER BY created_at ASC", repColumns)
	var rows []repRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list active representatives: %w", err)
	}

	const availQuery = `SELECT rep_id, day_of_week, time_slot FROM weekly_availability ORDER BY rep_id, day_of_week, time_slot`
	var avail []availabilityRow
	if err := r.db.SelectContext(ctx, &avail, availQuery); err != nil {
		return nil, fmt.Errorf("list weekly availability: %w", err)
	}

	templates := make(map[string]models.WeeklyTemplate)
	for _, a := range avail {
		day, ok := models.ParseDayOfWeek(a.DayOfWeek)
		if !ok {
			continue
		}
		slot := models.TimeSlot(a.TimeSlot)
		if !slot.Valid() {
			continue
		}
		tpl := templates[a.RepID]
		if tpl == nil {
			tpl = models.WeeklyTemplate{}
			templates[a.RepID] = tpl
		}
		tpl[day] = append(tpl[day], slot)
	}

	reps := make([]models.Representative, 0, len(rows))
	for _, row := range rows {
		rep := row.toModel()
		rep.WeeklyTemplate = templates[rep.ID]
		reps = append(reps, rep)
	}
	return reps, nil
}

// GetWeeklyTemplate loads the weekly template for one representative.
func (r *RepresentativeRepository) GetWeeklyTemplate(ctx context.Context, repID string) (models.WeeklyTemplate, error) {
	const query = `SELECT rep_id, day_of_week, time_slot FROM weekly_availability WHERE rep_id = $1 ORDER BY day_of_week, time_slot`
	var rows []availabilityRow
	if err := r.db.SelectContext(ctx, &rows, query, repID); err != nil {
		return nil, fmt.Errorf("get weekly template: %w", err)
	}

	tpl := models.WeeklyTemplate{}
	for _, row := range rows {
		day, ok := models.ParseDayOfWeek(row.DayOfWeek)
		if !ok {
			continue
		}
		slot := models.TimeSlot(row.TimeSlot)
		if !slot.Valid() {
			continue
		}
		tpl[day] = append(tpl[day], slot)
	}
	return tpl, nil
}

// ReplaceWeeklyTemplate swaps out the representative's template atomically.
func (r *RepresentativeRepository) ReplaceWeeklyTemplate(ctx context.Context, repID string, tpl models.WeeklyTemplate) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin template replace: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM weekly_availability WHERE rep_id = $1", repID); err != nil {
		return fmt.Errorf("clear weekly template: %w", err)
	}

	const insert = `INSERT INTO weekly_availability (rep_id, day_of_week, time_slot) VALUES ($1, $2, $3)`
	for _, day := range models.AllDaysOfWeek {
		for _, slot := range tpl[day] {
			if _, err := tx.ExecContext(ctx, insert, repID, string(day), string(slot)); err != nil {
				return fmt.Errorf("insert weekly template row: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit template replace: %w", err)
	}
	return nil
}

// Create inserts a new representative.
func (r *RepresentativeRepository) Create(ctx context.Context, rep *models.Representative) error {
	if rep.ID == "" {
		rep.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	rep.CreatedAt = now
	rep.UpdatedAt = now

	const query = `INSERT INTO representatives (id, full_name, home_street, home_city, home_state, home_zip, home_lat, home_lng, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	if _, err := r.db.ExecContext(ctx, query,
		rep.ID, rep.FullName,
		rep.HomeAddress.Street, rep.HomeAddress.City, rep.HomeAddress.State, rep.HomeAddress.Zip,
		rep.HomeAddress.Location.Lat, rep.HomeAddress.Location.Lng,
		rep.Active, rep.CreatedAt, rep.UpdatedAt,
	); err != nil {
		return fmt.Errorf("create representative: %w", err)
	}
	return nil
}

// Update rewrites a representative's mutable fields.
func (r *RepresentativeRepository) Update(ctx context.Context, rep *models.Representative) error {
	rep.UpdatedAt = time.Now().UTC()

	const query = `UPDATE representatives SET full_name = $2, home_street = $3, home_city = $4, home_state = $5, home_zip = $6, home_lat = $7, home_lng = $8, active = $9, updated_at = $10 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query,
		rep.ID, rep.FullName,
		rep.HomeAddress.Street, rep.HomeAddress.City, rep.HomeAddress.State, rep.HomeAddress.Zip,
		rep.HomeAddress.Location.Lat, rep.HomeAddress.Location.Lng,
		rep.Active, rep.UpdatedAt,
	); err != nil {
		return fmt.Errorf("update representative: %w", err)
	}
	return nil
}

// Deactivate removes a representative from the bookable roster without
// touching their historical appointments.
func (r *RepresentativeRepository) Deactivate(ctx context.Context, id string) error {
	const query = `UPDATE representatives SET active = FALSE, updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("deactivate representative: %w", err)
	}
	return nil
}
