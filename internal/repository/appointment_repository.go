package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/fieldops/booking-api/internal/models"
)

// ErrDuplicateBooking is returned by CreateScheduled when a Scheduled
// appointment already exists for the same address, date and slot.
var ErrDuplicateBooking = errors.New("a scheduled appointment already exists for this address and slot")

const apptColumns = "id, rep_id, date, time_slot, customer_name, customer_phone, street, city, state, zip, lat, lng, status, created_at, updated_at"

// AppointmentRepository provides persistence for appointments.
type AppointmentRepository struct {
	db *sqlx.DB
}

// NewAppointmentRepository creates a new appointment repository.
func NewAppointmentRepository(db *sqlx.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

type appointmentRow struct {
	ID            string    `db:"id"`
	RepID         *string   `db:"rep_id"`
	Date          time.Time `db:"date"`
	TimeSlot      string    `db:"time_slot"`
	CustomerName  string    `db:"customer_name"`
	CustomerPhone string    `db:"customer_phone"`
	Street        string    `db:"street"`
	City          string    `db:"city"`
	State         string    `db:"state"`
	Zip           string    `db:"zip"`
	Lat           float64   `db:"lat"`
	Lng           float64   `db:"lng"`
	Status        string    `db:"status"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

// dateValue renders a date-valued timestamp as a plain date literal. Sending
// a time.Time into a date column lets the session timezone pick the calendar
// day; the literal pins it.
func dateValue(t time.Time) string {
	return t.Format("2006-01-02")
}

// localMidnight rebuilds a scanned date column at local midnight. lib/pq
// scans date columns as UTC midnight, which names the previous calendar day
// in any zone west of UTC.
func localMidnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func (r appointmentRow) toModel() models.Appointment {
	return models.Appointment{
		ID:            r.ID,
		RepID:         r.RepID,
		Date:          localMidnight(r.Date),
		TimeSlot:      models.TimeSlot(r.TimeSlot),
		CustomerName:  r.CustomerName,
		CustomerPhone: r.CustomerPhone,
		CustomerAddress: models.Address{
			Street:   r.Street,
			City:     r.City,
			State:    r.State,
			Zip:      r.Zip,
			Location: models.GeoPoint{Lat: r.Lat, Lng: r.Lng},
		},
		Status:    models.AppointmentStatus(r.Status),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// List returns appointments with optional filtering and pagination.
func (r *AppointmentRepository) List(ctx context.Context, filter models.AppointmentFilter) ([]models.Appointment, int, error) {
	base := "FROM appointments WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.RepID != "" {
		conditions = append(conditions, fmt.Sprintf("rep_id = $%d", len(args)+1))
		args = append(args, filter.RepID)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, string(filter.Status))
	}
	if !filter.DateFrom.IsZero() {
		conditions = append(conditions, fmt.Sprintf("date >= $%d", len(args)+1))
		args = append(args, dateValue(filter.DateFrom))
	}
	if !filter.DateTo.IsZero() {
		conditions = append(conditions, fmt.Sprintf("date <= $%d", len(args)+1))
		args = append(args, dateValue(filter.DateTo))
	}
	if filter.Zip != "" {
		conditions = append(conditions, fmt.Sprintf("zip = $%d", len(args)+1))
		args = append(args, filter.Zip)
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

	query := fmt.Sprintf("SELECT %s %s ORDER BY date ASC, time_slot ASC LIMIT %d OFFSET %d", apptColumns, base, size, offset)
	var rows []appointmentRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list appointments: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count appointments: %w", err)
	}

	appts := make([]models.Appointment, 0, len(rows))
	for _, row := range rows {
		appts = append(appts, row.toModel())
	}
	return appts, total, nil
}

// FindByID loads an appointment by id.
func (r *AppointmentRepository) FindByID(ctx context.Context, id string) (*models.Appointment, error) {
	query := fmt.Sprintf("SELECT %s FROM appointments WHERE id = $1", apptColumns)
	var row appointmentRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, err
	}
	appt := row.toModel()
	return &appt, nil
}

// ListScheduledBetween loads the Scheduled appointments in [from, to] as a
// single snapshot for one grid computation.
func (r *AppointmentRepository) ListScheduledBetween(ctx context.Context, from, to time.Time) ([]models.Appointment, error) {
	query := fmt.Sprintf("SELECT %s FROM appointments WHERE status = 'scheduled' AND date >= $1 AND date <= $2 ORDER BY date ASC, time_slot ASC", apptColumns)
	var rows []appointmentRow
	if err := r.db.SelectContext(ctx, &rows, query, dateValue(from), dateValue(to)); err != nil {
		return nil, fmt.Errorf("list scheduled appointments: %w", err)
	}

	appts := make([]models.Appointment, 0, len(rows))
	for _, row := range rows {
		appts = append(appts, row.toModel())
	}
	return appts, nil
}

// CreateScheduled inserts a new Scheduled appointment conditionally: the
// insert is rejected when a Scheduled appointment already exists for the
// same (street, city, state, zip, date, time slot). The condition and the
// insert execute as one statement so concurrent bookings serialize at the
// store rather than racing a separate check.
func (r *AppointmentRepository) CreateScheduled(ctx context.Context, appt *models.Appointment) error {
	if appt.ID == "" {
		appt.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	appt.CreatedAt = now
	appt.UpdatedAt = now
	appt.Status = models.StatusScheduled

	const query = `INSERT INTO appointments (id, rep_id, date, time_slot, customer_name, customer_phone, street, city, state, zip, lat, lng, status, created_at, updated_at)
		SELECT $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15
		WHERE NOT EXISTS (
			SELECT 1 FROM appointments
			WHERE street = $7 AND city = $8 AND state = $9 AND zip = $10
			  AND date = $3 AND time_slot = $4 AND status = 'scheduled'
		)`

	result, err := r.db.ExecContext(ctx, query,
		appt.ID, appt.RepID, dateValue(appt.Date), string(appt.TimeSlot),
		appt.CustomerName, appt.CustomerPhone,
		appt.CustomerAddress.Street, appt.CustomerAddress.City, appt.CustomerAddress.State, appt.CustomerAddress.Zip,
		appt.CustomerAddress.Location.Lat, appt.CustomerAddress.Location.Lng,
		string(models.StatusScheduled), appt.CreatedAt, appt.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create appointment: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("create appointment rows affected: %w", err)
	}
	if affected == 0 {
		return ErrDuplicateBooking
	}
	return nil
}

// UpdateStatus transitions an appointment's lifecycle state.
func (r *AppointmentRepository) UpdateStatus(ctx context.Context, id string, status models.AppointmentStatus) error {
	const query = `UPDATE appointments SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, string(status), time.Now().UTC()); err != nil {
		return fmt.Errorf("update appointment status: %w", err)
	}
	return nil
}
