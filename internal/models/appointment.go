package models

import "time"

// AppointmentStatus is the appointment lifecycle state.
type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// Valid reports whether the value is a known status.
func (s AppointmentStatus) Valid() bool {
	return s == StatusScheduled || s == StatusCompleted || s == StatusCancelled
}

// Terminal reports whether the status permits no further transitions.
func (s AppointmentStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Appointment is a booked visit. Only Scheduled appointments participate in
// conflict and anchor computation; Completed and Cancelled rows are inert.
type Appointment struct {
	ID              string            `json:"id"`
	RepID           *string           `json:"rep_id,omitempty"`
	Date            time.Time         `json:"date"`
	TimeSlot        TimeSlot          `json:"time_slot"`
	CustomerName    string            `json:"customer_name"`
	CustomerPhone   string            `json:"customer_phone,omitempty"`
	CustomerAddress Address           `json:"customer_address"`
	Status          AppointmentStatus `json:"status"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// AppointmentFilter captures listing options for appointments.
type AppointmentFilter struct {
	RepID    string
	Status   AppointmentStatus
	DateFrom time.Time
	DateTo   time.Time
	Zip      string
	Page     int
	PageSize int
}

// SameDate reports whether two date-valued timestamps name the same calendar
// date. Each value is read in its own location: date fields are midnights in
// whatever zone produced them (request parsing uses local, drivers scan date
// columns as UTC), and converting one into the other's zone would shift the
// calendar day whenever the zones differ.
func SameDate(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
