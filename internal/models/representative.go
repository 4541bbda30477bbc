package models

import "time"

// Representative is a traveling sales rep with a home base and a weekly
// recurring availability template. The engine treats the record as
// read-only input for the duration of one computation.
type Representative struct {
	ID             string         `json:"id"`
	FullName       string         `json:"full_name"`
	HomeAddress    Address        `json:"home_address"`
	WeeklyTemplate WeeklyTemplate `json:"weekly_template,omitempty"`
	Active         bool           `json:"active"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// RepresentativeFilter captures listing options for the roster.
type RepresentativeFilter struct {
	Search   string
	Active   *bool
	Page     int
	PageSize int
}
