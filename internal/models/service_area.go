package models

import "time"

// ServiceArea is one row of the serviceable-zip registry.
type ServiceArea struct {
	Zip       string    `db:"zip" json:"zip"`
	Excluded  bool      `db:"excluded" json:"excluded"`
	Notes     *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ServiceabilityResult is the gate decision for one zip. Excluded
// distinguishes deliberately skipped territory from zips the registry has
// never seen; callers surface the two differently.
type ServiceabilityResult struct {
	Zip         string `json:"zip"`
	Serviceable bool   `json:"serviceable"`
	Excluded    bool   `json:"excluded"`
	Notes       string `json:"notes,omitempty"`
}
