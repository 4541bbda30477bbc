package models

import "time"

// AnchorSource records where a representative would be traveling from.
type AnchorSource string

const (
	AnchorHome  AnchorSource = "home"
	AnchorPrior AnchorSource = "prior_appointment"
	AnchorNext  AnchorSource = "next_appointment"
)

// AnchorPoint is the derived travel origin for one (rep, date, slot)
// evaluation. Never persisted or cached: the appointment set can change
// between calls.
type AnchorPoint struct {
	Location GeoPoint     `json:"location"`
	Source   AnchorSource `json:"source"`
}

// RankedRep is one feasible representative for a slot, with the distance
// from their resolved anchor to the customer.
type RankedRep struct {
	RepID         string      `json:"rep_id"`
	RepName       string      `json:"rep_name,omitempty"`
	DistanceMiles float64     `json:"distance_miles"`
	Anchor        AnchorPoint `json:"anchor"`
}

// SlotStatus summarises a slot's capacity for the booking UI.
type SlotStatus string

const (
	SlotGood    SlotStatus = "good"
	SlotLimited SlotStatus = "limited"
	SlotNone    SlotStatus = "none"
)

// SlotStatusFor derives the status from the feasible-rep count.
func SlotStatusFor(count int) SlotStatus {
	switch {
	case count >= 3:
		return SlotGood
	case count >= 1:
		return SlotLimited
	default:
		return SlotNone
	}
}

// SlotFeasibility is the evaluation result for one (date, slot) cell.
type SlotFeasibility struct {
	Date       time.Time   `json:"date"`
	TimeSlot   TimeSlot    `json:"time_slot"`
	RankedReps []RankedRep `json:"ranked_reps"`
	Status     SlotStatus  `json:"status"`
}

// GridDay is one calendar day of the availability grid, slots in display
// order.
type GridDay struct {
	Date  time.Time         `json:"date"`
	Day   DayOfWeek         `json:"day_of_week"`
	Slots []SlotFeasibility `json:"slots"`
}

// AvailabilityGrid is the dense days x slots matrix the booking UI renders.
type AvailabilityGrid struct {
	StartDate time.Time `json:"start_date"`
	Days      []GridDay `json:"days"`
}
