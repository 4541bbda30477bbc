package engine

import (
	"math"
	"sort"
	"time"

	"github.com/fieldops/booking-api/internal/models"
)

// Policy pins the tunable parts of the availability computation. The
// canonical policy is a 60-mile radius with prior-or-next anchor
// resolution; PriorOnlyAnchor reinstates the stricter historical rule.
type Policy struct {
	RadiusMiles     float64
	PriorOnlyAnchor bool
}

// DefaultPolicy is the production policy.
var DefaultPolicy = Policy{RadiusMiles: 60}

// LegacyPolicy is the historical 45-mile, prior-anchor-only variant.
var LegacyPolicy = Policy{RadiusMiles: 45, PriorOnlyAnchor: true}

// PolicyFor composes a policy from configuration. priorOnly selects the
// legacy baseline, and an explicit radius overrides either baseline's
// default, so the two knobs combine instead of one clobbering the other.
func PolicyFor(radiusMiles float64, priorOnly bool) Policy {
	p := DefaultPolicy
	if priorOnly {
		p = LegacyPolicy
	}
	if radiusMiles > 0 {
		p.RadiusMiles = radiusMiles
	}
	return p
}

// EvaluateSlot scans the roster for one (date, slot) cell and ranks every
// representative who is schedulable, unbooked, and within the drive radius
// of their resolved anchor. Pure over its arguments: it reads a single
// appointment snapshot and touches no shared state, so cells can be
// evaluated concurrently.
func EvaluateSlot(customer models.GeoPoint, date time.Time, slot models.TimeSlot, reps []models.Representative, appts []models.Appointment, p Policy) models.SlotFeasibility {
	result := models.SlotFeasibility{Date: date, TimeSlot: slot}
	day := models.DayOfWeekOf(date)

	for _, rep := range reps {
		if !rep.WeeklyTemplate.Allows(day, slot) {
			continue
		}
		if hasConflict(rep.ID, date, slot, appts) {
			continue
		}

		anchor := ResolveAnchor(rep, date, slot, appts, p)
		if !anchor.Location.Valid() {
			continue
		}

		dist := DistanceMiles(anchor.Location, customer)
		if math.IsNaN(dist) || dist > p.RadiusMiles {
			continue
		}

		result.RankedReps = append(result.RankedReps, models.RankedRep{
			RepID:         rep.ID,
			RepName:       rep.FullName,
			DistanceMiles: dist,
			Anchor:        anchor,
		})
	}

	// Stable sort keeps equidistant reps in roster order across repeated
	// evaluations.
	sort.SliceStable(result.RankedReps, func(i, j int) bool {
		return result.RankedReps[i].DistanceMiles < result.RankedReps[j].DistanceMiles
	})

	result.Status = models.SlotStatusFor(len(result.RankedReps))
	return result
}

// hasConflict reports whether the rep already holds a Scheduled appointment
// at exactly (date, slot).
func hasConflict(repID string, date time.Time, slot models.TimeSlot, appts []models.Appointment) bool {
	for _, a := range appts {
		if a.Status != models.StatusScheduled || a.RepID == nil || *a.RepID != repID {
			continue
		}
		if a.TimeSlot == slot && models.SameDate(date, a.Date) {
			return true
		}
	}
	return false
}
