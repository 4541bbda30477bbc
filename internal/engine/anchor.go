package engine

import (
	"time"

	"github.com/fieldops/booking-api/internal/models"
)

// ResolveAnchor determines the point a representative would travel from for
// an appointment at (date, slot). With no other booking that day the anchor
// is their home base. Otherwise the appointment immediately preceding the
// target wins; failing that, the one immediately following. The next-slot
// fallback keeps a rep who is already committed to be in the area from
// being excluded for their first slot of the day. This is a routing
// heuristic, not a minimal-travel guarantee.
func ResolveAnchor(rep models.Representative, date time.Time, slot models.TimeSlot, appts []models.Appointment, p Policy) models.AnchorPoint {
	home := models.AnchorPoint{Location: rep.HomeAddress.Location, Source: models.AnchorHome}

	var prior, next *models.Appointment
	for i := range appts {
		a := appts[i]
		if a.Status != models.StatusScheduled || a.RepID == nil || *a.RepID != rep.ID {
			continue
		}
		if !models.SameDate(date, a.Date) {
			continue
		}
		switch {
		case a.TimeSlot.Before(slot):
			// Latest among the earlier slots.
			if prior == nil || prior.TimeSlot.Before(a.TimeSlot) {
				prior = &appts[i]
			}
		case slot.Before(a.TimeSlot):
			// Earliest among the later slots.
			if next == nil || a.TimeSlot.Before(next.TimeSlot) {
				next = &appts[i]
			}
		}
	}

	if prior != nil {
		return models.AnchorPoint{Location: prior.CustomerAddress.Location, Source: models.AnchorPrior}
	}
	if next != nil && !p.PriorOnlyAnchor {
		return models.AnchorPoint{Location: next.CustomerAddress.Location, Source: models.AnchorNext}
	}
	return home
}
