package engine

import (
	"errors"

	"github.com/fieldops/booking-api/internal/models"
)

// ErrNoCapacity is returned when a slot has no feasible representative at
// booking time. Legitimate even after a grid was shown: a concurrent
// booking may have consumed the last rep between render and submit.
var ErrNoCapacity = errors.New("no representative available for the requested slot")

// PickAssignee selects the representative an accepted booking is assigned
// to: the closest feasible rep, i.e. the head of the ranked list.
func PickAssignee(f models.SlotFeasibility) (models.RankedRep, error) {
	if len(f.RankedReps) == 0 {
		return models.RankedRep{}, ErrNoCapacity
	}
	return f.RankedReps[0], nil
}
