package engine

import (
	"errors"
	"sync"
	"time"

	"github.com/fieldops/booking-api/internal/models"
)

// DefaultGridDays is the booking window length.
const DefaultGridDays = 5

var (
	// ErrInvalidCustomerPoint rejects malformed or zero coordinates before
	// any computation.
	ErrInvalidCustomerPoint = errors.New("customer location is invalid or unresolved")
	// ErrUnnormalizedStart rejects a start date carrying a time-of-day
	// component, which would shift cells across DST boundaries.
	ErrUnnormalizedStart = errors.New("start date must be normalized to midnight")
)

// Midnight truncates a timestamp to local midnight in its own location.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// BuildGrid evaluates every (day, slot) cell over numDays consecutive days
// against one fixed snapshot of representatives and appointments. Days are
// evaluated concurrently; the snapshot is read-only so no cell depends on
// another cell's outcome.
func BuildGrid(customer models.GeoPoint, start time.Time, reps []models.Representative, appts []models.Appointment, numDays int, p Policy) (models.AvailabilityGrid, error) {
	if !customer.Valid() {
		return models.AvailabilityGrid{}, ErrInvalidCustomerPoint
	}
	if !start.Equal(Midnight(start)) {
		return models.AvailabilityGrid{}, ErrUnnormalizedStart
	}
	if numDays <= 0 {
		numDays = DefaultGridDays
	}

	grid := models.AvailabilityGrid{
		StartDate: start,
		Days:      make([]models.GridDay, numDays),
	}

	var wg sync.WaitGroup
	for offset := 0; offset < numDays; offset++ {
		wg.Add(1)
		go func(offset int) {
			defer wg.Done()
			date := start.AddDate(0, 0, offset)
			day := models.GridDay{
				Date:  date,
				Day:   models.DayOfWeekOf(date),
				Slots: make([]models.SlotFeasibility, 0, len(models.AllTimeSlots)),
			}
			for _, slot := range models.AllTimeSlots {
				day.Slots = append(day.Slots, EvaluateSlot(customer, date, slot, reps, appts, p))
			}
			grid.Days[offset] = day
		}(offset)
	}
	wg.Wait()

	return grid, nil
}
