package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldops/booking-api/internal/models"
)

// Wednesday.
var testDate = time.Date(2024, 6, 12, 0, 0, 0, 0, time.Local)

func middayWednesday() models.WeeklyTemplate {
	return models.WeeklyTemplate{
		models.Wednesday: {models.SlotMorning, models.SlotMidday, models.SlotEvening},
	}
}

func TestEvaluateSlotSingleRepFromHome(t *testing.T) {
	customer := models.GeoPoint{Lat: 33.00, Lng: -84.00}
	alice := testRep("alice", 33.05, -84.05, middayWednesday())

	result := EvaluateSlot(customer, testDate, models.SlotMidday, []models.Representative{alice}, nil, DefaultPolicy)

	require.Len(t, result.RankedReps, 1)
	assert.Equal(t, "alice", result.RankedReps[0].RepID)
	assert.Equal(t, models.AnchorHome, result.RankedReps[0].Anchor.Source)
	assert.InDelta(t, 4.6, result.RankedReps[0].DistanceMiles, 0.2)
	assert.Equal(t, models.SlotLimited, result.Status)
}

func TestEvaluateSlotRadiusGate(t *testing.T) {
	customer := models.GeoPoint{Lat: 33.00, Lng: -84.00}
	alice := testRep("alice", 33.05, -84.05, middayWednesday())
	bob := testRep("bob", 34.013, -84.00, middayWednesday()) // ~70 miles out

	reps := []models.Representative{alice, bob}

	at60 := EvaluateSlot(customer, testDate, models.SlotMidday, reps, nil, Policy{RadiusMiles: 60})
	require.Len(t, at60.RankedReps, 1)
	assert.Equal(t, "alice", at60.RankedReps[0].RepID)

	at75 := EvaluateSlot(customer, testDate, models.SlotMidday, reps, nil, Policy{RadiusMiles: 75})
	require.Len(t, at75.RankedReps, 2)
	assert.Equal(t, "alice", at75.RankedReps[0].RepID)
	assert.Equal(t, "bob", at75.RankedReps[1].RepID)
}

func TestEvaluateSlotRadiusMonotonicity(t *testing.T) {
	customer := models.GeoPoint{Lat: 33.00, Lng: -84.00}
	reps := []models.Representative{
		testRep("a", 33.05, -84.05, middayWednesday()),
		testRep("b", 33.40, -84.40, middayWednesday()),
		testRep("c", 34.013, -84.00, middayWednesday()),
	}

	prev := 0
	for _, radius := range []float64{5, 20, 45, 60, 75, 200} {
		result := EvaluateSlot(customer, testDate, models.SlotMidday, reps, nil, Policy{RadiusMiles: radius})
		assert.GreaterOrEqual(t, len(result.RankedReps), prev, "radius %v", radius)
		prev = len(result.RankedReps)
	}
}

func TestEvaluateSlotTemplateCheck(t *testing.T) {
	customer := models.GeoPoint{Lat: 33.00, Lng: -84.00}
	mondayOnly := testRep("m", 33.05, -84.05, models.WeeklyTemplate{
		models.Monday: {models.SlotMidday},
	})
	noTemplate := testRep("n", 33.05, -84.05, nil)

	result := EvaluateSlot(customer, testDate, models.SlotMidday, []models.Representative{mondayOnly, noTemplate}, nil, DefaultPolicy)

	assert.Empty(t, result.RankedReps)
	assert.Equal(t, models.SlotNone, result.Status)
}

func TestEvaluateSlotConflictExclusion(t *testing.T) {
	customer := models.GeoPoint{Lat: 33.00, Lng: -84.00}
	alice := testRep("alice", 33.05, -84.05, middayWednesday())
	appts := []models.Appointment{
		scheduledAppt("alice", testDate, models.SlotMidday, 33.00, -84.00),
	}

	result := EvaluateSlot(customer, testDate, models.SlotMidday, []models.Representative{alice}, appts, DefaultPolicy)
	assert.Empty(t, result.RankedReps)

	// A booking at a different slot does not conflict; it becomes the anchor.
	other := EvaluateSlot(customer, testDate, models.SlotEvening, []models.Representative{alice}, appts, DefaultPolicy)
	require.Len(t, other.RankedReps, 1)
	assert.Equal(t, models.AnchorPrior, other.RankedReps[0].Anchor.Source)
}

// Appointment dates may carry different zone representations of the same
// calendar day: request parsing produces local midnight while scanned date
// columns arrive as UTC midnight. Conflict exclusion and anchoring must agree
// on the day either way.
func TestEvaluateSlotCrossZoneDates(t *testing.T) {
	customer := models.GeoPoint{Lat: 33.00, Lng: -84.00}
	alice := testRep("alice", 33.05, -84.05, middayWednesday())

	evalDate := time.Date(2024, 6, 12, 0, 0, 0, 0, time.FixedZone("west", -5*3600))
	utcDate := time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC)
	appts := []models.Appointment{
		scheduledAppt("alice", utcDate, models.SlotMidday, 33.00, -84.00),
	}

	booked := EvaluateSlot(customer, evalDate, models.SlotMidday, []models.Representative{alice}, appts, DefaultPolicy)
	assert.Empty(t, booked.RankedReps, "same-day booking must conflict across zone representations")

	evening := EvaluateSlot(customer, evalDate, models.SlotEvening, []models.Representative{alice}, appts, DefaultPolicy)
	require.Len(t, evening.RankedReps, 1)
	assert.Equal(t, models.AnchorPrior, evening.RankedReps[0].Anchor.Source)
}

func TestEvaluateSlotPriorAppointmentAnchor(t *testing.T) {
	// Carol's morning appointment at X pulls her midday anchor to X, not home.
	carol := testRep("carol", 34.50, -85.50, middayWednesday())
	x := models.GeoPoint{Lat: 33.01, Lng: -84.01}
	date := time.Date(2024, 6, 12, 0, 0, 0, 0, time.Local)
	appts := []models.Appointment{
		scheduledAppt("carol", date, models.SlotMorning, x.Lat, x.Lng),
	}
	customer := models.GeoPoint{Lat: 33.00, Lng: -84.00}

	result := EvaluateSlot(customer, date, models.SlotMidday, []models.Representative{carol}, appts, DefaultPolicy)

	require.Len(t, result.RankedReps, 1)
	assert.Equal(t, models.AnchorPrior, result.RankedReps[0].Anchor.Source)
	assert.Equal(t, x, result.RankedReps[0].Anchor.Location)
}

func TestPolicyFor(t *testing.T) {
	assert.Equal(t, DefaultPolicy, PolicyFor(0, false))
	assert.Equal(t, LegacyPolicy, PolicyFor(0, true))
	assert.Equal(t, Policy{RadiusMiles: 80}, PolicyFor(80, false))
	// An explicit radius composes with the legacy anchor rule rather than
	// being discarded by it.
	assert.Equal(t, Policy{RadiusMiles: 80, PriorOnlyAnchor: true}, PolicyFor(80, true))
}

func TestEvaluateSlotStatusThresholds(t *testing.T) {
	customer := models.GeoPoint{Lat: 33.00, Lng: -84.00}
	expected := map[int]models.SlotStatus{
		0: models.SlotNone,
		1: models.SlotLimited,
		2: models.SlotLimited,
		3: models.SlotGood,
		5: models.SlotGood,
	}

	for count, want := range expected {
		reps := make([]models.Representative, count)
		for i := range reps {
			reps[i] = testRep(string(rune('a'+i)), 33.05, -84.05, middayWednesday())
		}
		result := EvaluateSlot(customer, testDate, models.SlotMidday, reps, nil, DefaultPolicy)
		assert.Equal(t, want, result.Status, "count %d", count)
	}
}

func TestEvaluateSlotRankingStability(t *testing.T) {
	customer := models.GeoPoint{Lat: 33.00, Lng: -84.00}
	// Equidistant reps keep roster order.
	reps := []models.Representative{
		testRep("first", 33.05, -84.05, middayWednesday()),
		testRep("second", 33.05, -84.05, middayWednesday()),
		testRep("third", 33.05, -84.05, middayWednesday()),
	}

	for i := 0; i < 10; i++ {
		result := EvaluateSlot(customer, testDate, models.SlotMidday, reps, nil, DefaultPolicy)
		require.Len(t, result.RankedReps, 3)
		assert.Equal(t, "first", result.RankedReps[0].RepID)
		assert.Equal(t, "second", result.RankedReps[1].RepID)
		assert.Equal(t, "third", result.RankedReps[2].RepID)
	}
}

func TestPickAssignee(t *testing.T) {
	_, err := PickAssignee(models.SlotFeasibility{})
	assert.ErrorIs(t, err, ErrNoCapacity)

	f := models.SlotFeasibility{RankedReps: []models.RankedRep{
		{RepID: "closest", DistanceMiles: 2},
		{RepID: "farther", DistanceMiles: 9},
	}}
	rep, err := PickAssignee(f)
	require.NoError(t, err)
	assert.Equal(t, "closest", rep.RepID)
}
