package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fieldops/booking-api/internal/models"
)

func strPtr(s string) *string { return &s }

func testRep(id string, lat, lng float64, template models.WeeklyTemplate) models.Representative {
	return models.Representative{
		ID:       id,
		FullName: "Rep " + id,
		HomeAddress: models.Address{
			Street:   "1 Depot Rd",
			City:     "Atlanta",
			State:    "GA",
			Zip:      "30301",
			Location: models.GeoPoint{Lat: lat, Lng: lng},
		},
		WeeklyTemplate: template,
		Active:         true,
	}
}

func scheduledAppt(repID string, date time.Time, slot models.TimeSlot, lat, lng float64) models.Appointment {
	return models.Appointment{
		ID:       "appt-" + repID + "-" + string(slot),
		RepID:    strPtr(repID),
		Date:     date,
		TimeSlot: slot,
		CustomerAddress: models.Address{
			Street:   "10 Customer Ln",
			City:     "Atlanta",
			State:    "GA",
			Zip:      "30305",
			Location: models.GeoPoint{Lat: lat, Lng: lng},
		},
		Status: models.StatusScheduled,
	}
}

func TestResolveAnchorHomeWhenDayIsFree(t *testing.T) {
	rep := testRep("r1", 33.05, -84.05, nil)
	date := time.Date(2024, 6, 10, 0, 0, 0, 0, time.Local)

	anchor := ResolveAnchor(rep, date, models.SlotMidday, nil, DefaultPolicy)

	assert.Equal(t, models.AnchorHome, anchor.Source)
	assert.Equal(t, rep.HomeAddress.Location, anchor.Location)
}

func TestResolveAnchorPrefersImmediatelyPriorAppointment(t *testing.T) {
	rep := testRep("carol", 33.90, -84.90, nil)
	date := time.Date(2024, 6, 10, 0, 0, 0, 0, time.Local)
	appts := []models.Appointment{
		scheduledAppt("carol", date, models.SlotMorning, 33.01, -84.01),
		scheduledAppt("carol", date, models.SlotEvening, 33.70, -84.70),
	}

	anchor := ResolveAnchor(rep, date, models.SlotMidday, appts, DefaultPolicy)

	assert.Equal(t, models.AnchorPrior, anchor.Source)
	assert.Equal(t, models.GeoPoint{Lat: 33.01, Lng: -84.01}, anchor.Location)
}

func TestResolveAnchorFallsBackToNextAppointment(t *testing.T) {
	rep := testRep("r1", 33.90, -84.90, nil)
	date := time.Date(2024, 6, 12, 0, 0, 0, 0, time.Local)
	appts := []models.Appointment{
		scheduledAppt("r1", date, models.SlotMidday, 33.02, -84.02),
		scheduledAppt("r1", date, models.SlotEvening, 33.70, -84.70),
	}

	anchor := ResolveAnchor(rep, date, models.SlotMorning, appts, DefaultPolicy)

	assert.Equal(t, models.AnchorNext, anchor.Source)
	assert.Equal(t, models.GeoPoint{Lat: 33.02, Lng: -84.02}, anchor.Location)
}

func TestResolveAnchorLegacyPolicyIgnoresNextAppointment(t *testing.T) {
	rep := testRep("r1", 33.90, -84.90, nil)
	date := time.Date(2024, 6, 12, 0, 0, 0, 0, time.Local)
	appts := []models.Appointment{
		scheduledAppt("r1", date, models.SlotEvening, 33.70, -84.70),
	}

	anchor := ResolveAnchor(rep, date, models.SlotMorning, appts, LegacyPolicy)

	assert.Equal(t, models.AnchorHome, anchor.Source)
}

func TestResolveAnchorIgnoresOtherDaysRepsAndInertStatuses(t *testing.T) {
	rep := testRep("r1", 33.90, -84.90, nil)
	date := time.Date(2024, 6, 12, 0, 0, 0, 0, time.Local)

	cancelled := scheduledAppt("r1", date, models.SlotMorning, 33.01, -84.01)
	cancelled.Status = models.StatusCancelled
	otherDay := scheduledAppt("r1", date.AddDate(0, 0, 1), models.SlotMorning, 33.02, -84.02)
	otherRep := scheduledAppt("r2", date, models.SlotMorning, 33.03, -84.03)

	anchor := ResolveAnchor(rep, date, models.SlotMidday, []models.Appointment{cancelled, otherDay, otherRep}, DefaultPolicy)

	assert.Equal(t, models.AnchorHome, anchor.Source)
}
