package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fieldops/booking-api/internal/models"
	"github.com/fieldops/booking-api/internal/repository"
	appErrors "github.com/fieldops/booking-api/pkg/errors"
)

func newBookingService(roster *mockRosterRepo, store *mockAppointmentStore, gate *ServiceAreaService) *BookingService {
	availability := newAvailabilityService(roster, store, gate)
	return NewBookingService(availability, gate, store, nil, nil, zap.NewNop())
}

func bookingRequest() BookAppointmentRequest {
	return BookAppointmentRequest{
		Date:         "2024-06-12",
		TimeSlot:     "2pm",
		CustomerName: "Pat Doe",
		Street:       "5 Oak St",
		City:         "Atlanta",
		State:        "GA",
		Zip:          "30305",
		Lat:          33.00,
		Lng:          -84.00,
	}
}

func TestBookingServiceAssignsClosestRep(t *testing.T) {
	roster := &mockRosterRepo{reps: []models.Representative{
		wednesdayRep("far", 33.40, -84.40),
		wednesdayRep("near", 33.05, -84.05),
	}}
	store := &mockAppointmentStore{}
	svc := newBookingService(roster, store, serviceableGate("30305"))

	appt, err := svc.Book(context.Background(), bookingRequest())
	require.NoError(t, err)
	require.NotNil(t, appt.RepID)
	assert.Equal(t, "near", *appt.RepID)
	assert.Equal(t, models.StatusScheduled, appt.Status)
	assert.Equal(t, models.SlotMidday, appt.TimeSlot)
	require.Len(t, store.created, 1)
}

func TestBookingServiceNoCapacity(t *testing.T) {
	// The rep's only midday is already booked; the grid a customer saw may
	// predate that booking.
	date := time.Date(2024, 6, 12, 0, 0, 0, 0, time.Local)
	repID := "r1"
	roster := &mockRosterRepo{reps: []models.Representative{wednesdayRep("r1", 33.05, -84.05)}}
	store := &mockAppointmentStore{appts: []models.Appointment{{
		ID: "a1", RepID: &repID, Date: date, TimeSlot: models.SlotMidday,
		CustomerAddress: models.Address{Location: models.GeoPoint{Lat: 33.2, Lng: -84.2}},
		Status:          models.StatusScheduled,
	}}}
	svc := newBookingService(roster, store, serviceableGate("30305"))

	_, err := svc.Book(context.Background(), bookingRequest())
	assert.ErrorIs(t, err, appErrors.ErrNoCapacity)
	assert.Empty(t, store.created)
}

func TestBookingServiceStoreConflict(t *testing.T) {
	roster := &mockRosterRepo{reps: []models.Representative{wednesdayRep("r1", 33.05, -84.05)}}
	store := &mockAppointmentStore{createErr: repository.ErrDuplicateBooking}
	svc := newBookingService(roster, store, serviceableGate("30305"))

	_, err := svc.Book(context.Background(), bookingRequest())
	assert.ErrorIs(t, err, appErrors.ErrBookingConflict)
}

func TestBookingServiceRejectsInvalidPayload(t *testing.T) {
	svc := newBookingService(&mockRosterRepo{}, &mockAppointmentStore{}, serviceableGate("30305"))

	req := bookingRequest()
	req.TimeSlot = "noon"
	_, err := svc.Book(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	req = bookingRequest()
	req.Lat = 91
	_, err = svc.Book(context.Background(), req)
	assert.ErrorIs(t, err, appErrors.ErrInvalidLocation)

	req = bookingRequest()
	req.CustomerName = ""
	_, err = svc.Book(context.Background(), req)
	require.Error(t, err)
}

func TestBookingServiceGatesZip(t *testing.T) {
	roster := &mockRosterRepo{reps: []models.Representative{wednesdayRep("r1", 33.05, -84.05)}}
	store := &mockAppointmentStore{}
	svc := newBookingService(roster, store, serviceableGate("11111"))

	_, err := svc.Book(context.Background(), bookingRequest())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotServiceable.Code, appErrors.FromError(err).Code)
	assert.Empty(t, store.created)
}
