package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/fieldops/booking-api/internal/engine"
	"github.com/fieldops/booking-api/internal/models"
	"github.com/fieldops/booking-api/internal/repository"
	appErrors "github.com/fieldops/booking-api/pkg/errors"
)

type appointmentWriter interface {
	CreateScheduled(ctx context.Context, appt *models.Appointment) error
}

// BookAppointmentRequest is a slot selection plus customer details.
type BookAppointmentRequest struct {
	Date          string  `json:"date" validate:"required"`
	TimeSlot      string  `json:"time_slot" validate:"required"`
	CustomerName  string  `json:"customer_name" validate:"required"`
	CustomerPhone string  `json:"customer_phone" validate:"omitempty,max=32"`
	Street        string  `json:"street" validate:"required"`
	City          string  `json:"city" validate:"required"`
	State         string  `json:"state" validate:"required,len=2"`
	Zip           string  `json:"zip" validate:"required,len=5,numeric"`
	Lat           float64 `json:"lat" validate:"required"`
	Lng           float64 `json:"lng" validate:"required"`
}

// BookingService turns a feasible slot into a Scheduled appointment. The
// feasibility a customer saw in the grid may be stale, so booking
// re-evaluates against a fresh snapshot, then leans on the store's
// conditional create as the final arbiter under concurrency.
type BookingService struct {
	availability *AvailabilityService
	gate         *ServiceAreaService
	appointments appointmentWriter
	metrics      *MetricsService
	validator    *validator.Validate
	logger       *zap.Logger
}

// NewBookingService instantiates BookingService.
func NewBookingService(availability *AvailabilityService, gate *ServiceAreaService, appointments appointmentWriter, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *BookingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BookingService{
		availability: availability,
		gate:         gate,
		appointments: appointments,
		metrics:      metrics,
		validator:    validate,
		logger:       logger,
	}
}

// Book validates the request, re-checks feasibility, assigns the closest
// representative, and persists the appointment.
func (s *BookingService) Book(ctx context.Context, req BookAppointmentRequest) (*models.Appointment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid booking payload")
	}

	slot := models.TimeSlot(req.TimeSlot)
	if !slot.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "time_slot must be one of 10am, 2pm, 7pm")
	}

	location := models.GeoPoint{Lat: req.Lat, Lng: req.Lng}
	if !location.Valid() {
		return nil, appErrors.ErrInvalidLocation
	}

	date, err := ParseStartDate(req.Date)
	if err != nil {
		return nil, err
	}

	gateResult, err := s.gate.CheckServiceable(ctx, req.Zip)
	if err != nil {
		return nil, err
	}
	if !gateResult.Serviceable {
		return nil, NotServiceableError(gateResult)
	}

	feasibility, err := s.availability.EvaluateSlot(ctx, location, date, slot)
	if err != nil {
		return nil, err
	}

	assignee, err := engine.PickAssignee(*feasibility)
	if err != nil {
		if errors.Is(err, engine.ErrNoCapacity) {
			s.metrics.RecordBooking("no_capacity")
			return nil, appErrors.ErrNoCapacity
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to assign representative")
	}

	repID := assignee.RepID
	appt := models.Appointment{
		RepID:         &repID,
		Date:          date,
		TimeSlot:      slot,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		CustomerAddress: models.Address{
			Street:   req.Street,
			City:     req.City,
			State:    req.State,
			Zip:      req.Zip,
			Location: location,
		},
	}

	if err := s.appointments.CreateScheduled(ctx, &appt); err != nil {
		if errors.Is(err, repository.ErrDuplicateBooking) {
			s.metrics.RecordBooking("conflict")
			return nil, appErrors.ErrBookingConflict
		}
		s.metrics.RecordBooking("error")
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create appointment")
	}

	s.metrics.RecordBooking("booked")
	s.availability.InvalidateGrids(ctx)
	s.logger.Info("appointment booked",
		zap.String("appointment_id", appt.ID),
		zap.String("rep_id", repID),
		zap.String("date", req.Date),
		zap.String("time_slot", string(slot)),
		zap.Float64("distance_miles", assignee.DistanceMiles),
	)

	return &appt, nil
}
