package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/fieldops/booking-api/internal/models"
	appErrors "github.com/fieldops/booking-api/pkg/errors"
)

type appointmentRepository interface {
	List(ctx context.Context, filter models.AppointmentFilter) ([]models.Appointment, int, error)
	FindByID(ctx context.Context, id string) (*models.Appointment, error)
	UpdateStatus(ctx context.Context, id string, status models.AppointmentStatus) error
}

// UpdateAppointmentStatusRequest transitions an appointment's lifecycle.
type UpdateAppointmentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=completed cancelled"`
}

// AppointmentService manages appointment lifecycle after booking.
// Scheduled appointments may complete or cancel; both end states are
// terminal.
type AppointmentService struct {
	repo         appointmentRepository
	availability *AvailabilityService
	validator    *validator.Validate
	logger       *zap.Logger
}

// NewAppointmentService instantiates AppointmentService.
func NewAppointmentService(repo appointmentRepository, availability *AvailabilityService, validate *validator.Validate, logger *zap.Logger) *AppointmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AppointmentService{repo: repo, availability: availability, validator: validate, logger: logger}
}

// List returns appointments with pagination metadata.
func (s *AppointmentService) List(ctx context.Context, filter models.AppointmentFilter) ([]models.Appointment, *models.Pagination, error) {
	appts, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list appointments")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return appts, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get loads one appointment.
func (s *AppointmentService) Get(ctx context.Context, id string) (*models.Appointment, error) {
	appt, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load appointment")
	}
	return appt, nil
}

// UpdateStatus transitions Scheduled -> Completed|Cancelled. Terminal
// states reject further changes. Cancelling frees the rep's slot, so cached
// grids are flushed.
func (s *AppointmentService) UpdateStatus(ctx context.Context, id string, req UpdateAppointmentStatusRequest) (*models.Appointment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid status payload")
	}

	target := models.AppointmentStatus(req.Status)

	appt, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load appointment")
	}

	if appt.Status.Terminal() {
		return nil, appErrors.Clone(appErrors.ErrConflict, "appointment is already "+string(appt.Status))
	}

	if err := s.repo.UpdateStatus(ctx, id, target); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update appointment status")
	}
	appt.Status = target

	if s.availability != nil {
		s.availability.InvalidateGrids(ctx)
	}

	s.logger.Info("appointment status updated", zap.String("appointment_id", id), zap.String("status", req.Status))
	return appt, nil
}
