package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/fieldops/booking-api/internal/engine"
	"github.com/fieldops/booking-api/internal/models"
	appErrors "github.com/fieldops/booking-api/pkg/errors"
)

const availabilityCachePrefix = "availability:"

type rosterRepository interface {
	ListActiveWithTemplates(ctx context.Context) ([]models.Representative, error)
}

type scheduledAppointmentReader interface {
	ListScheduledBetween(ctx context.Context, from, to time.Time) ([]models.Appointment, error)
}

// AvailabilityRequest asks for the booking grid around a resolved customer
// location.
type AvailabilityRequest struct {
	Location  models.GeoPoint `json:"customer_location" validate:"required"`
	Zip       string          `json:"zip" validate:"required,len=5,numeric"`
	StartDate string          `json:"start_date" validate:"required"`
	NumDays   int             `json:"num_days" validate:"omitempty,min=1,max=14"`
}

// AvailabilityService computes booking grids: gate the zip, take one
// snapshot of roster and Scheduled appointments, run the engine, and cache
// the result briefly on the read side. The snapshot is loaded once per
// computation and never re-fetched mid-grid.
type AvailabilityService struct {
	roster       rosterRepository
	appointments scheduledAppointmentReader
	gate         *ServiceAreaService
	cache        *CacheService
	cacheTTL     time.Duration
	policy       engine.Policy
	gridDays     int
	metrics      *MetricsService
	validator    *validator.Validate
	logger       *zap.Logger
}

// NewAvailabilityService instantiates AvailabilityService.
func NewAvailabilityService(
	roster rosterRepository,
	appointments scheduledAppointmentReader,
	gate *ServiceAreaService,
	cache *CacheService,
	cacheTTL time.Duration,
	policy engine.Policy,
	gridDays int,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
) *AvailabilityService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if gridDays <= 0 {
		gridDays = engine.DefaultGridDays
	}
	if policy.RadiusMiles <= 0 {
		policy = engine.DefaultPolicy
	}
	return &AvailabilityService{
		roster:       roster,
		appointments: appointments,
		gate:         gate,
		cache:        cache,
		cacheTTL:     cacheTTL,
		policy:       policy,
		gridDays:     gridDays,
		metrics:      metrics,
		validator:    validate,
		logger:       logger,
	}
}

// ParseStartDate parses a YYYY-MM-DD start date at local midnight. Dates
// with a time-of-day component are impossible to express in this format,
// which keeps day offsets stable across DST boundaries.
func ParseStartDate(raw string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		return time.Time{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "start_date must be YYYY-MM-DD")
	}
	return t, nil
}

func gridCacheKey(p models.GeoPoint, start time.Time, days int) string {
	return fmt.Sprintf("%s%.5f:%.5f:%s:%d", availabilityCachePrefix, p.Lat, p.Lng, start.Format("2006-01-02"), days)
}

// GetGrid returns the availability grid for the request window.
func (s *AvailabilityService) GetGrid(ctx context.Context, req AvailabilityRequest) (*models.AvailabilityGrid, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid availability request")
	}
	if !req.Location.Valid() {
		return nil, appErrors.ErrInvalidLocation
	}

	start, err := ParseStartDate(req.StartDate)
	if err != nil {
		return nil, err
	}

	days := req.NumDays
	if days <= 0 {
		days = s.gridDays
	}

	gateResult, err := s.gate.CheckServiceable(ctx, req.Zip)
	if err != nil {
		return nil, err
	}
	if !gateResult.Serviceable {
		return nil, NotServiceableError(gateResult)
	}

	key := gridCacheKey(req.Location, start, days)
	var cached models.AvailabilityGrid
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return &cached, nil
	}

	grid, err := s.computeGrid(ctx, req.Location, start, days)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, grid, s.cacheTTL); err != nil {
		s.logger.Warn("availability cache write failed", zap.String("key", key), zap.Error(err))
	}

	return grid, nil
}

func (s *AvailabilityService) computeGrid(ctx context.Context, customer models.GeoPoint, start time.Time, days int) (*models.AvailabilityGrid, error) {
	began := time.Now()

	reps, err := s.roster.ListActiveWithTemplates(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster")
	}

	appts, err := s.appointments.ListScheduledBetween(ctx, start, start.AddDate(0, 0, days-1))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load appointment snapshot")
	}

	grid, err := engine.BuildGrid(customer, start, reps, appts, days, s.policy)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}

	s.metrics.ObserveGridBuild(time.Since(began))
	s.logger.Debug("availability grid computed",
		zap.Int("days", days),
		zap.Int("reps", len(reps)),
		zap.Int("appointments", len(appts)),
		zap.Duration("elapsed", time.Since(began)),
	)

	return &grid, nil
}

// EvaluateSlot computes fresh feasibility for one (date, slot) cell against
// a just-loaded snapshot. The booking path uses it to re-check capacity
// immediately before writing; it never consults the grid cache.
func (s *AvailabilityService) EvaluateSlot(ctx context.Context, customer models.GeoPoint, date time.Time, slot models.TimeSlot) (*models.SlotFeasibility, error) {
	reps, err := s.roster.ListActiveWithTemplates(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster")
	}

	appts, err := s.appointments.ListScheduledBetween(ctx, date, date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load appointment snapshot")
	}

	feasibility := engine.EvaluateSlot(customer, date, slot, reps, appts, s.policy)
	return &feasibility, nil
}

// InvalidateGrids drops every cached grid. Called after any appointment
// write so stale availability never outlives a booking.
func (s *AvailabilityService) InvalidateGrids(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, availabilityCachePrefix+"*"); err != nil {
		s.logger.Warn("availability cache invalidation failed", zap.Error(err))
	}
}
