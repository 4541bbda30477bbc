package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/fieldops/booking-api/internal/models"
	appErrors "github.com/fieldops/booking-api/pkg/errors"
)

type serviceAreaRepository interface {
	FindByZip(ctx context.Context, zip string) (*models.ServiceArea, error)
	List(ctx context.Context) ([]models.ServiceArea, error)
	Upsert(ctx context.Context, area *models.ServiceArea) error
}

var zipPattern = regexp.MustCompile(`^\d{5}$`)

// UpsertServiceAreaRequest creates or rewrites a registry entry.
type UpsertServiceAreaRequest struct {
	Zip      string  `json:"zip" validate:"required,len=5,numeric"`
	Excluded bool    `json:"excluded"`
	Notes    *string `json:"notes,omitempty"`
}

// ServiceAreaService is the serviceability gate: the engine is never
// invoked for an address whose zip fails the check. Lookups are memoized
// through an explicit cache handle with a configured TTL; Invalidate flushes
// them after registry edits.
type ServiceAreaService struct {
	repo      serviceAreaRepository
	cache     *CacheService
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    *zap.Logger
}

// NewServiceAreaService instantiates ServiceAreaService.
func NewServiceAreaService(repo serviceAreaRepository, cache *CacheService, cacheTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *ServiceAreaService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ServiceAreaService{repo: repo, cache: cache, cacheTTL: cacheTTL, validator: validate, logger: logger}
}

func serviceAreaCacheKey(zip string) string {
	return "service_area:" + zip
}

// CheckServiceable resolves the gate decision for a 5-digit zip. Three
// outcomes: serviceable, excluded (deliberately skipped, notes attached),
// and unknown territory (absent from the registry).
func (s *ServiceAreaService) CheckServiceable(ctx context.Context, zip string) (*models.ServiceabilityResult, error) {
	if !zipPattern.MatchString(zip) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "zip must be 5 digits")
	}

	var cached models.ServiceabilityResult
	if hit, _ := s.cache.Get(ctx, serviceAreaCacheKey(zip), &cached); hit {
		return &cached, nil
	}

	result := models.ServiceabilityResult{Zip: zip}
	area, err := s.repo.FindByZip(ctx, zip)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// Unknown territory: not serviceable, but not excluded either.
	case err != nil:
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up service area")
	case area.Excluded:
		result.Excluded = true
		if area.Notes != nil {
			result.Notes = *area.Notes
		}
	default:
		result.Serviceable = true
	}

	if err := s.cache.Set(ctx, serviceAreaCacheKey(zip), result, s.cacheTTL); err != nil {
		s.logger.Warn("service area cache write failed", zap.String("zip", zip), zap.Error(err))
	}

	return &result, nil
}

// List returns every registry row.
func (s *ServiceAreaService) List(ctx context.Context) ([]models.ServiceArea, error) {
	areas, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list service areas")
	}
	return areas, nil
}

// Upsert creates or rewrites a registry entry and drops its cached lookup.
func (s *ServiceAreaService) Upsert(ctx context.Context, req UpsertServiceAreaRequest) (*models.ServiceArea, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid service area payload")
	}

	area := models.ServiceArea{Zip: req.Zip, Excluded: req.Excluded, Notes: req.Notes}
	if err := s.repo.Upsert(ctx, &area); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to upsert service area")
	}

	if err := s.cache.Invalidate(ctx, serviceAreaCacheKey(req.Zip)); err != nil {
		s.logger.Warn("service area cache invalidation failed", zap.String("zip", req.Zip), zap.Error(err))
	}

	return &area, nil
}

// InvalidateCache flushes every memoized gate decision.
func (s *ServiceAreaService) InvalidateCache(ctx context.Context) error {
	if err := s.cache.Invalidate(ctx, serviceAreaCacheKey("*")); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to invalidate service area cache")
	}
	return nil
}

// NotServiceableError builds the user-facing gate failure, preserving the
// excluded-vs-unknown distinction.
func NotServiceableError(result *models.ServiceabilityResult) *appErrors.Error {
	if result.Excluded {
		msg := fmt.Sprintf("zip %s is excluded from coverage", result.Zip)
		if result.Notes != "" {
			msg = fmt.Sprintf("%s: %s", msg, result.Notes)
		}
		return appErrors.Clone(appErrors.ErrNotServiceable, msg)
	}
	return appErrors.Clone(appErrors.ErrNotServiceable, fmt.Sprintf("zip %s is not yet covered", result.Zip))
}
