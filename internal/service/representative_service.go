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

type representativeRepository interface {
	List(ctx context.Context, filter models.RepresentativeFilter) ([]models.Representative, int, error)
	FindByID(ctx context.Context, id string) (*models.Representative, error)
	Create(ctx context.Context, rep *models.Representative) error
	Update(ctx context.Context, rep *models.Representative) error
	Deactivate(ctx context.Context, id string) error
	GetWeeklyTemplate(ctx context.Context, repID string) (models.WeeklyTemplate, error)
	ReplaceWeeklyTemplate(ctx context.Context, repID string, tpl models.WeeklyTemplate) error
}

// RepresentativeAddress is the payload form of a rep's home base.
type RepresentativeAddress struct {
	Street string  `json:"street" validate:"required"`
	City   string  `json:"city" validate:"required"`
	State  string  `json:"state" validate:"required,len=2"`
	Zip    string  `json:"zip" validate:"required,len=5,numeric"`
	Lat    float64 `json:"lat" validate:"required"`
	Lng    float64 `json:"lng" validate:"required"`
}

// CreateRepresentativeRequest describes payload for adding a rep.
type CreateRepresentativeRequest struct {
	FullName    string                `json:"full_name" validate:"required"`
	HomeAddress RepresentativeAddress `json:"home_address" validate:"required"`
}

// UpdateRepresentativeRequest rewrites a rep's profile.
type UpdateRepresentativeRequest struct {
	FullName    string                `json:"full_name" validate:"required"`
	HomeAddress RepresentativeAddress `json:"home_address" validate:"required"`
	Active      *bool                 `json:"active"`
}

// WeeklyTemplateRequest replaces a rep's recurring availability.
type WeeklyTemplateRequest struct {
	Template map[string][]string `json:"template" validate:"required"`
}

// RepresentativeService manages the sales roster and weekly templates. The
// availability engine reads these as immutable input; all mutation goes
// through here.
type RepresentativeService struct {
	repo      representativeRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRepresentativeService instantiates RepresentativeService.
func NewRepresentativeService(repo representativeRepository, validate *validator.Validate, logger *zap.Logger) *RepresentativeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RepresentativeService{repo: repo, validator: validate, logger: logger}
}

// List returns representatives with pagination metadata.
func (s *RepresentativeService) List(ctx context.Context, filter models.RepresentativeFilter) ([]models.Representative, *models.Pagination, error) {
	reps, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list representatives")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return reps, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get loads a representative with their weekly template.
func (s *RepresentativeService) Get(ctx context.Context, id string) (*models.Representative, error) {
	rep, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load representative")
	}

	tpl, err := s.repo.GetWeeklyTemplate(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load weekly template")
	}
	rep.WeeklyTemplate = tpl
	return rep, nil
}

func (a RepresentativeAddress) toModel() (models.Address, error) {
	location := models.GeoPoint{Lat: a.Lat, Lng: a.Lng}
	if !location.Valid() {
		return models.Address{}, appErrors.ErrInvalidLocation
	}
	return models.Address{
		Street:   a.Street,
		City:     a.City,
		State:    a.State,
		Zip:      a.Zip,
		Location: location,
	}, nil
}

// Create adds a representative to the roster.
func (s *RepresentativeService) Create(ctx context.Context, req CreateRepresentativeRequest) (*models.Representative, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid representative payload")
	}

	home, err := req.HomeAddress.toModel()
	if err != nil {
		return nil, err
	}

	rep := models.Representative{FullName: req.FullName, HomeAddress: home, Active: true}
	if err := s.repo.Create(ctx, &rep); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create representative")
	}
	return &rep, nil
}

// Update rewrites a representative's profile.
func (s *RepresentativeService) Update(ctx context.Context, id string, req UpdateRepresentativeRequest) (*models.Representative, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid representative payload")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load representative")
	}

	home, err := req.HomeAddress.toModel()
	if err != nil {
		return nil, err
	}

	existing.FullName = req.FullName
	existing.HomeAddress = home
	if req.Active != nil {
		existing.Active = *req.Active
	}

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update representative")
	}
	return existing, nil
}

// Deactivate removes a representative from the bookable roster.
func (s *RepresentativeService) Deactivate(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.ErrNotFound
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load representative")
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate representative")
	}
	return nil
}

// GetTemplate loads a representative's weekly template.
func (s *RepresentativeService) GetTemplate(ctx context.Context, id string) (models.WeeklyTemplate, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load representative")
	}
	tpl, err := s.repo.GetWeeklyTemplate(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load weekly template")
	}
	return tpl, nil
}

// ReplaceTemplate swaps a representative's recurring availability. Day
// names and slots are checked against the closed enums; typos are rejected,
// never silently dropped.
func (s *RepresentativeService) ReplaceTemplate(ctx context.Context, id string, req WeeklyTemplateRequest) (models.WeeklyTemplate, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid template payload")
	}

	tpl := models.WeeklyTemplate{}
	for rawDay, rawSlots := range req.Template {
		day, ok := models.ParseDayOfWeek(rawDay)
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, "unknown day of week: "+rawDay)
		}
		for _, rawSlot := range rawSlots {
			slot := models.TimeSlot(rawSlot)
			if !slot.Valid() {
				return nil, appErrors.Clone(appErrors.ErrValidation, "unknown time slot: "+rawSlot)
			}
			tpl[day] = append(tpl[day], slot)
		}
	}

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load representative")
	}

	if err := s.repo.ReplaceWeeklyTemplate(ctx, id, tpl); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to replace weekly template")
	}
	return tpl, nil
}
