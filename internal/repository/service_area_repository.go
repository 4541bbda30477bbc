package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/fieldops/booking-api/internal/models"
)

// ServiceAreaRepository provides persistence for the serviceable-zip
// registry.
type ServiceAreaRepository struct {
	db *sqlx.DB
}

// NewServiceAreaRepository creates a new service area repository.
func NewServiceAreaRepository(db *sqlx.DB) *ServiceAreaRepository {
	return &ServiceAreaRepository{db: db}
}

// FindByZip loads a registry row; sql.ErrNoRows means the zip is unknown
// territory, which the gate treats differently from an excluded zip.
func (r *ServiceAreaRepository) FindByZip(ctx context.Context, zip string) (*models.ServiceArea, error) {
	const query = `SELECT zip, excluded, notes, created_at, updated_at FROM service_areas WHERE zip = $1`
	var area models.ServiceArea
	if err := r.db.GetContext(ctx, &area, query, zip); err != nil {
		return nil, err
	}
	return &area, nil
}

// List returns the whole registry.
func (r *ServiceAreaRepository) List(ctx context.Context) ([]models.ServiceArea, error) {
	const query = `SELECT zip, excluded, notes, created_at, updated_at FROM service_areas ORDER BY zip ASC`
	var areas []models.ServiceArea
	if err := r.db.SelectContext(ctx, &areas, query); err != nil {
		return nil, fmt.Errorf("list service areas: %w", err)
	}
	return areas, nil
}

// Upsert inserts or rewrites a registry row.
func (r *ServiceAreaRepository) Upsert(ctx context.Context, area *models.ServiceArea) error {
	now := time.Now().UTC()
	area.UpdatedAt = now

	const query = `INSERT INTO service_areas (zip, excluded, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (zip) DO UPDATE SET excluded = EXCLUDED.excluded, notes = EXCLUDED.notes, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.ExecContext(ctx, query, area.Zip, area.Excluded, area.Notes, now); err != nil {
		return fmt.Errorf("upsert service area: %w", err)
	}
	return nil
}
