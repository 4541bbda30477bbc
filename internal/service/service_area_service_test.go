package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fieldops/booking-api/internal/models"
	appErrors "github.com/fieldops/booking-api/pkg/errors"
)

func TestServiceAreaServiceCheckServiceable(t *testing.T) {
	notes := "pilot ended"
	repo := &mockAreaRepo{areas: map[string]*models.ServiceArea{
		"30305": {Zip: "30305"},
		"30310": {Zip: "30310", Excluded: true, Notes: &notes},
	}}
	svc := NewServiceAreaService(repo, disabledCache(), time.Minute, nil, zap.NewNop())

	ok, err := svc.CheckServiceable(context.Background(), "30305")
	require.NoError(t, err)
	assert.True(t, ok.Serviceable)
	assert.False(t, ok.Excluded)

	excluded, err := svc.CheckServiceable(context.Background(), "30310")
	require.NoError(t, err)
	assert.False(t, excluded.Serviceable)
	assert.True(t, excluded.Excluded)
	assert.Equal(t, "pilot ended", excluded.Notes)

	unknown, err := svc.CheckServiceable(context.Background(), "99999")
	require.NoError(t, err)
	assert.False(t, unknown.Serviceable)
	assert.False(t, unknown.Excluded)
}

func TestServiceAreaServiceCheckServiceableRejectsBadZip(t *testing.T) {
	svc := NewServiceAreaService(&mockAreaRepo{}, disabledCache(), time.Minute, nil, zap.NewNop())

	for _, zip := range []string{"", "123", "abcde", "303051"} {
		_, err := svc.CheckServiceable(context.Background(), zip)
		require.Error(t, err, "zip %q", zip)
		assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	}
}

func TestServiceAreaServiceCachesLookups(t *testing.T) {
	repo := &mockAreaRepo{areas: map[string]*models.ServiceArea{"30305": {Zip: "30305"}}}
	fake := &fakeCacheRepo{}
	cache := NewCacheService(fake, nil, time.Minute, zap.NewNop(), true)
	svc := NewServiceAreaService(repo, cache, time.Minute, nil, zap.NewNop())

	_, err := svc.CheckServiceable(context.Background(), "30305")
	require.NoError(t, err)
	assert.Equal(t, 1, fake.sets)

	cached, err := svc.CheckServiceable(context.Background(), "30305")
	require.NoError(t, err)
	assert.True(t, cached.Serviceable)
	assert.Equal(t, 1, fake.sets)

	// Registry edits drop the memoized decision.
	_, err = svc.Upsert(context.Background(), UpsertServiceAreaRequest{Zip: "30305", Excluded: true})
	require.NoError(t, err)
	assert.Empty(t, fake.entries)
}

func TestServiceAreaServiceUpsertValidation(t *testing.T) {
	svc := NewServiceAreaService(&mockAreaRepo{}, disabledCache(), time.Minute, nil, zap.NewNop())

	_, err := svc.Upsert(context.Background(), UpsertServiceAreaRequest{Zip: "bad"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestNotServiceableErrorMessages(t *testing.T) {
	excluded := NotServiceableError(&models.ServiceabilityResult{Zip: "30310", Excluded: true, Notes: "flood zone"})
	assert.Contains(t, excluded.Message, "excluded")
	assert.Contains(t, excluded.Message, "flood zone")

	unknown := NotServiceableError(&models.ServiceabilityResult{Zip: "99999"})
	assert.Contains(t, unknown.Message, "not yet covered")
}
