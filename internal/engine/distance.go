package engine

import (
	"math"

	"github.com/fieldops/booking-api/internal/models"
)

// earthRadiusMiles is the mean Earth radius used for drive-distance
// estimates.
const earthRadiusMiles = 3959.0

// DistanceMiles computes the haversine great-circle distance between two
// points. Callers validate inputs; a NaN result must never be treated as
// in range.
func DistanceMiles(a, b models.GeoPoint) float64 {
	latA := a.Lat * math.Pi / 180
	latB := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(latA)*math.Cos(latB)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusMiles * c
}
