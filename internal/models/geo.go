package models

import "math"

// GeoPoint is a resolved geographic coordinate pair.
type GeoPoint struct {
	Lat float64 `db:"lat" json:"lat"`
	Lng float64 `db:"lng" json:"lng"`
}

// IsZero reports whether the point is the unset (0,0) origin. Geocoding
// never legitimately produces it, so it always signals missing data.
func (p GeoPoint) IsZero() bool {
	return p.Lat == 0 && p.Lng == 0
}

// Valid reports whether the point holds finite, in-range, non-zero
// coordinates. Invalid points must be rejected before any distance math.
func (p GeoPoint) Valid() bool {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lng) || math.IsInf(p.Lat, 0) || math.IsInf(p.Lng, 0) {
		return false
	}
	if p.Lat < -90 || p.Lat > 90 || p.Lng < -180 || p.Lng > 180 {
		return false
	}
	return !p.IsZero()
}

// Address is a resolved postal address. Immutable once geocoded.
type Address struct {
	Street   string   `json:"street"`
	City     string   `json:"city"`
	State    string   `json:"state"`
	Zip      string   `json:"zip"`
	Location GeoPoint `json:"location"`
}
