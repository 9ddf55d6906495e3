// Package geofence decides clock-in eligibility from the staff member's
// reported position versus a location's coordinates and radius.
package geofence

import (
	"math"

	"github.com/rotaworks-dev/staffhub/backend/internal/domain"
)

const earthRadiusMetres = 6371000

// Result reports the outcome of a geofence check. DistanceMetres is set
// whenever both coordinate pairs were present, regardless of the outcome, so
// it can be recorded for audit.
type Result struct {
	Allowed        bool
	DistanceMetres *float64
}

// Evaluate is fail-open: a missing coordinate pair on either side allows the
// clock-in, because unsupported devices must never block staff from clocking
// in. No side effects.
func Evaluate(staff, location *domain.Coordinates, radiusMetres float64) Result {
	if staff == nil || location == nil {
		return Result{Allowed: true}
	}

	distance := Haversine(*staff, *location)
	return Result{
		Allowed:        distance <= radiusMetres,
		DistanceMetres: &distance,
	}
}

// Haversine returns the great-circle distance between two points in metres.
func Haversine(a, b domain.Coordinates) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLng := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)

	return 2 * earthRadiusMetres * math.Asin(math.Sqrt(h))
}
