package geofence_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rotaworks-dev/staffhub/backend/internal/domain"
	"github.com/rotaworks-dev/staffhub/backend/internal/geofence"
)

func TestHaversine_KnownDistance(t *testing.T) {
	// Tower Bridge to London Bridge, roughly 600 metres apart
	towerBridge := domain.Coordinates{Latitude: 51.5055, Longitude: -0.0754}
	londonBridge := domain.Coordinates{Latitude: 51.5079, Longitude: -0.0877}

	distance := geofence.Haversine(towerBridge, londonBridge)
	assert.InDelta(t, 890, distance, 60)
}

func TestHaversine_SamePoint(t *testing.T) {
	point := domain.Coordinates{Latitude: 51.5, Longitude: -0.08}
	assert.Zero(t, geofence.Haversine(point, point))
}

func TestEvaluate_WithinRadius(t *testing.T) {
	location := &domain.Coordinates{Latitude: 51.5055, Longitude: -0.0754}
	// ~20 metres north of the location
	staff := &domain.Coordinates{Latitude: 51.50568, Longitude: -0.0754}

	result := geofence.Evaluate(staff, location, 150)
	assert.True(t, result.Allowed)
	require.NotNil(t, result.DistanceMetres)
	assert.Less(t, *result.DistanceMetres, 150.0)
}

func TestEvaluate_OutsideRadius(t *testing.T) {
	location := &domain.Coordinates{Latitude: 51.5055, Longitude: -0.0754}
	// ~1.1 km north
	staff := &domain.Coordinates{Latitude: 51.5155, Longitude: -0.0754}

	result := geofence.Evaluate(staff, location, 150)
	assert.False(t, result.Allowed)
	require.NotNil(t, result.DistanceMetres)
	assert.Greater(t, *result.DistanceMetres, 150.0)
}

func TestEvaluate_FailOpen(t *testing.T) {
	location := &domain.Coordinates{Latitude: 51.5055, Longitude: -0.0754}
	staff := &domain.Coordinates{Latitude: 0, Longitude: 0}

	tests := []struct {
		name     string
		staff    *domain.Coordinates
		location *domain.Coordinates
	}{
		{"no staff coordinates", nil, location},
		{"no location coordinates", staff, nil},
		{"neither side", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := geofence.Evaluate(tt.staff, tt.location, 150)
			assert.True(t, result.Allowed)
			assert.Nil(t, result.DistanceMetres)
		})
	}
}
