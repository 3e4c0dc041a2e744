package geo_test

import (
	"math"
	"testing"

	"bengkel/shared/geo"

	"github.com/stretchr/testify/assert"
)

func TestHaversine(t *testing.T) {
	tests := []struct {
		name     string
		lat1     float64
		lon1     float64
		lat2     float64
		lon2     float64
		expected float64
		delta    float64
	}{
		{
			name:     "identical points",
			lat1:     -6.2,
			lon1:     106.816666,
			lat2:     -6.2,
			lon2:     106.816666,
			expected: 0,
			delta:    0,
		},
		{
			name:     "one degree of longitude on the equator",
			lat1:     0,
			lon1:     0,
			lat2:     0,
			lon2:     1,
			expected: 111.19,
			delta:    0.01,
		},
		{
			name:     "jakarta to bandung",
			lat1:     -6.2088,
			lon1:     106.8456,
			lat2:     -6.9175,
			lon2:     107.6191,
			expected: 116.5,
			delta:    1,
		},
		{
			name:     "antipodal points",
			lat1:     0,
			lon1:     0,
			lat2:     0,
			lon2:     180,
			expected: math.Pi * geo.EarthRadiusKm,
			delta:    0.001,
		},
		{
			name:     "poles",
			lat1:     90,
			lon1:     0,
			lat2:     -90,
			lon2:     0,
			expected: math.Pi * geo.EarthRadiusKm,
			delta:    0.001,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := geo.Haversine(tt.lat1, tt.lon1, tt.lat2, tt.lon2)

			assert.False(t, math.IsNaN(got))
			assert.InDelta(t, tt.expected, got, tt.delta)
		})
	}
}

func TestHaversineSymmetric(t *testing.T) {
	points := [][2]float64{{0, 0}, {-6.2, 106.8}, {51.5, -0.12}, {-33.86, 151.2}, {89.9, 179.9}}

	for _, a := range points {
		for _, b := range points {
			assert.InDelta(t, geo.Haversine(a[0], a[1], b[0], b[1]), geo.Haversine(b[0], b[1], a[0], a[1]), 1e-9)
		}
	}
}

func TestRound2(t *testing.T) {
	assert.InDelta(t, 3.14, geo.Round2(3.14159), 1e-9)
	assert.InDelta(t, 2.5, geo.Round2(2.4999), 1e-9)
	assert.InDelta(t, 0.0, geo.Round2(0), 1e-9)
}
