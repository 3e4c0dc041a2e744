// Package geo holds great-circle distance helpers used for mechanic matchmaking.
package geo

import "math"

const EarthRadiusKm = 6371.0

// Haversine returns the great-circle distance in kilometers between two points given in degrees.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)

	a := sinLat*sinLat + math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*sinLon*sinLon

	// rounding can push a slightly outside [0, 1] for antipodal points
	a = math.Min(1, math.Max(0, a))

	return 2 * EarthRadiusKm * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// Round2 rounds a distance to two decimal places.
func Round2(value float64) float64 {
	return math.Round(value*100) / 100
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
