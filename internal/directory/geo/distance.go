// Package geo provides great-circle distance math for directory entities.
package geo

import "math"

// earthRadiusKm is the mean Earth radius used by the haversine formula.
const earthRadiusKm = 6371.0

// Point is a WGS84 coordinate pair in decimal degrees.
type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Distance returns the haversine distance between two points in kilometers.
// When either point is nil the distance is unavailable and ok is false, so
// callers can sort such entities last instead of treating them as distance 0.
func Distance(a, b *Point) (km float64, ok bool) {
	if a == nil || b == nil {
		return 0, false
	}

	lat1 := toRadians(a.Latitude)
	lat2 := toRadians(b.Latitude)
	dLat := toRadians(b.Latitude - a.Latitude)
	dLon := toRadians(b.Longitude - a.Longitude)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)

	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLon*sinLon
	if h > 1 {
		h = 1 // guard asin domain against floating point drift
	}

	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h)), true
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
