// internal/workers/geo/resolve-origin/models.go
package resolveorigin

type Input struct {
	LocationText string     `json:"locationText"`
	Origin       *GeoOrigin `json:"origin,omitempty"`
}

type GeoOrigin struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type Output struct {
	OriginAvailable bool       `json:"originAvailable"`
	Origin          *GeoOrigin `json:"origin,omitempty"`
	Source          string     `json:"source"` // "input", "cache", "geocoder", "none"
}
