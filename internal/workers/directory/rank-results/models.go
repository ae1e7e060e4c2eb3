// internal/workers/directory/rank-results/models.go
package rankresults

import "lusotown-workers/internal/directory/engine"

type Input struct {
	Entities       []engine.Entity `json:"entities"`
	ParsedCriteria SearchCriteria  `json:"parsedCriteria"`
}

type SearchCriteria struct {
	Query      string     `json:"query"`
	Categories []string   `json:"categories"`
	City       string     `json:"city"`
	SortBy     string     `json:"sortBy"`
	Origin     *GeoOrigin `json:"origin,omitempty"`
	RadiusKm   float64    `json:"radiusKm"`
	Language   string     `json:"language"`
	Pagination Pagination `json:"pagination"`
}

type GeoOrigin struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type Pagination struct {
	Page int `json:"page"`
	Size int `json:"size"`
}

type Output struct {
	Results        []engine.Entity `json:"results"`
	TotalCount     int             `json:"totalCount"`
	SkippedRecords int             `json:"skippedRecords"`
	SortApplied    string          `json:"sortApplied"`
}
