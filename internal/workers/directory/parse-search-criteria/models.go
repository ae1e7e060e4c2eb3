// internal/workers/directory/parse-search-criteria/models.go
package parsesearchcriteria

type Input struct {
	RawCriteria map[string]interface{} `json:"rawCriteria"`
}

type Output struct {
	ParsedCriteria ParsedCriteria `json:"parsedCriteria"`
}

type ParsedCriteria struct {
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
