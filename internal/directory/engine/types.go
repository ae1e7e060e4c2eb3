// Package engine implements the filter/sort pipeline shared by the business
// directory and candidate matching flows. Every function is pure: input
// slices are never mutated and the same inputs always produce the same
// ordered output.
package engine

import (
	"sort"
	"strings"

	"lusotown-workers/internal/directory/geo"
)

// SortKey selects the comparator applied to the filtered result set.
type SortKey string

const (
	SortRelevance SortKey = "relevance"
	SortDistance  SortKey = "distance"
	SortRating    SortKey = "rating"
	SortName      SortKey = "name"
	SortNewest    SortKey = "newest"
)

// ValidSortKeys is the closed set accepted from search criteria.
var ValidSortKeys = map[SortKey]bool{
	SortRelevance: true,
	SortDistance:  true,
	SortRating:    true,
	SortName:      true,
	SortNewest:    true,
}

// Location is where an entity lives. Latitude/Longitude are optional;
// entities without coordinates are excluded from radius filters and sort
// last under distance ordering.
type Location struct {
	City      string   `json:"city"`
	Region    string   `json:"region"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// Point returns the location as a geo point, or nil when coordinates are
// missing.
func (l Location) Point() *geo.Point {
	if l.Latitude == nil || l.Longitude == nil {
		return nil
	}
	return &geo.Point{Latitude: *l.Latitude, Longitude: *l.Longitude}
}

// Entity is a directory business or a candidate profile card subject to
// filtering and sorting. Name and Description are keyed by language code
// (en, pt).
type Entity struct {
	ID              string            `json:"id"`
	Name            map[string]string `json:"name"`
	Description     map[string]string `json:"description"`
	Category        string            `json:"category"`
	Location        Location          `json:"location"`
	IsFeatured      bool              `json:"isFeatured"`
	IsPremium       bool              `json:"isPremium"`
	IsVerified      bool              `json:"isVerified"`
	Rating          float64           `json:"rating"`
	ReviewCount     int               `json:"reviewCount"`
	EstablishedYear int               `json:"establishedYear"`
}

// LocalizedName returns the entity title for the given language, falling
// back to English and then to any configured language (in deterministic
// key order) so a missing translation never hides an entity.
func (e Entity) LocalizedName(lang string) string {
	if v, ok := e.Name[lang]; ok && v != "" {
		return v
	}
	if v, ok := e.Name["en"]; ok && v != "" {
		return v
	}
	keys := make([]string, 0, len(e.Name))
	for k := range e.Name {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if e.Name[k] != "" {
			return e.Name[k]
		}
	}
	return ""
}

// Criteria is the user-supplied filter and sort selection for one query.
// Criteria are ephemeral: a fresh value is built per request and never
// reused across interactions.
type Criteria struct {
	Query    string     `json:"query"`
	Category string     `json:"category"`
	City     string     `json:"city"`
	SortBy   SortKey    `json:"sortBy"`
	Origin   *geo.Point `json:"origin,omitempty"`
	RadiusKm float64    `json:"radiusKm"`
	Language string     `json:"language"`
	Limit    int        `json:"limit"`
}

// RadiusActive reports whether the radius rule applies: it needs both an
// origin and a positive radius.
func (c Criteria) RadiusActive() bool {
	return c.Origin != nil && c.RadiusKm > 0
}

// NormalizedQuery returns the trimmed, lowercased free-text query.
func (c Criteria) NormalizedQuery() string {
	return strings.ToLower(strings.TrimSpace(c.Query))
}
