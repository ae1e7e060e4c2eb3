// internal/directory/engine/filter.go
package engine

import (
	"math"
	"strings"

	"lusotown-workers/internal/common/logger"
	"lusotown-workers/internal/directory/geo"
)

// FilterResult carries the surviving entities plus a count of malformed
// records that were skipped, for diagnostics.
type FilterResult struct {
	Entities []Entity
	Skipped  int
}

// Filter reduces the entity list to those matching all active criteria.
// Rules are conjunctive and each rule is a no-op when its criterion is
// absent. Relative input order is preserved (stable filter) and the input
// slice is never mutated.
//
// Malformed entities are skipped with a logged warning, never a failure:
// one bad record must not take down the whole result set.
func Filter(entities []Entity, c Criteria, log logger.Logger) FilterResult {
	out := make([]Entity, 0, len(entities))
	skipped := 0

	query := c.NormalizedQuery()

	for _, e := range entities {
		if reason := malformedReason(e); reason != "" {
			skipped++
			log.Warn("skipping malformed entity", map[string]interface{}{
				"entityId": e.ID,
				"reason":   reason,
			})
			continue
		}

		if !matchesQuery(e, query) {
			continue
		}
		if c.Category != "" && e.Category != c.Category {
			continue
		}
		if c.City != "" && e.Location.City != c.City {
			continue
		}
		if c.RadiusActive() && !withinRadius(e, c.Origin, c.RadiusKm) {
			continue
		}

		out = append(out, e)
	}

	return FilterResult{Entities: out, Skipped: skipped}
}

// malformedReason returns a non-empty reason when the entity does not
// conform to the record schema.
func malformedReason(e Entity) string {
	if e.ID == "" {
		return "missing id"
	}
	if len(e.Name) == 0 {
		return "missing localized name"
	}
	hasName := false
	for _, v := range e.Name {
		if strings.TrimSpace(v) != "" {
			hasName = true
			break
		}
	}
	if !hasName {
		return "empty localized name"
	}
	if math.IsNaN(e.Rating) || e.Rating < 0 || e.Rating > 5 {
		return "rating out of range"
	}
	if e.ReviewCount < 0 {
		return "negative review count"
	}
	return ""
}

// matchesQuery checks the query as a case-insensitive substring of any
// localized title or description, in any configured language. An empty
// query matches everything.
func matchesQuery(e Entity, query string) bool {
	if query == "" {
		return true
	}
	for _, v := range e.Name {
		if strings.Contains(strings.ToLower(v), query) {
			return true
		}
	}
	for _, v := range e.Description {
		if strings.Contains(strings.ToLower(v), query) {
			return true
		}
	}
	return false
}

// withinRadius reports whether the entity sits inside the radius from the
// origin. Entities lacking coordinates are excluded while a radius filter
// is active.
func withinRadius(e Entity, origin *geo.Point, radiusKm float64) bool {
	km, ok := geo.Distance(origin, e.Location.Point())
	if !ok {
		return false
	}
	return km <= radiusKm
}
