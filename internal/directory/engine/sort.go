// internal/directory/engine/sort.go
package engine

import (
	"math"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"lusotown-workers/internal/directory/geo"
)

// Sort produces a deterministic total order over the entities for the
// criteria's sort key and returns the key actually applied: a distance
// sort without an origin falls back to relevance instead of failing.
//
// Every comparator is stable and breaks ties on rating (descending), so
// repeated runs over the same input yield identical ordering. The input
// slice is copied, never reordered in place.
func Sort(entities []Entity, c Criteria) ([]Entity, SortKey) {
	out := make([]Entity, len(entities))
	copy(out, entities)

	applied := c.SortBy
	if applied == "" {
		applied = SortRelevance
	}
	if applied == SortDistance && c.Origin == nil {
		applied = SortRelevance
	}

	switch applied {
	case SortDistance:
		sortByDistance(out, c.Origin)
	case SortRating:
		sortByRating(out)
	case SortName:
		sortByName(out, c.Language)
	case SortNewest:
		sortByNewest(out)
	default:
		applied = SortRelevance
		sortByRelevance(out)
	}

	if c.Limit > 0 && len(out) > c.Limit {
		out = out[:c.Limit]
	}

	return out, applied
}

// sortByRelevance orders featured first, then premium, then rating
// descending. A fixed three-level lexicographic comparator, not a scoring
// function.
func sortByRelevance(entities []Entity) {
	sort.SliceStable(entities, func(i, j int) bool {
		a, b := entities[i], entities[j]
		if a.IsFeatured != b.IsFeatured {
			return a.IsFeatured
		}
		if a.IsPremium != b.IsPremium {
			return a.IsPremium
		}
		return a.Rating > b.Rating
	})
}

// sortByDistance orders ascending by distance from the origin. Entities
// with no computable distance sort last, not first.
func sortByDistance(entities []Entity, origin *geo.Point) {
	dist := make([]float64, len(entities))
	for i, e := range entities {
		if km, ok := geo.Distance(origin, e.Location.Point()); ok {
			dist[i] = km
		} else {
			dist[i] = math.Inf(1)
		}
	}

	idx := make([]int, len(entities))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		if dist[idx[i]] != dist[idx[j]] {
			return dist[idx[i]] < dist[idx[j]]
		}
		return entities[idx[i]].Rating > entities[idx[j]].Rating
	})

	ordered := make([]Entity, len(entities))
	for i, k := range idx {
		ordered[i] = entities[k]
	}
	copy(entities, ordered)
}

func sortByRating(entities []Entity) {
	sort.SliceStable(entities, func(i, j int) bool {
		a, b := entities[i], entities[j]
		if a.Rating != b.Rating {
			return a.Rating > b.Rating
		}
		return a.ReviewCount > b.ReviewCount
	})
}

// sortByName uses locale-aware collation on the localized title for the
// active display language, so accented Portuguese names sort correctly.
func sortByName(entities []Entity, lang string) {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.English
	}
	col := collate.New(tag)

	sort.SliceStable(entities, func(i, j int) bool {
		a, b := entities[i], entities[j]
		cmp := col.CompareString(a.LocalizedName(lang), b.LocalizedName(lang))
		if cmp != 0 {
			return cmp < 0
		}
		return a.Rating > b.Rating
	})
}

func sortByNewest(entities []Entity) {
	sort.SliceStable(entities, func(i, j int) bool {
		a, b := entities[i], entities[j]
		if a.EstablishedYear != b.EstablishedYear {
			return a.EstablishedYear > b.EstablishedYear
		}
		return a.Rating > b.Rating
	})
}
