package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"lusotown-workers/internal/common/logger"
	"lusotown-workers/internal/directory/geo"
)

func ratedEntity(id string, rating float64, featured, premium bool) Entity {
	e := testEntity(id, "Business "+id)
	e.Rating = rating
	e.IsFeatured = featured
	e.IsPremium = premium
	return e
}

// ==========================
// Relevance Sort
// ==========================

func TestSort_RelevanceOrdersFeaturedPremiumRating(t *testing.T) {
	entities := []Entity{
		ratedEntity("plain", 5.0, false, false),
		ratedEntity("premium", 3.0, false, true),
		ratedEntity("featured-low", 4.2, true, false),
		ratedEntity("featured-high", 4.5, true, false),
	}

	ordered, applied := Sort(entities, Criteria{SortBy: SortRelevance})

	assert.Equal(t, SortRelevance, applied)
	assert.Equal(t, []string{"featured-high", "featured-low", "premium", "plain"}, ids(ordered))
}

func TestSort_RelevanceTieBreaksOnRating(t *testing.T) {
	entities := []Entity{
		ratedEntity("lower", 4.2, true, false),
		ratedEntity("higher", 4.5, true, false),
	}

	ordered, _ := Sort(entities, Criteria{SortBy: SortRelevance})

	// Both featured: the 4.5-rated entity comes first.
	assert.Equal(t, []string{"higher", "lower"}, ids(ordered))
}

func TestSort_StabilityOnFullTies(t *testing.T) {
	entities := []Entity{
		ratedEntity("first", 4.0, false, false),
		ratedEntity("second", 4.0, false, false),
		ratedEntity("third", 4.0, false, false),
	}

	for _, key := range []SortKey{SortRelevance, SortRating, SortNewest} {
		ordered, _ := Sort(entities, Criteria{SortBy: key})
		assert.Equal(t, []string{"first", "second", "third"}, ids(ordered), "sort key %s", key)
	}
}

// ==========================
// Distance Sort
// ==========================

func TestSort_DistanceAscendingWithMissingCoordinatesLast(t *testing.T) {
	origin := &geo.Point{Latitude: 51.5072, Longitude: -0.1276} // London

	entities := []Entity{
		withCoords(testEntity("porto", "Porto"), 41.1579, -8.6291),
		testEntity("nowhere", "No Coordinates"),
		withCoords(testEntity("london", "London"), 51.5072, -0.1276),
		withCoords(testEntity("watford", "Watford"), 51.6565, -0.3903),
	}

	ordered, applied := Sort(entities, Criteria{SortBy: SortDistance, Origin: origin})

	assert.Equal(t, SortDistance, applied)
	assert.Equal(t, []string{"london", "watford", "porto", "nowhere"}, ids(ordered))
}

func TestSort_DistanceWithoutOriginFallsBackToRelevance(t *testing.T) {
	entities := []Entity{
		ratedEntity("plain", 3.0, false, false),
		ratedEntity("featured", 4.0, true, false),
	}

	ordered, applied := Sort(entities, Criteria{SortBy: SortDistance})

	assert.Equal(t, SortRelevance, applied)
	assert.Equal(t, []string{"featured", "plain"}, ids(ordered))
}

// ==========================
// Rating / Name / Newest Sorts
// ==========================

func TestSort_RatingDescendingTieBrokenByReviewCount(t *testing.T) {
	a := ratedEntity("few-reviews", 4.5, false, false)
	a.ReviewCount = 3
	b := ratedEntity("many-reviews", 4.5, false, false)
	b.ReviewCount = 120
	c := ratedEntity("top", 4.9, false, false)

	ordered, _ := Sort([]Entity{a, b, c}, Criteria{SortBy: SortRating})

	assert.Equal(t, []string{"top", "many-reviews", "few-reviews"}, ids(ordered))
}

func TestSort_NameUsesLocalizedTitleForActiveLanguage(t *testing.T) {
	a := testEntity("a", "Zebra Imports")
	a.Name["pt"] = "Importações Zebra"
	b := testEntity("b", "Azulejo Studio")
	b.Name["pt"] = "Estúdio de Azulejos"

	ordered, _ := Sort([]Entity{a, b}, Criteria{SortBy: SortName, Language: "en"})
	assert.Equal(t, []string{"b", "a"}, ids(ordered))

	ordered, _ = Sort([]Entity{a, b}, Criteria{SortBy: SortName, Language: "pt"})
	assert.Equal(t, []string{"b", "a"}, ids(ordered))
}

func TestSort_NewestDescendingByEstablishedYear(t *testing.T) {
	older := testEntity("older", "Old House")
	older.EstablishedYear = 1998
	newer := testEntity("newer", "New House")
	newer.EstablishedYear = 2021

	ordered, _ := Sort([]Entity{older, newer}, Criteria{SortBy: SortNewest})

	assert.Equal(t, []string{"newer", "older"}, ids(ordered))
}

// ==========================
// Limit and Purity
// ==========================

func TestSort_LimitCapsOutputLength(t *testing.T) {
	entities := []Entity{
		ratedEntity("a", 4.9, false, false),
		ratedEntity("b", 4.5, false, false),
		ratedEntity("c", 4.1, false, false),
	}

	ordered, _ := Sort(entities, Criteria{SortBy: SortRating, Limit: 2})

	assert.Equal(t, []string{"a", "b"}, ids(ordered))
}

func TestSort_DoesNotMutateInput(t *testing.T) {
	entities := []Entity{
		ratedEntity("low", 1.0, false, false),
		ratedEntity("high", 5.0, false, false),
	}

	_, _ = Sort(entities, Criteria{SortBy: SortRating})

	assert.Equal(t, []string{"low", "high"}, ids(entities))
}

// ==========================
// Full Pipeline
// ==========================

func TestRun_FilterThenSortThenLimit(t *testing.T) {
	entities := []Entity{
		ratedEntity("c", 4.1, false, false),
		ratedEntity("a", 4.9, false, false),
		ratedEntity("skip-me", 9.9, false, false), // malformed rating
		ratedEntity("b", 4.5, false, false),
	}

	result := Run(entities, Criteria{SortBy: SortRating, Limit: 2}, logger.NewNoOpLogger())

	assert.Equal(t, []string{"a", "b"}, ids(result.Entities))
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, SortRating, result.SortApplied)
}
