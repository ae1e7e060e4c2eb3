// internal/workers/directory/rank-results/handler_test.go
package rankresults

import (
	"context"
	"testing"

	"lusotown-workers/internal/common/logger"
	"lusotown-workers/internal/directory/engine"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestHandler(t *testing.T) *Handler {
	return NewHandler(LoadConfig(), logger.NewTestLogger(t))
}

func entity(id, name, category string, rating float64) engine.Entity {
	return engine.Entity{
		ID:          id,
		Name:        map[string]string{"en": name},
		Description: map[string]string{"en": ""},
		Category:    category,
		Location:    engine.Location{City: "London"},
		Rating:      rating,
		ReviewCount: 10,
	}
}

func resultIDs(results []engine.Entity) []string {
	out := make([]string, 0, len(results))
	for _, e := range results {
		out = append(out, e.ID)
	}
	return out
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_RanksAndPaginates(t *testing.T) {
	input := &Input{
		Entities: []engine.Entity{
			entity("c", "Tasca C", "restaurants", 4.1),
			entity("a", "Tasca A", "restaurants", 4.9),
			entity("b", "Tasca B", "restaurants", 4.5),
		},
		ParsedCriteria: SearchCriteria{
			SortBy:     "rating",
			Pagination: Pagination{Page: 1, Size: 2},
		},
	}

	output, err := createTestHandler(t).Execute(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, resultIDs(output.Results))
	assert.Equal(t, 3, output.TotalCount)
	assert.Equal(t, 0, output.SkippedRecords)
	assert.Equal(t, "rating", output.SortApplied)
}

func TestHandler_Execute_SecondPage(t *testing.T) {
	input := &Input{
		Entities: []engine.Entity{
			entity("a", "Tasca A", "restaurants", 4.9),
			entity("b", "Tasca B", "restaurants", 4.5),
			entity("c", "Tasca C", "restaurants", 4.1),
		},
		ParsedCriteria: SearchCriteria{
			SortBy:     "rating",
			Pagination: Pagination{Page: 2, Size: 2},
		},
	}

	output, err := createTestHandler(t).Execute(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, resultIDs(output.Results))
	assert.Equal(t, 3, output.TotalCount)
}

func TestHandler_Execute_PageBeyondResultsIsEmptyNotError(t *testing.T) {
	input := &Input{
		Entities: []engine.Entity{entity("a", "Tasca A", "restaurants", 4.9)},
		ParsedCriteria: SearchCriteria{
			Pagination: Pagination{Page: 5, Size: 20},
		},
	}

	output, err := createTestHandler(t).Execute(context.Background(), input)

	require.NoError(t, err)
	assert.Empty(t, output.Results)
	assert.Equal(t, 1, output.TotalCount)
}

func TestHandler_Execute_MultipleCategoriesSelectAnyOf(t *testing.T) {
	input := &Input{
		Entities: []engine.Entity{
			entity("r", "Grill", "restaurants", 4.0),
			entity("c", "Pastelaria", "cafes", 4.0),
			entity("s", "Accountant", "services", 4.0),
		},
		ParsedCriteria: SearchCriteria{
			Categories: []string{"restaurants", "cafes"},
		},
	}

	output, err := createTestHandler(t).Execute(context.Background(), input)

	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"r", "c"}, resultIDs(output.Results))
}

func TestHandler_Execute_SingleCategoryIsExactMatch(t *testing.T) {
	fine := entity("fine", "Fado House", "restaurants-fine-dining", 4.0)
	plain := entity("plain", "Tasca", "restaurants", 4.0)

	input := &Input{
		Entities: []engine.Entity{fine, plain},
		ParsedCriteria: SearchCriteria{
			Categories: []string{"restaurants"},
		},
	}

	output, err := createTestHandler(t).Execute(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, []string{"plain"}, resultIDs(output.Results))
}

func TestHandler_Execute_SurfacesSkippedRecords(t *testing.T) {
	bad := entity("bad", "Broken", "restaurants", 11.0)
	good := entity("good", "Fine", "restaurants", 4.0)

	output, err := createTestHandler(t).Execute(context.Background(), &Input{
		Entities: []engine.Entity{bad, good},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"good"}, resultIDs(output.Results))
	assert.Equal(t, 1, output.SkippedRecords)
}

func TestHandler_Execute_DistanceWithoutOriginReportsFallback(t *testing.T) {
	output, err := createTestHandler(t).Execute(context.Background(), &Input{
		Entities: []engine.Entity{entity("a", "Tasca", "restaurants", 4.0)},
		ParsedCriteria: SearchCriteria{
			SortBy: "distance",
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "relevance", output.SortApplied)
}

func TestHandler_Execute_NilInputFails(t *testing.T) {
	output, err := createTestHandler(t).Execute(context.Background(), nil)

	require.Error(t, err)
	assert.Nil(t, output)
	assert.ErrorIs(t, err, ErrNilInput)
}

func TestHandler_Execute_EmptyEntityListIsValid(t *testing.T) {
	output, err := createTestHandler(t).Execute(context.Background(), &Input{})

	require.NoError(t, err)
	assert.Empty(t, output.Results)
	assert.Equal(t, 0, output.TotalCount)
}
