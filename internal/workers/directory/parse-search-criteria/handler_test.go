// internal/workers/directory/parse-search-criteria/handler_test.go
package parsesearchcriteria

import (
	"context"
	"testing"

	"lusotown-workers/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestHandler(t *testing.T) *Handler {
	return NewHandler(LoadConfig(), logger.NewTestLogger(t))
}

func createInput(rawCriteria map[string]interface{}) *Input {
	return &Input{
		RawCriteria: rawCriteria,
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_Success(t *testing.T) {
	tests := []struct {
		name           string
		input          *Input
		validateOutput func(t *testing.T, output *Output)
	}{
		{
			name: "complete valid criteria",
			input: createInput(map[string]interface{}{
				"query":      "  Pastelaria  ",
				"categories": []string{"restaurants", "cafes"},
				"city":       "London",
				"sortBy":     "distance",
				"origin": map[string]interface{}{
					"latitude":  51.5072,
					"longitude": -0.1276,
				},
				"radiusKm": 25.0,
				"language": "pt",
				"pagination": map[string]interface{}{
					"page": 2,
					"size": 50,
				},
			}),
			validateOutput: func(t *testing.T, output *Output) {
				assert.Equal(t, "Pastelaria", output.ParsedCriteria.Query)
				assert.Equal(t, []string{"restaurants", "cafes"}, output.ParsedCriteria.Categories)
				assert.Equal(t, "London", output.ParsedCriteria.City)
				assert.Equal(t, "distance", output.ParsedCriteria.SortBy)
				require.NotNil(t, output.ParsedCriteria.Origin)
				assert.Equal(t, 51.5072, output.ParsedCriteria.Origin.Latitude)
				assert.Equal(t, -0.1276, output.ParsedCriteria.Origin.Longitude)
				assert.Equal(t, 25.0, output.ParsedCriteria.RadiusKm)
				assert.Equal(t, "pt", output.ParsedCriteria.Language)
				assert.Equal(t, 2, output.ParsedCriteria.Pagination.Page)
				assert.Equal(t, 50, output.ParsedCriteria.Pagination.Size)
			},
		},
		{
			name:  "empty criteria falls back to defaults",
			input: createInput(map[string]interface{}{}),
			validateOutput: func(t *testing.T, output *Output) {
				assert.Equal(t, "", output.ParsedCriteria.Query)
				assert.Equal(t, []string{}, output.ParsedCriteria.Categories)
				assert.Equal(t, "relevance", output.ParsedCriteria.SortBy)
				assert.Nil(t, output.ParsedCriteria.Origin)
				assert.Equal(t, 0.0, output.ParsedCriteria.RadiusKm)
				assert.Equal(t, "en", output.ParsedCriteria.Language)
				assert.Equal(t, 1, output.ParsedCriteria.Pagination.Page)
				assert.Equal(t, 20, output.ParsedCriteria.Pagination.Size)
			},
		},
		{
			name:  "nil criteria map treated as empty",
			input: &Input{},
			validateOutput: func(t *testing.T, output *Output) {
				assert.Equal(t, "relevance", output.ParsedCriteria.SortBy)
				assert.Equal(t, 20, output.ParsedCriteria.Pagination.Size)
			},
		},
		{
			name: "categories as comma separated string",
			input: createInput(map[string]interface{}{
				"categories": "restaurants, Cafes , restaurants",
			}),
			validateOutput: func(t *testing.T, output *Output) {
				assert.Equal(t, []string{"restaurants", "cafes"}, output.ParsedCriteria.Categories)
			},
		},
		{
			name: "page size capped at maximum",
			input: createInput(map[string]interface{}{
				"pagination": map[string]interface{}{
					"page": 1,
					"size": 500,
				},
			}),
			validateOutput: func(t *testing.T, output *Output) {
				assert.Equal(t, 100, output.ParsedCriteria.Pagination.Size)
			},
		},
		{
			name: "radius capped at maximum",
			input: createInput(map[string]interface{}{
				"radiusKm": 5000.0,
			}),
			validateOutput: func(t *testing.T, output *Output) {
				assert.Equal(t, 100.0, output.ParsedCriteria.RadiusKm)
			},
		},
		{
			name: "unsupported language falls back to default",
			input: createInput(map[string]interface{}{
				"language": "fr",
			}),
			validateOutput: func(t *testing.T, output *Output) {
				assert.Equal(t, "en", output.ParsedCriteria.Language)
			},
		},
		{
			name: "sortBy is case insensitive",
			input: createInput(map[string]interface{}{
				"sortBy": " Rating ",
			}),
			validateOutput: func(t *testing.T, output *Output) {
				assert.Equal(t, "rating", output.ParsedCriteria.SortBy)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := createTestHandler(t)

			output, err := handler.Execute(context.Background(), tt.input)

			require.NoError(t, err)
			require.NotNil(t, output)
			tt.validateOutput(t, output)
		})
	}
}

// ==========================
// Validation Failure Tests
// ==========================

func TestHandler_Execute_InvalidCriteria(t *testing.T) {
	tests := []struct {
		name  string
		input *Input
	}{
		{
			name: "unknown category",
			input: createInput(map[string]interface{}{
				"categories": []string{"spaceships"},
			}),
		},
		{
			name: "unknown sort key",
			input: createInput(map[string]interface{}{
				"sortBy": "popularity",
			}),
		},
		{
			name: "origin missing longitude",
			input: createInput(map[string]interface{}{
				"origin": map[string]interface{}{
					"latitude": 51.5,
				},
			}),
		},
		{
			name: "latitude out of range",
			input: createInput(map[string]interface{}{
				"origin": map[string]interface{}{
					"latitude":  95.0,
					"longitude": 0.0,
				},
			}),
		},
		{
			name: "longitude out of range",
			input: createInput(map[string]interface{}{
				"origin": map[string]interface{}{
					"latitude":  0.0,
					"longitude": 181.0,
				},
			}),
		},
		{
			name: "origin not an object",
			input: createInput(map[string]interface{}{
				"origin": "London",
			}),
		},
		{
			name: "negative radius",
			input: createInput(map[string]interface{}{
				"radiusKm": -10.0,
			}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := createTestHandler(t)

			output, err := handler.Execute(context.Background(), tt.input)

			require.Error(t, err)
			assert.Nil(t, output)
			assert.ErrorIs(t, err, ErrInvalidCriteriaFormat)
		})
	}
}
