// internal/workers/infrastructure/build-search-response/handler_test.go
package buildsearchresponse

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

func validInput() *Input {
	return &Input{
		RequestID: "req-1",
		Results: []map[string]interface{}{
			{"id": "biz-1", "name": map[string]interface{}{"en": "Lisbon Bakery"}},
		},
		TotalCount:     1,
		SkippedRecords: 0,
		SortApplied:    "relevance",
		Pagination:     Pagination{Page: 1, Size: 20},
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_BuildsEnvelope(t *testing.T) {
	output, err := createTestHandler(t).Execute(context.Background(), validInput())

	require.NoError(t, err)
	assert.Equal(t, "req-1", output.Response.RequestID)
	assert.Equal(t, "success", output.Response.Status)
	assert.Equal(t, 1, output.Response.Data["totalCount"])
	assert.NotEmpty(t, output.Response.Metadata.Timestamp)
	assert.Equal(t, "1.0.0", output.Response.Metadata.Version)
}

func TestHandler_Execute_NilResultsBecomesEmptyArray(t *testing.T) {
	input := validInput()
	input.Results = nil
	input.TotalCount = 0

	output, err := createTestHandler(t).Execute(context.Background(), input)

	require.NoError(t, err)
	results, ok := output.Response.Data["results"].([]map[string]interface{})
	require.True(t, ok)
	assert.Empty(t, results)
}

func TestHandler_Execute_DefaultsAppliedBeforeValidation(t *testing.T) {
	input := validInput()
	input.SortApplied = ""
	input.Pagination = Pagination{}

	output, err := createTestHandler(t).Execute(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, "relevance", output.Response.Data["sortApplied"])

	pagination := output.Response.Data["pagination"].(map[string]interface{})
	assert.Equal(t, 1, pagination["page"])
	assert.Equal(t, 20, pagination["size"])
}

// ==========================
// Validation Tests
// ==========================

func TestHandler_Execute_UnknownSortKeyRejected(t *testing.T) {
	input := validInput()
	input.SortApplied = "popularity"

	output, err := createTestHandler(t).Execute(context.Background(), input)

	require.Error(t, err)
	assert.Nil(t, output)
	assert.ErrorIs(t, err, ErrResponseValidationFailed)
}

func TestHandler_Execute_ResultMissingIDRejected(t *testing.T) {
	input := validInput()
	input.Results = []map[string]interface{}{
		{"name": map[string]interface{}{"en": "Anonymous"}},
	}

	output, err := createTestHandler(t).Execute(context.Background(), input)

	require.Error(t, err)
	assert.Nil(t, output)
	assert.ErrorIs(t, err, ErrResponseValidationFailed)
}

func TestHandler_Execute_NegativeCountsRejected(t *testing.T) {
	input := validInput()
	input.TotalCount = -1

	output, err := createTestHandler(t).Execute(context.Background(), input)

	require.Error(t, err)
	assert.Nil(t, output)
	assert.ErrorIs(t, err, ErrResponseValidationFailed)
}
