// internal/common/errors/errors_test.go
package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertToBPMNError_RetryableQueryFailure(t *testing.T) {
	stdErr := NewQueryExecutionFailedError("directory-businesses", fmt.Errorf("connection reset"))

	bpmnErr := ConvertToBPMNError(stdErr)

	assert.Equal(t, "QUERY_EXECUTION_FAILED", bpmnErr.Code)
	assert.True(t, bpmnErr.Retryable)
	assert.Equal(t, 3, bpmnErr.Retries)
	assert.Equal(t, "QUERY_EXECUTION_FAILED", bpmnErr.ErrorVariables["originalErrorCode"])
}

func TestConvertToBPMNError_BusinessErrorsNeverRetry(t *testing.T) {
	cases := []*StandardError{
		NewInvalidCriteriaFormatError("unknown category: nightlife"),
		NewInvalidQueryTypeError("drop-tables"),
		NewProfileNotFoundError("user-404"),
		NewResponseValidationFailedError("results is required"),
	}

	for _, stdErr := range cases {
		bpmnErr := ConvertToBPMNError(stdErr)
		assert.False(t, bpmnErr.Retryable, "code %s", stdErr.Code)
		assert.Zero(t, bpmnErr.Retries, "code %s", stdErr.Code)
	}
}

func TestGetRetryCount(t *testing.T) {
	assert.Equal(t, 3, GetRetryCount(ErrCodeNotificationSendFailed))
	assert.Equal(t, 2, GetRetryCount(ErrCodeQueryTimeout))
	assert.Equal(t, 2, GetRetryCount(ErrCodeGeocodeTimeout))
	assert.Equal(t, 1, GetRetryCount(ErrCodeGeocodeFailed))
	assert.Equal(t, 0, GetRetryCount(ErrCodeRankingFailed))
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeInvalidCriteriaFormat))
	assert.Equal(t, "DATABASE", GetErrorCategory(ErrCodeQueryTimeout))
	assert.Equal(t, "SEARCH", GetErrorCategory(ErrCodeIndexNotFound))
	assert.Equal(t, "GEO", GetErrorCategory(ErrCodeGeocodeFailed))
	assert.Equal(t, "NOTIFICATION", GetErrorCategory(ErrCodeNotificationSendFailed))
	assert.Equal(t, "RANKING", GetErrorCategory(ErrCodeMatchScoreFailed))
}

func TestErrorHandler_NormalizesUnknownErrors(t *testing.T) {
	h := NewErrorHandler(&noopLogger{})

	stdErr := h.normalizeError(fmt.Errorf("something unexpected"))
	require.NotNil(t, stdErr)
	assert.Equal(t, ErrorCode("INTERNAL_ERROR"), stdErr.Code)
	assert.False(t, stdErr.Retryable)

	original := NewGeocodeTimeoutError()
	assert.Same(t, original, h.normalizeError(original))
}

type noopLogger struct{}

func (*noopLogger) Error(string, map[string]interface{}) {}
