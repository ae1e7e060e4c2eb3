// internal/workers/infrastructure/build-search-response/handler.go
package buildsearchresponse

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"lusotown-workers/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/xeipuuv/gojsonschema"
)

const TaskType = "build-search-response"

var (
	ErrResponseValidationFailed = errors.New("RESPONSE_VALIDATION_FAILED")
)

// responseSchema is the contract the assembled search payload must satisfy
// before it leaves the workflow.
var responseSchema = map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"results", "totalCount", "skippedRecords", "sortApplied", "pagination"},
	"properties": map[string]interface{}{
		"results": map[string]interface{}{
			"type": "array",
			"items": map[string]interface{}{
				"type":     "object",
				"required": []interface{}{"id", "name"},
			},
		},
		"totalCount":     map[string]interface{}{"type": "integer", "minimum": 0},
		"skippedRecords": map[string]interface{}{"type": "integer", "minimum": 0},
		"sortApplied": map[string]interface{}{
			"type": "string",
			"enum": []interface{}{"relevance", "distance", "rating", "name", "newest"},
		},
		"pagination": map[string]interface{}{
			"type":     "object",
			"required": []interface{}{"page", "size"},
			"properties": map[string]interface{}{
				"page": map[string]interface{}{"type": "integer", "minimum": 1},
				"size": map[string]interface{}{"type": "integer", "minimum": 1},
			},
		},
	},
}

type Handler struct {
	config *Config
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err), 0)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, "RESPONSE_VALIDATION_FAILED", err.Error(), 0)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	results := input.Results
	if results == nil {
		results = []map[string]interface{}{}
	}

	pagination := input.Pagination
	if pagination.Page < 1 {
		pagination.Page = 1
	}
	if pagination.Size < 1 {
		pagination.Size = 20
	}

	sortApplied := input.SortApplied
	if sortApplied == "" {
		sortApplied = "relevance"
	}

	data := map[string]interface{}{
		"results":        results,
		"totalCount":     input.TotalCount,
		"skippedRecords": input.SkippedRecords,
		"sortApplied":    sortApplied,
		"pagination": map[string]interface{}{
			"page": pagination.Page,
			"size": pagination.Size,
		},
	}

	if err := h.validateData(data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResponseValidationFailed, err)
	}

	payload := ResponsePayload{
		RequestID: input.RequestID,
		Status:    "success",
		Data:      data,
		Metadata: ResponseMetadata{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Version:   h.config.AppVersion,
		},
	}

	return &Output{Response: payload}, nil
}

func (h *Handler) validateData(data map[string]interface{}) error {
	schemaLoader := gojsonschema.NewGoLoader(responseSchema)
	documentLoader := gojsonschema.NewGoLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("response validation failed: %v", errs)
	}

	return nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{"error": err})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{"error": err})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string, _ int32) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
	})

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(errorMessage).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{"error": err})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
