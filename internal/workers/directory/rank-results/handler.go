// internal/workers/directory/rank-results/handler.go
package rankresults

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"lusotown-workers/internal/common/logger"
	"lusotown-workers/internal/common/metrics"
	"lusotown-workers/internal/directory/engine"
	"lusotown-workers/internal/directory/geo"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "rank-directory-results"
)

var (
	ErrNilInput = errors.New("input cannot be nil")
)

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
		h.failJob(client, job, "RANKING_FAILED", err.Error(), 0)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	start := time.Now()

	criteria, candidates := h.buildCriteria(input)

	result := engine.Run(candidates, criteria, h.logger)
	if result.Skipped > 0 {
		metrics.DirectoryRecordsSkipped.WithLabelValues(TaskType).Add(float64(result.Skipped))
	}

	totalCount := len(result.Entities)
	paged := h.paginate(result.Entities, input.ParsedCriteria.Pagination)

	h.logger.Info("results ranked", map[string]interface{}{
		"totalCount":     totalCount,
		"returned":       len(paged),
		"skippedRecords": result.Skipped,
		"sortApplied":    string(result.SortApplied),
		"durationMs":     time.Since(start).Milliseconds(),
	})

	return &Output{
		Results:        paged,
		TotalCount:     totalCount,
		SkippedRecords: result.Skipped,
		SortApplied:    string(result.SortApplied),
	}, nil
}

// buildCriteria maps the workflow criteria onto the engine's shape. A single
// requested category maps directly; several categories become an any-of
// pre-selection because the engine's category rule is a single exact match.
func (h *Handler) buildCriteria(input *Input) (engine.Criteria, []engine.Entity) {
	pc := input.ParsedCriteria

	criteria := engine.Criteria{
		Query:    pc.Query,
		City:     pc.City,
		SortBy:   engine.SortKey(pc.SortBy),
		RadiusKm: pc.RadiusKm,
		Language: pc.Language,
	}
	if criteria.SortBy == "" {
		criteria.SortBy = engine.SortRelevance
	}
	if pc.Origin != nil {
		criteria.Origin = &geo.Point{
			Latitude:  pc.Origin.Latitude,
			Longitude: pc.Origin.Longitude,
		}
	}

	candidates := input.Entities
	switch len(pc.Categories) {
	case 0:
	case 1:
		criteria.Category = pc.Categories[0]
	default:
		wanted := make(map[string]bool, len(pc.Categories))
		for _, c := range pc.Categories {
			wanted[c] = true
		}
		selected := make([]engine.Entity, 0, len(candidates))
		for _, e := range candidates {
			if wanted[e.Category] {
				selected = append(selected, e)
			}
		}
		candidates = selected
	}

	return criteria, candidates
}

func (h *Handler) paginate(results []engine.Entity, p Pagination) []engine.Entity {
	page := p.Page
	if page < 1 {
		page = 1
	}
	size := p.Size
	if size < 1 {
		size = h.config.MaxItems
	}
	if size > h.config.MaxItems {
		size = h.config.MaxItems
	}

	offset := (page - 1) * size
	if offset >= len(results) {
		return []engine.Entity{}
	}
	end := offset + size
	if end > len(results) {
		end = len(results)
	}
	return results[offset:end]
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
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
		h.logger.Error("failed to throw error", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
