// internal/workers/directory/parse-search-criteria/handler.go
package parsesearchcriteria

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"lusotown-workers/internal/common/logger"
	"lusotown-workers/internal/directory/engine"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "parse-search-criteria"

var (
	ErrInvalidCriteriaFormat = errors.New("INVALID_CRITERIA_FORMAT")
)

var validCategories = map[string]bool{
	"restaurants": true, "cafes": true, "groceries": true, "services": true,
	"cultural": true, "health": true, "education": true, "events": true,
	"retail": true, "professional": true,
}

var validLanguages = map[string]bool{
	"en": true, "pt": true,
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
		h.failJob(client, job, "INVALID_CRITERIA_FORMAT", err.Error(), 0)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	if input.RawCriteria == nil {
		input.RawCriteria = make(map[string]interface{})
	}

	parsed := ParsedCriteria{
		Query:      "",
		Categories: []string{},
		City:       "",
		SortBy:     string(engine.SortRelevance),
		RadiusKm:   0,
		Language:   h.config.DefaultLanguage,
		Pagination: Pagination{Page: 1, Size: h.config.DefaultPageSize},
	}

	if queryRaw, ok := input.RawCriteria["query"]; ok {
		if s, ok := queryRaw.(string); ok {
			parsed.Query = strings.TrimSpace(s)
		}
	}

	if categoriesRaw, ok := input.RawCriteria["categories"]; ok {
		parsed.Categories = h.parseStringArray(categoriesRaw)
		for _, cat := range parsed.Categories {
			if !validCategories[cat] {
				return nil, fmt.Errorf("%w: invalid category '%s'", ErrInvalidCriteriaFormat, cat)
			}
		}
	}

	if cityRaw, ok := input.RawCriteria["city"]; ok {
		if s, ok := cityRaw.(string); ok {
			parsed.City = strings.TrimSpace(s)
		}
	}

	if sortByRaw, ok := input.RawCriteria["sortBy"]; ok {
		if s, ok := sortByRaw.(string); ok {
			s = strings.TrimSpace(strings.ToLower(s))
			if !engine.ValidSortKeys[engine.SortKey(s)] {
				return nil, fmt.Errorf("%w: invalid sortBy '%s'", ErrInvalidCriteriaFormat, s)
			}
			parsed.SortBy = s
		}
	}

	if originRaw, ok := input.RawCriteria["origin"]; ok {
		origin, err := h.parseOrigin(originRaw)
		if err != nil {
			return nil, err
		}
		parsed.Origin = origin
	}

	if radiusRaw, ok := input.RawCriteria["radiusKm"]; ok {
		if radius, err := h.parseFloat(radiusRaw); err == nil {
			if radius < 0 {
				return nil, fmt.Errorf("%w: negative radiusKm", ErrInvalidCriteriaFormat)
			}
			if radius > h.config.MaxRadiusKm {
				radius = h.config.MaxRadiusKm
			}
			parsed.RadiusKm = radius
		}
	}

	if langRaw, ok := input.RawCriteria["language"]; ok {
		if s, ok := langRaw.(string); ok {
			s = strings.TrimSpace(strings.ToLower(s))
			if validLanguages[s] {
				parsed.Language = s
			}
		}
	}

	if paginationRaw, ok := input.RawCriteria["pagination"]; ok {
		if pgMap, ok := paginationRaw.(map[string]interface{}); ok {
			if pageRaw, exists := pgMap["page"]; exists {
				if page, err := h.parseInt(pageRaw); err == nil && page >= 1 {
					parsed.Pagination.Page = page
				}
			}
			if sizeRaw, exists := pgMap["size"]; exists {
				if size, err := h.parseInt(sizeRaw); err == nil && size >= 1 {
					if size > h.config.MaxPageSize {
						size = h.config.MaxPageSize
					}
					parsed.Pagination.Size = size
				}
			}
		}
	}

	h.logger.Info("criteria parsed successfully", map[string]interface{}{
		"query":      parsed.Query,
		"categories": parsed.Categories,
		"city":       parsed.City,
		"sortBy":     parsed.SortBy,
		"radiusKm":   parsed.RadiusKm,
		"language":   parsed.Language,
		"pagination": parsed.Pagination,
	})

	return &Output{ParsedCriteria: parsed}, nil
}

func (h *Handler) parseOrigin(raw interface{}) (*GeoOrigin, error) {
	originMap, ok := raw.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: origin must be an object", ErrInvalidCriteriaFormat)
	}

	lat, latErr := h.parseFloat(originMap["latitude"])
	lon, lonErr := h.parseFloat(originMap["longitude"])
	if latErr != nil || lonErr != nil {
		return nil, fmt.Errorf("%w: origin requires numeric latitude and longitude", ErrInvalidCriteriaFormat)
	}

	if lat < -90 || lat > 90 {
		return nil, fmt.Errorf("%w: latitude %.4f out of range", ErrInvalidCriteriaFormat, lat)
	}
	if lon < -180 || lon > 180 {
		return nil, fmt.Errorf("%w: longitude %.4f out of range", ErrInvalidCriteriaFormat, lon)
	}

	return &GeoOrigin{Latitude: lat, Longitude: lon}, nil
}

func (h *Handler) parseStringArray(raw interface{}) []string {
	// Always return non-nil slice
	result := []string{}

	if raw == nil {
		return result
	}

	seen := make(map[string]bool) // For deduplication

	appendTrimmed := func(s string) {
		trimmed := strings.TrimSpace(strings.ToLower(s))
		if trimmed != "" && !seen[trimmed] {
			result = append(result, trimmed)
			seen[trimmed] = true
		}
	}

	switch v := raw.(type) {
	case string:
		if v != "" {
			for _, s := range strings.Split(v, ",") {
				appendTrimmed(s)
			}
		}
	case []interface{}:
		for _, item := range v {
			if s, ok := item.(string); ok {
				appendTrimmed(s)
			}
		}
	case []string:
		for _, s := range v {
			appendTrimmed(s)
		}
	}

	return result
}

func (h *Handler) parseInt(raw interface{}) (int, error) {
	if raw == nil {
		return 0, errors.New("cannot parse nil as integer")
	}

	switch v := raw.(type) {
	case float64:
		if v < 0 || v != float64(int(v)) {
			return 0, errors.New("not a valid positive integer")
		}
		return int(v), nil
	case int:
		if v < 0 {
			return 0, errors.New("negative integer not allowed")
		}
		return v, nil
	case int64:
		if v < 0 {
			return 0, errors.New("negative integer not allowed")
		}
		return int(v), nil
	default:
		return 0, errors.New("not a number")
	}
}

func (h *Handler) parseFloat(raw interface{}) (float64, error) {
	if raw == nil {
		return 0, errors.New("cannot parse nil as number")
	}

	switch v := raw.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	default:
		return 0, errors.New("not a number")
	}
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
