// internal/workers/geo/resolve-origin/handler.go
package resolveorigin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"lusotown-workers/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "resolve-origin"
)

type Handler struct {
	config   *Config
	geocoder *Geocoder
	logger   logger.Logger
}

func NewHandler(config *Config, geocoder *Geocoder, log logger.Logger) *Handler {
	return &Handler{
		config:   config,
		geocoder: geocoder,
		logger:   log.WithFields(map[string]interface{}{"taskType": TaskType}),
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
		errorCode := "GEOCODE_FAILED"
		retries := int32(1)
		if errors.Is(err, ErrGeocodeTimeout) {
			errorCode = "GEOCODE_TIMEOUT"
			retries = 2
		}
		h.failJob(client, job, errorCode, err.Error(), retries)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	// Explicit coordinates win over free-text resolution.
	if input.Origin != nil {
		if input.Origin.Latitude < -90 || input.Origin.Latitude > 90 ||
			input.Origin.Longitude < -180 || input.Origin.Longitude > 180 {
			return &Output{OriginAvailable: false, Source: "none"}, nil
		}
		return &Output{OriginAvailable: true, Origin: input.Origin, Source: "input"}, nil
	}

	locationText := strings.TrimSpace(input.LocationText)
	if locationText == "" {
		return &Output{OriginAvailable: false, Source: "none"}, nil
	}

	origin, source, err := h.geocoder.Resolve(ctx, locationText)
	if err != nil {
		return nil, err
	}
	if origin == nil {
		// An unknown location is a valid outcome: searches proceed
		// without distance sorting or radius filtering.
		h.logger.Warn("location not resolvable", map[string]interface{}{
			"locationText": locationText,
		})
		return &Output{OriginAvailable: false, Source: "none"}, nil
	}

	return &Output{OriginAvailable: true, Origin: origin, Source: source}, nil
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

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string, retries int32) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
		"retries":      retries,
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
