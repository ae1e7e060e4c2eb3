// internal/workers/matching/calculate-compatibility/handler.go
package calculatecompatibility

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"lusotown-workers/internal/common/logger"
	"lusotown-workers/internal/matching"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "calculate-compatibility"
)

var (
	ErrMissingUserID = errors.New("userId is required")
)

type Handler struct {
	config *Config
	store  *ProfileStore
	logger logger.Logger
}

func NewHandler(config *Config, store *ProfileStore, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		store:  store,
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
		h.failJob(client, job, "MATCH_SCORE_FAILED", err.Error(), 0)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.UserID == "" {
		return nil, ErrMissingUserID
	}

	start := time.Now()

	candidateIDs := input.CandidateIDs
	if len(candidateIDs) > h.config.MaxCandidates {
		candidateIDs = candidateIDs[:h.config.MaxCandidates]
	}

	user, err := h.store.GetProfile(ctx, input.UserID)
	if errors.Is(err, ErrProfileNotFound) {
		// No profile to score against: every candidate gets the floor score
		// so the workflow can still proceed to notification gating.
		h.logger.Warn("user profile not found, returning floor scores", map[string]interface{}{
			"userId": input.UserID,
		})
		matches := make([]MatchResult, 0, len(candidateIDs))
		for _, candidateID := range candidateIDs {
			matches = append(matches, MatchResult{
				CandidateID:  candidateID,
				Score:        matching.MinScore(),
				Reasons:      []string{},
				ProfileFound: false,
			})
		}
		return &Output{UserID: input.UserID, Matches: matches}, nil
	}
	if err != nil {
		return nil, err
	}

	matches := make([]MatchResult, 0, len(candidateIDs))
	for _, candidateID := range candidateIDs {
		candidate, err := h.store.GetProfile(ctx, candidateID)
		if errors.Is(err, ErrProfileNotFound) {
			// A missing candidate profile gets the floor score, not a failure.
			matches = append(matches, MatchResult{
				CandidateID:  candidateID,
				Score:        matching.MinScore(),
				Reasons:      []string{},
				ProfileFound: false,
			})
			continue
		}
		if err != nil {
			return nil, err
		}

		result := matching.Score(*user, *candidate)
		matches = append(matches, MatchResult{
			CandidateID:  candidateID,
			Score:        result.Score,
			Reasons:      result.Reasons,
			ProfileFound: true,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	h.logger.Info("compatibility calculated", map[string]interface{}{
		"userId":     input.UserID,
		"candidates": len(candidateIDs),
		"durationMs": time.Since(start).Milliseconds(),
	})

	return &Output{UserID: input.UserID, Matches: matches}, nil
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
