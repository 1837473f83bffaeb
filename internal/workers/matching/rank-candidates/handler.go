package rankcandidates

import (
	"context"
	"encoding/json"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"

	apperrors "mentor-matching/internal/common/errors"
	"mentor-matching/internal/common/logger"
	"mentor-matching/internal/common/metrics"
	"mentor-matching/internal/common/observability"
	"mentor-matching/internal/matching"
)

const (
	TaskType = "rank-candidates"
)

type Handler struct {
	config       *Config
	ranker       *matching.Ranker
	errorHandler *apperrors.ErrorHandler
	obs          *observability.Observability
	logger       logger.Logger
}

func NewHandler(config *Config, ranker *matching.Ranker, obs *observability.Observability, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		ranker:       ranker,
		errorHandler: apperrors.NewErrorHandler(l),
		obs:          obs,
		logger:       l,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.run(ctx, job.Variables)
	if err != nil {
		h.record(ctx, start, "failed", 0)
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return
	}

	h.record(ctx, start, "completed", len(output.Matches))
	h.completeJob(client, job, output)
}

func (h *Handler) run(ctx context.Context, variables string) (*Output, error) {
	input, err := parseInput(variables)
	if err != nil {
		return nil, err
	}
	return h.execute(ctx, input)
}

func parseInput(variables string) (*Input, error) {
	if res := inputSchema.ValidateJSON(variables); !res.Valid {
		return nil, apperrors.NewInvalidInputError(res.Summary())
	}
	var input Input
	if err := json.Unmarshal([]byte(variables), &input); err != nil {
		return nil, apperrors.NewInvalidInputError(err.Error())
	}
	return &input, nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	olderMentorPreferred := h.config.OlderMentorPreferred
	if input.OlderMentorPreferred != nil {
		olderMentorPreferred = *input.OlderMentorPreferred
	}

	ranked, err := h.ranker.RankCandidates(ctx, input.SubjectID, olderMentorPreferred)
	if err != nil {
		return nil, err
	}

	page := paginate(ranked, input.Offset, h.limit(input.Limit))
	matches := make([]Match, 0, len(page))
	for _, r := range page {
		matches = append(matches, Match{
			CandidateID:      r.Candidate.ID,
			DisplayName:      r.Candidate.DisplayName(),
			Score:            r.Score,
			Percentage:       r.Percentage,
			Strength:         matching.StrengthLabel(r.Percentage),
			Reasons:          r.Reasons,
			ReasonCategories: matching.ReasonCategories(r.Reasons),
		})
	}

	output := &Output{
		RankingID: uuid.New().String(),
		SubjectID: input.SubjectID,
		Total:     len(ranked),
		Matches:   matches,
	}
	h.logger.Info("candidates ranked", map[string]interface{}{
		"rankingId": output.RankingID,
		"subjectId": input.SubjectID,
		"total":     output.Total,
		"returned":  len(matches),
	})
	return output, nil
}

func (h *Handler) limit(requested int) int {
	if requested <= 0 || (h.config.MaxItems > 0 && requested > h.config.MaxItems) {
		return h.config.MaxItems
	}
	return requested
}

func paginate(ranked []matching.MatchResult, offset, limit int) []matching.MatchResult {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(ranked) {
		return nil
	}
	end := len(ranked)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return ranked[offset:end]
}

func (h *Handler) record(ctx context.Context, start time.Time, status string, matches int) {
	elapsed := time.Since(start)
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(elapsed.Seconds())
	if status == "completed" {
		metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	}
	if h.obs != nil {
		h.obs.RecordJobProcessed(ctx, TaskType, status)
		h.obs.RecordJobDuration(ctx, TaskType, elapsed, status)
		h.obs.RecordMatchesReturned(ctx, TaskType, matches)
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
	if _, err := cmd.Send(context.Background()); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
