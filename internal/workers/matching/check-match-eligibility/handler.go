package checkmatcheligibility

import (
	"context"
	"encoding/json"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	apperrors "mentor-matching/internal/common/errors"
	"mentor-matching/internal/common/logger"
	"mentor-matching/internal/common/metrics"
	"mentor-matching/internal/common/observability"
	"mentor-matching/internal/matching"
)

const (
	TaskType = "check-match-eligibility"
)

// Handler answers whether a subject may message a target: the target must be
// in the subject's current ranked list.
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

	var output *Output
	input, err := parseInput(job.Variables)
	if err == nil {
		output, err = h.execute(ctx, input)
	}

	status := "completed"
	if err != nil {
		status = "failed"
	}
	elapsed := time.Since(start)
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(elapsed.Seconds())
	if h.obs != nil {
		h.obs.RecordJobProcessed(ctx, TaskType, status)
		h.obs.RecordJobDuration(ctx, TaskType, elapsed, status)
	}

	if err != nil {
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	h.completeJob(client, job, output)
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

	eligible, result, err := h.ranker.IsRecommendable(ctx, input.SubjectID, input.TargetID, olderMentorPreferred)
	if err != nil {
		return nil, err
	}

	output := &Output{
		SubjectID: input.SubjectID,
		TargetID:  input.TargetID,
		Eligible:  eligible,
	}
	if result != nil {
		output.Percentage = result.Percentage
	}

	h.logger.Info("eligibility checked", map[string]interface{}{
		"subjectId":  input.SubjectID,
		"targetId":   input.TargetID,
		"eligible":   eligible,
		"percentage": output.Percentage,
	})
	return output, nil
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
