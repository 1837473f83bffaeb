package calculatematchscore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	apperrors "mentor-matching/internal/common/errors"
	"mentor-matching/internal/common/logger"
	"mentor-matching/internal/common/metrics"
	"mentor-matching/internal/common/observability"
	"mentor-matching/internal/matching"
	"mentor-matching/internal/models"
)

const (
	TaskType = "calculate-match-score"
)

// ProfileSource resolves profiles named by id in the job variables.
type ProfileSource interface {
	GetSubjectProfile(ctx context.Context, id string) (*models.Profile, error)
}

type Handler struct {
	config       *Config
	profiles     ProfileSource
	calculator   *matching.Calculator
	errorHandler *apperrors.ErrorHandler
	obs          *observability.Observability
	logger       logger.Logger
}

func NewHandler(config *Config, profiles ProfileSource, calculator *matching.Calculator, obs *observability.Observability, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		profiles:     profiles,
		calculator:   calculator,
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

func (h *Handler) run(ctx context.Context, variables string) (*Output, error) {
	input, err := parseInput(variables)
	if err != nil {
		return nil, err
	}
	return h.execute(ctx, input)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	subject, err := h.resolve(ctx, input.SubjectProfile, input.SubjectID, "subject")
	if err != nil {
		return nil, err
	}
	candidate, err := h.resolve(ctx, input.CandidateProfile, input.CandidateID, "candidate")
	if err != nil {
		return nil, err
	}

	if subject.ID == candidate.ID {
		return nil, apperrors.NewInvalidProfileError(fmt.Sprintf("profile %s cannot be scored against itself", subject.ID))
	}
	if candidate.Role() != subject.Role().Opposite() {
		return nil, apperrors.NewInvalidProfileError(fmt.Sprintf(
			"candidate %s is a %s, subject %s needs a %s",
			candidate.ID, candidate.Role(), subject.ID, subject.Role().Opposite()))
	}

	olderMentorPreferred := h.config.OlderMentorPreferred
	if input.OlderMentorPreferred != nil {
		olderMentorPreferred = *input.OlderMentorPreferred
	}

	result, err := h.calculator.Calculate(subject, candidate, olderMentorPreferred)
	if err != nil {
		return nil, err
	}

	h.logger.Info("match score calculated", map[string]interface{}{
		"subjectId":   subject.ID,
		"candidateId": candidate.ID,
		"score":       result.Score,
		"percentage":  result.Percentage,
	})

	return &Output{
		SubjectID:        subject.ID,
		CandidateID:      candidate.ID,
		Score:            result.Score,
		Percentage:       result.Percentage,
		Strength:         matching.StrengthLabel(result.Percentage),
		Reasons:          result.Reasons,
		ReasonCategories: matching.ReasonCategories(result.Reasons),
	}, nil
}

func (h *Handler) resolve(ctx context.Context, inline *models.Profile, id, side string) (*models.Profile, error) {
	p := inline
	if p == nil {
		if id == "" {
			return nil, apperrors.NewInvalidInputError(side + "Id or " + side + "Profile is required")
		}
		var err error
		if p, err = h.profiles.GetSubjectProfile(ctx, id); err != nil {
			return nil, err
		}
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
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
