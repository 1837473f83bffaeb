package errors

import (
	"context"
	"encoding/json"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"mentor-matching/internal/common/metrics"
)

// ErrorHandler turns worker errors into either a retried job failure or a
// thrown BPMN error.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Decision is what HandleJobError will send for an error on a job.
type Decision struct {
	StdErr  *StandardError
	BPMNErr *BPMNError
	// Retries is the retries left sent with a fail command; zero means throw.
	Retries int
}

// Decide normalizes err and chooses between retrying and throwing.
func (h *ErrorHandler) Decide(job entities.Job, err error) Decision {
	stdErr := FromMatchingError(err)
	bpmnErr := ConvertToBPMNError(stdErr)

	d := Decision{StdErr: stdErr, BPMNErr: bpmnErr}
	// The fail command carries the retries left after this attempt, so it
	// must shrink on every failure or the job never reaches the throw.
	remaining := int(job.Retries) - 1
	if bpmnErr.Retries > 0 && remaining > 0 {
		d.Retries = bpmnErr.Retries
		if remaining < d.Retries {
			d.Retries = remaining
		}
	}
	return d
}

// HandleJobError handles any error in a worker job.
func (h *ErrorHandler) HandleJobError(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	d := h.Decide(job, err)
	h.logError(job, d)
	metrics.WorkerJobsFailed.WithLabelValues(job.Type, string(d.StdErr.Code)).Inc()

	if d.Retries > 0 {
		h.failJobWithRetries(ctx, client, job, d.BPMNErr, d.Retries)
		return
	}
	h.throwBPMNError(ctx, client, job, d.BPMNErr)
}

func (h *ErrorHandler) failJobWithRetries(ctx context.Context, client worker.JobClient, job entities.Job, bpmnErr *BPMNError, retries int) {
	cmd := client.NewFailJobCommand().
		JobKey(job.Key).
		Retries(int32(retries)).
		ErrorMessage(bpmnErr.Message)

	if varsJSON, err := json.Marshal(bpmnErr.ToErrorVariables()); err == nil {
		if cmdWithVars, err := cmd.VariablesFromString(string(varsJSON)); err == nil {
			if _, err := cmdWithVars.Send(ctx); err != nil {
				h.logSendFailure(job, "fail", err)
			}
			return
		}
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logSendFailure(job, "fail", err)
	}
}

func (h *ErrorHandler) throwBPMNError(ctx context.Context, client worker.JobClient, job entities.Job, bpmnErr *BPMNError) {
	cmd := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(bpmnErr.Code).
		ErrorMessage(bpmnErr.Message)

	if varsJSON, err := json.Marshal(bpmnErr.ToErrorVariables()); err == nil {
		if cmdWithVars, err := cmd.VariablesFromString(string(varsJSON)); err == nil {
			if _, err := cmdWithVars.Send(ctx); err != nil {
				h.logSendFailure(job, "throw", err)
			}
			return
		}
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logSendFailure(job, "throw", err)
	}
}

func (h *ErrorHandler) logSendFailure(job entities.Job, command string, err error) {
	h.logger.Error("failed to send job command", map[string]interface{}{
		"jobKey":  job.Key,
		"command": command,
		"error":   err.Error(),
	})
}

func (h *ErrorHandler) logError(job entities.Job, d Decision) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":           job.Key,
		"jobType":          job.Type,
		"errorCode":        string(d.StdErr.Code),
		"bpmnErrorCode":    d.BPMNErr.Code,
		"message":          d.BPMNErr.Message,
		"details":          d.StdErr.Details,
		"retryable":        d.StdErr.Retryable,
		"retries":          d.Retries,
		"errorCategory":    GetErrorCategory(d.StdErr.Code),
		"workflowInstance": job.ProcessInstanceKey,
	})
}
