// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"mentor-matching/internal/matching"
	"mentor-matching/internal/models"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeProfileNotFound         ErrorCode = "PROFILE_NOT_FOUND"
	ErrCodeUnknownCategory         ErrorCode = "UNKNOWN_CATEGORY"
	ErrCodeInvalidProfile          ErrorCode = "INVALID_PROFILE"
	ErrCodeInvalidInput            ErrorCode = "INVALID_INPUT"
	ErrCodeCandidateReadFailed     ErrorCode = "CANDIDATE_READ_FAILED"
	ErrCodeProfileStoreUnavailable ErrorCode = "PROFILE_STORE_UNAVAILABLE"
	ErrCodeQueryTimeout            ErrorCode = "QUERY_TIMEOUT"
	ErrCodeInternal                ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

func newError(code ErrorCode, message, details string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

func NewProfileNotFoundError(profileID string) *StandardError {
	return newError(ErrCodeProfileNotFound, "Profile not found", fmt.Sprintf("profileId: %s", profileID), false)
}

func NewUnknownCategoryError(details string) *StandardError {
	return newError(ErrCodeUnknownCategory, "Profile carries a value outside the known vocabulary", details, false)
}

func NewInvalidProfileError(details string) *StandardError {
	return newError(ErrCodeInvalidProfile, "Profile failed validation", details, false)
}

func NewInvalidInputError(details string) *StandardError {
	return newError(ErrCodeInvalidInput, "Job variables failed validation", details, false)
}

// NewCandidateReadFailedError is retryable; a single bad read usually clears on retry.
func NewCandidateReadFailedError(candidateID string, err error) *StandardError {
	return newError(ErrCodeCandidateReadFailed, "Candidate profile read failed",
		fmt.Sprintf("candidateId: %s, error: %s", candidateID, err.Error()), true)
}

func NewProfileStoreUnavailableError(err error) *StandardError {
	return newError(ErrCodeProfileStoreUnavailable, "Profile store unavailable", err.Error(), true)
}

func NewQueryTimeoutError(operation string) *StandardError {
	return newError(ErrCodeQueryTimeout, "Profile store query timeout", fmt.Sprintf("operation: %s", operation), true)
}

func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", err.Error(), false)
}

// FromMatchingError maps engine and store errors onto StandardError codes.
// A nil error maps to nil.
func FromMatchingError(err error) *StandardError {
	if err == nil {
		return nil
	}
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}

	switch {
	case stderrors.Is(err, matching.ErrProfileNotFound):
		return newError(ErrCodeProfileNotFound, "Profile not found", err.Error(), false)
	case stderrors.Is(err, matching.ErrUnknownCategory):
		return NewUnknownCategoryError(err.Error())
	case stderrors.Is(err, models.ErrInvalidRole):
		return NewInvalidProfileError(err.Error())
	case stderrors.Is(err, context.DeadlineExceeded):
		return newError(ErrCodeQueryTimeout, "Profile store query timeout", err.Error(), true)
	case stderrors.Is(err, matching.ErrStoreUnavailable):
		return NewProfileStoreUnavailableError(err)
	default:
		return NewInternalError(err)
	}
}

// BPMNErrorMapping maps internal error codes to BPMN error codes. They are
// identical today; the table exists so a process model can rename one.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeProfileNotFound:         "PROFILE_NOT_FOUND",
	ErrCodeUnknownCategory:         "UNKNOWN_CATEGORY",
	ErrCodeInvalidProfile:          "INVALID_PROFILE",
	ErrCodeInvalidInput:            "INVALID_INPUT",
	ErrCodeCandidateReadFailed:     "CANDIDATE_READ_FAILED",
	ErrCodeProfileStoreUnavailable: "PROFILE_STORE_UNAVAILABLE",
	ErrCodeQueryTimeout:            "QUERY_TIMEOUT",
	ErrCodeInternal:                "INTERNAL_ERROR",
}

// GetRetryCount returns the recommended retry count for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeCandidateReadFailed, ErrCodeProfileStoreUnavailable:
		return 3
	case ErrCodeQueryTimeout:
		return 2
	default:
		return 0
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "PROFILE") && !strings.Contains(codeStr, "STORE"):
		return "PROFILE"
	case strings.Contains(codeStr, "CATEGORY"):
		return "VOCABULARY"
	case strings.Contains(codeStr, "STORE") || strings.Contains(codeStr, "CANDIDATE") || strings.Contains(codeStr, "QUERY"):
		return "STORAGE"
	case strings.Contains(codeStr, "INPUT"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
