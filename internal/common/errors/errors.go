// Package errors provides standardized error handling for the query pipeline.
package errors

import (
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeEntityResolutionFailed   ErrorCode = "ENTITY_RESOLUTION_FAILED"
	ErrCodeInferenceAPITimeout      ErrorCode = "INFERENCE_API_TIMEOUT"
	ErrCodeInferenceMalformedOutput ErrorCode = "INFERENCE_MALFORMED_OUTPUT"
	ErrCodeDataFetchFailed          ErrorCode = "DATA_FETCH_FAILED"
	ErrCodeUnexpectedError          ErrorCode = "UNEXPECTED_ERROR"
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

// NewEntityResolutionFailedError creates a retryable inference error. Without
// a resolved entity no further pipeline work is possible, so this one is
// surfaced rather than absorbed.
func NewEntityResolutionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeEntityResolutionFailed,
		Message:   "Inference service failed during entity resolution",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewInferenceAPITimeoutError creates a retryable inference timeout error.
func NewInferenceAPITimeoutError(stage string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInferenceAPITimeout,
		Message:   "Inference service call timed out",
		Details:   fmt.Sprintf("stage: %s", stage),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewInferenceMalformedOutputError creates a non-retryable error for an
// inference response that could not be parsed into the expected shape. This
// kind is always recovered locally and never surfaced to the user.
func NewInferenceMalformedOutputError(stage, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInferenceMalformedOutput,
		Message:   "Inference response did not match the expected shape",
		Details:   fmt.Sprintf("stage: %s, %s", stage, details),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDataFetchFailedError creates a retryable upstream fetch error carrying
// the entity name for the user-visible message.
func NewDataFetchFailedError(entity string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDataFetchFailed,
		Message:   "Upstream data source request failed",
		Details:   err.Error(),
		Retryable: true,
		Metadata:  map[string]interface{}{"entity": entity},
		Timestamp: time.Now().UTC(),
	}
}

// NewUnexpectedError wraps anything uncaught. Logged with full context,
// surfaced to the user as a generic apology.
func NewUnexpectedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnexpectedError,
		Message:   "Unexpected internal error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}
