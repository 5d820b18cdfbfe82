// internal/common/errors/errors.go

// Package errors provides the standardized failure taxonomy for the loan
// application pipeline.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// ErrCodeValidationFailed marks input that violates amount/term
	// invariants. Never persisted, never retried automatically.
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"

	// ErrCodeApplicationNotFound marks a query for an applicant with no
	// record. A normal outcome, not a defect.
	ErrCodeApplicationNotFound ErrorCode = "APPLICATION_NOT_FOUND"

	// ErrCodePublishFailed marks a decision-request message that could not
	// be sent after a successful durable create. The record remains
	// pending but orphaned from automatic decisioning.
	ErrCodePublishFailed ErrorCode = "PUBLISH_FAILED"

	// ErrCodeStoreUnavailable marks a record store read/write failure.
	ErrCodeStoreUnavailable ErrorCode = "STORE_UNAVAILABLE"

	// ErrCodeCacheUnavailable marks a status cache read/write failure.
	ErrCodeCacheUnavailable ErrorCode = "CACHE_UNAVAILABLE"

	// ErrCodeMessageMalformed marks a channel payload that could not be
	// decoded or failed schema validation.
	ErrCodeMessageMalformed ErrorCode = "MESSAGE_MALFORMED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause for errors.Is/errors.As chains.
func (e *StandardError) Unwrap() error {
	return e.cause
}

// NewValidationError creates a non-retryable validation error.
func NewValidationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Application payload violates business rules",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewApplicationNotFoundError creates a non-retryable not-found error.
func NewApplicationNotFoundError(applicantID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeApplicationNotFound,
		Message:   "No application found for applicant",
		Details:   fmt.Sprintf("applicantId: %s", applicantID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewPublishFailedError creates a retryable publish error. The durable
// write already succeeded; only the asynchronous notification is lost.
func NewPublishFailedError(applicantID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodePublishFailed,
		Message:   "Failed to publish decision request",
		Details:   fmt.Sprintf("applicantId: %s, error: %s", applicantID, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewStoreUnavailableError creates a retryable record store error.
func NewStoreUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStoreUnavailable,
		Message:   "Record store operation failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewCacheUnavailableError creates a retryable status cache error.
func NewCacheUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCacheUnavailable,
		Message:   "Status cache operation failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewMessageMalformedError creates a non-retryable payload decode error.
func NewMessageMalformedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMessageMalformed,
		Message:   "Decision request payload is malformed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// CodeOf returns the error code when err is a StandardError, or an empty
// code otherwise.
func CodeOf(err error) ErrorCode {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr.Code
	}
	return ""
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool {
	return CodeOf(err) == ErrCodeValidationFailed
}

// IsNotFound reports whether err is an application-not-found failure.
func IsNotFound(err error) bool {
	return CodeOf(err) == ErrCodeApplicationNotFound
}

// IsPublishFailure reports whether err is a publish failure.
func IsPublishFailure(err error) bool {
	return CodeOf(err) == ErrCodePublishFailed
}

// IsRetryable reports whether the failure may succeed on a later attempt.
// Unknown errors are treated as non-retryable.
func IsRetryable(err error) bool {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr.Retryable
	}
	return false
}
