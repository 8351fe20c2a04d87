// Package errors provides the error taxonomy shared by the advisor pipeline.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeEmptySelection ErrorCode = "EMPTY_SELECTION"
	ErrCodeNetworkFailure ErrorCode = "NETWORK_FAILURE"
	ErrCodeHTTPError      ErrorCode = "HTTP_ERROR"
	ErrCodeActionInFlight ErrorCode = "ACTION_IN_FLIGHT"
	ErrCodeInvalidPayload ErrorCode = "INVALID_PAYLOAD"
	ErrCodeDecodeFailed   ErrorCode = "DECODE_FAILED"
	ErrCodeInternal       ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code       ErrorCode              `json:"code"`
	Message    string                 `json:"message"`
	Details    string                 `json:"details,omitempty"`
	StatusCode int                    `json:"statusCode,omitempty"`
	Body       string                 `json:"body,omitempty"`
	Retryable  bool                   `json:"retryable"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	Timestamp  time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// ==========================
// 2. Error Constructors
// ==========================

// NewEmptySelectionError is returned when an action needs an image and none is selected.
func NewEmptySelectionError() *StandardError {
	return &StandardError{
		Code:      ErrCodeEmptySelection,
		Message:   "No image selected",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewNetworkFailureError wraps a transport-level failure (no response received).
func NewNetworkFailureError(endpoint string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNetworkFailure,
		Message:   "Request to backend failed",
		Details:   err.Error(),
		Retryable: true,
		Metadata:  map[string]interface{}{"endpoint": endpoint},
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewHTTPError records a non-2xx response together with its body text.
func NewHTTPError(endpoint string, status int, body string) *StandardError {
	return &StandardError{
		Code:       ErrCodeHTTPError,
		Message:    "Backend returned an error status",
		Details:    fmt.Sprintf("status %d", status),
		StatusCode: status,
		Body:       body,
		Retryable:  status >= 500 || status == 429,
		Metadata:   map[string]interface{}{"endpoint": endpoint},
		Timestamp:  time.Now().UTC(),
	}
}

// NewActionInFlightError is returned when a trigger overlaps an in-flight action.
func NewActionInFlightError(action string) *StandardError {
	return &StandardError{
		Code:      ErrCodeActionInFlight,
		Message:   "Action already in flight",
		Details:   action,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidPayloadError is returned when a request payload fails local validation.
func NewInvalidPayloadError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidPayload,
		Message:   "Invalid payload",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDecodeFailedError is returned when a 2xx response body is not the expected JSON.
func NewDecodeFailedError(endpoint string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDecodeFailed,
		Message:   "Could not decode backend response",
		Details:   err.Error(),
		Retryable: false,
		Metadata:  map[string]interface{}{"endpoint": endpoint},
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// AsStandard finds the first StandardError in err's chain.
func AsStandard(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code ErrorCode) bool {
	stdErr, ok := AsStandard(err)
	return ok && stdErr.Code == code
}

// IsRetryable reports whether a retry of the same request may succeed.
func IsRetryable(err error) bool {
	stdErr, ok := AsStandard(err)
	return ok && stdErr.Retryable
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "NETWORK") || strings.Contains(codeStr, "HTTP") || strings.Contains(codeStr, "DECODE"):
		return "UPSTREAM"
	case strings.Contains(codeStr, "SELECTION") || strings.Contains(codeStr, "INVALID"):
		return "VALIDATION"
	case strings.Contains(codeStr, "IN_FLIGHT"):
		return "CONCURRENCY"
	default:
		return "OTHER"
	}
}
