// internal/common/errors/handler.go
package errors

import (
	"time"
)

// Logger is the subset of logger.Logger the handler needs.
type Logger interface {
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// ErrorHandler normalizes and logs errors raised by pipeline actions.
type ErrorHandler struct {
	logger Logger
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Handle returns err as a StandardError and logs it once.
func (h *ErrorHandler) Handle(action string, err error) *StandardError {
	stdErr := h.normalizeError(err)

	fields := map[string]interface{}{
		"action":        action,
		"errorCode":     string(stdErr.Code),
		"message":       stdErr.Message,
		"details":       stdErr.Details,
		"retryable":     stdErr.Retryable,
		"errorCategory": GetErrorCategory(stdErr.Code),
	}
	if stdErr.StatusCode != 0 {
		fields["status"] = stdErr.StatusCode
	}

	// User errors are expected; only upstream trouble is logged at error level.
	switch stdErr.Code {
	case ErrCodeEmptySelection, ErrCodeActionInFlight, ErrCodeInvalidPayload:
		h.logger.Warn("Action rejected", fields)
	default:
		h.logger.Error("Action failed", fields)
	}
	return stdErr
}

func (h *ErrorHandler) normalizeError(err error) *StandardError {
	if stdErr, ok := AsStandard(err); ok {
		return stdErr
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}
