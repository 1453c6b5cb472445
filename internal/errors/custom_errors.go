package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError represents a structured application error with user-friendly and technical details.
type AppError struct {
	TechnicalMessage string
	UserMessage      string
	Code             string
	HTTPStatus       int
	OriginalError    error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.OriginalError == nil {
		return e.TechnicalMessage
	}
	return fmt.Sprintf("%s: %v", e.TechnicalMessage, e.OriginalError)
}

// Unwrap returns the original error for error chaining.
func (e *AppError) Unwrap() error {
	return e.OriginalError
}

// NewAppError creates a new AppError instance.
func NewAppError(technicalMessage, userMessage, code string, status int, originalErr error) *AppError {
	return &AppError{
		TechnicalMessage: technicalMessage,
		UserMessage:      userMessage,
		Code:             code,
		HTTPStatus:       status,
		OriginalError:    originalErr,
	}
}

// Common error codes
const (
	ErrCodeStoreUnavailable = "STORE_UNAVAILABLE"
	ErrCodeQueryFailed      = "QUERY_FAILED"
	ErrCodeRateLimited      = "RATE_LIMITED"
	ErrCodeInternal         = "INTERNAL_ERROR"
)

// NewConnectionError reports a listing store that is unreachable or misconfigured.
func NewConnectionError(technicalMessage string, err error) *AppError {
	return NewAppError(technicalMessage, MsgServiceUnavailable, ErrCodeStoreUnavailable, http.StatusInternalServerError, err)
}

// NewQueryError reports a query the store rejected or failed to run.
func NewQueryError(technicalMessage string, err error) *AppError {
	return NewAppError(technicalMessage, MsgServiceUnavailable, ErrCodeQueryFailed, http.StatusInternalServerError, err)
}

// IsConnectionError reports whether err carries a ConnectionError.
func IsConnectionError(err error) bool {
	return hasCode(err, ErrCodeStoreUnavailable)
}

// IsQueryError reports whether err carries a QueryError.
func IsQueryError(err error) bool {
	return hasCode(err, ErrCodeQueryFailed)
}

func hasCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}
