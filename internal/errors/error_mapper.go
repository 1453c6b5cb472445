package errors

import (
	"context"
	"errors"
	"net/http"
)

// MapError converts a technical error into a user-friendly AppError.
func MapError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	technicalMessage := err.Error()

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return &AppError{
			TechnicalMessage: technicalMessage,
			UserMessage:      MsgServiceUnavailable,
			Code:             ErrCodeQueryFailed,
			HTTPStatus:       http.StatusInternalServerError,
			OriginalError:    err,
		}
	default:
		return &AppError{
			TechnicalMessage: technicalMessage,
			UserMessage:      MsgInternalError,
			Code:             ErrCodeInternal,
			HTTPStatus:       http.StatusInternalServerError,
			OriginalError:    err,
		}
	}
}
