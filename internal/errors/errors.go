package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrTaskNotFound is returned when no task exists with the requested id.
	ErrTaskNotFound = errors.New("task not found")
	// ErrNotTaskOwner is returned when a task exists but belongs to another user.
	ErrNotTaskOwner = errors.New("not the task owner")
	// ErrUserNotFound is returned when the authenticated user's record is gone.
	ErrUserNotFound = errors.New("user not found")
	// ErrTitleRequired is returned when a write would leave a task without a title.
	ErrTitleRequired = errors.New("title is required")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. A task owned by someone
// else maps to 403, never 404: existence is already established at that point
// and a clear wrong-owner signal beats a misleading not-found.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrTaskNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "TASK_NOT_FOUND")
	case errors.Is(err, ErrNotTaskOwner):
		return NewHTTPError(http.StatusForbidden, err.Error(), "FORBIDDEN")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrTitleRequired):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "TITLE_REQUIRED")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
