package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrEmailTaken is returned when registering with an email or username
	// that already exists.
	ErrEmailTaken = errors.New("user already exists")
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrTaskNotFound is returned when a task is not found.
	ErrTaskNotFound = errors.New("task not found")
	// ErrAssigneeNotFound is returned when a task references an unknown assignee.
	ErrAssigneeNotFound = errors.New("assignee not found")
	// ErrPendingApproval is returned when an unapproved user attempts a
	// mutating operation.
	ErrPendingApproval = errors.New("user pending approval")
	// ErrAdminOnly is returned when a non-admin calls an admin operation.
	ErrAdminOnly = errors.New("admin access required")
	// ErrTaskNotVisible is returned when a task exists but the actor may not
	// see or touch it.
	ErrTaskNotVisible = errors.New("task not accessible")
	// ErrValidation is returned when a payload is missing required fields or
	// carries unknown ones.
	ErrValidation = errors.New("invalid payload")
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid email or password")
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

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrEmailTaken):
		return NewHTTPError(http.StatusConflict, err.Error(), "USER_ALREADY_EXISTS")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrTaskNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "TASK_NOT_FOUND")
	case errors.Is(err, ErrAssigneeNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "ASSIGNEE_NOT_FOUND")
	case errors.Is(err, ErrPendingApproval):
		return NewHTTPError(http.StatusForbidden, err.Error(), "PENDING_APPROVAL")
	case errors.Is(err, ErrAdminOnly):
		return NewHTTPError(http.StatusForbidden, err.Error(), "ADMIN_ONLY")
	case errors.Is(err, ErrTaskNotVisible):
		return NewHTTPError(http.StatusForbidden, err.Error(), "TASK_FORBIDDEN")
	case errors.Is(err, ErrValidation):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "VALIDATION_FAILED")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_CREDENTIALS")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
