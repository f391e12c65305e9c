package apperror

import "net/http"

// AppError is an error carrying the HTTP status code that should be
// reported to the caller. The wrapped error stays internal.
type AppError struct {
	Code    int    // HTTP status code (e.g., 400, 404, 409)
	Message string // User-facing error message
	Err     error  // Underlying error, if any (not exposed to user)
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with a status code and message.
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new AppError wrapping an existing error.
func Wrap(err error, code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Validation builds a 400 error for rejected input.
func Validation(message string) *AppError {
	return New(http.StatusBadRequest, message)
}

// NotFound builds a 404 error for a missing entity.
func NotFound(message string) *AppError {
	return New(http.StatusNotFound, message)
}

// Conflict builds a 409 error for state conflicts the caller may retry
// with different parameters (room unavailable, duplicate billing, ...).
func Conflict(message string) *AppError {
	return New(http.StatusConflict, message)
}
