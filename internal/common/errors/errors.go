// Package errors provides custom error types for the boardio application.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes as constants
const (
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeBadRequest         = "BAD_REQUEST"
	ErrCodeValidationError    = "VALIDATION_ERROR"
	ErrCodeParseError         = "PARSE_ERROR"
	ErrCodePreconditionFailed = "PRECONDITION_FAILED"
	ErrCodePersistenceError   = "PERSISTENCE_ERROR"
	ErrCodeInternalError      = "INTERNAL_ERROR"
)

// AppError represents an application-specific error with additional context.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"http_status"`
	Err        error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error for use with errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound creates a new not found error for a resource.
func NotFound(resource string, id string) *AppError {
	return &AppError{
		Code:       ErrCodeNotFound,
		Message:    fmt.Sprintf("%s with id '%s' not found", resource, id),
		HTTPStatus: http.StatusNotFound,
	}
}

// BadRequest creates a new bad request error.
func BadRequest(message string) *AppError {
	return &AppError{
		Code:       ErrCodeBadRequest,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// ValidationError creates an error for a schema-validation failure. The
// message is the validator's verbatim output; callers surface it untouched.
func ValidationError(message string) *AppError {
	return &AppError{
		Code:       ErrCodeValidationError,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// ParseError creates an error for unparsable input.
func ParseError(message string) *AppError {
	return &AppError{
		Code:       ErrCodeParseError,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// PreconditionFailed creates an error for a fatal mapping precondition,
// such as an unresolvable status property on a BPMN export.
func PreconditionFailed(message string, err error) *AppError {
	return &AppError{
		Code:       ErrCodePreconditionFailed,
		Message:    message,
		HTTPStatus: http.StatusUnprocessableEntity,
		Err:        err,
	}
}

// PersistenceError creates an error for a failed downstream persistence call.
func PersistenceError(message string, err error) *AppError {
	return &AppError{
		Code:       ErrCodePersistenceError,
		Message:    message,
		HTTPStatus: http.StatusBadGateway,
		Err:        err,
	}
}

// InternalError creates a new internal server error with a wrapped underlying error.
func InternalError(message string, err error) *AppError {
	return &AppError{
		Code:       ErrCodeInternalError,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError converts an error to an AppError, or wraps it as an internal
// error when it is not one.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return InternalError("unexpected error", err)
}
