package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies an application error for clients and for HTTP mapping.
type Code string

const (
	CodeNotFound    Code = "NOT_FOUND"
	CodeValidation  Code = "VALIDATION_ERROR"
	CodeConflict    Code = "SCHEDULING_CONFLICT"
	CodePersistence Code = "PERSISTENCE_FAILURE"
)

// AppError represents an application error with a stable code, a
// client-facing message and an optional wrapped cause.
type AppError struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatus maps an error code to its response status.
func (e *AppError) HTTPStatus() int {
	switch e.Code {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeValidation:
		return http.StatusBadRequest
	case CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func NotFound(resource string) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s not found", resource),
	}
}

func Validation(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

func Conflict(message string) *AppError {
	return &AppError{
		Code:    CodeConflict,
		Message: message,
	}
}

func Persistence(err error) *AppError {
	return &AppError{
		Code:    CodePersistence,
		Message: "storage operation failed",
		Err:     err,
	}
}

// From extracts an *AppError from an error chain.
func From(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
