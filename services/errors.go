package services

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// AppError carries an HTTP status and a client-safe message. Err is for logs only.
type AppError struct {
	Status  int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

func newAppError(status int, message string, err error) *AppError {
	return &AppError{Status: status, Message: message, Err: err}
}

func Unauthenticated(message string) *AppError {
	return newAppError(http.StatusUnauthorized, message, nil)
}

func Forbidden(message string) *AppError {
	return newAppError(http.StatusForbidden, message, nil)
}

func NotFound(message string) *AppError {
	return newAppError(http.StatusNotFound, message, nil)
}

func BadRequest(message string) *AppError {
	return newAppError(http.StatusBadRequest, message, nil)
}

func Conflict(message string) *AppError {
	return newAppError(http.StatusConflict, message, nil)
}

func RangeNotSatisfiable(message string) *AppError {
	return newAppError(http.StatusRequestedRangeNotSatisfiable, message, nil)
}

// Internal hides err behind a generic message.
func Internal(err error, context string) *AppError {
	return newAppError(http.StatusInternalServerError, "Something went wrong!", errors.Wrap(err, context))
}

// StatusOf maps any error onto an HTTP status, defaulting to 500.
func StatusOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return http.StatusInternalServerError
}
