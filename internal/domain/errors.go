package domain

import (
	"errors"
	"net/http"
)

// Sentinel errors for the error kinds the API distinguishes. Services wrap
// them in an APIError; handlers serialize a single response envelope.
var (
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
)

// APIError carries the HTTP status and message for the uniform error envelope.
type APIError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

func Validation(message string) *APIError {
	return &APIError{StatusCode: http.StatusBadRequest, Message: message, Err: ErrValidation}
}

func NotFound(message string) *APIError {
	return &APIError{StatusCode: http.StatusNotFound, Message: message, Err: ErrNotFound}
}

func Conflict(message string) *APIError {
	return &APIError{StatusCode: http.StatusConflict, Message: message, Err: ErrConflict}
}

func InvalidCredentials(message string) *APIError {
	return &APIError{StatusCode: http.StatusUnauthorized, Message: message, Err: ErrInvalidCredentials}
}

func Unauthorized(message string) *APIError {
	return &APIError{StatusCode: http.StatusUnauthorized, Message: message, Err: ErrUnauthorized}
}

func Internal(err error) *APIError {
	return &APIError{StatusCode: http.StatusInternalServerError, Message: "internal server error", Err: err}
}
