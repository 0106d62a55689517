package httputil

import (
	"errors"
	"net/http"
)

// Machine-readable error codes carried next to the human-readable message.
const (
	CodeInvalidRequestBody = "INVALID_REQUEST_BODY"
	CodeValidation         = "VALIDATION_ERROR"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeNotFound           = "NOT_FOUND"
	CodeTooManyRequests    = "TOO_MANY_REQUESTS"
	CodeInternalError      = "INTERNAL_ERROR"
)

// AppError is the classification an error carries across the API boundary.
// Services return these (directly or wrapped); RespondAppError is the single
// place that turns them into HTTP responses, so individual operations never
// hand-roll status mapping.
type AppError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// BadRequest classifies validation and business-rule violations (400).
func BadRequest(message string) *AppError {
	return &AppError{Status: http.StatusBadRequest, Code: CodeValidation, Message: message}
}

// Unauthorized classifies missing or invalid credentials (401).
func Unauthorized(message string) *AppError {
	return &AppError{Status: http.StatusUnauthorized, Code: CodeUnauthorized, Message: message}
}

// NotFound classifies absent entities (404).
func NotFound(message string) *AppError {
	return &AppError{Status: http.StatusNotFound, Code: CodeNotFound, Message: message}
}

// RespondAppError translates any error into a JSON response. Classified
// errors keep their status and message; everything else collapses to a 500
// carrying only the underlying message, never a stack trace.
func RespondAppError(w http.ResponseWriter, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		RespondErrorWithCode(w, appErr.Message, appErr.Code, appErr.Status)
		return
	}
	RespondErrorWithCode(w, err.Error(), CodeInternalError, http.StatusInternalServerError)
}
