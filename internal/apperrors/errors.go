// Package apperrors provides the error taxonomy shared by the extraction,
// insight, and persistence layers. Every failure crossing a boundary is
// converted to an AppError with a stable code and a human-readable message;
// raw transport errors never reach callers.
package apperrors

import (
	"errors"
	"net/http"
)

// AppError is a structured application error with a stable code, a
// human-readable message, the HTTP status it maps to, and an optional
// wrapped internal error that is logged but never sent to clients.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps
// an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Is reports whether err carries the same code as sentinel.
func Is(err error, sentinel *AppError) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == sentinel.Code
	}
	return false
}

// Caller-side failures, detected before any network call.
var (
	ErrInvalidInput  = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrMisconfigured = &AppError{Code: "MISCONFIGURED", Message: "Required credential is not configured", StatusCode: http.StatusInternalServerError}
	ErrNoData        = &AppError{Code: "NO_DATA", Message: "No transactions to analyze", StatusCode: http.StatusBadRequest}
)

// Generation-service failures, distinguished by upstream cause so an
// operator can tell "not set up" from "transient".
var (
	ErrUnauthorized  = &AppError{Code: "UNAUTHORIZED", Message: "Invalid or missing API key", StatusCode: http.StatusUnauthorized}
	ErrRateLimited   = &AppError{Code: "RATE_LIMITED", Message: "Rate limit exceeded, try again later", StatusCode: http.StatusTooManyRequests}
	ErrBadRequest    = &AppError{Code: "BAD_REQUEST", Message: "Generation service rejected the request", StatusCode: http.StatusBadRequest}
	ErrEmptyResponse = &AppError{Code: "EMPTY_RESPONSE", Message: "Generation service returned no usable content", StatusCode: http.StatusBadGateway}
	ErrUpstream      = &AppError{Code: "UPSTREAM_ERROR", Message: "Generation service error", StatusCode: http.StatusBadGateway}
)

// Model-output validation failures. These describe upstream output, not
// caller input, so they surface as bad-gateway at the HTTP layer.
var (
	ErrMalformedJSON   = &AppError{Code: "MALFORMED_JSON", Message: "Model output is not valid JSON", StatusCode: http.StatusBadGateway}
	ErrSchemaViolation = &AppError{Code: "SCHEMA_VIOLATION", Message: "Model output does not match the expected schema", StatusCode: http.StatusBadGateway}
)

// General errors.
var (
	ErrTransactionNotFound = &AppError{Code: "TRANSACTION_NOT_FOUND", Message: "Transaction not found", StatusCode: http.StatusNotFound}
	ErrInternalServer      = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)
