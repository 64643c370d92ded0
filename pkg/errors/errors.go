package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrNotFound      = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrForbidden     = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrUnauthorized  = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrConflict      = New("CONFLICT", http.StatusConflict, "conflict")
	ErrValidation    = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal      = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
	ErrPrecondition  = New("PRECONDITION_ERROR", http.StatusBadRequest, "precondition failed")
	ErrConfiguration = New("CONFIGURATION_ERROR", http.StatusInternalServerError, "service not configured")
	ErrPersistence   = New("PERSISTENCE_ERROR", http.StatusInternalServerError, "failed to persist changes")
	ErrCacheMiss     = New("CACHE_MISS", http.StatusNotFound, "cache miss")

	// Upstream failures from the scoring model or the messaging API.
	ErrUpstream            = New("UPSTREAM_ERROR", http.StatusInternalServerError, "upstream service failed")
	ErrUpstreamUnavailable = New("UPSTREAM_UNAVAILABLE", http.StatusInternalServerError, "upstream service unreachable")
	ErrUpstreamTimeout     = New("UPSTREAM_TIMEOUT", http.StatusInternalServerError, "upstream service timed out")
	ErrInvalidAIResponse   = New("INVALID_AI_RESPONSE", http.StatusInternalServerError, "Invalid AI response format")
	ErrLimitReached        = New("LIMIT_REACHED", http.StatusTooManyRequests, "limit_reached")
)

// Is matches errors by code so cloned sentinels still compare equal.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

// Cause returns the message of the wrapped error, or the error's own message.
func (e *Error) Cause() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}
