package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrInFlight is returned when the same action is already running for a caller.
	ErrInFlight = errors.New("Request already in progress")
	// ErrCorruptState is returned when persisted state cannot be decoded.
	ErrCorruptState = errors.New("corrupt persisted state")
)

// ValidationError is a bad input shape or a failed rule. Message is shown to the client as is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "validation failed"
}

func Validation(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// AuthError covers bad credentials and missing or invalid tokens.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "unauthorized"
}

type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "conflict"
}

type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// StatusCoder lets other packages attach an HTTP status to their own error types.
type StatusCoder interface {
	StatusCode() int
}

// Status maps err to an HTTP status code.
func Status(err error) int {
	var (
		ve *ValidationError
		ae *AuthError
		ce *ConflictError
		ne *NotFoundError
		sc StatusCoder
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.As(err, &ae):
		return http.StatusUnauthorized
	case errors.As(err, &ce), errors.Is(err, ErrInFlight):
		return http.StatusConflict
	case errors.As(err, &ne):
		return http.StatusNotFound
	case errors.As(err, &sc):
		return sc.StatusCode()
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the text safe to show to a client.
func Message(err error) string {
	if Status(err) >= http.StatusInternalServerError {
		return "Internal server error"
	}
	var (
		ve *ValidationError
		ae *AuthError
		ce *ConflictError
	)
	switch {
	case errors.As(err, &ve):
		return ve.Error()
	case errors.As(err, &ae):
		return ae.Error()
	case errors.As(err, &ce):
		return ce.Error()
	}
	return err.Error()
}
