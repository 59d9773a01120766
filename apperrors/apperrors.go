// apperrors/apperrors.go - Typed errors shared by services and handlers
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error.
type Kind string

const (
	KindNotFound     Kind = "not_found"
	KindUnauthorized Kind = "unauthorized"
	KindConflict     Kind = "conflict"
	KindInvalidState Kind = "invalid_state"
	KindValidation   Kind = "validation"
	KindInternal     Kind = "internal"
)

// AppError is a structured application error carrying the kind, a
// user-facing message and the HTTP status it maps to.
type AppError struct {
	Kind       Kind
	Message    string
	StatusCode int
	Internal   error
}

func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Kind, e.Message, e.Internal)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Internal
}

func NewNotFound(message string) *AppError {
	return &AppError{Kind: KindNotFound, Message: message, StatusCode: http.StatusNotFound}
}

func NewUnauthorized(message string) *AppError {
	return &AppError{Kind: KindUnauthorized, Message: message, StatusCode: http.StatusForbidden}
}

func NewConflict(message string) *AppError {
	return &AppError{Kind: KindConflict, Message: message, StatusCode: http.StatusConflict}
}

func NewInvalidState(message string) *AppError {
	return &AppError{Kind: KindInvalidState, Message: message, StatusCode: http.StatusConflict}
}

func NewValidation(message string) *AppError {
	return &AppError{Kind: KindValidation, Message: message, StatusCode: http.StatusBadRequest}
}

func NewInternal(message string, internal error) *AppError {
	return &AppError{Kind: KindInternal, Message: message, StatusCode: http.StatusInternalServerError, Internal: internal}
}

// Status returns the HTTP status for err, defaulting to 500 for errors that
// are not AppErrors.
func Status(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}

// Message returns the user-facing message for err.
func Message(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal server error"
}

// IsKind reports whether err is an AppError of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}
