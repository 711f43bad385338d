// Package errors provides the unified error type and factory functions for the
// LaborGuard complaint service.  Every layer (domain, infrastructure,
// interfaces) uses AppError as the single carrier for structured error
// information, enabling consistent HTTP responses, logging, and metrics.
package errors

import (
	"errors"
	"fmt"
)

// AppError is the single structured error type used throughout the service.
// It satisfies the standard error interface and supports Go 1.13+ error
// wrapping so that errors.Is / errors.As / errors.Unwrap work transparently
// across all layers.
//
// Usage:
//
//	return errors.New(errors.ErrCodeComplaintNotFound, "complaint not found")
//	return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to query complaint")
//	return errors.NotFound("complaint not found").WithDetail("id=" + id)
type AppError struct {
	// Code is the typed error code that uniquely identifies the failure category.
	Code ErrorCode

	// Message is the primary human-readable description, suitable for
	// inclusion in API responses returned to callers.
	Message string

	// Detail carries supplementary context (entity IDs, parameter values)
	// that aids debugging without leaking internals to end users.
	Detail string

	// Cause is the underlying error that triggered this AppError.
	Cause error
}

// Error implements the standard error interface.
// Format: "[<code>] <message>: <detail>", the detail segment omitted when empty.
func (e *AppError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Detail)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause, enabling errors.Is / errors.As
// traversal of the full chain.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetail returns a shallow copy of the receiver with Detail set.
// Safe to call on a nil pointer.
func (e *AppError) WithDetail(detail string) *AppError {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Detail = detail
	return &clone
}

// New constructs a fresh AppError with the given code and message.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Newf constructs a fresh AppError with a formatted message.
func Newf(code ErrorCode, format string, args ...interface{}) *AppError {
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap constructs an AppError that wraps an existing error.  If err is nil,
// Wrap returns nil so it can be used inline on repository results.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Code: code, Message: message, Cause: err}
}

// IsCode reports whether any error in err's chain is an *AppError with the
// given code.
func IsCode(err error, code ErrorCode) bool {
	var ae *AppError
	for err != nil {
		if errors.As(err, &ae) && ae.Code == code {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

// GetCode extracts the ErrorCode from the first *AppError in err's chain.
// If no *AppError is present, ErrCodeInternal is returned.
func GetCode(err error) ErrorCode {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ErrCodeInternal
}

// IsNotFound reports whether err's chain carries any not-found code.
func IsNotFound(err error) bool {
	return IsCode(err, ErrCodeNotFound) ||
		IsCode(err, ErrCodeComplaintNotFound) ||
		IsCode(err, ErrCodeOfficerNotFound) ||
		IsCode(err, ErrCodeAppointmentNotFound)
}

// Convenience factories for the most common error conditions.  Each mirrors
// the taxonomy surfaced to API callers: validation (400), unauthenticated
// (401), forbidden (403), not found (404), invalid state (400), conflict
// (409), unavailable (503).

// Validation constructs an ErrCodeValidation AppError.
func Validation(format string, args ...interface{}) *AppError {
	return Newf(ErrCodeValidation, format, args...)
}

// Unauthenticated constructs an ErrCodeUnauthenticated AppError.
func Unauthenticated(message string) *AppError {
	return New(ErrCodeUnauthenticated, message)
}

// Forbidden constructs an ErrCodeForbidden AppError.
func Forbidden(message string) *AppError {
	return New(ErrCodeForbidden, message)
}

// NotFound constructs an ErrCodeNotFound AppError.  Prefer the module-specific
// codes (ErrCodeComplaintNotFound, ...) in domain services; this generic form
// is appropriate in repository and router layers.
func NotFound(message string) *AppError {
	return New(ErrCodeNotFound, message)
}

// InvalidState constructs an ErrCodeInvalidState AppError, used when an
// operation is not valid for the entity's current state.
func InvalidState(message string) *AppError {
	return New(ErrCodeInvalidState, message)
}

// Conflict constructs an ErrCodeConflict AppError.
func Conflict(message string) *AppError {
	return New(ErrCodeConflict, message)
}

// Unavailable constructs an ErrCodeUnavailable AppError.
func Unavailable(message string) *AppError {
	return New(ErrCodeUnavailable, message)
}

// Internal constructs an ErrCodeInternal AppError.  Always log the underlying
// cause before or after calling Internal.
func Internal(message string) *AppError {
	return New(ErrCodeInternal, message)
}
