package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("Validation Error")
	ErrConflict   = errors.New("conflict")
	ErrForbidden  = errors.New("forbidden")

	// Authentication taxonomy. These three cover every way a login or an
	// established session can fail:
	//
	//   ErrProfileIncomplete — the OAuth profile is missing a field we need.
	//     The login is rejected; no partial User is created.
	//   ErrStoreUnavailable  — a database call failed during authentication.
	//     Surfaces as a generic authentication failure, never retried here.
	//   ErrSessionInvalid    — the session references a user that no longer
	//     exists (or the token is damaged). Degrades silently to anonymous;
	//     the visitor sees a logged-out page, not an error.
	ErrProfileIncomplete = errors.New("profile incomplete")
	ErrStoreUnavailable  = errors.New("store unavailable")
	ErrSessionInvalid    = errors.New("session invalid")
)

type AppError struct {
	Err     error  // actual error
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

func Conflict(resource, id string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: fmt.Sprintf("%s conflict with id %s", resource, id),
	}
}

// Forbidden returns an AppError indicating the caller lacks permission.
// HTTP handlers map this to 403 Forbidden.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}

// ProfileIncomplete returns an AppError for an OAuth profile missing a
// required field. The field name is recorded for logging; the message shown
// to users stays generic.
func ProfileIncomplete(field string) *AppError {
	return &AppError{
		Err:     ErrProfileIncomplete,
		Message: "authentication failed",
		Field:   field,
	}
}

// StoreUnavailable wraps a database failure that occurred during
// authentication. The underlying error is kept for logs via Unwrap; the
// Message deliberately carries no store detail.
func StoreUnavailable(op string, err error) *AppError {
	return &AppError{
		Err:     fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, op, err),
		Message: "authentication failed",
	}
}

// SessionInvalid returns an AppError for a session that can no longer be
// resolved to a user. Callers treat this as "anonymous", not as an error
// the visitor should see.
func SessionInvalid(reason string) *AppError {
	return &AppError{
		Err:     ErrSessionInvalid,
		Message: reason,
	}
}
