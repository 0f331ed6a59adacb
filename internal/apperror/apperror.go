// Package apperror defines the application's error taxonomy.
//
// Every domain error wraps one of the sentinel errors below, so callers can
// classify any failure with errors.Is() no matter how many times it was
// wrapped with fmt.Errorf("...: %w", err) on the way up. The HTTP layer maps
// each sentinel to a status code in one place (handler/response.go).
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation error")
	ErrConflict   = errors.New("conflict")
	ErrForbidden  = errors.New("forbidden")

	// ErrAuthentication covers both "no such user" and "wrong password".
	// The two cases are deliberately indistinguishable to callers so that
	// error messages can't be used to enumerate accounts.
	ErrAuthentication = errors.New("authentication failed")

	// Session sentinels. All three resolve the same way for the user
	// (log in again) but are kept distinct so callers and tests can tell
	// WHY a token stopped working.
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
	ErrSessionInactive = errors.New("session inactive")
)

// AppError pairs a sentinel with a human-readable message.
type AppError struct {
	Err     error  // sentinel, reachable via errors.Is
	Message string // human-readable error message
	Field   string // optional: field causing a validation error
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

// Forbidden returns an AppError indicating the caller lacks permission.
// HTTP handlers map this to 403 Forbidden.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}

// DuplicateIdentity is returned when a signup collides with an existing
// username or email. The message names the field but not the existing value.
func DuplicateIdentity(field string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: fmt.Sprintf("%s is already taken", field),
		Field:   field,
	}
}

// AuthenticationFailed returns the single generic credentials error.
// It never says whether the identifier or the password was wrong.
func AuthenticationFailed() *AppError {
	return &AppError{
		Err:     ErrAuthentication,
		Message: "invalid username/email or password",
	}
}

// SessionNotFound is returned when a presented token matches no session row.
func SessionNotFound() *AppError {
	return &AppError{
		Err:     ErrSessionNotFound,
		Message: "session not found",
	}
}

// SessionExpired is returned when a session's expiry instant has passed.
func SessionExpired() *AppError {
	return &AppError{
		Err:     ErrSessionExpired,
		Message: "session expired, please log in again",
	}
}

// SessionInactive is returned for sessions ended by logout or deactivation.
func SessionInactive() *AppError {
	return &AppError{
		Err:     ErrSessionInactive,
		Message: "session is no longer active",
	}
}
