package service

import "errors"

// ValidationError rejects a malformed request before any database work
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var (
	// ErrConflict marks a transaction aborted by a lock timeout or deadlock.
	// The store is left unchanged, so the caller may safely retry.
	ErrConflict = errors.New("transaction conflict, safe to retry")

	// ErrInvalidCredentials is returned on a failed login attempt
	ErrInvalidCredentials = errors.New("invalid login or password")

	// ErrSessionInvalid is returned for tokens that match no session
	ErrSessionInvalid = errors.New("invalid token")

	// ErrSessionExpired is returned for sessions idle past the TTL
	ErrSessionExpired = errors.New("token expired")
)
