package domain

import "errors"

var (
	// ErrSessionExpired is returned after a 401 forced the local session to
	// be cleared. The stale token is gone by the time callers see this.
	ErrSessionExpired = errors.New("session expired, please login again")

	// ErrNoSession means no user record is cached locally.
	ErrNoSession = errors.New("no active session")

	// ErrKeyNotFound means the session store has no value for a key.
	ErrKeyNotFound = errors.New("key not found")

	// ErrStorageUnavailable wraps session store failures. Callers log it and
	// treat the read as a cache miss; it is never shown to the user.
	ErrStorageUnavailable = errors.New("session storage unavailable")

	// ErrInvalidTransition is returned when a booking status change is
	// requested that the client-side state machine does not allow.
	ErrInvalidTransition = errors.New("invalid booking status transition")

	// ErrNotArtisan guards artisan-only operations.
	ErrNotArtisan = errors.New("operation requires an artisan account")
)
