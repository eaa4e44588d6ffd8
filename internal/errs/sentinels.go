// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across repo/service/sync layers.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates a unique constraint violation.
	ErrAlreadyExists = errors.New("already exists")

	// ErrNotAuthenticated indicates the calendar provider has no usable credentials.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrSyncTokenExpired indicates the remote calendar invalidated the sync token
	// (HTTP 410 Gone); callers clear the token and re-acquire on the next pass.
	ErrSyncTokenExpired = errors.New("sync token expired")

	// ErrSyncInProgress indicates a sync pass is already in flight.
	ErrSyncInProgress = errors.New("sync already in progress")
)
