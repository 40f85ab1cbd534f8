// Package common defines shared constants and sentinel errors used across
// the storymap client layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("already exists")

	// Storage bootstrap errors (reported when the local database cannot be
	// opened or initialized at all).
	ErrStorageUnavailable = errors.New("local storage unavailable")

	// Service-level errors.
	ErrInternal     = errors.New("internal error")
	ErrUnauthorized = errors.New("unauthorized")

	// Auth errors (missing or malformed token).
	ErrInvalidToken = errors.New("invalid token")
)
