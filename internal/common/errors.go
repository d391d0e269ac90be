package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Session errors.
	ErrNotAuthenticated = errors.New("not authenticated")

	// Local-cache policy errors.
	ErrDuplicate = errors.New("already saved")
	ErrCapacity  = errors.New("capacity reached")
)
