// Package common defines shared constants and sentinel errors used across
// the server layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound    = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")

	// Auth errors. Every token verification failure wraps ErrInvalidToken.
	ErrInvalidToken  = errors.New("invalid token")
	ErrMalformedHash = errors.New("malformed password hash")

	// Startup errors.
	ErrConfiguration = errors.New("configuration error")
)
