// Package common defines shared constants and sentinel errors used across
// the server, transports and the CLI client. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already registered")
	ErrUnknownOwner   = errors.New("unknown owner")

	// Service-level errors.
	ErrValidation = errors.New("validation error")

	// Login errors. Unknown email and wrong password share this value.
	ErrInvalidCredentials = errors.New("incorrect email or password")

	// Gate errors.
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrInvalidToken     = errors.New("invalid token")
	ErrTokenExpired     = errors.New("token expired")
	ErrNotSuperuser     = errors.New("not a superuser")

	// Static shared-secret guard.
	ErrInvalidQueryToken = errors.New("invalid query token")
)
