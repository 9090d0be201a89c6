package auth

import "errors"

var (
	// Resolver rejections.
	ErrMissingCredentials = errors.New("auth: missing api key or bearer token")
	ErrInvalidAPIKey      = errors.New("auth: invalid or inactive api key")
	ErrInvalidJWT         = errors.New("auth: invalid or expired token")

	// Token service rejections. Signin failures collapse into a single
	// error so callers cannot tell an unknown email from a wrong password.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrAccountExists      = errors.New("auth: account already exists")
	ErrAccessDenied       = errors.New("auth: access denied")

	ErrInvalidInput = errors.New("auth: invalid input")
	ErrNotFound     = errors.New("auth: not found")
)
