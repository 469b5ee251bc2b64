package http

import "errors"

var (
	// ErrEmptyAuthorizationHeader is returned when a protected route is
	// called without an Authorization header.
	ErrEmptyAuthorizationHeader = errors.New("empty Authorization header")

	// ErrInvalidAuthorizationHeader is returned when the Authorization
	// header does not carry a bearer token.
	ErrInvalidAuthorizationHeader = errors.New("invalid Authorization header")

	// ErrEmptyToken is returned when the bearer scheme is present but the
	// token itself is empty.
	ErrEmptyToken = errors.New("empty bearer token")
)
