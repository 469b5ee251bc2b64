package adapter

import "errors"

var (
	// ErrNetwork wraps every transport-level failure (DNS, refused
	// connection, timeout). The sync coordinator treats it as a signal to
	// go offline rather than as an operation failure.
	ErrNetwork = errors.New("network unavailable")

	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("client unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrBadGateway          = errors.New("bad gateway")
	ErrInternalServerError = errors.New("internal server error")
)
