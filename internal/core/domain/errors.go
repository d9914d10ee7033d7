package domain

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid login or password")
	ErrMissingToken       = errors.New("missing bearer token")
	ErrInvalidToken       = errors.New("invalid token")
	ErrForbidden          = errors.New("access forbidden")
	ErrLoginUnavailable   = errors.New("login unavailable")
	ErrAccountNotFound    = errors.New("account not found")
	ErrItemNotFound       = errors.New("item not found")
	ErrItemExists         = errors.New("item already exists")
	ErrInvalidInput       = errors.New("invalid input")
	ErrTooManyAttempts    = errors.New("too many failed login attempts")
	ErrUnknownPartition   = errors.New("unknown store partition")
)
