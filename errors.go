package stash

import "errors"

var (
	// ErrNotFound is returned when no object exists at a path
	ErrNotFound = errors.New("not found")
	// ErrInternal is returned when an internal error occurs
	ErrInternal = errors.New("internal error")
	// ErrInvalidInput is returned when a directory, filename or path fails validation
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnauthorized is returned when the bearer token is missing or wrong
	ErrUnauthorized = errors.New("unauthorized")
	// ErrConflict is returned when a safe upload targets an existing object
	ErrConflict = errors.New("object already exists")
	// ErrTooLarge is returned when an upload exceeds the configured size cap
	ErrTooLarge = errors.New("payload too large")
	// ErrUnsupportedContent is returned when a stored object cannot be shown as text
	ErrUnsupportedContent = errors.New("unsupported content")
)
