package http

import (
	"fmt"

	"github.com/sagarc03/stash"
)

var (
	// ErrMissingToken is returned when a protected request carries no bearer token.
	ErrMissingToken = fmt.Errorf("missing bearer token: %w", stash.ErrUnauthorized)

	// ErrMalformedAuth is returned when the Authorization header is not "Bearer <token>".
	ErrMalformedAuth = fmt.Errorf("malformed authorization header: %w", stash.ErrUnauthorized)

	// ErrMissingFile is returned when an upload body has no file part.
	ErrMissingFile = fmt.Errorf("missing file part: %w", stash.ErrInvalidInput)
)
