package keybackend

import "errors"

// ErrEmptyToken is returned when a token source yields an empty secret.
var ErrEmptyToken = errors.New("token is empty")
