// Package keybackend provides TokenVerifier implementations for bearer token checks.
package keybackend

import (
	"crypto/subtle"
	"fmt"

	"github.com/sagarc03/stash"
)

// StaticToken verifies bearer tokens against a single configured secret.
type StaticToken struct {
	secret []byte
}

// NewStaticToken creates a verifier that accepts exactly secret.
func NewStaticToken(secret string) *StaticToken {
	return &StaticToken{secret: []byte(secret)}
}

// Verify compares token with the configured secret in constant time.
func (s *StaticToken) Verify(token string) error {
	if token == "" || len(s.secret) == 0 {
		return fmt.Errorf("verify token: %w", stash.ErrUnauthorized)
	}
	if subtle.ConstantTimeCompare([]byte(token), s.secret) != 1 {
		return fmt.Errorf("verify token: %w", stash.ErrUnauthorized)
	}
	return nil
}
