package stash

// TokenVerifier checks a presented bearer token.
// Verify returns an error wrapping ErrUnauthorized when the token is rejected.
type TokenVerifier interface {
	Verify(token string) error
}
