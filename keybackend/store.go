package keybackend

import (
	"github.com/sagarc03/stash"
)

// DefaultToken is used when no token is configured. Servers reachable by
// anyone else must override it.
const DefaultToken = "stash-default-token"

// TokenConfig holds configuration for loading the upload token.
type TokenConfig struct {
	Token string `mapstructure:"token"`      // Inline token from config or env
	File  string `mapstructure:"token_file"` // Path to a file containing the token
}

// NewTokenVerifier creates a TokenVerifier from the given configuration.
// A token file takes precedence over the inline token. When neither is set the
// verifier falls back to DefaultToken and usedDefault is true, so the caller
// can warn about it.
func NewTokenVerifier(cfg TokenConfig) (verifier stash.TokenVerifier, usedDefault bool, err error) {
	token := cfg.Token

	if cfg.File != "" {
		token, err = LoadTokenFromFile(cfg.File)
		if err != nil {
			return nil, false, err
		}
	}

	if token == "" {
		return NewStaticToken(DefaultToken), true, nil
	}

	return NewStaticToken(token), false, nil
}
