package keybackend

import (
	"fmt"
	"os"
	"strings"
)

// LoadTokenFromFile reads a bearer token from path.
// Surrounding whitespace, including the trailing newline most editors add, is trimmed.
func LoadTokenFromFile(path string) (string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Path is from trusted config file
	if err != nil {
		return "", fmt.Errorf("read token file: %w", err)
	}

	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", fmt.Errorf("read token file %s: %w", path, ErrEmptyToken)
	}

	return token, nil
}
