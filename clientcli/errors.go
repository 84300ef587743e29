package clientcli

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
)

// Errors for profile operations.
var (
	ErrProfileNotFound     = errors.New("profile not found")
	ErrNoProfiles          = errors.New("no profiles configured")
	ErrProfileNameRequired = errors.New("profile name is required")
)

// Errors for configuration validation.
var (
	ErrTokenRequired  = errors.New("token is required")
	ErrConfigRequired = errors.New("config is required")
)

// Errors for input validation.
var (
	ErrNoPaths          = errors.New("no paths provided")
	ErrEmptyPath        = errors.New("path is required")
	ErrInvalidDirectory = errors.New("directory must be a single path segment")
)

// Server responses, matched by status code with errors.Is.
var (
	ErrNotFound     = &APIError{StatusCode: http.StatusNotFound}
	ErrUnauthorized = &APIError{StatusCode: http.StatusUnauthorized}
	ErrBadRequest   = &APIError{StatusCode: http.StatusBadRequest}
	ErrConflict     = &APIError{StatusCode: http.StatusConflict}
	ErrTooLarge     = &APIError{StatusCode: http.StatusRequestEntityTooLarge}
)

// APIError is a non-200 response. Code and Message come from the server's
// {"error","message"} body when it sent one.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Body       string
}

func newAPIError(status int, body []byte) *APIError {
	e := &APIError{StatusCode: status, Body: string(body)}
	var parsed serverError
	if json.Unmarshal(body, &parsed) == nil {
		e.Code, e.Message = parsed.Error, parsed.Message
	}
	return e
}

func (e *APIError) Error() string {
	detail := e.Message
	if detail == "" {
		detail = strings.TrimSpace(e.Body)
	}
	return "server error: " + strconv.Itoa(e.StatusCode) + " - " + detail
}

// Is matches any *APIError with the same status code.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	return ok && t.StatusCode == e.StatusCode
}

// IsNotFound reports whether the server answered 404.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}
