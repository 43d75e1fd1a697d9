package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Fallback messages shown when the server gives no usable detail.
const (
	FallbackLogin        = "Login failed"
	FallbackRegister     = "Registration failed"
	FallbackLoadProfile  = "Failed to load profile"
	FallbackUpdate       = "Failed to update profile"
	FallbackMatch        = "Failed to find matches"
	FallbackSavedMatches = "Failed to load saved matches"
	FallbackSave         = "Failed to save match"
	FallbackDelete       = "Failed to delete match"
)

// Error is a non-2xx response. Detail is the server's "detail" message when
// the body carried a string one.
type Error struct {
	Method string
	Path   string
	Status int
	Detail string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api: %s %s: %d: %s", e.Method, e.Path, e.Status, e.Detail)
	}
	return fmt.Sprintf("api: %s %s: %d %s", e.Method, e.Path, e.Status, http.StatusText(e.Status))
}

// Unauthorized reports whether the server rejected the credentials.
func (e *Error) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized
}

// NotFound reports a 404.
func (e *Error) NotFound() bool {
	return e.Status == http.StatusNotFound
}

// TransportError wraps a failure to reach the server at all.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("api: %s: %v", e.Op, e.Err) }

func (e *TransportError) Unwrap() error { return e.Err }

// Message turns err into the banner text for a failed operation. Server
// details are surfaced verbatim; anything else falls back to the
// operation's message.
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		if apiErr.Detail != "" {
			return apiErr.Detail
		}
		return fallback
	}
	var transport *TransportError
	if errors.As(err, &transport) {
		return fallback + ". Please try again."
	}
	return fallback
}

// IsUnauthorized reports whether err is a 401 from the server.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Unauthorized()
}

// decodeDetail extracts a string "detail" from an error body. Validation
// errors carry a list there; those yield "".
func decodeDetail(body []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Detail) == 0 {
		return ""
	}
	var detail string
	if err := json.Unmarshal(payload.Detail, &detail); err != nil {
		return ""
	}
	return strings.TrimSpace(detail)
}
