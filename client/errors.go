package client

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is checks.
var (
	// ErrUnavailable: the service could not be reached at all. The right
	// user-visible message is "server unavailable, try later", not a
	// validation complaint.
	ErrUnavailable = errors.New("service unavailable")

	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrRejected     = errors.New("request rejected")
)

// TransportError: the request never produced an HTTP response.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return ErrUnavailable }

// AuthError: missing, invalid, or expired credential (401).
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string { return "auth failed: " + e.Message }
func (e *AuthError) Unwrap() error { return ErrUnauthorized }

// NotFoundError: unknown party or note (404).
type NotFoundError struct {
	Message string
	Details string
}

func (e *NotFoundError) Error() string { return e.Message }
func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// ValidationError: the server rejected the input (400). Nothing was
// written; safe to fix the input and resubmit.
type ValidationError struct {
	Message string
	Details string
}

func (e *ValidationError) Error() string {
	if e.Details != "" {
		return e.Message + ": " + e.Details
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error { return ErrRejected }

// APIError: any other non-2xx response.
type APIError struct {
	Status  int
	Message string
	Details string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
}
