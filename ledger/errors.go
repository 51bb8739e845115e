/*
errors.go - Centralized error types for the ledger engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  The API layer maps these onto HTTP statuses; no other package should
  invent its own error taxonomy.

ERROR CATEGORIES:
  1. Validation errors - bad input, rejected before any log mutation
  2. Not-found errors  - unknown party or note id, no side effects
  3. Store errors      - persistence failures, surfaced as-is

USAGE:
  if errors.Is(err, ledger.ErrPartyNotFound) { ... }

  var verr *ledger.ValidationError
  if errors.As(err, &verr) { ... verr.Field ... }
*/
package ledger

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrValidation is the root of all bad-input failures.
	ErrValidation = errors.New("validation failed")

	// ErrPartyNotFound is returned when a party id is unknown.
	ErrPartyNotFound = errors.New("party not found")

	// ErrNoteNotFound is returned when a note id is unknown for the party.
	ErrNoteNotFound = errors.New("note not found")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationError reports a rejected input field. It is always detected
// before any write, so a ValidationError implies no mutation happened.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NotFoundError reports a missing party or note.
type NotFoundError struct {
	Kind string // "party" or "note"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	if e.Kind == "note" {
		return ErrNoteNotFound
	}
	return ErrPartyNotFound
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsValidation returns true if the error is due to invalid client input.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsNotFound returns true if the error indicates a missing party or note.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPartyNotFound) || errors.Is(err, ErrNoteNotFound)
}

func invalidf(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
