package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested patient record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates a record already exists under that ID.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoActivePatient indicates an operation that targets the active
	// patient was attempted while no patient is selected.
	ErrNoActivePatient = errors.New("no active patient is selected")

	// ErrLLMUnavailable indicates the LLM backend is not configured.
	// Safety checks, order parsing and chat are disabled without it.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrQuotaExhausted indicates the LLM backend rejected a call because
	// the quota or rate limit for the configured key is exhausted. A chat
	// session that observes this error degrades permanently.
	ErrQuotaExhausted = errors.New("quota exhausted")

	// ErrSessionDegraded indicates the chat session has stopped making
	// backend calls after an earlier failure. Start a new session to retry.
	ErrSessionDegraded = errors.New("session degraded")
)

// ParseError is returned when model output could not be decoded into the
// requested structure after every recovery stage. It carries the raw text so
// callers can surface it for diagnosis instead of crashing.
type ParseError struct {
	// Raw is the unmodified model output.
	Raw string

	// Err is the underlying decode failure from the last stage attempted.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Err == nil {
		return "could not parse model output"
	}
	return fmt.Sprintf("could not parse model output: %v", e.Err)
}

// Unwrap returns the underlying decode failure.
func (e *ParseError) Unwrap() error {
	return e.Err
}
