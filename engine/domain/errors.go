package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors classifying failures per the error taxonomy. Every
// outward-facing error returned by this module's components wraps one of
// these so callers can branch on kind without parsing messages.
var (
	// ErrValidation marks a non-retryable input problem (bad file type,
	// malformed payload, rejected filename/content).
	ErrValidation = errors.New("validation error")
	// ErrStoreUnavailable marks a retryable transport failure talking to
	// the job store, queue, graph store, or vector store.
	ErrStoreUnavailable = errors.New("store temporarily unavailable")
	// ErrCircuitOpen marks a call rejected fast by an open circuit
	// breaker (embedding or LLM client).
	ErrCircuitOpen = errors.New("circuit open")
	// ErrLLMFailure marks an LLM call that failed after the client's
	// internal schema-validation retry, or a non-retryable transport
	// failure (4xx other than 429).
	ErrLLMFailure = errors.New("llm processing error")
	// ErrParse marks a corrupt or unparseable document.
	ErrParse = errors.New("parse error")
	// ErrNotFound marks a missing uid/email/job_id on a read path.
	ErrNotFound = errors.New("not found")
)

// TaxonomyError wraps a sentinel with operational context for structured
// logging. The Error() string is safe to log internally; callers at an
// HTTP boundary should use Sanitized() instead of Error() when the error
// crosses into a client response.
type TaxonomyError struct {
	Kind      error
	Operation string
	Target    string
	Cause     error
}

func (e *TaxonomyError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s(%s): %v", e.Kind, e.Operation, e.Target, e.Cause)
	}
	return fmt.Sprintf("%s: %s(%s)", e.Kind, e.Operation, e.Target)
}

func (e *TaxonomyError) Unwrap() error { return e.Kind }

// Sanitized returns a client-safe message: the taxonomy label only, never
// the underlying cause, store-specific error text, or stack trace.
func (e *TaxonomyError) Sanitized() string {
	switch {
	case errors.Is(e.Kind, ErrValidation):
		return "invalid request"
	case errors.Is(e.Kind, ErrStoreUnavailable):
		return "service_temporarily_unavailable"
	case errors.Is(e.Kind, ErrCircuitOpen):
		return "service_temporarily_unavailable"
	case errors.Is(e.Kind, ErrLLMFailure):
		return "processing_error"
	case errors.Is(e.Kind, ErrParse):
		return "unable to process document"
	case errors.Is(e.Kind, ErrNotFound):
		return "not found"
	default:
		return "internal error"
	}
}

// Retryable reports whether the ingestion worker should requeue the task
// that produced this error, per §7's propagation policy.
func (e *TaxonomyError) Retryable() bool {
	switch {
	case errors.Is(e.Kind, ErrStoreUnavailable), errors.Is(e.Kind, ErrCircuitOpen):
		return true
	default:
		return false
	}
}

func newTaxonomyError(kind error, operation, target string, cause error) *TaxonomyError {
	return &TaxonomyError{Kind: kind, Operation: operation, Target: target, Cause: cause}
}

// NewValidationError builds a non-retryable ValidationError-kind error.
func NewValidationError(operation, target string, cause error) *TaxonomyError {
	return newTaxonomyError(ErrValidation, operation, target, cause)
}

// NewStoreUnavailable builds a retryable store-transport error.
func NewStoreUnavailable(operation, target string, cause error) *TaxonomyError {
	return newTaxonomyError(ErrStoreUnavailable, operation, target, cause)
}

// NewLLMFailure builds a non-retryable-at-this-layer LLM error (the LLM
// client has already exhausted its own internal retry).
func NewLLMFailure(operation, target string, cause error) *TaxonomyError {
	return newTaxonomyError(ErrLLMFailure, operation, target, cause)
}

// NewParseError builds a non-retryable parse error.
func NewParseError(operation, target string, cause error) *TaxonomyError {
	return newTaxonomyError(ErrParse, operation, target, cause)
}

// NewNotFound builds a not-found error (404 on read paths, silent on delete).
func NewNotFound(operation, target string) *TaxonomyError {
	return newTaxonomyError(ErrNotFound, operation, target, nil)
}
