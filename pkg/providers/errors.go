package providers

import (
	"errors"
	"fmt"
	"time"
)

// ErrorKind is the closed classification of provider failures. Every failure
// the core surfaces carries exactly one of these kinds; callers can branch on
// the kind without inspecting messages.
type ErrorKind string

const (
	// KindRateLimit means the backend throttled the request (HTTP 429).
	KindRateLimit ErrorKind = "rate_limit"

	// KindAuth means the backend rejected the credential (HTTP 401/403).
	KindAuth ErrorKind = "auth_error"

	// KindNetwork means the request never completed: transport failure,
	// timeout, or a 5xx from the backend.
	KindNetwork ErrorKind = "network_error"

	// KindInvalidResponse means the backend answered with something the
	// core could not accept: an unexpected status or an unparsable body.
	KindInvalidResponse ErrorKind = "invalid_response"

	// KindUnknown covers failures that fit no other kind.
	KindUnknown ErrorKind = "unknown"
)

// DefaultRetryAfter is assumed when a backend rate-limits without saying
// how long to back off.
const DefaultRetryAfter = 60 * time.Second

// ProviderError is the single error shape the invocation core produces.
// The taxonomy is deliberately flat: one struct with a kind tag instead of a
// type per failure mode, so the set of kinds is closed and exhaustively
// matchable.
type ProviderError struct {
	// Provider is the definition identifier of the backend that failed,
	// or the fallback sentinel when the whole chain was exhausted.
	Provider string `json:"provider"`

	// Kind is the closed classification.
	Kind ErrorKind `json:"kind"`

	// Message is a human-readable description suitable for display.
	Message string `json:"message"`

	// RetryAfter is how long the backend asked us to back off.
	// Populated only for KindRateLimit.
	RetryAfter time.Duration `json:"retry_after,omitempty"`

	// Cause is the underlying error, when one exists.
	Cause error `json:"-"`
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	if e.Kind == KindRateLimit && e.RetryAfter > 0 {
		return fmt.Sprintf("provider %q: %s: %s (retry after %s)", e.Provider, e.Kind, e.Message, e.RetryAfter)
	}
	return fmt.Sprintf("provider %q: %s: %s", e.Provider, e.Kind, e.Message)
}

// Unwrap returns the underlying cause for error-chain support.
func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// NewProviderError builds a classified error for the given backend.
func NewProviderError(provider string, kind ErrorKind, message string) *ProviderError {
	return &ProviderError{Provider: provider, Kind: kind, Message: message}
}

// WrapProviderError builds a classified error that preserves its cause.
func WrapProviderError(provider string, kind ErrorKind, message string, cause error) *ProviderError {
	return &ProviderError{Provider: provider, Kind: kind, Message: message, Cause: cause}
}

// AsProviderError extracts a *ProviderError from an error chain.
func AsProviderError(err error) (*ProviderError, bool) {
	var perr *ProviderError
	if errors.As(err, &perr) {
		return perr, true
	}
	return nil, false
}
