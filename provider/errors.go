package provider

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for provider operations.
var (
	// ErrUnknownProvider indicates the requested provider is not registered.
	ErrUnknownProvider = errors.New("unknown provider")

	// ErrUnavailable indicates the provider could not be reached.
	ErrUnavailable = errors.New("LLM service unavailable")

	// ErrRateLimited indicates the request was throttled by the provider.
	ErrRateLimited = errors.New("rate limited")

	// ErrAuthentication indicates the provider rejected the credential.
	ErrAuthentication = errors.New("authentication failed")

	// ErrInvalidRequest indicates the request is malformed.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrTimeout indicates the request timed out.
	ErrTimeout = errors.New("request timed out")

	// ErrCredentialsNotFound indicates the credential is missing.
	ErrCredentialsNotFound = errors.New("credentials not found")

	// ErrCredentialsInvalid indicates the credential is structurally implausible
	// (placeholder value or too short) and was never sent to the provider.
	ErrCredentialsInvalid = errors.New("credentials invalid")
)

// Error wraps provider errors with context.
type Error struct {
	Provider   string        // Provider name ("openai", ...)
	Op         string        // Operation that failed ("complete")
	Err        error         // Underlying error
	Retryable  bool          // Whether the error is likely transient
	StatusCode int           // HTTP status reported by the provider, 0 if none
	RetryAfter time.Duration // Provider-suggested wait, 0 if unknown
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Provider != "" {
		return fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new provider error.
func NewError(provider, op string, err error, retryable bool) *Error {
	return &Error{
		Provider:  provider,
		Op:        op,
		Err:       err,
		Retryable: retryable,
	}
}

// WithStatus records the HTTP status and suggested wait on the error.
func (e *Error) WithStatus(status int, retryAfter time.Duration) *Error {
	e.StatusCode = status
	e.RetryAfter = retryAfter
	return e
}

// IsRetryable checks if an error is likely transient and worth retrying.
func IsRetryable(err error) bool {
	var provErr *Error
	if errors.As(err, &provErr) {
		return provErr.Retryable
	}

	return errors.Is(err, ErrRateLimited) ||
		errors.Is(err, ErrUnavailable) ||
		errors.Is(err, ErrTimeout)
}

// IsAuthError checks if an error is authentication-related.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrAuthentication)
}

// IsCredentialError checks if the local credential check failed.
func IsCredentialError(err error) bool {
	return errors.Is(err, ErrCredentialsNotFound) ||
		errors.Is(err, ErrCredentialsInvalid)
}

// RetryAfter returns the provider-suggested wait carried by err, if any.
func RetryAfter(err error) (time.Duration, bool) {
	var provErr *Error
	if errors.As(err, &provErr) && provErr.RetryAfter > 0 {
		return provErr.RetryAfter, true
	}
	return 0, false
}
