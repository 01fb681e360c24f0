package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

// ErrorKind classifies completion-service failures so callers can pick the
// right remediation: retry for transient failures, credential fixes for auth,
// prompt tuning for unusable responses.
type ErrorKind string

const (
	ErrKindAuth        ErrorKind = "auth"         // Invalid or missing credential
	ErrKindRateLimit   ErrorKind = "rate_limit"   // Backend throttled the request
	ErrKindTimeout     ErrorKind = "timeout"      // Request deadline exceeded
	ErrKindUnavailable ErrorKind = "unavailable"  // Network failure or 5xx from the backend
	ErrKindBadResponse ErrorKind = "bad_response" // Backend answered but the payload is malformed, empty, or rejected
)

// ServiceError is a failure talking to the completion backend. It is never
// silently swallowed: any request that did not succeed surfaces as one of these.
type ServiceError struct {
	Provider   string    // Backend name (openai, anthropic, ollama)
	Kind       ErrorKind // Failure classification
	StatusCode int       // HTTP status when applicable, 0 otherwise
	Message    string    // Backend-supplied or transport error detail
	Err        error     // Underlying error, when available
}

// Error implements the error interface
func (e *ServiceError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: %s (HTTP %d): %s", e.Provider, e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Provider, e.Kind, e.Message)
}

// Unwrap returns the underlying error
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// Retryable reports whether a retry can plausibly succeed
func (e *ServiceError) Retryable() bool {
	switch e.Kind {
	case ErrKindRateLimit, ErrKindTimeout, ErrKindUnavailable:
		return true
	}
	return false
}

// AsServiceError unwraps err into a *ServiceError if it is one
func AsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// IsRetryable reports whether err is a retryable service failure
func IsRetryable(err error) bool {
	if se, ok := AsServiceError(err); ok {
		return se.Retryable()
	}
	return false
}

// classifyStatus maps an HTTP status from a completion backend to a ServiceError
func classifyStatus(provider string, status int, message string) *ServiceError {
	kind := ErrKindBadResponse
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		kind = ErrKindAuth
	case status == http.StatusTooManyRequests:
		kind = ErrKindRateLimit
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		kind = ErrKindTimeout
	case status >= 500:
		kind = ErrKindUnavailable
	}
	return &ServiceError{
		Provider:   provider,
		Kind:       kind,
		StatusCode: status,
		Message:    message,
	}
}

// classifyTransport maps a transport-level error (no HTTP status) to a ServiceError
func classifyTransport(provider string, err error) *ServiceError {
	kind := ErrKindUnavailable
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		kind = ErrKindTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		kind = ErrKindTimeout
	case strings.Contains(strings.ToLower(err.Error()), "timeout"):
		kind = ErrKindTimeout
	}
	return &ServiceError{
		Provider: provider,
		Kind:     kind,
		Message:  err.Error(),
		Err:      err,
	}
}

// badResponse builds a ServiceError for a backend reply that carried no usable content
func badResponse(provider, message string) *ServiceError {
	return &ServiceError{
		Provider: provider,
		Kind:     ErrKindBadResponse,
		Message:  message,
	}
}
