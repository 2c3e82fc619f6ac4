package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

// Client abstracts a text-generation provider behind a single operation.
type Client interface {
	Generate(ctx context.Context, system, user string) (string, error)
}

// Error is the single error kind surfaced to callers of Generate. It carries
// a human-readable cause; the underlying provider error is wrapped.
type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("llm: %s: %v", e.Message, e.Err)
	}
	return "llm: " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// ProviderError reports an error returned by the provider itself
// (an HTTP error status with a provider error payload).
type ProviderError struct {
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider error status=%d: %s", e.StatusCode, e.Message)
}

// RateLimited reports whether the provider rejected the call for rate limiting.
func (e *ProviderError) RateLimited() bool { return e.StatusCode == 429 }

// isTransient classifies errors worth retrying: provider rate limiting and
// connectivity failures. Everything else is surfaced immediately.
func isTransient(err error) bool {
	if err == nil {
		return false
	}
	var provErr *ProviderError
	if errors.As(err, &provErr) {
		return provErr.RateLimited()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "connection closed") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "tls handshake timeout") ||
		strings.Contains(msg, "no such host") ||
		strings.Contains(msg, "eof") {
		return true
	}

	return false
}

// asError normalizes any generate-time failure into *Error.
func asError(err error) *Error {
	if err == nil {
		return nil
	}
	var llmErr *Error
	if errors.As(err, &llmErr) {
		return llmErr
	}
	var provErr *ProviderError
	if errors.As(err, &provErr) {
		return &Error{Message: provErr.Message, Err: provErr}
	}
	return &Error{Message: "unexpected error", Err: err}
}
