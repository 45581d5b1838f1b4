package errors

import (
	"errors"
	"fmt"
	"time"
)

// RateLimitError is returned when a provider reports that its request quota
// is used up.
type RateLimitError struct {
	Provider   string
	Message    string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	msg := e.Message
	if e.Provider != "" {
		msg = e.Provider + ": " + msg
	}
	if e.RetryAfter > 0 {
		return fmt.Sprintf("%s (retry after %s)", msg, e.RetryAfter)
	}
	return msg
}

// NewRateLimitError creates a new RateLimitError for provider.
func NewRateLimitError(provider, message string) *RateLimitError {
	return &RateLimitError{Provider: provider, Message: message}
}

// NewRateLimitErrorWithRetry creates a RateLimitError carrying the provider's
// Retry-After hint.
func NewRateLimitErrorWithRetry(provider, message string, retryAfter time.Duration) *RateLimitError {
	return &RateLimitError{Provider: provider, Message: message, RetryAfter: retryAfter}
}

// IsRateLimitError reports whether err is a RateLimitError (even when wrapped).
func IsRateLimitError(err error) bool {
	var rlErr *RateLimitError
	return errors.As(err, &rlErr)
}
