// Package errors defines the failure taxonomy shared by all provider adapters.
//
// Every adapter failure is one of three kinds. None of them is fatal: callers
// treat all of them as "this provider had no data" and move on.
package errors

import (
	"errors"
	"fmt"
)

// Kind classifies a provider failure.
type Kind int

const (
	// KindNotFound means the provider answered but had no matching record.
	KindNotFound Kind = iota + 1
	// KindTransport covers connection errors, timeouts and non-2xx responses.
	KindTransport
	// KindMalformed means the payload could not be decoded.
	KindMalformed
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindTransport:
		return "transport failure"
	case KindMalformed:
		return "malformed response"
	default:
		return "unknown"
	}
}

// ProviderError is the error value returned by every adapter call.
type ProviderError struct {
	Provider   string
	Kind       Kind
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("%s: %s (HTTP %d): %v", e.Provider, e.Kind, e.StatusCode, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: %s (HTTP %d)", e.Provider, e.Kind, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Provider, e.Kind, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Provider, e.Kind)
	}
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewNotFound reports that provider has no record for what was asked.
func NewNotFound(provider, format string, args ...any) *ProviderError {
	return &ProviderError{Provider: provider, Kind: KindNotFound, Err: fmt.Errorf(format, args...)}
}

// NewTransportFailure wraps a connection or timeout error.
func NewTransportFailure(provider string, err error) *ProviderError {
	return &ProviderError{Provider: provider, Kind: KindTransport, Err: err}
}

// NewHTTPStatusError reports a non-2xx response.
func NewHTTPStatusError(provider string, status int, body string) *ProviderError {
	var err error
	if body != "" {
		err = errors.New(body)
	}
	return &ProviderError{Provider: provider, Kind: KindTransport, StatusCode: status, Err: err}
}

// NewMalformedResponse wraps a decode failure.
func NewMalformedResponse(provider string, err error) *ProviderError {
	return &ProviderError{Provider: provider, Kind: KindMalformed, Err: err}
}

func kindOf(err error) Kind {
	var pErr *ProviderError
	if errors.As(err, &pErr) {
		return pErr.Kind
	}
	return 0
}

// IsNotFound reports whether err is a NotFound provider error.
func IsNotFound(err error) bool {
	return kindOf(err) == KindNotFound
}

// IsTransportFailure reports whether err is a transport-level provider error.
func IsTransportFailure(err error) bool {
	return kindOf(err) == KindTransport
}

// IsMalformedResponse reports whether err is a decode failure.
func IsMalformedResponse(err error) bool {
	return kindOf(err) == KindMalformed
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var pErr *ProviderError
	if errors.As(err, &pErr) {
		return pErr.StatusCode
	}
	return 0
}
