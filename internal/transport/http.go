// Package transport is the HTTP plumbing shared by every provider adapter.
package transport

import (
	"errors"
	"net/http"
	"time"
)

const (
	// DefaultTimeout bounds metadata and stream requests.
	DefaultTimeout = 15 * time.Second
	// DefaultImageTimeout bounds image downloads.
	DefaultImageTimeout = 4 * time.Second
	// DefaultUserAgent mimics a desktop browser; several addons reject bare clients.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// headerTransport stamps the shared request headers on every request.
type headerTransport struct {
	base      http.RoundTripper
	userAgent string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, errors.New("nil request")
	}
	r := req.Clone(req.Context())
	if r.Header.Get("User-Agent") == "" {
		r.Header.Set("User-Agent", t.userAgent)
	}
	if r.Header.Get("Accept") == "" {
		r.Header.Set("Accept", "application/json")
	}
	if r.Body != nil && r.Header.Get("Content-Type") == "" {
		r.Header.Set("Content-Type", "application/json")
	}
	return t.base.RoundTrip(r)
}

// NewHTTPClient builds the shared client used by metadata and stream adapters.
// Redirects are followed; the whole exchange is bounded by timeout.
func NewHTTPClient(timeout time.Duration, userAgent string) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &http.Client{
		Transport: &headerTransport{base: http.DefaultTransport, userAgent: userAgent},
		Timeout:   timeout,
	}
}

// NewImageClient builds the short-timeout client used for poster downloads.
func NewImageClient(timeout time.Duration, userAgent string) *http.Client {
	if timeout <= 0 {
		timeout = DefaultImageTimeout
	}
	return NewHTTPClient(timeout, userAgent)
}
