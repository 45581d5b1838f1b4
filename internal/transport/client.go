package transport

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/lepinkainen/showrunner/internal/errors"
	"github.com/lepinkainen/showrunner/internal/ratelimit"
)

// HTTPDoer is an interface for making HTTP requests.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client issues requests on behalf of one provider and turns every failure
// into an *errors.ProviderError.
type Client struct {
	provider    string
	httpClient  HTTPDoer
	rateLimiter *ratelimit.Limiter
}

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c HTTPDoer) Option {
	return func(client *Client) {
		if c != nil {
			client.httpClient = c
		}
	}
}

// WithRateLimiter throttles every request through l.
func WithRateLimiter(l *ratelimit.Limiter) Option {
	return func(client *Client) {
		client.rateLimiter = l
	}
}

// NewClient creates a client for provider. Without WithHTTPClient it uses a
// fresh client with the default timeout.
func NewClient(provider string, opts ...Option) *Client {
	client := &Client{
		provider:   provider,
		httpClient: NewHTTPClient(DefaultTimeout, DefaultUserAgent),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Provider returns the provider name used in errors and logs.
func (c *Client) Provider() string {
	return c.provider
}

// GetJSON fetches endpoint and decodes the JSON body into target.
func (c *Client) GetJSON(ctx context.Context, endpoint string, target any) error {
	resp, err := c.get(ctx, endpoint)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return errors.NewMalformedResponse(c.provider, err)
	}
	return nil
}

// Get performs a GET and returns the raw body for non-JSON payloads such as
// images. The caller must close the body.
func (c *Client) Get(ctx context.Context, endpoint string) (io.ReadCloser, error) {
	resp, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

func (c *Client) get(ctx context.Context, endpoint string) (*http.Response, error) {
	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, errors.NewTransportFailure(c.provider, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.NewTransportFailure(c.provider, err)
	}

	slog.Debug("Provider request", "provider", c.provider, "url", endpoint)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.NewTransportFailure(c.provider, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer func() { _ = resp.Body.Close() }()
		return nil, c.statusError(resp)
	}
	return resp, nil
}

func (c *Client) statusError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	snippet := strings.TrimSpace(string(data))

	switch resp.StatusCode {
	case http.StatusNotFound:
		return &errors.ProviderError{
			Provider:   c.provider,
			Kind:       errors.KindNotFound,
			StatusCode: resp.StatusCode,
		}
	case http.StatusTooManyRequests:
		return &errors.ProviderError{
			Provider:   c.provider,
			Kind:       errors.KindTransport,
			StatusCode: resp.StatusCode,
			Err:        errors.NewRateLimitErrorWithRetry(c.provider, "too many requests", retryAfter(resp.Header.Get("Retry-After"))),
		}
	default:
		return errors.NewHTTPStatusError(c.provider, resp.StatusCode, snippet)
	}
}

func retryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
