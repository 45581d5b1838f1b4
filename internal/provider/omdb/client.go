// Package omdb fetches per-episode IMDb ratings from the OMDb API.
package omdb

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/lepinkainen/showrunner/internal/errors"
	"github.com/lepinkainen/showrunner/internal/provider"
	"github.com/lepinkainen/showrunner/internal/ratelimit"
	"github.com/lepinkainen/showrunner/internal/transport"
)

const (
	defaultBaseURL = "http://www.omdbapi.com"
	providerName   = "OMDb"
	// OMDb's free tier allows 1000 requests/day; stay gentle.
	defaultRatePerSecond = 2
	limitReachedMessage  = "Request limit reached"
)

// Client is an OMDb API client.
type Client struct {
	apiKey           string
	baseURL          string
	http             *transport.Client
	limiter          *ratelimit.Limiter
	rateLimitReached atomic.Bool
}

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client shared with the other adapters.
func WithHTTPClient(c transport.HTTPDoer) Option {
	return func(client *Client) {
		client.http = transport.NewClient(providerName, transport.WithHTTPClient(c), transport.WithRateLimiter(client.limiter))
	}
}

// WithBaseURL sets a custom base URL for the OMDb API.
func WithBaseURL(base string) Option {
	return func(client *Client) {
		if base != "" {
			client.baseURL = strings.TrimSuffix(base, "/")
		}
	}
}

// NewClient creates a new OMDb client. An empty apiKey disables all requests.
func NewClient(apiKey string, opts ...Option) *Client {
	limiter := ratelimit.New(providerName, defaultRatePerSecond)
	client := &Client{
		apiKey:  strings.TrimSpace(apiKey),
		baseURL: defaultBaseURL,
		limiter: limiter,
		http:    transport.NewClient(providerName, transport.WithRateLimiter(limiter)),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Name implements provider.Provider.
func (c *Client) Name() string {
	return providerName
}

// HasAPIKey reports whether a usable API key is configured.
func (c *Client) HasAPIKey() bool {
	return c.apiKey != ""
}

// RequestsAllowed is false once OMDb has reported its daily limit.
func (c *Client) RequestsAllowed() bool {
	return !c.rateLimitReached.Load()
}

func (c *Client) markRateLimitReached() {
	if c.rateLimitReached.CompareAndSwap(false, true) {
		slog.Warn("OMDb API rate limit reached; skipping further OMDb requests for this session")
	}
}

// FetchSeasonRatings returns IMDb ratings for one season keyed by episode
// number. Episodes rated "N/A" are left out. Without an API key the result is
// empty and no request is made.
func (c *Client) FetchSeasonRatings(ctx context.Context, id string, season int) (map[int]provider.Score, error) {
	if !c.HasAPIKey() {
		slog.Debug("OMDb API key not configured, skipping season ratings", "id", id, "season", season)
		return map[int]provider.Score{}, nil
	}
	if !c.RequestsAllowed() {
		return nil, errors.NewRateLimitError(providerName, "request limit reached")
	}

	q := url.Values{}
	q.Set("apikey", c.apiKey)
	q.Set("i", id)
	q.Set("Season", strconv.Itoa(season))
	endpoint := fmt.Sprintf("%s/?%s", c.baseURL, q.Encode())

	var resp seasonResponse
	if err := c.http.GetJSON(ctx, endpoint, &resp); err != nil {
		if strings.Contains(err.Error(), limitReachedMessage) {
			c.markRateLimitReached()
		}
		return nil, err
	}

	if resp.Response == "False" {
		if strings.Contains(resp.Error, limitReachedMessage) {
			c.markRateLimitReached()
			return nil, errors.NewRateLimitError(providerName, resp.Error)
		}
		return nil, errors.NewNotFound(providerName, "%s season %d: %s", id, season, resp.Error)
	}

	ratings := make(map[int]provider.Score, len(resp.Episodes))
	for _, ep := range resp.Episodes {
		n, err := strconv.Atoi(strings.TrimSpace(ep.Episode))
		if err != nil {
			continue
		}
		score := ep.IMDbRating.Float()
		if score == 0 {
			continue
		}
		ratings[n] = provider.TenPoint(score)
	}
	return ratings, nil
}
