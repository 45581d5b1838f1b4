// Package tmdbaddon is the secondary metadata source, the TMDB Stremio addon.
package tmdbaddon

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/lepinkainen/showrunner/internal/errors"
	"github.com/lepinkainen/showrunner/internal/media"
	"github.com/lepinkainen/showrunner/internal/provider"
	"github.com/lepinkainen/showrunner/internal/provider/addonmeta"
	"github.com/lepinkainen/showrunner/internal/transport"
)

const (
	defaultBaseURL = "https://94c8cb9f702d-tmdb-addon.baby-beamup.club"
	providerName   = "TMDB"
)

// Client is a TMDB addon client.
type Client struct {
	baseURL string
	kind    media.Kind
	http    *transport.Client
}

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client shared with the other adapters.
func WithHTTPClient(c transport.HTTPDoer) Option {
	return func(client *Client) {
		client.http = transport.NewClient(providerName, transport.WithHTTPClient(c))
	}
}

// WithBaseURL sets a custom addon base URL.
func WithBaseURL(base string) Option {
	return func(client *Client) {
		if base != "" {
			client.baseURL = strings.TrimSuffix(base, "/")
		}
	}
}

// WithKind sets the meta type looked up by FetchByID. Defaults to series.
func WithKind(kind media.Kind) Option {
	return func(client *Client) {
		client.kind = kind
	}
}

// NewClient creates a new TMDB addon client.
func NewClient(opts ...Option) *Client {
	client := &Client{
		baseURL: defaultBaseURL,
		kind:    media.KindSeries,
		http:    transport.NewClient(providerName),
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

// FetchByID fetches the addon meta for an IMDb id.
func (c *Client) FetchByID(ctx context.Context, id string) (*provider.Payload, error) {
	endpoint := fmt.Sprintf("%s/meta/%s/%s.json", c.baseURL, c.kind, url.PathEscape(id))

	var resp addonmeta.Response
	if err := c.http.GetJSON(ctx, endpoint, &resp); err != nil {
		return nil, err
	}
	if resp.Meta.Empty() {
		return nil, errors.NewNotFound(providerName, "empty meta for %s", id)
	}
	return resp.Meta.Payload(), nil
}
