// Package stremio queries Stremio stream addons such as Torrentio and Comet.
package stremio

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/lepinkainen/showrunner/internal/media"
	"github.com/lepinkainen/showrunner/internal/transport"
)

const manifestSuffix = "/manifest.json"

// Client queries one stream addon.
type Client struct {
	name    string
	baseURL string
	http    *transport.Client
}

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client shared with the other adapters.
func WithHTTPClient(c transport.HTTPDoer) Option {
	return func(client *Client) {
		client.http = transport.NewClient(client.name, transport.WithHTTPClient(c))
	}
}

// NewClient creates a client for the addon published at manifestURL.
func NewClient(name, manifestURL string, opts ...Option) (*Client, error) {
	base, err := BaseURL(manifestURL)
	if err != nil {
		return nil, fmt.Errorf("stream provider %s: %w", name, err)
	}
	client := &Client{
		name:    name,
		baseURL: base,
		http:    transport.NewClient(name),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// BaseURL derives the addon base endpoint from its manifest URL: the
// manifest suffix is dropped and scheme, host and remaining path are kept.
// Configuration segments such as "qualityfilter=480p,other" survive.
func BaseURL(manifestURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(manifestURL))
	if err != nil {
		return "", fmt.Errorf("invalid manifest URL %q: %w", manifestURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid manifest URL %q: missing scheme or host", manifestURL)
	}
	path := strings.TrimSuffix(u.EscapedPath(), "/")
	path = strings.TrimSuffix(path, manifestSuffix)
	return fmt.Sprintf("%s://%s%s", u.Scheme, u.Host, path), nil
}

// Name implements provider.Provider.
func (c *Client) Name() string {
	return c.name
}

// BaseEndpoint returns the derived addon base URL.
func (c *Client) BaseEndpoint() string {
	return c.baseURL
}

// FetchStreams lists the streams for a movie id or an episode stream id
// ("tt123:1:2"). Entries without a playable link are dropped.
func (c *Client) FetchStreams(ctx context.Context, kind media.Kind, id string) ([]media.StreamRecord, error) {
	endpoint := fmt.Sprintf("%s/stream/%s/%s.json", c.baseURL, kind, id)

	var resp streamResponse
	if err := c.http.GetJSON(ctx, endpoint, &resp); err != nil {
		return nil, err
	}

	records := make([]media.StreamRecord, 0, len(resp.Streams))
	for _, s := range resp.Streams {
		if rec, ok := s.record(c.name); ok {
			records = append(records, rec)
		}
	}
	return records, nil
}
