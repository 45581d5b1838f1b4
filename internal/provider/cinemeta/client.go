// Package cinemeta is the enrichment source and the catalog listing source.
package cinemeta

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
	defaultBaseURL = "https://v3-cinemeta.strem.io"
	providerName   = "Cinemeta"
)

// Client is a Cinemeta client.
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

// WithBaseURL sets a custom Cinemeta base URL. A trailing /meta is accepted
// and dropped.
func WithBaseURL(base string) Option {
	return func(client *Client) {
		if base != "" {
			base = strings.TrimSuffix(base, "/")
			client.baseURL = strings.TrimSuffix(base, "/meta")
		}
	}
}

// WithKind sets the meta type looked up by FetchByID. Defaults to series.
func WithKind(kind media.Kind) Option {
	return func(client *Client) {
		client.kind = kind
	}
}

// NewClient creates a new Cinemeta client.
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

// FetchByID fetches the Cinemeta meta for an IMDb id.
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

// FetchCatalog lists a Cinemeta catalog such as "top".
func (c *Client) FetchCatalog(ctx context.Context, kind media.Kind, listID string) ([]media.CatalogEntry, error) {
	endpoint := fmt.Sprintf("%s/catalog/%s/%s.json", c.baseURL, kind, url.PathEscape(listID))

	var resp addonmeta.CatalogResponse
	if err := c.http.GetJSON(ctx, endpoint, &resp); err != nil {
		return nil, err
	}

	entries := make([]media.CatalogEntry, 0, len(resp.Metas))
	for _, m := range resp.Metas {
		id := m.ID
		if id == "" {
			id = m.IMDbID
		}
		if id == "" || m.Name == "" {
			continue
		}
		entryKind := media.Kind(m.Type)
		if entryKind == "" {
			entryKind = kind
		}
		year := m.Year.String()
		if year == "" {
			year = m.ReleaseInfo.String()
		}
		entries = append(entries, media.CatalogEntry{
			ID:     id,
			Kind:   entryKind,
			Title:  m.Name,
			Year:   year,
			Poster: m.Poster,
		})
	}
	return entries, nil
}
