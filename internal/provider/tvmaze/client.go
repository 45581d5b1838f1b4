// Package tvmaze is the primary metadata source: show lookup by IMDb id,
// search by name, episode lists and the all-seasons listing.
package tvmaze

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/lepinkainen/showrunner/internal/errors"
	"github.com/lepinkainen/showrunner/internal/provider"
	"github.com/lepinkainen/showrunner/internal/transport"
)

const (
	defaultBaseURL = "https://api.tvmaze.com"
	providerName   = "TVMaze"
)

// Client is a TVMaze API client.
type Client struct {
	baseURL string
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

// WithBaseURL sets a custom base URL for the TVMaze API.
func WithBaseURL(base string) Option {
	return func(client *Client) {
		if base != "" {
			client.baseURL = strings.TrimSuffix(base, "/")
		}
	}
}

// NewClient creates a new TVMaze client.
func NewClient(opts ...Option) *Client {
	client := &Client{
		baseURL: defaultBaseURL,
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

// FetchByID looks the show up by IMDb id and loads its episodes.
func (c *Client) FetchByID(ctx context.Context, id string) (*provider.Payload, error) {
	s, err := c.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	return c.withEpisodes(ctx, s), nil
}

// SearchByName returns the first search hit for name, with its episodes.
func (c *Client) SearchByName(ctx context.Context, name string) (*provider.Payload, error) {
	endpoint := fmt.Sprintf("%s/search/shows?q=%s", c.baseURL, url.QueryEscape(name))

	var hits []searchHit
	if err := c.http.GetJSON(ctx, endpoint, &hits); err != nil {
		return nil, err
	}
	if len(hits) == 0 || hits[0].Show == nil {
		return nil, errors.NewNotFound(providerName, "no search results for %q", name)
	}
	return c.withEpisodes(ctx, hits[0].Show), nil
}

// FetchSeasons returns the all-seasons listing. Season 0 is skipped.
func (c *Client) FetchSeasons(ctx context.Context, id string) ([]provider.SeasonPayload, error) {
	s, err := c.lookup(ctx, id)
	if err != nil {
		return nil, err
	}

	var seasons []season
	if err := c.http.GetJSON(ctx, fmt.Sprintf("%s/shows/%d/seasons", c.baseURL, s.ID), &seasons); err != nil {
		return nil, err
	}

	out := make([]provider.SeasonPayload, 0, len(seasons))
	for _, se := range seasons {
		if se.Number == 0 {
			continue
		}
		out = append(out, provider.SeasonPayload{
			Number:   se.Number,
			Poster:   se.Image.original(),
			Overview: se.Summary,
		})
	}
	return out, nil
}

// lookup follows TVMaze's redirect from the IMDb lookup to the show record.
func (c *Client) lookup(ctx context.Context, imdbID string) (*show, error) {
	endpoint := fmt.Sprintf("%s/lookup/shows?imdb=%s", c.baseURL, url.QueryEscape(imdbID))

	var s show
	if err := c.http.GetJSON(ctx, endpoint, &s); err != nil {
		return nil, err
	}
	if s.ID == 0 {
		return nil, errors.NewNotFound(providerName, "no show for %s", imdbID)
	}
	return &s, nil
}

// withEpisodes converts s and attaches its episode list. A failed episode
// request leaves the list empty rather than discarding the show.
func (c *Client) withEpisodes(ctx context.Context, s *show) *provider.Payload {
	p := s.payload()

	var episodes []episode
	if err := c.http.GetJSON(ctx, fmt.Sprintf("%s/shows/%d/episodes", c.baseURL, s.ID), &episodes); err != nil {
		slog.Debug("Failed to fetch episodes", "provider", providerName, "show_id", s.ID, "error", err)
		return p
	}
	for _, ep := range episodes {
		p.Episodes = append(p.Episodes, ep.payload())
	}
	return p
}
