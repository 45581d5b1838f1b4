// Package imdbsearch is the free-text title search backed by IMDb's
// suggestion endpoint.
package imdbsearch

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/lepinkainen/showrunner/internal/media"
	"github.com/lepinkainen/showrunner/internal/provider"
	"github.com/lepinkainen/showrunner/internal/transport"
)

const (
	defaultBaseURL = "https://v3.sg.media-imdb.com"
	providerName   = "IMDb"
)

// kinds maps the suggestion "q" field onto addon content types. Other
// categories (podcasts, video games, shorts) are not playable and dropped.
var kinds = map[string]media.Kind{
	"feature":   media.KindMovie,
	"TV series": media.KindSeries,
}

// Client is an IMDb suggestion search client.
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

// WithBaseURL sets a custom suggestion base URL.
func WithBaseURL(base string) Option {
	return func(client *Client) {
		if base != "" {
			client.baseURL = strings.TrimSuffix(base, "/")
		}
	}
}

// NewClient creates a new IMDb search client.
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

type suggestionResponse struct {
	D []suggestion `json:"d"`
}

type suggestion struct {
	ID    string              `json:"id"`
	Label string              `json:"l"`
	Kind  string              `json:"q"`
	Year  provider.FlexString `json:"y"`
	Image *struct {
		ImageURL string `json:"imageUrl"`
	} `json:"i"`
}

// SearchTitles returns movies and series matching query, in IMDb's order.
func (c *Client) SearchTitles(ctx context.Context, query string) ([]media.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	endpoint := fmt.Sprintf("%s/suggestion/x/%s.json", c.baseURL, url.PathEscape(query))

	var resp suggestionResponse
	if err := c.http.GetJSON(ctx, endpoint, &resp); err != nil {
		return nil, err
	}

	results := make([]media.SearchResult, 0, len(resp.D))
	for _, s := range resp.D {
		kind, ok := kinds[s.Kind]
		if !ok || s.ID == "" {
			continue
		}
		r := media.SearchResult{
			ID:    s.ID,
			Title: s.Label,
			Year:  s.Year.String(),
			Kind:  kind,
		}
		if s.Image != nil {
			r.Poster = s.Image.ImageURL
		}
		if r.Year == "" {
			r.Year = "N/A"
		}
		results = append(results, r)
	}
	return results, nil
}
