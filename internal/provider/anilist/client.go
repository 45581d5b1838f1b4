// Package anilist looks up anime seasons on the AniList GraphQL API.
package anilist

import (
	"context"
	stdErrors "errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/lepinkainen/showrunner/internal/errors"
	"github.com/lepinkainen/showrunner/internal/provider"
	"github.com/lepinkainen/showrunner/internal/ratelimit"
	"github.com/lepinkainen/showrunner/internal/transport"
	"github.com/shurcooL/graphql"
)

const (
	defaultEndpoint = "https://graphql.anilist.co"
	providerName    = "AniList"
	// AniList allows 90 requests per minute.
	requestsPerMinute = 90
)

// Client is an AniList GraphQL client.
type Client struct {
	endpoint   string
	httpClient *http.Client
	limiter    *ratelimit.Limiter
	gql        *graphql.Client
}

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client shared with the other adapters.
func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		if c != nil {
			client.httpClient = c
		}
	}
}

// WithEndpoint sets a custom GraphQL endpoint.
func WithEndpoint(endpoint string) Option {
	return func(client *Client) {
		if endpoint != "" {
			client.endpoint = endpoint
		}
	}
}

// WithRateLimiter replaces the default 90 requests/minute limiter.
func WithRateLimiter(l *ratelimit.Limiter) Option {
	return func(client *Client) {
		if l != nil {
			client.limiter = l
		}
	}
}

// NewClient creates a new AniList client.
func NewClient(opts ...Option) *Client {
	client := &Client{
		endpoint:   defaultEndpoint,
		httpClient: transport.NewHTTPClient(transport.DefaultTimeout, transport.DefaultUserAgent),
		limiter:    ratelimit.PerMinute(providerName, requestsPerMinute),
	}
	for _, opt := range opts {
		opt(client)
	}
	client.gql = graphql.NewClient(client.endpoint, client.httpClient)
	return client
}

// Name implements provider.Provider.
func (c *Client) Name() string {
	return providerName
}

// mediaQuery is
//
//	query ($search: String!) {
//	  Media(search: $search, type: ANIME, sort: SEARCH_MATCH) {
//	    description averageScore coverImage { extraLarge }
//	  }
//	}
type mediaQuery struct {
	Media *struct {
		Description  *string `graphql:"description"`
		AverageScore *int    `graphql:"averageScore"`
		CoverImage   *struct {
			ExtraLarge *string `graphql:"extraLarge"`
		} `graphql:"coverImage"`
	} `graphql:"Media(search: $search, type: ANIME, sort: SEARCH_MATCH)"`
}

// SearchAnime returns the best AniList match for term. The season number is
// left for the caller to fill in; the score keeps AniList's 0-100 scale.
func (c *Client) SearchAnime(ctx context.Context, term string) (*provider.SeasonPayload, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errors.NewTransportFailure(providerName, err)
	}

	var q mediaQuery
	vars := map[string]any{
		"search": graphql.String(term),
	}
	if err := c.gql.Query(ctx, &q, vars); err != nil {
		return nil, classify(term, err)
	}
	if q.Media == nil {
		return nil, errors.NewNotFound(providerName, "no anime matching %q", term)
	}

	p := &provider.SeasonPayload{
		Overview: deref(q.Media.Description),
	}
	if q.Media.AverageScore != nil {
		p.Rating = provider.Score{Value: float64(*q.Media.AverageScore), Scale: 100}
	}
	if q.Media.CoverImage != nil {
		p.Poster = deref(q.Media.CoverImage.ExtraLarge)
	}
	return p, nil
}

// classify maps graphql client errors onto the provider taxonomy. AniList
// answers 404 with a GraphQL error body when nothing matches.
func classify(term string, err error) error {
	var urlErr *url.Error
	switch {
	case stdErrors.As(err, &urlErr):
		return errors.NewTransportFailure(providerName, err)
	case strings.Contains(err.Error(), "404"), strings.Contains(err.Error(), "Not Found"):
		return errors.NewNotFound(providerName, "no anime matching %q", term)
	case strings.Contains(err.Error(), "non-200"):
		return errors.NewTransportFailure(providerName, err)
	default:
		return errors.NewMalformedResponse(providerName, err)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
