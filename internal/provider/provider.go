// Package provider defines the capability interfaces implemented by the
// metadata and stream adapters, and the raw payloads they return.
//
// Adapters never normalize: descriptions may still carry markup, scores keep
// the provider's scale and country clues are passed through as found. The
// resolver owns turning a Payload into a media.UnifiedMedia.
package provider

import (
	"context"

	"github.com/lepinkainen/showrunner/internal/media"
)

// Provider is implemented by every adapter.
type Provider interface {
	Name() string
}

// ByIDLookup fetches a show by its IMDb id.
type ByIDLookup interface {
	Provider
	FetchByID(ctx context.Context, id string) (*Payload, error)
}

// NameSearcher finds a show by display name and returns the best hit.
type NameSearcher interface {
	Provider
	SearchByName(ctx context.Context, name string) (*Payload, error)
}

// SeasonRatingSource returns per-episode ratings for one season, keyed by
// episode number.
type SeasonRatingSource interface {
	Provider
	FetchSeasonRatings(ctx context.Context, id string, season int) (map[int]Score, error)
}

// SeasonLister returns the "all seasons" listing of a show.
type SeasonLister interface {
	Provider
	FetchSeasons(ctx context.Context, id string) ([]SeasonPayload, error)
}

// AnimeSeasonSource looks up one anime season by free-text search term.
type AnimeSeasonSource interface {
	Provider
	SearchAnime(ctx context.Context, term string) (*SeasonPayload, error)
}

// CatalogSource lists a named catalog such as "top".
type CatalogSource interface {
	Provider
	FetchCatalog(ctx context.Context, kind media.Kind, listID string) ([]media.CatalogEntry, error)
}

// TitleSearcher performs a free-text title search.
type TitleSearcher interface {
	Provider
	SearchTitles(ctx context.Context, query string) ([]media.SearchResult, error)
}

// StreamSource lists playable streams for a movie id or an episode stream id.
type StreamSource interface {
	Provider
	FetchStreams(ctx context.Context, kind media.Kind, id string) ([]media.StreamRecord, error)
}

// Score is a rating on the provider's own scale. A zero Value means none.
type Score struct {
	Value float64
	Scale float64
}

// Rating converts the score to the unified 0-10 rating.
func (s Score) Rating() media.Rating {
	scale := s.Scale
	if scale == 0 {
		scale = 10
	}
	return media.NewRating(s.Value, scale)
}

// TenPoint is a Score on the usual 0-10 scale.
func TenPoint(v float64) Score {
	return Score{Value: v, Scale: 10}
}

// CountryHints collects every country clue a provider offers.
type CountryHints struct {
	// Explicit is a plain "country" field.
	Explicit string
	// Origin is an origin_country list (or a single coerced value).
	Origin []string
	// Network is the country of the network or web channel.
	Network string
}

// Payload is a show record as one provider returned it.
type Payload struct {
	Name        string
	Description string
	Poster      string
	Year        string
	Status      string
	Runtime     string
	Rating      Score
	Genres      []string
	Country     CountryHints
	Episodes    []EpisodePayload
}

// EpisodePayload is one episode as returned by a provider.
type EpisodePayload struct {
	Season    int
	Number    int
	Name      string
	Overview  string
	Released  string
	Rating    Score
	Thumbnail string
	ID        string
}

// SeasonPayload is season-level data from a seasons listing or an anime lookup.
type SeasonPayload struct {
	Number   int
	Poster   string
	Overview string
	Rating   Score
}
