// Package media holds the unified records produced by the resolver, the
// reconciler and the stream aggregator.
package media

import "strconv"

// Source records which provider a UnifiedMedia was resolved from.
type Source string

const (
	// SourceTVMaze is the episode-dense primary source.
	SourceTVMaze Source = "TVMaze"
	// SourceTMDB is the TMDB addon, the secondary source.
	SourceTMDB Source = "TMDB"
	// SourceSearch marks records found by title search against the primary source.
	SourceSearch Source = "Search"
)

// Kind is the Stremio content type used in addon paths.
type Kind string

const (
	KindSeries Kind = "series"
	KindMovie  Kind = "movie"
)

// UnknownCountry is stored when no provider knows the country of origin.
const UnknownCountry = "Unknown"

// UnifiedMedia is the single normalized record describing a show.
type UnifiedMedia struct {
	Source      Source    `json:"source" yaml:"source"`
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description" yaml:"description"`
	Poster      string    `json:"poster,omitempty" yaml:"poster,omitempty"`
	Year        string    `json:"year" yaml:"year"`
	Status      string    `json:"status" yaml:"status"`
	Runtime     string    `json:"runtime,omitempty" yaml:"runtime,omitempty"`
	Rating      Rating    `json:"rating" yaml:"rating"`
	Genres      []string  `json:"genres" yaml:"genres"`
	Country     string    `json:"country" yaml:"country"`
	Episodes    []Episode `json:"episodes" yaml:"episodes"`
}

// Clone returns a deep copy so callers can mutate episodes freely.
func (m *UnifiedMedia) Clone() *UnifiedMedia {
	if m == nil {
		return nil
	}
	c := *m
	c.Genres = append([]string(nil), m.Genres...)
	c.Episodes = append([]Episode(nil), m.Episodes...)
	return &c
}

// Episode is one entry of a show's episode list.
type Episode struct {
	Season    int    `json:"season" yaml:"season"`
	Number    int    `json:"episode" yaml:"episode"`
	Name      string `json:"name" yaml:"name"`
	Overview  string `json:"overview,omitempty" yaml:"overview,omitempty"`
	Released  string `json:"released,omitempty" yaml:"released,omitempty"`
	Rating    Rating `json:"rating" yaml:"rating"`
	Thumbnail string `json:"thumbnail,omitempty" yaml:"thumbnail,omitempty"`
	ID        string `json:"id,omitempty" yaml:"id,omitempty"`
}

// SeasonSummary is season-level data from the western seasons listing or the
// anime source.
type SeasonSummary struct {
	Number   int    `json:"season" yaml:"season"`
	Poster   string `json:"poster,omitempty" yaml:"poster,omitempty"`
	Overview string `json:"overview,omitempty" yaml:"overview,omitempty"`
	Rating   Rating `json:"rating" yaml:"rating"`
}

// StreamRecord is one playable release offered by a stream indexer.
type StreamRecord struct {
	ProviderName string `json:"provider" yaml:"provider"`
	Tag          string `json:"tag,omitempty" yaml:"tag,omitempty"`
	Title        string `json:"title" yaml:"title"`
	Link         string `json:"link" yaml:"link"`
	Resolution   string `json:"resolution,omitempty" yaml:"resolution,omitempty"`
	SizeBytes    *int64 `json:"size_bytes,omitempty" yaml:"size_bytes,omitempty"`
	Seeds        *int   `json:"seeds,omitempty" yaml:"seeds,omitempty"`
}

// ProviderQueryResult is the outcome of one fan-out task.
type ProviderQueryResult struct {
	ProviderName string         `json:"provider" yaml:"provider"`
	Streams      []StreamRecord `json:"streams" yaml:"streams"`
	Status       int            `json:"status,omitempty" yaml:"status,omitempty"`
	Err          error          `json:"-" yaml:"-"`
}

// OK reports whether the provider answered successfully.
func (r ProviderQueryResult) OK() bool {
	return r.Err == nil
}

// CatalogEntry is one item of a provider catalog listing.
type CatalogEntry struct {
	ID     string `json:"id" yaml:"id"`
	Kind   Kind   `json:"type" yaml:"type"`
	Title  string `json:"title" yaml:"title"`
	Year   string `json:"year,omitempty" yaml:"year,omitempty"`
	Poster string `json:"poster,omitempty" yaml:"poster,omitempty"`
}

// SearchResult is one title search hit.
type SearchResult struct {
	ID     string `json:"id" yaml:"id"`
	Title  string `json:"title" yaml:"title"`
	Year   string `json:"year,omitempty" yaml:"year,omitempty"`
	Kind   Kind   `json:"type" yaml:"type"`
	Poster string `json:"poster,omitempty" yaml:"poster,omitempty"`
}

// StreamID builds the addon stream id for an episode.
func StreamID(imdbID string, season, episode int) string {
	return imdbID + ":" + strconv.Itoa(season) + ":" + strconv.Itoa(episode)
}
