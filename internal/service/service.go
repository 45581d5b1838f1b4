// Package service wires the adapters, the resolver, the reconciler, the
// stream aggregator and the collaborators together for the CLI.
package service

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"sync"

	"github.com/lepinkainen/showrunner/internal/cache"
	"github.com/lepinkainen/showrunner/internal/config"
	"github.com/lepinkainen/showrunner/internal/history"
	"github.com/lepinkainen/showrunner/internal/images"
	"github.com/lepinkainen/showrunner/internal/media"
	"github.com/lepinkainen/showrunner/internal/provider"
	"github.com/lepinkainen/showrunner/internal/provider/anilist"
	"github.com/lepinkainen/showrunner/internal/provider/cinemeta"
	"github.com/lepinkainen/showrunner/internal/provider/imdbsearch"
	"github.com/lepinkainen/showrunner/internal/provider/omdb"
	"github.com/lepinkainen/showrunner/internal/provider/stremio"
	"github.com/lepinkainen/showrunner/internal/provider/tmdbaddon"
	"github.com/lepinkainen/showrunner/internal/provider/tvmaze"
	"github.com/lepinkainen/showrunner/internal/reconcile"
	"github.com/lepinkainen/showrunner/internal/resolver"
	"github.com/lepinkainen/showrunner/internal/streams"
	"github.com/lepinkainen/showrunner/internal/transport"
)

// ProviderInfo describes one configured provider for the providers listing.
type ProviderInfo struct {
	Name     string `json:"name" yaml:"name"`
	Role     string `json:"role" yaml:"role"`
	Endpoint string `json:"endpoint" yaml:"endpoint"`
	Ready    bool   `json:"ready" yaml:"ready"`
}

// Service is the single entry point used by the commands.
type Service struct {
	cfg  *config.Config
	memo *cache.Memo

	resolver   *resolver.Resolver
	reconciler *reconcile.Reconciler
	aggregator *streams.Aggregator
	catalog    provider.CatalogSource
	search     provider.TitleSearcher
	images     *images.Fetcher
	omdb       *omdb.Client
	indexers   []*stremio.Client

	mu      sync.Mutex
	shows   map[string]*reconcile.Show
	history *history.Store
}

// New builds every adapter from cfg.
func New(cfg *config.Config) (*Service, error) {
	httpClient := transport.NewHTTPClient(cfg.HTTPTimeout, cfg.UserAgent)
	imageClient := transport.NewImageClient(cfg.ImageTimeout, cfg.UserAgent)
	memo := cache.NewMemo()

	tv := tvmaze.NewClient(tvmaze.WithHTTPClient(httpClient), tvmaze.WithBaseURL(cfg.TVMazeURL))
	tmdb := tmdbaddon.NewClient(tmdbaddon.WithHTTPClient(httpClient), tmdbaddon.WithBaseURL(cfg.TMDBAddonURL))
	meta := cinemeta.NewClient(cinemeta.WithHTTPClient(httpClient), cinemeta.WithBaseURL(cfg.CinemetaURL))
	omdbKey := cfg.OMDbAPIKey
	if !cfg.HasOMDbKey() {
		slog.Info("OMDb API key not configured, per-episode ratings disabled")
		omdbKey = ""
	}
	ratings := omdb.NewClient(omdbKey, omdb.WithHTTPClient(httpClient), omdb.WithBaseURL(cfg.OMDbURL))
	anime := anilist.NewClient(anilist.WithHTTPClient(httpClient), anilist.WithEndpoint(cfg.AniListURL))
	search := imdbsearch.NewClient(imdbsearch.WithHTTPClient(httpClient), imdbsearch.WithBaseURL(cfg.IMDbSearchURL))

	indexers := make([]*stremio.Client, 0, len(cfg.StreamProviders))
	sources := make([]provider.Provider, 0, len(cfg.StreamProviders))
	for _, p := range cfg.StreamProviders {
		c, err := stremio.NewClient(p.Name, p.Manifest, stremio.WithHTTPClient(httpClient))
		if err != nil {
			return nil, err
		}
		indexers = append(indexers, c)
		sources = append(sources, c)
	}

	return &Service{
		cfg:  cfg,
		memo: memo,
		resolver: resolver.New(
			resolver.DefaultChain(tv, tmdb),
			resolver.WithEnricher(meta),
			resolver.WithCache(memo),
		),
		reconciler: reconcile.New(ratings, tv, anime),
		aggregator: streams.New(sources...),
		indexers:   indexers,
		catalog:    meta,
		search:     search,
		images:     images.NewFetcher(imageClient, memo),
		omdb:       ratings,
		shows:      make(map[string]*reconcile.Show),
	}, nil
}

// Resolve returns the unified record for id.
func (s *Service) Resolve(ctx context.Context, id, title string) (*media.UnifiedMedia, error) {
	return s.resolver.Resolve(ctx, id, title)
}

// Show resolves id and returns its reconciliation state. The same *Show is
// returned for repeated calls so season data and merged ratings are kept.
func (s *Service) Show(ctx context.Context, id, title string) (*reconcile.Show, error) {
	s.mu.Lock()
	show, ok := s.shows[id]
	s.mu.Unlock()
	if ok {
		return show, nil
	}

	m, err := s.resolver.Resolve(ctx, id, title)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if show, ok := s.shows[id]; ok {
		return show, nil
	}
	show = s.reconciler.Track(id, title, m)
	s.shows[id] = show
	return show, nil
}

// Streams fans out to every stream provider and returns per-provider results.
func (s *Service) Streams(ctx context.Context, kind media.Kind, id string) []media.ProviderQueryResult {
	return s.aggregator.Query(ctx, kind, id)
}

// Search runs a free-text title search.
func (s *Service) Search(ctx context.Context, query string) ([]media.SearchResult, error) {
	return s.search.SearchTitles(ctx, query)
}

// Catalog lists a catalog such as "top" from the enrichment source.
func (s *Service) Catalog(ctx context.Context, kind media.Kind, list string) ([]media.CatalogEntry, error) {
	return s.catalog.FetchCatalog(ctx, kind, list)
}

// Poster downloads and decodes an image through the session cache.
func (s *Service) Poster(ctx context.Context, url string) (image.Image, bool) {
	return s.images.Fetch(ctx, url)
}

// Providers lists the configured providers and whether each can be used.
func (s *Service) Providers() []ProviderInfo {
	infos := []ProviderInfo{
		{Name: "TVMaze", Role: "metadata (primary)", Endpoint: s.cfg.TVMazeURL, Ready: true},
		{Name: "TMDB", Role: "metadata (secondary)", Endpoint: s.cfg.TMDBAddonURL, Ready: true},
		{Name: "Cinemeta", Role: "enrichment, catalog", Endpoint: s.cfg.CinemetaURL, Ready: true},
		{Name: "OMDb", Role: "episode ratings", Endpoint: s.cfg.OMDbURL, Ready: s.omdb.HasAPIKey() && s.omdb.RequestsAllowed()},
		{Name: "AniList", Role: "anime seasons", Endpoint: s.cfg.AniListURL, Ready: true},
		{Name: "IMDb", Role: "title search", Endpoint: s.cfg.IMDbSearchURL, Ready: true},
	}
	for _, c := range s.indexers {
		infos = append(infos, ProviderInfo{Name: c.Name(), Role: "streams", Endpoint: c.BaseEndpoint(), Ready: true})
	}
	return infos
}

// StreamProviders returns the stream provider names in query order.
func (s *Service) StreamProviders() []string {
	return s.aggregator.Providers()
}

// History opens the history store on first use.
func (s *Service) History() (*history.Store, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.history != nil {
		return s.history, nil
	}
	store, err := history.Open(s.cfg.HistoryDBFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	s.history = store
	return store, nil
}

// CacheStats reports session cache activity.
func (s *Service) CacheStats() cache.Stats {
	return s.memo.Stats()
}

// Close releases the history database if it was opened.
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := s.memo.Stats()
	slog.Debug("Session cache", "entries", stats.Entries, "hits", stats.Hits, "misses", stats.Misses)

	if s.history == nil {
		return nil
	}
	err := s.history.Close()
	s.history = nil
	return err
}
