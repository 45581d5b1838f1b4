// Package resolver turns an IMDb id and display title into one unified show
// record by walking an ordered chain of metadata sources and merging an
// enrichment lookup into whatever the chain found.
package resolver

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/lepinkainen/showrunner/internal/cache"
	"github.com/lepinkainen/showrunner/internal/errors"
	"github.com/lepinkainen/showrunner/internal/media"
	"github.com/lepinkainen/showrunner/internal/provider"
)

const (
	resolverName  = "Resolver"
	cacheResource = "meta"
)

// FetchFunc is one attempt of the chain. Any error means "try the next one".
type FetchFunc func(ctx context.Context, id, title string) (*provider.Payload, error)

// Strategy is a named, ordered candidate in the fallback chain.
type Strategy struct {
	Name   string
	Source media.Source
	Fetch  FetchFunc
}

// ByID looks the show up by id on p.
func ByID(source media.Source, p provider.ByIDLookup) Strategy {
	return Strategy{
		Name:   p.Name() + " by id",
		Source: source,
		Fetch: func(ctx context.Context, id, _ string) (*provider.Payload, error) {
			return p.FetchByID(ctx, id)
		},
	}
}

// ByTitle searches p by display title. A trailing parenthetical such as
// "(2016)" is dropped before searching.
func ByTitle(p provider.NameSearcher) Strategy {
	return Strategy{
		Name:   p.Name() + " title search",
		Source: media.SourceSearch,
		Fetch: func(ctx context.Context, _, title string) (*provider.Payload, error) {
			query := SearchTitle(title)
			if query == "" {
				return nil, errors.NewNotFound(p.Name(), "no title to search for")
			}
			return p.SearchByName(ctx, query)
		},
	}
}

// SearchTitle strips a trailing parenthetical suffix from a display title.
func SearchTitle(title string) string {
	before, _, _ := strings.Cut(title, "(")
	return strings.TrimSpace(before)
}

// DefaultChain builds primary by id, secondary by id, then primary by title.
// Steps whose capability is missing are left out.
func DefaultChain(primary, secondary provider.Provider) []Strategy {
	var chain []Strategy
	if p, ok := primary.(provider.ByIDLookup); ok {
		chain = append(chain, ByID(media.SourceTVMaze, p))
	}
	if p, ok := secondary.(provider.ByIDLookup); ok {
		chain = append(chain, ByID(media.SourceTMDB, p))
	}
	if p, ok := primary.(provider.NameSearcher); ok {
		chain = append(chain, ByTitle(p))
	}
	return chain
}

// Resolver resolves shows through a fallback chain.
type Resolver struct {
	chain    []Strategy
	enricher provider.ByIDLookup
	memo     *cache.Memo
}

// Option is a functional option for configuring the Resolver.
type Option func(*Resolver)

// WithEnricher sets the lookup merged into every resolved record.
func WithEnricher(p provider.ByIDLookup) Option {
	return func(r *Resolver) {
		r.enricher = p
	}
}

// WithCache memoizes resolved records (and misses) per id.
func WithCache(m *cache.Memo) Option {
	return func(r *Resolver) {
		r.memo = m
	}
}

// New creates a Resolver that tries chain in order.
func New(chain []Strategy, opts ...Option) *Resolver {
	r := &Resolver{chain: chain}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Chain returns the strategy names in the order they are tried.
func (r *Resolver) Chain() []string {
	names := make([]string, 0, len(r.chain))
	for _, s := range r.chain {
		names = append(names, s.Name)
	}
	return names
}

// Resolve returns the unified record for id. When no strategy has data the
// error is a NotFound provider error. The returned record belongs to the
// caller.
func (r *Resolver) Resolve(ctx context.Context, id, title string) (*media.UnifiedMedia, error) {
	var m *media.UnifiedMedia
	if r.memo != nil {
		// Misses are stored as nil. The lookup is shared, so it runs to
		// completion even if this caller gives up.
		var err error
		m, _, err = cache.GetOrFetch(ctx, r.memo, cacheResource, id, func(ctx context.Context) (*media.UnifiedMedia, error) {
			return r.resolve(ctx, id, title), nil
		})
		if err != nil {
			return nil, err
		}
	} else {
		m = r.resolve(ctx, id, title)
	}

	if m == nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.NewNotFound(resolverName, "no metadata for %s", id)
	}
	return m.Clone(), nil
}

// resolve runs the chain and the enrichment lookup side by side and merges
// them. Neither half returns an error; failures only mean "no data".
func (r *Resolver) resolve(ctx context.Context, id, title string) *media.UnifiedMedia {
	var (
		g        errgroup.Group
		resolved *media.UnifiedMedia
		extra    *provider.Payload
	)

	g.Go(func() error {
		resolved = r.runChain(ctx, id, title)
		return nil
	})
	if r.enricher != nil {
		g.Go(func() error {
			p, err := r.enricher.FetchByID(ctx, id)
			if err != nil {
				slog.Debug("Enrichment lookup returned no data", "provider", r.enricher.Name(), "id", id, "error", err)
				return nil
			}
			extra = p
			return nil
		})
	}
	_ = g.Wait()

	if resolved == nil {
		return nil
	}
	Enrich(resolved, extra)
	return resolved
}

func (r *Resolver) runChain(ctx context.Context, id, title string) *media.UnifiedMedia {
	for _, s := range r.chain {
		if ctx.Err() != nil {
			return nil
		}
		p, err := s.Fetch(ctx, id, title)
		if err != nil || p == nil {
			slog.Debug("Strategy returned no data, trying next", "strategy", s.Name, "id", id, "error", err)
			continue
		}
		slog.Debug("Resolved metadata", "strategy", s.Name, "source", s.Source, "id", id)
		return Normalize(s.Source, p)
	}
	slog.Info("No metadata source had data", "id", id, "title", title)
	return nil
}
