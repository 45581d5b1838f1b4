// Package streams fans a stream request out to every configured indexer and
// joins the answers.
package streams

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/sourcegraph/conc/iter"

	"github.com/lepinkainen/showrunner/internal/errors"
	"github.com/lepinkainen/showrunner/internal/media"
	"github.com/lepinkainen/showrunner/internal/provider"
)

// Aggregator queries stream providers concurrently.
type Aggregator struct {
	providers []provider.StreamSource
}

// New keeps the providers that can list streams, in the given order.
func New(providers ...provider.Provider) *Aggregator {
	a := &Aggregator{}
	for _, p := range providers {
		if s, ok := p.(provider.StreamSource); ok {
			a.providers = append(a.providers, s)
		}
	}
	return a
}

// Providers returns the configured provider names in query order.
func (a *Aggregator) Providers() []string {
	names := make([]string, 0, len(a.providers))
	for _, p := range a.providers {
		names = append(names, p.Name())
	}
	return names
}

// Query asks every provider at once and waits for all of them. The results
// are in provider order; a failure is recorded in its result and never
// affects the others.
func (a *Aggregator) Query(ctx context.Context, kind media.Kind, id string) []media.ProviderQueryResult {
	// One goroutine per provider; the iter default caps it at GOMAXPROCS.
	mapper := iter.Mapper[provider.StreamSource, media.ProviderQueryResult]{MaxGoroutines: len(a.providers)}
	return mapper.Map(a.providers, func(p *provider.StreamSource) media.ProviderQueryResult {
		return query(ctx, *p, kind, id)
	})
}

func query(ctx context.Context, p provider.StreamSource, kind media.Kind, id string) media.ProviderQueryResult {
	res := media.ProviderQueryResult{ProviderName: p.Name()}

	streams, err := p.FetchStreams(ctx, kind, id)
	if err != nil {
		slog.Warn("Stream provider failed", "provider", p.Name(), "id", id, "error", err)
		res.Err = err
		res.Status = errors.StatusCode(err)
		return res
	}

	res.Streams = streams
	res.Status = http.StatusOK
	slog.Debug("Stream provider answered", "provider", p.Name(), "id", id, "streams", len(streams))
	return res
}

// GetStreams returns every successful provider's streams, concatenated in
// provider order. It never fails; total failure is an empty list.
func (a *Aggregator) GetStreams(ctx context.Context, kind media.Kind, id string) []media.StreamRecord {
	return Flatten(a.Query(ctx, kind, id))
}

// Flatten concatenates the streams of successful results.
func Flatten(results []media.ProviderQueryResult) []media.StreamRecord {
	out := []media.StreamRecord{}
	for _, r := range results {
		if !r.OK() {
			continue
		}
		out = append(out, r.Streams...)
	}
	return out
}
