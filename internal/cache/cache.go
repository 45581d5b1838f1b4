// Package cache memoizes metadata and image lookups for the lifetime of a
// session.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

// FetchFunc represents a function that fetches data from an external source
type FetchFunc[T any] func(ctx context.Context) (T, error)

// Memo is an unbounded session cache. Entries never expire; concurrent misses
// for the same key share one fetch.
type Memo struct {
	store  *gocache.Cache
	flight singleflight.Group
	hits   atomic.Int64
	misses atomic.Int64
}

// Stats is a snapshot of cache activity.
type Stats struct {
	Entries int
	Hits    int64
	Misses  int64
}

// NewMemo creates an empty session cache.
func NewMemo() *Memo {
	return &Memo{
		// No expiry and no janitor goroutine.
		store: gocache.New(gocache.NoExpiration, 0),
	}
}

// Stats reports entry count and hit/miss counters.
func (m *Memo) Stats() Stats {
	return Stats{
		Entries: m.store.ItemCount(),
		Hits:    m.hits.Load(),
		Misses:  m.misses.Load(),
	}
}

// Flush drops every entry.
func (m *Memo) Flush() {
	m.store.Flush()
}

// Key joins a resource type and an id into a cache key.
func Key(resource, id string) string {
	return resource + ":" + id
}

// GetOrFetch returns the cached value for (resource, id) or fetches it.
// The bool result reports whether the value came from the cache.
//
// The fetch is shared by every caller asking for the key and runs detached
// from their contexts. A caller whose ctx ends stops waiting and gets
// ctx.Err(); the fetch carries on for the others and its result is stored.
func GetOrFetch[T any](ctx context.Context, m *Memo, resource, id string, fetchFunc FetchFunc[T]) (T, bool, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, false, err
	}

	key := Key(resource, id)
	if v, ok := lookup[T](m, key); ok {
		m.hits.Add(1)
		slog.Debug("Cache hit", "resource", resource, "key", id)
		return v, true, nil
	}

	detached := context.WithoutCancel(ctx)
	ch := m.flight.DoChan(key, func() (any, error) {
		// Another flight may have stored the value between lookup and DoChan.
		if v, ok := lookup[T](m, key); ok {
			return cached[T]{v}, nil
		}

		m.misses.Add(1)
		slog.Debug("Cache miss, fetching data", "resource", resource, "key", id)
		data, err := fetchFunc(detached)
		if err != nil {
			return zero, err
		}
		m.store.SetDefault(key, data)
		return data, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		slog.Debug("Caller stopped waiting for fetch", "resource", resource, "key", id)
		return zero, false, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return zero, false, fmt.Errorf("failed to fetch %s: %w", key, res.Err)
	}

	if c, ok := res.Val.(cached[T]); ok {
		m.hits.Add(1)
		return c.v, true, nil
	}
	v, ok := asType[T](res.Val)
	if !ok {
		return zero, false, fmt.Errorf("cache entry %s has unexpected type %T", key, res.Val)
	}
	return v, false, nil
}

// cached marks a flight result that was found in the store.
type cached[T any] struct{ v T }

func lookup[T any](m *Memo, key string) (T, bool) {
	var zero T
	raw, ok := m.store.Get(key)
	if !ok {
		return zero, false
	}
	v, ok := asType[T](raw)
	if !ok {
		slog.Warn("Cache entry has unexpected type, refetching", "key", key, "type", fmt.Sprintf("%T", raw))
		return zero, false
	}
	return v, true
}

// asType converts a stored value back to T. A nil entry is the zero value of
// T, which lets interface types such as image.Image record a negative result.
func asType[T any](raw any) (T, bool) {
	var zero T
	if raw == nil {
		return zero, true
	}
	v, ok := raw.(T)
	return v, ok
}
