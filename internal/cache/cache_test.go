package cache

import (
	"context"
	"errors"
	"image"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testData struct {
	ID   int
	Name string
}

func TestGetOrFetchFetchesOnce(t *testing.T) {
	memo := NewMemo()
	calls := 0
	fetch := func(context.Context) (*testData, error) {
		calls++
		return &testData{ID: 1, Name: "first"}, nil
	}

	first, fromCache, err := GetOrFetch(context.Background(), memo, "meta", "tt1", fetch)
	require.NoError(t, err)
	assert.False(t, fromCache)
	assert.Equal(t, "first", first.Name)

	second, fromCache, err := GetOrFetch(context.Background(), memo, "meta", "tt1", fetch)
	require.NoError(t, err)
	assert.True(t, fromCache)
	assert.Same(t, first, second)
	assert.Equal(t, 1, calls)

	stats := memo.Stats()
	assert.Equal(t, 1, stats.Entries)
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
}

func TestGetOrFetchKeysByResource(t *testing.T) {
	memo := NewMemo()
	calls := 0
	fetch := func(context.Context) (string, error) {
		calls++
		return "value", nil
	}

	_, _, err := GetOrFetch(context.Background(), memo, "meta", "tt1", fetch)
	require.NoError(t, err)
	_, _, err = GetOrFetch(context.Background(), memo, "seasons", "tt1", fetch)
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
}

func TestGetOrFetchDoesNotStoreErrors(t *testing.T) {
	memo := NewMemo()
	calls := 0
	fetch := func(context.Context) (string, error) {
		calls++
		if calls == 1 {
			return "", errors.New("boom")
		}
		return "ok", nil
	}

	_, _, err := GetOrFetch(context.Background(), memo, "meta", "tt1", fetch)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")

	v, fromCache, err := GetOrFetch(context.Background(), memo, "meta", "tt1", fetch)
	require.NoError(t, err)
	assert.False(t, fromCache)
	assert.Equal(t, "ok", v)
}

func TestGetOrFetchStoresNegativeResults(t *testing.T) {
	memo := NewMemo()
	calls := 0
	fetch := func(context.Context) (image.Image, error) {
		calls++
		return nil, nil
	}

	img, _, err := GetOrFetch(context.Background(), memo, "image", "http://example.com/a.jpg", fetch)
	require.NoError(t, err)
	assert.Nil(t, img)

	img, fromCache, err := GetOrFetch(context.Background(), memo, "image", "http://example.com/a.jpg", fetch)
	require.NoError(t, err)
	assert.True(t, fromCache)
	assert.Nil(t, img)
	assert.Equal(t, 1, calls)
}

func TestGetOrFetchCancelledCallerDoesNotFailOthers(t *testing.T) {
	memo := NewMemo()
	var calls atomic.Int32
	release := make(chan struct{})
	fetch := func(ctx context.Context) (string, error) {
		calls.Add(1)
		<-release
		if err := ctx.Err(); err != nil {
			return "", err
		}
		return "shared", nil
	}

	first, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, _, err := GetOrFetch(first, memo, "meta", "tt1", fetch)
		firstErr <- err
	}()

	// Let the first caller start the fetch before the second joins it.
	time.Sleep(20 * time.Millisecond)
	secondResult := make(chan string, 1)
	go func() {
		v, _, err := GetOrFetch(context.Background(), memo, "meta", "tt1", fetch)
		assert.NoError(t, err)
		secondResult <- v
	}()
	time.Sleep(20 * time.Millisecond)

	cancel()
	require.ErrorIs(t, <-firstErr, context.Canceled)

	close(release)
	assert.Equal(t, "shared", <-secondResult)
	assert.Equal(t, int32(1), calls.Load())

	v, fromCache, err := GetOrFetch(context.Background(), memo, "meta", "tt1", fetch)
	require.NoError(t, err)
	assert.True(t, fromCache)
	assert.Equal(t, "shared", v)
}

func TestGetOrFetchWithDoneContext(t *testing.T) {
	memo := NewMemo()
	calls := 0
	fetch := func(context.Context) (string, error) {
		calls++
		return "x", nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := GetOrFetch(ctx, memo, "meta", "tt1", fetch)
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls)
	assert.Zero(t, memo.Stats().Entries)
}

func TestGetOrFetchConcurrentMissesShareOneFetch(t *testing.T) {
	memo := NewMemo()
	var calls atomic.Int32
	release := make(chan struct{})
	fetch := func(context.Context) (int, error) {
		calls.Add(1)
		<-release
		return 42, nil
	}

	const workers = 8
	var wg sync.WaitGroup
	results := make([]int, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, _, err := GetOrFetch(context.Background(), memo, "meta", "shared", fetch)
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}

	// Give the goroutines a moment to pile up on the in-flight fetch.
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, v := range results {
		assert.Equal(t, 42, v)
	}
}

func TestFlush(t *testing.T) {
	memo := NewMemo()
	_, _, err := GetOrFetch(context.Background(), memo, "meta", "tt1", func(context.Context) (string, error) { return "x", nil })
	require.NoError(t, err)
	memo.Flush()
	assert.Equal(t, 0, memo.Stats().Entries)
}
