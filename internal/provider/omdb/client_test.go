package omdb

import (
	"context"
	"net/http"
	"testing"

	"github.com/lepinkainen/showrunner/internal/errors"
	"github.com/lepinkainen/showrunner/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchSeasonRatings(t *testing.T) {
	api := testutil.NewAPIServer(t)
	api.Handle("/", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "test-key", q.Get("apikey"))
		assert.Equal(t, "tt4574334", q.Get("i"))
		assert.Equal(t, "1", q.Get("Season"))
		_, _ = w.Write([]byte(`{
			"Title": "Stranger Things", "Season": "1", "totalSeasons": "5",
			"Episodes": [
				{"Title": "Chapter One", "Episode": "1", "imdbRating": "8.5"},
				{"Title": "Chapter Two", "Episode": "2", "imdbRating": "N/A"},
				{"Title": "Chapter Three", "Episode": "3", "imdbRating": "8.9"},
				{"Title": "Broken", "Episode": "x", "imdbRating": "9.9"}
			],
			"Response": "True"
		}`))
	})

	client := NewClient("test-key", WithBaseURL(api.URL))
	ratings, err := client.FetchSeasonRatings(context.Background(), "tt4574334", 1)
	require.NoError(t, err)

	require.Len(t, ratings, 2)
	assert.Equal(t, 8.5, ratings[1].Value)
	assert.Equal(t, 8.9, ratings[3].Value)
	_, rated := ratings[2]
	assert.False(t, rated)
}

func TestFetchSeasonRatingsWithoutKey(t *testing.T) {
	for _, key := range []string{"", "  "} {
		api := testutil.NewAPIServer(t)
		client := NewClient(key, WithBaseURL(api.URL))

		ratings, err := client.FetchSeasonRatings(context.Background(), "tt1", 1)
		require.NoError(t, err)
		assert.Empty(t, ratings)
		assert.False(t, client.HasAPIKey())
		assert.Zero(t, api.TotalHits())
	}
}

func TestFetchSeasonRatingsNotFound(t *testing.T) {
	api := testutil.NewAPIServer(t)
	api.HandleJSON("/", map[string]string{"Response": "False", "Error": "Series or season not found!"})

	_, err := NewClient("k", WithBaseURL(api.URL)).FetchSeasonRatings(context.Background(), "tt1", 9)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestRequestLimitStopsFurtherRequests(t *testing.T) {
	api := testutil.NewAPIServer(t)
	api.HandleStatus("/", http.StatusUnauthorized, map[string]string{"Response": "False", "Error": "Request limit reached!"})

	client := NewClient("k", WithBaseURL(api.URL))
	_, err := client.FetchSeasonRatings(context.Background(), "tt1", 1)
	require.Error(t, err)
	assert.False(t, client.RequestsAllowed())

	_, err = client.FetchSeasonRatings(context.Background(), "tt1", 2)
	require.Error(t, err)
	assert.True(t, errors.IsRateLimitError(err))
	assert.Equal(t, 1, api.Hits("/"))
}

func TestRequestLimitInBody(t *testing.T) {
	api := testutil.NewAPIServer(t)
	api.HandleJSON("/", map[string]string{"Response": "False", "Error": "Request limit reached!"})

	client := NewClient("k", WithBaseURL(api.URL))
	_, err := client.FetchSeasonRatings(context.Background(), "tt1", 1)
	require.Error(t, err)
	assert.True(t, errors.IsRateLimitError(err))
	assert.False(t, client.RequestsAllowed())
}
