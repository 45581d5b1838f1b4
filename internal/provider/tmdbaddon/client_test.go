package tmdbaddon

import (
	"context"
	"net/http"
	"testing"

	"github.com/lepinkainen/showrunner/internal/errors"
	"github.com/lepinkainen/showrunner/internal/media"
	"github.com/lepinkainen/showrunner/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchByID(t *testing.T) {
	api := testutil.NewAPIServer(t)
	api.HandleJSON("/meta/series/tt4574334.json", map[string]any{
		"meta": map[string]any{
			"name":           "Stranger Things",
			"description":    "Drama",
			"country":        "",
			"origin_country": []string{"US", "CA"},
			"releaseInfo":    "2016-",
			"imdbRating":     "8.7",
			"genres":         []string{"Drama"},
			"videos": []map[string]any{
				{"season": 1, "episode": 1, "name": "Chapter One", "description": "Will vanishes."},
			},
		},
	})

	client := NewClient(WithBaseURL(api.URL))
	p, err := client.FetchByID(context.Background(), "tt4574334")
	require.NoError(t, err)

	assert.Equal(t, "Stranger Things", p.Name)
	assert.Equal(t, []string{"US", "CA"}, p.Country.Origin)
	assert.Equal(t, 8.7, p.Rating.Value)
	require.Len(t, p.Episodes, 1)
	assert.Equal(t, "Will vanishes.", p.Episodes[0].Overview)
	assert.Equal(t, "TMDB", client.Name())
}

func TestFetchByIDMovieKind(t *testing.T) {
	api := testutil.NewAPIServer(t)
	api.HandleJSON("/meta/movie/tt0137523.json", map[string]any{"meta": map[string]any{"name": "Fight Club"}})

	client := NewClient(WithBaseURL(api.URL), WithKind(media.KindMovie))
	p, err := client.FetchByID(context.Background(), "tt0137523")
	require.NoError(t, err)
	assert.Equal(t, "Fight Club", p.Name)
}

func TestFetchByIDEmptyMeta(t *testing.T) {
	api := testutil.NewAPIServer(t)
	api.HandleJSON("/meta/series/tt1.json", map[string]any{"meta": map[string]any{}})

	_, err := NewClient(WithBaseURL(api.URL)).FetchByID(context.Background(), "tt1")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestFetchByIDServerError(t *testing.T) {
	api := testutil.NewAPIServer(t)
	api.HandleStatus("/meta/series/tt1.json", http.StatusBadGateway, nil)

	_, err := NewClient(WithBaseURL(api.URL)).FetchByID(context.Background(), "tt1")
	require.Error(t, err)
	assert.True(t, errors.IsTransportFailure(err))
	assert.Equal(t, http.StatusBadGateway, errors.StatusCode(err))
}
