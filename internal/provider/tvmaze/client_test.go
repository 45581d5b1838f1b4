package tvmaze

import (
	"context"
	"net/http"
	"testing"

	"github.com/lepinkainen/showrunner/internal/errors"
	"github.com/lepinkainen/showrunner/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAPI(t *testing.T) *testutil.APIServer {
	t.Helper()

	api := testutil.NewAPIServer(t)
	api.Handle("/lookup/shows", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("imdb") != "tt4574334" {
			http.NotFound(w, r)
			return
		}
		http.Redirect(w, r, "/shows/2993", http.StatusMovedPermanently)
	})
	api.HandleJSON("/shows/2993", map[string]any{
		"id":             2993,
		"name":           "Stranger Things",
		"summary":        "<p><b>Stranger Things</b> is a drama.</p>",
		"status":         "Ended",
		"premiered":      "2016-07-15",
		"averageRuntime": 61,
		"rating":         map[string]any{"average": 8.6},
		"genres":         []string{"Drama", "Fantasy"},
		"image":          map[string]any{"original": "https://img/poster.jpg"},
		"network":        nil,
		"webChannel": map[string]any{
			"name":    "Netflix",
			"country": nil,
		},
	})
	api.HandleJSON("/shows/2993/episodes", []map[string]any{
		{"id": 1, "season": 1, "number": 1, "name": "Chapter One", "summary": "<p>Will vanishes.</p>", "airdate": "2016-07-15", "rating": map[string]any{"average": 8.4}, "image": map[string]any{"original": "https://img/ep1.jpg"}},
		{"id": 2, "season": 1, "number": 2, "name": "", "summary": "", "airdate": "2016-07-15", "rating": map[string]any{"average": nil}, "image": nil},
	})
	api.HandleJSON("/shows/2993/seasons", []map[string]any{
		{"id": 10, "number": 0, "summary": "specials"},
		{"id": 11, "number": 1, "summary": "<p>Season one.</p>", "image": map[string]any{"original": "https://img/s1.jpg"}},
		{"id": 12, "number": 2, "summary": nil, "image": nil},
	})
	return api
}

func TestFetchByIDFollowsLookupRedirect(t *testing.T) {
	api := newTestAPI(t)
	client := NewClient(WithBaseURL(api.URL + "/"))

	p, err := client.FetchByID(context.Background(), "tt4574334")
	require.NoError(t, err)

	assert.Equal(t, "Stranger Things", p.Name)
	assert.Equal(t, "<p><b>Stranger Things</b> is a drama.</p>", p.Description, "adapters pass markup through")
	assert.Equal(t, "2016", p.Year)
	assert.Equal(t, "61 min", p.Runtime)
	assert.Equal(t, 8.6, p.Rating.Value)
	assert.Equal(t, "https://img/poster.jpg", p.Poster)
	assert.Empty(t, p.Country.Network)
	require.Len(t, p.Episodes, 2)
	assert.Equal(t, "Chapter One", p.Episodes[0].Name)
	assert.Equal(t, "1", p.Episodes[0].ID)
	assert.Equal(t, "https://img/ep1.jpg", p.Episodes[0].Thumbnail)
	assert.Zero(t, p.Episodes[1].Rating.Value)
}

func TestFetchByIDNotFound(t *testing.T) {
	api := newTestAPI(t)
	client := NewClient(WithBaseURL(api.URL))

	p, err := client.FetchByID(context.Background(), "tt0000000")
	require.Error(t, err)
	assert.Nil(t, p)
	assert.True(t, errors.IsNotFound(err))
	assert.Zero(t, api.Hits("/shows/2993/episodes"))
}

func TestNetworkCountryPreferredOverWebChannel(t *testing.T) {
	s := &show{
		Network:    &channel{Country: &country{Name: "United States"}},
		WebChannel: &channel{Country: &country{Name: "Canada"}},
	}
	assert.Equal(t, "United States", s.payload().Country.Network)

	s.Network = nil
	assert.Equal(t, "Canada", s.payload().Country.Network)
}

func TestSearchByNameUsesFirstHit(t *testing.T) {
	api := newTestAPI(t)
	api.Handle("/search/shows", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Stranger Things", r.URL.Query().Get("q"))
		_, _ = w.Write([]byte(`[{"score": 0.9, "show": {"id": 2993, "name": "Stranger Things"}}, {"score": 0.1, "show": {"id": 1, "name": "Other"}}]`))
	})
	client := NewClient(WithBaseURL(api.URL))

	p, err := client.SearchByName(context.Background(), "Stranger Things")
	require.NoError(t, err)
	assert.Equal(t, "Stranger Things", p.Name)
	assert.Len(t, p.Episodes, 2)
}

func TestSearchByNameNoResults(t *testing.T) {
	api := newTestAPI(t)
	api.HandleJSON("/search/shows", []any{})
	client := NewClient(WithBaseURL(api.URL))

	_, err := client.SearchByName(context.Background(), "Nothing")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestFetchSeasonsSkipsSpecials(t *testing.T) {
	api := newTestAPI(t)
	client := NewClient(WithBaseURL(api.URL))

	seasons, err := client.FetchSeasons(context.Background(), "tt4574334")
	require.NoError(t, err)
	require.Len(t, seasons, 2)
	assert.Equal(t, 1, seasons[0].Number)
	assert.Equal(t, "https://img/s1.jpg", seasons[0].Poster)
	assert.Equal(t, "<p>Season one.</p>", seasons[0].Overview)
	assert.Equal(t, 2, seasons[1].Number)
	assert.Empty(t, seasons[1].Poster)
	assert.Zero(t, seasons[1].Rating.Value)
}

func TestMissingEpisodesKeepsShow(t *testing.T) {
	api := testutil.NewAPIServer(t)
	api.HandleJSON("/lookup/shows", map[string]any{"id": 5, "name": "No Episodes"})
	api.HandleStatus("/shows/5/episodes", http.StatusInternalServerError, nil)
	client := NewClient(WithBaseURL(api.URL))

	p, err := client.FetchByID(context.Background(), "tt5")
	require.NoError(t, err)
	assert.Equal(t, "No Episodes", p.Name)
	assert.Empty(t, p.Episodes)
	assert.Equal(t, "TVMaze", client.Name())
}
