package reconcile

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/showrunner/internal/errors"
	"github.com/lepinkainen/showrunner/internal/media"
	"github.com/lepinkainen/showrunner/internal/provider"
)

type fakeRatings struct {
	mu      sync.Mutex
	calls   map[int]int
	ratings map[int]map[int]provider.Score
}

func (f *fakeRatings) Name() string { return "ratings" }

func (f *fakeRatings) FetchSeasonRatings(_ context.Context, _ string, season int) (map[int]provider.Score, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[int]int)
	}
	f.calls[season]++
	r, ok := f.ratings[season]
	if !ok {
		return nil, errors.NewNotFound("ratings", "no season %d", season)
	}
	return r, nil
}

type fakeSeasons struct {
	calls   int
	seasons []provider.SeasonPayload
}

func (f *fakeSeasons) Name() string { return "seasons" }

func (f *fakeSeasons) FetchSeasons(context.Context, string) ([]provider.SeasonPayload, error) {
	f.calls++
	return f.seasons, nil
}

type fakeAnime struct {
	terms []string
	hits  map[string]provider.SeasonPayload
}

func (f *fakeAnime) Name() string { return "anime" }

func (f *fakeAnime) SearchAnime(_ context.Context, term string) (*provider.SeasonPayload, error) {
	f.terms = append(f.terms, term)
	p, ok := f.hits[term]
	if !ok {
		return nil, errors.NewNotFound("anime", "no match for %q", term)
	}
	return &p, nil
}

func record(country string, genres ...string) *media.UnifiedMedia {
	return &media.UnifiedMedia{
		Name:    "Frieren",
		Country: country,
		Genres:  genres,
		Episodes: []media.Episode{
			{Season: 1, Number: 1, Name: "One"},
			{Season: 1, Number: 2, Name: "Two", Rating: media.NewRating(7, 10)},
			{Season: 2, Number: 1, Name: "Three"},
		},
	}
}

func TestNewDetectsCapabilities(t *testing.T) {
	ratings := &fakeRatings{}
	seasons := &fakeSeasons{}
	anime := &fakeAnime{}

	r := New(seasons, anime, ratings)
	assert.Same(t, ratings, r.ratings)
	assert.Same(t, seasons, r.seasons)
	assert.Same(t, anime, r.anime)
}

func TestWesternSeasonSummaries(t *testing.T) {
	seasons := &fakeSeasons{seasons: []provider.SeasonPayload{
		{Number: 1, Overview: "<p>First season.</p>", Poster: "s1.jpg"},
		{Number: 2},
	}}
	anime := &fakeAnime{}

	show := New(seasons, anime).Track("tt1", "Dark", record("Germany", "Drama"))
	assert.Equal(t, Western, show.Classification())

	got := show.SeasonSummaries(context.Background(), []int{1, 2})
	require.Len(t, got, 2)
	assert.Equal(t, "First season.", got[1].Overview)
	assert.Equal(t, "s1.jpg", got[1].Poster)
	assert.Empty(t, anime.terms, "western shows never hit the anime source")

	show.SeasonSummaries(context.Background(), []int{1, 2})
	assert.Equal(t, 1, seasons.calls, "summaries are computed once")
}

func TestAnimeSeasonSummaries(t *testing.T) {
	anime := &fakeAnime{hits: map[string]provider.SeasonPayload{
		"Frieren":   {Overview: "Elf<br>mage", Rating: provider.Score{Value: 85, Scale: 100}},
		"Frieren 2": {Overview: "Part two", Rating: provider.Score{Value: 90, Scale: 100}},
	}}
	seasons := &fakeSeasons{}

	show := New(seasons, anime).Track("tt2", "Frieren", record("Japan"))
	require.Equal(t, Anime, show.Classification())

	got := show.SeasonSummaries(context.Background(), []int{1, 2})
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[1].Number)
	assert.Equal(t, "Elf\nmage", got[1].Overview)
	assert.Equal(t, "8.5", got[1].Rating.String())
	assert.Equal(t, "9.0", got[2].Rating.String())
	assert.Equal(t, []string{"Frieren", "Frieren Season 2", "Frieren 2"}, anime.terms)
	assert.Zero(t, seasons.calls)
}

func TestAnimeFallsBackToWestern(t *testing.T) {
	anime := &fakeAnime{}
	seasons := &fakeSeasons{seasons: []provider.SeasonPayload{{Number: 1, Overview: "western"}}}

	show := New(seasons, anime).Track("tt3", "", record("USA", "Anime"))
	require.Equal(t, Anime, show.Classification())

	got := show.SeasonSummaries(context.Background(), []int{1, 2})
	require.Len(t, got, 1)
	assert.Equal(t, "western", got[1].Overview)
	assert.Equal(t, 1, seasons.calls)
	assert.Len(t, anime.terms, 3, "title defaults to the record name")
}

func TestAnimePartialCoverageKept(t *testing.T) {
	anime := &fakeAnime{hits: map[string]provider.SeasonPayload{
		"Frieren": {Rating: provider.Score{Value: 85, Scale: 100}},
	}}
	seasons := &fakeSeasons{seasons: []provider.SeasonPayload{{Number: 2}}}

	show := New(seasons, anime).Track("tt4", "Frieren", record("Japan"))
	got := show.SeasonSummaries(context.Background(), []int{1, 2})

	require.Len(t, got, 1)
	assert.Contains(t, got, 1)
	assert.Zero(t, seasons.calls)
}

func TestSeasonEpisodesRatingPriority(t *testing.T) {
	ratings := &fakeRatings{ratings: map[int]map[int]provider.Score{
		1: {1: provider.TenPoint(9.1)},
	}}
	anime := &fakeAnime{hits: map[string]provider.SeasonPayload{
		"Frieren": {Rating: provider.Score{Value: 85, Scale: 100}},
	}}

	show := New(ratings, anime).Track("tt5", "Frieren", record("Japan"))
	show.SeasonSummaries(context.Background(), []int{1})

	eps := show.SeasonEpisodes(context.Background(), 1)
	require.Len(t, eps, 2)
	assert.Equal(t, "9.1", eps[0].Rating.String(), "per-episode rating wins")
	assert.Equal(t, "8.5", eps[1].Rating.String(), "anime season rating fills the rest")

	// Season 2 has neither an episode rating nor an anime summary.
	eps = show.SeasonEpisodes(context.Background(), 2)
	require.Len(t, eps, 1)
	assert.False(t, eps[0].Rating.Available())
}

func TestSeasonEpisodesComputesAnimeSummariesFirst(t *testing.T) {
	anime := &fakeAnime{hits: map[string]provider.SeasonPayload{
		"Frieren": {Rating: provider.Score{Value: 85, Scale: 100}},
	}}
	show := New(&fakeRatings{}, anime).Track("tt5", "Frieren", record("Japan"))

	eps := show.SeasonEpisodes(context.Background(), 1)
	require.Len(t, eps, 2)
	assert.Equal(t, "8.5", eps[0].Rating.String())
	assert.Equal(t, "8.5", eps[1].Rating.String())
	assert.Contains(t, show.SeasonSummaries(context.Background(), nil), 1)
}

// gatedRatings holds every fetch until release is closed.
type gatedRatings struct {
	release chan struct{}
	calls   atomic.Int32
}

func (g *gatedRatings) Name() string { return "ratings" }

func (g *gatedRatings) FetchSeasonRatings(ctx context.Context, _ string, _ int) (map[int]provider.Score, error) {
	g.calls.Add(1)
	select {
	case <-g.release:
		return map[int]provider.Score{1: provider.TenPoint(9.4)}, nil
	case <-ctx.Done():
		return nil, errors.NewTransportFailure("ratings", ctx.Err())
	}
}

func TestSeasonEpisodesCancelledCallerDoesNotFailOthers(t *testing.T) {
	ratings := &gatedRatings{release: make(chan struct{})}
	show := New(ratings).Track("tt10", "Dark", record("Germany"))

	first, cancel := context.WithCancel(context.Background())
	firstDone := make(chan []media.Episode, 1)
	go func() { firstDone <- show.SeasonEpisodes(first, 1) }()

	time.Sleep(10 * time.Millisecond)
	second := make(chan []media.Episode, 1)
	go func() { second <- show.SeasonEpisodes(context.Background(), 1) }()

	time.Sleep(20 * time.Millisecond)
	cancel()
	eps := <-firstDone
	require.Len(t, eps, 2)
	assert.False(t, eps[0].Rating.Available(), "the cancelled caller sees unmerged episodes")

	close(ratings.release)
	eps = <-second
	require.Len(t, eps, 2)
	assert.Equal(t, "9.4", eps[0].Rating.String())
	assert.True(t, show.Loaded(1))
	assert.Equal(t, int32(1), ratings.calls.Load())
}

func TestSeasonEpisodesWesternLeavesExistingRatings(t *testing.T) {
	ratings := &fakeRatings{ratings: map[int]map[int]provider.Score{1: {}}}
	show := New(ratings).Track("tt6", "Dark", record("Germany"))

	eps := show.SeasonEpisodes(context.Background(), 1)
	require.Len(t, eps, 2)
	assert.False(t, eps[0].Rating.Available())
	assert.Equal(t, "7.0", eps[1].Rating.String())
}

func TestSeasonEpisodesIsIdempotent(t *testing.T) {
	ratings := &fakeRatings{ratings: map[int]map[int]provider.Score{
		1: {1: provider.TenPoint(8)},
	}}
	show := New(ratings).Track("tt7", "Dark", record("Germany"))

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			show.SeasonEpisodes(context.Background(), 1)
		}()
	}
	wg.Wait()
	show.SeasonEpisodes(context.Background(), 1)

	assert.Equal(t, 1, ratings.calls[1])
	assert.True(t, show.Loaded(1))
	assert.False(t, show.Loaded(2))
}

func TestSeasonEpisodesFailedFetchIsFinal(t *testing.T) {
	ratings := &fakeRatings{}
	show := New(ratings).Track("tt8", "Dark", record("Germany"))

	show.SeasonEpisodes(context.Background(), 2)
	show.SeasonEpisodes(context.Background(), 2)
	assert.Equal(t, 1, ratings.calls[2])
}

func TestSeasonEpisodesReturnsCopies(t *testing.T) {
	show := New().Track("tt9", "Dark", record("Germany"))

	eps := show.SeasonEpisodes(context.Background(), 1)
	eps[0].Name = "changed"

	assert.Equal(t, "One", show.SeasonEpisodes(context.Background(), 1)[0].Name)
	assert.Equal(t, []int{1, 2}, show.SeasonKeys())
	assert.Equal(t, "One", show.Media().Episodes[0].Name)
}
