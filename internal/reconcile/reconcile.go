// Package reconcile builds season summaries for a resolved show and merges
// per-episode ratings into its episode list one season at a time.
package reconcile

import (
	"context"
	"log/slog"
	"maps"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/lepinkainen/showrunner/internal/media"
	"github.com/lepinkainen/showrunner/internal/provider"
)

// Reconciler holds the season-level providers shared by all tracked shows.
type Reconciler struct {
	ratings provider.SeasonRatingSource
	seasons provider.SeasonLister
	anime   provider.AnimeSeasonSource
}

// New picks, for each capability, the first provider that has it.
func New(providers ...provider.Provider) *Reconciler {
	r := &Reconciler{}
	for _, p := range providers {
		if v, ok := p.(provider.SeasonRatingSource); ok && r.ratings == nil {
			r.ratings = v
		}
		if v, ok := p.(provider.SeasonLister); ok && r.seasons == nil {
			r.seasons = v
		}
		if v, ok := p.(provider.AnimeSeasonSource); ok && r.anime == nil {
			r.anime = v
		}
	}
	return r
}

// Track takes ownership of a resolved record. title is used for anime
// searches and defaults to the record's name.
func (r *Reconciler) Track(id, title string, m *media.UnifiedMedia) *Show {
	if m == nil {
		m = &media.UnifiedMedia{Country: media.UnknownCountry}
	}
	if strings.TrimSpace(title) == "" {
		title = m.Name
	}
	return &Show{
		r:      r,
		id:     id,
		title:  strings.TrimSpace(title),
		class:  Classify(m.Country, m.Genres),
		media:  m,
		loaded: make(map[int]bool),
	}
}

// Show is the per-show reconciliation state. It is safe for concurrent use;
// the mutex guards every write to episode ratings.
type Show struct {
	r     *Reconciler
	id    string
	title string
	class Classification

	mu          sync.Mutex
	media       *media.UnifiedMedia
	summaries   map[int]media.SeasonSummary
	animeSource map[int]bool
	loaded      map[int]bool

	flight singleflight.Group
}

// ID returns the show's IMDb id.
func (s *Show) ID() string { return s.id }

// Classification returns the classification derived from country and genres.
func (s *Show) Classification() Classification { return s.class }

// Media returns a copy of the show record with the ratings merged so far.
func (s *Show) Media() *media.UnifiedMedia {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.media.Clone()
}

// SeasonKeys lists the seasons present in the episode list, specials last.
func (s *Show) SeasonKeys() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return media.SeasonKeys(s.media.Episodes)
}

// SeasonSummaries returns season-level data keyed by season number. Anime
// shows are looked up per key; when no key yields data the western listing
// is used instead. The result is computed once per show.
func (s *Show) SeasonSummaries(ctx context.Context, keys []int) map[int]media.SeasonSummary {
	s.mu.Lock()
	done := s.summaries != nil
	s.mu.Unlock()

	if !done && ctx.Err() == nil {
		s.share(ctx, "summaries", func(ctx context.Context) {
			s.mu.Lock()
			if s.summaries != nil {
				s.mu.Unlock()
				return
			}
			s.mu.Unlock()

			summaries, fromAnime := s.fetchSummaries(ctx, keys)

			s.mu.Lock()
			s.summaries = summaries
			s.animeSource = fromAnime
			s.mu.Unlock()
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.summaries)
}

// share runs fn once for every concurrent caller of key. fn gets a context
// detached from ctx, so a caller that gives up stops waiting without failing
// the work for the others.
func (s *Show) share(ctx context.Context, key string, fn func(context.Context)) {
	detached := context.WithoutCancel(ctx)
	ch := s.flight.DoChan(key, func() (any, error) {
		fn(detached)
		return nil, nil
	})
	select {
	case <-ch:
	case <-ctx.Done():
		slog.Debug("Stopped waiting for season data", "id", s.id, "key", key)
	}
}

func (s *Show) fetchSummaries(ctx context.Context, keys []int) (map[int]media.SeasonSummary, map[int]bool) {
	if s.class == Anime && s.r.anime != nil {
		if out := s.animeSummaries(ctx, keys); len(out) > 0 {
			fromAnime := make(map[int]bool, len(out))
			for n := range out {
				fromAnime[n] = true
			}
			return out, fromAnime
		}
		slog.Info("No anime season data, using western seasons", "id", s.id, "title", s.title)
	}
	return s.westernSummaries(ctx), map[int]bool{}
}

// animeSummaries queries each season key; the first term with data wins.
// Seasons with no match are simply missing from the result.
func (s *Show) animeSummaries(ctx context.Context, keys []int) map[int]media.SeasonSummary {
	out := make(map[int]media.SeasonSummary)
	for _, n := range keys {
		for _, term := range AnimeSearchTerms(s.title, n) {
			if ctx.Err() != nil {
				return out
			}
			p, err := s.r.anime.SearchAnime(ctx, term)
			if err != nil || p == nil {
				slog.Debug("Anime lookup returned no data", "provider", s.r.anime.Name(), "term", term, "error", err)
				continue
			}
			out[n] = summary(n, *p)
			break
		}
	}
	return out
}

func (s *Show) westernSummaries(ctx context.Context) map[int]media.SeasonSummary {
	out := make(map[int]media.SeasonSummary)
	if s.r.seasons == nil {
		return out
	}

	seasons, err := s.r.seasons.FetchSeasons(ctx, s.id)
	if err != nil {
		slog.Debug("Seasons listing returned no data", "provider", s.r.seasons.Name(), "id", s.id, "error", err)
		return out
	}
	for _, p := range seasons {
		out[p.Number] = summary(p.Number, p)
	}
	return out
}

func summary(n int, p provider.SeasonPayload) media.SeasonSummary {
	return media.SeasonSummary{
		Number:   n,
		Poster:   p.Poster,
		Overview: media.StripMarkup(p.Overview),
		Rating:   p.Rating.Rating(),
	}
}

// SeasonEpisodes returns copies of the episodes of one season after merging
// ratings into them. The first call for a season fetches per-episode ratings;
// later calls are answered from memory. Rating priority per episode: the
// per-episode rating, then the season's anime rating if season summaries came
// from the anime source, otherwise the episode is left as it was. Anime
// season summaries are computed first when they are not known yet.
func (s *Show) SeasonEpisodes(ctx context.Context, season int) []media.Episode {
	s.mu.Lock()
	done := s.loaded[season]
	s.mu.Unlock()

	if !done && ctx.Err() == nil {
		s.share(ctx, "season:"+strconv.Itoa(season), func(ctx context.Context) {
			s.mu.Lock()
			if s.loaded[season] {
				s.mu.Unlock()
				return
			}
			s.mu.Unlock()

			if s.class == Anime {
				s.SeasonSummaries(ctx, s.SeasonKeys())
			}
			ratings := s.fetchRatings(ctx, season)

			s.mu.Lock()
			s.mergeRatings(season, ratings)
			s.loaded[season] = true
			s.mu.Unlock()
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return media.EpisodesInSeason(s.media.Episodes, season)
}

func (s *Show) fetchRatings(ctx context.Context, season int) map[int]provider.Score {
	if s.r.ratings == nil {
		return nil
	}
	ratings, err := s.r.ratings.FetchSeasonRatings(ctx, s.id, season)
	if err != nil {
		slog.Debug("Season ratings returned no data", "provider", s.r.ratings.Name(), "id", s.id, "season", season, "error", err)
		return nil
	}
	return ratings
}

// mergeRatings must be called with s.mu held.
func (s *Show) mergeRatings(season int, ratings map[int]provider.Score) {
	var fallback media.Rating
	if s.animeSource[season] {
		fallback = s.summaries[season].Rating
	}

	for i := range s.media.Episodes {
		ep := &s.media.Episodes[i]
		if ep.Season != season {
			continue
		}
		if score, ok := ratings[ep.Number]; ok {
			if r := score.Rating(); r.Available() {
				ep.Rating = r
				continue
			}
		}
		if fallback.Available() {
			ep.Rating = fallback
		}
	}
}

// Loaded reports whether ratings for season have been merged.
func (s *Show) Loaded(season int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded[season]
}
