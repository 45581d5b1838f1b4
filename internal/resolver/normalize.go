package resolver

import (
	"strconv"
	"strings"

	"github.com/lepinkainen/showrunner/internal/media"
	"github.com/lepinkainen/showrunner/internal/provider"
)

const notAvailable = "N/A"

// Normalize turns a raw provider payload into a unified record: markup is
// stripped, the country is derived, ratings are rescaled, episode names are
// defaulted and episodes are sorted by (season, episode).
func Normalize(source media.Source, p *provider.Payload) *media.UnifiedMedia {
	m := &media.UnifiedMedia{
		Source:      source,
		Name:        strings.TrimSpace(p.Name),
		Description: media.StripMarkup(p.Description),
		Poster:      p.Poster,
		Year:        orNA(p.Year),
		Status:      orNA(p.Status),
		Runtime:     p.Runtime,
		Rating:      p.Rating.Rating(),
		Genres:      dedupe(p.Genres),
		Country:     DeriveCountry(p.Country),
		Episodes:    make([]media.Episode, 0, len(p.Episodes)),
	}

	for _, ep := range p.Episodes {
		m.Episodes = append(m.Episodes, normalizeEpisode(ep))
	}
	media.SortEpisodes(m.Episodes)
	return m
}

func normalizeEpisode(ep provider.EpisodePayload) media.Episode {
	name := strings.TrimSpace(ep.Name)
	if name == "" {
		name = "Episode " + strconv.Itoa(ep.Number)
	}
	return media.Episode{
		Season:    ep.Season,
		Number:    ep.Number,
		Name:      name,
		Overview:  media.StripMarkup(ep.Overview),
		Released:  ep.Released,
		Rating:    ep.Rating.Rating(),
		Thumbnail: ep.Thumbnail,
		ID:        ep.ID,
	}
}

// DeriveCountry applies the country priority: explicit field, then the
// origin list joined with commas, then the network country, then Unknown.
func DeriveCountry(h provider.CountryHints) string {
	if c := strings.TrimSpace(h.Explicit); c != "" {
		return c
	}
	if len(h.Origin) > 0 {
		if c := strings.Join(h.Origin, ","); c != "" {
			return c
		}
	}
	if c := strings.TrimSpace(h.Network); c != "" {
		return c
	}
	return media.UnknownCountry
}

func orNA(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return notAvailable
	}
	return s
}

// dedupe keeps the first occurrence of each genre.
func dedupe(genres []string) []string {
	out := make([]string, 0, len(genres))
	seen := make(map[string]bool, len(genres))
	for _, g := range genres {
		g = strings.TrimSpace(g)
		key := strings.ToLower(g)
		if g == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, g)
	}
	return out
}
