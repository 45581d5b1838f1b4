package reconcile

import (
	"strconv"
	"strings"
)

// Classification selects where season-level data comes from.
type Classification int

const (
	// Western shows use the all-seasons listing.
	Western Classification = iota
	// Anime shows are looked up season by season on the anime source.
	Anime
)

func (c Classification) String() string {
	if c == Anime {
		return "anime"
	}
	return "western"
}

// Classify decides anime vs western. The country is checked first ("Japan"
// or "JP", any case); genres are only consulted when the country says no.
func Classify(country string, genres []string) Classification {
	c := strings.ToUpper(country)
	if strings.Contains(c, "JAPAN") || strings.Contains(c, "JP") {
		return Anime
	}
	for _, g := range genres {
		if strings.Contains(strings.ToLower(g), "anime") {
			return Anime
		}
	}
	return Western
}

// AnimeSearchTerms returns the anime search terms for a season, in the order
// they are tried.
func AnimeSearchTerms(title string, season int) []string {
	if season > 1 {
		n := strconv.Itoa(season)
		return []string{title + " Season " + n, title + " " + n}
	}
	return []string{title}
}
