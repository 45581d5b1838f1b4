package media

import (
	"cmp"
	"slices"
	"strconv"
)

// SortEpisodes orders episodes by (season, episode) ascending.
func SortEpisodes(episodes []Episode) {
	slices.SortStableFunc(episodes, func(a, b Episode) int {
		if c := cmp.Compare(a.Season, b.Season); c != 0 {
			return c
		}
		return cmp.Compare(a.Number, b.Number)
	})
}

// SeasonKeys lists the seasons present in episodes in ascending order, with
// specials (season 0) moved to the end.
func SeasonKeys(episodes []Episode) []int {
	seen := make(map[int]bool)
	var keys []int
	hasSpecials := false
	for _, ep := range episodes {
		if seen[ep.Season] {
			continue
		}
		seen[ep.Season] = true
		if ep.Season == 0 {
			hasSpecials = true
			continue
		}
		keys = append(keys, ep.Season)
	}
	slices.Sort(keys)
	if hasSpecials {
		keys = append(keys, 0)
	}
	return keys
}

// EpisodesInSeason returns copies of the episodes belonging to season.
func EpisodesInSeason(episodes []Episode, season int) []Episode {
	var out []Episode
	for _, ep := range episodes {
		if ep.Season == season {
			out = append(out, ep)
		}
	}
	return out
}

// SeasonLabel is the display name of a season key.
func SeasonLabel(season int) string {
	if season == 0 {
		return "Extras"
	}
	return "Season " + strconv.Itoa(season)
}
