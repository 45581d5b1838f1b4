package resolver

import (
	"github.com/lepinkainen/showrunner/internal/media"
	"github.com/lepinkainen/showrunner/internal/provider"
)

// Enrich merges an enrichment payload into m:
//   - rating is overwritten when the enrichment has one;
//   - genres are filled only when m has none;
//   - country is filled only when m's is missing or Unknown.
//
// Name, description, poster and episodes are never touched, so applying the
// same payload twice is a no-op.
func Enrich(m *media.UnifiedMedia, e *provider.Payload) {
	if m == nil || e == nil {
		return
	}

	if r := e.Rating.Rating(); r.Available() {
		m.Rating = r
	}

	if len(m.Genres) == 0 {
		m.Genres = dedupe(e.Genres)
	}

	if m.Country == "" || m.Country == media.UnknownCountry {
		if c := DeriveCountry(e.Country); c != media.UnknownCountry {
			m.Country = c
		}
	}
}
