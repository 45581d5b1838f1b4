// Package addonmeta decodes the Stremio addon meta format shared by the
// TMDB addon and Cinemeta.
package addonmeta

import (
	"github.com/lepinkainen/showrunner/internal/provider"
)

// Response is the envelope of a /meta/{type}/{id}.json request.
type Response struct {
	Meta *Meta `json:"meta"`
}

// CatalogResponse is the envelope of a /catalog/{type}/{id}.json request.
type CatalogResponse struct {
	Metas []Meta `json:"metas"`
}

// Meta is an addon meta object.
type Meta struct {
	ID            string              `json:"id"`
	IMDbID        string              `json:"imdb_id"`
	Type          string              `json:"type"`
	Name          string              `json:"name"`
	Description   string              `json:"description"`
	Poster        string              `json:"poster"`
	Year          provider.FlexString `json:"year"`
	ReleaseInfo   provider.FlexString `json:"releaseInfo"`
	Runtime       provider.FlexString `json:"runtime"`
	IMDbRating    provider.FlexString `json:"imdbRating"`
	Genres        []string            `json:"genres"`
	Genre         []string            `json:"genre"`
	Country       string              `json:"country"`
	OriginCountry provider.FlexList   `json:"origin_country"`
	Videos        []Video             `json:"videos"`
}

// Video is an episode entry of a series meta.
type Video struct {
	ID          string              `json:"id"`
	Season      int                 `json:"season"`
	Episode     int                 `json:"episode"`
	Number      int                 `json:"number"`
	Name        string              `json:"name"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Overview    string              `json:"overview"`
	Released    string              `json:"released"`
	FirstAired  string              `json:"firstAired"`
	IMDbRating  provider.FlexString `json:"imdbRating"`
	Rating      provider.FlexString `json:"rating"`
	Thumbnail   string              `json:"thumbnail"`
}

// Empty reports whether the meta carries nothing worth resolving.
func (m *Meta) Empty() bool {
	return m == nil || (m.Name == "" && m.ID == "" && len(m.Videos) == 0)
}

// Payload converts the meta into a raw provider payload.
func (m *Meta) Payload() *provider.Payload {
	p := &provider.Payload{
		Name:        m.Name,
		Description: m.Description,
		Poster:      m.Poster,
		Year:        m.Year.String(),
		Status:      m.ReleaseInfo.String(),
		Runtime:     m.Runtime.String(),
		Rating:      provider.TenPoint(m.IMDbRating.Float()),
		Genres:      m.genres(),
		Country: provider.CountryHints{
			Explicit: m.Country,
			Origin:   m.OriginCountry,
		},
	}
	if p.Year == "" && len(p.Status) >= 4 {
		p.Year = p.Status[:4]
	}
	for _, v := range m.Videos {
		p.Episodes = append(p.Episodes, v.payload())
	}
	return p
}

func (m *Meta) genres() []string {
	if len(m.Genres) > 0 {
		return m.Genres
	}
	return m.Genre
}

func (v Video) payload() provider.EpisodePayload {
	ep := provider.EpisodePayload{
		Season:    v.Season,
		Number:    v.Episode,
		Name:      v.Name,
		Overview:  v.Description,
		Released:  v.Released,
		Rating:    provider.TenPoint(v.IMDbRating.Float()),
		Thumbnail: v.Thumbnail,
		ID:        v.ID,
	}
	if ep.Number == 0 {
		ep.Number = v.Number
	}
	if ep.Name == "" {
		ep.Name = v.Title
	}
	if ep.Overview == "" {
		ep.Overview = v.Overview
	}
	if ep.Released == "" {
		ep.Released = v.FirstAired
	}
	if ep.Rating.Value == 0 {
		ep.Rating = provider.TenPoint(v.Rating.Float())
	}
	return ep
}
