package tvmaze

import (
	"strconv"

	"github.com/lepinkainen/showrunner/internal/provider"
)

type image struct {
	Medium   string `json:"medium"`
	Original string `json:"original"`
}

func (i *image) original() string {
	if i == nil {
		return ""
	}
	return i.Original
}

type country struct {
	Name string `json:"name"`
}

type channel struct {
	Name    string   `json:"name"`
	Country *country `json:"country"`
}

func (c *channel) countryName() string {
	if c == nil || c.Country == nil {
		return ""
	}
	return c.Country.Name
}

type rating struct {
	Average float64 `json:"average"`
}

type show struct {
	ID             int      `json:"id"`
	Name           string   `json:"name"`
	Summary        string   `json:"summary"`
	Status         string   `json:"status"`
	Premiered      string   `json:"premiered"`
	AverageRuntime int      `json:"averageRuntime"`
	Rating         rating   `json:"rating"`
	Genres         []string `json:"genres"`
	Image          *image   `json:"image"`
	Network        *channel `json:"network"`
	WebChannel     *channel `json:"webChannel"`
}

func (s *show) payload() *provider.Payload {
	p := &provider.Payload{
		Name:        s.Name,
		Description: s.Summary,
		Poster:      s.Image.original(),
		Status:      s.Status,
		Rating:      provider.TenPoint(s.Rating.Average),
		Genres:      s.Genres,
	}
	if len(s.Premiered) >= 4 {
		p.Year = s.Premiered[:4]
	}
	if s.AverageRuntime > 0 {
		p.Runtime = strconv.Itoa(s.AverageRuntime) + " min"
	}
	p.Country.Network = s.Network.countryName()
	if p.Country.Network == "" {
		p.Country.Network = s.WebChannel.countryName()
	}
	return p
}

type episode struct {
	ID      int    `json:"id"`
	Season  int    `json:"season"`
	Number  int    `json:"number"`
	Name    string `json:"name"`
	Summary string `json:"summary"`
	Airdate string `json:"airdate"`
	Rating  rating `json:"rating"`
	Image   *image `json:"image"`
}

func (e episode) payload() provider.EpisodePayload {
	return provider.EpisodePayload{
		Season:    e.Season,
		Number:    e.Number,
		Name:      e.Name,
		Overview:  e.Summary,
		Released:  e.Airdate,
		Rating:    provider.TenPoint(e.Rating.Average),
		Thumbnail: e.Image.original(),
		ID:        strconv.Itoa(e.ID),
	}
}

type season struct {
	ID      int    `json:"id"`
	Number  int    `json:"number"`
	Summary string `json:"summary"`
	Image   *image `json:"image"`
}

type searchHit struct {
	Score float64 `json:"score"`
	Show  *show   `json:"show"`
}
