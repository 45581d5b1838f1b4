package omdb

import "github.com/lepinkainen/showrunner/internal/provider"

// seasonResponse is the OMDb answer to an i=...&Season=N request.
type seasonResponse struct {
	Title        string          `json:"Title"`
	Season       string          `json:"Season"`
	TotalSeasons string          `json:"totalSeasons"`
	Episodes     []seasonEpisode `json:"Episodes"`
	Response     string          `json:"Response"` // "True" or "False"
	Error        string          `json:"Error"`    // Present if Response is "False"
}

type seasonEpisode struct {
	Title      string              `json:"Title"`
	Released   string              `json:"Released"`
	Episode    string              `json:"Episode"`
	IMDbRating provider.FlexString `json:"imdbRating"`
	IMDbID     string              `json:"imdbID"`
}
