// Package config turns viper settings into the explicit Config handed to
// every adapter constructor.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/lepinkainen/showrunner/internal/transport"
)

// OMDbPlaceholderKey is the value written to fresh config files.
const OMDbPlaceholderKey = "YOUR_KEY_HERE"

// StreamProvider is one configured stream indexer.
type StreamProvider struct {
	Name     string `mapstructure:"name" yaml:"name"`
	Manifest string `mapstructure:"manifest" yaml:"manifest"`
}

// DefaultStreamProviders are used when streams.providers is not configured.
var DefaultStreamProviders = []StreamProvider{
	{Name: "Torrentio", Manifest: "https://torrentio.strem.fun/qualityfilter=480p,other,scr,cam,unknown/manifest.json"},
	{Name: "Comet", Manifest: "https://comet.elfhosted.com/manifest.json"},
}

// Config holds every setting the application needs.
type Config struct {
	HTTPTimeout  time.Duration
	ImageTimeout time.Duration
	UserAgent    string

	TVMazeURL     string
	TMDBAddonURL  string
	CinemetaURL   string
	OMDbURL       string
	AniListURL    string
	IMDbSearchURL string

	OMDbAPIKey string

	StreamProviders []StreamProvider

	HistoryDBFile string
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("http.timeout", transport.DefaultTimeout.String())
	v.SetDefault("http.image_timeout", transport.DefaultImageTimeout.String())
	v.SetDefault("http.user_agent", transport.DefaultUserAgent)

	v.SetDefault("tvmaze.url", "https://api.tvmaze.com")
	v.SetDefault("tmdb_addon.url", "https://94c8cb9f702d-tmdb-addon.baby-beamup.club")
	v.SetDefault("cinemeta.url", "https://v3-cinemeta.strem.io")
	v.SetDefault("omdb.url", "http://www.omdbapi.com")
	v.SetDefault("anilist.url", "https://graphql.anilist.co")
	v.SetDefault("imdb_search.url", "https://v3.sg.media-imdb.com")

	v.SetDefault("omdb.api_key", OMDbPlaceholderKey)

	providers := make([]map[string]string, 0, len(DefaultStreamProviders))
	for _, p := range DefaultStreamProviders {
		providers = append(providers, map[string]string{"name": p.Name, "manifest": p.Manifest})
	}
	v.SetDefault("streams.providers", providers)

	v.SetDefault("history.dbfile", "./history.db")
}

// Load reads and validates the configuration from v.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		HTTPTimeout:   v.GetDuration("http.timeout"),
		ImageTimeout:  v.GetDuration("http.image_timeout"),
		UserAgent:     v.GetString("http.user_agent"),
		TVMazeURL:     v.GetString("tvmaze.url"),
		TMDBAddonURL:  v.GetString("tmdb_addon.url"),
		CinemetaURL:   v.GetString("cinemeta.url"),
		OMDbURL:       v.GetString("omdb.url"),
		AniListURL:    v.GetString("anilist.url"),
		IMDbSearchURL: v.GetString("imdb_search.url"),
		OMDbAPIKey:    strings.TrimSpace(v.GetString("omdb.api_key")),
		HistoryDBFile: v.GetString("history.dbfile"),
	}

	if err := v.UnmarshalKey("streams.providers", &cfg.StreamProviders); err != nil {
		return nil, fmt.Errorf("invalid streams.providers: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that every URL parses and every stream provider is usable.
func (c *Config) Validate() error {
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http.timeout must be positive, got %s", c.HTTPTimeout)
	}
	if c.ImageTimeout <= 0 {
		return fmt.Errorf("http.image_timeout must be positive, got %s", c.ImageTimeout)
	}

	urls := map[string]string{
		"tvmaze.url":      c.TVMazeURL,
		"tmdb_addon.url":  c.TMDBAddonURL,
		"cinemeta.url":    c.CinemetaURL,
		"omdb.url":        c.OMDbURL,
		"anilist.url":     c.AniListURL,
		"imdb_search.url": c.IMDbSearchURL,
	}
	for key, raw := range urls {
		if err := checkURL(raw); err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
	}

	for i, p := range c.StreamProviders {
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("streams.providers[%d]: name is required", i)
		}
		if err := checkURL(p.Manifest); err != nil {
			return fmt.Errorf("streams.providers[%d] (%s): invalid manifest: %w", i, p.Name, err)
		}
	}

	if c.HistoryDBFile == "" {
		return fmt.Errorf("history.dbfile is required")
	}
	return nil
}

// HasOMDbKey reports whether a real OMDb key is configured.
func (c *Config) HasOMDbKey() bool {
	return c.OMDbAPIKey != "" && c.OMDbAPIKey != OMDbPlaceholderKey
}

func checkURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%q is not an absolute URL", raw)
	}
	return nil
}
