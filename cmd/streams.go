package cmd

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/lepinkainen/showrunner/internal/media"
	"github.com/lepinkainen/showrunner/internal/streams"
)

// StreamsCmd represents the streams command
type StreamsCmd struct {
	ID      string `arg:"" help:"IMDb id"`
	Season  int    `short:"s" help:"Season number; omit for movies"`
	Episode int    `short:"e" help:"Episode number; omit for movies"`
}

// target returns the addon type and stream id to query.
func (c *StreamsCmd) target() (media.Kind, string, error) {
	if c.Season == 0 && c.Episode == 0 {
		return media.KindMovie, c.ID, nil
	}
	if c.Episode <= 0 {
		return "", "", fmt.Errorf("--episode is required with --season")
	}
	return media.KindSeries, media.StreamID(c.ID, c.Season, c.Episode), nil
}

func (c *StreamsCmd) Run(app *App) error {
	kind, id, err := c.target()
	if err != nil {
		return err
	}

	results := app.Svc.Streams(app.Ctx, kind, id)
	for _, r := range results {
		if !r.OK() {
			slog.Warn("Provider returned no streams", "provider", r.ProviderName, "status", r.Status, "error", r.Err)
		}
	}
	all := streams.Flatten(results)

	t := &Table{Headers: []string{"Provider", "Title", "Quality", "Size", "Seeds"}, Right: []int{3, 4}}
	for _, s := range all {
		seeds := "-"
		if s.Seeds != nil {
			seeds = strconv.Itoa(*s.Seeds)
		}
		t.Append(s.ProviderName, s.Title, s.Resolution, media.FormatSize(s.SizeBytes), seeds)
	}
	if err := app.Out.Print(all, t); err != nil {
		return err
	}
	app.Out.Line("%d streams from %d providers", len(all), len(results))
	return nil
}
