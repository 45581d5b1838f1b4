package cmd

import (
	stdErrors "errors"
	"fmt"
	"log/slog"

	"github.com/lepinkainen/showrunner/internal/errors"
	"github.com/lepinkainen/showrunner/internal/history"
	"github.com/lepinkainen/showrunner/internal/media"
)

// HistoryCmd groups the history subcommands
type HistoryCmd struct {
	List   HistoryListCmd   `cmd:"" default:"1" help:"List watched titles, most recent first"`
	Add    HistoryAddCmd    `cmd:"" help:"Record a watched title"`
	Remove HistoryRemoveCmd `cmd:"" help:"Remove a title from the history"`
}

// HistoryListCmd represents the history list command
type HistoryListCmd struct{}

func (c *HistoryListCmd) Run(app *App) error {
	store, err := app.Svc.History()
	if err != nil {
		return err
	}
	entries, err := store.Recent(app.Ctx)
	if err != nil {
		return err
	}

	t := &Table{Headers: []string{"ID", "Title", "Year", "Episode", "Last watched"}}
	for _, e := range entries {
		t.Append(e.IMDbID, e.Title, e.Year, episodeLabel(e), e.LastWatched.Local().Format("2006-01-02 15:04:05"))
	}
	return app.Out.Print(entries, t)
}

// HistoryAddCmd represents the history add command
type HistoryAddCmd struct {
	ID      string `arg:"" help:"IMDb id"`
	Title   string `short:"t" help:"Title; resolved from metadata when omitted"`
	Season  int    `short:"s" help:"Season watched"`
	Episode int    `short:"e" help:"Episode watched"`
	Link    string `help:"Stream link that was played"`
}

func (c *HistoryAddCmd) Run(app *App) error {
	entry := history.Entry{
		IMDbID:     c.ID,
		Title:      c.Title,
		Kind:       media.KindMovie,
		StreamLink: c.Link,
	}
	if c.Season > 0 || c.Episode > 0 {
		entry.Kind = media.KindSeries
		entry.Season = &c.Season
		entry.Episode = &c.Episode
	}

	m, err := app.Svc.Resolve(app.Ctx, c.ID, c.Title)
	switch {
	case err == nil:
		if entry.Title == "" {
			entry.Title = m.Name
		}
		entry.Year = m.Year
	case errors.IsNotFound(err):
		slog.Debug("No metadata for history entry", "id", c.ID, "error", err)
	default:
		return err
	}
	if entry.Title == "" {
		return fmt.Errorf("no title for %s; pass --title", c.ID)
	}

	store, err := app.Svc.History()
	if err != nil {
		return err
	}
	saved, err := store.Record(app.Ctx, entry)
	if err != nil {
		return err
	}

	t := &Table{Headers: []string{"ID", "Title", "Episode"}}
	t.Append(saved.IMDbID, saved.Title, episodeLabel(saved))
	return app.Out.Print(saved, t)
}

// HistoryRemoveCmd represents the history remove command
type HistoryRemoveCmd struct {
	ID string `arg:"" help:"IMDb id"`
}

func (c *HistoryRemoveCmd) Run(app *App) error {
	store, err := app.Svc.History()
	if err != nil {
		return err
	}
	if _, err := store.Get(app.Ctx, c.ID); err != nil {
		if stdErrors.Is(err, history.ErrNotFound) {
			return fmt.Errorf("%s is not in the history", c.ID)
		}
		return err
	}
	if err := store.Delete(app.Ctx, c.ID); err != nil {
		return err
	}
	app.Out.Line("Removed %s", c.ID)
	return nil
}

func episodeLabel(e history.Entry) string {
	if e.Season == nil || e.Episode == nil {
		return ""
	}
	return fmt.Sprintf("S%02dE%02d", *e.Season, *e.Episode)
}
