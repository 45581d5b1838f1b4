package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lepinkainen/showrunner/internal/media"
)

// SearchCmd represents the search command
type SearchCmd struct {
	Query []string `arg:"" help:"Title to search for"`
}

func (c *SearchCmd) Run(app *App) error {
	query := strings.Join(c.Query, " ")
	results, err := app.Svc.Search(app.Ctx, query)
	if err != nil {
		return fmt.Errorf("search for %q failed: %w", query, err)
	}

	t := &Table{Headers: []string{"ID", "Title", "Year", "Type"}}
	for _, r := range results {
		t.Append(r.ID, r.Title, r.Year, string(r.Kind))
	}
	return app.Out.Print(results, t)
}

// ShowCmd represents the show command
type ShowCmd struct {
	ID    string `arg:"" help:"IMDb id, e.g. tt4574334"`
	Title string `short:"t" help:"Display title used for the title-search fallback"`
}

func (c *ShowCmd) Run(app *App) error {
	show, err := app.Svc.Show(app.Ctx, c.ID, c.Title)
	if err != nil {
		return err
	}
	m := show.Media()

	t := &Table{Headers: []string{"Field", "Value"}}
	t.Append("Name", m.Name)
	t.Append("Source", string(m.Source))
	t.Append("Year", m.Year)
	t.Append("Status", m.Status)
	t.Append("Runtime", runtimeLabel(m.Runtime))
	t.Append("Rating", m.Rating.Display())
	t.Append("Genres", strings.Join(m.Genres, ", "))
	t.Append("Country", m.Country)
	t.Append("Classification", show.Classification().String())
	t.Append("Seasons", strconv.Itoa(len(show.SeasonKeys())))
	t.Append("Episodes", strconv.Itoa(len(m.Episodes)))
	t.Append("Description", media.FirstLine(m.Description))
	return app.Out.Print(m, t)
}

// SeasonsCmd represents the seasons command
type SeasonsCmd struct {
	ID    string `arg:"" help:"IMDb id"`
	Title string `short:"t" help:"Display title"`
}

func (c *SeasonsCmd) Run(app *App) error {
	show, err := app.Svc.Show(app.Ctx, c.ID, c.Title)
	if err != nil {
		return err
	}
	keys := show.SeasonKeys()
	summaries := show.SeasonSummaries(app.Ctx, keys)

	t := &Table{Headers: []string{"Season", "Rating", "Overview"}, Right: []int{1}}
	for _, k := range keys {
		s := summaries[k]
		t.Append(media.SeasonLabel(k), s.Rating.String(), media.FirstLine(s.Overview))
	}
	return app.Out.Print(summaries, t)
}

// EpisodesCmd represents the episodes command
type EpisodesCmd struct {
	ID     string `arg:"" help:"IMDb id"`
	Season int    `arg:"" help:"Season number (0 for extras)"`
	Title  string `short:"t" help:"Display title"`
}

func (c *EpisodesCmd) Run(app *App) error {
	show, err := app.Svc.Show(app.Ctx, c.ID, c.Title)
	if err != nil {
		return err
	}

	episodes := show.SeasonEpisodes(app.Ctx, c.Season)
	if len(episodes) == 0 {
		return fmt.Errorf("%s has no episodes in %s", c.ID, strings.ToLower(media.SeasonLabel(c.Season)))
	}

	t := &Table{Headers: []string{"#", "Name", "Released", "Rating"}, Right: []int{0, 3}}
	for _, ep := range episodes {
		t.Append(fmt.Sprintf("%02d", ep.Number), ep.Name, media.FormatDate(ep.Released), ep.Rating.String())
	}
	return app.Out.Print(episodes, t)
}

// TrendingCmd represents the trending command
type TrendingCmd struct {
	Kind string `help:"Catalog type" enum:"series,movie" default:"series"`
	List string `help:"Catalog id" default:"top"`
}

func (c *TrendingCmd) Run(app *App) error {
	entries, err := app.Svc.Catalog(app.Ctx, media.Kind(c.Kind), c.List)
	if err != nil {
		return fmt.Errorf("failed to list %s catalog: %w", c.List, err)
	}

	t := &Table{Headers: []string{"ID", "Title", "Year"}}
	for _, e := range entries {
		t.Append(e.ID, e.Title, e.Year)
	}
	return app.Out.Print(entries, t)
}

// ProvidersCmd represents the providers command
type ProvidersCmd struct{}

func (c *ProvidersCmd) Run(app *App) error {
	infos := app.Svc.Providers()

	t := &Table{Headers: []string{"Name", "Role", "Ready", "Endpoint"}}
	for _, p := range infos {
		ready := "yes"
		if !p.Ready {
			ready = "no"
		}
		t.Append(p.Name, p.Role, ready, p.Endpoint)
	}
	return app.Out.Print(infos, t)
}

// runtimeLabel formats runtimes such as "61 min"; other values pass through.
func runtimeLabel(runtime string) string {
	fields := strings.Fields(runtime)
	if len(fields) == 0 {
		return media.FormatRuntime(0)
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return runtime
	}
	return media.FormatRuntime(n)
}
