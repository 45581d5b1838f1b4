package cmd

import (
	"fmt"

	"github.com/lepinkainen/showrunner/internal/images"
)

// PosterCmd represents the poster command
type PosterCmd struct {
	URL    string `arg:"" help:"Image URL"`
	Output string `short:"o" help:"Save the image to this path (format from extension)"`
	Width  int    `help:"Maximum width when saving" default:"780"`
}

type posterInfo struct {
	URL    string `json:"url" yaml:"url"`
	Width  int    `json:"width" yaml:"width"`
	Height int    `json:"height" yaml:"height"`
	Saved  string `json:"saved,omitempty" yaml:"saved,omitempty"`
}

func (c *PosterCmd) Run(app *App) error {
	img, ok := app.Svc.Poster(app.Ctx, c.URL)
	if !ok {
		return fmt.Errorf("no image at %s", c.URL)
	}

	info := posterInfo{URL: c.URL, Width: img.Bounds().Dx(), Height: img.Bounds().Dy()}
	if c.Output != "" {
		if err := images.Save(img, c.Output, c.Width); err != nil {
			return err
		}
		info.Saved = c.Output
	}

	t := &Table{Headers: []string{"URL", "Width", "Height", "Saved"}, Right: []int{1, 2}}
	t.Append(info.URL, fmt.Sprint(info.Width), fmt.Sprint(info.Height), info.Saved)
	return app.Out.Print(info, t)
}
