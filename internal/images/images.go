// Package images downloads and decodes posters and thumbnails. Every URL is
// fetched at most once per session.
package images

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"github.com/lepinkainen/showrunner/internal/cache"
	"github.com/lepinkainen/showrunner/internal/transport"
)

const (
	providerName    = "Images"
	cacheResource   = "image"
	defaultMaxWidth = 780
)

// Fetcher downloads and decodes images through the session cache.
type Fetcher struct {
	http *transport.Client
	memo *cache.Memo
}

// NewFetcher creates a Fetcher. c should be the short-timeout image client.
func NewFetcher(c transport.HTTPDoer, memo *cache.Memo) *Fetcher {
	if memo == nil {
		memo = cache.NewMemo()
	}
	return &Fetcher{
		http: transport.NewClient(providerName, transport.WithHTTPClient(c)),
		memo: memo,
	}
}

// Fetch returns the decoded image at url, or false when it could not be
// downloaded or decoded. Failures are remembered like successes. A caller
// that gives up gets false, but the download still finishes for everyone
// else waiting on the same url.
func (f *Fetcher) Fetch(ctx context.Context, url string) (image.Image, bool) {
	if url == "" {
		return nil, false
	}

	img, _, err := cache.GetOrFetch(ctx, f.memo, cacheResource, url, func(ctx context.Context) (image.Image, error) {
		return f.download(ctx, url), nil
	})
	if err != nil || img == nil {
		return nil, false
	}
	return img, true
}

func (f *Fetcher) download(ctx context.Context, url string) image.Image {
	body, err := f.http.Get(ctx, url)
	if err != nil {
		slog.Debug("Image download failed", "url", url, "error", err)
		return nil
	}
	defer func() { _ = body.Close() }()

	img, err := imaging.Decode(body, imaging.AutoOrientation(true))
	if err != nil {
		slog.Debug("Image decode failed", "url", url, "error", err)
		return nil
	}
	return img
}

// Save writes img to path, scaling it down to maxWidth first. A maxWidth of
// zero uses the default poster width. The format follows the file extension.
func Save(img image.Image, path string, maxWidth int) error {
	if img == nil {
		return errors.New("no image to save")
	}
	if maxWidth <= 0 {
		maxWidth = defaultMaxWidth
	}
	if img.Bounds().Dx() > maxWidth {
		img = imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create image directory: %w", err)
	}
	if err := imaging.Save(img, path, imaging.JPEGQuality(85)); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}
	return nil
}
