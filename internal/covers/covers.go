// Package covers downloads book cover thumbnails next to the catalog.
package covers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"

	"github.com/lepinkainen/tome/internal/fileutil"
)

const (
	// Covers are thumbnails; anything wider gets resized down.
	maxWidth = 250

	jpegQuality = 85

	downloadTimeout = 30 * time.Second
)

// DownloadOptions holds options for downloading a cover image.
type DownloadOptions struct {
	// URL is the source URL of the cover image
	URL string
	// OutputDir is the directory where the cover will be saved
	OutputDir string
	// Filename is the name of the cover file (e.g., "Title - cover.jpg")
	Filename string
	// Update forces re-downloading even if the cover exists
	Update bool
}

// DownloadResult holds the result of a cover download operation.
type DownloadResult struct {
	// Downloaded indicates if a new file was downloaded
	Downloaded bool
	// LocalPath is the full path to the cover file
	LocalPath string
}

// Filename creates a standard cover filename from a title.
func Filename(title string) string {
	return fileutil.SanitizeFilename(title) + " - cover.jpg"
}

// Download fetches a cover image, resizes it to the thumbnail width and
// saves it as JPEG. Skips the download when the file already exists and
// Update is false. A nil result with nil error means there was no URL to
// fetch.
func Download(ctx context.Context, opts DownloadOptions) (*DownloadResult, error) {
	if opts.URL == "" {
		return nil, nil
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create covers directory: %w", err)
	}

	localPath := filepath.Join(opts.OutputDir, opts.Filename)
	result := &DownloadResult{LocalPath: localPath}

	if fileutil.FileExists(localPath) && !opts.Update {
		slog.Debug("Cover already exists, skipping download", "path", localPath)
		return result, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, opts.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cover request: %w", err)
	}

	client := &http.Client{Timeout: downloadTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download cover: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d downloading cover from %s", resp.StatusCode, opts.URL)
	}

	img, err := imaging.Decode(resp.Body, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode cover image: %w", err)
	}

	if img.Bounds().Dx() > maxWidth {
		img = imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
	}

	if err := imaging.Save(img, localPath, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, fmt.Errorf("failed to save cover: %w", err)
	}

	slog.Info("Downloaded cover", "path", localPath)
	result.Downloaded = true
	return result, nil
}
