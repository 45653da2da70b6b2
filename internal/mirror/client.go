// Package mirror implements the archive download client for the nerinyan
// beatmap mirror.
package mirror

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/riuna/osu-downloader/internal/config"
	httpclient "github.com/riuna/osu-downloader/internal/http"
	"github.com/riuna/osu-downloader/internal/model"
)

// acceptArchive is the media type of packaged beatmap set downloads.
const acceptArchive = "application/x-osu-beatmap-archive"

// StatusError is returned when the mirror answers with anything but 200.
// No output file exists in that case; the status is checked before any
// byte is written.
type StatusError struct {
	ID         model.ID
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("mirror returned status %d for beatmapset %d", e.StatusCode, e.ID)
}

// Is allows for error checking with errors.Is().
func (e *StatusError) Is(target error) bool {
	_, ok := target.(*StatusError)
	return ok
}

// Client downloads beatmap set archives from the mirror into a fixed
// output directory.
type Client struct {
	http     *httpclient.Client
	settings *config.Settings
}

// NewClient creates a mirror client using the endpoint and output
// configuration from settings.
func NewClient(hc *httpclient.Client, settings *config.Settings) *Client {
	return &Client{
		http:     hc,
		settings: settings,
	}
}

// Download streams one beatmap set archive to
// "{id} - {sanitized title}.osz" in the output directory, overwriting any
// existing file of that name, and returns the written path.
//
// onProgress, when non-nil, receives byte progress against the response's
// Content-Length (total 0 when the server omits it). Any status other than
// 200 is a failure and produces no file.
func (c *Client) Download(ctx context.Context, set model.BeatmapSet, opts model.DownloadOptions, onProgress httpclient.ProgressFunc) (string, error) {
	url := fmt.Sprintf("%s/d/%d?%s", c.settings.MirrorBaseURL, set.ID, opts.Query().Encode())

	resp, err := c.http.Get(ctx, url, acceptArchive)
	if err != nil {
		return "", fmt.Errorf("request archive: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &StatusError{ID: set.ID, StatusCode: resp.StatusCode}
	}

	dest := filepath.Join(c.settings.OutputDir, set.ArchiveName())
	file, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", dest, err)
	}
	defer file.Close()

	total := resp.ContentLength
	if total < 0 {
		total = 0
	}

	var writer io.Writer = file
	if onProgress != nil {
		writer = &httpclient.ProgressWriter{
			Writer:   file,
			Total:    total,
			OnUpdate: onProgress,
		}
	}

	if _, err := io.Copy(writer, resp.Body); err != nil {
		return "", fmt.Errorf("write %s: %w", dest, err)
	}

	return dest, nil
}
