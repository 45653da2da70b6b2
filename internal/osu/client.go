// Package osu implements the most-played listing client for the osu! web
// API.
package osu

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/riuna/osu-downloader/internal/config"
	httpclient "github.com/riuna/osu-downloader/internal/http"
	"github.com/riuna/osu-downloader/internal/model"
)

// pageSize is the fixed number of entries requested per listing page.
const pageSize = 10

// StatusError is returned when a listing page responds with an unexpected
// HTTP status. The page is skipped, the pagination loop advances.
type StatusError struct {
	Offset     int
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("listing page at offset %d returned status %d", e.Offset, e.StatusCode)
}

// Is allows for error checking with errors.Is().
func (e *StatusError) Is(target error) bool {
	_, ok := target.(*StatusError)
	return ok
}

// RateLimitError is returned when a page stayed rate-limited through every
// retry attempt.
type RateLimitError struct {
	Offset   int
	Attempts int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("listing page at offset %d still rate-limited after %d attempts", e.Offset, e.Attempts)
}

// Is allows for error checking with errors.Is().
func (e *RateLimitError) Is(target error) bool {
	_, ok := target.(*RateLimitError)
	return ok
}

// Client fetches a user's most-played beatmap sets page by page.
type Client struct {
	http     *httpclient.Client
	settings *config.Settings
}

// NewClient creates a listing client using the endpoint and pacing
// configuration from settings.
func NewClient(hc *httpclient.Client, settings *config.Settings) *Client {
	return &Client{
		http:     hc,
		settings: settings,
	}
}

// FetchMostPlayed collects up to limit most-played entries for the given
// user, starting at offset, fetching pages of ten.
//
// A rate-limited page is retried at the same offset after a cooldown; any
// other page failure (bad status, malformed body, transport error) is
// logged and skipped, with the loop advancing past it. The returned slice
// is the concatenation of all pages that succeeded and may be shorter than
// limit. Entries are not deduplicated.
func (c *Client) FetchMostPlayed(ctx context.Context, userID string, limit, offset int) ([]model.MostPlayedEntry, error) {
	logger := config.GetLogger()

	var entries []model.MostPlayedEntry
	for off := offset; off < offset+limit; off += pageSize {
		if ctx.Err() != nil {
			return entries, ctx.Err()
		}

		page, err := c.fetchPage(ctx, userID, off)
		if err != nil {
			if ctx.Err() != nil {
				return entries, ctx.Err()
			}
			logger.Warn().Int("offset", off).Err(err).Msg("Skipping listing page")
			continue
		}

		entries = append(entries, page...)
		logger.Info().Int("offset", off).Int("count", len(page)).Msg("Fetched most-played page")

		// Pause before the next request to stay under the rate limit.
		c.sleep(ctx, c.settings.PageDelay)
	}

	return entries, nil
}

// fetchPage retrieves and decodes one listing page. HTTP 429 responses are
// retried at the same offset with exponential backoff until MaxRetries is
// exhausted, at which point a RateLimitError makes the failure explicit.
func (c *Client) fetchPage(ctx context.Context, userID string, offset int) ([]model.MostPlayedEntry, error) {
	logger := config.GetLogger()
	url := fmt.Sprintf("%s/users/%s/beatmapsets/most_played?limit=%d&offset=%d",
		c.settings.ListingBaseURL, userID, pageSize, offset)

	for tries := 0; ; tries++ {
		resp, err := c.http.Get(ctx, url, "")
		if err != nil {
			return nil, fmt.Errorf("fetch listing page: %w", err)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			resp.Body.Close()
			if tries+1 >= c.settings.MaxRetries {
				return nil, &RateLimitError{Offset: offset, Attempts: tries + 1}
			}
			logger.Warn().Int("offset", offset).Int("attempt", tries+1).Msg("Rate limited, waiting before retry")
			c.waitForRetry(ctx, tries)
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, &StatusError{Offset: offset, StatusCode: resp.StatusCode}
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("read listing page: %w", err)
		}

		var page []model.MostPlayedEntry
		if err := json.Unmarshal(body, &page); err != nil {
			// Also covers the endpoint answering with an object or
			// scalar instead of an array.
			return nil, fmt.Errorf("decode listing page: %w", err)
		}
		return page, nil
	}
}

func (c *Client) waitForRetry(ctx context.Context, tries int) {
	cooldown := float64(c.settings.RateLimitDelay) * math.Pow(c.settings.RetryExponent, float64(tries))
	c.sleep(ctx, time.Duration(cooldown))
}

func (c *Client) sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
