// Package http wraps HTTP transport concerns shared by the osu! listing
// client and the mirror client: timeout, User-Agent and Accept headers, and
// byte-level progress tracking for streamed downloads.
package http

import (
	"context"
	"io"
	"net/http"
	"time"
)

// Client performs GET requests with a fixed User-Agent and timeout.
//
// Unlike a bare *http.Client it does not treat non-2xx statuses as errors;
// callers inspect the status themselves because the fetch loop reacts
// differently to 429 than to other failures.
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a client with the given timeout and User-Agent.
func NewClient(timeout time.Duration, userAgent string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		userAgent: userAgent,
	}
}

// Get issues a GET request with the configured User-Agent. A non-empty
// accept value is sent as the Accept header. The caller owns the response
// body and must close it.
func (c *Client) Get(ctx context.Context, url, accept string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	return c.httpClient.Do(req)
}

// ProgressFunc receives byte-level download progress: bytes written so far
// and the expected total. Total is 0 when the server sent no Content-Length.
type ProgressFunc func(written, total int64)

// ProgressWriter wraps a writer to track download progress.
//
//	pw := &ProgressWriter{Writer: file, Total: resp.ContentLength, OnUpdate: fn}
//	io.Copy(pw, resp.Body)
type ProgressWriter struct {
	// Writer is the underlying writer to write data to.
	Writer io.Writer

	// Total is the expected total bytes, 0 when unknown.
	Total int64

	// Written is the current number of bytes written.
	Written int64

	// OnUpdate is called after each Write with current progress.
	OnUpdate ProgressFunc
}

// Write implements io.Writer, tracking progress and calling OnUpdate.
func (pw *ProgressWriter) Write(p []byte) (int, error) {
	n, err := pw.Writer.Write(p)
	pw.Written += int64(n)
	if pw.OnUpdate != nil {
		pw.OnUpdate(pw.Written, pw.Total)
	}
	return n, err
}
