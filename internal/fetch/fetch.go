// Package fetch retrieves raw venue pages.
//
// The fetcher performs exactly one timed GET per venue page and surfaces the
// result as content-or-failure. Venue pages are courtesy-sensitive, so there
// is no retry here: a failed venue contributes zero candidates for the run
// and gets another chance on the next one.
package fetch

import (
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// UserAgent identifies the crawler to venue sites.
	UserAgent = "eventfeed/1.0 (personal event aggregator)"

	// DefaultTimeout bounds how long a single venue fetch may take before
	// the venue is skipped for this run.
	DefaultTimeout = 15 * time.Second

	// maxBodySize caps page reads. Pathological pages beyond this are
	// truncated, not failed; extraction works on whatever arrived.
	maxBodySize = 4 << 20
)

// Fetcher fetches venue pages over HTTP.
type Fetcher struct {
	client *http.Client
}

// New creates a Fetcher with the default timeout.
func New() *Fetcher {
	return NewWithTimeout(DefaultTimeout)
}

// NewWithTimeout creates a Fetcher with a custom timeout.
func NewWithTimeout(timeout time.Duration) *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Fetch performs a single GET and returns the page body. Any failure
// (network, timeout, non-2xx status) is returned as an error; the caller
// decides whether to continue the run.
func (f *Fetcher) Fetch(url string) (string, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", fmt.Errorf("reading page: %w", err)
	}

	return string(body), nil
}
