package genre

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	defaultBaseURL = "https://musicbrainz.org/ws/2"

	// UserAgent identifies the aggregator to MusicBrainz, which requires a
	// descriptive client string.
	UserAgent = "eventfeed/1.0 (personal event aggregator)"

	// MaxGenres caps how many tags an artist carries into the dataset.
	MaxGenres = 3

	lookupTimeout = 10 * time.Second
	maxRetries    = 2
)

// SkipTags filters MusicBrainz tags that are too generic or demographic to
// be useful as genres. Kept as data so tests can extend it.
var SkipTags = map[string]bool{
	"seen live":            true,
	"male vocalists":       true,
	"female vocalists":     true,
	"american":             true,
	"british":              true,
	"canadian":             true,
	"australian":           true,
	"swedish":              true,
	"norwegian":            true,
	"german":               true,
	"dutch":                true,
	"under 2000 listeners": true,
	"all":                  true,
}

// Client queries the MusicBrainz artist search API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a MusicBrainz client.
func NewClient() *Client {
	return &Client{
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: lookupTimeout,
		},
	}
}

// NewClientWithBaseURL creates a client against a different endpoint.
// Used by tests to point at a local server.
func NewClientWithBaseURL(baseURL string) *Client {
	c := NewClient()
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

type searchResponse struct {
	Artists []struct {
		Name string `json:"name"`
		Tags []struct {
			Name  string `json:"name"`
			Count int    `json:"count"`
		} `json:"tags"`
	} `json:"artists"`
}

// Lookup returns an artist's genre tags, popularity-ranked, filtered and
// capped at MaxGenres. A nil error with an empty slice means the artist was
// checked and has no usable tags; that result should be cached. A non-nil
// error is transient; the caller must not cache it, so the artist is
// retried on a later run.
//
// Transient failures are retried a bounded number of times with exponential
// backoff before giving up; client errors from the API are not retried.
func (c *Client) Lookup(artist string) ([]string, error) {
	operation := func() (*searchResponse, error) {
		return c.search(artist)
	}

	result, err := backoff.RetryWithData(operation,
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxRetries))
	if err != nil {
		return nil, err
	}

	if len(result.Artists) == 0 {
		return []string{}, nil
	}

	tags := result.Artists[0].Tags
	sort.SliceStable(tags, func(i, j int) bool {
		return tags[i].Count > tags[j].Count
	})

	genres := make([]string, 0, MaxGenres)
	for _, tag := range tags {
		name := strings.ToLower(strings.TrimSpace(tag.Name))
		if len(name) < 2 || SkipTags[name] {
			continue
		}
		genres = append(genres, name)
		if len(genres) == MaxGenres {
			break
		}
	}
	return genres, nil
}

func (c *Client) search(artist string) (*searchResponse, error) {
	params := url.Values{}
	params.Set("query", fmt.Sprintf("artist:%q", artist))
	params.Set("fmt", "json")
	params.Set("limit", "3")

	req, err := http.NewRequest(http.MethodGet, c.baseURL+"/artist/?"+params.Encode(), nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("querying musicbrainz: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to decode
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("musicbrainz status %d", resp.StatusCode)
	default:
		// 4xx will not improve on retry.
		return nil, backoff.Permanent(fmt.Errorf("musicbrainz status %d", resp.StatusCode))
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("parsing musicbrainz response: %w", err)
	}
	return &result, nil
}
