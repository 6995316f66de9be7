package genre

import (
	"time"

	"github.com/jacoberrol/eventfeed/internal/event"
	"github.com/jacoberrol/eventfeed/internal/logger"
)

const (
	// DefaultMaxLookups bounds new MusicBrainz queries per run. Artists
	// beyond the budget stay unresolved and are picked up next run.
	DefaultMaxLookups = 60

	// DefaultDelay is the courtesy gap before each MusicBrainz call,
	// honoring the provider's one-request-per-second limit with margin.
	DefaultDelay = 1100 * time.Millisecond
)

// LookupFunc resolves one artist to genre tags. A non-nil error marks the
// lookup transient: the result is not cached and the artist retried later.
type LookupFunc func(artist string) ([]string, error)

// Stats summarizes one enrichment pass for run reporting.
type Stats struct {
	Cached   int // artists already resolved before this run
	Needed   int // artists that required a lookup
	LookedUp int // successful lookups this run
	Failed   int // transient failures this run
	Deferred int // artists past the budget, left for the next run
}

// Enricher stamps events with genres, looking up uncached artists under a
// strict per-run budget.
type Enricher struct {
	cache      *Cache
	lookup     LookupFunc
	MaxLookups int
	Delay      time.Duration
}

// NewEnricher creates an enricher with default budget and delay.
func NewEnricher(cache *Cache, lookup LookupFunc) *Enricher {
	return &Enricher{
		cache:      cache,
		lookup:     lookup,
		MaxLookups: DefaultMaxLookups,
		Delay:      DefaultDelay,
	}
}

// Enrich fills in the Genres field of every event in place. Theatrical
// events never query the cache and always get an empty genre list. Musical
// events get their cached genres, or an empty list if the artist is still
// unresolved after this run's budget.
func (e *Enricher) Enrich(events []event.Event, now time.Time) Stats {
	stats := Stats{Cached: e.cache.Len()}

	// Unique uncached artists, in event order so earlier-dated events get
	// priority under the budget.
	var needed []string
	seen := make(map[string]bool)
	for _, evt := range events {
		if evt.Theatrical {
			continue
		}
		key := Key(evt.Name)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		if _, ok := e.cache.Get(evt.Name); !ok {
			needed = append(needed, evt.Name)
		}
	}
	stats.Needed = len(needed)

	batch := needed
	if len(batch) > e.MaxLookups {
		batch = batch[:e.MaxLookups]
		stats.Deferred = len(needed) - len(batch)
	}

	for _, artist := range batch {
		time.Sleep(e.Delay)

		genres, err := e.lookup(artist)
		if err != nil {
			// Not cached: the artist is retried next run.
			stats.Failed++
			logger.Warn("genre lookup failed", logger.Fields{
				"artist": artist,
				"error":  err.Error(),
			})
			continue
		}

		e.cache.Set(artist, genres, now)
		stats.LookedUp++
		logger.Debug("genre lookup", logger.Fields{
			"artist": artist,
			"genres": genres,
		})
	}

	for i := range events {
		if events[i].Theatrical {
			events[i].Genres = []string{}
			continue
		}
		if genres, ok := e.cache.Get(events[i].Name); ok {
			events[i].Genres = genres
		} else {
			events[i].Genres = []string{}
		}
	}

	return stats
}
