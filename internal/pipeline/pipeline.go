// Package pipeline runs one full aggregation pass: fetch every venue page,
// extract candidates, deduplicate per city, enrich with genres, and write the
// dataset artifact.
//
// Execution is deliberately sequential. Venue pages and the genre service are
// rate-limited or courtesy-sensitive, and fetching one page at a time with
// explicit delays is the simplest correct way to stay inside those limits.
// Every failure short of bad configuration degrades to partial output: a dead
// venue contributes zero events, an unreachable genre service leaves artists
// unresolved for the next run.
package pipeline

import (
	"time"

	"github.com/jacoberrol/eventfeed/internal/dataset"
	"github.com/jacoberrol/eventfeed/internal/event"
	"github.com/jacoberrol/eventfeed/internal/extract"
	"github.com/jacoberrol/eventfeed/internal/fetch"
	"github.com/jacoberrol/eventfeed/internal/genre"
	"github.com/jacoberrol/eventfeed/internal/logger"
	"github.com/jacoberrol/eventfeed/internal/venue"
)

// DefaultVenueDelay is the courtesy pause between venue fetches.
const DefaultVenueDelay = 2 * time.Second

// Config controls one run. Zero values take defaults.
type Config struct {
	RosterPath   string
	DataDir      string
	MaxLookups   int
	LookupDelay  time.Duration
	VenueDelay   time.Duration
	FetchTimeout time.Duration

	// Now is the run's clock, injectable for tests. Defaults to time.Now.
	Now func() time.Time

	// Lookup resolves artists to genres. Defaults to a MusicBrainz client.
	Lookup genre.LookupFunc
}

// CityCount summarizes one city's output.
type CityCount struct {
	City   string
	Events int
}

// Result reports what a run produced, for the CLI summary.
type Result struct {
	GeneratedAt   time.Time
	Cities        []CityCount
	TotalEvents   int
	VenuesFetched int
	VenuesFailed  int
	Genre         genre.Stats
	CacheMigrated int
	CacheExpired  int
	DatasetPath   string
}

// Run executes the pipeline once. Only configuration problems (missing
// roster, unusable data directory, unreadable cache) return an error;
// everything else degrades to best-effort output.
func Run(cfg Config) (*Result, error) {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.VenueDelay == 0 {
		cfg.VenueDelay = DefaultVenueDelay
	}
	if cfg.FetchTimeout == 0 {
		cfg.FetchTimeout = fetch.DefaultTimeout
	}

	now := cfg.Now().UTC()

	roster, err := venue.LoadRoster(cfg.RosterPath)
	if err != nil {
		return nil, err
	}

	store, err := dataset.New(cfg.DataDir)
	if err != nil {
		return nil, err
	}

	cache, err := genre.Load(store.CachePath(), now)
	if err != nil {
		return nil, err
	}
	if cache.Migrated() > 0 || cache.Expired() > 0 {
		logger.Info("genre cache loaded", logger.Fields{
			"entries":  cache.Len(),
			"migrated": cache.Migrated(),
			"expired":  cache.Expired(),
		})
	}

	result := &Result{
		GeneratedAt:   now,
		CacheMigrated: cache.Migrated(),
		CacheExpired:  cache.Expired(),
		DatasetPath:   store.DatasetPath(),
	}

	fetcher := fetch.NewWithTimeout(cfg.FetchTimeout)
	extractor := extract.New()

	var all []event.Event

	for _, city := range roster.Cities() {
		var candidates []event.Candidate
		neighborhoods := make(map[string]string)

		for _, src := range roster.Venues(city) {
			neighborhoods[src.Name] = src.Neighborhood

			page, err := fetcher.Fetch(src.URL)
			if err != nil {
				result.VenuesFailed++
				logger.Warn("venue fetch failed", logger.Fields{
					"venue": src.Name,
					"city":  city,
					"url":   src.URL,
					"error": err.Error(),
				})
				time.Sleep(cfg.VenueDelay)
				continue
			}
			result.VenuesFetched++

			found := extractor.Extract(page, src, now)
			candidates = append(candidates, found...)
			logger.Info("venue crawled", logger.Fields{
				"venue":      src.Name,
				"city":       city,
				"candidates": len(found),
			})

			time.Sleep(cfg.VenueDelay)
		}

		events := event.Dedupe(candidates, neighborhoods)
		all = append(all, events...)
		result.Cities = append(result.Cities, CityCount{City: city, Events: len(events)})
		result.TotalEvents += len(events)
	}

	enricher := genre.NewEnricher(cache, lookupFunc(cfg))
	if cfg.MaxLookups > 0 {
		enricher.MaxLookups = cfg.MaxLookups
	}
	if cfg.LookupDelay > 0 {
		enricher.Delay = cfg.LookupDelay
	}
	result.Genre = enricher.Enrich(all, now)

	// Commit the lookup batch before anything else can go wrong; an
	// interrupted run loses at most the batch in progress.
	if err := cache.Save(); err != nil {
		logger.Error("saving genre cache", nil, err)
	}

	byCity := regroup(all)
	// A city whose venues all failed still appears in the artifact, empty.
	for _, city := range roster.Cities() {
		if _, ok := byCity[city]; !ok {
			byCity[city] = []event.Event{}
		}
	}

	if err := store.Write(byCity, now); err != nil {
		logger.Error("writing dataset", nil, err)
		return result, err
	}

	logger.Info("run complete", logger.Fields{
		"events":         result.TotalEvents,
		"venues_fetched": result.VenuesFetched,
		"venues_failed":  result.VenuesFailed,
		"lookups":        result.Genre.LookedUp,
	})

	return result, nil
}

func lookupFunc(cfg Config) genre.LookupFunc {
	if cfg.Lookup != nil {
		return cfg.Lookup
	}
	return genre.NewClient().Lookup
}

func regroup(events []event.Event) map[string][]event.Event {
	byCity := make(map[string][]event.Event)
	for _, evt := range events {
		byCity[evt.City] = append(byCity[evt.City], evt)
	}
	return byCity
}
