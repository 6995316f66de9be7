package event

import (
	"sort"
	"time"
)

type identityKey struct {
	date time.Time
	name string
}

// Dedupe merges one city's candidates into a canonical, duplicate-free event
// list. Identity is (date, normalized name). On collision the first-seen
// record wins except for the link: a strictly longer incoming link replaces
// the kept one, since longer URLs tend to be event-specific deep links rather
// than the venue's landing page. Ties keep the existing link.
//
// Dedupe is deterministic and idempotent: feeding its output back through
// yields the same result.
//
// neighborhoods maps venue name to neighborhood label; the first-seen
// record's venue decides which neighborhood the canonical event carries.
func Dedupe(candidates []Candidate, neighborhoods map[string]string) []Event {
	merged := make(map[identityKey]*Event, len(candidates))
	order := make([]identityKey, 0, len(candidates))

	for _, c := range candidates {
		key := identityKey{date: Day(c.Date), name: NormalizeName(c.Name)}
		if key.name == "" {
			continue
		}

		if existing, ok := merged[key]; ok {
			if len(c.URL) > len(existing.URL) {
				existing.URL = c.URL
			}
			continue
		}

		merged[key] = &Event{
			Name:         c.Name,
			Date:         key.date,
			URL:          c.URL,
			Venue:        c.Venue,
			City:         c.City,
			Neighborhood: neighborhoods[c.Venue],
			Theatrical:   c.Theatrical,
		}
		order = append(order, key)
	}

	sort.Slice(order, func(i, j int) bool {
		if !order[i].date.Equal(order[j].date) {
			return order[i].date.Before(order[j].date)
		}
		return order[i].name < order[j].name
	})

	events := make([]Event, 0, len(order))
	for _, key := range order {
		events = append(events, *merged[key])
	}
	return events
}

// Candidates converts events back into candidate form. Used by tests to
// verify that running Dedupe on its own output is a fixed point.
func Candidates(events []Event) []Candidate {
	out := make([]Candidate, 0, len(events))
	for _, e := range events {
		out = append(out, Candidate{
			Name:       e.Name,
			Date:       e.Date,
			URL:        e.URL,
			Venue:      e.Venue,
			City:       e.City,
			Theatrical: e.Theatrical,
		})
	}
	return out
}
