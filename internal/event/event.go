package event

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Candidate is a raw event extracted from one venue page. Candidates exist
// only within a single run; Dedupe consumes them and produces Events.
type Candidate struct {
	Name       string
	Date       time.Time // calendar date, time-of-day is always midnight UTC
	URL        string
	Venue      string
	City       string
	Theatrical bool
}

// Event is the canonical, deduplicated record written to the dataset.
// Identity is (City, Date, normalized Name); the output of a run never
// contains two events sharing that triple.
type Event struct {
	Name         string
	Date         time.Time
	URL          string
	Venue        string
	City         string
	Neighborhood string
	Genres       []string
	Theatrical   bool
}

// DateLayout is the wire format for event dates in the dataset artifact and
// the presentation layer: a bare calendar date with no time-of-day.
const DateLayout = "2006-01-02"

// eventJSON is the wire shape of an Event. Dates are serialized as plain
// calendar dates so the artifact stays stable and human-diffable.
type eventJSON struct {
	Name         string   `json:"name"`
	Date         string   `json:"date"`
	URL          string   `json:"url"`
	Venue        string   `json:"venue"`
	City         string   `json:"city"`
	Neighborhood string   `json:"neighborhood,omitempty"`
	Genres       []string `json:"genres"`
	Theatrical   bool     `json:"is_theater"`
}

// MarshalJSON implements json.Marshaler, formatting Date as YYYY-MM-DD.
func (e Event) MarshalJSON() ([]byte, error) {
	genres := e.Genres
	if genres == nil {
		genres = []string{}
	}
	return json.Marshal(eventJSON{
		Name:         e.Name,
		Date:         e.Date.Format(DateLayout),
		URL:          e.URL,
		Venue:        e.Venue,
		City:         e.City,
		Neighborhood: e.Neighborhood,
		Genres:       genres,
		Theatrical:   e.Theatrical,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *Event) UnmarshalJSON(data []byte) error {
	var wire eventJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	date, err := time.Parse(DateLayout, wire.Date)
	if err != nil {
		return fmt.Errorf("parsing event date %q: %w", wire.Date, err)
	}
	*e = Event{
		Name:         wire.Name,
		Date:         date,
		URL:          wire.URL,
		Venue:        wire.Venue,
		City:         wire.City,
		Neighborhood: wire.Neighborhood,
		Genres:       wire.Genres,
		Theatrical:   wire.Theatrical,
	}
	return nil
}

// Day truncates a time to its calendar date at midnight UTC.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// stripMarks removes Unicode combining marks after canonical decomposition,
// so "Beyoncé" and "Beyonce" normalize to the same key.
var stripMarks = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// NormalizeName reduces an event name to its identity form: case-folded,
// accent-stripped, leading "the " removed, punctuation dropped, whitespace
// collapsed.
func NormalizeName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))

	if folded, _, err := transform.String(stripMarks, s); err == nil {
		s = folded
	}

	s = strings.TrimPrefix(s, "the ")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
		// punctuation and symbols are dropped entirely
	}

	return strings.Join(strings.Fields(b.String()), " ")
}
