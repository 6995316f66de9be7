package extract

import (
	"strings"
	"testing"

	"github.com/jacoberrol/eventfeed/internal/venue"
)

func theaterSource() venue.Source {
	return venue.Source{
		Name:         "The Public Theater",
		City:         "New York City",
		URL:          "https://publictheater.org/calendar",
		Neighborhood: "NoHo",
		Theater:      true,
	}
}

func TestHeadingProximity(t *testing.T) {
	page := `<html><body>
	<h2>The Winter's Tale</h2>
	<p>Performances begin February 26, 2026 in the Anspacher Theater.</p>
	<h2>Uptown Cabaret Revue</h2>
	<p>One night only: April 3</p>
	</body></html>`

	s := &headingProximityStrategy{}
	candidates := s.Extract(newPage(page, theaterSource(), testToday))

	if len(candidates) != 2 {
		t.Fatalf("got %d candidates, want 2: %+v", len(candidates), candidates)
	}

	first := candidates[0]
	if !strings.Contains(first.Name, "Winter's Tale") {
		t.Errorf("Name = %q, want the nearby heading", first.Name)
	}
	if got := first.Date.Format("2006-01-02"); got != "2026-02-26" {
		t.Errorf("Date = %s, want 2026-02-26", got)
	}
	if !first.Theatrical {
		t.Error("theater source candidates must be theatrical")
	}

	second := candidates[1]
	if got := second.Date.Format("2006-01-02"); got != "2026-04-03" {
		t.Errorf("Date = %s, want yearless April 3 resolved to 2026", got)
	}
}

func TestHeadingProximitySkipsAggregatorSources(t *testing.T) {
	page := `<p>Big Show</p><p>February 26, 2026</p>`
	s := &headingProximityStrategy{}

	src := testSource() // has an aggregator id
	if candidates := s.Extract(newPage(page, src, testToday)); candidates != nil {
		t.Errorf("candidates = %+v, want nil for aggregator-backed source", candidates)
	}
}

func TestHeadingProximityRejectsBoilerplateTitles(t *testing.T) {
	page := `<p>Buy Tickets</p><p>February 26, 2026</p><p>More Info</p>`
	s := &headingProximityStrategy{}
	if candidates := s.Extract(newPage(page, theaterSource(), testToday)); len(candidates) != 0 {
		t.Errorf("candidates = %+v, want none when only boilerplate is nearby", candidates)
	}
}

func TestHeadingProximityTitleFilters(t *testing.T) {
	// "Gem" is under four characters and the date mention itself is mostly a
	// date, so neither qualifies as a title.
	page := `<p>Gem!</p><p>February 26, 2026!</p>`

	s := &headingProximityStrategy{}
	if candidates := s.Extract(newPage(page, theaterSource(), testToday)); len(candidates) != 0 {
		t.Errorf("candidates = %+v, want none when no plausible title is nearby", candidates)
	}
}
