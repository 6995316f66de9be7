package extract

import (
	"testing"
	"time"
)

const patternPage = `<html><body>
<div>Thursday 26 February 2026</div>
<div>Artist D</div>
<div>Fri 6 Mar 2026</div>
<div>Buy Tickets</div>
<div>Artist E with Special Guests</div>
<div>Saturday 10 January 2026</div>
<div>Past Artist</div>
<div>Wednesday 17 June</div>
<div>Bowery Ballroom</div>
<div>Artist F</div>
</body></html>`

func TestWeekdayPattern(t *testing.T) {
	s := &weekdayPatternStrategy{}
	candidates := s.Extract(newPage(patternPage, testSource(), testToday))

	if len(candidates) != 3 {
		t.Fatalf("got %d candidates, want 3: %+v", len(candidates), candidates)
	}

	d := candidates[0]
	if d.Name != "Artist D" {
		t.Errorf("Name = %q, want Artist D", d.Name)
	}
	if got := d.Date.Format("2006-01-02"); got != "2026-02-26" {
		t.Errorf("Date = %s, want 2026-02-26", got)
	}
	if d.URL != testSource().URL {
		t.Errorf("URL = %q, want venue page", d.URL)
	}

	// The skip-list line between the date and the artist is stepped over.
	e := candidates[1]
	if e.Name != "Artist E with Special Guests" {
		t.Errorf("Name = %q, want the line past the boilerplate", e.Name)
	}
	if got := e.Date.Format("2006-01-02"); got != "2026-03-06" {
		t.Errorf("Date = %s, want 2026-03-06 (abbreviated weekday and month)", got)
	}

	// "Saturday 10 January 2026" is before the run date and must be dropped,
	// so "Past Artist" never becomes a candidate.
	// "Wednesday 17 June" has no year: current year, upcoming, kept. The
	// venue's own name is skipped as a title.
	f := candidates[2]
	if f.Name != "Artist F" {
		t.Errorf("Name = %q, want Artist F past the venue self-reference", f.Name)
	}
	if got := f.Date.Format("2006-01-02"); got != "2026-06-17" {
		t.Errorf("Date = %s, want 2026-06-17", got)
	}
}

func TestWeekdayPatternYearlessRollover(t *testing.T) {
	// Parsed on 2026-03-01, "Thursday 26 February" is already past and must
	// resolve to 2027-02-26.
	runDate := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	page := `<p>Thursday 26 February</p><p>Rollover Artist</p>`

	s := &weekdayPatternStrategy{}
	candidates := s.Extract(newPage(page, testSource(), runDate))
	if len(candidates) != 1 {
		t.Fatalf("got %d candidates, want 1", len(candidates))
	}
	if got := candidates[0].Date.Format("2006-01-02"); got != "2027-02-26" {
		t.Errorf("Date = %s, want 2027-02-26", got)
	}
}

func TestWeekdayPatternNoTitleNoCandidate(t *testing.T) {
	page := `<p>Thursday 26 February 2026</p><p>View All</p><p>See All</p>
	<p>More Info</p><p>Load More</p><p>Subscribe</p><p>Artist Too Far</p>`

	s := &weekdayPatternStrategy{}
	if candidates := s.Extract(newPage(page, testSource(), testToday)); len(candidates) != 0 {
		t.Errorf("candidates = %+v, want none when no title within reach", candidates)
	}
}

func TestWeekdayPatternConsecutiveDates(t *testing.T) {
	// A date line directly followed by another date line: the title search
	// skips the second date rather than using it as a name.
	page := `<p>Monday 1 June 2026</p><p>Tuesday 2 June 2026</p><p>Shared Artist</p>`

	s := &weekdayPatternStrategy{}
	candidates := s.Extract(newPage(page, testSource(), testToday))
	if len(candidates) != 2 {
		t.Fatalf("got %d candidates, want 2", len(candidates))
	}
	for _, c := range candidates {
		if c.Name != "Shared Artist" {
			t.Errorf("Name = %q, want Shared Artist for both dates", c.Name)
		}
	}
}
