package pipeline

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jacoberrol/eventfeed/internal/dataset"
)

const venuePage = `<html><body>
<script type="application/ld+json">
{"@type": "MusicEvent", "name": "Artist A", "startDate": "2026-03-01", "url": "https://example.com/shows/artist-a"}
</script>
</body></html>`

func fixedNow() time.Time {
	return time.Date(2026, time.February, 1, 12, 0, 0, 0, time.UTC)
}

func writeRoster(t *testing.T, dir string, body string) string {
	t.Helper()
	path := filepath.Join(dir, "roster.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testConfig(t *testing.T, roster string) Config {
	t.Helper()
	return Config{
		RosterPath:  roster,
		DataDir:     t.TempDir(),
		VenueDelay:  time.Nanosecond,
		LookupDelay: time.Nanosecond,
		Now:         fixedNow,
		Lookup: func(artist string) ([]string, error) {
			return []string{"indie rock"}, nil
		},
	}
}

func TestRunEndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(venuePage))
	}))
	defer srv.Close()

	dir := t.TempDir()
	roster := writeRoster(t, dir, `cities:
  New York City:
    - name: Bowery Ballroom
      url: `+srv.URL+`
      neighborhood: Lower East Side
      aggregator_id: bowery-ballroom
`)

	cfg := testConfig(t, roster)
	result, err := Run(cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.VenuesFetched != 1 || result.VenuesFailed != 0 {
		t.Errorf("fetched/failed = %d/%d, want 1/0", result.VenuesFetched, result.VenuesFailed)
	}
	if result.TotalEvents != 1 {
		t.Fatalf("TotalEvents = %d, want 1", result.TotalEvents)
	}
	if result.Genre.LookedUp != 1 {
		t.Errorf("Genre.LookedUp = %d, want 1", result.Genre.LookedUp)
	}

	store, err := dataset.New(cfg.DataDir)
	if err != nil {
		t.Fatal(err)
	}
	ds, err := store.Load()
	if err != nil {
		t.Fatalf("loading dataset: %v", err)
	}

	events := ds.Cities["New York City"]
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1: %+v", len(events), events)
	}
	evt := events[0]
	if evt.Name != "Artist A" {
		t.Errorf("Name = %q, want Artist A", evt.Name)
	}
	if got := evt.Date.Format("2006-01-02"); got != "2026-03-01" {
		t.Errorf("Date = %s, want 2026-03-01", got)
	}
	if evt.URL != "https://example.com/shows/artist-a" {
		t.Errorf("URL = %q, want the annotation's deep link", evt.URL)
	}
	if evt.Neighborhood != "Lower East Side" {
		t.Errorf("Neighborhood = %q, want Lower East Side", evt.Neighborhood)
	}
	if len(evt.Genres) != 1 || evt.Genres[0] != "indie rock" {
		t.Errorf("Genres = %v, want [indie rock]", evt.Genres)
	}
	if !ds.GeneratedAt.Equal(fixedNow()) {
		t.Errorf("GeneratedAt = %v, want %v", ds.GeneratedAt, fixedNow())
	}
}

func TestRunIsIdempotent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(venuePage))
	}))
	defer srv.Close()

	dir := t.TempDir()
	roster := writeRoster(t, dir, `cities:
  New York City:
    - name: Bowery Ballroom
      url: `+srv.URL+`
`)

	cfg := testConfig(t, roster)
	if _, err := Run(cfg); err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := Run(cfg)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if second.TotalEvents != 1 {
		t.Errorf("TotalEvents = %d, want 1 after re-running on the same page", second.TotalEvents)
	}
	if second.Genre.LookedUp != 0 || second.Genre.Cached != 1 {
		t.Errorf("second run genre stats = %+v, want the cache to absorb the lookup", second.Genre)
	}

	store, _ := dataset.New(cfg.DataDir)
	ds, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if got := len(ds.Cities["New York City"]); got != 1 {
		t.Errorf("got %d events, want 1 (wholesale rewrite, no accumulation)", got)
	}
}

func TestRunDegradesOnDeadVenue(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(venuePage))
	}))
	defer srv.Close()

	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	dead.Close()

	dir := t.TempDir()
	roster := writeRoster(t, dir, `cities:
  New York City:
    - name: Bowery Ballroom
      url: `+srv.URL+`
  Chicago:
    - name: Empty Bottle
      url: `+dead.URL+`
`)

	cfg := testConfig(t, roster)
	result, err := Run(cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.VenuesFetched != 1 || result.VenuesFailed != 1 {
		t.Errorf("fetched/failed = %d/%d, want 1/1", result.VenuesFetched, result.VenuesFailed)
	}

	store, _ := dataset.New(cfg.DataDir)
	ds, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	chicago, ok := ds.Cities["Chicago"]
	if !ok {
		t.Fatal("Chicago missing from artifact; failed cities must still appear")
	}
	if len(chicago) != 0 {
		t.Errorf("Chicago has %d events, want 0", len(chicago))
	}
	if got := len(ds.Cities["New York City"]); got != 1 {
		t.Errorf("New York City has %d events, want 1", got)
	}
}

func TestRunMissingRosterFatal(t *testing.T) {
	cfg := testConfig(t, filepath.Join(t.TempDir(), "absent.yaml"))
	if _, err := Run(cfg); err == nil {
		t.Fatal("Run with a missing roster must fail")
	}
}
