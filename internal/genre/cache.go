package genre

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	// baseTTL is how long a cached lookup stays valid before the artist is
	// re-queued.
	baseTTL = 90 * 24 * time.Hour

	// maxJitterDays is the upper bound of the per-artist lifetime spread.
	maxJitterDays = 29
)

// Entry is one cached lookup result. An empty Genres slice means the lookup
// succeeded and found nothing, distinct from the artist being absent from
// the cache, which means "not yet checked".
type Entry struct {
	Genres    []string `json:"genres"`
	CachedAt  int64    `json:"cached_at"`
	ExpiresAt int64    `json:"expires_at"`
}

// Cache is the persistent artist→genres mapping. It is loaded once at run
// start, mutated by the enricher, and rewritten wholesale by Save.
type Cache struct {
	path     string
	entries  map[string]Entry
	migrated int
	expired  int
}

// Key normalizes an artist name into its cache key: case-folded with
// whitespace collapsed.
func Key(artist string) string {
	return strings.Join(strings.Fields(strings.ToLower(artist)), " ")
}

// jitterDays derives a deterministic 0–29 day offset from the artist key.
// Pure function of the key: repeated computations always agree, and it must
// never be seeded from the clock.
func jitterDays(key string) int {
	sum := sha256.Sum256([]byte(key))
	return int(binary.BigEndian.Uint64(sum[:8]) % (maxJitterDays + 1))
}

// ExpiresAt computes when an entry cached at now for the given key lapses.
func ExpiresAt(key string, now time.Time) time.Time {
	return now.Add(baseTTL + time.Duration(jitterDays(key))*24*time.Hour)
}

// Load reads the cache file, migrating legacy entries and sweeping expired
// ones. A missing file yields an empty cache; an unreadable or corrupt file
// is an error; clobbering months of accumulated lookups is worse than
// aborting the run.
//
// Legacy entries are bare genre lists with no timestamps. They are upgraded
// in place with fresh timestamps, preserving their genres.
func Load(path string, now time.Time) (*Cache, error) {
	cache := &Cache{path: path, entries: make(map[string]Entry)}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cache, nil
		}
		return nil, fmt.Errorf("reading genre cache: %w", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing genre cache: %w", err)
	}

	nowUnix := now.Unix()
	for key, val := range raw {
		// Legacy format: "artist": ["genre1", "genre2"]
		var genres []string
		if err := json.Unmarshal(val, &genres); err == nil {
			cache.entries[key] = Entry{
				Genres:    genres,
				CachedAt:  nowUnix,
				ExpiresAt: ExpiresAt(key, now).Unix(),
			}
			cache.migrated++
			continue
		}

		var entry Entry
		if err := json.Unmarshal(val, &entry); err != nil {
			return nil, fmt.Errorf("parsing genre cache entry %q: %w", key, err)
		}
		if nowUnix > entry.ExpiresAt {
			// Dropping the entry implicitly re-queues the artist.
			cache.expired++
			continue
		}
		cache.entries[key] = entry
	}

	return cache, nil
}

// Get returns the cached genres for an artist and whether the artist has
// been looked up at all.
func (c *Cache) Get(artist string) ([]string, bool) {
	entry, ok := c.entries[Key(artist)]
	if !ok {
		return nil, false
	}
	return entry.Genres, true
}

// Set stores a lookup result. Empty results are stored too: "confirmed no
// genres" must survive across runs so the artist is not re-queried.
func (c *Cache) Set(artist string, genres []string, now time.Time) {
	key := Key(artist)
	if genres == nil {
		genres = []string{}
	}
	c.entries[key] = Entry{
		Genres:    genres,
		CachedAt:  now.Unix(),
		ExpiresAt: ExpiresAt(key, now).Unix(),
	}
}

// Save rewrites the cache file. Keys serialize in sorted order, keeping the
// file diffable between nightly runs.
func (c *Cache) Save() error {
	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding genre cache: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0644); err != nil {
		return fmt.Errorf("writing genre cache: %w", err)
	}
	return nil
}

// Len returns the number of live entries.
func (c *Cache) Len() int { return len(c.entries) }

// Migrated returns how many legacy entries Load upgraded.
func (c *Cache) Migrated() int { return c.migrated }

// Expired returns how many entries Load swept.
func (c *Cache) Expired() int { return c.expired }
