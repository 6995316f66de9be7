// Package genre enriches musical events with genre tags from MusicBrainz.
//
// Lookups are expensive and rate-limited, so results live in a persistent
// cache with a 90-day TTL. Each entry's lifetime gets a deterministic 0–29
// day jitter derived from the artist key, spreading expirations so a batch
// of artists cached on the same night does not come due for re-lookup on the
// same night months later.
package genre
