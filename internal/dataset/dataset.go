package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jacoberrol/eventfeed/internal/event"
)

const (
	datasetFile = "events.json"

	// CacheFile is the genre cache's filename inside the data directory.
	// The dataset store owns directory layout; the genre package owns the
	// file's contents.
	CacheFile = "genre-cache.json"
)

// Dataset is the serialized artifact shape consumed by the presentation
// generator. The shape is a stable contract: a generation timestamp plus
// per-city, date-ordered event lists.
type Dataset struct {
	GeneratedAt time.Time                `json:"generated_at"`
	Cities      map[string][]event.Event `json:"cities"`
}

// Store manages files under the data directory.
type Store struct {
	dataDir string
}

// New creates a Store, expanding ~ and creating the directory if needed.
func New(dataDir string) (*Store, error) {
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Store{dataDir: dataDir}, nil
}

// DatasetPath returns where the artifact is written.
func (s *Store) DatasetPath() string {
	return filepath.Join(s.dataDir, datasetFile)
}

// CachePath returns where the genre cache lives.
func (s *Store) CachePath() string {
	return filepath.Join(s.dataDir, CacheFile)
}

// Write serializes the per-city events into the artifact, replacing any
// previous generation entirely. Events within each city are ordered by date,
// ties broken by name for deterministic output.
func (s *Store) Write(byCity map[string][]event.Event, generatedAt time.Time) error {
	ds := Dataset{
		GeneratedAt: generatedAt.UTC(),
		Cities:      make(map[string][]event.Event, len(byCity)),
	}

	for city, events := range byCity {
		sorted := make([]event.Event, len(events))
		copy(sorted, events)
		sort.Slice(sorted, func(i, j int) bool {
			if !sorted[i].Date.Equal(sorted[j].Date) {
				return sorted[i].Date.Before(sorted[j].Date)
			}
			return sorted[i].Name < sorted[j].Name
		})
		ds.Cities[city] = sorted
	}

	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding dataset: %w", err)
	}
	if err := os.WriteFile(s.DatasetPath(), data, 0644); err != nil {
		return fmt.Errorf("writing dataset: %w", err)
	}
	return nil
}

// Load reads the current artifact. Used by the CLI summary and by tests; the
// pipeline itself never reads its own output.
func (s *Store) Load() (*Dataset, error) {
	data, err := os.ReadFile(s.DatasetPath())
	if err != nil {
		return nil, fmt.Errorf("reading dataset: %w", err)
	}
	var ds Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("parsing dataset: %w", err)
	}
	return &ds, nil
}
