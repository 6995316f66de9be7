// Package venue provides the venue roster that drives a crawl.
//
// The roster is read-only configuration: a YAML file mapping each city to the
// list of venues the pipeline polls. Venues are loaded once per run and never
// mutated.
package venue

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Source identifies one venue listing page.
type Source struct {
	Name         string `yaml:"name"`
	City         string `yaml:"-"`
	URL          string `yaml:"url"`
	AggregatorID string `yaml:"aggregator_id,omitempty"`
	Neighborhood string `yaml:"neighborhood,omitempty"`
	Theater      bool   `yaml:"theater,omitempty"`
}

// Roster holds all venues grouped by city.
type Roster struct {
	byCity map[string][]Source
}

// rosterFile matches the on-disk YAML shape:
//
//	cities:
//	  New York City:
//	    - name: Bowery Ballroom
//	      url: https://...
//	      neighborhood: Lower East Side
type rosterFile struct {
	Cities map[string][]Source `yaml:"cities"`
}

// LoadRoster reads and parses the venue roster. A missing, unreadable, or
// empty roster is a fatal configuration error: the pipeline cannot do
// anything useful without sources.
func LoadRoster(path string) (*Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading roster: %w", err)
	}

	var file rosterFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing roster: %w", err)
	}

	roster := &Roster{byCity: make(map[string][]Source)}
	for city, sources := range file.Cities {
		city = strings.TrimSpace(city)
		for _, src := range sources {
			src.City = city
			src.URL = strings.TrimRight(strings.TrimSpace(src.URL), "/")
			src.Name = strings.TrimSpace(src.Name)
			if src.Name == "" || src.URL == "" {
				continue
			}
			roster.byCity[city] = append(roster.byCity[city], src)
		}
	}

	if roster.Len() == 0 {
		return nil, fmt.Errorf("roster %s contains no venues", path)
	}

	return roster, nil
}

// Cities returns the roster's cities in sorted order so that runs process
// sources deterministically.
func (r *Roster) Cities() []string {
	cities := make([]string, 0, len(r.byCity))
	for city := range r.byCity {
		cities = append(cities, city)
	}
	sort.Strings(cities)
	return cities
}

// Venues returns the venues registered for a city.
func (r *Roster) Venues(city string) []Source {
	return r.byCity[city]
}

// Len returns the total number of venues across all cities.
func (r *Roster) Len() int {
	total := 0
	for _, sources := range r.byCity {
		total += len(sources)
	}
	return total
}
