package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jacoberrol/eventfeed/internal/pipeline"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// WriteOutput writes the run summary in the specified format
func WriteOutput(w io.Writer, result *pipeline.Result, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs the summary as JSON
func writeJSON(w io.Writer, result *pipeline.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// writeText outputs the summary as human-readable text
func writeText(w io.Writer, result *pipeline.Result, verbose bool) error {
	if result.TotalEvents == 0 {
		fmt.Fprintln(w, "No upcoming events found.")
	} else {
		for _, city := range result.Cities {
			fmt.Fprintf(w, "%s: %d events\n", city.City, city.Events)
		}
		fmt.Fprintf(w, "\nTotal: %d events across %d cities\n", result.TotalEvents, len(result.Cities))
	}

	fmt.Fprintf(w, "Venues: %d fetched, %d failed\n", result.VenuesFetched, result.VenuesFailed)
	fmt.Fprintf(w, "Genres: %d cached, %d looked up", result.Genre.Cached, result.Genre.LookedUp)
	if result.Genre.Deferred > 0 {
		fmt.Fprintf(w, ", %d deferred to next run", result.Genre.Deferred)
	}
	fmt.Fprintln(w)

	if verbose {
		if result.Genre.Failed > 0 {
			fmt.Fprintf(w, "Genre lookups failed: %d\n", result.Genre.Failed)
		}
		if result.CacheMigrated > 0 {
			fmt.Fprintf(w, "Cache entries migrated from legacy format: %d\n", result.CacheMigrated)
		}
		if result.CacheExpired > 0 {
			fmt.Fprintf(w, "Cache entries expired: %d\n", result.CacheExpired)
		}
		fmt.Fprintf(w, "Dataset: %s\n", result.DatasetPath)
	}

	return nil
}
