package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jacoberrol/eventfeed/internal/genre"
	"github.com/jacoberrol/eventfeed/internal/logger"
	"github.com/jacoberrol/eventfeed/internal/pipeline"
	"github.com/spf13/cobra"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

var (
	flagRoster     string
	flagDataDir    string
	flagFormat     string
	flagMaxLookups int
	flagVenueDelay time.Duration
	flagVerbose    bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eventfeed",
		Short: "Aggregate upcoming events from a venue roster",
		Long: `A CLI tool that crawls a roster of venue listing pages, extracts upcoming
events, deduplicates them per city, enriches artists with genres, and writes
the per-city dataset consumed by the site generator.`,
		RunE: runCrawl,
	}

	// Define flags
	cmd.Flags().StringVar(&flagRoster, "roster", "", "Path to the venue roster YAML (required)")
	cmd.Flags().StringVar(&flagDataDir, "data-dir", "~/.local/share/eventfeed", "Data directory for the dataset and genre cache")
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	cmd.Flags().IntVar(&flagMaxLookups, "max-lookups", genre.DefaultMaxLookups, "Maximum genre lookups per run")
	cmd.Flags().DurationVar(&flagVenueDelay, "venue-delay", pipeline.DefaultVenueDelay, "Pause between venue fetches")
	cmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose logging")

	cmd.MarkFlagRequired("roster")

	return cmd
}

// runCrawl is the main command logic
func runCrawl(cmd *cobra.Command, args []string) error {
	// Validate format
	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}

	if flagVerbose {
		logger.SetDefault(logger.New(logger.LevelDebug, os.Stderr))
		fmt.Fprintf(os.Stderr, "Roster: %s\n", flagRoster)
		fmt.Fprintf(os.Stderr, "Data directory: %s\n", flagDataDir)
	}

	result, err := pipeline.Run(pipeline.Config{
		RosterPath: flagRoster,
		DataDir:    flagDataDir,
		MaxLookups: flagMaxLookups,
		VenueDelay: flagVenueDelay,
	})
	if err != nil {
		return fmt.Errorf("running pipeline: %w", err)
	}

	if err := WriteOutput(os.Stdout, result, format, flagVerbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	return nil
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
