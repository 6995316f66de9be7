package extract

import (
	"html"
	"regexp"
	"strings"
	"time"

	"github.com/jacoberrol/eventfeed/internal/event"
	"github.com/jacoberrol/eventfeed/internal/logger"
	"github.com/jacoberrol/eventfeed/internal/venue"
)

// MaxPerVenue caps extraction output for a single page to bound downstream
// cost from pathological pages.
const MaxPerVenue = 20

// Page is one fetched venue page, preprocessed once and shared by all
// strategies.
type Page struct {
	HTML   string
	Text   string   // markup stripped, whitespace flattened to single spaces
	Lines  []string // markup stripped, split on block boundaries, trimmed
	Source venue.Source
	Today  time.Time
}

// Strategy extracts candidates from a page using one publication format.
type Strategy interface {
	Name() string
	Extract(page Page) []event.Candidate
}

// Extractor runs strategies in priority order.
type Extractor struct {
	strategies []Strategy
}

// New creates an Extractor with the default strategy order: structured
// annotations first, weekday-pattern text second, heading proximity last.
func New() *Extractor {
	return &Extractor{
		strategies: []Strategy{
			&structuredStrategy{},
			&weekdayPatternStrategy{},
			&headingProximityStrategy{},
		},
	}
}

// Extract produces zero or more candidates from a raw page. The first
// strategy that yields anything wins. Extraction never returns an error:
// anything unparseable degrades to zero candidates.
func (x *Extractor) Extract(rawHTML string, src venue.Source, today time.Time) []event.Candidate {
	if strings.TrimSpace(rawHTML) == "" {
		return nil
	}

	page := newPage(rawHTML, src, today)

	for _, strategy := range x.strategies {
		candidates := strategy.Extract(page)
		if len(candidates) == 0 {
			continue
		}

		candidates = dedupeWithinVenue(candidates)
		if len(candidates) > MaxPerVenue {
			candidates = candidates[:MaxPerVenue]
		}

		logger.Debug("extraction strategy matched", logger.Fields{
			"venue":      src.Name,
			"strategy":   strategy.Name(),
			"candidates": len(candidates),
		})
		return candidates
	}

	logger.Info("no extraction strategy matched", logger.Fields{
		"venue": src.Name,
		"url":   src.URL,
	})
	return nil
}

// dedupeWithinVenue drops repeats of the same (date, name) within one page;
// listing pages frequently render the same show in multiple sections.
func dedupeWithinVenue(candidates []event.Candidate) []event.Candidate {
	type key struct {
		date time.Time
		name string
	}
	seen := make(map[key]bool, len(candidates))
	unique := make([]event.Candidate, 0, len(candidates))
	for _, c := range candidates {
		k := key{date: event.Day(c.Date), name: event.NormalizeName(c.Name)}
		if seen[k] {
			continue
		}
		seen[k] = true
		unique = append(unique, c)
	}
	return unique
}

// clip truncates a title to at most n runes.
func clip(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return strings.TrimSpace(string(runes[:n]))
}

var (
	scriptStyleRe = regexp.MustCompile(`(?is)<(script|style|noscript)[^>]*>.*?</(script|style|noscript)>`)
	blockBreakRe  = regexp.MustCompile(`(?i)<(?:br\s*/?|/p|/div|/li|/h[1-6]|/tr|/section|/article|/header|/td)>`)
	tagRe         = regexp.MustCompile(`<[^>]+>`)
	spaceRe       = regexp.MustCompile(`[ \t]+`)
)

// newPage strips markup once so strategies can work on plain text.
func newPage(rawHTML string, src venue.Source, today time.Time) Page {
	stripped := scriptStyleRe.ReplaceAllString(rawHTML, " ")
	stripped = blockBreakRe.ReplaceAllString(stripped, "\n")
	stripped = tagRe.ReplaceAllString(stripped, " ")
	stripped = html.UnescapeString(stripped)
	stripped = spaceRe.ReplaceAllString(stripped, " ")

	var lines []string
	for _, line := range strings.Split(stripped, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}

	return Page{
		HTML:   rawHTML,
		Text:   strings.Join(lines, " "),
		Lines:  lines,
		Source: src,
		Today:  today,
	}
}
