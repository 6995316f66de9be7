package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/jacoberrol/eventfeed/internal/event"
)

var (
	// monthDateRe matches "February 26", "Feb 26, 2026" style mentions in
	// flattened text.
	monthDateRe = regexp.MustCompile(
		`(?i)\b(Jan(?:uary)?|Feb(?:ruary)?|Mar(?:ch)?|Apr(?:il)?|May|Jun(?:e)?|` +
			`Jul(?:y)?|Aug(?:ust)?|Sep(?:tember)?|Oct(?:ober)?|Nov(?:ember)?|Dec(?:ember)?)` +
			`\.?\s+(\d{1,2})(?:st|nd|rd|th)?(?:,?\s*(\d{4}))?`)

	// titlePhraseRe matches capitalized phrases of plausible title shape.
	titlePhraseRe = regexp.MustCompile(`[A-Z][A-Za-z0-9'&:,.\-\s]{3,64}`)
)

// proximityWindow is how far (in characters) around a date mention we look
// for a title phrase.
const proximityWindow = 150

// headingProximityStrategy pairs month-name date mentions with the nearest
// capitalized phrase in the surrounding text. It is the loosest strategy,
// used only for sources without an aggregator identity: theaters and small
// venues whose pages have no structure at all.
type headingProximityStrategy struct{}

func (s *headingProximityStrategy) Name() string { return "heading-proximity" }

func (s *headingProximityStrategy) Extract(page Page) []event.Candidate {
	if page.Source.AggregatorID != "" {
		return nil
	}

	var candidates []event.Candidate

	for _, loc := range monthDateRe.FindAllStringSubmatchIndex(page.Text, -1) {
		m := matchStrings(page.Text, loc)

		month, ok := parseMonth(m[1])
		if !ok {
			continue
		}
		day, _ := strconv.Atoi(m[2])
		year := 0
		if m[3] != "" {
			year, _ = strconv.Atoi(m[3])
		}

		date, ok := ResolveDate(month, day, year, page.Today)
		if !ok {
			continue
		}

		title := s.nearestTitle(page, loc[0], loc[1])
		if title == "" {
			continue
		}

		candidates = append(candidates, event.Candidate{
			Name:       title,
			Date:       date,
			URL:        page.Source.URL,
			Venue:      page.Source.Name,
			City:       page.Source.City,
			Theatrical: page.Source.Theater,
		})
	}

	return candidates
}

// nearestTitle picks the capitalized phrase closest to the date mention
// within the proximity window, skipping phrases that are themselves dates,
// boilerplate, or the venue naming itself.
func (s *headingProximityStrategy) nearestTitle(page Page, matchStart, matchEnd int) string {
	start := matchStart - proximityWindow
	if start < 0 {
		start = 0
	}
	end := matchEnd + proximityWindow
	if end > len(page.Text) {
		end = len(page.Text)
	}
	context := page.Text[start:end]

	// Position of the date mention relative to the context slice.
	dateMid := (matchStart+matchEnd)/2 - start

	best := ""
	bestDistance := -1

	for _, loc := range titlePhraseRe.FindAllStringIndex(context, -1) {
		phrase := strings.TrimSpace(context[loc[0]:loc[1]])
		phrase = strings.Trim(phrase, ",.:-")
		if len(phrase) < 4 || len(phrase) > 65 {
			continue
		}
		if monthDateRe.MatchString(phrase) && len(monthDateRe.FindString(phrase)) >= len(phrase)/2 {
			// The phrase is mostly the date itself.
			continue
		}
		if IsBoilerplate(phrase) || isSelfReference(phrase, page.Source.Name, page.Source.City) {
			continue
		}

		mid := (loc[0] + loc[1]) / 2
		distance := mid - dateMid
		if distance < 0 {
			distance = -distance
		}
		if bestDistance < 0 || distance < bestDistance {
			best = phrase
			bestDistance = distance
		}
	}

	return clip(best, 80)
}

// matchStrings converts FindAllStringSubmatchIndex output back to submatch
// strings, with "" for absent groups.
func matchStrings(s string, loc []int) []string {
	out := make([]string, len(loc)/2)
	for i := 0; i < len(loc); i += 2 {
		if loc[i] >= 0 {
			out[i/2] = s[loc[i]:loc[i+1]]
		}
	}
	return out
}
