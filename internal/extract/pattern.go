package extract

import (
	"regexp"
	"strconv"

	"github.com/jacoberrol/eventfeed/internal/event"
)

// weekdayDateRe matches listing dates like "Thursday 26 February 2026" or
// "Fri 26 Feb"; the year is optional and resolved by ResolveDate.
var weekdayDateRe = regexp.MustCompile(
	`(?i)\b(Mon|Tue|Tues|Wed|Wednes|Thu|Thur|Thurs|Fri|Sat|Satur|Sun)(?:day)?,?\s+` +
		`(\d{1,2})(?:st|nd|rd|th)?\s+` +
		`(Jan(?:uary)?|Feb(?:ruary)?|Mar(?:ch)?|Apr(?:il)?|May|Jun(?:e)?|` +
		`Jul(?:y)?|Aug(?:ust)?|Sep(?:tember)?|Oct(?:ober)?|Nov(?:ember)?|Dec(?:ember)?)` +
		`\.?,?(?:\s+(\d{4}))?`)

// titleSearchDepth is how many lines past a date line we look for a title
// before giving up on that date.
const titleSearchDepth = 5

// weekdayPatternStrategy scans markup-stripped lines for weekday-led dates
// and takes the next plausible non-date line as the event title. Listing
// pages that render one show per block (date line, then artist line) fall
// out of markup stripping in exactly this shape.
type weekdayPatternStrategy struct{}

func (s *weekdayPatternStrategy) Name() string { return "weekday-pattern" }

func (s *weekdayPatternStrategy) Extract(page Page) []event.Candidate {
	var candidates []event.Candidate

	for i, line := range page.Lines {
		m := weekdayDateRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		month, ok := parseMonth(m[3])
		if !ok {
			continue
		}
		day, _ := strconv.Atoi(m[2])
		year := 0
		if m[4] != "" {
			year, _ = strconv.Atoi(m[4])
		}

		date, ok := ResolveDate(month, day, year, page.Today)
		if !ok {
			continue
		}

		title := s.findTitle(page, i)
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

// findTitle returns the first line after the date line that is not itself a
// date and is not on the venue/city/boilerplate skip list.
func (s *weekdayPatternStrategy) findTitle(page Page, dateLine int) string {
	for j := dateLine + 1; j < len(page.Lines) && j <= dateLine+titleSearchDepth; j++ {
		line := page.Lines[j]
		if weekdayDateRe.MatchString(line) {
			continue
		}
		if IsBoilerplate(line) || isSelfReference(line, page.Source.Name, page.Source.City) {
			continue
		}
		if len(line) < 2 {
			continue
		}
		return clip(line, 80)
	}
	return ""
}
