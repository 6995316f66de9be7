package extract

import "strings"

// SkipPhrases lists navigation and marketing strings that are never event
// titles. Matching is case-insensitive substring. Kept as data rather than
// inline conditionals so tests can extend the table without touching the
// extraction logic.
var SkipPhrases = []string{
	"buy ticket",
	"get ticket",
	"more info",
	"learn more",
	"view all",
	"see all",
	"load more",
	"subscribe",
	"sign up",
	"newsletter",
	"privacy policy",
	"cookie",
	"gift card",
	"sold out",
	"upcoming events",
	"our calendar",
	"box office",
}

// IsBoilerplate reports whether a candidate title matches the skip table.
func IsBoilerplate(title string) bool {
	lower := strings.ToLower(title)
	for _, phrase := range SkipPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// isSelfReference reports whether a title is just the venue or city naming
// itself, which page headers and footers produce constantly.
func isSelfReference(title, venueName, city string) bool {
	t := strings.ToLower(strings.TrimSpace(title))
	return t == strings.ToLower(venueName) || t == strings.ToLower(city)
}
