package extract

import (
	"encoding/json"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jacoberrol/eventfeed/internal/event"
	"github.com/jacoberrol/eventfeed/internal/logger"
)

// linkWindow is how far around a structured annotation we search the raw
// HTML for an event-specific link when the annotation carries no url.
const linkWindow = 600

var hrefRe = regexp.MustCompile(`href=["']([^"'#][^"']*)["']`)

// structuredStrategy extracts schema.org Event annotations: JSON-LD script
// blocks first, microdata itemscopes second. Preferred over the text
// strategies because annotation dates are absolute.
type structuredStrategy struct{}

func (s *structuredStrategy) Name() string { return "structured" }

func (s *structuredStrategy) Extract(page Page) []event.Candidate {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.HTML))
	if err != nil {
		logger.Warn("parsing page HTML", logger.Fields{
			"venue": page.Source.Name,
		})
		return nil
	}

	candidates := s.fromJSONLD(doc, page)
	if len(candidates) == 0 {
		candidates = s.fromMicrodata(doc, page)
	}
	return candidates
}

// jsonLDEvent is the subset of a schema.org Event we consume.
type jsonLDEvent struct {
	Type      json.RawMessage `json:"@type"`
	Graph     []jsonLDEvent   `json:"@graph"`
	Name      string          `json:"name"`
	StartDate string          `json:"startDate"`
	URL       string          `json:"url"`
}

func (s *structuredStrategy) fromJSONLD(doc *goquery.Document, page Page) []event.Candidate {
	var candidates []event.Candidate

	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, sel *goquery.Selection) {
		raw := sel.Text()
		for _, entry := range decodeJSONLD(raw) {
			if c, ok := s.candidateFromAnnotation(entry.Name, entry.StartDate, entry.URL, raw, page); ok {
				candidates = append(candidates, c)
			}
		}
	})

	return candidates
}

// decodeJSONLD tolerates the shapes sites actually publish: a single object,
// a top-level array, or an @graph wrapper, with @type a string or a list.
func decodeJSONLD(raw string) []jsonLDEvent {
	var entries []jsonLDEvent

	var single jsonLDEvent
	if err := json.Unmarshal([]byte(raw), &single); err == nil {
		entries = append(entries, single)
		entries = append(entries, single.Graph...)
	} else {
		var list []jsonLDEvent
		if err := json.Unmarshal([]byte(raw), &list); err != nil {
			return nil
		}
		for _, e := range list {
			entries = append(entries, e)
			entries = append(entries, e.Graph...)
		}
	}

	var events []jsonLDEvent
	for _, e := range entries {
		if isEventType(e.Type) {
			events = append(events, e)
		}
	}
	return events
}

// isEventType accepts "Event" and its schema.org subtypes (MusicEvent,
// TheaterEvent, ...), whether @type is a string or a list.
func isEventType(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}
	var one string
	if err := json.Unmarshal(raw, &one); err == nil {
		return strings.HasSuffix(one, "Event")
	}
	var many []string
	if err := json.Unmarshal(raw, &many); err == nil {
		for _, t := range many {
			if strings.HasSuffix(t, "Event") {
				return true
			}
		}
	}
	return false
}

func (s *structuredStrategy) fromMicrodata(doc *goquery.Document, page Page) []event.Candidate {
	var candidates []event.Candidate

	doc.Find(`[itemscope][itemtype]`).Each(func(_ int, sel *goquery.Selection) {
		itemtype, _ := sel.Attr("itemtype")
		if !strings.Contains(itemtype, "schema.org") || !strings.HasSuffix(itemtype, "Event") {
			return
		}

		name := strings.TrimSpace(sel.Find(`[itemprop="name"]`).First().Text())
		if name == "" {
			name, _ = sel.Find(`[itemprop="name"]`).First().Attr("content")
		}

		start := microdataValue(sel.Find(`[itemprop="startDate"]`).First())
		link, _ := sel.Find(`a[itemprop="url"]`).First().Attr("href")
		if link == "" {
			link = microdataValue(sel.Find(`[itemprop="url"]`).First())
		}

		if c, ok := s.candidateFromAnnotation(name, start, link, name, page); ok {
			candidates = append(candidates, c)
		}
	})

	return candidates
}

// microdataValue pulls a microdata property from content/datetime attributes
// or element text, in that order.
func microdataValue(sel *goquery.Selection) string {
	if v, ok := sel.Attr("content"); ok && v != "" {
		return v
	}
	if v, ok := sel.Attr("datetime"); ok && v != "" {
		return v
	}
	return strings.TrimSpace(sel.Text())
}

// candidateFromAnnotation validates one annotation and picks its link.
// anchor is a substring of the raw HTML near the annotation, used to center
// the deep-link window search.
func (s *structuredStrategy) candidateFromAnnotation(name, startDate, link, anchor string, page Page) (event.Candidate, bool) {
	name = strings.TrimSpace(name)
	if name == "" || IsBoilerplate(name) || isSelfReference(name, page.Source.Name, page.Source.City) {
		return event.Candidate{}, false
	}

	date, ok := parseISODate(startDate)
	if !ok || date.Before(truncate(page.Today)) {
		return event.Candidate{}, false
	}

	deepLink := resolveLink(link, page.Source.URL)
	if deepLink == page.Source.URL {
		if found := nearbyLink(page.HTML, anchor, page.Source.URL); found != "" {
			deepLink = found
		}
	}

	return event.Candidate{
		Name:       name,
		Date:       date,
		URL:        deepLink,
		Venue:      page.Source.Name,
		City:       page.Source.City,
		Theatrical: page.Source.Theater,
	}, true
}

// nearbyLink searches a bounded window around the annotation's position in
// the raw HTML for an event-specific href, preferring a deep link over the
// venue's generic page.
func nearbyLink(rawHTML, anchor, venueURL string) string {
	if anchor == "" {
		return ""
	}
	pos := strings.Index(rawHTML, anchor)
	if pos < 0 {
		return ""
	}

	start := pos - linkWindow
	if start < 0 {
		start = 0
	}
	end := pos + len(anchor) + linkWindow
	if end > len(rawHTML) {
		end = len(rawHTML)
	}

	best := ""
	for _, m := range hrefRe.FindAllStringSubmatch(rawHTML[start:end], -1) {
		resolved := resolveLink(m[1], venueURL)
		if resolved == venueURL || resolved == "" {
			continue
		}
		if len(resolved) > len(best) {
			best = resolved
		}
	}
	return best
}

// resolveLink absolutizes a link against the venue page, falling back to the
// venue page itself for anything unusable.
func resolveLink(link, venueURL string) string {
	link = strings.TrimSpace(link)
	if link == "" {
		return venueURL
	}
	if strings.HasPrefix(link, "http://") || strings.HasPrefix(link, "https://") {
		return link
	}

	base, err := url.Parse(venueURL)
	if err != nil {
		return venueURL
	}
	ref, err := url.Parse(link)
	if err != nil {
		return venueURL
	}
	resolved := base.ResolveReference(ref)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return venueURL
	}
	return resolved.String()
}
