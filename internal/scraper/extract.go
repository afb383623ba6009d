package scraper

import (
	"html"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/fringe-events/internal/show"
)

var (
	// "$25.00 inc $2.00"
	pricePattern = regexp.MustCompile(`\$(\d+(?:\.\d+)?)\s+inc\s+\$(\d+(?:\.\d+)?)`)
	// "14-August 24, 2025": first day, month name, last day, year
	datePattern     = regexp.MustCompile(`(\d{1,2})-(?:\w+)\s+\d{1,2},\s*(\d{4})`)
	durationPattern = regexp.MustCompile(`(\d+)`)
	// "07: The Westbury Theatre"
	venuePattern  = regexp.MustCompile(`^(\d{2}):\s(.+)`)
	ratingPattern = regexp.MustCompile(`(.+?)\s+\((\w+)\)`)
)

// Keywords locating each line of the schedule list.
const (
	priceKeyword    = "inc"
	dateKeyword     = "August"
	durationKeyword = "minute"
	ratingKeyword   = "("
)

// ParsePriceAndFee reads "$<total> inc $<fee>" and returns the net price and the fee.
// Returns (0, 0) if the text does not match.
func ParsePriceAndFee(text string) (price, fee float64) {
	m := pricePattern.FindStringSubmatch(text)
	if m == nil {
		return 0, 0
	}
	total, err := toCents(m[1])
	if err != nil {
		return 0, 0
	}
	feeCents, err := toCents(m[2])
	if err != nil {
		return 0, 0
	}
	return float64(total-feeCents) / 100, float64(feeCents) / 100
}

func toCents(s string) (int64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return int64(math.Round(f * 100)), nil
}

// ParseFirstShowDate reads "<day>-<month> <day>, <year>" and returns the first day in
// show.FestivalMonth. Returns show.MinDate if the text does not match.
func ParseFirstShowDate(text string) time.Time {
	m := datePattern.FindStringSubmatch(text)
	if m == nil {
		return show.MinDate
	}
	day, err := strconv.Atoi(m[1])
	if err != nil {
		return show.MinDate
	}
	year, err := strconv.Atoi(m[2])
	if err != nil {
		return show.MinDate
	}
	return show.FestivalDate(year, day)
}

// ParseDuration returns the first integer in text, or 0.
func ParseDuration(text string) int {
	m := durationPattern.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

// ParseVenueHeading reads "NN: Name" and returns the venue number and name.
func ParseVenueHeading(text string) (number int, name string, ok bool) {
	m := venuePattern.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return show.UnknownVenueNumber, show.UnknownVenueName, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return show.UnknownVenueNumber, show.UnknownVenueName, false
	}
	return n, strings.TrimSpace(m[2]), true
}

// ParseContentRating reads "<name> (<code>)". Lines without a parenthetical code
// fall back to the unrated placeholder.
func ParseContentRating(text string) *show.ContentRating {
	m := ratingPattern.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return show.Unrated()
	}
	return &show.ContentRating{
		Name: strings.TrimSpace(m[1]),
		Code: strings.TrimSpace(m[2]),
	}
}

// CleanPostalCode removes spaces: "T6E 2G9" -> "T6E2G9".
func CleanPostalCode(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), " ", "")
}

// CleanPhone removes hyphens and spaces: "780-448-1752" -> "7804481752".
func CleanPhone(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "-", "")
	return strings.ReplaceAll(s, " ", "")
}

// findLine returns the first line containing keyword, or "".
func findLine(lines []string, keyword string) string {
	for _, l := range lines {
		if strings.Contains(l, keyword) {
			return l
		}
	}
	return ""
}

// scheduleLines returns the trimmed text of each item in the schedule list
func scheduleLines(doc *goquery.Document) []string {
	var lines []string
	doc.Find("ul.schedule").First().ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
		lines = append(lines, strings.TrimSpace(li.Text()))
	})
	return lines
}

// extractVenue reads the venue section
func extractVenue(doc *goquery.Document) *show.Venue {
	section := doc.Find("section.venu-main").First()

	number, name := show.UnknownVenueNumber, show.UnknownVenueName
	section.Find("h3").EachWithBreak(func(_ int, h *goquery.Selection) bool {
		if n, nm, ok := ParseVenueHeading(h.Text()); ok {
			number, name = n, nm
			return false
		}
		return true
	})

	paragraphs := section.Find("p")
	address := strings.TrimSpace(paragraphs.Eq(0).Text())
	postal := CleanPostalCode(paragraphs.Eq(1).Text())
	phone := CleanPhone(section.Find("span").First().Text())

	return show.NewVenue(number, name, address, postal, phone)
}

// extractPlainDescription joins the text of every non-blank content paragraph
func extractPlainDescription(doc *goquery.Document) string {
	var parts []string
	doc.Find("div.content p").Each(func(_ int, p *goquery.Selection) {
		if text := strings.TrimSpace(p.Text()); text != "" {
			parts = append(parts, text)
		}
	})
	return strings.Join(parts, "\n\n")
}

// extractDescription keeps the inner markup of the paragraphs that sit between the
// title heading and the schedule list, with entities decoded.
func extractDescription(doc *goquery.Document) string {
	h2 := doc.Find("div.content h2").First()
	if h2.Length() == 0 {
		return ""
	}

	var parts []string
	descriptionAnchor(h2).NextUntil("ul.schedule").Filter("p").Each(func(_ int, p *goquery.Selection) {
		inner, err := p.Html()
		if err != nil {
			return
		}
		if text := strings.TrimSpace(html.UnescapeString(inner)); text != "" {
			parts = append(parts, text)
		}
	})
	return strings.Join(parts, "\n\n")
}

// descriptionAnchor climbs from the title heading to the ancestor that sits beside the
// schedule list, so a heading wrapped in its own block still reaches the paragraphs.
func descriptionAnchor(h2 *goquery.Selection) *goquery.Selection {
	anchor := h2
	for anchor.NextAllFiltered("ul.schedule").Length() == 0 {
		parent := anchor.Parent()
		if parent.Length() == 0 || parent.Is("div.content") || parent.Is("body") {
			break
		}
		anchor = parent
	}
	return anchor
}

// parseShow builds a Show with its embedded venue and rating from a detail page
func parseShow(doc *goquery.Document, id int) *show.Show {
	s := show.NewShow(id)

	s.Title = strings.TrimSpace(doc.Find("div.content h2").First().Text())
	s.PlainTextDescription = extractPlainDescription(doc)
	s.Description = extractDescription(doc)

	lines := scheduleLines(doc)
	if len(lines) > 0 {
		s.Tag = lines[0]
	}
	s.Price, s.Fee = ParsePriceAndFee(findLine(lines, priceKeyword))
	s.FirstShowDate = ParseFirstShowDate(findLine(lines, dateKeyword))
	s.LengthInMinutes = ParseDuration(findLine(lines, durationKeyword))
	s.ContentRating = ParseContentRating(findLine(lines, ratingKeyword))
	s.Venue = extractVenue(doc)
	s.ImageURL = doc.Find("img.event-image-square").First().AttrOr("src", "")

	return s
}
