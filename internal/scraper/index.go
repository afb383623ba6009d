package scraper

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/fringe-events/internal/logger"
)

// showIDPattern matches the "601:<id>" pair embedded in event links
var showIDPattern = regexp.MustCompile(EventPrefix + `:(\d+)`)

// ScrapeIDs fetches the listing page and returns every show ID on it, in page order
// without duplicates.
func (s *Scraper) ScrapeIDs(ctx context.Context) ([]int, error) {
	doc, err := s.getDocument(ctx, s.IndexURL())
	if err != nil {
		return nil, fmt.Errorf("fetching listing page: %w", err)
	}

	ids, err := parseIDs(doc)
	if err != nil {
		return nil, err
	}

	logger.Info("Found show IDs on the listing page", logger.Fields{"count": len(ids)})
	return ids, nil
}

// parseIDs extracts show IDs from the listing cards
func parseIDs(doc *goquery.Document) ([]int, error) {
	cards := doc.Find("div.card.text-left")
	if cards.Length() == 0 {
		return nil, ErrNoCards
	}

	ids := make([]int, 0, cards.Length())
	seen := make(map[int]bool)

	cards.Each(func(i int, card *goquery.Selection) {
		href := strings.TrimSpace(card.Find(".card-footer a").First().AttrOr("href", ""))
		if href == "" {
			logger.Warn("No link found in card", logger.Fields{"card": i})
			return
		}

		id, ok := ExtractShowID(href)
		if !ok {
			logger.Warn("Card link carries no show ID", logger.Fields{"card": i, "href": href})
			return
		}

		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	})

	if len(ids) == 0 {
		return nil, ErrNoShowIDs
	}
	return ids, nil
}

// ExtractShowID pulls the numeric show ID out of an event URL such as
// "https://tickets.fringetheatre.ca/event/601:1234". Only positive IDs are accepted.
func ExtractShowID(href string) (int, bool) {
	m := showIDPattern.FindStringSubmatch(href)
	if m == nil {
		return 0, false
	}
	id, err := strconv.Atoi(m[1])
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
