package scraper

import (
	"context"
	"fmt"
	"time"

	"github.com/pfrederiksen/fringe-events/internal/logger"
	"github.com/pfrederiksen/fringe-events/internal/show"
)

// DetailResult is the outcome of a detail-page batch
type DetailResult struct {
	Shows          []*show.Show
	Venues         []*show.Venue
	ContentRatings []*show.ContentRating
	Unresolved     []int // shows whose venue or rating could not be rebound
	Failed         []int // shows whose page could not be fetched or parsed
}

// ScrapeShows fetches every show's detail page on the worker pool, then deduplicates
// venues and content ratings across the successful shows. Failed IDs are reported in
// the result, never as an error.
func (s *Scraper) ScrapeShows(ctx context.Context, ids []int) *DetailResult {
	var shows collector[*show.Show]

	failed := s.forEachID(ctx, ids, func(ctx context.Context, id int) error {
		start := time.Now()
		sh, err := s.scrapeShow(ctx, id)
		logger.RecordTiming("detail.fetch", time.Since(start))
		if err != nil {
			logger.IncrCounter("detail.failed")
			logger.Error("Error scraping show", logger.Fields{"show_id": id}, err)
			return err
		}
		logger.IncrCounter("detail.ok")
		shows.add(sh)
		return nil
	})

	if len(failed) > 0 {
		logger.Warn("Failed to scrape some shows", logger.Fields{
			"count": len(failed),
			"ids":   failed,
		})
	}

	list := shows.list()
	logger.Info("Successfully scraped shows", logger.Fields{"count": len(list)})

	rec := show.Reconcile(list)
	return &DetailResult{
		Shows:          list,
		Venues:         rec.Venues,
		ContentRatings: rec.ContentRatings,
		Unresolved:     rec.Unresolved,
		Failed:         failed,
	}
}

// scrapeShow fetches and parses one detail page
func (s *Scraper) scrapeShow(ctx context.Context, id int) (*show.Show, error) {
	doc, err := s.getDocument(ctx, s.DetailURL(id))
	if err != nil {
		return nil, fmt.Errorf("show %d: %w", id, err)
	}
	return parseShow(doc, id), nil
}
