package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pfrederiksen/fringe-events/internal/logger"
	"github.com/pfrederiksen/fringe-events/internal/scraper"
	"github.com/pfrederiksen/fringe-events/internal/show"
	"github.com/pfrederiksen/fringe-events/internal/storage"
)

var (
	// ErrNoShows means every detail page failed.
	ErrNoShows = errors.New("no shows were scraped")
	// ErrNoShowTimes means no showtime feed returned a performance of a scraped show.
	ErrNoShowTimes = errors.New("no showtimes were scraped")
)

// Scraper is the upstream site as the pipeline sees it
type Scraper interface {
	ScrapeIDs(ctx context.Context) ([]int, error)
	ScrapeShows(ctx context.Context, ids []int) *scraper.DetailResult
	FetchShowTimes(ctx context.Context, ids []int) *scraper.ShowTimeResult
}

// Store receives the reconciled snapshot
type Store interface {
	Replace(ctx context.Context, snap *show.Snapshot) (*storage.ReplaceStats, error)
}

// Pipeline runs one scrape-and-replace pass. Store may be nil when DryRun is set.
type Pipeline struct {
	Scraper Scraper
	Store   Store
	DryRun  bool
}

// Run executes every stage in order and stops at the first fatal condition. The
// returned summary is filled as far as the run got, even on error.
func (p *Pipeline) Run(ctx context.Context, summary *RunSummary) (*show.Snapshot, error) {
	ids, err := p.Scraper.ScrapeIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing shows: %w", err)
	}
	summary.ShowIDs = len(ids)

	detail := p.Scraper.ScrapeShows(ctx, ids)
	summary.Shows = len(detail.Shows)
	summary.FailedShows = detail.Failed
	summary.Unresolved = detail.Unresolved
	summary.Venues = len(detail.Venues)
	summary.ContentRatings = len(detail.ContentRatings)
	logger.Info("Scraped show details", logger.Fields{
		"ok":     len(detail.Shows),
		"failed": len(detail.Failed),
	})
	if len(detail.Shows) == 0 {
		return nil, ErrNoShows
	}

	times := p.Scraper.FetchShowTimes(ctx, ids)
	summary.ShowTimes = len(times.ShowTimes)
	summary.FailedShowTimes = times.Failed
	logger.Info("Fetched showtimes", logger.Fields{
		"ok":     len(times.ShowTimes),
		"failed": len(times.Failed),
	})
	if len(times.ShowTimes) == 0 {
		return nil, ErrNoShowTimes
	}

	snap := &show.Snapshot{
		Shows:          detail.Shows,
		Venues:         detail.Venues,
		ContentRatings: detail.ContentRatings,
		ShowTimes:      times.ShowTimes,
	}

	// performances of shows whose detail page failed are dropped on save
	if kept, _ := snap.OrphanShowTimes(); len(kept) == 0 {
		logger.Warn("Every showtime belongs to a show that was not scraped", logger.Fields{
			"show_times": len(times.ShowTimes),
		})
		return nil, ErrNoShowTimes
	}

	if p.DryRun {
		logger.Info("Dry run, skipping database update", nil)
		return snap, nil
	}

	start := time.Now()
	stats, err := p.Store.Replace(ctx, snap)
	logger.RecordTiming("store.replace", time.Since(start))
	if err != nil {
		return snap, fmt.Errorf("saving snapshot: %w", err)
	}
	summary.Persisted = stats
	return snap, nil
}
