package storage

import (
	"context"
	"fmt"

	"github.com/pfrederiksen/fringe-events/internal/logger"
	"github.com/pfrederiksen/fringe-events/internal/show"
	"gorm.io/gorm"
)

// ReplaceStats reports what one Replace call deleted and wrote
type ReplaceStats struct {
	Deleted        map[string]int64 `json:"deleted"`
	ContentRatings int              `json:"content_ratings"`
	Venues         int              `json:"venues"`
	Shows          int              `json:"shows"`
	ShowTimes      int              `json:"show_times"`
	Orphans        int              `json:"orphan_show_times"`
	Unbound        []int            `json:"unbound_shows,omitempty"`
}

// Replace deletes the stored dataset and writes snap in its place.
//
// The first transaction clears show times, user ratings, shows, venues and content
// ratings (children before parents), then inserts content ratings and venues so the
// database assigns their IDs. The second transaction points every show at those IDs by
// natural key, inserts the shows, and inserts the show times whose show is part of snap.
// An error aborts the remaining steps; a failure in the second transaction leaves the
// reference data from the first one committed.
func (s *Store) Replace(ctx context.Context, snap *show.Snapshot) (*ReplaceStats, error) {
	stats := &ReplaceStats{Deleted: make(map[string]int64)}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := clearAll(ctx, tx, stats); err != nil {
			return err
		}
		if err := ContentRatings.InsertAll(ctx, tx, snap.ContentRatings); err != nil {
			return err
		}
		return Venues.InsertAll(ctx, tx, snap.Venues)
	})
	if err != nil {
		return nil, fmt.Errorf("replacing reference data: %w", err)
	}
	stats.ContentRatings = len(snap.ContentRatings)
	stats.Venues = len(snap.Venues)
	logger.Info("Saved venues and content ratings", logger.Fields{
		"venues":          stats.Venues,
		"content_ratings": stats.ContentRatings,
	})

	times, orphans := snap.OrphanShowTimes()
	if len(orphans) > 0 {
		logger.Warn("Dropping show times for shows that were not scraped", logger.Fields{
			"count":    len(orphans),
			"show_ids": orphanShowIDs(orphans),
		})
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		stats.Unbound = bindReferences(snap)
		if err := Shows.InsertAll(ctx, tx, snap.Shows); err != nil {
			return err
		}
		return ShowTimes.InsertAll(ctx, tx, times)
	})
	if err != nil {
		return nil, fmt.Errorf("replacing shows: %w", err)
	}
	stats.Shows = len(snap.Shows)
	stats.ShowTimes = len(times)
	stats.Orphans = len(orphans)
	logger.Info("Saved shows and show times", logger.Fields{
		"shows":      stats.Shows,
		"show_times": stats.ShowTimes,
	})

	return stats, nil
}

// clearAll deletes every table Replace owns in foreign-key order
func clearAll(ctx context.Context, tx *gorm.DB, stats *ReplaceStats) error {
	steps := []struct {
		table string
		del   func(context.Context, *gorm.DB) (int64, error)
	}{
		{"show_times", ShowTimes.DeleteAll},
		{"user_ratings", UserRatings.DeleteAll},
		{"shows", Shows.DeleteAll},
		{"venues", Venues.DeleteAll},
		{"content_ratings", ContentRatings.DeleteAll},
	}
	for _, step := range steps {
		n, err := step.del(ctx, tx)
		if err != nil {
			return err
		}
		stats.Deleted[step.table] = n
	}
	logger.Debug("Cleared stored dataset", logger.Fields{"deleted": stats.Deleted})
	return nil
}

// bindReferences sets each show's VenueID and ContentRatingID from the persisted
// canonical rows, matched by venue number and rating code. Shows with no match keep
// their current IDs and are returned.
func bindReferences(snap *show.Snapshot) []int {
	venueIDs := make(map[int]int, len(snap.Venues))
	for _, v := range snap.Venues {
		venueIDs[v.VenueNumber] = v.ID
	}
	ratingIDs := make(map[string]int, len(snap.ContentRatings))
	for _, r := range snap.ContentRatings {
		ratingIDs[r.Code] = r.ID
	}

	var unbound []int
	for _, s := range snap.Shows {
		ok := true
		if id, found := venueIDs[s.VenueNumber()]; found {
			s.VenueID = id
		} else {
			logger.Warn("No stored venue for show", logger.Fields{
				"show_id":      s.ID,
				"venue_number": s.VenueNumber(),
			})
			ok = false
		}
		if id, found := ratingIDs[s.RatingCode()]; found {
			s.ContentRatingID = id
		} else {
			logger.Warn("No stored content rating for show", logger.Fields{
				"show_id":     s.ID,
				"rating_code": s.RatingCode(),
			})
			ok = false
		}
		if !ok {
			unbound = append(unbound, s.ID)
		}
	}
	return unbound
}

func orphanShowIDs(times []*show.ShowTime) []int {
	seen := make(map[int]bool)
	var ids []int
	for _, st := range times {
		if !seen[st.ShowID] {
			seen[st.ShowID] = true
			ids = append(ids, st.ShowID)
		}
	}
	return ids
}
