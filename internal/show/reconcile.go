package show

import (
	"github.com/pfrederiksen/fringe-events/internal/logger"
)

// ReconcileResult holds the canonical reference entities after deduplication
type ReconcileResult struct {
	Venues         []*Venue
	ContentRatings []*ContentRating
	Unresolved     []int // IDs of shows left holding a non-canonical reference
}

// Reconcile deduplicates the venues and content ratings embedded in shows by natural
// key and rebinds every show to the canonical instance. The first occurrence in slice
// order wins; later duplicates are discarded, not merged.
func Reconcile(shows []*Show) *ReconcileResult {
	result := &ReconcileResult{
		Venues:         make([]*Venue, 0),
		ContentRatings: make([]*ContentRating, 0),
	}

	venues := make(map[int]*Venue)
	ratings := make(map[string]*ContentRating)

	for _, s := range shows {
		if s.Venue != nil {
			if _, seen := venues[s.Venue.VenueNumber]; !seen {
				venues[s.Venue.VenueNumber] = s.Venue
				result.Venues = append(result.Venues, s.Venue)
			}
		}
		if s.ContentRating != nil {
			if _, seen := ratings[s.ContentRating.Code]; !seen {
				ratings[s.ContentRating.Code] = s.ContentRating
				result.ContentRatings = append(result.ContentRatings, s.ContentRating)
			}
		}
	}

	for _, s := range shows {
		unresolved := false

		if v, ok := venues[s.VenueNumber()]; ok {
			s.Venue = v
		} else {
			logger.Warn("Venue not found for show, keeping parsed venue", logger.Fields{
				"show_id":      s.ID,
				"venue_number": s.VenueNumber(),
			})
			unresolved = true
		}

		if r, ok := ratings[s.RatingCode()]; ok {
			s.ContentRating = r
		} else {
			logger.Warn("Content rating not found for show, keeping parsed rating", logger.Fields{
				"show_id":     s.ID,
				"rating_code": s.RatingCode(),
			})
			unresolved = true
		}

		if unresolved {
			result.Unresolved = append(result.Unresolved, s.ID)
		}
	}

	return result
}
