package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pfrederiksen/fringe-events/internal/show"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortByTitle SortOrder = "title"
	SortByDate  SortOrder = "date"
	SortByVenue SortOrder = "venue"
)

// ParseSortOrder validates a --sort value
func ParseSortOrder(s string) (SortOrder, error) {
	switch order := SortOrder(strings.ToLower(strings.TrimSpace(s))); order {
	case SortByTitle, SortByDate, SortByVenue:
		return order, nil
	default:
		return "", fmt.Errorf("invalid sort order: %s (must be 'title', 'date' or 'venue')", s)
	}
}

// sortShows sorts shows in place based on the specified sort order
func sortShows(shows []*show.Show, order SortOrder) {
	switch order {
	case SortByDate:
		sort.SliceStable(shows, func(i, j int) bool {
			return compareByDate(shows[i], shows[j])
		})
	case SortByVenue:
		sort.SliceStable(shows, func(i, j int) bool {
			if vi, vj := shows[i].VenueNumber(), shows[j].VenueNumber(); vi != vj {
				return vi < vj
			}
			return compareByTitle(shows[i], shows[j])
		})
	case SortByTitle:
		sort.SliceStable(shows, func(i, j int) bool {
			return compareByTitle(shows[i], shows[j])
		})
	}
}

func compareByTitle(i, j *show.Show) bool {
	ti, tj := strings.ToLower(i.Title), strings.ToLower(j.Title)
	if ti != tj {
		return ti < tj
	}
	return i.ID < j.ID
}

// compareByDate puts shows with a known first date before undated ones
func compareByDate(i, j *show.Show) bool {
	di, dj := i.FirstShowDate, j.FirstShowDate

	if !di.IsZero() && !dj.IsZero() && !di.Equal(dj) {
		return di.Before(dj)
	}
	if di.IsZero() != dj.IsZero() {
		return !di.IsZero()
	}
	return compareByTitle(i, j)
}
