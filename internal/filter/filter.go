// Package filter narrows a list of scraped shows for the --list output.
//
// A Filter combines optional criteria; a show must satisfy every active one:
//   - First show date within a date range (see ParseDateRange)
//   - Tag (case-insensitive substring match, any of)
//   - Venue number (any of)
//   - Content rating code (case-insensitive, any of)
//   - Title (case-insensitive substring match, any of)
//   - Maximum ticket price including fees
//
// Example usage:
//
//	f := filter.NewFilter()
//	f.Tags = []string{"comedy"}
//	f.MaxPrice = 20
//	shows = f.Apply(shows)
package filter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pfrederiksen/fringe-events/internal/show"
)

// Filter represents show filtering criteria
type Filter struct {
	// First-show date range, inclusive
	DateFrom *time.Time `json:"date_from,omitempty"`
	DateTo   *time.Time `json:"date_to,omitempty"`

	Tags    []string `json:"tags,omitempty"`
	Venues  []int    `json:"venues,omitempty"`
	Ratings []string `json:"ratings,omitempty"`
	Titles  []string `json:"titles,omitempty"`

	// Ticket price plus fee; zero means no limit
	MaxPrice float64 `json:"max_price,omitempty"`
}

// NewFilter creates a new empty filter that matches every show.
func NewFilter() *Filter {
	return &Filter{}
}

// IsEmpty checks if the filter has any active criteria.
func (f *Filter) IsEmpty() bool {
	return f.DateFrom == nil &&
		f.DateTo == nil &&
		len(f.Tags) == 0 &&
		len(f.Venues) == 0 &&
		len(f.Ratings) == 0 &&
		len(f.Titles) == 0 &&
		f.MaxPrice == 0
}

// Matches checks if a show matches all active filter criteria. Shows without a
// known first date never match a date range.
func (f *Filter) Matches(s *show.Show) bool {
	if f.IsEmpty() {
		return true
	}

	if f.DateFrom != nil || f.DateTo != nil {
		d := s.FirstShowDate
		if d.IsZero() {
			return false
		}
		if f.DateFrom != nil && d.Before(*f.DateFrom) {
			return false
		}
		if f.DateTo != nil && d.After(*f.DateTo) {
			return false
		}
	}

	if len(f.Tags) > 0 && !containsAny(s.Tag, f.Tags) {
		return false
	}
	if len(f.Titles) > 0 && !containsAny(s.Title, f.Titles) {
		return false
	}

	if len(f.Venues) > 0 {
		matched := false
		for _, n := range f.Venues {
			if s.VenueNumber() == n {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if len(f.Ratings) > 0 {
		matched := false
		for _, code := range f.Ratings {
			if strings.EqualFold(s.RatingCode(), code) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if f.MaxPrice > 0 && s.Price+s.Fee > f.MaxPrice {
		return false
	}

	return true
}

// Apply returns only the shows that match. An empty filter returns shows unchanged.
func (f *Filter) Apply(shows []*show.Show) []*show.Show {
	if f.IsEmpty() {
		return shows
	}

	var filtered []*show.Show
	for _, s := range shows {
		if f.Matches(s) {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

// String returns a human-readable description of the active filter criteria.
// Format: "From: Aug 14, 2025 | To: Aug 18, 2025 | Tags: comedy | Max price: $20.00"
func (f *Filter) String() string {
	if f.IsEmpty() {
		return "No active filters"
	}

	var parts []string

	if f.DateFrom != nil {
		parts = append(parts, fmt.Sprintf("From: %s", f.DateFrom.Format("Jan 2, 2006")))
	}
	if f.DateTo != nil {
		parts = append(parts, fmt.Sprintf("To: %s", f.DateTo.Format("Jan 2, 2006")))
	}
	if len(f.Tags) > 0 {
		parts = append(parts, fmt.Sprintf("Tags: %s", strings.Join(f.Tags, ", ")))
	}
	if len(f.Venues) > 0 {
		venues := make([]string, len(f.Venues))
		for i, n := range f.Venues {
			venues[i] = strconv.Itoa(n)
		}
		parts = append(parts, fmt.Sprintf("Venues: %s", strings.Join(venues, ", ")))
	}
	if len(f.Ratings) > 0 {
		parts = append(parts, fmt.Sprintf("Ratings: %s", strings.Join(f.Ratings, ", ")))
	}
	if len(f.Titles) > 0 {
		parts = append(parts, fmt.Sprintf("Titles: %s", strings.Join(f.Titles, ", ")))
	}
	if f.MaxPrice > 0 {
		parts = append(parts, fmt.Sprintf("Max price: $%.2f", f.MaxPrice))
	}

	return strings.Join(parts, " | ")
}

// containsAny reports whether s contains any needle, ignoring case
func containsAny(s string, needles []string) bool {
	lower := strings.ToLower(s)
	for _, n := range needles {
		if strings.Contains(lower, strings.ToLower(n)) {
			return true
		}
	}
	return false
}
