package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pfrederiksen/fringe-events/internal/logger"
	"github.com/pfrederiksen/fringe-events/internal/show"
	"github.com/pfrederiksen/fringe-events/internal/storage"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// ParseOutputFormat validates a --format value
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch format := OutputFormat(strings.ToLower(strings.TrimSpace(s))); format {
	case FormatText, FormatJSON:
		return format, nil
	default:
		return "", fmt.Errorf("invalid format: %s (must be 'text' or 'json')", s)
	}
}

// RunSummary is the outcome of one run
type RunSummary struct {
	RunID           string                 `json:"run_id"`
	StartedAt       time.Time              `json:"started_at"`
	FinishedAt      time.Time              `json:"finished_at"`
	DryRun          bool                   `json:"dry_run"`
	ShowIDs         int                    `json:"show_ids"`
	Shows           int                    `json:"shows"`
	FailedShows     []int                  `json:"failed_shows"`
	Unresolved      []int                  `json:"unresolved_shows,omitempty"`
	Venues          int                    `json:"venues"`
	ContentRatings  int                    `json:"content_ratings"`
	ShowTimes       int                    `json:"show_times"`
	FailedShowTimes []int                  `json:"failed_show_times"`
	Persisted       *storage.ReplaceStats  `json:"persisted,omitempty"`
	Metrics         logger.MetricsSnapshot `json:"metrics"`
	Error           string                 `json:"error,omitempty"`
}

// ShowList is the --list payload
type ShowList struct {
	Sort  SortOrder    `json:"sort"`
	Count int          `json:"count"`
	Shows []*show.Show `json:"shows"`
}

// WriteOutput writes the summary in the specified format
func WriteOutput(w io.Writer, summary *RunSummary, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, summary)
	case FormatText:
		return writeText(w, summary, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// WriteShowList writes the scraped shows sorted by order
func WriteShowList(w io.Writer, shows []*show.Show, order SortOrder, format OutputFormat) error {
	sorted := make([]*show.Show, len(shows))
	copy(sorted, shows)
	sortShows(sorted, order)

	if format == FormatJSON {
		return writeJSON(w, &ShowList{Sort: order, Count: len(sorted), Shows: sorted})
	}

	if len(sorted) == 0 {
		fmt.Fprintln(w, "No shows found.")
		return nil
	}
	for _, s := range sorted {
		date := "TBA"
		if !s.FirstShowDate.IsZero() {
			date = s.FirstShowDate.Format("Jan 2")
		}
		venue := show.UnknownVenueName
		if s.Venue != nil {
			venue = fmt.Sprintf("%02d %s", s.Venue.VenueNumber, s.Venue.Name)
			if s.Venue.VenueNumber == show.UnknownVenueNumber {
				venue = s.Venue.Name
			}
		}
		fmt.Fprintf(w, "%6d  %-6s  %-40s  %s\n", s.ID, date, s.Title, venue)
	}
	fmt.Fprintf(w, "\nTotal: %d shows\n", len(sorted))
	return nil
}

// writeJSON outputs v as indented JSON
func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// writeText outputs the summary as human-readable text
func writeText(w io.Writer, s *RunSummary, verbose bool) error {
	fmt.Fprintf(w, "Run %s", s.RunID)
	if s.DryRun {
		fmt.Fprint(w, " (dry run)")
	}
	fmt.Fprintf(w, " finished in %s\n", s.FinishedAt.Sub(s.StartedAt).Round(time.Millisecond))

	fmt.Fprintf(w, "  Show IDs:        %d\n", s.ShowIDs)
	fmt.Fprintf(w, "  Shows:           %d scraped, %d failed\n", s.Shows, len(s.FailedShows))
	fmt.Fprintf(w, "  Venues:          %d\n", s.Venues)
	fmt.Fprintf(w, "  Content ratings: %d\n", s.ContentRatings)
	fmt.Fprintf(w, "  Showtimes:       %d scraped, %d failed\n", s.ShowTimes, len(s.FailedShowTimes))

	if len(s.FailedShows) > 0 {
		fmt.Fprintf(w, "  Failed shows:     %s\n", joinIDs(s.FailedShows))
	}
	if len(s.FailedShowTimes) > 0 {
		fmt.Fprintf(w, "  Failed showtimes: %s\n", joinIDs(s.FailedShowTimes))
	}
	if len(s.Unresolved) > 0 {
		fmt.Fprintf(w, "  Unresolved:       %s\n", joinIDs(s.Unresolved))
	}

	if p := s.Persisted; p != nil {
		fmt.Fprintf(w, "Saved %d shows, %d showtimes, %d venues, %d content ratings",
			p.Shows, p.ShowTimes, p.Venues, p.ContentRatings)
		if p.Orphans > 0 {
			fmt.Fprintf(w, " (%d orphan showtimes dropped)", p.Orphans)
		}
		fmt.Fprintln(w)
	}

	if s.Error != "" {
		fmt.Fprintf(w, "Error: %s\n", s.Error)
	}

	if verbose {
		writeMetrics(w, s.Metrics)
	}
	return nil
}

func writeMetrics(w io.Writer, m logger.MetricsSnapshot) {
	if len(m.Counters) == 0 && len(m.Timings) == 0 {
		return
	}
	fmt.Fprintln(w, "\nMetrics:")
	for _, name := range m.CounterNames() {
		fmt.Fprintf(w, "  %-20s %d\n", name, m.Counters[name])
	}
	for _, name := range m.TimingNames() {
		t := m.Timings[name]
		fmt.Fprintf(w, "  %-20s count=%d avg=%s min=%s max=%s\n",
			name, t.Count, t.Average.Round(time.Millisecond), t.Min.Round(time.Millisecond), t.Max.Round(time.Millisecond))
	}
}

func joinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprint(id)
	}
	return strings.Join(parts, ", ")
}
