package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/pfrederiksen/fringe-events/internal/logger"
	"github.com/pfrederiksen/fringe-events/internal/show"
	"github.com/pfrederiksen/fringe-events/internal/storage"
)

func sampleSummary() *RunSummary {
	start := time.Date(2025, time.August, 1, 12, 0, 0, 0, time.UTC)
	return &RunSummary{
		RunID:           "run-1",
		StartedAt:       start,
		FinishedAt:      start.Add(90 * time.Second),
		ShowIDs:         3,
		Shows:           2,
		FailedShows:     []int{30},
		Venues:          1,
		ContentRatings:  1,
		ShowTimes:       4,
		FailedShowTimes: []int{30},
		Persisted:       &storage.ReplaceStats{Shows: 2, ShowTimes: 4, Venues: 1, ContentRatings: 1, Orphans: 1},
		Metrics: logger.MetricsSnapshot{
			Counters: map[string]int64{"detail.ok": 2, "detail.failed": 1},
			Timings:  map[string]logger.TimingStats{"detail.fetch": {Count: 3, Average: time.Second}},
		},
	}
}

func TestWriteOutput_Text(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteOutput(&buf, sampleSummary(), FormatText, false); err != nil {
		t.Fatalf("WriteOutput() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Run run-1 finished in 1m30s",
		"Shows:           2 scraped, 1 failed",
		"Showtimes:       4 scraped, 1 failed",
		"Failed shows:     30",
		"Saved 2 shows, 4 showtimes, 1 venues, 1 content ratings (1 orphan showtimes dropped)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Metrics:") {
		t.Error("metrics should only print in verbose mode")
	}
}

func TestWriteOutput_TextVerbose(t *testing.T) {
	var buf bytes.Buffer
	s := sampleSummary()
	s.DryRun = true
	s.Persisted = nil
	if err := WriteOutput(&buf, s, FormatText, true); err != nil {
		t.Fatalf("WriteOutput() error = %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "(dry run)") {
		t.Errorf("dry run not marked:\n%s", out)
	}
	if strings.Contains(out, "Saved") {
		t.Errorf("dry run should not report saved rows:\n%s", out)
	}
	if !strings.Contains(out, "detail.failed") || !strings.Contains(out, "count=3") {
		t.Errorf("metrics missing:\n%s", out)
	}
}

func TestWriteOutput_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteOutput(&buf, sampleSummary(), FormatJSON, false); err != nil {
		t.Fatalf("WriteOutput() error = %v", err)
	}

	var decoded RunSummary
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.RunID != "run-1" || decoded.Shows != 2 || decoded.Persisted.Orphans != 1 {
		t.Errorf("decoded = %+v", decoded)
	}
	if decoded.Metrics.Counters["detail.ok"] != 2 {
		t.Errorf("metrics not encoded: %+v", decoded.Metrics)
	}
}

func TestWriteOutput_UnknownFormat(t *testing.T) {
	if err := WriteOutput(&bytes.Buffer{}, sampleSummary(), OutputFormat("xml"), false); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestWriteShowList(t *testing.T) {
	shows := []*show.Show{
		testShow(1, "Zed's Dead", 20, 12),
		testShow(2, "Apples", 0, show.UnknownVenueNumber),
	}
	shows[1].Venue.Name = show.UnknownVenueName

	var buf bytes.Buffer
	if err := WriteShowList(&buf, shows, SortByTitle, FormatText); err != nil {
		t.Fatalf("WriteShowList() error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "Apples") || !strings.Contains(lines[0], "TBA") || !strings.Contains(lines[0], "Unknown") {
		t.Errorf("first line = %q", lines[0])
	}
	if !strings.Contains(lines[1], "Aug 20") || !strings.Contains(lines[1], "12 Venue") {
		t.Errorf("second line = %q", lines[1])
	}
	if lines[3] != "Total: 2 shows" {
		t.Errorf("total line = %q", lines[3])
	}
	if shows[0].ID != 1 {
		t.Error("WriteShowList must not reorder the caller's slice")
	}

	buf.Reset()
	if err := WriteShowList(&buf, shows, SortByDate, FormatJSON); err != nil {
		t.Fatalf("WriteShowList() error = %v", err)
	}
	var list struct {
		Sort  string `json:"sort"`
		Count int    `json:"count"`
		Shows []struct {
			ID int `json:"id"`
		} `json:"shows"`
	}
	if err := json.Unmarshal(buf.Bytes(), &list); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if list.Sort != "date" || list.Count != 2 || list.Shows[0].ID != 1 {
		t.Errorf("list = %+v", list)
	}
}
