package show

import (
	"testing"
	"time"
)

func TestNewShow(t *testing.T) {
	s := NewShow(1234)

	if s.ID != 1234 {
		t.Errorf("expected ID 1234, got %d", s.ID)
	}
	if s.CreatedAt.IsZero() || s.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
	if s.VenueNumber() != UnknownVenueNumber {
		t.Errorf("VenueNumber() without venue = %d, want %d", s.VenueNumber(), UnknownVenueNumber)
	}
	if s.RatingCode() != "" {
		t.Errorf("RatingCode() without rating = %q, want empty", s.RatingCode())
	}
}

func TestShowString(t *testing.T) {
	s := NewShow(42)
	s.Title = "Hamlet on Ice"

	if got := s.String(); got != "42: Hamlet on Ice" {
		t.Errorf("String() = %q", got)
	}
}

func TestUnrated(t *testing.T) {
	r := Unrated()
	if r.Name != "Unrated" || r.Code != "UR" {
		t.Errorf("Unrated() = %+v", r)
	}
}

func TestSnapshot_OrphanShowTimes(t *testing.T) {
	snap := &Snapshot{
		Shows: []*Show{NewShow(1), NewShow(2)},
		ShowTimes: []*ShowTime{
			{ShowID: 1},
			{ShowID: 3},
			{ShowID: 2},
			{ShowID: 3},
		},
	}

	kept, orphans := snap.OrphanShowTimes()

	if len(kept) != 2 {
		t.Errorf("kept %d show times, want 2", len(kept))
	}
	if len(orphans) != 2 {
		t.Errorf("got %d orphans, want 2", len(orphans))
	}
	for _, o := range orphans {
		if o.ShowID != 3 {
			t.Errorf("unexpected orphan for show %d", o.ShowID)
		}
	}
}

func TestSortShowTimes(t *testing.T) {
	base := time.Date(2025, time.August, 14, 19, 0, 0, 0, time.UTC)
	times := []*ShowTime{
		{ShowID: 2, DateTime: base},
		{ShowID: 1, DateTime: base.Add(time.Hour)},
		{ShowID: 1, DateTime: base},
	}

	SortShowTimes(times)

	if times[0].ShowID != 1 || !times[0].DateTime.Equal(base) {
		t.Errorf("times[0] = %+v", times[0])
	}
	if times[1].ShowID != 1 || !times[1].DateTime.Equal(base.Add(time.Hour)) {
		t.Errorf("times[1] = %+v", times[1])
	}
	if times[2].ShowID != 2 {
		t.Errorf("times[2] = %+v", times[2])
	}
}
