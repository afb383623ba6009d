package calendar

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/pfrederiksen/fringe-events/internal/show"
)

func testData() ([]*show.Show, []*show.ShowTime) {
	s := show.NewShow(1234)
	s.Title = "Hamlet, the Ice Queen"
	s.Tag = "Comedy"
	s.LengthInMinutes = 75
	s.ContentRating = &show.ContentRating{Name: "Parental Guidance", Code: "PG"}
	s.Venue = show.NewVenue(7, "The Westbury Theatre", "10330 84 Ave NW", "T6E2G9", "7804481752")

	times := []*show.ShowTime{
		{ShowID: 1234, DateTime: time.Date(2025, time.August, 14, 19, 30, 0, 0, time.UTC), PresentationFormat: "In-Person"},
		{ShowID: 999, DateTime: time.Date(2025, time.August, 15, 12, 0, 0, 0, time.UTC)},
	}
	return []*show.Show{s}, times
}

func detailURL(id int) string {
	return fmt.Sprintf("https://tickets.fringetheatre.ca/event/601:%d", id)
}

func TestGenerateICS(t *testing.T) {
	shows, times := testData()

	ics := GenerateICS(shows, times, detailURL)

	requiredFields := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//Fringe Events//fringe-scraper//EN",
		"BEGIN:VEVENT",
		"UID:1234-20250814T1930@fringetheatre.ca",
		"DTSTAMP:",
		"DTSTART;TZID=America/Edmonton:20250814T193000",
		"DTEND;TZID=America/Edmonton:20250814T204500",
		"SUMMARY:Hamlet\\, the Ice Queen", // Comma is escaped
		"DESCRIPTION:Comedy\\nIn-Person\\nRated Parental Guidance",
		"LOCATION:The Westbury Theatre\\, 10330 84 Ave NW",
		"URL:https://tickets.fringetheatre.ca/event/601:1234",
		"STATUS:CONFIRMED",
		"END:VEVENT",
		"END:VCALENDAR",
	}

	for _, field := range requiredFields {
		if !strings.Contains(ics, field) {
			t.Errorf("ICS missing required field: %s", field)
		}
	}

	if n := strings.Count(ics, "BEGIN:VEVENT"); n != 1 {
		t.Errorf("got %d events, want 1 (performances of unknown shows are skipped)", n)
	}

	// Check that lines end with \r\n
	for _, line := range strings.Split(strings.TrimSuffix(ics, "\r\n"), "\r\n") {
		if strings.Contains(line, "\n") {
			t.Errorf("line contains bare newline: %q", line)
		}
	}
}

func TestGenerateICS_DefaultsAndPlaceholders(t *testing.T) {
	s := show.NewShow(5)
	s.Title = "Untimed"
	s.Venue = show.NewVenue(show.UnknownVenueNumber, show.UnknownVenueName, "", "", "")
	times := []*show.ShowTime{{ShowID: 5, DateTime: time.Date(2025, time.August, 20, 21, 0, 0, 0, time.UTC)}}

	ics := GenerateICS([]*show.Show{s}, times, nil)

	if !strings.Contains(ics, "DTEND;TZID=America/Edmonton:20250820T220000") {
		t.Error("shows without a running time should default to one hour")
	}
	if strings.Contains(ics, "LOCATION:") {
		t.Error("placeholder venue should not produce a location")
	}
	if strings.Contains(ics, "URL:") {
		t.Error("no URL expected without a detail URL builder")
	}
}

func TestWriteICS(t *testing.T) {
	shows, times := testData()
	var buf bytes.Buffer
	if err := WriteICS(&buf, shows, times, detailURL); err != nil {
		t.Fatalf("WriteICS() error = %v", err)
	}
	if !strings.HasPrefix(buf.String(), "BEGIN:VCALENDAR\r\n") {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestEscapeICS(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Simple text", "Simple text"},
		{"Text, with comma", "Text\\, with comma"},
		{"Text; with semicolon", "Text\\; with semicolon"},
		{"Line1\nLine2", "Line1\\nLine2"},
		{"Back\\slash", "Back\\\\slash"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := escapeICS(tt.input); got != tt.want {
				t.Errorf("escapeICS(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
