// Package calendar exports scraped performances as an iCalendar feed.
package calendar

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pfrederiksen/fringe-events/internal/show"
)

// TimeZone is the festival's local zone. Feed timestamps carry no offset and are
// written as local times in this zone.
const TimeZone = "America/Edmonton"

// defaultLength is used for shows whose running time could not be parsed
const defaultLength = 60 * time.Minute

// GenerateICS generates an iCalendar document with one event per performance.
// Performances whose show is not in shows are skipped. detailURL builds the link
// attached to each event.
func GenerateICS(shows []*show.Show, times []*show.ShowTime, detailURL func(showID int) string) string {
	byID := make(map[int]*show.Show, len(shows))
	for _, s := range shows {
		byID[s.ID] = s
	}

	var ics strings.Builder

	ics.WriteString("BEGIN:VCALENDAR\r\n")
	ics.WriteString("VERSION:2.0\r\n")
	ics.WriteString("PRODID:-//Fringe Events//fringe-scraper//EN\r\n")
	ics.WriteString("CALSCALE:GREGORIAN\r\n")
	ics.WriteString("METHOD:PUBLISH\r\n")
	ics.WriteString(fmt.Sprintf("X-WR-TIMEZONE:%s\r\n", TimeZone))

	stamp := formatUTC(time.Now())
	for _, st := range times {
		s, ok := byID[st.ShowID]
		if !ok {
			continue
		}
		writeEvent(&ics, s, st, stamp, detailURL)
	}

	ics.WriteString("END:VCALENDAR\r\n")
	return ics.String()
}

// WriteICS writes GenerateICS output to w
func WriteICS(w io.Writer, shows []*show.Show, times []*show.ShowTime, detailURL func(showID int) string) error {
	_, err := io.WriteString(w, GenerateICS(shows, times, detailURL))
	return err
}

func writeEvent(ics *strings.Builder, s *show.Show, st *show.ShowTime, stamp string, detailURL func(int) string) {
	length := time.Duration(s.LengthInMinutes) * time.Minute
	if length <= 0 {
		length = defaultLength
	}
	start := st.DateTime
	end := start.Add(length)

	ics.WriteString("BEGIN:VEVENT\r\n")

	// UID - one per performance
	ics.WriteString(fmt.Sprintf("UID:%d-%s@fringetheatre.ca\r\n", s.ID, start.Format("20060102T1504")))
	ics.WriteString(fmt.Sprintf("DTSTAMP:%s\r\n", stamp))
	ics.WriteString(fmt.Sprintf("DTSTART;TZID=%s:%s\r\n", TimeZone, formatLocal(start)))
	ics.WriteString(fmt.Sprintf("DTEND;TZID=%s:%s\r\n", TimeZone, formatLocal(end)))
	ics.WriteString(fmt.Sprintf("SUMMARY:%s\r\n", escapeICS(s.Title)))

	var desc []string
	if s.Tag != "" {
		desc = append(desc, s.Tag)
	}
	if st.PresentationFormat != "" {
		desc = append(desc, st.PresentationFormat)
	}
	if s.ContentRating != nil && s.ContentRating.Name != "" {
		desc = append(desc, fmt.Sprintf("Rated %s", s.ContentRating.Name))
	}
	if s.PlainTextDescription != "" {
		desc = append(desc, "", s.PlainTextDescription)
	}
	if len(desc) > 0 {
		ics.WriteString(fmt.Sprintf("DESCRIPTION:%s\r\n", escapeICS(strings.Join(desc, "\n"))))
	}

	if v := s.Venue; v != nil && v.VenueNumber != show.UnknownVenueNumber {
		location := v.Name
		if v.Address != "" {
			location = fmt.Sprintf("%s, %s", v.Name, v.Address)
		}
		ics.WriteString(fmt.Sprintf("LOCATION:%s\r\n", escapeICS(location)))
	}

	if detailURL != nil {
		ics.WriteString(fmt.Sprintf("URL:%s\r\n", detailURL(s.ID)))
	}

	ics.WriteString("STATUS:CONFIRMED\r\n")
	ics.WriteString("SEQUENCE:0\r\n")
	ics.WriteString("TRANSP:OPAQUE\r\n")
	ics.WriteString("END:VEVENT\r\n")
}

// formatUTC formats a time.Time as an iCalendar UTC datetime string
func formatUTC(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// formatLocal formats the wall-clock fields of t without a zone suffix
func formatLocal(t time.Time) string {
	return t.Format("20060102T150405")
}

// escapeICS escapes special characters for iCalendar format
func escapeICS(s string) string {
	// Replace special characters according to RFC 5545
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
