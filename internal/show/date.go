package show

import (
	"fmt"
	"strings"
	"time"
)

// FestivalMonth is the only month first-show dates are ever parsed into.
const FestivalMonth = time.August

// TimeOfDayLayout is the storage format of ShowTime.PerformanceTime.
const TimeOfDayLayout = "15:04:05"

// MinDate is the sentinel first-show date for pages whose date line cannot be parsed.
var MinDate = time.Time{}

// FestivalDate builds a first-show date in FestivalMonth. Returns MinDate when the day
// does not exist in that month.
func FestivalDate(year, day int) time.Time {
	if year <= 0 || day < 1 {
		return MinDate
	}
	d := time.Date(year, FestivalMonth, day, 0, 0, 0, 0, time.UTC)
	if d.Month() != FestivalMonth {
		return MinDate
	}
	return d
}

var dateTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"1/2/2006 3:04:05 PM",
	"1/2/2006 3:04 PM",
}

// ParseDateTime parses a performance timestamp from the schedule feed.
// Supports formats: "2025-08-14T19:30:00", "2025-08-14 19:30", RFC3339, "8/14/2025 7:30 PM"
func ParseDateTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date-time %q", s)
}

var timeOfDayLayouts = []string{
	"15:04:05",
	"15:04",
	"3:04 PM",
	"3:04PM",
	"3:04:05 PM",
	"3PM",
	"3 PM",
}

// ParseTimeOfDay parses a performance time such as "7:30 PM" or "19:30" and returns it
// normalised to TimeOfDayLayout.
func ParseTimeOfDay(s string) (string, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for _, layout := range timeOfDayLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(TimeOfDayLayout), nil
		}
	}
	return "", fmt.Errorf("unrecognised time of day %q", s)
}
