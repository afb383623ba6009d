package filter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const monthNames = `jan|january|feb|february|mar|march|apr|april|may|jun|june|jul|july|aug|august|sep|september|oct|october|nov|november|dec|december`

var (
	// "Aug 14-18"
	sameMonthRange = regexp.MustCompile(`(?i)^(` + monthNames + `)\s+(\d{1,2})\s*-\s*(\d{1,2})$`)
	// "Aug 30 - Sep 2"
	crossMonthRange = regexp.MustCompile(`(?i)^(` + monthNames + `)\s+(\d{1,2})\s*-\s*(` + monthNames + `)\s+(\d{1,2})$`)
	// "Aug 14"
	singleDay = regexp.MustCompile(`(?i)^(` + monthNames + `)\s+(\d{1,2})$`)
	// "August"
	wholeMonth = regexp.MustCompile(`(?i)^(` + monthNames + `)$`)
)

// ParseDateRange parses a date range string into start and end times in year.
//
// Supported formats:
//   - "Aug 14-18" or "August 14-18" - Same month, different days
//   - "Aug 30 - Sep 2" - Different months
//   - "Aug 14" - A single day
//   - "August" - Entire month
//
// Start time is at 00:00:00 UTC, end time is at 23:59:59 UTC.
func ParseDateRange(input string, year int) (*time.Time, *time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, nil, fmt.Errorf("date range cannot be empty")
	}

	if m := sameMonthRange.FindStringSubmatch(input); m != nil {
		month := parseMonth(m[1])
		day1, err := parseDay(m[2])
		if err != nil {
			return nil, nil, err
		}
		day2, err := parseDay(m[3])
		if err != nil {
			return nil, nil, err
		}
		return dayRange(year, month, day1, year, month, day2)
	}

	if m := crossMonthRange.FindStringSubmatch(input); m != nil {
		month1, month2 := parseMonth(m[1]), parseMonth(m[3])
		day1, err := parseDay(m[2])
		if err != nil {
			return nil, nil, err
		}
		day2, err := parseDay(m[4])
		if err != nil {
			return nil, nil, err
		}
		year2 := year
		if month2 < month1 {
			year2++
		}
		return dayRange(year, month1, day1, year2, month2, day2)
	}

	if m := singleDay.FindStringSubmatch(input); m != nil {
		month := parseMonth(m[1])
		day, err := parseDay(m[2])
		if err != nil {
			return nil, nil, err
		}
		return dayRange(year, month, day, year, month, day)
	}

	if m := wholeMonth.FindStringSubmatch(input); m != nil {
		month := parseMonth(m[1])
		from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
		// Last day of month
		to := time.Date(year, month+1, 0, 23, 59, 59, 0, time.UTC)
		return &from, &to, nil
	}

	return nil, nil, fmt.Errorf("invalid date range format. Use 'Aug 14-18', 'Aug 30 - Sep 2', 'Aug 14' or 'August'")
}

func dayRange(year1 int, month1 time.Month, day1 int, year2 int, month2 time.Month, day2 int) (*time.Time, *time.Time, error) {
	from := time.Date(year1, month1, day1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year2, month2, day2, 23, 59, 59, 0, time.UTC)
	if from.Month() != month1 || to.Month() != month2 {
		return nil, nil, fmt.Errorf("day out of range for month")
	}
	if from.After(to) {
		return nil, nil, fmt.Errorf("start date must be before end date")
	}
	return &from, &to, nil
}

func parseDay(s string) (int, error) {
	day, err := strconv.Atoi(s)
	if err != nil || day < 1 || day > 31 {
		return 0, fmt.Errorf("invalid day: %s", s)
	}
	return day, nil
}

// parseMonth converts a month name to time.Month
func parseMonth(name string) time.Month {
	name = strings.ToLower(strings.TrimSpace(name))

	months := map[string]time.Month{
		"jan": time.January, "january": time.January,
		"feb": time.February, "february": time.February,
		"mar": time.March, "march": time.March,
		"apr": time.April, "april": time.April,
		"may": time.May,
		"jun": time.June, "june": time.June,
		"jul": time.July, "july": time.July,
		"aug": time.August, "august": time.August,
		"sep": time.September, "september": time.September,
		"oct": time.October, "october": time.October,
		"nov": time.November, "november": time.November,
		"dec": time.December, "december": time.December,
	}

	return months[name]
}
