package show

import (
	"testing"
	"time"
)

func TestFestivalDate(t *testing.T) {
	tests := []struct {
		name string
		year int
		day  int
		want time.Time
	}{
		{"regular day", 2025, 14, time.Date(2025, time.August, 14, 0, 0, 0, 0, time.UTC)},
		{"last day", 2025, 31, time.Date(2025, time.August, 31, 0, 0, 0, 0, time.UTC)},
		{"day past month end", 2025, 32, MinDate},
		{"day zero", 2025, 0, MinDate},
		{"no year", 0, 14, MinDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FestivalDate(tt.year, tt.day)
			if !got.Equal(tt.want) {
				t.Errorf("FestivalDate(%d, %d) = %v, want %v", tt.year, tt.day, got, tt.want)
			}
		})
	}
}

func TestParseDateTime(t *testing.T) {
	want := time.Date(2025, time.August, 14, 19, 30, 0, 0, time.UTC)

	tests := []struct {
		input   string
		wantErr bool
	}{
		{"2025-08-14T19:30:00", false},
		{"2025-08-14T19:30", false},
		{"2025-08-14 19:30:00", false},
		{"2025-08-14T19:30:00Z", false},
		{"8/14/2025 7:30 PM", false},
		{"  2025-08-14T19:30:00  ", false},
		{"tomorrow night", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDateTime(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseDateTime(%q) expected error, got %v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDateTime(%q) unexpected error: %v", tt.input, err)
			}
			if !got.Equal(want) {
				t.Errorf("ParseDateTime(%q) = %v, want %v", tt.input, got, want)
			}
		})
	}
}

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"19:30", "19:30:00", false},
		{"19:30:15", "19:30:15", false},
		{"7:30 PM", "19:30:00", false},
		{"7:30 pm", "19:30:00", false},
		{"12:00PM", "12:00:00", false},
		{"9 AM", "09:00:00", false},
		{"late", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTimeOfDay(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTimeOfDay(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseTimeOfDay(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
