package schema

import (
	"testing"
	"time"
)

func TestIsWeekend(t *testing.T) {
	tests := []struct {
		name string
		date time.Time
		want bool
	}{
		{"sunday", time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC), false},
		{"wednesday", time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC), false},
		{"thursday", time.Date(2025, 3, 6, 0, 0, 0, 0, time.UTC), false},
		{"friday", time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC), true},
		{"saturday", time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsWeekend(tt.date); got != tt.want {
				t.Errorf("IsWeekend(%s) = %v, want %v", tt.date.Weekday(), got, tt.want)
			}
		})
	}
}

func TestIsNightHour(t *testing.T) {
	tests := []struct {
		hour int
		want bool
	}{
		{0, true},
		{5, true},
		{6, false},
		{12, false},
		{21, false},
		{22, true},
		{23, true},
	}

	for _, tt := range tests {
		if got := IsNightHour(tt.hour); got != tt.want {
			t.Errorf("IsNightHour(%d) = %v, want %v", tt.hour, got, tt.want)
		}
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{0, "00:00"},
		{390, "06:30"},
		{1439, "23:59"},
		{1440, "00:00"}, // wraps
		{-60, "23:00"},
	}

	for _, tt := range tests {
		if got := FormatClock(tt.minutes); got != tt.want {
			t.Errorf("FormatClock(%d) = %q, want %q", tt.minutes, got, tt.want)
		}
	}
}

func TestParseClock(t *testing.T) {
	got, err := ParseClock("08:45")
	if err != nil {
		t.Fatalf("ParseClock: %v", err)
	}
	if got != 8*60+45 {
		t.Errorf("ParseClock(08:45) = %d, want %d", got, 8*60+45)
	}

	if _, err := ParseClock("25:00"); err == nil {
		t.Error("expected error for invalid clock")
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	for _, minutes := range []int{0, 359, 720, 1321} {
		s := FormatClock(minutes)
		back, err := ParseClock(s)
		if err != nil {
			t.Fatalf("ParseClock(%q): %v", s, err)
		}
		if back != minutes {
			t.Errorf("round trip %d -> %q -> %d", minutes, s, back)
		}
	}
}
