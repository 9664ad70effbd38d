package schema

import (
	"fmt"
	"time"
)

// Off-hours boundaries shared by every generator and the noise injector.
// Night hours run from NightStartHour through NightEndHour (exclusive),
// wrapping midnight.
const (
	NightStartHour = 22
	NightEndHour   = 6
	EarlyEntryHour = 6
	LateExitHour   = 22
)

// IsWeekend reports whether the date falls in the configured weekend window
// (Friday through Saturday).
func IsWeekend(date time.Time) bool {
	wd := date.Weekday()
	return wd == time.Friday || wd == time.Saturday
}

// IsNightHour reports whether the clock hour falls inside the night window.
func IsNightHour(hour int) bool {
	return hour >= NightStartHour || hour < NightEndHour
}

// FormatClock renders minutes-from-midnight as "HH:MM". Minutes outside a
// single day are wrapped.
func FormatClock(minutes int) string {
	minutes %= 24 * 60
	if minutes < 0 {
		minutes += 24 * 60
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ParseClock parses an "HH:MM" clock string into minutes from midnight.
func ParseClock(clock string) (int, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %w", clock, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}
