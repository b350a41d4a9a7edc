package score

import "time"

const dayLayout = "2006-01-02"

// DayKey formats a moment as its local calendar-day key (YYYY-MM-DD).
func DayKey(t time.Time) string {
	return t.Format(dayLayout)
}

// ParseDay parses a YYYY-MM-DD key as local midnight.
func ParseDay(s string) (time.Time, error) {
	return time.ParseInLocation(dayLayout, s, time.Local)
}

// FloorDays converts a duration to whole days, rounding toward
// negative infinity. A moment a few hours short of a full day ago is
// zero days; a few hours into the future is minus one.
func FloorDays(d time.Duration) int {
	days := d / (24 * time.Hour)
	if d%(24*time.Hour) < 0 {
		days--
	}
	return int(days)
}

// DaysBetween is the floor-day difference from one moment to another.
func DaysBetween(from, to time.Time) int {
	return FloorDays(to.Sub(from))
}
