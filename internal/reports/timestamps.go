package reports

import "time"

// DayWindow returns the [start, end) bounds of the calendar day containing
// now, in now's location, converted to UTC for comparison with stored
// timestamps.
func DayWindow(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return start.UTC(), start.AddDate(0, 0, 1).UTC()
}
