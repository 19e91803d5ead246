package rehab

import (
	"time"
)

// DayLayout is the calendar-day label every record is keyed by, e.g. "05 Mar 2026".
const DayLayout = "02 Jan 2006"

func DayLabel(t time.Time) string {
	return t.Format(DayLayout)
}

// ParseDayLabel parses a day label as midnight in loc.
func ParseDayLabel(label string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DayLayout, label, loc)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
