package rehab

import (
	"math"
	"time"
)

// PainLogCap is the number of most recent check-ins kept.
const PainLogCap = 30

const (
	LabelLow      = "Low"
	LabelModerate = "Moderate"
	LabelSevere   = "Severe"
	LabelRest     = "Rest"
)

type PainEntry struct {
	Value   float64 `json:"value"`
	Label   string  `json:"label"`
	Date    string  `json:"date"`
	RestDay bool    `json:"restDay,omitempty"`
}

// PainLog is the capped check-in journal, oldest first.
type PainLog []PainEntry

func PainLabel(value float64) string {
	switch {
	case value <= 3:
		return LabelLow
	case value <= 6:
		return LabelModerate
	default:
		return LabelSevere
	}
}

// NormalizePain clamps value to [0,10] and snaps it to the 0.5 grid.
func NormalizePain(value float64) float64 {
	if math.IsNaN(value) {
		return 0
	}
	value = math.Max(0, math.Min(10, value))
	return math.Round(value*2) / 2
}

func NewCheckIn(value float64, now time.Time) PainEntry {
	value = NormalizePain(value)
	return PainEntry{
		Value: value,
		Label: PainLabel(value),
		Date:  DayLabel(now),
	}
}

func NewRestDay(value float64, now time.Time) PainEntry {
	return PainEntry{
		Value:   NormalizePain(value),
		Label:   LabelRest,
		Date:    DayLabel(now),
		RestDay: true,
	}
}

// Append returns a new log with entry added, evicting the oldest entries
// beyond PainLogCap. The receiver is never modified.
func (l PainLog) Append(entry PainEntry) PainLog {
	next := make(PainLog, 0, min(len(l)+1, PainLogCap))
	if drop := len(l) + 1 - PainLogCap; drop > 0 {
		next = append(next, l[drop:]...)
	} else {
		next = append(next, l...)
	}
	return append(next, entry)
}

// Last returns up to n most recent entries.
func (l PainLog) Last(n int) PainLog {
	if n <= 0 {
		return PainLog{}
	}
	if n >= len(l) {
		return l
	}
	return l[len(l)-n:]
}

func (l PainLog) Values() []float64 {
	values := make([]float64, len(l))
	for i, e := range l {
		values[i] = e.Value
	}
	return values
}

// CheckedInOn reports whether any entry was logged on day.
func (l PainLog) CheckedInOn(day string) bool {
	for _, e := range l {
		if e.Date == day {
			return true
		}
	}
	return false
}
