package rehab

import (
	"time"
)

const streakHorizonDays = 365

// CalcStreak counts consecutive active days (a saved session or a logged
// rest day) walking back from now. Today may still be empty without
// breaking the streak; the first gap after that ends it.
func CalcStreak(history SessionHistory, log PainLog, now time.Time) int {
	active := make(map[string]struct{})
	for _, s := range history {
		if s.Date != "" {
			active[s.Date] = struct{}{}
		}
	}
	for _, e := range log {
		if e.RestDay && e.Date != "" {
			active[e.Date] = struct{}{}
		}
	}
	if len(active) == 0 {
		return 0
	}

	streak := 0
	for i := 0; i < streakHorizonDays; i++ {
		day := DayLabel(now.AddDate(0, 0, -i))
		if _, ok := active[day]; ok {
			streak++
			continue
		}
		if i == 0 {
			continue
		}
		break
	}
	return streak
}
