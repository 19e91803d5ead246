package rehab

type SessionRecord struct {
	ID        int    `json:"id"`
	Date      string `json:"date"`
	Exercises int    `json:"exercises"`
	TotalSets int    `json:"totalSets"`
	Intensity int    `json:"intensity"`
	Duration  int    `json:"duration"`
	Notes     string `json:"notes"`
}

// SessionHistory is the append-only list of saved workouts, oldest first.
type SessionHistory []SessionRecord

// ClampIntensity keeps an intensity percentage within [0,100].
func ClampIntensity(intensity int) int {
	return max(0, min(100, intensity))
}

// Append returns a new history with rec added. The record gets the next
// sequential id and a clamped intensity.
func (h SessionHistory) Append(rec SessionRecord) (SessionHistory, SessionRecord) {
	rec.ID = len(h) + 1
	rec.Intensity = ClampIntensity(rec.Intensity)

	next := make(SessionHistory, 0, len(h)+1)
	next = append(next, h...)
	return append(next, rec), rec
}

func (h SessionHistory) Last() (SessionRecord, bool) {
	if len(h) == 0 {
		return SessionRecord{}, false
	}
	return h[len(h)-1], true
}

// Recent returns up to n most recent sessions.
func (h SessionHistory) Recent(n int) SessionHistory {
	if n <= 0 {
		return SessionHistory{}
	}
	if n >= len(h) {
		return h
	}
	return h[len(h)-n:]
}

func (h SessionHistory) TrainedOn(day string) bool {
	for _, s := range h {
		if s.Date == day {
			return true
		}
	}
	return false
}
