package rehab

import (
	"math"
	"time"
)

const (
	consistencyDays  = 30
	trainingDaysSpan = 14
)

// PainTrend compares the last seven check-ins with the seven before them.
// Averages are rounded to one decimal.
type PainTrend struct {
	Avg     float64
	HasAvg  bool
	PrevAvg float64
	HasPrev bool
	Delta   float64
}

func WeeklyPainTrend(log PainLog) PainTrend {
	var trend PainTrend

	last7 := log.Last(7)
	if len(last7) > 0 {
		trend.Avg = RoundOne(mean(last7.Values()))
		trend.HasAvg = true
	}

	if len(log) > 7 {
		prev := log[max(0, len(log)-14) : len(log)-7]
		trend.PrevAvg = RoundOne(mean(prev.Values()))
		trend.HasPrev = true
		trend.Delta = RoundOne(trend.Avg - trend.PrevAvg)
	}
	return trend
}

// Consistency is the percentage of the last 30 days (today included) with
// a saved session or any check-in.
func Consistency(history SessionHistory, log PainLog, now time.Time) int {
	active := make(map[string]struct{}, len(history)+len(log))
	for _, s := range history {
		active[s.Date] = struct{}{}
	}
	for _, e := range log {
		active[e.Date] = struct{}{}
	}

	activeDays := 0
	for i := 0; i < consistencyDays; i++ {
		if _, ok := active[DayLabel(now.AddDate(0, 0, -i))]; ok {
			activeDays++
		}
	}
	return int(math.Round(float64(activeDays) / consistencyDays * 100))
}

// TrainingDayPain splits check-in pain by whether the day was one of the
// last 14 training days. Rest-day entries are left out of the second group.
type TrainingDayPain struct {
	TrainingAvg float64
	HasTraining bool
	OtherAvg    float64
	HasOther    bool
}

func PainByTrainingDay(history SessionHistory, log PainLog) TrainingDayPain {
	trainDays := make(map[string]struct{})
	for _, s := range history.Recent(trainingDaysSpan) {
		trainDays[s.Date] = struct{}{}
	}

	var training, other []float64
	for _, e := range log {
		if _, ok := trainDays[e.Date]; ok {
			training = append(training, e.Value)
			continue
		}
		if !e.RestDay {
			other = append(other, e.Value)
		}
	}

	var res TrainingDayPain
	if len(training) > 0 {
		res.TrainingAvg = RoundOne(mean(training))
		res.HasTraining = true
	}
	if len(other) > 0 {
		res.OtherAvg = RoundOne(mean(other))
		res.HasOther = true
	}
	return res
}

// IntensityHistory lists the intensity of up to n most recent sessions.
func IntensityHistory(history SessionHistory, n int) []int {
	recent := history.Recent(n)
	out := make([]int, len(recent))
	for i, s := range recent {
		out[i] = s.Intensity
	}
	return out
}

type CalendarDay struct {
	Day     int
	Session bool
	RestDay bool
	Today   bool
}

// MonthCalendar marks the days of now's month. FirstWeekday positions day 1
// in a Sunday-first grid.
type MonthCalendar struct {
	Year         int
	Month        time.Month
	FirstWeekday time.Weekday
	Days         []CalendarDay
}

func Calendar(history SessionHistory, log PainLog, now time.Time) MonthCalendar {
	year, month, today := now.Date()
	first := time.Date(year, month, 1, 0, 0, 0, 0, now.Location())
	daysInMonth := first.AddDate(0, 1, -1).Day()

	restDays := make(map[string]struct{})
	for _, e := range log {
		if e.RestDay {
			restDays[e.Date] = struct{}{}
		}
	}

	cal := MonthCalendar{
		Year:         year,
		Month:        month,
		FirstWeekday: first.Weekday(),
		Days:         make([]CalendarDay, daysInMonth),
	}
	for d := 1; d <= daysInMonth; d++ {
		label := DayLabel(first.AddDate(0, 0, d-1))
		_, rest := restDays[label]
		cal.Days[d-1] = CalendarDay{
			Day:     d,
			Session: history.TrainedOn(label),
			RestDay: rest,
			Today:   d == today,
		}
	}
	return cal
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
