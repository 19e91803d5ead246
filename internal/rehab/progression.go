package rehab

import (
	"math"
	"time"
)

const (
	// DefaultPainWindow is the number of check-ins averaged for stage gating.
	DefaultPainWindow = 7

	overloadSessions   = 4
	overloadPainWindow = 4
	overloadMaxPain    = 3.0
	spikeWindow        = 3

	// NoPriorSession is reported by DaysSinceLastSession when there is
	// no usable last session.
	NoPriorSession = 99

	minAdjustedIntensity = 40
)

// AveragePain is the mean of the last window values, 0 for an empty log.
// An empty log therefore reads as pain-free.
func AveragePain(log PainLog, window int) float64 {
	return mean(log.Last(window).Values())
}

// RoundOne rounds to one decimal, the precision pain averages are shown
// and compared at.
func RoundOne(v float64) float64 {
	return math.Round(v*10) / 10
}

// PainSpike reports a monotonic rise over exactly the last three check-ins:
// non-decreasing, with the last value strictly above the first.
func PainSpike(log PainLog) bool {
	if len(log) < spikeWindow {
		return false
	}
	values := log.Last(spikeWindow).Values()
	for i := 1; i < len(values); i++ {
		if values[i] < values[i-1] {
			return false
		}
	}
	return values[len(values)-1] > values[0]
}

// PainIncrease is the rise across a detected spike, 0 otherwise.
func PainIncrease(log PainLog) float64 {
	if !PainSpike(log) {
		return 0
	}
	values := log.Last(spikeWindow).Values()
	return values[len(values)-1] - values[0]
}

// OverloadReady signals "consider increasing load": the last four sessions
// share one intensity, recent pain is low and there is no spike.
func OverloadReady(history SessionHistory, log PainLog) bool {
	if len(history) < overloadSessions {
		return false
	}
	recent := history.Recent(overloadSessions)
	for _, s := range recent {
		if s.Intensity != recent[0].Intensity {
			return false
		}
	}
	return AveragePain(log, overloadPainWindow) <= overloadMaxPain && !PainSpike(log)
}

// NeedsRest reports whether the most recent session was recorded today.
// Sessions are limited to one per calendar day.
func NeedsRest(history SessionHistory, now time.Time) bool {
	last, ok := history.Last()
	if !ok {
		return false
	}
	return last.Date == DayLabel(now)
}

// DaysSinceLastSession counts whole days since the last session's day.
// A missing or unparsable date reads as NoPriorSession.
func DaysSinceLastSession(history SessionHistory, now time.Time) int {
	last, ok := history.Last()
	if !ok {
		return NoPriorSession
	}
	day, err := ParseDayLabel(last.Date, now.Location())
	if err != nil {
		return NoPriorSession
	}
	return int(math.Floor(now.Sub(day).Hours() / 24))
}

// AdjustIntensity backs the load off by 15% after a pain spike, never
// below 40% MVC.
func AdjustIntensity(intensity int) int {
	return max(minAdjustedIntensity, int(math.Round(float64(intensity)*0.85)))
}
