package rehab

import (
	"math"
	"time"
)

type Stage string

const (
	StageA Stage = "A"
	StageB Stage = "B"
	StageC Stage = "C"
	StageM Stage = "M"
)

// Stages in protocol order.
var Stages = []Stage{StageA, StageB, StageC, StageM}

// StageCriteria gate automatic advancement. An empty Next marks the terminal stage.
type StageCriteria struct {
	MinWeeks   int
	MaxAvgPain float64
	Next       Stage
}

var stageCriteria = map[Stage]StageCriteria{
	StageA: {MinWeeks: 4, MaxAvgPain: 3, Next: StageB},
	StageB: {MinWeeks: 4, MaxAvgPain: 3, Next: StageC},
	StageC: {MinWeeks: 4, MaxAvgPain: 3, Next: StageM},
	StageM: {MinWeeks: 999, MaxAvgPain: 10},
}

const week = 7 * 24 * time.Hour

// ParseStage maps a stored value to a Stage; anything unknown is Stage A.
func ParseStage(s string) Stage {
	st := Stage(s)
	if st.Valid() {
		return st
	}
	return StageA
}

func (s Stage) Valid() bool {
	_, ok := stageCriteria[s]
	return ok
}

func (s Stage) Criteria() StageCriteria {
	if c, ok := stageCriteria[s]; ok {
		return c
	}
	return stageCriteria[StageA]
}

// Index is the position of the stage in the protocol, -1 if unknown.
func (s Stage) Index() int {
	for i, st := range Stages {
		if st == s {
			return i
		}
	}
	return -1
}

// Phase is the 1-based phase number shown to the user.
func (s Stage) Phase() int {
	return s.Index() + 1
}

func (s Stage) Title() string {
	if s == StageM {
		return "Maintenance"
	}
	return "Stage " + string(s)
}

// WeeksInStage is the 1-based week count since stageStart. It never drops
// below 1, also for a stage start in the future.
func WeeksInStage(stageStart, now time.Time) int {
	weeks := int(math.Floor(float64(now.Sub(stageStart))/float64(week))) + 1
	if weeks < 1 {
		return 1
	}
	return weeks
}

// ReadyToAdvance reports whether the stage has a successor and both the
// time-in-stage and the average pain criteria are met.
func ReadyToAdvance(stage Stage, weeksInStage int, avgPain float64) bool {
	c := stage.Criteria()
	return c.Next != "" && weeksInStage >= c.MinWeeks && avgPain <= c.MaxAvgPain
}

// StageProgress is the percentage shown on the active protocol card,
// assuming a six week phase.
func StageProgress(weeksInStage int) int {
	pct := int(math.Round(float64(weeksInStage) / 6 * 100))
	return min(100, pct)
}
