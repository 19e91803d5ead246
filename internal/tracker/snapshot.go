package tracker

import (
	"context"
	"time"

	"github.com/2beens/kneerehab/internal/rehab"
	"github.com/2beens/kneerehab/internal/telemetry/tracing"
)

const intensityHistorySize = 10

// Snapshot is everything the screens show, derived from the current
// stored state.
type Snapshot struct {
	Today string

	Stage          rehab.Stage
	NextStage      rehab.Stage
	WeeksInStage   int
	StageProgress  int
	AvgPain        float64
	ReadyToAdvance bool

	PainSpike     bool
	PainIncrease  float64
	ShowWarning   bool
	OverloadReady bool

	NeedsRest            bool
	TrainedToday         bool
	CheckedInToday       bool
	DaysSinceLastSession int
	Streak               int
	DaysSinceStart       int

	Intensity       int
	Settings        rehab.WorkoutSettings
	DarkMode        bool
	ReminderEnabled bool

	PainLog  rehab.PainLog
	Sessions rehab.SessionHistory

	PainTrend        rehab.PainTrend
	Consistency      int
	TrainingDayPain  rehab.TrainingDayPain
	IntensityHistory []int
	Calendar         rehab.MonthCalendar
}

func (t *Tracker) Snapshot(ctx context.Context, now time.Time) Snapshot {
	ctx, span := tracing.GlobalTracer.Start(ctx, "tracker.snapshot")
	defer span.End()

	painLog := t.painLog.Get(ctx)
	sessions := t.sessions.Get(ctx)
	stage := t.currentStage(ctx)
	weeks := rehab.WeeksInStage(t.stageStartTime(ctx, now), now)
	avgPain := rehab.RoundOne(rehab.AveragePain(painLog, rehab.DefaultPainWindow))
	today := rehab.DayLabel(now)

	snap := Snapshot{
		Today: today,

		Stage:          stage,
		NextStage:      stage.Criteria().Next,
		WeeksInStage:   weeks,
		StageProgress:  rehab.StageProgress(weeks),
		AvgPain:        avgPain,
		ReadyToAdvance: rehab.ReadyToAdvance(stage, weeks, avgPain),

		PainSpike:     rehab.PainSpike(painLog),
		PainIncrease:  rehab.PainIncrease(painLog),
		ShowWarning:   t.ShowPainWarning(ctx, now),
		OverloadReady: rehab.OverloadReady(sessions, painLog),

		NeedsRest:            rehab.NeedsRest(sessions, now),
		TrainedToday:         sessions.TrainedOn(today),
		CheckedInToday:       painLog.CheckedInOn(today),
		DaysSinceLastSession: rehab.DaysSinceLastSession(sessions, now),
		Streak:               rehab.CalcStreak(sessions, painLog, now),
		DaysSinceStart:       t.daysSinceStart(ctx, now),

		Intensity:       t.intensity.Get(ctx),
		Settings:        t.settings.Get(ctx),
		DarkMode:        t.darkMode.Get(ctx),
		ReminderEnabled: t.reminderEnabled.Get(ctx),

		PainLog:  painLog,
		Sessions: sessions,

		PainTrend:        rehab.WeeklyPainTrend(painLog),
		Consistency:      rehab.Consistency(sessions, painLog, now),
		TrainingDayPain:  rehab.PainByTrainingDay(sessions, painLog),
		IntensityHistory: rehab.IntensityHistory(sessions, intensityHistorySize),
		Calendar:         rehab.Calendar(sessions, painLog, now),
	}

	t.metricsManager.GaugeStreak.Set(float64(snap.Streak))
	t.metricsManager.GaugeAvgPain.Set(snap.AvgPain)
	t.metricsManager.GaugeWeeksInStage.Set(float64(snap.WeeksInStage))
	t.metricsManager.GaugeIntensity.Set(float64(snap.Intensity))

	return snap
}

// daysSinceStart counts whole days since first use, 0 when unknown.
func (t *Tracker) daysSinceStart(ctx context.Context, now time.Time) int {
	start, err := time.Parse(time.RFC3339, t.startDate.Get(ctx))
	if err != nil || now.Before(start) {
		return 0
	}
	return int(now.Sub(start).Hours() / 24)
}
