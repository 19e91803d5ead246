package main

import (
	"context"
	"time"

	"github.com/2beens/kneerehab/internal/rehab"
	"github.com/2beens/kneerehab/internal/tracker"

	"github.com/brianvoe/gofakeit/v6"
)

type seedParams struct {
	Days  int
	Stage rehab.Stage
	Now   time.Time
	Faker *gofakeit.Faker
}

type seedResult struct {
	CheckIns int
	RestDays int
	Sessions int
}

// seedHistory fills the tracker with Days of plausible history ending
// yesterday: pain drifting down, a session about every other day.
// Today is left untouched.
func seedHistory(ctx context.Context, t *tracker.Tracker, p seedParams) (seedResult, error) {
	var res seedResult
	start := p.Now.AddDate(0, 0, -p.Days)
	if err := t.SetStage(ctx, p.Stage, start); err != nil {
		return res, err
	}

	exercises := len(rehab.ExercisesFor(p.Stage))
	settings := t.Settings(ctx)

	for i := 0; i < p.Days; i++ {
		day := start.AddDate(0, 0, i)
		progress := float64(i) / float64(max(1, p.Days))
		pain := 5 - 3*progress + p.Faker.Float64Range(-1, 1)
		training := i%2 == 0 && p.Faker.Float32() < 0.85

		switch {
		case training || p.Faker.Float32() < 0.8:
			t.CheckIn(ctx, pain, day)
			res.CheckIns++
		default:
			t.LogRestDay(ctx, pain, day)
			res.RestDays++
		}

		if !training {
			continue
		}
		rec := rehab.SessionRecord{
			Date:      rehab.DayLabel(day),
			Exercises: exercises,
			TotalSets: exercises * settings.TotalSets,
			Intensity: p.Faker.Number(60, 80),
			Duration:  p.Faker.Number(25, 50),
		}
		if p.Faker.Bool() {
			rec.Notes = p.Faker.Sentence(5)
		}
		t.CompleteWorkout(ctx, rec)
		res.Sessions++
	}
	return res, nil
}
