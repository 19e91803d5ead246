package rehab_test

import (
	"testing"
	"time"

	"github.com/2beens/kneerehab/internal/rehab"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestReadyToAdvance(t *testing.T) {
	assert.True(t, rehab.ReadyToAdvance(rehab.StageA, 4, 3))
	assert.False(t, rehab.ReadyToAdvance(rehab.StageA, 3, 3))
	assert.False(t, rehab.ReadyToAdvance(rehab.StageA, 4, 3.1))
	assert.True(t, rehab.ReadyToAdvance(rehab.StageC, 10, 0))

	// terminal stage never advances
	assert.False(t, rehab.ReadyToAdvance(rehab.StageM, 4, 3))
	assert.False(t, rehab.ReadyToAdvance(rehab.StageM, 10000, 0))
	assert.False(t, rehab.ReadyToAdvance(rehab.StageM, 1, 10))
}

func TestReadyToAdvance_EmptyPainLogReadsAsPainFree(t *testing.T) {
	avg := rehab.AveragePain(rehab.PainLog{}, rehab.DefaultPainWindow)
	assert.Equal(t, 0.0, avg)
	assert.True(t, rehab.ReadyToAdvance(rehab.StageB, 4, avg))
}

func TestStageCriteria(t *testing.T) {
	assert.Equal(t, rehab.StageCriteria{MinWeeks: 4, MaxAvgPain: 3, Next: rehab.StageB}, rehab.StageA.Criteria())
	assert.Equal(t, rehab.StageCriteria{MinWeeks: 4, MaxAvgPain: 3, Next: rehab.StageC}, rehab.StageB.Criteria())
	assert.Equal(t, rehab.StageCriteria{MinWeeks: 4, MaxAvgPain: 3, Next: rehab.StageM}, rehab.StageC.Criteria())
	assert.Equal(t, rehab.StageCriteria{MinWeeks: 999, MaxAvgPain: 10}, rehab.StageM.Criteria())
}

func TestParseStage(t *testing.T) {
	assert.Equal(t, rehab.StageB, rehab.ParseStage("B"))
	assert.Equal(t, rehab.StageM, rehab.ParseStage("M"))
	assert.Equal(t, rehab.StageA, rehab.ParseStage(""))
	assert.Equal(t, rehab.StageA, rehab.ParseStage("Z"))
	assert.Equal(t, rehab.StageA, rehab.ParseStage("b"))

	assert.Equal(t, 1, rehab.StageA.Phase())
	assert.Equal(t, 4, rehab.StageM.Phase())
	assert.Equal(t, -1, rehab.Stage("Z").Index())
	assert.Equal(t, "Maintenance", rehab.StageM.Title())
	assert.Equal(t, "Stage C", rehab.StageC.Title())
}

func TestWeeksInStage(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, 1, rehab.WeeksInStage(now, now))
	assert.Equal(t, 1, rehab.WeeksInStage(now.Add(-6*24*time.Hour), now))
	assert.Equal(t, 2, rehab.WeeksInStage(now.Add(-7*24*time.Hour), now))
	assert.Equal(t, 4, rehab.WeeksInStage(now.Add(-27*24*time.Hour), now))
	assert.Equal(t, 5, rehab.WeeksInStage(now.Add(-28*24*time.Hour), now))

	// clamped for a start in the future
	assert.Equal(t, 1, rehab.WeeksInStage(now.Add(30*24*time.Hour), now))
}

func TestStageProgress(t *testing.T) {
	assert.Equal(t, 17, rehab.StageProgress(1))
	assert.Equal(t, 50, rehab.StageProgress(3))
	assert.Equal(t, 100, rehab.StageProgress(6))
	assert.Equal(t, 100, rehab.StageProgress(9))
}

func TestCatalogue(t *testing.T) {
	for _, st := range rehab.Stages {
		exercises := rehab.ExercisesFor(st)
		require.Len(t, exercises, 5, "stage %s", st)
		for _, ex := range exercises {
			assert.NotEmpty(t, ex.Name)
			assert.NotEmpty(t, ex.Cue)
		}
	}
	assert.Equal(t, rehab.ExercisesFor(rehab.StageA), rehab.ExercisesFor("X"))

	// callers get a copy
	list := rehab.ExercisesFor(rehab.StageA)
	list[0].Name = "changed"
	assert.Equal(t, "Wall Squats", rehab.ExercisesFor(rehab.StageA)[0].Name)

	stretches := rehab.WarmupStretches()
	require.Len(t, stretches, 4)
	for _, s := range stretches {
		assert.Equal(t, 30, s.HoldSecs)
	}
	assert.Equal(t, "Hamstring Stretch", stretches[0].Name)

	protocols := rehab.Protocols()
	require.Len(t, protocols, 4)
	for i, p := range protocols {
		assert.Equal(t, rehab.Stages[i], p.Stage)
		assert.NotEmpty(t, p.Prescriptions)
	}
}
