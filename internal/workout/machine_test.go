package workout_test

import (
	"testing"
	"time"

	"github.com/2beens/kneerehab/internal/cue"
	"github.com/2beens/kneerehab/internal/rehab"
	"github.com/2beens/kneerehab/internal/workout"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) time.Time {
	c.now = c.now.Add(d)
	return c.now
}

func newMachine(t *testing.T, settings rehab.WorkoutSettings, player cue.Player) (*workout.Machine, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)}
	m := workout.New(workout.Params{
		Stage:     rehab.StageA,
		Settings:  settings,
		Intensity: 70,
		Player:    player,
		Clock:     clock.Now,
	})
	require.Equal(t, workout.PhaseWarmup, m.Phase())
	return m, clock
}

func ticks(m *workout.Machine, n int) {
	for i := 0; i < n; i++ {
		m.Tick()
	}
}

func TestMachine_HoldRestIdleCycle(t *testing.T) {
	ctrl := gomock.NewController(t)
	player := NewMockPlayer(ctrl)
	m, _ := newMachine(t, rehab.WorkoutSettings{HoldSecs: 3, RestSecs: 5, TotalSets: 4}, player)
	require.NoError(t, m.SkipWarmup())

	require.NoError(t, m.Start())
	assert.Equal(t, workout.PhaseHold, m.Phase())
	assert.Equal(t, 3, m.Remaining())
	assert.True(t, m.Running())

	ticks(m, 2)
	assert.Equal(t, workout.PhaseHold, m.Phase())
	assert.Equal(t, 1, m.Remaining())

	player.EXPECT().Play(cue.HoldComplete).Times(1)
	m.Tick()
	assert.Equal(t, workout.PhaseRest, m.Phase())
	assert.Equal(t, 1, m.CompletedSets())
	assert.Equal(t, 5, m.Remaining())
	assert.True(t, m.Running(), "rest resumes on its own")

	ticks(m, 4)
	assert.Equal(t, workout.PhaseRest, m.Phase())

	player.EXPECT().Play(cue.RestComplete).Times(1)
	m.Tick()
	assert.Equal(t, workout.PhaseIdle, m.Phase())
	assert.Equal(t, 3, m.Remaining())
	assert.False(t, m.Running(), "each set needs an explicit start")
	assert.Equal(t, 1, m.CompletedSets())

	// idle does not count down
	ticks(m, 10)
	assert.Equal(t, 3, m.Remaining())
}

func TestMachine_LastSetSkipsRest(t *testing.T) {
	ctrl := gomock.NewController(t)
	player := NewMockPlayer(ctrl)
	m, _ := newMachine(t, rehab.WorkoutSettings{HoldSecs: 2, RestSecs: 600, TotalSets: 2}, player)
	require.NoError(t, m.SkipWarmup())

	gomock.InOrder(
		player.EXPECT().Play(cue.HoldComplete),
		player.EXPECT().Play(cue.RestComplete),
		player.EXPECT().Play(cue.HoldComplete),
	)

	require.NoError(t, m.Start())
	ticks(m, 2)
	require.Equal(t, workout.PhaseRest, m.Phase())
	ticks(m, 600)
	require.Equal(t, workout.PhaseIdle, m.Phase())

	require.NoError(t, m.Start())
	ticks(m, 2)
	assert.Equal(t, workout.PhaseExerciseDone, m.Phase())
	assert.Equal(t, 2, m.CompletedSets())
	assert.Equal(t, 0, m.Remaining())
	assert.False(t, m.Running())
}

func TestMachine_FullSessionAndSave(t *testing.T) {
	settings := rehab.WorkoutSettings{HoldSecs: 1, RestSecs: 1, TotalSets: 2}
	m, clock := newMachine(t, settings, cue.Nop{})
	require.NoError(t, m.SkipWarmup())

	exercises := len(m.Exercises())
	require.Equal(t, 5, exercises)

	for ex := 0; ex < exercises; ex++ {
		assert.Equal(t, ex, m.ExerciseIndex())
		for set := 0; set < settings.TotalSets; set++ {
			require.NoError(t, m.Start())
			m.Tick()
			if m.Phase() == workout.PhaseRest {
				m.Tick()
			}
		}
		require.Equal(t, workout.PhaseExerciseDone, m.Phase())
		assert.Equal(t, ex == exercises-1, m.IsLastExercise())
		require.NoError(t, m.NextExercise())
		if ex < exercises-1 {
			assert.Equal(t, workout.PhaseIdle, m.Phase())
			assert.Equal(t, 0, m.CompletedSets())
			assert.Equal(t, settings.HoldSecs, m.Remaining())
		}
	}
	require.Equal(t, workout.PhaseSessionReview, m.Phase())

	require.NoError(t, m.SetNote("felt solid"))
	savedAt := clock.Advance(37*time.Minute + 40*time.Second)
	rec, err := m.Save(savedAt)
	require.NoError(t, err)

	assert.Equal(t, rehab.SessionRecord{
		Date:      "15 Mar 2026",
		Exercises: 5,
		TotalSets: 10,
		Intensity: 70,
		Duration:  38,
		Notes:     "felt solid",
	}, rec)
	assert.Equal(t, workout.PhaseSaved, m.Phase())

	stored, ok := m.Record()
	assert.True(t, ok)
	assert.Equal(t, rec, stored)

	_, err = m.Save(savedAt)
	assert.ErrorIs(t, err, workout.ErrInvalidTransition)
}

func TestMachine_Warmup(t *testing.T) {
	m, _ := newMachine(t, rehab.DefaultSettings(), cue.Nop{})

	assert.Equal(t, 0, m.WarmupIndex())
	assert.Equal(t, 30, m.Remaining())
	assert.Equal(t, 30, m.PhaseTotal())
	assert.ErrorIs(t, m.FinishWarmup(), workout.ErrInvalidTransition)

	// paused stretches do not count down
	m.Tick()
	assert.Equal(t, 30, m.Remaining())

	for i := 0; i < len(m.Stretches()); i++ {
		require.Equal(t, i, m.WarmupIndex())
		require.NoError(t, m.ToggleWarmup())
		ticks(m, 30)
		assert.False(t, m.Running())
	}
	assert.Equal(t, 3, m.WarmupIndex())
	assert.Equal(t, 0, m.Remaining())
	assert.True(t, m.WarmupComplete())
	assert.ErrorIs(t, m.ToggleWarmup(), workout.ErrInvalidTransition)

	require.NoError(t, m.FinishWarmup())
	assert.Equal(t, workout.PhaseIdle, m.Phase())
	assert.Equal(t, 45, m.Remaining())
	assert.Equal(t, 0, m.ExerciseIndex())
}

func TestMachine_WarmupAutoAdvancesPaused(t *testing.T) {
	m, _ := newMachine(t, rehab.DefaultSettings(), cue.Nop{})

	require.NoError(t, m.ToggleWarmup())
	ticks(m, 10)
	require.NoError(t, m.ToggleWarmup())
	ticks(m, 5)
	assert.Equal(t, 20, m.Remaining())

	require.NoError(t, m.ToggleWarmup())
	ticks(m, 20)
	assert.Equal(t, 1, m.WarmupIndex())
	assert.Equal(t, 30, m.Remaining())
	assert.False(t, m.Running())

	require.NoError(t, m.SkipWarmup())
	assert.Equal(t, workout.PhaseIdle, m.Phase())
	assert.ErrorIs(t, m.SkipWarmup(), workout.ErrInvalidTransition)
}

func TestMachine_PauseAndResetOnlyDuringHold(t *testing.T) {
	ctrl := gomock.NewController(t)
	player := NewMockPlayer(ctrl)
	m, _ := newMachine(t, rehab.WorkoutSettings{HoldSecs: 10, RestSecs: 3, TotalSets: 3}, player)
	require.NoError(t, m.SkipWarmup())

	assert.ErrorIs(t, m.TogglePause(), workout.ErrInvalidTransition)
	assert.ErrorIs(t, m.ResetSet(), workout.ErrInvalidTransition)
	assert.ErrorIs(t, m.NextExercise(), workout.ErrInvalidTransition)

	require.NoError(t, m.Start())
	ticks(m, 4)
	require.NoError(t, m.TogglePause())
	ticks(m, 5)
	assert.Equal(t, 6, m.Remaining())
	require.NoError(t, m.TogglePause())
	m.Tick()
	assert.Equal(t, 5, m.Remaining())

	require.NoError(t, m.ResetSet())
	assert.Equal(t, workout.PhaseIdle, m.Phase())
	assert.Equal(t, 10, m.Remaining())
	assert.Equal(t, 0, m.CompletedSets())
	assert.False(t, m.Running())

	player.EXPECT().Play(cue.HoldComplete)
	require.NoError(t, m.Start())
	ticks(m, 10)
	require.Equal(t, workout.PhaseRest, m.Phase())
	assert.ErrorIs(t, m.TogglePause(), workout.ErrInvalidTransition)
	assert.ErrorIs(t, m.ResetSet(), workout.ErrInvalidTransition)
	assert.ErrorIs(t, m.Start(), workout.ErrInvalidTransition)
	assert.Equal(t, 1, m.CompletedSets())
}

func TestMachine_EffortConfirmation(t *testing.T) {
	m, _ := newMachine(t, rehab.WorkoutSettings{HoldSecs: 1, RestSecs: 1, TotalSets: 2}, cue.Nop{})
	assert.False(t, m.NeedsEffortConfirmation(), "not during warm-up")

	require.NoError(t, m.SkipWarmup())
	assert.True(t, m.NeedsEffortConfirmation())

	require.NoError(t, m.ConfirmEffort(true))
	assert.Equal(t, workout.EffortCap, m.Intensity())
	assert.False(t, m.NeedsEffortConfirmation())
	assert.ErrorIs(t, m.ConfirmEffort(false), workout.ErrInvalidTransition)
}

func TestMachine_EffortConfirmationKeepsLowerIntensity(t *testing.T) {
	m := workout.New(workout.Params{
		Stage:     rehab.StageB,
		Settings:  rehab.DefaultSettings(),
		Intensity: 50,
	})
	require.NoError(t, m.SkipWarmup())
	require.NoError(t, m.ConfirmEffort(true))
	assert.Equal(t, 50, m.Intensity())
	assert.Equal(t, "Wall Squats", m.Exercise().Name)
}

func TestMachine_EffortConfirmationIsOptional(t *testing.T) {
	m, clock := newMachine(t, rehab.WorkoutSettings{HoldSecs: 1, RestSecs: 1, TotalSets: 1}, cue.Nop{})
	require.NoError(t, m.SkipWarmup())

	require.NoError(t, m.Start())
	m.Tick()
	require.Equal(t, workout.PhaseExerciseDone, m.Phase())
	assert.False(t, m.NeedsEffortConfirmation())

	for m.Phase() != workout.PhaseSessionReview {
		require.NoError(t, m.NextExercise())
		if m.Phase() == workout.PhaseIdle {
			require.NoError(t, m.Start())
			m.Tick()
		}
	}
	rec, err := m.Save(clock.Now())
	require.NoError(t, err)
	assert.Equal(t, 70, rec.Intensity)
	assert.Equal(t, 0, rec.Duration)
	assert.Equal(t, 5, rec.TotalSets)
}

func TestMachine_Abandon(t *testing.T) {
	m, _ := newMachine(t, rehab.DefaultSettings(), cue.Nop{})

	assert.ErrorIs(t, m.ConfirmAbandon(), workout.ErrInvalidTransition)
	assert.ErrorIs(t, m.CancelAbandon(), workout.ErrInvalidTransition)

	require.NoError(t, m.RequestAbandon())
	assert.True(t, m.AbandonRequested())
	require.NoError(t, m.CancelAbandon())
	assert.False(t, m.AbandonRequested())
	assert.Equal(t, workout.PhaseWarmup, m.Phase())

	require.NoError(t, m.SkipWarmup())
	require.NoError(t, m.Start())
	require.NoError(t, m.RequestAbandon())
	require.NoError(t, m.ConfirmAbandon())

	assert.Equal(t, workout.PhaseAbandoned, m.Phase())
	assert.True(t, m.Phase().Finished())
	assert.False(t, m.Running())
	_, ok := m.Record()
	assert.False(t, ok)
	assert.ErrorIs(t, m.RequestAbandon(), workout.ErrInvalidTransition)
	assert.ErrorIs(t, m.Start(), workout.ErrInvalidTransition)
}

func TestMachine_SyncCatchesUpAfterSuspend(t *testing.T) {
	ctrl := gomock.NewController(t)
	player := NewMockPlayer(ctrl)
	m, clock := newMachine(t, rehab.WorkoutSettings{HoldSecs: 45, RestSecs: 60, TotalSets: 4}, player)
	require.NoError(t, m.SkipWarmup())

	clock.Advance(10 * time.Second)
	require.NoError(t, m.Start())

	m.Sync(clock.Advance(1500 * time.Millisecond))
	assert.Equal(t, 44, m.Remaining())

	// the half second carries over
	m.Sync(clock.Advance(500 * time.Millisecond))
	assert.Equal(t, 43, m.Remaining())

	// suspended through the end of the hold and into the rest
	player.EXPECT().Play(cue.HoldComplete)
	m.Sync(clock.Advance(63 * time.Second))
	assert.Equal(t, workout.PhaseRest, m.Phase())
	assert.Equal(t, 40, m.Remaining())

	// and through the end of the rest: the machine stops in idle
	player.EXPECT().Play(cue.RestComplete)
	m.Sync(clock.Advance(10 * time.Minute))
	assert.Equal(t, workout.PhaseIdle, m.Phase())
	assert.Equal(t, 45, m.Remaining())
	assert.Equal(t, 1, m.CompletedSets())

	// time spent idle is not credited to the next hold
	clock.Advance(time.Hour)
	require.NoError(t, m.Start())
	m.Sync(clock.Advance(2 * time.Second))
	assert.Equal(t, 43, m.Remaining())
}

func TestMachine_SyncWhilePaused(t *testing.T) {
	m, clock := newMachine(t, rehab.DefaultSettings(), cue.Nop{})
	require.NoError(t, m.SkipWarmup())
	require.NoError(t, m.Start())

	m.Sync(clock.Advance(5 * time.Second))
	require.NoError(t, m.TogglePause())
	m.Sync(clock.Advance(time.Minute))
	assert.Equal(t, 40, m.Remaining())

	require.NoError(t, m.TogglePause())
	m.Sync(clock.Advance(3 * time.Second))
	assert.Equal(t, 37, m.Remaining())

	// a clock going backwards is ignored
	m.Sync(clock.Advance(-time.Minute))
	assert.Equal(t, 37, m.Remaining())
}

func TestPhase_String(t *testing.T) {
	assert.Equal(t, "hold", workout.PhaseHold.String())
	assert.Equal(t, "session-review", workout.PhaseSessionReview.String())
	assert.Equal(t, "unknown", workout.Phase(42).String())
	assert.False(t, workout.PhaseIdle.Finished())
}

func TestMachine_WallClockReadings(t *testing.T) {
	m := workout.New(workout.Params{
		Stage:     rehab.StageA,
		Settings:  rehab.WorkoutSettings{HoldSecs: 30, RestSecs: 30, TotalSets: 1},
		Intensity: 70,
	})
	assert.NotContains(t, m.StartedAt().String(), "m=")

	require.NoError(t, m.SkipWarmup())
	require.NoError(t, m.ConfirmEffort(false))
	require.NoError(t, m.Start())

	m.Sync(time.Now().Add(5 * time.Second))
	assert.Equal(t, workout.PhaseHold, m.Phase())
	assert.InDelta(t, 25, m.Remaining(), 1)
}
