package tracker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/kneerehab/internal/cue"
	"github.com/2beens/kneerehab/internal/export"
	"github.com/2beens/kneerehab/internal/rehab"
	"github.com/2beens/kneerehab/internal/store"
	"github.com/2beens/kneerehab/internal/telemetry/metrics"
	"github.com/2beens/kneerehab/internal/telemetry/tracing"
	"github.com/2beens/kneerehab/internal/workout"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrNeedsRest    = errors.New("a session was already completed today")
	ErrNotReady     = errors.New("stage advancement criteria not met")
	ErrInvalidStage = errors.New("unknown stage")
)

const defaultIntensity = 70

type Params struct {
	Store          *store.Store
	MetricsManager *metrics.Manager
	Player         cue.Player
	ExportDir      string
	// Clock is handed to workout machines; time.Now when nil.
	Clock func() time.Time
}

// Tracker owns the persisted state and exposes every user operation.
// Derived values are recomputed from the stored slots on each call.
type Tracker struct {
	metricsManager *metrics.Manager
	player         cue.Player
	exportDir      string
	clock          func() time.Time

	painLog         *store.Slot[rehab.PainLog]
	sessions        *store.Slot[rehab.SessionHistory]
	stage           *store.Slot[rehab.Stage]
	stageStart      *store.Slot[string]
	settings        *store.Slot[rehab.WorkoutSettings]
	intensity       *store.Slot[int]
	startDate       *store.Slot[string]
	warnDismissed   *store.Slot[string]
	darkMode        *store.Slot[bool]
	reminderEnabled *store.Slot[bool]
}

// New opens the tracker over the store. First use records the install
// date and the stage start as now.
func New(ctx context.Context, params Params, now time.Time) *Tracker {
	s := params.Store
	clock := params.Clock
	if clock == nil {
		clock = time.Now
	}
	player := params.Player
	if player == nil {
		player = cue.Nop{}
	}

	t := &Tracker{
		metricsManager: params.MetricsManager,
		player:         player,
		exportDir:      params.ExportDir,
		clock:          clock,

		painLog:         store.NewSlot(s, store.KeyPainLog, rehab.PainLog{}),
		sessions:        store.NewSlot(s, store.KeySessions, rehab.SessionHistory{}),
		stage:           store.NewSlot(s, store.KeyStage, rehab.StageA),
		stageStart:      store.NewSlot(s, store.KeyStageStart, ""),
		settings:        store.NewSlot(s, store.KeySettings, rehab.DefaultSettings()).Validated(rehab.WorkoutSettings.Validate),
		intensity:       store.NewSlot(s, store.KeyIntensity, defaultIntensity),
		startDate:       store.NewSlot(s, store.KeyStartDate, ""),
		warnDismissed:   store.NewSlot(s, store.KeyWarnDismissed, ""),
		darkMode:        store.NewSlot(s, store.KeyDarkMode, true),
		reminderEnabled: store.NewSlot(s, store.KeyReminderEnabled, false),
	}

	stamp := now.UTC().Format(time.RFC3339)
	if t.startDate.Get(ctx) == "" {
		t.startDate.Set(ctx, stamp)
	}
	if t.stageStart.Get(ctx) == "" {
		t.stageStart.Set(ctx, stamp)
	}
	return t
}

func (t *Tracker) CheckIn(ctx context.Context, value float64, now time.Time) rehab.PainEntry {
	ctx, span := tracing.GlobalTracer.Start(ctx, "tracker.check-in")
	defer span.End()

	entry := rehab.NewCheckIn(value, now)
	t.painLog.Update(ctx, func(l rehab.PainLog) rehab.PainLog {
		return l.Append(entry)
	})
	span.SetAttributes(attribute.Float64("pain", entry.Value))

	t.metricsManager.CounterCheckIns.WithLabelValues("check-in").Inc()
	log.Debugf("check-in: pain %.1f (%s)", entry.Value, entry.Label)
	return entry
}

func (t *Tracker) LogRestDay(ctx context.Context, value float64, now time.Time) rehab.PainEntry {
	ctx, span := tracing.GlobalTracer.Start(ctx, "tracker.rest-day")
	defer span.End()

	entry := rehab.NewRestDay(value, now)
	t.painLog.Update(ctx, func(l rehab.PainLog) rehab.PainLog {
		return l.Append(entry)
	})

	t.metricsManager.CounterCheckIns.WithLabelValues("rest-day").Inc()
	log.Debugf("rest day logged: pain %.1f", entry.Value)
	return entry
}

// StartWorkout creates the workout machine for the current stage and
// settings. Only one session per calendar day is allowed.
func (t *Tracker) StartWorkout(ctx context.Context, now time.Time) (_ *workout.Machine, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "tracker.start-workout")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if rehab.NeedsRest(t.sessions.Get(ctx), now) {
		return nil, ErrNeedsRest
	}

	stage := t.currentStage(ctx)
	span.SetAttributes(attribute.String("stage", string(stage)))

	return workout.New(workout.Params{
		Stage:     stage,
		Settings:  t.settings.Get(ctx),
		Intensity: t.intensity.Get(ctx),
		Player:    t.player,
		Clock:     t.clock,
	}), nil
}

// ConfirmEffort answers the session's effort check. The "need more load"
// cap is stored right away, so it holds even if the session is abandoned.
func (t *Tracker) ConfirmEffort(ctx context.Context, m *workout.Machine, needMoreLoad bool) error {
	if err := m.ConfirmEffort(needMoreLoad); err != nil {
		return err
	}
	if needMoreLoad {
		capped := t.intensity.Update(ctx, func(i int) int {
			return min(i, workout.EffortCap)
		})
		log.Debugf("effort check: intensity capped at %d%% MVC", capped)
	}
	return nil
}

// CompleteWorkout appends a saved session and carries its intensity over
// to the next one.
func (t *Tracker) CompleteWorkout(ctx context.Context, rec rehab.SessionRecord) rehab.SessionRecord {
	ctx, span := tracing.GlobalTracer.Start(ctx, "tracker.complete-workout")
	defer span.End()

	history, saved := t.sessions.Get(ctx).Append(rec)
	t.sessions.Set(ctx, history)
	t.intensity.Set(ctx, saved.Intensity)

	span.SetAttributes(
		attribute.Int("session.id", saved.ID),
		attribute.Int("session.duration", saved.Duration),
	)
	t.metricsManager.CounterSessionsSaved.Inc()
	t.metricsManager.HistSessionDuration.Observe(float64(saved.Duration))
	log.Infof("session #%d saved: %d exercises, %d sets, %d%% MVC, %d min",
		saved.ID, saved.Exercises, saved.TotalSets, saved.Intensity, saved.Duration)
	return saved
}

func (t *Tracker) AbandonWorkout(ctx context.Context) {
	_, span := tracing.GlobalTracer.Start(ctx, "tracker.abandon-workout")
	defer span.End()

	t.metricsManager.CounterSessionsAbandoned.Inc()
	log.Info("session abandoned")
}

// AdvanceStage moves to the next stage once the current one's criteria are met.
func (t *Tracker) AdvanceStage(ctx context.Context, now time.Time) (_ rehab.Stage, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "tracker.advance-stage")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	stage := t.currentStage(ctx)
	weeks := rehab.WeeksInStage(t.stageStartTime(ctx, now), now)
	avgPain := rehab.RoundOne(rehab.AveragePain(t.painLog.Get(ctx), rehab.DefaultPainWindow))
	if !rehab.ReadyToAdvance(stage, weeks, avgPain) {
		return stage, fmt.Errorf("%w: stage %s, week %d, avg pain %.1f", ErrNotReady, stage, weeks, avgPain)
	}

	next := stage.Criteria().Next
	t.changeStage(ctx, next, now, "advance")
	return next, nil
}

// SetStage overrides the stage manually; the stage start resets to now.
func (t *Tracker) SetStage(ctx context.Context, stage rehab.Stage, now time.Time) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "tracker.set-stage")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if !stage.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStage, stage)
	}
	t.changeStage(ctx, stage, now, "manual")
	return nil
}

func (t *Tracker) changeStage(ctx context.Context, stage rehab.Stage, now time.Time, reason string) {
	t.stage.Set(ctx, stage)
	t.stageStart.Set(ctx, now.UTC().Format(time.RFC3339))
	t.metricsManager.CounterStageChanges.WithLabelValues(reason, string(stage)).Inc()
	log.Infof("stage changed to %s (%s)", stage, reason)
}

func (t *Tracker) Settings(ctx context.Context) rehab.WorkoutSettings {
	return t.settings.Get(ctx)
}

// SaveSettings commits a settings draft as a whole. Invalid drafts are
// rejected and nothing is written.
func (t *Tracker) SaveSettings(ctx context.Context, draft rehab.WorkoutSettings) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "tracker.save-settings")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := draft.Validate(); err != nil {
		return err
	}
	t.settings.Set(ctx, draft)
	log.Debugf("settings saved: %+v", draft)
	return nil
}

func (t *Tracker) DarkMode(ctx context.Context) bool {
	return t.darkMode.Get(ctx)
}

// ToggleTheme flips dark/light and returns the new dark mode flag.
func (t *Tracker) ToggleTheme(ctx context.Context) bool {
	dark := !t.darkMode.Get(ctx)
	t.darkMode.Set(ctx, dark)
	return dark
}

func (t *Tracker) ReminderEnabled(ctx context.Context) bool {
	return t.reminderEnabled.Get(ctx)
}

func (t *Tracker) SetReminderEnabled(ctx context.Context, enabled bool) {
	t.reminderEnabled.Set(ctx, enabled)
}

// ShowPainWarning is true on a pain spike unless the warning was already
// dismissed today.
func (t *Tracker) ShowPainWarning(ctx context.Context, now time.Time) bool {
	return rehab.PainSpike(t.painLog.Get(ctx)) && t.warnDismissed.Get(ctx) != rehab.DayLabel(now)
}

// AdjustIntensity lowers the carried-over intensity after a pain spike and
// dismisses the warning for today.
func (t *Tracker) AdjustIntensity(ctx context.Context, now time.Time) int {
	ctx, span := tracing.GlobalTracer.Start(ctx, "tracker.adjust-intensity")
	defer span.End()

	adjusted := t.intensity.Update(ctx, rehab.AdjustIntensity)
	t.warnDismissed.Set(ctx, rehab.DayLabel(now))
	log.Infof("intensity adjusted to %d%% after pain spike", adjusted)
	return adjusted
}

// KeepPlan dismisses the pain warning for today without changes.
func (t *Tracker) KeepPlan(ctx context.Context, now time.Time) {
	t.warnDismissed.Set(ctx, rehab.DayLabel(now))
}

func (t *Tracker) ExportCSV(ctx context.Context) string {
	return export.ToCSV(t.painLog.Get(ctx), t.sessions.Get(ctx))
}

// Export writes the CSV file to the configured export dir.
func (t *Tracker) Export(ctx context.Context) (_ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "tracker.export")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	path, err := export.WriteFile(t.exportDir, t.painLog.Get(ctx), t.sessions.Get(ctx))
	if err != nil {
		return "", err
	}
	t.metricsManager.CounterExports.Inc()
	log.Infof("exported to %s", path)
	return path, nil
}

func (t *Tracker) currentStage(ctx context.Context) rehab.Stage {
	return rehab.ParseStage(string(t.stage.Get(ctx)))
}

// stageStartTime parses the stored stage start; a corrupt value reads as now.
func (t *Tracker) stageStartTime(ctx context.Context, now time.Time) time.Time {
	raw := t.stageStart.Get(ctx)
	start, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		log.Warnf("corrupt stage start %q, using now", raw)
		return now
	}
	return start
}
