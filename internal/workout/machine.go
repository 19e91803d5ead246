package workout

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/2beens/kneerehab/internal/cue"
	"github.com/2beens/kneerehab/internal/rehab"
)

var ErrInvalidTransition = errors.New("invalid workout transition")

// EffortCap is applied to the intensity when the effort check is answered
// with "need to increase load".
const EffortCap = 65

type Params struct {
	Stage     rehab.Stage
	Settings  rehab.WorkoutSettings
	Intensity int
	Player    cue.Player
	// Clock anchors timer resumes; time.Now when nil.
	Clock func() time.Time
}

// Machine drives one workout: warm-up stretches, then hold/rest cycling
// over every exercise of the stage, then review and save. It is not safe
// for concurrent use; the UI loop owns it.
type Machine struct {
	exercises []rehab.Exercise
	stretches []rehab.WarmupStretch
	settings  rehab.WorkoutSettings
	player    cue.Player
	clock     func() time.Time

	phase         Phase
	warmupIdx     int
	exerciseIdx   int
	completedSets int
	remaining     int
	running       bool

	startedAt time.Time
	lastSync  time.Time

	note             string
	intensity        int
	confirmedEffort  bool
	abandonRequested bool
	record           rehab.SessionRecord
}

func New(params Params) *Machine {
	clock := params.Clock
	if clock == nil {
		clock = time.Now
	}
	player := params.Player
	if player == nil {
		player = cue.Nop{}
	}

	now := clock().Round(0)
	stretches := rehab.WarmupStretches()
	return &Machine{
		exercises: rehab.ExercisesFor(params.Stage),
		stretches: stretches,
		settings:  params.Settings,
		player:    player,
		clock:     clock,
		phase:     PhaseWarmup,
		remaining: stretches[0].HoldSecs,
		startedAt: now,
		lastSync:  now,
		intensity: rehab.ClampIntensity(params.Intensity),
	}
}

func (m *Machine) Phase() Phase                        { return m.phase }
func (m *Machine) Remaining() int                      { return m.remaining }
func (m *Machine) Running() bool                       { return m.running }
func (m *Machine) CompletedSets() int                  { return m.completedSets }
func (m *Machine) ExerciseIndex() int                  { return m.exerciseIdx }
func (m *Machine) Exercises() []rehab.Exercise         { return m.exercises }
func (m *Machine) Exercise() rehab.Exercise            { return m.exercises[m.exerciseIdx] }
func (m *Machine) Settings() rehab.WorkoutSettings     { return m.settings }
func (m *Machine) Intensity() int                      { return m.intensity }
func (m *Machine) Note() string                        { return m.note }
func (m *Machine) WarmupIndex() int                    { return m.warmupIdx }
func (m *Machine) Stretch() rehab.WarmupStretch        { return m.stretches[m.warmupIdx] }
func (m *Machine) Stretches() []rehab.WarmupStretch    { return m.stretches }
func (m *Machine) AbandonRequested() bool              { return m.abandonRequested }
func (m *Machine) StartedAt() time.Time                { return m.startedAt }
func (m *Machine) IsLastExercise() bool                { return m.exerciseIdx == len(m.exercises)-1 }
func (m *Machine) Record() (rehab.SessionRecord, bool) { return m.record, m.phase == PhaseSaved }

// PhaseTotal is the full length of the current countdown, 0 when nothing counts down.
func (m *Machine) PhaseTotal() int {
	switch m.phase {
	case PhaseWarmup:
		return m.Stretch().HoldSecs
	case PhaseHold:
		return m.settings.HoldSecs
	case PhaseRest:
		return m.settings.RestSecs
	default:
		return 0
	}
}

// WarmupComplete reports whether the last stretch has run out.
func (m *Machine) WarmupComplete() bool {
	return m.phase == PhaseWarmup &&
		m.warmupIdx == len(m.stretches)-1 &&
		m.remaining == 0 &&
		!m.running
}

// ToggleWarmup pauses or resumes the current stretch.
func (m *Machine) ToggleWarmup() error {
	if m.phase != PhaseWarmup || m.remaining == 0 {
		return m.invalid("toggle warm-up")
	}
	m.setRunning(!m.running)
	return nil
}

// SkipWarmup leaves the warm-up at any point.
func (m *Machine) SkipWarmup() error {
	if m.phase != PhaseWarmup {
		return m.invalid("skip warm-up")
	}
	m.phase = PhaseIdle
	m.exerciseIdx = 0
	m.completedSets = 0
	m.remaining = m.settings.HoldSecs
	m.running = false
	return nil
}

// FinishWarmup is SkipWarmup once every stretch is done.
func (m *Machine) FinishWarmup() error {
	if !m.WarmupComplete() {
		return m.invalid("finish warm-up")
	}
	return m.SkipWarmup()
}

// NeedsEffortConfirmation is true before the first hold of the session
// until the effort check is answered.
func (m *Machine) NeedsEffortConfirmation() bool {
	return m.phase == PhaseIdle &&
		m.exerciseIdx == 0 &&
		m.completedSets == 0 &&
		!m.confirmedEffort
}

// ConfirmEffort answers the effort check. needMoreLoad caps the session
// intensity at EffortCap.
func (m *Machine) ConfirmEffort(needMoreLoad bool) error {
	if !m.NeedsEffortConfirmation() {
		return m.invalid("confirm effort")
	}
	if needMoreLoad {
		m.intensity = min(m.intensity, EffortCap)
	}
	m.confirmedEffort = true
	return nil
}

// Start begins the next hold.
func (m *Machine) Start() error {
	if m.phase != PhaseIdle {
		return m.invalid("start")
	}
	m.phase = PhaseHold
	m.remaining = m.settings.HoldSecs
	m.setRunning(true)
	return nil
}

// TogglePause pauses or resumes a hold without touching the countdown.
func (m *Machine) TogglePause() error {
	if m.phase != PhaseHold {
		return m.invalid("pause")
	}
	m.setRunning(!m.running)
	return nil
}

// ResetSet discards the partial hold; completed sets are kept.
func (m *Machine) ResetSet() error {
	if m.phase != PhaseHold {
		return m.invalid("reset set")
	}
	m.phase = PhaseIdle
	m.remaining = m.settings.HoldSecs
	m.running = false
	return nil
}

// NextExercise moves on from a finished exercise, to the review after the last one.
func (m *Machine) NextExercise() error {
	if m.phase != PhaseExerciseDone {
		return m.invalid("next exercise")
	}
	if m.IsLastExercise() {
		m.phase = PhaseSessionReview
		return nil
	}
	m.exerciseIdx++
	m.completedSets = 0
	m.remaining = m.settings.HoldSecs
	m.running = false
	m.phase = PhaseIdle
	return nil
}

// Tick applies one elapsed second. It is a no-op while nothing runs.
func (m *Machine) Tick() {
	if !m.running {
		return
	}

	m.remaining--
	if m.remaining > 0 {
		return
	}

	switch m.phase {
	case PhaseWarmup:
		m.running = false
		if m.warmupIdx < len(m.stretches)-1 {
			m.warmupIdx++
			m.remaining = m.stretches[m.warmupIdx].HoldSecs
		}
	case PhaseHold:
		m.player.Play(cue.HoldComplete)
		m.completedSets++
		if m.completedSets >= m.settings.TotalSets {
			m.phase = PhaseExerciseDone
			m.remaining = 0
			m.running = false
			return
		}
		m.phase = PhaseRest
		m.remaining = m.settings.RestSecs
	case PhaseRest:
		m.player.Play(cue.RestComplete)
		m.phase = PhaseIdle
		m.remaining = m.settings.HoldSecs
		m.running = false
	default:
		m.running = false
	}
}

// Sync applies every whole second elapsed since the previous sync, so the
// countdown catches up after the process was suspended. Fractions carry
// over to the next call. Elapsed time is wall time, including system sleep.
func (m *Machine) Sync(now time.Time) {
	now = now.Round(0)
	if !m.running || now.Before(m.lastSync) {
		m.lastSync = now
		return
	}

	elapsed := int(now.Sub(m.lastSync) / time.Second)
	for i := 0; i < elapsed && m.running; i++ {
		m.Tick()
	}

	if m.running {
		m.lastSync = m.lastSync.Add(time.Duration(elapsed) * time.Second)
	} else {
		m.lastSync = now
	}
}

// RequestAbandon asks for the abandon confirmation.
func (m *Machine) RequestAbandon() error {
	if m.phase.Finished() {
		return m.invalid("abandon")
	}
	m.abandonRequested = true
	return nil
}

func (m *Machine) CancelAbandon() error {
	if !m.abandonRequested {
		return m.invalid("cancel abandon")
	}
	m.abandonRequested = false
	return nil
}

// ConfirmAbandon discards the session. No record is produced.
func (m *Machine) ConfirmAbandon() error {
	if !m.abandonRequested || m.phase.Finished() {
		return m.invalid("confirm abandon")
	}
	m.abandonRequested = false
	m.running = false
	m.phase = PhaseAbandoned
	return nil
}

func (m *Machine) SetNote(note string) error {
	if m.phase != PhaseSessionReview {
		return m.invalid("set note")
	}
	m.note = note
	return nil
}

// Save closes the session and returns its record. The id is left for the
// session history to assign.
func (m *Machine) Save(now time.Time) (rehab.SessionRecord, error) {
	if m.phase != PhaseSessionReview {
		return rehab.SessionRecord{}, m.invalid("save")
	}

	minutes := int(math.Round(now.Round(0).Sub(m.startedAt).Minutes()))
	m.record = rehab.SessionRecord{
		Date:      rehab.DayLabel(now),
		Exercises: len(m.exercises),
		TotalSets: len(m.exercises) * m.settings.TotalSets,
		Intensity: m.intensity,
		Duration:  max(0, minutes),
		Notes:     m.note,
	}
	m.phase = PhaseSaved
	return m.record, nil
}

func (m *Machine) setRunning(running bool) {
	if running && !m.running {
		m.lastSync = m.clock().Round(0)
	}
	m.running = running
}

func (m *Machine) invalid(action string) error {
	return fmt.Errorf("%w: %s in phase %s", ErrInvalidTransition, action, m.phase)
}
