package tui

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/2beens/kneerehab/internal/cue"
	"github.com/2beens/kneerehab/internal/rehab"
	"github.com/2beens/kneerehab/internal/reminder"
	"github.com/2beens/kneerehab/internal/timer"
	"github.com/2beens/kneerehab/internal/tracker"
	"github.com/2beens/kneerehab/internal/workout"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	log "github.com/sirupsen/logrus"
)

type screen int

const (
	screenToday screen = iota
	screenTrends
	screenProtocols
	screenProfile
)

var screenNames = []string{"Today", "Trends", "Protocols", "Profile"}

const (
	defaultPainInput = 2
	painStep         = 0.5
)

const (
	settingsFieldHold = iota
	settingsFieldRest
	settingsFieldSets
	settingsFieldCount
)

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

type Params struct {
	Tracker *tracker.Tracker
	// Reminder is optional; its enabled flag follows the profile toggle.
	Reminder *reminder.Reminder
	// Cues fired by the workout are played as commands, off the event loop.
	Cues  *cue.Queue
	Clock func() time.Time
}

// Model is the bubbletea model of the whole app. All state changes happen
// on the bubbletea event loop.
type Model struct {
	ctx      context.Context
	tracker  *tracker.Tracker
	reminder *reminder.Reminder
	cues     *cue.Queue
	now      func() time.Time

	theme  Theme
	screen screen
	snap   tracker.Snapshot
	width  int

	painInput float64
	session   *workout.Machine
	ice       *timer.Countdown
	nutrition *timer.Countdown

	editingSettings bool
	draft           rehab.WorkoutSettings
	draftField      int

	protocolIdx    int
	confirmAdvance bool

	status string
	notice string

	renderer    *glamour.TermRenderer
	rendererKey string
}

func New(ctx context.Context, params Params) *Model {
	clock := params.Clock
	if clock == nil {
		clock = time.Now
	}

	m := &Model{
		ctx:       ctx,
		tracker:   params.Tracker,
		reminder:  params.Reminder,
		cues:      params.Cues,
		now:       clock,
		ice:       timer.NewIceTimer(),
		nutrition: timer.NewNutritionTimer(),
		width:     80,
	}
	m.refresh()

	m.painInput = defaultPainInput
	if len(m.snap.PainLog) > 0 {
		m.painInput = m.snap.PainLog[len(m.snap.PainLog)-1].Value
	}
	m.protocolIdx = m.snap.Stage.Index()
	if m.reminder != nil {
		m.reminder.SetEnabled(m.snap.ReminderEnabled)
	}
	return m
}

func (m *Model) Init() tea.Cmd {
	return tick()
}

// refresh recomputes every derived value from the tracker.
func (m *Model) refresh() {
	m.snap = m.tracker.Snapshot(m.ctx, m.now())
	m.theme = ThemeFor(m.snap.DarkMode)
}

func (m *Model) setStatus(format string, args ...any) {
	m.status = fmt.Sprintf(format, args...)
}

func (m *Model) setError(err error) {
	m.status = err.Error()
	log.Debugf("ui: %s", err)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := m.update(msg)
	if play := m.pendingCues(); play != nil {
		return model, tea.Batch(cmd, play)
	}
	return model, cmd
}

// pendingCues plays the queued cues in a command, so the bells are written
// from a command goroutine rather than in the middle of an update.
func (m *Model) pendingCues() tea.Cmd {
	if m.cues == nil {
		return nil
	}
	play := m.cues.Flush()
	if play == nil {
		return nil
	}
	return func() tea.Msg {
		play()
		return nil
	}
}

func (m *Model) update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tickMsg:
		m.onTick(time.Time(msg))
		return m, tick()
	case reminder.Message:
		if !m.snap.CheckedInToday {
			m.notice = msg.Text
		}
		return m, nil
	case tea.KeyMsg:
		return m.onKey(msg)
	}
	return m, nil
}

func (m *Model) onTick(now time.Time) {
	if m.session != nil {
		m.session.Sync(now)
	}
	if m.ice.Expire(now) {
		m.setStatus("Ice done. Take the pack off")
	}
	if m.nutrition.Expire(now) {
		m.setStatus("Collagen window closed")
	}
	if rehab.DayLabel(now) != m.snap.Today {
		m.refresh()
	}
}

func (m *Model) onKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit
	}

	if m.session != nil {
		m.workoutKey(msg)
		return m, nil
	}
	if m.snap.ShowWarning {
		m.warningKey(key)
		return m, nil
	}
	if m.editingSettings {
		m.settingsKey(key)
		return m, nil
	}

	switch key {
	case "q":
		return m, tea.Quit
	case "1", "2", "3", "4":
		m.switchScreen(screen(key[0] - '1'))
		return m, nil
	case "tab":
		m.switchScreen((m.screen + 1) % screen(len(screenNames)))
		return m, nil
	case "shift+tab":
		m.switchScreen((m.screen + screen(len(screenNames)) - 1) % screen(len(screenNames)))
		return m, nil
	case "t":
		dark := m.tracker.ToggleTheme(m.ctx)
		m.refresh()
		if dark {
			m.setStatus("Dark theme")
		} else {
			m.setStatus("Light theme")
		}
		return m, nil
	}

	switch m.screen {
	case screenToday:
		m.todayKey(key)
	case screenTrends:
		if key == "e" {
			m.export()
		}
	case screenProtocols:
		m.protocolsKey(key)
	case screenProfile:
		m.profileKey(key)
	}
	return m, nil
}

func (m *Model) switchScreen(s screen) {
	m.screen = s
	m.confirmAdvance = false
	m.status = ""
}

func (m *Model) todayKey(key string) {
	now := m.now()
	switch key {
	case "up", "+", "k":
		m.painInput = rehab.NormalizePain(m.painInput + painStep)
	case "down", "-", "j":
		m.painInput = rehab.NormalizePain(m.painInput - painStep)
	case "c":
		entry := m.tracker.CheckIn(m.ctx, m.painInput, now)
		m.notice = ""
		m.refresh()
		m.setStatus("Checked in: %s (%s)", formatPain(entry.Value), entry.Label)
	case "r":
		entry := m.tracker.LogRestDay(m.ctx, m.painInput, now)
		m.notice = ""
		m.refresh()
		m.setStatus("Rest day logged (pain %s)", formatPain(entry.Value))
	case "w", "enter":
		m.startWorkout(now)
	case "i":
		m.ice.Toggle(now)
	case "I":
		m.ice.Reset()
	case "n":
		m.nutrition.Toggle(now)
	case "N":
		m.nutrition.Reset()
	}
}

func (m *Model) startWorkout(now time.Time) {
	session, err := m.tracker.StartWorkout(m.ctx, now)
	if err != nil {
		if errors.Is(err, tracker.ErrNeedsRest) {
			m.setStatus("Rest day. Tendons adapt between sessions, come back tomorrow")
			return
		}
		m.setError(err)
		return
	}
	m.session = session
	m.status = ""
}

func (m *Model) warningKey(key string) {
	now := m.now()
	switch key {
	case "a":
		adjusted := m.tracker.AdjustIntensity(m.ctx, now)
		m.refresh()
		m.setStatus("Intensity lowered to %d%% MVC", adjusted)
	case "k":
		m.tracker.KeepPlan(m.ctx, now)
		m.refresh()
		m.setStatus("Keeping the plan")
	}
}

func (m *Model) protocolsKey(key string) {
	now := m.now()
	if m.confirmAdvance {
		switch key {
		case "y":
			m.confirmAdvance = false
			next, err := m.tracker.AdvanceStage(m.ctx, now)
			if err != nil {
				m.setError(err)
				return
			}
			m.refresh()
			m.protocolIdx = next.Index()
			m.setStatus("Advanced to stage %s: %s", next, next.Title())
		case "n", "esc":
			m.confirmAdvance = false
			m.status = ""
		}
		return
	}

	switch key {
	case "left", "h", "up":
		if m.protocolIdx > 0 {
			m.protocolIdx--
		}
	case "right", "l", "down":
		if m.protocolIdx < len(rehab.Protocols())-1 {
			m.protocolIdx++
		}
	case "a":
		if !m.snap.ReadyToAdvance {
			m.setError(fmt.Errorf("%w: week %d of %d, avg pain %.1f",
				tracker.ErrNotReady, m.snap.WeeksInStage, m.snap.Stage.Criteria().MinWeeks, m.snap.AvgPain))
			return
		}
		m.confirmAdvance = true
		m.setStatus("Advance to stage %s? (y/n)", m.snap.NextStage)
	}
}

func (m *Model) profileKey(key string) {
	now := m.now()
	switch key {
	case "s":
		m.editingSettings = true
		m.draft = m.tracker.Settings(m.ctx)
		m.draftField = settingsFieldHold
		m.status = ""
	case "m":
		enabled := !m.snap.ReminderEnabled
		m.tracker.SetReminderEnabled(m.ctx, enabled)
		if m.reminder != nil {
			m.reminder.SetEnabled(enabled)
		}
		m.refresh()
		if enabled {
			m.setStatus("Morning check-in reminder on")
		} else {
			m.setStatus("Morning check-in reminder off")
		}
	case "e":
		m.export()
	case "A", "B", "C", "M":
		stage := rehab.Stage(key)
		if err := m.tracker.SetStage(m.ctx, stage, now); err != nil {
			m.setError(err)
			return
		}
		m.refresh()
		m.protocolIdx = stage.Index()
		m.setStatus("Stage set to %s: %s", stage, stage.Title())
	}
}

func (m *Model) settingsKey(key string) {
	switch key {
	case "up", "k":
		m.draftField = (m.draftField + settingsFieldCount - 1) % settingsFieldCount
	case "down", "j", "tab":
		m.draftField = (m.draftField + 1) % settingsFieldCount
	case "left", "-", "h":
		m.stepDraft(-1)
	case "right", "+", "l":
		m.stepDraft(1)
	case "enter":
		if err := m.tracker.SaveSettings(m.ctx, m.draft); err != nil {
			m.setError(err)
			return
		}
		m.editingSettings = false
		m.refresh()
		m.setStatus("Settings saved")
	case "esc":
		m.editingSettings = false
		m.setStatus("Changes discarded")
	}
}

// stepDraft moves the selected draft field; seconds go in steps of 5.
// Values are checked only on save.
func (m *Model) stepDraft(dir int) {
	switch m.draftField {
	case settingsFieldHold:
		m.draft.HoldSecs = max(0, m.draft.HoldSecs+5*dir)
	case settingsFieldRest:
		m.draft.RestSecs = max(0, m.draft.RestSecs+5*dir)
	case settingsFieldSets:
		m.draft.TotalSets = max(0, m.draft.TotalSets+dir)
	}
}

func (m *Model) export() {
	path, err := m.tracker.Export(m.ctx)
	if err != nil {
		m.setError(fmt.Errorf("export: %w", err))
		return
	}
	m.setStatus("Exported to %s", path)
}

func (m *Model) workoutKey(msg tea.KeyMsg) {
	s := m.session
	key := msg.String()

	if s.AbandonRequested() {
		switch key {
		case "y":
			if err := s.ConfirmAbandon(); err != nil {
				m.setError(err)
				return
			}
			m.tracker.AbandonWorkout(m.ctx)
			m.closeWorkout("Session abandoned")
		case "n", "esc":
			_ = s.CancelAbandon()
		}
		return
	}

	var err error
	switch s.Phase() {
	case workout.PhaseWarmup:
		switch key {
		case " ":
			err = s.ToggleWarmup()
		case "s":
			err = s.SkipWarmup()
		case "enter":
			err = s.FinishWarmup()
		case "esc":
			err = s.RequestAbandon()
		}
	case workout.PhaseIdle:
		switch {
		case s.NeedsEffortConfirmation() && key == "y":
			err = m.tracker.ConfirmEffort(m.ctx, s, false)
		case s.NeedsEffortConfirmation() && key == "l":
			err = m.tracker.ConfirmEffort(m.ctx, s, true)
		case !s.NeedsEffortConfirmation() && (key == " " || key == "enter"):
			err = s.Start()
		case key == "esc":
			err = s.RequestAbandon()
		}
	case workout.PhaseHold:
		switch key {
		case " ", "p":
			err = s.TogglePause()
		case "r":
			err = s.ResetSet()
		case "esc":
			err = s.RequestAbandon()
		}
	case workout.PhaseRest:
		if key == "esc" {
			err = s.RequestAbandon()
		}
	case workout.PhaseExerciseDone:
		switch key {
		case "enter", " ":
			err = s.NextExercise()
		case "esc":
			err = s.RequestAbandon()
		}
	case workout.PhaseSessionReview:
		err = m.reviewKey(msg)
	case workout.PhaseSaved:
		if key == "enter" || key == "esc" {
			m.closeWorkout("")
		}
	}
	if err != nil {
		m.setError(err)
	}
}

func (m *Model) reviewKey(msg tea.KeyMsg) error {
	s := m.session
	switch msg.Type {
	case tea.KeyEnter:
		rec, err := s.Save(m.now())
		if err != nil {
			return err
		}
		saved := m.tracker.CompleteWorkout(m.ctx, rec)
		m.refresh()
		m.setStatus("Session #%d saved", saved.ID)
		return nil
	case tea.KeyEsc:
		return s.RequestAbandon()
	case tea.KeyBackspace:
		note := []rune(s.Note())
		if len(note) == 0 {
			return nil
		}
		return s.SetNote(string(note[:len(note)-1]))
	case tea.KeySpace:
		return s.SetNote(s.Note() + " ")
	case tea.KeyRunes:
		return s.SetNote(s.Note() + string(msg.Runes))
	}
	return nil
}

func (m *Model) closeWorkout(status string) {
	m.session = nil
	m.screen = screenToday
	m.refresh()
	m.status = status
}

func formatPain(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.1f", v)
}
