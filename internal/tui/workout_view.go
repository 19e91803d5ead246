package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/2beens/kneerehab/internal/workout"

	"github.com/charmbracelet/lipgloss"
)

func workoutView(th Theme, s *workout.Machine, now time.Time) string {
	var body string
	switch s.Phase() {
	case workout.PhaseWarmup:
		body = warmupView(th, s)
	case workout.PhaseIdle, workout.PhaseHold, workout.PhaseRest, workout.PhaseExerciseDone:
		body = exerciseView(th, s)
	case workout.PhaseSessionReview:
		body = reviewView(th, s, now)
	case workout.PhaseSaved:
		body = savedView(th, s)
	case workout.PhaseAbandoned:
		body = th.Dim.Render("Session abandoned")
	}

	if s.AbandonRequested() {
		body = lipgloss.JoinVertical(lipgloss.Left, body, th.Warning.Render(
			"End this session? Progress will not be saved.\n\n[y] end session    [n] keep going",
		))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		th.Title.Render(appTitle)+th.Dim.Render(fmt.Sprintf("  workout · %d%% MVC", s.Intensity())),
		"",
		body,
		th.Help.Render(workoutHelp(s)),
	)
}

func workoutHelp(s *workout.Machine) string {
	if s.AbandonRequested() {
		return "y confirm · n cancel"
	}
	switch s.Phase() {
	case workout.PhaseWarmup:
		return "space start/pause · s skip warm-up · enter continue · esc end"
	case workout.PhaseIdle:
		if s.NeedsEffortConfirmation() {
			return "y feels right · l need more load · esc end"
		}
		return "space start hold · esc end"
	case workout.PhaseHold:
		return "space/p pause · r reset set · esc end"
	case workout.PhaseRest:
		return "esc end"
	case workout.PhaseExerciseDone:
		return "enter next · esc end"
	case workout.PhaseSessionReview:
		return "type a note · enter save · esc end"
	case workout.PhaseSaved:
		return "enter close"
	}
	return ""
}

func countdownRing(th Theme, remaining, total int, color lipgloss.Color) string {
	pct := 0
	if total > 0 {
		pct = (total - remaining) * 100 / total
	}
	clock := lipgloss.NewStyle().Foreground(color).Bold(true).Render(formatClock(remaining))
	return clock + "  " + progressBar(th, pct, 30, color)
}

func warmupView(th Theme, s *workout.Machine) string {
	stretch := s.Stretch()
	lines := []string{
		th.Label.Render(fmt.Sprintf("WARM-UP %d/%d", s.WarmupIndex()+1, len(s.Stretches()))),
		th.Title.Render(stretch.Name),
		th.Dim.Render(stretch.Cue),
		"",
		countdownRing(th, s.Remaining(), s.PhaseTotal(), th.Blue),
	}
	if s.WarmupComplete() {
		lines = append(lines, "", lipgloss.NewStyle().Foreground(th.Green).Render("Warm-up done. Press enter to start the exercises"))
	}
	return th.Card.Render(strings.Join(lines, "\n"))
}

func exerciseView(th Theme, s *workout.Machine) string {
	ex := s.Exercise()
	settings := s.Settings()
	lines := []string{
		th.Label.Render(fmt.Sprintf("EXERCISE %d/%d", s.ExerciseIndex()+1, len(s.Exercises()))),
		th.Title.Render(ex.Name),
		th.Dim.Render(ex.Cue),
		"",
	}

	switch s.Phase() {
	case workout.PhaseIdle:
		if s.NeedsEffortConfirmation() {
			lines = append(lines,
				th.Text.Render(fmt.Sprintf("Effort check: does %d%% of max feel right?", s.Intensity())),
				th.Dim.Render("Answer l if you could push harder; the session stays capped."),
			)
		} else {
			lines = append(lines, th.Text.Render(fmt.Sprintf("Ready for set %d of %d", s.CompletedSets()+1, settings.TotalSets)))
		}
	case workout.PhaseHold:
		label := "HOLD"
		if !s.Running() {
			label = "PAUSED"
		}
		lines = append(lines,
			th.Label.Render(label),
			countdownRing(th, s.Remaining(), s.PhaseTotal(), th.Green),
		)
	case workout.PhaseRest:
		lines = append(lines,
			th.Label.Render("REST"),
			countdownRing(th, s.Remaining(), s.PhaseTotal(), th.Blue),
		)
	case workout.PhaseExerciseDone:
		next := "Review session"
		if !s.IsLastExercise() {
			next = "Next: " + s.Exercises()[s.ExerciseIndex()+1].Name
		}
		lines = append(lines,
			lipgloss.NewStyle().Foreground(th.Green).Render("Exercise complete"),
			th.Dim.Render(next),
		)
	}

	lines = append(lines, "", setDots(th, s.CompletedSets(), settings.TotalSets))
	return th.Card.Render(strings.Join(lines, "\n"))
}

func setDots(th Theme, done, total int) string {
	var sb strings.Builder
	for i := 0; i < total; i++ {
		if i < done {
			sb.WriteString(lipgloss.NewStyle().Foreground(th.Green).Render("●"))
		} else {
			sb.WriteString(lipgloss.NewStyle().Foreground(th.Muted).Render("○"))
		}
		sb.WriteString(" ")
	}
	return strings.TrimSpace(sb.String())
}

func reviewView(th Theme, s *workout.Machine, now time.Time) string {
	settings := s.Settings()
	n := len(s.Exercises())
	minutes := int(now.Sub(s.StartedAt()).Round(time.Minute) / time.Minute)
	lines := []string{
		th.Label.Render("SESSION REVIEW"),
		th.Text.Render(fmt.Sprintf("%d exercises · %d sets · %d%% MVC · ~%d min",
			n, n*settings.TotalSets, s.Intensity(), max(0, minutes))),
		"",
		th.Label.Render("NOTES"),
		th.Text.Render(s.Note() + "▏"),
	}
	return th.Card.Render(strings.Join(lines, "\n"))
}

func savedView(th Theme, s *workout.Machine) string {
	rec, ok := s.Record()
	if !ok {
		return ""
	}
	lines := []string{
		lipgloss.NewStyle().Foreground(th.Green).Bold(true).Render("SESSION SAVED"),
		th.Text.Render(fmt.Sprintf("%s · %d exercises · %d sets · %d%% MVC · %d min",
			rec.Date, rec.Exercises, rec.TotalSets, rec.Intensity, rec.Duration)),
	}
	if rec.Notes != "" {
		lines = append(lines, th.Dim.Render(rec.Notes))
	}
	lines = append(lines, "", th.Dim.Render("Ice the knee and take collagen within the hour"))
	return th.Card.Render(strings.Join(lines, "\n"))
}
