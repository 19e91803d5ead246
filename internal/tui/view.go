package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/2beens/kneerehab/internal/rehab"
	"github.com/2beens/kneerehab/internal/timer"
	"github.com/2beens/kneerehab/internal/tracker"

	"github.com/charmbracelet/lipgloss"
)

const appTitle = "REBUILD YOUR KNEE"

func (m *Model) View() string {
	th := m.theme
	now := m.now()

	if m.session != nil {
		return lipgloss.JoinVertical(lipgloss.Left,
			workoutView(th, m.session, now),
			statusLine(th, m.status),
		)
	}

	var body string
	switch {
	case m.snap.ShowWarning:
		body = warningView(th, m.snap)
	case m.screen == screenToday:
		body = todayView(th, m.snap, m.painInput, m.ice, m.nutrition, m.notice, now)
	case m.screen == screenTrends:
		body = trendsView(th, m.snap)
	case m.screen == screenProtocols:
		body = m.protocolsView(th)
	case m.screen == screenProfile:
		body = m.profileView(th, now)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header(th, m.snap),
		tabs(th, m.screen),
		"",
		body,
		statusLine(th, m.status),
		th.Help.Render(m.helpText()),
	)
}

func header(th Theme, snap tracker.Snapshot) string {
	title := th.Title.Render(appTitle)
	stage := lipgloss.NewStyle().
		Foreground(th.StageColor(snap.Stage.Index())).
		Bold(true).
		Render(fmt.Sprintf("  %s · week %d", snap.Stage.Title(), snap.WeeksInStage))
	return title + stage
}

func tabs(th Theme, active screen) string {
	parts := make([]string, 0, len(screenNames))
	for i, name := range screenNames {
		label := fmt.Sprintf("%d %s", i+1, name)
		if screen(i) == active {
			parts = append(parts, th.TabOn.Render(label))
		} else {
			parts = append(parts, th.TabOff.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func statusLine(th Theme, status string) string {
	if status == "" {
		return ""
	}
	return th.Status.Render(status)
}

func (m *Model) helpText() string {
	if m.snap.ShowWarning {
		return "a adjust intensity · k keep plan · ctrl+c quit"
	}
	if m.editingSettings {
		return "↑/↓ field · ←/→ change · enter save · esc cancel"
	}
	switch m.screen {
	case screenToday:
		return "↑/↓ pain · c check in · r rest day · w workout · i ice · n nutrition · t theme · q quit"
	case screenTrends:
		return "e export csv · tab next · t theme · q quit"
	case screenProtocols:
		return "←/→ phase · a advance stage · t theme · q quit"
	case screenProfile:
		return "s settings · A/B/C/M set stage · m reminder · e export · t theme · q quit"
	}
	return ""
}

func progressBar(th Theme, pct, width int, color lipgloss.Color) string {
	pct = max(0, min(100, pct))
	filled := pct * width / 100
	return lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(th.Muted).Render(strings.Repeat("░", width-filled))
}

func todayView(
	th Theme,
	snap tracker.Snapshot,
	painInput float64,
	ice, nutrition *timer.Countdown,
	notice string,
	now time.Time,
) string {
	var sections []string

	if notice != "" {
		sections = append(sections, th.Card.BorderForeground(th.Yellow).Render(
			th.Status.Render("⏰ "+notice),
		))
	}

	stageColor := th.StageColor(snap.Stage.Index())
	stageLines := []string{
		th.Label.Render("STAGE"),
		lipgloss.NewStyle().Foreground(stageColor).Bold(true).Render(snap.Stage.Title()),
		fmt.Sprintf("%s %d%%", progressBar(th, snap.StageProgress, 30, stageColor), snap.StageProgress),
		th.Dim.Render(fmt.Sprintf("Week %d · avg pain %.1f (7 check-ins)", snap.WeeksInStage, snap.AvgPain)),
	}
	if snap.ReadyToAdvance {
		stageLines = append(stageLines, lipgloss.NewStyle().Foreground(th.Green).Render(
			fmt.Sprintf("Ready to advance to %s", snap.NextStage.Title()),
		))
	}
	sections = append(sections, th.Card.Render(strings.Join(stageLines, "\n")))

	painColor := th.PainColor(painInput)
	painLines := []string{
		th.Label.Render("MORNING CHECK-IN"),
		lipgloss.NewStyle().Foreground(painColor).Bold(true).Render(
			fmt.Sprintf("%s / 10  %s", formatPain(painInput), rehab.PainLabel(painInput)),
		),
		progressBar(th, int(painInput*10), 30, painColor),
	}
	if snap.CheckedInToday {
		painLines = append(painLines, th.Dim.Render("Checked in today"))
	}
	sections = append(sections, th.Card.Render(strings.Join(painLines, "\n")))

	var sessionLines []string
	sessionLines = append(sessionLines, th.Label.Render("TRAINING"))
	switch {
	case snap.NeedsRest:
		sessionLines = append(sessionLines, lipgloss.NewStyle().Foreground(th.Blue).Render(
			"Session done today. Rest, tendons adapt between sessions",
		))
	case snap.DaysSinceLastSession == rehab.NoPriorSession:
		sessionLines = append(sessionLines, th.Text.Render("No sessions yet. Press w to start the first one"))
	default:
		sessionLines = append(sessionLines, th.Text.Render(
			fmt.Sprintf("Last session %d day(s) ago · %d%% MVC", snap.DaysSinceLastSession, snap.Intensity),
		))
	}
	if snap.OverloadReady {
		sessionLines = append(sessionLines, lipgloss.NewStyle().Foreground(th.Green).Render(
			"Pain is settled. Ready for more load",
		))
	}
	if snap.PainIncrease > 0 {
		sessionLines = append(sessionLines, lipgloss.NewStyle().Foreground(th.Orange).Render(
			fmt.Sprintf("Pain up %.1f since the last check-in", snap.PainIncrease),
		))
	}
	sessionLines = append(sessionLines, lipgloss.NewStyle().Foreground(th.Green).Render(
		fmt.Sprintf("🔥 %d day streak", snap.Streak),
	))
	sections = append(sections, th.Card.Render(strings.Join(sessionLines, "\n")))

	sections = append(sections, th.Card.Render(strings.Join([]string{
		th.Label.Render("RECOVERY"),
		countdownLine(th, "Ice", ice, now, th.Blue),
		countdownLine(th, "Collagen window", nutrition, now, th.Yellow),
	}, "\n")))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func countdownLine(th Theme, name string, c *timer.Countdown, now time.Time, color lipgloss.Color) string {
	secs := c.RemainingSeconds(now)
	state := "paused"
	switch {
	case c.Running(now):
		state = "running"
	case c.Done(now):
		state = "done"
	case secs == int(c.Duration()/time.Second):
		state = "ready"
	}
	return fmt.Sprintf("%-16s %s  %s",
		th.Text.Render(name),
		lipgloss.NewStyle().Foreground(color).Bold(true).Render(formatClock(secs)),
		th.Dim.Render(state),
	)
}

func formatClock(secs int) string {
	if secs >= 3600 {
		return fmt.Sprintf("%d:%02d:%02d", secs/3600, secs%3600/60, secs%60)
	}
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

func warningView(th Theme, snap tracker.Snapshot) string {
	lines := []string{
		lipgloss.NewStyle().Bold(true).Render("⚠ PAIN SPIKE"),
		"",
		"Pain has risen over your last check-ins.",
		fmt.Sprintf("Reduce today's load to %d%% MVC, or keep the plan at %d%%?",
			rehab.AdjustIntensity(snap.Intensity), snap.Intensity),
		"",
		"[a] adjust intensity    [k] keep plan",
	}
	return th.Warning.Render(strings.Join(lines, "\n"))
}

func trendsView(th Theme, snap tracker.Snapshot) string {
	var sections []string

	trend := snap.PainTrend
	weekly := []string{th.Label.Render("WEEKLY PAIN")}
	if trend.HasAvg {
		weekly = append(weekly, th.Text.Render(fmt.Sprintf("Last 7 check-ins: %.1f", trend.Avg)))
	} else {
		weekly = append(weekly, th.Dim.Render("No check-ins yet"))
	}
	if trend.HasPrev {
		color := th.Green
		arrow := "↓"
		if trend.Delta > 0 {
			color, arrow = th.Red, "↑"
		}
		weekly = append(weekly, lipgloss.NewStyle().Foreground(color).Render(
			fmt.Sprintf("%s %.1f vs previous 7 (%.1f)", arrow, trend.Delta, trend.PrevAvg),
		))
	}
	sections = append(sections, th.Card.Render(strings.Join(weekly, "\n")))

	sections = append(sections, th.Card.Render(strings.Join([]string{
		th.Label.Render("30-DAY CONSISTENCY"),
		fmt.Sprintf("%s %d%%", progressBar(th, snap.Consistency, 30, th.Green), snap.Consistency),
	}, "\n")))

	tdp := snap.TrainingDayPain
	tdpLines := []string{th.Label.Render("PAIN ON TRAINING DAYS")}
	tdpLines = append(tdpLines, th.Text.Render("Training days:  "+optionalAvg(tdp.TrainingAvg, tdp.HasTraining)))
	tdpLines = append(tdpLines, th.Text.Render("Other days:     "+optionalAvg(tdp.OtherAvg, tdp.HasOther)))
	sections = append(sections, th.Card.Render(strings.Join(tdpLines, "\n")))

	sections = append(sections, th.Card.Render(strings.Join([]string{
		th.Label.Render("INTENSITY (% MVC)"),
		intensityChart(th, snap.IntensityHistory),
	}, "\n")))

	sections = append(sections, th.Card.Render(calendarView(th, snap.Calendar)))
	sections = append(sections, th.Card.Render(historyView(th, snap)))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func optionalAvg(v float64, ok bool) string {
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%.1f", v)
}

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// intensityChart draws one block per session on a 40-100% scale.
func intensityChart(th Theme, values []int) string {
	if len(values) == 0 {
		return th.Dim.Render("No sessions yet")
	}
	var sb strings.Builder
	for _, v := range values {
		idx := (max(40, min(100, v)) - 40) * (len(sparkBlocks) - 1) / 60
		sb.WriteRune(sparkBlocks[idx])
	}
	return lipgloss.NewStyle().Foreground(th.Green).Render(sb.String()) +
		th.Dim.Render(fmt.Sprintf("  last %d%%", values[len(values)-1]))
}

func calendarView(th Theme, cal rehab.MonthCalendar) string {
	var sb strings.Builder
	sb.WriteString(th.Label.Render(strings.ToUpper(fmt.Sprintf("%s %d", cal.Month, cal.Year))))
	sb.WriteString("\n")
	sb.WriteString(th.Dim.Render(" Su Mo Tu We Th Fr Sa"))
	sb.WriteString("\n")

	col := int(cal.FirstWeekday)
	sb.WriteString(strings.Repeat("   ", col))
	for _, d := range cal.Days {
		style := th.Dim
		switch {
		case d.Session:
			style = lipgloss.NewStyle().Foreground(th.Green).Bold(true)
		case d.RestDay:
			style = lipgloss.NewStyle().Foreground(th.Blue)
		}
		if d.Today {
			style = style.Underline(true)
		}
		sb.WriteString(style.Render(fmt.Sprintf("%3d", d.Day)))
		col++
		if col == 7 {
			sb.WriteString("\n")
			col = 0
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func historyView(th Theme, snap tracker.Snapshot) string {
	lines := []string{th.Label.Render("RECENT CHECK-INS")}
	recent := snap.PainLog.Last(7)
	if len(recent) == 0 {
		lines = append(lines, th.Dim.Render("None yet"))
	}
	for i := len(recent) - 1; i >= 0; i-- {
		e := recent[i]
		lines = append(lines, fmt.Sprintf("%s  %s  %s",
			th.Dim.Render(e.Date),
			lipgloss.NewStyle().Foreground(th.PainColor(e.Value)).Render(fmt.Sprintf("%4s", formatPain(e.Value))),
			th.Text.Render(e.Label),
		))
	}

	lines = append(lines, "", th.Label.Render("RECENT SESSIONS"))
	sessions := snap.Sessions.Recent(5)
	if len(sessions) == 0 {
		lines = append(lines, th.Dim.Render("None yet"))
	}
	for i := len(sessions) - 1; i >= 0; i-- {
		s := sessions[i]
		line := fmt.Sprintf("#%-3d %s  %d ex · %d sets · %d%% · %d min",
			s.ID, s.Date, s.Exercises, s.TotalSets, s.Intensity, s.Duration)
		if s.Notes != "" {
			line += "  " + th.Dim.Render(s.Notes)
		}
		lines = append(lines, th.Text.Render(line))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) profileView(th Theme, now time.Time) string {
	snap := m.snap
	var sections []string

	sections = append(sections, th.Card.Render(strings.Join([]string{
		th.Label.Render("PROGRESS"),
		th.Text.Render(fmt.Sprintf("Day %d of rehab", snap.DaysSinceStart)),
		th.Text.Render(fmt.Sprintf("%s (phase %d) · week %d", snap.Stage.Title(), snap.Stage.Phase(), snap.WeeksInStage)),
		th.Text.Render(fmt.Sprintf("%d sessions · %d check-ins", len(snap.Sessions), len(snap.PainLog))),
	}, "\n")))

	settings := snap.Settings
	if m.editingSettings {
		settings = m.draft
	}
	fields := []string{
		fmt.Sprintf("Hold  %ds", settings.HoldSecs),
		fmt.Sprintf("Rest  %ds", settings.RestSecs),
		fmt.Sprintf("Sets  %d", settings.TotalSets),
	}
	settingsLines := []string{th.Label.Render("WORKOUT SETTINGS")}
	for i, f := range fields {
		if m.editingSettings && i == m.draftField {
			settingsLines = append(settingsLines, th.Selected.Render("› "+f))
			continue
		}
		settingsLines = append(settingsLines, th.Text.Render("  "+f))
	}
	sections = append(sections, th.Card.Render(strings.Join(settingsLines, "\n")))

	reminderLine := "Morning Check-In  off"
	if snap.ReminderEnabled {
		reminderLine = "Morning Check-In  on"
		if m.reminder != nil {
			reminderLine += th.Dim.Render("  next " + m.reminder.Next(now).Format("Mon 02 Jan 15:04"))
		}
	}
	theme := "light"
	if snap.DarkMode {
		theme = "dark"
	}
	sections = append(sections, th.Card.Render(strings.Join([]string{
		th.Label.Render("PREFERENCES"),
		th.Text.Render(reminderLine),
		th.Text.Render("Theme             " + theme),
	}, "\n")))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
