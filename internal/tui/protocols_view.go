package tui

import (
	"fmt"
	"strings"

	"github.com/2beens/kneerehab/internal/rehab"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	log "github.com/sirupsen/logrus"
)

// protocolMarkdown renders one protocol phase as a markdown document.
func protocolMarkdown(p rehab.Protocol, current bool) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", p.Title)
	fmt.Fprintf(&sb, "*%s* · **%s**", p.Weeks, p.Goal)
	if current {
		sb.WriteString(" · current")
	}
	sb.WriteString("\n\n")
	sb.WriteString(p.Description)
	sb.WriteString("\n\n")

	sb.WriteString("| Exercise | Sets | Reps | Rest | Intensity |\n")
	sb.WriteString("|---|---|---|---|---|\n")
	for _, rx := range p.Prescriptions {
		fmt.Fprintf(&sb, "| %s | %d | %s | %s | %s |\n", rx.Name, rx.Sets, rx.Reps, rx.Rest, rx.Intensity)
	}

	if c := p.Stage.Criteria(); c.Next != "" {
		fmt.Fprintf(&sb, "\n> Advance after %d weeks with average pain at or below %.0f.\n", c.MinWeeks, c.MaxAvgPain)
	}
	return sb.String()
}

// markdownRenderer returns a glamour renderer for the theme and width,
// reusing the previous one while neither changes.
func (m *Model) markdownRenderer(th Theme) (*glamour.TermRenderer, error) {
	wrap := max(40, m.width-4)
	key := fmt.Sprintf("%s/%d", th.GlamourStyle(), wrap)
	if m.renderer != nil && m.rendererKey == key {
		return m.renderer, nil
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(th.GlamourStyle()),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return nil, err
	}
	m.renderer, m.rendererKey = r, key
	return r, nil
}

func (m *Model) protocolsView(th Theme) string {
	protocols := rehab.Protocols()
	idx := max(0, min(len(protocols)-1, m.protocolIdx))
	p := protocols[idx]

	phases := make([]string, 0, len(protocols))
	for i, pr := range protocols {
		style := th.TabOff
		if i == idx {
			style = lipgloss.NewStyle().Bold(true).Foreground(th.StageColor(i)).Padding(0, 1)
		}
		phases = append(phases, style.Render(string(pr.Stage)))
	}

	md := protocolMarkdown(p, p.Stage == m.snap.Stage)
	rendered := md
	if r, err := m.markdownRenderer(th); err != nil {
		log.Warnf("protocol markdown renderer: %s", err)
	} else if out, err := r.Render(md); err != nil {
		log.Warnf("render protocol %s: %s", p.Stage, err)
	} else {
		rendered = out
	}

	advance := th.Dim.Render(fmt.Sprintf("Current: %s · week %d · avg pain %.1f",
		m.snap.Stage.Title(), m.snap.WeeksInStage, m.snap.AvgPain))
	if m.snap.ReadyToAdvance {
		advance = lipgloss.NewStyle().Foreground(th.Green).Render(
			fmt.Sprintf("Criteria met. Press a to advance to %s", m.snap.NextStage.Title()),
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, phases...),
		rendered,
		advance,
	)
}
