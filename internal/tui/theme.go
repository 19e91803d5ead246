package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme is handed to every view explicitly; there is no package-level
// current theme.
type Theme struct {
	Dark bool

	Green     lipgloss.Color
	Blue      lipgloss.Color
	Yellow    lipgloss.Color
	Red       lipgloss.Color
	Orange    lipgloss.Color
	Purple    lipgloss.Color
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Muted     lipgloss.Color
	Border    lipgloss.Color
	Streak    lipgloss.Color

	Title    lipgloss.Style
	Label    lipgloss.Style
	Text     lipgloss.Style
	Dim      lipgloss.Style
	Card     lipgloss.Style
	TabOn    lipgloss.Style
	TabOff   lipgloss.Style
	Status   lipgloss.Style
	Warning  lipgloss.Style
	Help     lipgloss.Style
	Selected lipgloss.Style
}

func DarkTheme() Theme {
	return newTheme(true, palette{
		green: "#B2FF00", blue: "#3b82f6", yellow: "#eab308",
		red: "#ef4444", orange: "#f97316", purple: "#a855f7",
		primary: "#f2f2f2", secondary: "#777777", muted: "#3a3a3a",
		border: "#222222", streak: "#0f1a00",
	})
}

func LightTheme() Theme {
	return newTheme(false, palette{
		green: "#5a9200", blue: "#2563eb", yellow: "#ca8a04",
		red: "#dc2626", orange: "#ea580c", purple: "#9333ea",
		primary: "#0a0a0a", secondary: "#666666", muted: "#bbbbbb",
		border: "#e0e0e0", streak: "#f0f7e0",
	})
}

func ThemeFor(dark bool) Theme {
	if dark {
		return DarkTheme()
	}
	return LightTheme()
}

type palette struct {
	green, blue, yellow, red, orange, purple  string
	primary, secondary, muted, border, streak string
}

func newTheme(dark bool, p palette) Theme {
	th := Theme{
		Dark:      dark,
		Green:     lipgloss.Color(p.green),
		Blue:      lipgloss.Color(p.blue),
		Yellow:    lipgloss.Color(p.yellow),
		Red:       lipgloss.Color(p.red),
		Orange:    lipgloss.Color(p.orange),
		Purple:    lipgloss.Color(p.purple),
		Primary:   lipgloss.Color(p.primary),
		Secondary: lipgloss.Color(p.secondary),
		Muted:     lipgloss.Color(p.muted),
		Border:    lipgloss.Color(p.border),
		Streak:    lipgloss.Color(p.streak),
	}

	th.Title = lipgloss.NewStyle().Bold(true).Foreground(th.Primary)
	th.Label = lipgloss.NewStyle().Bold(true).Foreground(th.Secondary)
	th.Text = lipgloss.NewStyle().Foreground(th.Primary)
	th.Dim = lipgloss.NewStyle().Foreground(th.Secondary)
	th.Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(th.Border).
		Padding(0, 1).
		MarginBottom(1)
	th.TabOn = lipgloss.NewStyle().Bold(true).Foreground(th.Green).Underline(true).Padding(0, 1)
	th.TabOff = lipgloss.NewStyle().Foreground(th.Secondary).Padding(0, 1)
	th.Status = lipgloss.NewStyle().Foreground(th.Yellow)
	th.Warning = lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(th.Red).
		Foreground(th.Red).
		Padding(1, 2)
	th.Help = lipgloss.NewStyle().Foreground(th.Muted)
	th.Selected = lipgloss.NewStyle().Bold(true).Foreground(th.Green)
	return th
}

// PainColor grades a pain value the way check-in labels do.
func (th Theme) PainColor(value float64) lipgloss.Color {
	switch {
	case value <= 3:
		return th.Green
	case value <= 6:
		return th.Yellow
	default:
		return th.Red
	}
}

// StageColor is the accent of a protocol phase.
func (th Theme) StageColor(index int) lipgloss.Color {
	switch index {
	case 0:
		return th.Green
	case 1:
		return th.Blue
	case 2:
		return th.Orange
	default:
		return th.Purple
	}
}

// GlamourStyle names the glamour standard style matching the theme.
func (th Theme) GlamourStyle() string {
	if th.Dark {
		return "dark"
	}
	return "light"
}
