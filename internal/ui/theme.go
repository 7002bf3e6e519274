package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Makepad-fr/aidir/internal/model"
)

// Theme bundles palette, symbols and box borders.
// All renderers pull from `current`.
type Theme struct {
	Name string

	Title, Heading, Muted, Accent lipgloss.Style
	Success, Error, Pending       lipgloss.Style
	Selected, Link                lipgloss.Style

	Border      lipgloss.Border
	BorderColor lipgloss.TerminalColor

	SymCheck, SymCross, SymCursor, SymBullet, SymBack string

	badges map[model.Capability]badgeColors
}

// badgeColors is the soft (idle) and strong (active) pair of a capability.
type badgeColors struct {
	softFg, softBg, strongBg lipgloss.TerminalColor
}

var themeNames = []string{"classic", "neon", "mono"}

// ThemeNames lists the accepted --theme values.
func ThemeNames() []string { return append([]string(nil), themeNames...) }

// KnownTheme reports whether name is one of ThemeNames, case-insensitively.
func KnownTheme(name string) bool {
	for _, n := range themeNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return true
		}
	}
	return false
}

var current = classic()

// SetTheme switches the palette; unknown names fall back to classic.
func SetTheme(name string) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "neon":
		current = neon()
	case "mono":
		current = mono()
	default:
		current = classic()
	}
}

// Current returns the active theme.
func Current() Theme { return current }

// Badge styles the tag of cp; active is the filled variant used by the
// selected filter button.
func (t Theme) Badge(cp model.Capability, active bool) lipgloss.Style {
	s := lipgloss.NewStyle().Padding(0, 1)
	c, ok := t.badges[cp]
	if !ok {
		if active {
			return s.Bold(true).Reverse(true)
		}
		return s
	}
	if active {
		return s.Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(c.strongBg)
	}
	return s.Foreground(c.softFg).Background(c.softBg)
}

// Button styles a filter button that is not tied to a capability ("All").
func (t Theme) Button(active bool) lipgloss.Style {
	s := lipgloss.NewStyle().Padding(0, 1)
	if active {
		return s.Inherit(t.Selected)
	}
	return s.Inherit(t.Muted)
}

func classic() Theme {
	return Theme{
		Name:        "classic",
		Title:       lipgloss.NewStyle().Bold(true),
		Heading:     lipgloss.NewStyle().Bold(true).Underline(true),
		Muted:       lipgloss.NewStyle().Faint(true),
		Accent:      lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Success:     lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Error:       lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Pending:     lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Selected:    lipgloss.NewStyle().Bold(true).Reverse(true),
		Link:        lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Underline(true),
		Border:      lipgloss.RoundedBorder(),
		BorderColor: lipgloss.Color("8"),
		SymCheck:    "✔", SymCross: "✖", SymCursor: ">", SymBullet: "•", SymBack: "←",
		badges: map[model.Capability]badgeColors{
			model.Inference:  {lipgloss.Color("#1E40AF"), lipgloss.Color("#DBEAFE"), lipgloss.Color("#3B82F6")},
			model.GPUs:       {lipgloss.Color("#166534"), lipgloss.Color("#DCFCE7"), lipgloss.Color("#22C55E")},
			model.Web3:       {lipgloss.Color("#6B21A8"), lipgloss.Color("#F3E8FF"), lipgloss.Color("#A855F7")},
			model.Finetuning: {lipgloss.Color("#92400E"), lipgloss.Color("#FEF3C7"), lipgloss.Color("#F59E0B")},
		},
	}
}

func neon() Theme {
	t := classic()
	t.Name = "neon"
	t.Title = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	t.Accent = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	t.Pending = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	t.Link = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Underline(true)
	t.BorderColor = lipgloss.Color("13")
	t.badges = map[model.Capability]badgeColors{
		model.Inference:  {lipgloss.Color("14"), lipgloss.Color("236"), lipgloss.Color("33")},
		model.GPUs:       {lipgloss.Color("10"), lipgloss.Color("236"), lipgloss.Color("34")},
		model.Web3:       {lipgloss.Color("13"), lipgloss.Color("236"), lipgloss.Color("129")},
		model.Finetuning: {lipgloss.Color("11"), lipgloss.Color("236"), lipgloss.Color("172")},
	}
	return t
}

func mono() Theme {
	plain := lipgloss.NewStyle()
	return Theme{
		Name:        "mono",
		Title:       plain.Bold(true),
		Heading:     plain.Bold(true),
		Muted:       plain,
		Accent:      plain,
		Success:     plain,
		Error:       plain.Bold(true),
		Pending:     plain,
		Selected:    plain.Reverse(true),
		Link:        plain.Underline(true),
		Border:      lipgloss.NormalBorder(),
		BorderColor: lipgloss.NoColor{},
		SymCheck:    "ok", SymCross: "x", SymCursor: ">", SymBullet: "-", SymBack: "<-",
	}
}
