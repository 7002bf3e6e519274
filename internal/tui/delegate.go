package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Makepad-fr/aidir/internal/model"
	"github.com/Makepad-fr/aidir/internal/ui"
)

// companyItem adapts model.Company to bubbles/list.Item.
type companyItem struct {
	c model.Company
}

func (i companyItem) Title() string       { return i.c.Name }
func (i companyItem) Description() string { return i.c.HeroTagline }
func (i companyItem) FilterValue() string { return i.c.Name }

// cardDelegate renders each company as a three line card.
type cardDelegate struct{}

func (d cardDelegate) Height() int                               { return 3 }
func (d cardDelegate) Spacing() int                              { return 1 }
func (d cardDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d cardDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(companyItem)
	if !ok {
		return
	}
	t := ui.Current()
	width := m.Width() - 2
	if width < 10 {
		width = 10
	}
	clip := lipgloss.NewStyle().MaxWidth(width)

	name := t.Title.Render(it.c.Name)
	if badges := ui.Badges(it.c); badges != "" {
		name += "  " + badges
	}
	lines := []string{
		name,
		it.c.HeroTagline,
		t.Muted.Render(it.c.SubTagline),
	}

	prefix := "  "
	if index == m.Index() {
		prefix = t.Selected.Render(t.SymCursor) + " "
	}
	for i, ln := range lines {
		p := prefix
		if i > 0 {
			p = strings.Repeat(" ", lipgloss.Width(prefix))
		}
		lines[i] = p + clip.Render(ln)
	}
	fmt.Fprint(w, strings.Join(lines, "\n"))
}
