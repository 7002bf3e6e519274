package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ProgressBar renders a bar with a done/total count. Used for the share of
// companies the active filter keeps.
func ProgressBar(done, total, width int) string {
	if total <= 0 {
		total = 1
	}
	if width < 5 {
		width = 5
	}
	if done < 0 {
		done = 0
	}
	filled := int(float64(done) / float64(total) * float64(width))
	if filled > width {
		filled = width
	}
	t := Current()
	bar := t.Accent.Render(strings.Repeat("█", filled)) + t.Muted.Render(strings.Repeat("░", width-filled))
	return fmt.Sprintf("%s %3d%%", bar, done*100/total)
}

// Panel frames lines in the theme border. width <= 0 sizes to content.
func Panel(lines []string, width int) string {
	t := Current()
	st := lipgloss.NewStyle().
		Border(t.Border).
		BorderForeground(t.BorderColor).
		Padding(0, 1)
	if width > 0 {
		// Width excludes the border itself.
		st = st.Width(width - 2)
	}
	return st.Render(strings.Join(lines, "\n"))
}
