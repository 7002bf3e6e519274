package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/Makepad-fr/aidir/internal/directory"
	"github.com/Makepad-fr/aidir/internal/model"
)

// Fixed texts of the two screens.
const (
	MsgLoadingCompanies = "Loading companies..."
	MsgLoadingDetail    = "Loading company details..."
	MsgNoMatches        = "No companies match the selected filter"
	BackLabel           = "Back to companies"
)

// FilterBar renders the five filter buttons with active highlighted.
func FilterBar(active directory.Filter) string {
	t := Current()
	parts := make([]string, 0, 5)
	for _, f := range directory.Filters() {
		on := f == active
		label := f.Label()
		if t.Name == "mono" && on {
			label = "[" + label + "]"
		}
		if cp, ok := f.Capability(); ok {
			parts = append(parts, t.Badge(cp, on).Render(label))
			continue
		}
		parts = append(parts, t.Button(on).Render(label))
	}
	return strings.Join(parts, " ")
}

// CountLine is the "Showing N of M companies" line.
func CountLine(shown, total int) string {
	return fmt.Sprintf("Showing %d of %d companies", shown, total)
}

// Badges renders the capability tags c offers, in display order.
func Badges(c model.Company) string {
	t := Current()
	caps := c.Capabilities()
	parts := make([]string, 0, len(caps))
	for _, cp := range caps {
		parts = append(parts, t.Badge(cp, false).Render(cp.Label()))
	}
	return strings.Join(parts, " ")
}

// CompanyCard renders the list entry of c. width <= 0 disables wrapping.
func CompanyCard(c model.Company, width int) string {
	t := Current()
	lines := []string{t.Title.Render(c.Name)}
	if c.HeroTagline != "" {
		lines = append(lines, wrap(c.HeroTagline, width))
	}
	if c.SubTagline != "" {
		lines = append(lines, t.Muted.Render(wrap(c.SubTagline, width)))
	}
	if b := Badges(c); b != "" {
		lines = append(lines, b)
	}
	return strings.Join(lines, "\n")
}

// CompanyList renders the whole list screen body in its current phase.
func CompanyList(v *directory.ListView, width int) string {
	t := Current()
	switch v.Phase() {
	case directory.PhaseIdle, directory.PhaseLoading:
		return t.Pending.Render(MsgLoadingCompanies)
	case directory.PhaseFailed:
		return t.Error.Render(v.Err())
	}

	shown, total := v.Counts()
	out := []string{FilterBar(v.Filter()), t.Muted.Render(CountLine(shown, total)), ""}
	if v.NoMatches() {
		return strings.Join(append(out, MsgNoMatches), "\n")
	}
	for _, c := range v.Companies() {
		out = append(out, CompanyCard(c, width), "")
	}
	return strings.TrimRight(strings.Join(out, "\n"), "\n")
}

// CompanyDetail renders a loaded detail page. Related sections with no rows
// are left out.
func CompanyDetail(d *directory.Detail, width int, now time.Time) string {
	if d == nil {
		return ""
	}
	t := Current()
	c := d.Company

	var b strings.Builder
	b.WriteString(t.Title.Render(c.Name))
	if c.HeroTagline != "" {
		b.WriteString("\n" + lipgloss.NewStyle().Bold(true).Render(wrap(c.HeroTagline, width)))
	}
	if c.SubTagline != "" {
		b.WriteString("\n" + t.Muted.Render(wrap(c.SubTagline, width)))
	}
	if badges := Badges(c); badges != "" {
		b.WriteString("\n\n" + badges)
	}
	if c.Website != "" {
		section(&b, "Website", t.Link.Render(c.Website))
	}
	if c.CompetitiveAdvantage != "" {
		section(&b, "Competitive Advantage", wrap(c.CompetitiveAdvantage, width))
	}
	if len(c.Products) > 0 {
		items := make([]string, 0, len(c.Products))
		for _, p := range c.Products {
			items = append(items, t.SymBullet+" "+p)
		}
		section(&b, "Products (from main table)", strings.Join(items, "\n"))
	}
	if stamps := timestamps(c, now); stamps != "" {
		b.WriteString("\n\n" + t.Muted.Render(stamps))
	}

	if len(d.Products) > 0 {
		items := make([]string, 0, len(d.Products))
		for _, p := range d.Products {
			item := t.Title.Render(p.Name)
			if p.Description != "" {
				item += "\n" + wrap(p.Description, width)
			}
			items = append(items, item)
		}
		section(&b, "Products", strings.Join(items, "\n\n"))
	}
	if len(d.PricingPlans) > 0 {
		section(&b, "Pricing Models", PricingTable(d.PricingPlans))
	}
	if len(d.Customers) > 0 {
		names := make([]string, 0, len(d.Customers))
		for _, cu := range d.Customers {
			names = append(names, t.Selected.UnsetReverse().Padding(0, 1).Render(cu.Name))
		}
		section(&b, "Notable Customers", wrap(strings.Join(names, " "), width))
	}
	return b.String()
}

// PricingTable renders plans as Plan/Price/Details rows; empty details show
// as N/A.
func PricingTable(plans []model.PricingPlan) string {
	t := Current()
	rows := make([][]string, 0, len(plans))
	for _, p := range plans {
		details := p.Details
		if details == "" {
			details = "N/A"
		}
		rows = append(rows, []string{p.Name, p.Price, details})
	}
	return table.New().
		Border(t.Border).
		BorderStyle(lipgloss.NewStyle().Foreground(t.BorderColor)).
		Headers("PLAN", "PRICE", "DETAILS").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return s.Inherit(t.Muted)
			}
			if col == 0 {
				return s.Bold(true)
			}
			return s
		}).
		String()
}

// DetailScreen renders the detail page body in its current phase.
func DetailScreen(v *directory.DetailView, width int, now time.Time) string {
	t := Current()
	back := t.Accent.Render(t.SymBack + " " + BackLabel)
	switch v.Phase() {
	case directory.PhaseIdle, directory.PhaseLoading:
		return t.Pending.Render(MsgLoadingDetail)
	case directory.PhaseFailed:
		return t.Error.Render(v.Err()) + "\n\n" + back
	}
	return back + "\n\n" + CompanyDetail(v.Data(), width, now)
}

func section(b *strings.Builder, title, body string) {
	b.WriteString("\n\n" + Current().Heading.Render(title) + "\n" + body)
}

func timestamps(c model.Company, now time.Time) string {
	var parts []string
	if c.CreatedAt != nil {
		parts = append(parts, "Added "+humanize.RelTime(*c.CreatedAt, now, "ago", "from now"))
	}
	if c.UpdatedAt != nil {
		parts = append(parts, "updated "+humanize.RelTime(*c.UpdatedAt, now, "ago", "from now"))
	}
	return strings.Join(parts, ", ")
}

func wrap(s string, width int) string {
	if width <= 0 {
		return s
	}
	return lipgloss.NewStyle().Width(width).Render(s)
}
