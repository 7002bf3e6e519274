// Package tui is the interactive company browser: a list screen with
// capability filters and a detail screen per company.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/Makepad-fr/aidir/internal/directory"
	"github.com/Makepad-fr/aidir/internal/model"
	"github.com/Makepad-fr/aidir/internal/ui"
)

type screen int

const (
	screenList screen = iota
	screenDetail
)

// chrome is the number of rows taken by the header, help and panel border.
const chrome = 8

// Model is the bubbletea model of the browser. The view-models are owned by
// the event loop; queries run in commands and come back as messages.
type Model struct {
	ctx context.Context
	log zerolog.Logger

	listVM   *directory.ListView
	detailVM *directory.DetailView

	screen    screen
	companies list.Model
	viewport  viewport.Model
	spinner   spinner.Model
	help      help.Model
	keys      keyMap

	width, height int
	now           func() time.Time
}

// New builds the browser on client. ctx bounds every query it issues.
func New(ctx context.Context, client directory.Client, logger zerolog.Logger) Model {
	l := list.New(nil, cardDelegate{}, 0, 0)
	l.Title = "AI Companies"
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowPagination(true)
	l.DisableQuitKeybindings()
	l.Styles.PaginationStyle = ui.Current().Muted

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = ui.Current().Pending

	w, h := ui.TermSize()
	m := Model{
		ctx:       ctx,
		log:       logger,
		listVM:    directory.NewListView(client, directory.WithLogger(logger)),
		detailVM:  directory.NewDetailView(client, directory.WithLogger(logger)),
		companies: l,
		viewport:  viewport.New(w, h-chrome),
		spinner:   sp,
		help:      help.New(),
		keys:      defaultKeys(),
		now:       time.Now,
	}
	m.resize(w, h)
	return m
}

// Run starts the full-screen program and blocks until the user quits.
func Run(ctx context.Context, client directory.Client, logger zerolog.Logger) error {
	p := tea.NewProgram(New(ctx, client, logger), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.mountList(), m.spinner.Tick)
}

// mountList starts a fresh list load and returns the command that runs it.
func (m Model) mountList() tea.Cmd {
	req := m.listVM.Mount()
	ctx := m.ctx
	return func() tea.Msg { return req.Run(ctx) }
}

// openDetail switches to the detail screen and starts loading id.
func (m *Model) openDetail(id string) tea.Cmd {
	req, ok := m.detailVM.Begin(id)
	if !ok {
		return nil
	}
	m.screen = screenDetail
	m.viewport.SetContent("")
	m.viewport.GotoTop()
	ctx := m.ctx
	return tea.Batch(func() tea.Msg { return req.Run(ctx) }, m.spinner.Tick)
}

// back tears the detail screen down and remounts the list.
func (m *Model) back() tea.Cmd {
	m.detailVM.Unmount()
	m.screen = screenList
	m.companies.SetItems(nil)
	return tea.Batch(m.mountList(), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case directory.ListLoaded:
		if m.listVM.Apply(msg) {
			m.syncItems()
		}
		return m, nil

	case directory.DetailLoaded:
		if m.detailVM.Apply(msg) {
			m.refreshDetail()
		}
		return m, nil

	case spinner.TickMsg:
		if !m.listVM.Loading() && !m.detailVM.Loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		if key.Matches(msg, m.keys.Help) {
			m.help.ShowAll = !m.help.ShowAll
			m.resize(m.width, m.height)
			return m, nil
		}
		if m.screen == screenDetail {
			return m.updateDetail(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	for i, b := range m.keys.Filter {
		if key.Matches(msg, b) {
			m.setFilter(directory.Filters()[i])
			return m, nil
		}
	}
	switch {
	case key.Matches(msg, m.keys.Next):
		m.setFilter(m.listVM.Filter().Next())
		return m, nil
	case key.Matches(msg, m.keys.Prev):
		m.setFilter(m.listVM.Filter().Prev())
		return m, nil
	case key.Matches(msg, m.keys.Reload):
		if m.listVM.Loading() {
			return m, nil
		}
		m.companies.SetItems(nil)
		return m, tea.Batch(m.mountList(), m.spinner.Tick)
	case key.Matches(msg, m.keys.Open):
		if it, ok := m.companies.SelectedItem().(companyItem); ok && m.listVM.Phase() == directory.PhaseReady {
			cmd := m.openDetail(it.c.ID)
			return m, cmd
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.companies, cmd = m.companies.Update(msg)
	return m, cmd
}

func (m Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		cmd := m.back()
		return m, cmd
	case key.Matches(msg, m.keys.Reload):
		if m.detailVM.Loading() {
			return m, nil
		}
		cmd := m.openDetail(m.detailVM.ID())
		return m, cmd
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// setFilter changes the selection and resets the cursor to the first card.
func (m *Model) setFilter(f directory.Filter) {
	m.listVM.SetFilter(f)
	m.syncItems()
	m.log.Debug().Str("filter", f.String()).Msg("filter changed")
}

func (m *Model) syncItems() {
	rows := m.listVM.Companies()
	items := make([]list.Item, 0, len(rows))
	for _, c := range rows {
		items = append(items, companyItem{c: c})
	}
	m.companies.SetItems(items)
	m.companies.ResetSelected()
}

func (m *Model) refreshDetail() {
	m.viewport.SetContent(ui.CompanyDetail(m.detailVM.Data(), m.contentWidth(), m.now()))
	m.viewport.GotoTop()
}

func (m *Model) resize(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	m.width, m.height = w, h
	m.help.Width = m.contentWidth()
	bodyH := h - chrome - lipgloss.Height(m.helpView()) + 1
	if bodyH < 3 {
		bodyH = 3
	}
	m.companies.SetSize(m.contentWidth(), bodyH)
	m.viewport.Width = m.contentWidth()
	m.viewport.Height = bodyH
	if m.detailVM.Data() != nil {
		m.viewport.SetContent(ui.CompanyDetail(m.detailVM.Data(), m.contentWidth(), m.now()))
	}
}

// contentWidth is the width inside the panel border and padding.
func (m Model) contentWidth() int {
	if m.width <= 4 {
		return 1
	}
	return m.width - 4
}

func (m Model) helpView() string {
	if m.screen == screenDetail {
		return m.help.View(detailKeys{m.keys})
	}
	return m.help.View(listKeys{m.keys})
}

func (m Model) View() string {
	var body string
	if m.screen == screenDetail {
		body = m.detailView()
	} else {
		body = m.listView()
	}
	return ui.Panel([]string{body, "", m.helpView()}, m.width)
}

func (m Model) listView() string {
	t := ui.Current()
	header := t.Title.Render("AI Companies")
	switch m.listVM.Phase() {
	case directory.PhaseIdle, directory.PhaseLoading:
		return header + "\n\n" + m.spinner.View() + " " + ui.MsgLoadingCompanies
	case directory.PhaseFailed:
		return header + "\n\n" + t.Error.Render(m.listVM.Err()) + "\n" + t.Muted.Render("press r to retry")
	}

	shown, total := m.listVM.Counts()
	out := header + "\n" + ui.FilterBar(m.listVM.Filter()) + "\n" +
		t.Muted.Render(ui.CountLine(shown, total)) + "  " + ui.ProgressBar(shown, total, 12) + "\n\n"
	if m.listVM.NoMatches() {
		return out + ui.MsgNoMatches
	}
	return out + m.companies.View()
}

func (m Model) detailView() string {
	t := ui.Current()
	back := t.Accent.Render(t.SymBack + " " + ui.BackLabel)
	switch m.detailVM.Phase() {
	case directory.PhaseIdle, directory.PhaseLoading:
		return back + "\n\n" + m.spinner.View() + " " + ui.MsgLoadingDetail
	case directory.PhaseFailed:
		return back + "\n\n" + t.Error.Render(m.detailVM.Err())
	}
	return back + "\n\n" + m.viewport.View()
}

// Selected returns the company under the list cursor, if any.
func (m Model) Selected() (model.Company, bool) {
	it, ok := m.companies.SelectedItem().(companyItem)
	return it.c, ok
}
