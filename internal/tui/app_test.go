package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/Makepad-fr/aidir/internal/directory"
	"github.com/Makepad-fr/aidir/internal/directory/mocks"
	"github.com/Makepad-fr/aidir/internal/model"
	"github.com/Makepad-fr/aidir/internal/ui"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

var acmeBeta = []model.Company{
	{ID: "a", Name: "Acme", OffersGPUs: true},
	{ID: "b", Name: "Beta", OffersWeb3: true},
}

func newModel(t *testing.T) (Model, *mocks.MockClient) {
	t.Helper()
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)
	m := New(context.Background(), client, zerolog.Nop())
	m = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	return m, client
}

// send delivers msg and then every message its command chain produces,
// except spinner ticks and quit.
func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(Model)
	for _, out := range run(cmd) {
		m = send(t, m, out)
	}
	return m
}

func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range msg {
			out = append(out, run(c)...)
		}
		return out
	case directory.ListLoaded, directory.DetailLoaded:
		return []tea.Msg{msg}
	default:
		return nil
	}
}

func keyRunes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func mounted(t *testing.T, m Model, client *mocks.MockClient, rows []model.Company) Model {
	t.Helper()
	client.EXPECT().ListCompanies(gomock.Any()).Return(rows, nil)
	return send(t, m, m.mountList()())
}

func TestList_LoadingThenReady(t *testing.T) {
	m, client := newModel(t)

	req := m.listVM.Mount()
	assert.Contains(t, m.View(), ui.MsgLoadingCompanies)

	client.EXPECT().ListCompanies(gomock.Any()).Return(acmeBeta, nil)
	m = send(t, m, req.Run(context.Background()))

	view := m.View()
	assert.Contains(t, view, "Showing 2 of 2 companies")
	assert.Contains(t, view, "Acme")
	assert.Contains(t, view, "Beta")
}

func TestList_Failure(t *testing.T) {
	m, client := newModel(t)
	client.EXPECT().ListCompanies(gomock.Any()).Return(nil, errors.New("boom"))
	m = send(t, m, m.mountList()())

	assert.Contains(t, m.View(), directory.MsgListFailed)

	// r retries.
	client.EXPECT().ListCompanies(gomock.Any()).Return(acmeBeta, nil)
	m = send(t, m, keyRunes("r"))
	assert.Contains(t, m.View(), "Showing 2 of 2 companies")
}

func TestList_FilterKeys(t *testing.T) {
	m, client := newModel(t)
	m = mounted(t, m, client, acmeBeta)

	m = send(t, m, keyRunes("3")) // gpus
	assert.Equal(t, directory.FilterFor(model.GPUs), m.listVM.Filter())
	assert.Contains(t, m.View(), "Showing 1 of 2 companies")
	assert.Len(t, m.companies.Items(), 1)

	m = send(t, m, tea.KeyMsg{Type: tea.KeyTab}) // web3
	assert.Equal(t, directory.FilterFor(model.Web3), m.listVM.Filter())
	sel, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, "Beta", sel.Name)

	m = send(t, m, tea.KeyMsg{Type: tea.KeyTab}) // finetuning
	assert.True(t, m.listVM.NoMatches())
	assert.Contains(t, m.View(), ui.MsgNoMatches)

	m = send(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, directory.FilterFor(model.Web3), m.listVM.Filter())

	m = send(t, m, keyRunes("1"))
	assert.True(t, m.listVM.Filter().IsAll())
	assert.Len(t, m.companies.Items(), 2)
}

func TestOpenDetailAndBack(t *testing.T) {
	m, client := newModel(t)
	m = mounted(t, m, client, acmeBeta)

	client.EXPECT().GetCompany(gomock.Any(), "a").Return(model.Company{ID: "a", Name: "Acme", Website: "https://acme.example"}, nil)
	client.EXPECT().ListCustomers(gomock.Any(), "a").Return([]model.Customer{{ID: "c", CompanyID: "a", Name: "Initech"}}, nil)
	client.EXPECT().ListProducts(gomock.Any(), "a").Return(nil, errors.New("boom"))
	client.EXPECT().ListPricingPlans(gomock.Any(), "a").Return(nil, nil)

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, screenDetail, m.screen)
	assert.Equal(t, directory.PhaseReady, m.detailVM.Phase())
	view := m.View()
	assert.Contains(t, view, ui.BackLabel)
	assert.Contains(t, view, "https://acme.example")
	assert.Contains(t, view, "Notable Customers")
	assert.NotContains(t, view, "Pricing Models")

	// Going back remounts the list: fresh query, filter reset.
	client.EXPECT().ListCompanies(gomock.Any()).Return(acmeBeta, nil)
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, screenList, m.screen)
	assert.Equal(t, directory.PhaseIdle, m.detailVM.Phase())
	assert.True(t, m.listVM.Filter().IsAll())
	assert.Contains(t, m.View(), "Showing 2 of 2 companies")
}

func TestDetailNotFound(t *testing.T) {
	m, client := newModel(t)
	m = mounted(t, m, client, acmeBeta)

	client.EXPECT().GetCompany(gomock.Any(), "a").Return(model.Company{}, directory.ErrNotFound)
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.True(t, m.detailVM.NotFound())
	assert.Contains(t, m.View(), directory.MsgNotFound)
}

func TestStaleDetailIgnoredAfterBack(t *testing.T) {
	m, client := newModel(t)
	m = mounted(t, m, client, acmeBeta)

	// Start the detail load but hold its result.
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	require.Equal(t, screenDetail, m.screen)

	client.EXPECT().ListCompanies(gomock.Any()).Return(acmeBeta, nil)
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	client.EXPECT().GetCompany(gomock.Any(), "a").Return(model.Company{ID: "a", Name: "Acme"}, nil)
	client.EXPECT().ListCustomers(gomock.Any(), "a").Return(nil, nil)
	client.EXPECT().ListProducts(gomock.Any(), "a").Return(nil, nil)
	client.EXPECT().ListPricingPlans(gomock.Any(), "a").Return(nil, nil)
	for _, msg := range run(cmd) {
		m = send(t, m, msg)
	}

	assert.Equal(t, screenList, m.screen)
	assert.Nil(t, m.detailVM.Data())
}

func TestQuit(t *testing.T) {
	m, _ := newModel(t)
	_, cmd := m.Update(keyRunes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestHelpToggle(t *testing.T) {
	m, _ := newModel(t)
	assert.False(t, m.help.ShowAll)
	m = send(t, m, keyRunes("?"))
	assert.True(t, m.help.ShowAll)
	assert.Contains(t, m.View(), "fine-tuning")
}
