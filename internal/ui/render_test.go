package ui

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/Makepad-fr/aidir/internal/directory"
	"github.com/Makepad-fr/aidir/internal/directory/mocks"
	"github.com/Makepad-fr/aidir/internal/model"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func TestCountLine(t *testing.T) {
	assert.Equal(t, "Showing 1 of 2 companies", CountLine(1, 2))
	assert.Equal(t, "Showing 0 of 0 companies", CountLine(0, 0))
}

func TestFilterBar_ListsEveryFilter(t *testing.T) {
	bar := FilterBar(directory.FilterAll)
	for _, label := range []string{"All", "Inference", "GPUs", "Web3", "Fine-tuning"} {
		assert.Contains(t, bar, label)
	}
	assert.Less(t, strings.Index(bar, "All"), strings.Index(bar, "Inference"))
	assert.Less(t, strings.Index(bar, "Web3"), strings.Index(bar, "Fine-tuning"))
}

func TestFilterBar_MonoMarksActive(t *testing.T) {
	SetTheme("mono")
	defer SetTheme("classic")

	bar := FilterBar(directory.FilterFor(model.GPUs))
	assert.Contains(t, bar, "[GPUs]")
	assert.NotContains(t, bar, "[All]")
}

func TestCompanyCard(t *testing.T) {
	card := CompanyCard(model.Company{
		Name: "Acme", HeroTagline: "GPUs by the hour", OffersGPUs: true, OffersFinetuning: true,
	}, 0)
	assert.Contains(t, card, "Acme")
	assert.Contains(t, card, "GPUs by the hour")
	assert.Contains(t, card, "GPUs")
	assert.Contains(t, card, "Fine-tuning")
	assert.NotContains(t, card, "Web3")
	assert.Len(t, strings.Split(card, "\n"), 3, "no sub tagline line")
}

func TestDetail_ZedOmitsEmptySections(t *testing.T) {
	d := &directory.Detail{
		Company:      model.Company{ID: "x", Name: "Zed"},
		Customers:    []model.Customer{},
		Products:     []model.Product{},
		PricingPlans: []model.PricingPlan{{ID: "p", CompanyID: "x", Name: "Pro", Price: "$10"}},
	}
	out := CompanyDetail(d, 0, time.Now())

	assert.Contains(t, out, "Zed")
	assert.Contains(t, out, "Pricing Models")
	assert.Contains(t, out, "Pro")
	assert.Contains(t, out, "$10")
	assert.Contains(t, out, "N/A")
	assert.NotContains(t, out, "Notable Customers")
	assert.NotContains(t, out, "\nProducts\n")
	assert.NotContains(t, out, "Products (from main table)")
	assert.NotContains(t, out, "Website")
}

func TestDetail_FullPage(t *testing.T) {
	now := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	created := now.Add(-72 * time.Hour)
	d := &directory.Detail{
		Company: model.Company{
			ID: "a", Name: "Acme", Website: "https://acme.example",
			CompetitiveAdvantage: "Cheapest spot GPUs.",
			Products:             []string{"Acme Cloud", "Acme Tune"},
			CreatedAt:            &created,
			OffersGPUs:           true,
		},
		Customers:    []model.Customer{{Name: "Initech"}, {Name: "Globex"}},
		Products:     []model.Product{{Name: "Acme Cloud", Description: "On-demand instances."}},
		PricingPlans: []model.PricingPlan{{Name: "Spot", Price: "$1.20/h", Details: "Preemptible"}},
	}
	out := CompanyDetail(d, 0, now)

	for _, want := range []string{
		"Website", "https://acme.example",
		"Competitive Advantage", "Cheapest spot GPUs.",
		"Products (from main table)", "• Acme Tune",
		"Added 3 days ago",
		"On-demand instances.",
		"Preemptible",
		"Notable Customers", "Initech", "Globex",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "N/A")
	// Sections keep the page order: products, pricing, customers.
	assert.Less(t, strings.Index(out, "Pricing Models"), strings.Index(out, "Notable Customers"))
	assert.Less(t, strings.Index(out, "On-demand"), strings.Index(out, "Pricing Models"))
}

func TestCompanyDetail_Nil(t *testing.T) {
	assert.Empty(t, CompanyDetail(nil, 80, time.Now()))
}

func TestCompanyList_Phases(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)
	v := directory.NewListView(client)

	v.Mount()
	assert.Equal(t, MsgLoadingCompanies, CompanyList(v, 0))

	client.EXPECT().ListCompanies(gomock.Any()).Return(nil, errors.New("down"))
	v.Load(context.Background())
	assert.Equal(t, directory.MsgListFailed, CompanyList(v, 0))

	client.EXPECT().ListCompanies(gomock.Any()).Return([]model.Company{
		{ID: "a", Name: "Acme", OffersGPUs: true},
		{ID: "b", Name: "Beta"},
	}, nil)
	v.Load(context.Background())
	out := CompanyList(v, 0)
	assert.Contains(t, out, "Showing 2 of 2 companies")
	assert.Contains(t, out, "Acme")
	assert.Contains(t, out, "Beta")

	v.SetFilter(directory.FilterFor(model.Web3))
	out = CompanyList(v, 0)
	assert.Contains(t, out, "Showing 0 of 2 companies")
	assert.Contains(t, out, MsgNoMatches)
	assert.NotContains(t, out, "Acme")
}

func TestDetailScreen_Phases(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)
	v := directory.NewDetailView(client)

	_, ok := v.Begin("ghost")
	require.True(t, ok)
	assert.Equal(t, MsgLoadingDetail, DetailScreen(v, 0, time.Now()))

	client.EXPECT().GetCompany(gomock.Any(), "ghost").Return(model.Company{}, directory.ErrNotFound)
	v.Load(context.Background(), "ghost")
	out := DetailScreen(v, 0, time.Now())
	assert.Contains(t, out, directory.MsgNotFound)
	assert.Contains(t, out, BackLabel)
}

func TestOKFail(t *testing.T) {
	var buf bytes.Buffer
	OK(&buf, "saved")
	Fail(&buf, "broken")
	assert.Equal(t, "✔ saved\n✖ broken\n", buf.String())
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "█████░░░░░  50%", ProgressBar(1, 2, 10))
	assert.Equal(t, "░░░░░   0%", ProgressBar(0, 0, 1))
	assert.Equal(t, "█████ 100%", ProgressBar(9, 9, 5))
}

func TestPanel(t *testing.T) {
	out := Panel([]string{"hello", "world"}, 0)
	assert.Contains(t, out, "hello")
	assert.True(t, strings.HasPrefix(out, "╭"))

	lines := strings.Split(Panel([]string{"x"}, 20), "\n")
	assert.Equal(t, 20, lipgloss.Width(lines[0]))
}

func TestThemes(t *testing.T) {
	defer SetTheme("classic")
	assert.True(t, KnownTheme("Neon"))
	assert.False(t, KnownTheme("solarized"))
	assert.Equal(t, []string{"classic", "neon", "mono"}, ThemeNames())

	SetTheme("neon")
	assert.Equal(t, "neon", Current().Name)
	SetTheme("solarized")
	assert.Equal(t, "classic", Current().Name)
}
