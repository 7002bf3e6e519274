package fixture

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/aidir/internal/directory"
)

func load(t *testing.T) *Store {
	t.Helper()
	s, err := Load(filepath.Join("testdata", "companies.yaml"))
	require.NoError(t, err)
	return s
}

func TestListCompanies_SummaryColumnsSortedByName(t *testing.T) {
	s := load(t)
	got, err := s.ListCompanies(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, []string{"Acme Compute", "Beta Labs", "Zed"},
		[]string{got[0].Name, got[1].Name, got[2].Name})
	assert.True(t, got[0].OffersGPUs)
	assert.Equal(t, "H100 and A100 clusters", got[0].SubTagline)
	assert.Empty(t, got[0].Website, "detail columns are not part of the list query")
	assert.Nil(t, got[0].Products)
	assert.Nil(t, got[0].CreatedAt)
}

func TestGetCompany(t *testing.T) {
	s := load(t)
	c, err := s.GetCompany(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "https://acme.example", c.Website)
	assert.Equal(t, []string{"Acme Cloud", "Acme Tune"}, c.Products)
	require.NotNil(t, c.CreatedAt)
	assert.Equal(t, 2024, c.CreatedAt.Year())

	c.Products[0] = "mutated"
	again, _ := s.GetCompany(context.Background(), "a")
	assert.Equal(t, "Acme Cloud", again.Products[0])

	_, err = s.GetCompany(context.Background(), "ghost")
	assert.ErrorIs(t, err, directory.ErrNotFound)
}

func TestRelated(t *testing.T) {
	s := load(t)
	ctx := context.Background()

	customers, err := s.ListCustomers(ctx, "a")
	require.NoError(t, err)
	require.Len(t, customers, 2)
	assert.Equal(t, "Initech", customers[0].Name)
	assert.Equal(t, "Globex", customers[1].Name)

	products, err := s.ListProducts(ctx, "x")
	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)

	plans, err := s.ListPricingPlans(ctx, "x")
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, "Pro", plans[0].Name)
	assert.Equal(t, "$10", plans[0].Price)
}

func TestCanceledContext(t *testing.T) {
	s := load(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.ListCompanies(ctx)
	assert.True(t, directory.IsServiceError(err))
	_, err = s.GetCompany(ctx, "a")
	assert.True(t, directory.IsServiceError(err))
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(" ")
	assert.ErrorIs(t, err, ErrEmptyPath)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("companies: [\n"), 0o644))
	_, err = Load(bad)
	assert.Error(t, err)

	_, err = Parse([]byte("companies:\n  - id: a\n    name: A\n  - id: a\n    name: B\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate id")

	_, err = Parse([]byte("companies:\n  - name: nameless\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty id")
}

func TestInsertedBefore(t *testing.T) {
	s := New(Snapshot{})
	got, err := s.ListPricingPlans(context.Background(), "a")
	require.NoError(t, err)
	assert.Empty(t, got)

	assert.True(t, insertedBefore(nil, nil, "a", "b"))
	assert.False(t, insertedBefore(nil, nil, "b", "a"))
}
