// Package fixture serves the directory tables from a YAML snapshot file.
package fixture

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Makepad-fr/aidir/internal/directory"
	"github.com/Makepad-fr/aidir/internal/model"
)

// Single file, read once, held in memory. No locking needed.

// Snapshot is the on-disk layout.
type Snapshot struct {
	Companies     []model.Company     `yaml:"companies"`
	Customers     []model.Customer    `yaml:"customers"`
	Products      []model.Product     `yaml:"products"`
	PricingModels []model.PricingPlan `yaml:"pricing_models"`
}

// Store serves a Snapshot. It never changes after Load, so it is safe for
// concurrent use.
type Store struct {
	snap Snapshot
}

var _ directory.Client = (*Store)(nil)

// ErrEmptyPath is returned by Load for a blank path.
var ErrEmptyPath = errors.New("fixture: empty path")

// Load reads and validates the snapshot at path.
func Load(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ErrEmptyPath
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	return Parse(b)
}

// Parse decodes a snapshot from YAML.
func Parse(b []byte) (*Store, error) {
	var snap Snapshot
	if err := yaml.Unmarshal(b, &snap); err != nil {
		return nil, fmt.Errorf("yaml unmarshal: %w", err)
	}
	seen := make(map[string]bool, len(snap.Companies))
	for i, c := range snap.Companies {
		id := strings.TrimSpace(c.ID)
		if id == "" {
			return nil, fmt.Errorf("companies[%d]: empty id", i)
		}
		if seen[id] {
			return nil, fmt.Errorf("companies[%d]: duplicate id %q", i, id)
		}
		seen[id] = true
	}
	return New(snap), nil
}

func New(snap Snapshot) *Store { return &Store{snap: snap} }

func (s *Store) Close() error { return nil }

func (s *Store) ListCompanies(ctx context.Context) ([]model.Company, error) {
	if err := ctx.Err(); err != nil {
		return nil, directory.NewServiceError("list companies", err)
	}
	out := make([]model.Company, 0, len(s.snap.Companies))
	for _, c := range s.snap.Companies {
		out = append(out, summary(c))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) GetCompany(ctx context.Context, id string) (model.Company, error) {
	if err := ctx.Err(); err != nil {
		return model.Company{}, directory.NewServiceError("get company", err)
	}
	for _, c := range s.snap.Companies {
		if c.ID == id {
			c.Products = append([]string(nil), c.Products...)
			return c, nil
		}
	}
	return model.Company{}, directory.ErrNotFound
}

func (s *Store) ListCustomers(ctx context.Context, companyID string) ([]model.Customer, error) {
	if err := ctx.Err(); err != nil {
		return nil, directory.NewServiceError("list customers", err)
	}
	out := []model.Customer{}
	for _, c := range s.snap.Customers {
		if c.CompanyID == companyID {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return insertedBefore(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID)
	})
	return out, nil
}

func (s *Store) ListProducts(ctx context.Context, companyID string) ([]model.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, directory.NewServiceError("list products", err)
	}
	out := []model.Product{}
	for _, p := range s.snap.Products {
		if p.CompanyID == companyID {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return insertedBefore(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID)
	})
	return out, nil
}

func (s *Store) ListPricingPlans(ctx context.Context, companyID string) ([]model.PricingPlan, error) {
	if err := ctx.Err(); err != nil {
		return nil, directory.NewServiceError("list pricing plans", err)
	}
	out := []model.PricingPlan{}
	for _, p := range s.snap.PricingModels {
		if p.CompanyID == companyID {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return insertedBefore(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID)
	})
	return out, nil
}

// summary keeps the columns the list query selects.
func summary(c model.Company) model.Company {
	return model.Company{
		ID:               c.ID,
		Name:             c.Name,
		HeroTagline:      c.HeroTagline,
		SubTagline:       c.SubTagline,
		OffersInference:  c.OffersInference,
		OffersGPUs:       c.OffersGPUs,
		OffersWeb3:       c.OffersWeb3,
		OffersFinetuning: c.OffersFinetuning,
	}
}

// insertedBefore orders by created_at then id. Rows without a timestamp sort
// last, as Postgres does for NULL in ascending order.
func insertedBefore(a, b *time.Time, idA, idB string) bool {
	switch {
	case a == nil && b == nil:
		return idA < idB
	case a == nil:
		return false
	case b == nil:
		return true
	case !a.Equal(*b):
		return a.Before(*b)
	default:
		return idA < idB
	}
}
