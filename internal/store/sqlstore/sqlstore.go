// Package sqlstore reads the directory tables straight from Postgres
// (lib/pq) or from a local SQLite file (modernc.org/sqlite).
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/Makepad-fr/aidir/internal/directory"
	"github.com/Makepad-fr/aidir/internal/model"
)

type Dialect int

const (
	Postgres Dialect = iota
	SQLite
)

func (d Dialect) String() string {
	if d == SQLite {
		return "sqlite"
	}
	return "postgres"
}

// placeholder returns the n-th (1-based) bind parameter marker.
func (d Dialect) placeholder(n int) string {
	if d == SQLite {
		return "?"
	}
	return "$" + strconv.Itoa(n)
}

// Store implements directory.Client over database/sql.
type Store struct {
	db      *sql.DB
	dialect Dialect
	log     zerolog.Logger
}

var _ directory.Client = (*Store)(nil)

// New wraps an already opened database.
func New(db *sql.DB, d Dialect, logger zerolog.Logger) *Store {
	return &Store{db: db, dialect: d, log: logger}
}

// OpenPostgres connects with a lib/pq DSN and pings once.
func OpenPostgres(ctx context.Context, dsn string, logger zerolog.Logger) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return New(db, Postgres, logger), nil
}

// OpenSQLite opens path (":memory:" works) and creates the tables if they
// are missing.
func OpenSQLite(ctx context.Context, path string, logger zerolog.Logger) (*Store, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One connection: an in-memory database exists per connection.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return New(db, SQLite, logger), nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS ai_companies (
  id                    TEXT PRIMARY KEY,
  name                  TEXT NOT NULL,
  hero_tagline          TEXT,
  sub_tagline           TEXT,
  offers_inference      INTEGER NOT NULL DEFAULT 0 CHECK (offers_inference IN (0,1)),
  offers_gpus           INTEGER NOT NULL DEFAULT 0 CHECK (offers_gpus IN (0,1)),
  offers_web3           INTEGER NOT NULL DEFAULT 0 CHECK (offers_web3 IN (0,1)),
  offers_finetuning     INTEGER NOT NULL DEFAULT 0 CHECK (offers_finetuning IN (0,1)),
  website               TEXT,
  competitive_advantage TEXT,
  products              TEXT,
  created_at            TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
  updated_at            TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_companies_name ON ai_companies(name);
CREATE TABLE IF NOT EXISTS company_customers (
  id         TEXT PRIMARY KEY,
  company_id TEXT NOT NULL,
  customer   TEXT NOT NULL,
  created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_customers_company ON company_customers(company_id);
CREATE TABLE IF NOT EXISTS company_products (
  id          TEXT PRIMARY KEY,
  company_id  TEXT NOT NULL,
  name        TEXT NOT NULL,
  description TEXT,
  created_at  TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
  updated_at  TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_products_company ON company_products(company_id);
CREATE TABLE IF NOT EXISTS company_pricing_models (
  id         TEXT PRIMARY KEY,
  company_id TEXT NOT NULL,
  name       TEXT NOT NULL,
  price      TEXT NOT NULL,
  details    TEXT,
  created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
  updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_pricing_company ON company_pricing_models(company_id);
`

const summarySelect = `SELECT CAST(id AS TEXT), name, COALESCE(hero_tagline, ''), COALESCE(sub_tagline, ''),
  COALESCE(offers_inference, FALSE), COALESCE(offers_gpus, FALSE),
  COALESCE(offers_web3, FALSE), COALESCE(offers_finetuning, FALSE)
FROM ai_companies`

func (s *Store) ListCompanies(ctx context.Context) ([]model.Company, error) {
	const op = "list companies"
	rows, err := s.db.QueryContext(ctx, summarySelect+` ORDER BY name ASC`)
	if err != nil {
		return nil, directory.NewServiceError(op, err)
	}
	defer rows.Close()

	out := []model.Company{}
	for rows.Next() {
		var c model.Company
		if err := rows.Scan(&c.ID, &c.Name, &c.HeroTagline, &c.SubTagline,
			&c.OffersInference, &c.OffersGPUs, &c.OffersWeb3, &c.OffersFinetuning); err != nil {
			return nil, directory.NewServiceError(op, fmt.Errorf("scan: %w", err))
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, directory.NewServiceError(op, err)
	}
	return out, nil
}

func (s *Store) GetCompany(ctx context.Context, id string) (model.Company, error) {
	const op = "get company"
	q := `SELECT CAST(id AS TEXT), name, COALESCE(hero_tagline, ''), COALESCE(sub_tagline, ''),
  COALESCE(offers_inference, FALSE), COALESCE(offers_gpus, FALSE),
  COALESCE(offers_web3, FALSE), COALESCE(offers_finetuning, FALSE),
  COALESCE(website, ''), COALESCE(competitive_advantage, ''), products, created_at, updated_at
FROM ai_companies WHERE CAST(id AS TEXT) = ` + s.dialect.placeholder(1) + ` LIMIT 1`

	var c model.Company
	err := s.db.QueryRowContext(ctx, q, id).Scan(&c.ID, &c.Name, &c.HeroTagline, &c.SubTagline,
		&c.OffersInference, &c.OffersGPUs, &c.OffersWeb3, &c.OffersFinetuning,
		&c.Website, &c.CompetitiveAdvantage,
		productsColumn{&c.Products}, timeColumn{&c.CreatedAt}, timeColumn{&c.UpdatedAt})
	if errors.Is(err, sql.ErrNoRows) {
		return model.Company{}, directory.ErrNotFound
	}
	if err != nil {
		return model.Company{}, directory.NewServiceError(op, err)
	}
	return c, nil
}

func (s *Store) related(table, columns string) string {
	return `SELECT ` + columns + ` FROM ` + table +
		` WHERE CAST(company_id AS TEXT) = ` + s.dialect.placeholder(1) +
		` ORDER BY created_at ASC, id ASC`
}

func (s *Store) ListCustomers(ctx context.Context, companyID string) ([]model.Customer, error) {
	const op = "list customers"
	rows, err := s.db.QueryContext(ctx,
		s.related("company_customers", `CAST(id AS TEXT), CAST(company_id AS TEXT), customer, created_at`), companyID)
	if err != nil {
		return nil, directory.NewServiceError(op, err)
	}
	defer rows.Close()

	out := []model.Customer{}
	for rows.Next() {
		var c model.Customer
		if err := rows.Scan(&c.ID, &c.CompanyID, &c.Name, timeColumn{&c.CreatedAt}); err != nil {
			return nil, directory.NewServiceError(op, fmt.Errorf("scan: %w", err))
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, directory.NewServiceError(op, err)
	}
	return out, nil
}

func (s *Store) ListProducts(ctx context.Context, companyID string) ([]model.Product, error) {
	const op = "list products"
	rows, err := s.db.QueryContext(ctx,
		s.related("company_products",
			`CAST(id AS TEXT), CAST(company_id AS TEXT), name, COALESCE(description, ''), created_at, updated_at`), companyID)
	if err != nil {
		return nil, directory.NewServiceError(op, err)
	}
	defer rows.Close()

	out := []model.Product{}
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.CompanyID, &p.Name, &p.Description,
			timeColumn{&p.CreatedAt}, timeColumn{&p.UpdatedAt}); err != nil {
			return nil, directory.NewServiceError(op, fmt.Errorf("scan: %w", err))
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, directory.NewServiceError(op, err)
	}
	return out, nil
}

func (s *Store) ListPricingPlans(ctx context.Context, companyID string) ([]model.PricingPlan, error) {
	const op = "list pricing plans"
	rows, err := s.db.QueryContext(ctx,
		s.related("company_pricing_models",
			`CAST(id AS TEXT), CAST(company_id AS TEXT), name, price, COALESCE(details, ''), created_at, updated_at`), companyID)
	if err != nil {
		return nil, directory.NewServiceError(op, err)
	}
	defer rows.Close()

	out := []model.PricingPlan{}
	for rows.Next() {
		var p model.PricingPlan
		if err := rows.Scan(&p.ID, &p.CompanyID, &p.Name, &p.Price, &p.Details,
			timeColumn{&p.CreatedAt}, timeColumn{&p.UpdatedAt}); err != nil {
			return nil, directory.NewServiceError(op, fmt.Errorf("scan: %w", err))
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, directory.NewServiceError(op, err)
	}
	return out, nil
}
