// Package postgrest reads the directory tables through a Supabase/PostgREST
// REST endpoint.
package postgrest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"github.com/Makepad-fr/aidir/internal/directory"
	"github.com/Makepad-fr/aidir/internal/model"
)

const (
	tableCompanies = "ai_companies"
	tableCustomers = "company_customers"
	tableProducts  = "company_products"
	tablePricing   = "company_pricing_models"

	summaryColumns = "id,name,hero_tagline,sub_tagline,offers_inference,offers_gpus,offers_web3,offers_finetuning"
	relatedOrder   = "created_at.asc,id.asc"

	maxBodyBytes = 8 << 20
)

// Config is what New needs to reach the endpoint.
type Config struct {
	URL     string // project URL, without /rest/v1
	APIKey  string
	Timeout time.Duration
	Retries int

	// RetryWaitMin and RetryWaitMax bound the backoff; zero keeps the
	// retryablehttp defaults.
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
}

// Client implements directory.Client over HTTP.
type Client struct {
	base   string
	apiKey string
	http   *retryablehttp.Client
	log    zerolog.Logger
}

var _ directory.Client = (*Client)(nil)

// New builds a client. Connection errors and 5xx responses are retried up
// to cfg.Retries times.
func New(cfg Config, logger zerolog.Logger) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if base == "" {
		return nil, errors.New("postgrest: empty URL")
	}
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("postgrest: bad URL: %w", err)
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = cfg.Retries
	rc.Logger = leveledLogger{l: logger}
	if cfg.Timeout > 0 {
		rc.HTTPClient.Timeout = cfg.Timeout
	}
	if cfg.RetryWaitMin > 0 {
		rc.RetryWaitMin = cfg.RetryWaitMin
	}
	if cfg.RetryWaitMax > 0 {
		rc.RetryWaitMax = cfg.RetryWaitMax
	}
	// Return the last response instead of a generic "giving up" error so the
	// PostgREST error body can still be decoded.
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &Client{
		base:   base + "/rest/v1/",
		apiKey: cfg.APIKey,
		http:   rc,
		log:    logger,
	}, nil
}

// Close drops idle connections.
func (c *Client) Close() error {
	c.http.HTTPClient.CloseIdleConnections()
	return nil
}

func (c *Client) ListCompanies(ctx context.Context) ([]model.Company, error) {
	const op = "list companies"
	q := url.Values{}
	q.Set("select", summaryColumns)
	q.Set("order", "name.asc")

	rows, err := c.get(ctx, op, tableCompanies, q)
	if err != nil {
		return nil, err
	}
	out := make([]model.Company, 0, len(rows))
	for _, r := range rows {
		out = append(out, decodeCompany(r))
	}
	return out, nil
}

func (c *Client) GetCompany(ctx context.Context, id string) (model.Company, error) {
	const op = "get company"
	q := url.Values{}
	q.Set("select", "*")
	q.Set("id", "eq."+id)
	q.Set("limit", "1")

	rows, err := c.get(ctx, op, tableCompanies, q)
	if err != nil {
		return model.Company{}, err
	}
	if len(rows) == 0 {
		return model.Company{}, directory.ErrNotFound
	}
	return decodeCompany(rows[0]), nil
}

func (c *Client) ListCustomers(ctx context.Context, companyID string) ([]model.Customer, error) {
	rows, err := c.get(ctx, "list customers", tableCustomers, relatedQuery(companyID))
	if err != nil {
		return nil, err
	}
	out := make([]model.Customer, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.Customer{
			ID:        r.Get("id").String(),
			CompanyID: r.Get("company_id").String(),
			Name:      r.Get("customer").String(),
			CreatedAt: timeOf(r.Get("created_at")),
		})
	}
	return out, nil
}

func (c *Client) ListProducts(ctx context.Context, companyID string) ([]model.Product, error) {
	rows, err := c.get(ctx, "list products", tableProducts, relatedQuery(companyID))
	if err != nil {
		return nil, err
	}
	out := make([]model.Product, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.Product{
			ID:          r.Get("id").String(),
			CompanyID:   r.Get("company_id").String(),
			Name:        r.Get("name").String(),
			Description: r.Get("description").String(),
			CreatedAt:   timeOf(r.Get("created_at")),
			UpdatedAt:   timeOf(r.Get("updated_at")),
		})
	}
	return out, nil
}

func (c *Client) ListPricingPlans(ctx context.Context, companyID string) ([]model.PricingPlan, error) {
	rows, err := c.get(ctx, "list pricing plans", tablePricing, relatedQuery(companyID))
	if err != nil {
		return nil, err
	}
	out := make([]model.PricingPlan, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.PricingPlan{
			ID:        r.Get("id").String(),
			CompanyID: r.Get("company_id").String(),
			Name:      r.Get("name").String(),
			Price:     r.Get("price").String(),
			Details:   r.Get("details").String(),
			CreatedAt: timeOf(r.Get("created_at")),
			UpdatedAt: timeOf(r.Get("updated_at")),
		})
	}
	return out, nil
}

func relatedQuery(companyID string) url.Values {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("company_id", "eq."+companyID)
	q.Set("order", relatedOrder)
	return q
}

// get runs one read and returns the rows of the JSON array response.
func (c *Client) get(ctx context.Context, op, table string, q url.Values) ([]gjson.Result, error) {
	u := c.base + table + "?" + q.Encode()
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, directory.NewServiceError(op, err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, directory.NewServiceError(op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, directory.NewServiceError(op, fmt.Errorf("read body: %w", err))
	}
	c.log.Debug().
		Str("table", table).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("postgrest request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, directory.NewServiceError(op, apiError(resp.StatusCode, body))
	}
	if !gjson.ValidBytes(body) {
		return nil, directory.NewServiceError(op, errors.New("invalid JSON response"))
	}
	res := gjson.ParseBytes(body)
	if !res.IsArray() {
		return nil, directory.NewServiceError(op, fmt.Errorf("expected a JSON array, got %s", res.Type))
	}
	return res.Array(), nil
}

// APIError is a non-2xx response. Message and Code come from the PostgREST
// error body when there is one.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "http %d", e.Status)
	if e.Message != "" {
		b.WriteString(": " + e.Message)
	}
	if e.Code != "" {
		b.WriteString(" (" + e.Code + ")")
	}
	return b.String()
}

func apiError(status int, body []byte) error {
	e := &APIError{Status: status}
	if gjson.ValidBytes(body) {
		e.Message = gjson.GetBytes(body, "message").String()
		e.Code = gjson.GetBytes(body, "code").String()
	}
	if e.Message == "" {
		e.Message = strings.TrimSpace(string(body))
		if len(e.Message) > 200 {
			e.Message = e.Message[:200]
		}
	}
	return e
}

func decodeCompany(r gjson.Result) model.Company {
	c := model.Company{
		ID:                   r.Get("id").String(),
		Name:                 r.Get("name").String(),
		HeroTagline:          r.Get("hero_tagline").String(),
		SubTagline:           r.Get("sub_tagline").String(),
		OffersInference:      r.Get("offers_inference").Bool(),
		OffersGPUs:           r.Get("offers_gpus").Bool(),
		OffersWeb3:           r.Get("offers_web3").Bool(),
		OffersFinetuning:     r.Get("offers_finetuning").Bool(),
		Website:              r.Get("website").String(),
		CompetitiveAdvantage: r.Get("competitive_advantage").String(),
		CreatedAt:            timeOf(r.Get("created_at")),
		UpdatedAt:            timeOf(r.Get("updated_at")),
	}
	if p := r.Get("products"); p.IsArray() {
		for _, name := range p.Array() {
			c.Products = append(c.Products, name.String())
		}
	}
	return c
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999-07",
}

// timeOf parses a timestamptz/timestamp column; null or garbage gives nil.
func timeOf(r gjson.Result) *time.Time {
	if r.Type != gjson.String || r.Str == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, r.Str); err == nil {
			return &t
		}
	}
	return nil
}

// leveledLogger routes retryablehttp's own logging into zerolog.
type leveledLogger struct {
	l zerolog.Logger
}

var _ retryablehttp.LeveledLogger = leveledLogger{}

func (z leveledLogger) Error(msg string, kv ...interface{}) { z.l.Error().Fields(kv).Msg(msg) }
func (z leveledLogger) Warn(msg string, kv ...interface{})  { z.l.Warn().Fields(kv).Msg(msg) }
func (z leveledLogger) Info(msg string, kv ...interface{})  { z.l.Debug().Fields(kv).Msg(msg) }
func (z leveledLogger) Debug(msg string, kv ...interface{}) { z.l.Trace().Fields(kv).Msg(msg) }
