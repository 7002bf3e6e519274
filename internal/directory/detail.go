package directory

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/Makepad-fr/aidir/internal/model"
)

// Detail is a company joined with its related record sets. The sets are
// never nil once loaded; an empty set means "none", not "not loaded".
type Detail struct {
	Company      model.Company       `json:"company"`
	Customers    []model.Customer    `json:"customers"`
	Products     []model.Product     `json:"products"`
	PricingPlans []model.PricingPlan `json:"pricing_plans"`
}

// DetailView is the view-model of the company detail page. Like ListView it
// is owned by one goroutine and only DetailRequest.Run may run elsewhere.
type DetailView struct {
	client Client
	log    zerolog.Logger

	gen      uint64
	id       string
	phase    Phase
	errMsg   string
	notFound bool
	data     *Detail
}

// DetailRequest is one pending detail load.
type DetailRequest struct {
	gen    uint64
	id     string
	client Client
	log    zerolog.Logger
}

// DetailLoaded carries the outcome of a DetailRequest back to its view.
// Err is set only when the primary lookup failed.
type DetailLoaded struct {
	gen    uint64
	ID     string
	Detail Detail
	Err    error
}

// NewDetailView creates an idle detail view reading from client.
func NewDetailView(client Client, opts ...Option) *DetailView {
	o := buildOptions(opts)
	return &DetailView{client: client, log: o.log}
}

// Begin starts loading id, discarding any previous state. A blank id is a
// precondition failure: nothing changes and ok is false.
func (v *DetailView) Begin(id string) (req DetailRequest, ok bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return DetailRequest{}, false
	}
	v.gen++
	v.id = id
	v.phase = PhaseLoading
	v.errMsg = ""
	v.notFound = false
	v.data = nil
	return DetailRequest{gen: v.gen, id: id, client: v.client, log: v.log}, true
}

// Unmount tears the view down. Results still in flight are ignored.
func (v *DetailView) Unmount() {
	v.gen++
	v.id = ""
	v.phase = PhaseIdle
	v.errMsg = ""
	v.notFound = false
	v.data = nil
}

// Run performs the primary lookup and, when it succeeds, the three related
// queries concurrently. A related query failure is logged and yields an
// empty set.
func (r DetailRequest) Run(ctx context.Context) DetailLoaded {
	log := traceLogger(r.log).With().Str("company_id", r.id).Logger()
	out := DetailLoaded{gen: r.gen, ID: r.id}

	company, err := r.client.GetCompany(ctx, r.id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Info().Msg("company not found")
		} else {
			log.Error().Err(err).Msg("error fetching company details")
		}
		out.Err = err
		return out
	}
	out.Detail.Company = company

	var g errgroup.Group
	g.Go(func() error {
		rows, err := r.client.ListCustomers(ctx, r.id)
		out.Detail.Customers = orEmpty(rows, err, log, "customers")
		return nil
	})
	g.Go(func() error {
		rows, err := r.client.ListProducts(ctx, r.id)
		out.Detail.Products = orEmpty(rows, err, log, "products")
		return nil
	})
	g.Go(func() error {
		rows, err := r.client.ListPricingPlans(ctx, r.id)
		out.Detail.PricingPlans = orEmpty(rows, err, log, "pricing_plans")
		return nil
	})
	_ = g.Wait()

	return out
}

func orEmpty[T any](rows []T, err error, log zerolog.Logger, relation string) []T {
	if err != nil {
		log.Warn().Err(err).Str("relation", relation).Msg("error fetching related records")
		return []T{}
	}
	if rows == nil {
		return []T{}
	}
	return rows
}

// Apply settles the view with msg. It returns false, leaving the view
// untouched, when msg belongs to a superseded load or a torn-down view.
func (v *DetailView) Apply(msg DetailLoaded) bool {
	if msg.gen != v.gen || v.phase != PhaseLoading {
		return false
	}
	if msg.Err != nil {
		v.phase = PhaseFailed
		v.notFound = errors.Is(msg.Err, ErrNotFound)
		if v.notFound {
			v.errMsg = MsgNotFound
		} else {
			v.errMsg = MsgDetailFailed
		}
		return true
	}
	d := msg.Detail
	v.phase = PhaseReady
	v.data = &d
	return true
}

// Load begins and runs a load inline. Blank ids are a no-op.
func (v *DetailView) Load(ctx context.Context, id string) {
	req, ok := v.Begin(id)
	if !ok {
		return
	}
	v.Apply(req.Run(ctx))
}

func (v *DetailView) ID() string     { return v.id }
func (v *DetailView) Phase() Phase   { return v.phase }
func (v *DetailView) Loading() bool  { return v.phase == PhaseLoading }
func (v *DetailView) Err() string    { return v.errMsg }
func (v *DetailView) NotFound() bool { return v.notFound }

// Data returns the loaded detail, or nil unless the view is ready.
func (v *DetailView) Data() *Detail { return v.data }
