package directory

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/Makepad-fr/aidir/internal/model"
)

// ListView is the view-model of the company list. It is owned by a single
// goroutine; only Run may be called from elsewhere.
type ListView struct {
	client Client
	log    zerolog.Logger

	gen    uint64
	phase  Phase
	errMsg string
	filter Filter

	all     []model.Company // source of truth
	visible []model.Company // all, filtered by filter
}

// ListRequest is one pending list load.
type ListRequest struct {
	gen    uint64
	client Client
	log    zerolog.Logger
}

// ListLoaded carries the outcome of a ListRequest back to its view.
type ListLoaded struct {
	gen       uint64
	Companies []model.Company
	Err       error
}

// NewListView creates an idle list view reading from client.
func NewListView(client Client, opts ...Option) *ListView {
	o := buildOptions(opts)
	return &ListView{
		client: client,
		log:    o.log,
		filter: FilterAll,
	}
}

// Mount discards any previous state and starts a new load. Each mount issues
// exactly one query; results of earlier mounts are ignored by Apply.
func (v *ListView) Mount() ListRequest {
	v.gen++
	v.phase = PhaseLoading
	v.errMsg = ""
	v.filter = FilterAll
	v.all = nil
	v.visible = nil
	return ListRequest{gen: v.gen, client: v.client, log: v.log}
}

// Run performs the query. It does not touch the view and is safe to call
// from another goroutine.
func (r ListRequest) Run(ctx context.Context) ListLoaded {
	log := traceLogger(r.log)
	log.Debug().Msg("loading companies")

	companies, err := r.client.ListCompanies(ctx)
	if err != nil {
		log.Error().Err(err).Msg("error fetching companies")
		return ListLoaded{gen: r.gen, Err: err}
	}
	log.Debug().Int("count", len(companies)).Msg("companies loaded")
	return ListLoaded{gen: r.gen, Companies: companies}
}

// Apply settles the view with msg. It returns false, leaving the view
// untouched, when msg belongs to a superseded mount or the view already
// settled.
func (v *ListView) Apply(msg ListLoaded) bool {
	if msg.gen != v.gen || v.phase != PhaseLoading {
		return false
	}
	if msg.Err != nil {
		v.phase = PhaseFailed
		v.errMsg = MsgListFailed
		v.all = []model.Company{}
		v.visible = []model.Company{}
		return true
	}
	v.phase = PhaseReady
	v.all = msg.Companies
	if v.all == nil {
		v.all = []model.Company{}
	}
	v.visible = v.filter.Apply(v.all)
	return true
}

// Load mounts the view and runs the query inline.
func (v *ListView) Load(ctx context.Context) {
	v.Apply(v.Mount().Run(ctx))
}

// SetFilter recomputes the visible set from memory. No I/O.
func (v *ListView) SetFilter(f Filter) {
	v.filter = f
	v.visible = f.Apply(v.all)
}

func (v *ListView) Phase() Phase   { return v.phase }
func (v *ListView) Loading() bool  { return v.phase == PhaseLoading }
func (v *ListView) Err() string    { return v.errMsg }
func (v *ListView) Filter() Filter { return v.filter }

// Companies returns the filtered set in display order.
func (v *ListView) Companies() []model.Company { return v.visible }

// All returns the full loaded set.
func (v *ListView) All() []model.Company { return v.all }

// Counts returns (filtered, total).
func (v *ListView) Counts() (shown, total int) {
	return len(v.visible), len(v.all)
}

// NoMatches reports a settled, successful load whose filtered set is empty.
func (v *ListView) NoMatches() bool {
	return v.phase == PhaseReady && len(v.visible) == 0
}
