package directory

import (
	"fmt"
	"strings"

	"github.com/Makepad-fr/aidir/internal/model"
)

// Filter is the single active selection of the list view: either all
// companies or the ones offering one capability.
type Filter struct {
	capability model.Capability
	all        bool
}

// FilterAll selects every company.
var FilterAll = Filter{all: true}

// FilterFor selects companies offering cp.
func FilterFor(cp model.Capability) Filter { return Filter{capability: cp} }

// Filters lists every selection in the order the filter bar shows them.
func Filters() []Filter {
	out := []Filter{FilterAll}
	for _, cp := range model.AllCapabilities {
		out = append(out, FilterFor(cp))
	}
	return out
}

// ParseFilter accepts "all" or a capability key, case-insensitively.
func ParseFilter(s string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return FilterAll, nil
	case "inference":
		return FilterFor(model.Inference), nil
	case "gpus", "gpu":
		return FilterFor(model.GPUs), nil
	case "web3":
		return FilterFor(model.Web3), nil
	case "finetuning", "fine-tuning":
		return FilterFor(model.Finetuning), nil
	}
	return Filter{}, fmt.Errorf("unknown filter %q (want all, inference, gpus, web3 or finetuning)", s)
}

// IsAll reports whether f selects every company.
func (f Filter) IsAll() bool { return f.all }

// Capability returns the selected capability; ok is false for FilterAll.
func (f Filter) Capability() (cp model.Capability, ok bool) {
	return f.capability, !f.all
}

func (f Filter) String() string {
	if f.all {
		return "all"
	}
	return f.capability.Key()
}

// Label is the text of the filter button.
func (f Filter) Label() string {
	if f.all {
		return "All"
	}
	return f.capability.Label()
}

// Match reports whether c satisfies the selection.
func (f Filter) Match(c model.Company) bool {
	return f.all || c.Offers(f.capability)
}

// Apply returns the stable subsequence of companies matching f. The input is
// never modified and the result never aliases it.
func (f Filter) Apply(companies []model.Company) []model.Company {
	out := make([]model.Company, 0, len(companies))
	for _, c := range companies {
		if f.Match(c) {
			out = append(out, c)
		}
	}
	return out
}

// Next and Prev cycle through Filters, wrapping around.
func (f Filter) Next() Filter { return f.step(1) }
func (f Filter) Prev() Filter { return f.step(-1) }

func (f Filter) step(d int) Filter {
	all := Filters()
	for i, x := range all {
		if x == f {
			return all[(i+d+len(all))%len(all)]
		}
	}
	return FilterAll
}
